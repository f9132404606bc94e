package refreshable

// Action is what InMemory.Get should do with the pair currently in the store.
type Action int

const (
	// UseCurrent returns the current pair immediately.
	UseCurrent Action = iota
	// TriggerRefreshAndUseCurrent starts a refresh, unless one is in flight, and returns the current pair
	// immediately.
	TriggerRefreshAndUseCurrent
	// WaitForRefresh starts a refresh, unless one is in flight, and waits for the store to change.
	WaitForRefresh
)

// AccessStrategy is a function that determines what should be done when accessing the pair in the store
// using the potentially blocking `Get` function.
//
// It can either return `UseCurrent` to return the current pair immediately,
// or `TriggerRefreshAndUseCurrent` to trigger an asynchronous refresh but immediately return the current pair,
// or `WaitForRefresh` to block until the store has moved on and then decide again.
type AccessStrategy[E, A any] func(current Pair[E, A]) Action

var _ AccessStrategy[any, any] = JustReturn[any, any]

// JustReturn is an AccessStrategy that always returns the current pair without triggering a refresh.
func JustReturn[E, A any](Pair[E, A]) Action {
	return UseCurrent
}

// TriggerStrategy is a function that determines whether to trigger a refresh of the pair in the store.
type TriggerStrategy[E, A any] func(current Pair[E, A]) bool

var _ TriggerStrategy[any, any] = NeverTrigger[any, any]
var _ TriggerStrategy[any, any] = AlwaysTrigger[any, any]
var _ TriggerStrategy[any, any] = TriggerIfInitial[any, any]
var _ TriggerStrategy[any, any] = TriggerIfFailure[any, any]

// NeverTrigger is a TriggerStrategy that never triggers a refresh.
func NeverTrigger[E, A any](Pair[E, A]) bool {
	return false
}

// AlwaysTrigger is a TriggerStrategy that always triggers a refresh.
func AlwaysTrigger[E, A any](Pair[E, A]) bool {
	return true
}

// TriggerIfInitial is a TriggerStrategy that triggers a refresh if nothing has been requested yet.
func TriggerIfInitial[E, A any](current Pair[E, A]) bool {
	return current.Current.IsInitial()
}

// TriggerIfFailure is a TriggerStrategy that triggers a refresh if the current value is a failure.
func TriggerIfFailure[E, A any](current Pair[E, A]) bool {
	return current.Current.IsFailure()
}

// AsNonBlockingAccessStrategy promotes a trigger strategy to an access strategy that never waits.
func AsNonBlockingAccessStrategy[E, A any](trigger TriggerStrategy[E, A]) AccessStrategy[E, A] {
	return func(current Pair[E, A]) Action {
		return nonBlockingAction(trigger, current)
	}
}

func nonBlockingAction[E, A any](trigger TriggerStrategy[E, A], current Pair[E, A]) Action {
	if trigger(current) {
		return TriggerRefreshAndUseCurrent
	}
	return UseCurrent
}

// AccessStrategyFromTriggerStrategyAndWaitPredicate builds an access strategy that waits for a refresh while
// shouldWait holds, and otherwise triggers a refresh without waiting if trigger says so.
func AccessStrategyFromTriggerStrategyAndWaitPredicate[E, A any](
	trigger TriggerStrategy[E, A],
	shouldWait func(current Pair[E, A]) bool,
) AccessStrategy[E, A] {
	return func(current Pair[E, A]) Action {
		if shouldWait(current) {
			return WaitForRefresh
		}
		return nonBlockingAction(trigger, current)
	}
}

// IsUnsettled reports whether no success or failure is available yet.
func IsUnsettled[E, A any](current Pair[E, A]) bool {
	return current.Current.IsInitial() || current.Current.IsPending()
}

// WaitWhileUnsettled waits for a refresh while the current value is Initial or Pending,
// and defers to otherwise once a success or failure is available.
func WaitWhileUnsettled[E, A any](otherwise AccessStrategy[E, A]) AccessStrategy[E, A] {
	return func(current Pair[E, A]) Action {
		if IsUnsettled(current) {
			return WaitForRefresh
		}
		return otherwise(current)
	}
}
