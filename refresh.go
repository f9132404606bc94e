package refreshable

import "github.com/softwaretechnik-berlin/refreshable/remote"

// Updater computes the next Pair from the latest observed state of a fetch.
type Updater[E, A any] func(event remote.Data[E, A]) Pair[E, A]

// Refresher binds a Pair to an Updater.
type Refresher[E, A any] func(p Pair[E, A]) Updater[E, A]

var _ Refresher[any, any] = Refresh[any, any]
var _ Refresher[any, any] = RefreshStaleIfError[any, any]

// RefreshWithStrategy builds a Refresher that updates a Pair using the given strategy.
//
// Only the Pair's Current value is passed on to the strategy; whether a request was outstanding doesn't matter
// for computing the next state. A nil strategy, or a nil StrategyFunc, means StaleWhileRevalidate.
func RefreshWithStrategy[E, A any](strategy Strategy[E, A]) Refresher[E, A] {
	if f, ok := strategy.(StrategyFunc[E, A]); strategy == nil || ok && f == nil {
		strategy = StrategyFunc[E, A](StaleWhileRevalidate[E, A])
	}
	return func(p Pair[E, A]) Updater[E, A] {
		current := p.Current
		return func(event remote.Data[E, A]) Pair[E, A] {
			return strategy.Transition(current, event)
		}
	}
}

// Refresh transitions p to the next state using StaleWhileRevalidate.
func Refresh[E, A any](p Pair[E, A]) Updater[E, A] {
	return RefreshStaleWhileRevalidate(p)
}

// RefreshStaleWhileRevalidate transitions p to the next state using StaleWhileRevalidate.
func RefreshStaleWhileRevalidate[E, A any](p Pair[E, A]) Updater[E, A] {
	return RefreshWithStrategy[E, A](StrategyFunc[E, A](StaleWhileRevalidate[E, A]))(p)
}

// RefreshStaleIfError transitions p to the next state using StaleIfError.
func RefreshStaleIfError[E, A any](p Pair[E, A]) Updater[E, A] {
	return RefreshWithStrategy[E, A](StrategyFunc[E, A](StaleIfError[E, A]))(p)
}
