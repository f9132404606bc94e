package refreshable

import "github.com/softwaretechnik-berlin/refreshable/remote"

// Strategy merges the latest observed state of a fetch into the current value.
//
// The event is the latest observation of the background fetch; current is the value that was displayable
// before it. The returned Pair's Request is RequestPending for a Pending event and RequestInitial otherwise.
//
// Transition must not panic. When it does on a fetch goroutine, the refresh settles with the recovered
// failure instead of a merged value.
type Strategy[E, A any] interface {
	Transition(current, event remote.Data[E, A]) Pair[E, A]
}

// StrategyFunc adapts an ordinary function to a Strategy.
type StrategyFunc[E, A any] func(current, event remote.Data[E, A]) Pair[E, A]

// Transition calls f(current, event).
func (f StrategyFunc[E, A]) Transition(current, event remote.Data[E, A]) Pair[E, A] {
	return f(current, event)
}

var _ Strategy[any, any] = StrategyFunc[any, any](StaleWhileRevalidate[any, any])
var _ Strategy[any, any] = StrategyFunc[any, any](StaleIfError[any, any])

// StaleWhileRevalidate keeps the current value until it is replaced by a newer success or failure:
//
//   - Initial stays Initial, and becomes Pending once a fetch is in flight.
//   - Any loaded value, including a failure, is kept while it is being refreshed.
//   - A new failure replaces the current value, even a successful one.
//
// See StaleIfError for a strategy that prefers a cached success over a new failure.
func StaleWhileRevalidate[E, A any](current, event remote.Data[E, A]) Pair[E, A] {
	return remote.Fold(event,
		func() Pair[E, A] {
			return Pair[E, A]{Current: current, Request: RequestInitial}
		},
		func() Pair[E, A] {
			if current.IsInitial() {
				return Pair[E, A]{Current: remote.Pending[E, A](), Request: RequestPending}
			}
			return Pair[E, A]{Current: current, Request: RequestPending}
		},
		func(e E) Pair[E, A] {
			return Pair[E, A]{Current: remote.Failure[E, A](e), Request: RequestInitial}
		},
		func(a A) Pair[E, A] {
			return Pair[E, A]{Current: remote.Success[E](a), Request: RequestInitial}
		},
	)
}

// StaleIfError keeps a successful value indefinitely unless it is replaced by another success:
//
//   - Initial stays Initial, and becomes Pending once a fetch is in flight.
//   - A failure is only kept until it is refreshed, at which point it falls back to Pending.
//   - A new failure is only shown if there is no previous success.
//
// See StaleWhileRevalidate for a strategy that keeps showing failures while refreshing.
func StaleIfError[E, A any](current, event remote.Data[E, A]) Pair[E, A] {
	return remote.Fold(event,
		func() Pair[E, A] {
			return Pair[E, A]{Current: current, Request: RequestInitial}
		},
		func() Pair[E, A] {
			if current.IsInitial() || current.IsFailure() {
				return Pair[E, A]{Current: remote.Pending[E, A](), Request: RequestPending}
			}
			return Pair[E, A]{Current: current, Request: RequestPending}
		},
		func(e E) Pair[E, A] {
			if current.IsSuccess() {
				return Pair[E, A]{Current: current, Request: RequestInitial}
			}
			return Pair[E, A]{Current: remote.Failure[E, A](e), Request: RequestInitial}
		},
		func(a A) Pair[E, A] {
			return Pair[E, A]{Current: remote.Success[E](a), Request: RequestInitial}
		},
	)
}
