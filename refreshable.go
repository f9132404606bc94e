// Package refreshable holds a remotely fetched value while it is being refreshed, without losing the previously
// known value.
//
// A Pair combines the Current value, which is the best value to display, with a Request that tracks whether a
// background fetch is outstanding. A Strategy decides how the outcome of a fetch is merged into Current, and
// RefreshRequest drives a single asynchronous fetch through a Pair, making sure at most one is in flight.
package refreshable

import (
	"fmt"

	"github.com/softwaretechnik-berlin/refreshable/remote"
)

// Request tracks whether a background fetch is outstanding.
//
// It only has the two cases a fetch can be in while it is tracked; a completed fetch is always folded into
// Pair.Current and the Request is reset to RequestInitial in the same transition.
type Request uint8

const (
	// RequestInitial means no fetch is outstanding.
	RequestInitial Request = iota
	// RequestPending means a fetch is outstanding.
	RequestPending
)

func (r Request) String() string {
	if r == RequestPending {
		return "Pending"
	}
	return "Initial"
}

// Pair is a remote value that can be refreshed without losing the existing state.
//
// Pairs are values; every transition returns a new Pair.
type Pair[E, A any] struct {
	// Current is the latest loaded (possibly stale) value.
	Current remote.Data[E, A]

	// Request tracks the background fetch that will be used to refresh Current.
	Request Request
}

// FromRemoteData returns a Pair with the given current value and no outstanding request.
func FromRemoteData[E, A any](current remote.Data[E, A]) Pair[E, A] {
	return Pair[E, A]{Current: current, Request: RequestInitial}
}

// IsRefreshing reports whether a fetch is outstanding, in which case no further fetches should be started.
func (p Pair[E, A]) IsRefreshing() bool {
	return p.Request == RequestPending
}

// RequestData returns Request as remote Data: Initial or Pending, never Failure or Success.
func (p Pair[E, A]) RequestData() remote.Data[E, A] {
	if p.IsRefreshing() {
		return remote.Pending[E, A]()
	}
	return remote.Initial[E, A]()
}

func (p Pair[E, A]) String() string {
	return fmt.Sprintf("{current: %v, request: %v}", p.Current, p.Request)
}
