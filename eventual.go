package refreshable

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"
)

var alreadySettled <-chan struct{}

func init() {
	closedChannel := make(chan struct{})
	close(closedChannel)
	alreadySettled = closedChannel
}

// Eventual is the final Pair of a refresh, available once the fetch behind it has settled.
//
// An Eventual settles exactly once, and never with an error: failures of the fetch are part of the Pair.
type Eventual[E, A any] struct {
	id ulid.ULID

	// settled is a latch indicating when the final pair is available.
	settled <-chan struct{}

	// pair is not readable before the settled channel is closed, and is immutable thereafter.
	pair Pair[E, A]
}

// Settled returns an Eventual that has already settled with p.
func Settled[E, A any](p Pair[E, A]) *Eventual[E, A] {
	return &Eventual[E, A]{settled: alreadySettled, pair: p}
}

func newEventual[E, A any]() (*Eventual[E, A], func(Pair[E, A])) {
	settled := make(chan struct{})
	e := &Eventual[E, A]{id: ulid.Make(), settled: settled}
	return e, func(p Pair[E, A]) {
		e.pair = p
		close(settled)
	}
}

// ID identifies the refresh behind e. It is the zero ULID for an Eventual returned by Settled.
func (e *Eventual[E, A]) ID() ulid.ULID {
	return e.id
}

// Done returns a channel that is closed once e has settled.
func (e *Eventual[E, A]) Done() <-chan struct{} {
	return e.settled
}

// Peek returns the final Pair if e has settled.
func (e *Eventual[E, A]) Peek() (p Pair[E, A], isSettled bool) {
	select {
	case <-e.settled:
		return e.pair, true
	default:
		return p, false
	}
}

// Await blocks until e has settled and returns the final Pair.
//
// If the context is cancelled first, the context error is returned; the refresh itself carries on.
func (e *Eventual[E, A]) Await(ctx context.Context) (Pair[E, A], error) {
	if p, isSettled := e.Peek(); isSettled {
		return p, nil
	}
	select {
	case <-e.settled:
		return e.pair, nil
	case <-ctx.Done():
		return Pair[E, A]{}, fmt.Errorf("cancelled context interrupted refresh wait: %w", ctx.Err())
	}
}
