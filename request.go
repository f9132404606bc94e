package refreshable

import (
	"context"
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/oklog/ulid/v2"

	"github.com/softwaretechnik-berlin/refreshable/remote"
)

var log = logging.Logger("refreshable")

// Fetch is a deferred fetch of a remote value. It is invoked at most once per refresh.
//
// A Fetch reports its outcome as an Either. A Fetch that panics instead is treated as failed, with the panic
// reason converted into the error payload.
type Fetch[E, A any] func(ctx context.Context) remote.Either[E, A]

// FetchResult adapts a function following Go's (value, error) convention to a Fetch.
func FetchResult[A any](f func(ctx context.Context) (A, error)) Fetch[error, A] {
	return func(ctx context.Context) remote.Either[error, A] {
		a, err := f(ctx)
		return remote.EitherFromResult(a, err)
	}
}

// ErrFetchExited is the reason handed to the recover function when a Fetch ends its goroutine without returning
// or panicking, as runtime.Goexit does.
var ErrFetchExited = errors.New("fetch exited without returning")

// PanicError is the failure recorded for a Fetch that panicked with a reason that is not itself an error.
type PanicError struct {
	Reason any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("fetch panicked: %v", e.Reason)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Reason.(error)
	return err
}

type config[E, A any] struct {
	refresher Refresher[E, A]
	recoverFn func(reason any) E
}

func newConfig[E, A any](opts []Option[E, A]) *config[E, A] {
	c := &config[E, A]{
		refresher: Refresh[E, A],
		recoverFn: recoverAs[E],
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures RefreshRequest and InMemory.
type Option[E, A any] func(*config[E, A])

// WithStrategy sets the strategy used to merge fetch results. The default is StaleWhileRevalidate.
func WithStrategy[E, A any](strategy Strategy[E, A]) Option[E, A] {
	return func(c *config[E, A]) {
		c.refresher = RefreshWithStrategy(strategy)
	}
}

// WithRecover sets the function that converts the reason of a panicking Fetch into a failure.
//
// By default the reason is used as is if it is an E. Otherwise it is wrapped in a *PanicError if E accepts
// errors, or formatted if E is a string. Failing that, the zero E is used.
func WithRecover[E, A any](fn func(reason any) E) Option[E, A] {
	return func(c *config[E, A]) {
		if fn != nil {
			c.recoverFn = fn
		}
	}
}

func recoverAs[E any](reason any) E {
	if e, ok := reason.(E); ok {
		return e
	}
	if e, ok := any(&PanicError{Reason: reason}).(E); ok {
		return e
	}
	if e, ok := any(fmt.Sprint(reason)).(E); ok {
		return e
	}
	var zero E
	return zero
}

// RefreshRequest transitions p to the next state using a fetch.
//
// The first returned value is the intermediary "refreshing" state, available immediately. The Eventual settles
// with the final state once the fetch has completed, whether it succeeded, failed, panicked or exited its
// goroutine.
//
// If p is already refreshing, the fetch is not invoked, and p is returned together with an Eventual that has
// already settled with p. There is never more than one fetch in flight for a Pair.
//
// The context is handed to the fetch. Nothing here cancels a fetch once it has been started.
func RefreshRequest[E, A any](
	ctx context.Context,
	p Pair[E, A],
	fetch Fetch[E, A],
	opts ...Option[E, A],
) (Pair[E, A], *Eventual[E, A]) {
	next, eventual, launch := newConfig(opts).begin(ctx, p, fetch)
	if launch != nil {
		launch(nil)
	}
	return next, eventual
}

// begin computes the refreshing state for p without invoking the fetch yet.
// launch is nil if p is already refreshing; otherwise it starts the fetch, and calls beforeSettle, if not nil,
// with the final pair right before the Eventual settles.
func (c *config[E, A]) begin(
	ctx context.Context,
	p Pair[E, A],
	fetch Fetch[E, A],
) (next Pair[E, A], eventual *Eventual[E, A], launch func(beforeSettle func(Pair[E, A]))) {
	if p.IsRefreshing() {
		log.Debugw("Refresh already in flight, not fetching", "current", p.Current.Kind())
		return p, Settled(p), nil
	}

	next = c.refresher(p)(remote.Pending[E, A]())
	refreshNext := c.refresher(next)
	eventual, settle := newEventual[E, A]()
	launch = func(beforeSettle func(Pair[E, A])) {
		log.Debugw("Refresh started", "refresh", eventual.ID(), "current", next.Current.Kind())
		go func() {
			var event remote.Data[E, A]
			completed := false
			// deferred so that a fetch leaving through runtime.Goexit still settles
			defer func() {
				if !completed {
					log.Warnw("Fetch exited without returning, recording failure", "refresh", eventual.ID())
					event = remote.Failure[E, A](c.recoverFn(ErrFetchExited))
				}
				final := c.transition(refreshNext, event, eventual.ID())
				log.Debugw("Refresh settled", "refresh", eventual.ID(), "event", event.Kind(), "current", final.Current.Kind())
				if beforeSettle != nil {
					beforeSettle(final)
				}
				settle(final)
			}()
			event = c.run(ctx, fetch, eventual.ID())
			completed = true
		}()
	}
	return next, eventual, launch
}

func (c *config[E, A]) run(ctx context.Context, fetch Fetch[E, A], id ulid.ULID) (event remote.Data[E, A]) {
	defer func() {
		if reason := recover(); reason != nil {
			log.Warnw("Fetch panicked, recording failure", "refresh", id, "reason", reason)
			event = remote.Failure[E, A](c.recoverFn(reason))
		}
	}()
	return remote.FromEither(fetch(ctx))
}

// transition applies the strategy to event. A panicking strategy yields the recovered failure, with nothing
// requested.
func (c *config[E, A]) transition(refreshNext Updater[E, A], event remote.Data[E, A], id ulid.ULID) (final Pair[E, A]) {
	defer func() {
		if reason := recover(); reason != nil {
			log.Warnw("Strategy panicked, recording failure", "refresh", id, "reason", reason)
			final = FromRemoteData(remote.Failure[E, A](c.recoverFn(reason)))
		}
	}()
	return refreshNext(event)
}
