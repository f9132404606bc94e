package refreshable

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/softwaretechnik-berlin/refreshable/remote"
)

// Store holds the latest Pair for a single remote value and feeds it back into the next refresh.
type Store[E, A any] interface {
	// Get returns the current pair, as decided by the access strategy; it may block waiting for a refresh.
	Get(ctx context.Context, accessStrategy AccessStrategy[E, A]) (Pair[E, A], error)

	// GetImmediately returns the current pair without blocking, triggering a refresh if the trigger strategy
	// says so.
	GetImmediately(triggerStrategy TriggerStrategy[E, A]) Pair[E, A]

	// Peek returns the current pair without triggering a refresh.
	Peek() Pair[E, A]

	// Refresh starts a refresh unless one is in flight, and returns the refresh's Eventual.
	Refresh() *Eventual[E, A]
}

// InMemory is a threadsafe in-memory implementation of Store.
type InMemory[E, A any] struct {
	// The current state of the store.
	state atomic.Pointer[inMemoryState[E, A]]

	// The context handed to every fetch.
	//nolint:containedctx
	fetchCtx context.Context

	fetch  Fetch[E, A]
	config *config[E, A]
}

var _ Store[any, any] = (*InMemory[any, any])(nil)

// NewInMemory returns a new InMemory Store that starts out with nothing requested.
//
// There will only ever be one fetch in flight at any given time.
// If multiple goroutines trigger a refresh concurrently, a single one of them will start the fetch,
// and the others will share its outcome.
func NewInMemory[E, A any](fetchCtx context.Context, fetch Fetch[E, A], opts ...Option[E, A]) *InMemory[E, A] {
	return NewInMemoryWithInitialValue(fetchCtx, remote.Initial[E, A](), fetch, opts...)
}

// NewInMemoryWithInitialValue returns a new InMemory Store that starts out with the given value,
// for example one restored from elsewhere.
//
// There will only ever be one fetch in flight at any given time.
func NewInMemoryWithInitialValue[E, A any](
	fetchCtx context.Context,
	initialValue remote.Data[E, A],
	fetch Fetch[E, A],
	opts ...Option[E, A],
) *InMemory[E, A] {
	im := &InMemory[E, A]{fetchCtx: fetchCtx, fetch: fetch, config: newConfig(opts)}
	im.state.Store(newInMemoryState(FromRemoteData(initialValue), nil))
	return im
}

// Get returns a pair from the store.
//
// The pair currently in the store is passed to the given access strategy to determine what should be done.
//
// If the access strategy returns `UseCurrent`, the pair currently in the store will be returned immediately.
//
// If the access strategy returns `TriggerRefreshAndUseCurrent`,
// the store will trigger an asynchronous refresh if this is not already in progress,
// and the pair currently in the store will be returned immediately.
//
// If the access strategy returns `WaitForRefresh`, the store will trigger a refresh if this is not already in
// progress, and block until the pair in the store is replaced;
// the process then begins again with the new pair being passed to the access strategy.
// During the waiting, if the context is cancelled, the context error will be returned along with the last
// considered pair.
func (m *InMemory[E, A]) Get(ctx context.Context, accessStrategy AccessStrategy[E, A]) (Pair[E, A], error) {
	for {
		state := m.state.Load()
		action := accessStrategy(state.pair)
		if action > UseCurrent {
			m.trigger(state)
		}
		if action < WaitForRefresh {
			return state.pair, nil
		}
		select {
		case <-ctx.Done():
			return state.pair, fmt.Errorf("cancelled get context interrupted store get wait: %w", ctx.Err())
		case <-m.fetchCtx.Done():
			return state.pair, fmt.Errorf("cancelled fetch context interrupted store get wait: %w", m.fetchCtx.Err())
		case <-state.replaced:
		}
	}
}

// GetImmediately returns the current pair without blocking or potentially failing.
//
// The pair currently in the store is passed to the given trigger strategy to determine whether a refresh should
// be triggered before returning. The returned pair is the one the strategy was given.
func (m *InMemory[E, A]) GetImmediately(triggerStrategy TriggerStrategy[E, A]) Pair[E, A] {
	state := m.state.Load()
	if triggerStrategy(state.pair) {
		m.trigger(state)
	}
	return state.pair
}

// Peek returns the current pair without triggering a refresh.
func (m *InMemory[E, A]) Peek() Pair[E, A] {
	return m.state.Load().pair
}

// Refresh starts a refresh unless one is already in flight.
//
// The returned Eventual belongs to the refresh that is in flight afterwards, whether this call started it or not.
func (m *InMemory[E, A]) Refresh() *Eventual[E, A] {
	for {
		if eventual, ok := m.trigger(m.state.Load()); ok {
			return eventual
		}
	}
}

// trigger starts a refresh from current, unless current is already refreshing or has been replaced meanwhile.
// It returns the Eventual of the refresh in flight from current, if any.
func (m *InMemory[E, A]) trigger(current *inMemoryState[E, A]) (*Eventual[E, A], bool) {
	if current.pair.IsRefreshing() {
		return current.eventual, true
	}
	next, eventual, launch := m.config.begin(m.fetchCtx, current.pair, m.fetch)
	refreshing := newInMemoryState(next, eventual)
	if !m.replace(current, refreshing) {
		return nil, false
	}
	launch(func(final Pair[E, A]) {
		m.replace(refreshing, newInMemoryState(final, nil))
	})
	return eventual, true
}

func (m *InMemory[E, A]) replace(old, new *inMemoryState[E, A]) bool {
	if !m.state.CompareAndSwap(old, new) {
		return false
	}
	log.Debugw("Store state replaced", "from", old.pair, "to", new.pair)
	close(old.replaced)
	return true
}

type inMemoryState[E, A any] struct {
	// pair is the pair in the store for this state.
	pair Pair[E, A]

	// eventual is the refresh in flight; it is only set if pair is refreshing.
	eventual *Eventual[E, A]

	// replaced is a latch indicating when this state has been replaced by a newer one.
	replaced chan struct{}
}

func newInMemoryState[E, A any](pair Pair[E, A], eventual *Eventual[E, A]) *inMemoryState[E, A] {
	return &inMemoryState[E, A]{
		pair:     pair,
		eventual: eventual,
		replaced: make(chan struct{}),
	}
}
