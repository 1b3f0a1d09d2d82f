package viewmodel

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"pokedex-list-backend/internal/model"
)

var (
	// ErrClosed is returned by operations on a torn-down view model.
	ErrClosed = errors.New("view model closed")
	// ErrLoadInFlight is returned by Reload while a fetch is running.
	ErrLoadInFlight = errors.New("load already in flight")
)

// Phase is the loading status of a list view.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseFailed  Phase = "failed"
)

// State is an immutable snapshot of a list view. Entities keeps the last
// successfully loaded list while loading or after a failure.
type State struct {
	Phase    Phase
	Entities []model.Pokemon
	Err      error
	Version  uint64
}

// Loader produces the entity list for one fetch.
type Loader interface {
	Load(ctx context.Context, limit int) ([]model.Pokemon, error)
}

// ListViewModel owns the list state of one view. Only a fetch completion
// changes the entities, and at most one fetch runs at a time.
type ListViewModel struct {
	loader Loader
	limit  int
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	state    State
	appeared bool
	closed   bool
	subs     map[uint64]chan State
	nextSub  uint64
}

// New creates an idle view model. Canceling parent tears it down like Close.
func New(parent context.Context, loader Loader, limit int, logger *zap.Logger) *ListViewModel {
	ctx, cancel := context.WithCancel(parent)
	vm := &ListViewModel{
		loader: loader,
		limit:  limit,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		state:  State{Phase: PhaseIdle},
		subs:   make(map[uint64]chan State),
	}
	context.AfterFunc(ctx, vm.Close)
	return vm
}

// State returns the current snapshot.
func (vm *ListViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Appear marks the view visible. The first call starts the fetch; later calls
// do nothing. It reports whether a fetch was started.
func (vm *ListViewModel) Appear() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed || vm.appeared {
		return false
	}
	vm.appeared = true
	vm.startLocked()
	return true
}

// Reload starts a new fetch on explicit request.
func (vm *ListViewModel) Reload() error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return ErrClosed
	}
	if vm.state.Phase == PhaseLoading {
		return ErrLoadInFlight
	}
	vm.appeared = true
	vm.startLocked()
	return nil
}

func (vm *ListViewModel) startLocked() {
	vm.setLocked(State{Phase: PhaseLoading, Entities: vm.state.Entities})

	vm.wg.Add(1)
	go vm.run(vm.ctx)
}

func (vm *ListViewModel) run(ctx context.Context) {
	defer vm.wg.Done()

	entities, err := vm.loader.Load(ctx, vm.limit)

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed || ctx.Err() != nil {
		vm.logger.Debug("discarding fetch result for torn-down view", zap.Error(err))
		return
	}
	if err != nil {
		vm.setLocked(State{Phase: PhaseFailed, Entities: vm.state.Entities, Err: err})
		return
	}
	vm.setLocked(State{Phase: PhaseLoaded, Entities: entities})
}

// setLocked replaces the state and notifies subscribers.
func (vm *ListViewModel) setLocked(s State) {
	s.Version = vm.state.Version + 1
	vm.state = s
	for _, ch := range vm.subs {
		offerLatest(ch, s)
	}
}

// offerLatest replaces whatever is buffered in ch with s.
func offerLatest(ch chan State, s State) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

// Subscribe returns a channel that yields the current state and then every
// change. Slow readers only see the latest state. The channel is closed by
// the returned cancel func or when the view model is closed.
func (vm *ListViewModel) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	ch <- vm.state
	if vm.closed {
		close(ch)
		return ch, func() {}
	}

	id := vm.nextSub
	vm.nextSub++
	vm.subs[id] = ch

	return ch, func() {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		if c, ok := vm.subs[id]; ok {
			delete(vm.subs, id)
			close(c)
		}
	}
}

// Close tears the view down: the in-flight fetch is canceled and its result
// discarded, and every subscription is closed.
func (vm *ListViewModel) Close() {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	vm.closed = true
	vm.cancel()
	for id, ch := range vm.subs {
		delete(vm.subs, id)
		close(ch)
	}
	vm.mu.Unlock()
}

// Closed reports whether Close has been called.
func (vm *ListViewModel) Closed() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.closed
}

// Wait blocks until no fetch goroutine is running.
func (vm *ListViewModel) Wait() {
	vm.wg.Wait()
}
