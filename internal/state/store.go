package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrStopped is returned by Store methods once Run has returned
var ErrStopped = errors.New("state store stopped")

// Store owns an AppState on the goroutine that calls Run. Dispatched actions
// and effect results are reduced one at a time; effects run on their own
// goroutines. The TUI does not need a Store because bubbletea's Update loop
// already serializes Reduce calls.
type Store struct {
	state  *AppState
	env    *Environment
	logger *slog.Logger

	inbox   chan Action
	results chan tea.Msg
	reads   chan func(*AppState)
	settle  chan chan struct{}
	done    chan struct{}

	pending int
	waiters []chan struct{}
}

// NewStore wraps s. s must not be touched by anyone else once Run starts.
func NewStore(s *AppState, env *Environment) *Store {
	return &Store{
		state:   s,
		env:     env,
		logger:  env.logger(),
		inbox:   make(chan Action),
		results: make(chan tea.Msg),
		reads:   make(chan func(*AppState)),
		settle:  make(chan chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run processes actions until ctx is cancelled. Effects still in flight are
// waited for, and their results discarded, before Run returns.
func (st *Store) Run(ctx context.Context) error {
	defer close(st.done)

	for {
		select {
		case <-ctx.Done():
			st.drain()
			return ctx.Err()

		case a := <-st.inbox:
			st.apply(a)

		case msg := <-st.results:
			st.pending--
			st.handle(msg)

		case fn := <-st.reads:
			fn(st.state)

		case ch := <-st.settle:
			st.waiters = append(st.waiters, ch)
		}

		if st.pending == 0 && len(st.waiters) > 0 {
			for _, ch := range st.waiters {
				close(ch)
			}
			st.waiters = nil
		}
	}
}

func (st *Store) drain() {
	for st.pending > 0 {
		<-st.results
		st.pending--
	}
}

func (st *Store) apply(a Action) {
	st.launch(Reduce(st.state, a, st.env))
}

func (st *Store) launch(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	st.pending++
	go func() {
		st.results <- cmd()
	}()
}

func (st *Store) handle(msg tea.Msg) {
	switch msg := msg.(type) {
	case nil:
	case Action:
		st.apply(msg)
	case tea.BatchMsg:
		for _, cmd := range msg {
			st.launch(cmd)
		}
	default:
		st.logger.Debug("ignoring non-action message", "type", fmt.Sprintf("%T", msg))
	}
}

// Dispatch queues a for reduction. It returns once the reducer has taken it.
func (st *Store) Dispatch(ctx context.Context, a Action) error {
	select {
	case st.inbox <- a:
		return nil
	case <-st.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Read calls fn with the state on the owning goroutine. fn must not retain
// the pointer.
func (st *Store) Read(ctx context.Context, fn func(*AppState)) error {
	finished := make(chan struct{})
	wrapped := func(s *AppState) {
		defer close(finished)
		fn(s)
	}
	select {
	case st.reads <- wrapped:
	case <-st.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Settle blocks until no effects are in flight
func (st *Store) Settle(ctx context.Context) error {
	ch := make(chan struct{})
	select {
	case st.settle <- ch:
	case <-st.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ch:
		return nil
	case <-st.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DispatchAndSettle dispatches a and waits for every effect it starts
func (st *Store) DispatchAndSettle(ctx context.Context, a Action) error {
	if err := st.Dispatch(ctx, a); err != nil {
		return err
	}
	return st.Settle(ctx)
}
