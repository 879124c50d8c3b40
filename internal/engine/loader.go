package engine

import (
	"context"
	"sync"

	"github.com/chatpack/cpk/internal/classify"
)

// State is the loader's position in the load lifecycle.
type State int

const (
	StateNotStarted State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Status is a point-in-time snapshot of the loader.
type Status struct {
	State   State
	Err     string // classified message, set only when Failed
	Version string // set only once Ready
	Retries int
}

// Loader owns the engine module's load state: exactly one attempt in
// flight at a time, retries user-triggered and strictly sequential.
// The module handle is exposed only once Ready.
type Loader struct {
	mu     sync.Mutex
	mod    Module
	handle Module // non-nil iff state == StateReady
	state  State
	err    string
	ver    string
	tries  int
	gen    int // bumped per attempt and on Close, to drop stale results
}

// NewLoader wraps mod without starting a load.
func NewLoader(mod Module) *Loader {
	return &Loader{mod: mod}
}

// Start begins the initial load attempt. The returned channel delivers
// one Status when the attempt resolves. If a load is already in flight
// or resolved Ready, Start is a no-op and delivers the current status
// immediately.
func (l *Loader) Start(ctx context.Context) <-chan Status {
	return l.begin(ctx, false)
}

// Retry re-enters the load sequence after a failure, incrementing the
// retry counter. No backoff, no attempt limit.
func (l *Loader) Retry(ctx context.Context) <-chan Status {
	return l.begin(ctx, true)
}

func (l *Loader) begin(ctx context.Context, retry bool) <-chan Status {
	ch := make(chan Status, 1)

	l.mu.Lock()
	if l.state == StateLoading || l.state == StateReady {
		ch <- l.statusLocked()
		l.mu.Unlock()
		return ch
	}
	if retry {
		l.tries++
	}
	l.state = StateLoading
	l.handle = nil
	l.err = ""
	l.gen++
	gen := l.gen
	mod := l.mod
	l.mu.Unlock()

	go func() {
		err := mod.Init(ctx)

		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			// attempt superseded (Close or a newer attempt); its
			// result must not touch state
			ch <- l.statusLocked()
			return
		}
		if err != nil {
			l.state = StateFailed
			l.err = classify.Message(err.Error())
		} else {
			l.state = StateReady
			l.handle = mod
			l.ver = mod.Version()
		}
		ch <- l.statusLocked()
	}()
	return ch
}

// Status returns the current snapshot.
func (l *Loader) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.statusLocked()
}

// Module returns the loaded handle, or false unless the loader is Ready.
func (l *Loader) Module() (Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.handle, l.handle != nil
}

// Close suppresses state updates from any attempt still in flight.
// This is a teardown liveness guard, not cancellation: the attempt's
// goroutine still runs to completion, its result is just dropped.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
}

func (l *Loader) statusLocked() Status {
	return Status{State: l.state, Err: l.err, Version: l.ver, Retries: l.tries}
}
