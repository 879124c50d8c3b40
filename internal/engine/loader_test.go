package engine

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeModule is a deterministic stand-in for the external engine.
type fakeModule struct {
	initErr error
	gate    chan struct{} // when non-nil, Init blocks until closed
	inits   int
	version string
}

func (f *fakeModule) Init(ctx context.Context) error {
	f.inits++
	if f.gate != nil {
		<-f.gate
	}
	return f.initErr
}

func (f *fakeModule) Convert(input, source, format string, timestamps, replays bool) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeModule) Version() string { return f.version }

func TestLoaderInitialState(t *testing.T) {
	t.Parallel()

	l := NewLoader(&fakeModule{})
	st := l.Status()
	if st.State != StateNotStarted {
		t.Errorf("state = %v, want %v", st.State, StateNotStarted)
	}
	if _, ok := l.Module(); ok {
		t.Error("Module() available before load")
	}
}

func TestLoaderSuccess(t *testing.T) {
	t.Parallel()

	mod := &fakeModule{version: "0.3.1"}
	l := NewLoader(mod)

	st := <-l.Start(context.Background())
	if st.State != StateReady {
		t.Fatalf("state = %v, want %v", st.State, StateReady)
	}
	if st.Version != "0.3.1" {
		t.Errorf("version = %q, want %q", st.Version, "0.3.1")
	}
	if st.Err != "" {
		t.Errorf("err = %q, want empty", st.Err)
	}
	if _, ok := l.Module(); !ok {
		t.Error("Module() unavailable after Ready")
	}
}

func TestLoaderFailureClassifiesError(t *testing.T) {
	t.Parallel()

	mod := &fakeModule{initErr: errors.New("Unknown source: foo")}
	l := NewLoader(mod)

	st := <-l.Start(context.Background())
	if st.State != StateFailed {
		t.Fatalf("state = %v, want %v", st.State, StateFailed)
	}
	want := "Unknown source. Supported: Telegram, WhatsApp, Instagram, Discord"
	if st.Err != want {
		t.Errorf("err = %q, want %q", st.Err, want)
	}
	if _, ok := l.Module(); ok {
		t.Error("Module() available after failure")
	}
}

func TestLoaderRetry(t *testing.T) {
	t.Parallel()

	mod := &fakeModule{initErr: errors.New("engine init failed: no binary")}
	l := NewLoader(mod)

	st := <-l.Start(context.Background())
	if st.State != StateFailed {
		t.Fatalf("state = %v, want %v", st.State, StateFailed)
	}
	if st.Retries != 0 {
		t.Errorf("retries = %d, want 0", st.Retries)
	}

	// Engine becomes available; retry must recover.
	mod.initErr = nil
	mod.version = "0.3.1"
	st = <-l.Retry(context.Background())
	if st.State != StateReady {
		t.Fatalf("after retry: state = %v, want %v", st.State, StateReady)
	}
	if st.Retries != 1 {
		t.Errorf("retries = %d, want 1", st.Retries)
	}
	if mod.inits != 2 {
		t.Errorf("inits = %d, want 2", mod.inits)
	}
}

func TestLoaderRetryReentersLoading(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	mod := &fakeModule{initErr: errors.New("boom")}
	l := NewLoader(mod)
	<-l.Start(context.Background())

	mod.gate = gate
	done := l.Retry(context.Background())

	st := l.Status()
	if st.State != StateLoading {
		t.Errorf("state during retry = %v, want %v", st.State, StateLoading)
	}
	if st.Retries != 1 {
		t.Errorf("retries = %d, want 1", st.Retries)
	}

	close(gate)
	<-done
}

func TestLoaderStartWhileLoadingIsNoop(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	mod := &fakeModule{gate: gate}
	l := NewLoader(mod)

	first := l.Start(context.Background())
	second := <-l.Start(context.Background())
	if second.State != StateLoading {
		t.Errorf("second Start state = %v, want %v", second.State, StateLoading)
	}

	close(gate)
	<-first
	if mod.inits != 1 {
		t.Errorf("inits = %d, want 1", mod.inits)
	}
}

func TestLoaderCloseDropsLateResult(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	mod := &fakeModule{gate: gate, version: "0.3.1"}
	l := NewLoader(mod)

	done := l.Start(context.Background())
	l.Close()
	close(gate)
	<-done

	// Give the goroutine's (dropped) state write a chance to land.
	time.Sleep(10 * time.Millisecond)
	st := l.Status()
	if st.State == StateReady {
		t.Error("stale attempt updated state after Close")
	}
	if _, ok := l.Module(); ok {
		t.Error("Module() available from a closed loader")
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateNotStarted, "not started"},
		{StateLoading, "loading"},
		{StateReady, "ready"},
		{StateFailed, "failed"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
