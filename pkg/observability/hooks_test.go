package observability

import (
	"context"
	"testing"
	"time"
)

type countingSolveHooks struct {
	NoopSolveHooks
	solves int
}

func (h *countingSolveHooks) OnSolveStart(context.Context, string, int) { h.solves++ }

type countingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *countingCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// None of these should panic.
	Solve().OnSolveStart(ctx, "conversation_focused", 8)
	Solve().OnSolveComplete(ctx, "conversation_focused", 0.8, time.Second, nil)
	Cache().OnCacheHit(ctx, "solve")
	Job().OnJobComplete(ctx, "job1", "solve", time.Second, nil)
}

func TestSetSolveHooks(t *testing.T) {
	Reset()
	defer Reset()

	h := &countingSolveHooks{}
	SetSolveHooks(h)
	Solve().OnSolveStart(context.Background(), "work_focused", 5)
	if h.solves != 1 {
		t.Errorf("solves = %d, want 1", h.solves)
	}
}

func TestSetCacheHooks(t *testing.T) {
	Reset()
	defer Reset()

	h := &countingCacheHooks{}
	SetCacheHooks(h)
	Cache().OnCacheHit(context.Background(), "solve")
	Cache().OnCacheHit(context.Background(), "validate")
	if h.hits != 2 {
		t.Errorf("hits = %d, want 2", h.hits)
	}
}

func TestSetNilKeepsCurrent(t *testing.T) {
	Reset()
	defer Reset()

	h := &countingSolveHooks{}
	SetSolveHooks(h)
	SetSolveHooks(nil)
	Solve().OnSolveStart(context.Background(), "work_focused", 1)
	if h.solves != 1 {
		t.Error("nil registration must not replace the current hooks")
	}
}

func TestReset(t *testing.T) {
	h := &countingSolveHooks{}
	SetSolveHooks(h)
	Reset()
	Solve().OnSolveStart(context.Background(), "work_focused", 1)
	if h.solves != 0 {
		t.Error("Reset should restore the no-op hooks")
	}
}
