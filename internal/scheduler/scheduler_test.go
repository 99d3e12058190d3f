package scheduler

import (
	"context"
	"testing"
	"time"
)

type fakeTicker struct {
	calls []float64
}

func (f *fakeTicker) Tick(ctx context.Context, dtMs float64) {
	f.calls = append(f.calls, dtMs)
}

func TestManualTickAdvancesWorld(t *testing.T) {
	ft := &fakeTicker{}
	s := New(ft, 0)

	if err := s.ManualTick(context.Background(), 1000); err != nil {
		t.Fatalf("ManualTick: %v", err)
	}
	if len(ft.calls) != 1 || ft.calls[0] != 1000 {
		t.Errorf("expected one tick of 1000ms, got %v", ft.calls)
	}
}

func TestManualTickRejectsNegativeDelta(t *testing.T) {
	ft := &fakeTicker{}
	s := New(ft, 0)

	if err := s.ManualTick(context.Background(), -5); err == nil {
		t.Error("expected error for negative timeDelta")
	}
}

func TestManualTickAllowsZeroDelta(t *testing.T) {
	ft := &fakeTicker{}
	s := New(ft, 0)

	if err := s.ManualTick(context.Background(), 0); err != nil {
		t.Fatalf("expected zero timeDelta to be a no-op tick, got error: %v", err)
	}
	if len(ft.calls) != 1 || ft.calls[0] != 0 {
		t.Errorf("expected one tick of 0ms, got %v", ft.calls)
	}
}

func TestManualTickRejectedWhileAutotickEnabled(t *testing.T) {
	ft := &fakeTicker{}
	s := New(ft, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	if err := s.ManualTick(context.Background(), 1000); err == nil {
		t.Error("expected manual tick to be rejected while autotick is running")
	}
}

func TestStartIsNoopWithZeroPeriod(t *testing.T) {
	ft := &fakeTicker{}
	s := New(ft, 0)

	s.Start(context.Background())
	if err := s.ManualTick(context.Background(), 1000); err != nil {
		t.Fatalf("expected manual tick to still work when autotick period is zero: %v", err)
	}
}

func TestAutotickCallsWorldPeriodically(t *testing.T) {
	ft := &fakeTicker{}
	s := New(ft, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	time.Sleep(55 * time.Millisecond)

	if len(ft.calls) < 3 {
		t.Errorf("expected at least 3 autoticks in 55ms at a 10ms period, got %d", len(ft.calls))
	}
	for _, dt := range ft.calls {
		if dt != 10 {
			t.Errorf("expected every autotick to report 10ms, got %v", dt)
		}
	}
}
