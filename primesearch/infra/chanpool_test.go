package infra

import (
	"context"
	"testing"
	"time"
)

func TestChanPool_BlocksWhenFull(t *testing.T) {
	p := NewChanPool(1)

	release, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected first acquire to succeed")
	}
	if p.InUse() != 1 {
		t.Fatalf("expected 1 slot in use, got %d", p.InUse())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, ok := p.Acquire(ctx); ok {
		t.Fatalf("expected second acquire to time out")
	}

	release()
	release() // idempotente
	if p.InUse() != 0 {
		t.Fatalf("expected pool to be empty after release, got %d", p.InUse())
	}

	release2, ok := p.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected acquire after release to succeed")
	}
	release2()
}

func TestChanPool_MinimumCapacity(t *testing.T) {
	if c := NewChanPool(0).Cap(); c != 1 {
		t.Fatalf("expected capacity 1, got %d", c)
	}
}

func TestLimiterStore_GetSameKeyReturnsSameLimiter(t *testing.T) {
	s := NewLimiterStore(10, 1)

	l1 := s.Get("k")
	l2 := s.Get("k")
	if l1 != l2 {
		t.Fatalf("expected same limiter for same key")
	}
	if s.Len() != 1 {
		t.Fatalf("expected one entry, got %d", s.Len())
	}
}

func TestLimiterStore_LowBurstRejectsSecondImmediateAllow(t *testing.T) {
	s := NewLimiterStore(0.02, 1)

	lim := s.Get("k")
	if !lim.Allow() {
		t.Fatalf("expected first Allow to be true")
	}
	if lim.Allow() {
		t.Fatalf("expected second immediate Allow to be false (burst=1)")
	}
}

func TestLimiterStore_CleanupRemovesIdleEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewLimiterStore(10, 1, WithIdleTTL(time.Minute), WithCleanupEvery(0))
	s.now = func() time.Time { return now }

	before := s.Get("k")
	now = now.Add(2 * time.Minute)
	s.Cleanup()

	if s.Len() != 0 {
		t.Fatalf("expected idle entry removed, %d left", s.Len())
	}
	if after := s.Get("k"); before == after {
		t.Fatalf("expected limiter to be recreated after cleanup")
	}
}
