package application

import (
	"context"
	"testing"
	"time"
)

type blockingPool struct {
}

func (p *blockingPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case <-time.After(5 * time.Second):
		// não deve chegar aqui nos testes
		return nil, false
	}
}

type immediatePool struct {
	acquired int
	released int
}

func (p *immediatePool) Acquire(ctx context.Context) (func(), bool) {
	p.acquired++
	return func() { p.released++ }, true
}

func TestConcurrencyService_Acquire_AllowsWhenNoPool(t *testing.T) {
	svc := ConcurrencyService{}
	release, ok := svc.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected ok")
	}
	release()
}

func TestConcurrencyService_Acquire_UsesTimeout(t *testing.T) {
	pool := &blockingPool{}
	svc := ConcurrencyService{Pool: pool, AcquireTimeout: 10 * time.Millisecond}

	_, ok := svc.Acquire(context.Background())
	if ok {
		t.Fatalf("expected timeout and ok=false")
	}
}

func TestConcurrencyService_Acquire_NoTimeoutDelegatesToPool(t *testing.T) {
	pool := &immediatePool{}
	svc := ConcurrencyService{Pool: pool, AcquireTimeout: 0}

	_, ok := svc.Acquire(context.Background())
	if !ok {
		t.Fatalf("expected ok")
	}
	if pool.acquired != 1 {
		t.Fatalf("expected pool Acquire to be called once, got %d", pool.acquired)
	}
}

func TestConcurrencyService_RunLimited_ReleasesSlot(t *testing.T) {
	pool := &immediatePool{}
	svc := ConcurrencyService{Pool: pool}

	results, ok, err := svc.RunLimited(context.Background(), newTestService(2, nil), mustRequest(t, 32, 2))
	if err != nil || !ok {
		t.Fatalf("expected ok run, got ok=%v err=%v", ok, err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if pool.released != 1 {
		t.Fatalf("expected slot released once, got %d", pool.released)
	}
}

func TestConcurrencyService_RunLimited_NoSlot(t *testing.T) {
	svc := ConcurrencyService{Pool: &blockingPool{}, AcquireTimeout: 5 * time.Millisecond}

	results, ok, err := svc.RunLimited(context.Background(), newTestService(2, nil), mustRequest(t, 32, 2))
	if ok || err != nil || results != nil {
		t.Fatalf("expected no slot, got ok=%v err=%v results=%v", ok, err, results)
	}
}
