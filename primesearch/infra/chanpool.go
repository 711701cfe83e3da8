package infra

import (
	"context"

	"prime-gen/primesearch/domain"
)

// ChanPool limita quantas buscas rodam ao mesmo tempo, usando um channel como semáforo.
type ChanPool struct {
	sem chan struct{}
}

var _ domain.SlotPool = (*ChanPool)(nil)

// NewChanPool cria um pool com capacidade `max` buscas simultâneas.
func NewChanPool(max int) *ChanPool {
	if max < 1 {
		max = 1
	}
	return &ChanPool{sem: make(chan struct{}, max)}
}

func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		return p.releaseFunc(), true
	case <-ctx.Done():
		return nil, false
	}
}

// InUse devolve quantas vagas estão ocupadas agora.
func (p *ChanPool) InUse() int { return len(p.sem) }

func (p *ChanPool) Cap() int { return cap(p.sem) }

func (p *ChanPool) releaseFunc() func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		<-p.sem
	}
}
