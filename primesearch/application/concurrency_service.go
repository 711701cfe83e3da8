package application

import (
	"context"
	"time"

	"prime-gen/primesearch/domain"
)

// ConcurrencyService controla as vagas de busca simultânea, com timeout opcional,
// sem saber nada sobre HTTP.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire tenta reservar uma vaga de busca.
// - Se `AcquireTimeout <= 0`, espera indefinidamente (até ctx cancelar).
// - Se `AcquireTimeout > 0`, espera até o timeout.
// Retorna (release, ok). Se ok=false, nenhuma vaga foi reservada.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), bool) {
	if s.Pool == nil {
		return func() {}, true
	}

	if s.AcquireTimeout <= 0 {
		return s.Pool.Acquire(ctx)
	}

	acqCtx, cancel := context.WithTimeout(ctx, s.AcquireTimeout)
	defer cancel()
	return s.Pool.Acquire(acqCtx)
}

// RunLimited reserva uma vaga, roda a busca e libera a vaga.
// ok=false significa que não houve vaga (a busca nem começou).
func (s ConcurrencyService) RunLimited(ctx context.Context, svc SearchService, req domain.SearchRequest) (results []domain.FoundPrime, ok bool, err error) {
	release, ok := s.Acquire(ctx)
	if !ok {
		return nil, false, nil
	}
	defer release()

	results, err = svc.Run(ctx, req)
	return results, true, err
}
