package application

import (
	"time"

	"prime-gen/primesearch/domain"
)

// AdmissionService decide se um cliente pode iniciar mais uma busca agora.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type AdmissionService struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s AdmissionService) Decide(client string) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = 1 * time.Second
	}

	lim := s.Store.Get(client)
	if lim == nil || lim.Allow() {
		return domain.Decision{Allowed: true}
	}
	return domain.Decision{Allowed: false, RetryAfter: s.RetryAfter}
}
