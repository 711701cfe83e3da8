package domain

import "time"

// Limiter representa algo que pode decidir se uma ação é permitida agora.
//
// A camada de infra usa golang.org/x/time/rate.
type Limiter interface {
	Allow() bool
}

// LimiterStore obtém um limiter por chave (ex: IP do cliente que pede buscas).
type LimiterStore interface {
	Get(key string) Limiter
}

// Decision é a resposta de admissão para um pedido de busca.
type Decision struct {
	Allowed bool
	// RetryAfter é a sugestão de espera quando bloquear.
	// Se 0, não há recomendação.
	RetryAfter time.Duration
}
