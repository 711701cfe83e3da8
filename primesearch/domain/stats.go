package domain

import (
	"context"
	"time"
)

// SearchSummary resume uma busca encerrada (com sucesso ou não).
//
// Observação: Generated >= Filtered + Composite + Inconclusive + Found, porque iterações
// abandonadas no Draining podem ter gerado candidatos que nunca foram classificados.
type SearchSummary struct {
	SearchID string
	Bits     BitLength
	Target   int
	Workers  int

	Generated    int64
	Filtered     int64
	Composite    int64
	Inconclusive int64
	Found        int64

	Elapsed time.Duration
	Err     error
	At      time.Time
}

// StatsStore é a estratégia de persistência para estatísticas das buscas.
//
// Implementações podem armazenar em Redis, Prometheus, memória, etc.
// O coordenador trata erro como best-effort (não derruba a busca).
type StatsStore interface {
	Record(ctx context.Context, s SearchSummary) error
}
