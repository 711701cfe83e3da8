package domain

import (
	"context"
	"math/big"
)

// CandidateSource produz inteiros aleatórios com o tamanho pedido.
//
// Qualquer falha de entropia deve voltar como erro (envolvendo ErrEntropy),
// nunca ser repetida silenciosamente.
type CandidateSource interface {
	Next(bits BitLength) (*big.Int, error)
}

// CandidateFilter descarta candidatos óbvios (fatores pequenos) antes do teste caro.
// Implementações não podem ter estado mutável compartilhado.
type CandidateFilter interface {
	Passes(n *big.Int) bool
}

// PrimalityTester decide primalidade provável com `rounds` rodadas.
type PrimalityTester interface {
	Test(n *big.Int, rounds int) (Outcome, error)
}

// ResultSink recebe os primos na ordem do índice de descoberta.
//
// Emit é chamado dentro da seção crítica do coordenador, nunca de forma concorrente.
type ResultSink interface {
	Emit(ctx context.Context, p FoundPrime) error
}

// ResultSinkFunc adapta uma função para ResultSink.
type ResultSinkFunc func(ctx context.Context, p FoundPrime) error

func (f ResultSinkFunc) Emit(ctx context.Context, p FoundPrime) error { return f(ctx, p) }

// Progress é um retrato parcial da busca, usado só para relatórios.
type Progress struct {
	SearchID  string
	Worker    int
	Generated int64
	Found     int64
	Target    int
}

// ProgressReporter recebe retratos parciais. Pode descartar à vontade.
type ProgressReporter interface {
	Report(p Progress)
}
