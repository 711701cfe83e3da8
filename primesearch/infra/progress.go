package infra

import (
	"log/slog"

	"golang.org/x/time/rate"

	"prime-gen/primesearch/domain"
)

// ThrottledProgress loga o progresso da busca no máximo `perSecond` vezes por segundo.
// Relatórios acima do limite são descartados (nunca bloqueia o worker).
type ThrottledProgress struct {
	lim    *rate.Limiter
	logger *slog.Logger
}

func NewThrottledProgress(logger *slog.Logger, perSecond float64) *ThrottledProgress {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThrottledProgress{
		lim:    rate.NewLimiter(rate.Limit(perSecond), 1),
		logger: logger,
	}
}

func (p *ThrottledProgress) Report(pr domain.Progress) {
	if !p.lim.Allow() {
		return
	}
	p.logger.Info("search progress",
		"search_id", pr.SearchID,
		"worker", pr.Worker,
		"generated", pr.Generated,
		"found", pr.Found,
		"target", pr.Target,
	)
}
