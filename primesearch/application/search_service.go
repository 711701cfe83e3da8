package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"prime-gen/primesearch/domain"
)

const (
	tracerName = "prime-gen/primesearch"

	// DefaultProgressEvery é a cada quantos candidatos (por worker) o progresso é reportado.
	DefaultProgressEvery = 4096

	statsTimeout = 2 * time.Second
)

var errIncompleteService = errors.New("search service needs a source, a filter and a tester")

// SearchService coordena uma busca: sobe Workers goroutines, cada uma repetindo
// gerar -> filtrar -> testar -> reportar, até o alvo ser atingido.
//
// Ele não sabe nada sobre CLI/HTTP; a saída vai para Sink, em ordem de índice.
type SearchService struct {
	Source domain.CandidateSource
	Filter domain.CandidateFilter
	Tester domain.PrimalityTester
	Sink   domain.ResultSink

	// Workers <= 0 usa runtime.GOMAXPROCS(0).
	Workers int

	// Opcionais.
	Stats         domain.StatsStore
	Progress      domain.ProgressReporter
	ProgressEvery int64
	OnPhase       domain.PhaseObserver
	Logger        *slog.Logger
	Tracer        trace.Tracer
	NewID         func() string
}

// Run executa a busca e devolve os primos ordenados pelo índice de descoberta.
//
// Falhas de entropia, do teste ou do sink abortam todos os workers e voltam como erro.
// Se ctx for cancelado antes do alvo, devolve o que já foi encontrado junto com ctx.Err().
func (s SearchService) Run(ctx context.Context, req domain.SearchRequest) ([]domain.FoundPrime, error) {
	if s.Source == nil || s.Filter == nil || s.Tester == nil {
		return nil, errIncompleteService
	}
	if _, err := domain.ParseBitLength(int(req.Bits)); err != nil {
		return nil, err
	}
	if req.Target <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidCount, req.Target)
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	id := s.newID()
	logger := s.logger().With("search_id", id)

	ctx, span := s.tracer().Start(ctx, "primesearch.Run", trace.WithAttributes(
		attribute.String("primesearch.id", id),
		attribute.Int("primesearch.bits", int(req.Bits)),
		attribute.Int("primesearch.target", req.Target),
		attribute.Int("primesearch.rounds", req.Rounds),
		attribute.Int("primesearch.workers", workers),
	))
	defer span.End()

	st := newSearchState(req.Target, s.OnPhase)
	start := time.Now()

	logger.Info("search started", "bits", int(req.Bits), "target", req.Target, "workers", workers, "rounds", req.Rounds)
	st.transition(domain.PhaseRunning)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return s.work(gctx, w, id, req, st, span, logger)
		})
	}
	err := g.Wait()
	st.stop()
	st.transition(domain.PhaseCompleted)

	results := st.snapshot()
	if err == nil && len(results) < req.Target {
		err = ctx.Err()
	}

	sum := domain.SearchSummary{
		SearchID:     id,
		Bits:         req.Bits,
		Target:       req.Target,
		Workers:      workers,
		Generated:    st.generated.Load(),
		Filtered:     st.filtered.Load(),
		Composite:    st.composite.Load(),
		Inconclusive: st.inconclusive.Load(),
		Found:        int64(len(results)),
		Elapsed:      time.Since(start),
		Err:          err,
		At:           time.Now(),
	}
	s.record(ctx, sum, logger)

	span.SetAttributes(
		attribute.Int64("primesearch.generated", sum.Generated),
		attribute.Int64("primesearch.found", sum.Found),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("search aborted", "found", sum.Found, "generated", sum.Generated, "elapsed", sum.Elapsed, "error", err)
		return results, err
	}

	logger.Info("search completed", "found", sum.Found, "generated", sum.Generated, "elapsed", sum.Elapsed)
	return results, nil
}

func (s SearchService) work(ctx context.Context, worker int, id string, req domain.SearchRequest, st *searchState, span trace.Span, logger *slog.Logger) error {
	every := s.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}

	var generated int64
	for {
		// caminho rápido, sem lock
		if st.stopped.Load() {
			return nil
		}
		if ctx.Err() != nil {
			st.stop()
			return nil
		}

		n, err := s.Source.Next(req.Bits)
		if err != nil {
			st.stop()
			return fmt.Errorf("worker %d: %w", worker, err)
		}
		st.generated.Add(1)
		generated++
		if s.Progress != nil && generated%every == 0 {
			s.Progress.Report(domain.Progress{
				SearchID:  id,
				Worker:    worker,
				Generated: generated,
				Found:     st.found.Load(),
				Target:    req.Target,
			})
		}

		if !s.Filter.Passes(n) {
			st.filtered.Add(1)
			continue
		}

		out, err := s.Tester.Test(n, req.Rounds)
		if err != nil {
			st.stop()
			return fmt.Errorf("worker %d: primality test: %w", worker, err)
		}
		switch out {
		case domain.Composite:
			st.composite.Add(1)
			continue
		case domain.Inconclusive:
			st.inconclusive.Add(1)
			continue
		}

		ok, err := st.commit(n, func(p domain.FoundPrime) error {
			return s.emit(ctx, p, worker, span)
		})
		if err != nil {
			st.stop()
			return err
		}
		if ok {
			logger.Debug("prime found", "worker", worker, "bits", n.BitLen())
		}
	}
}

func (s SearchService) emit(ctx context.Context, p domain.FoundPrime, worker int, span trace.Span) error {
	if s.Sink != nil {
		if err := s.Sink.Emit(ctx, p); err != nil {
			return fmt.Errorf("%w: index %d: %w", domain.ErrSink, p.Index, err)
		}
	}
	span.AddEvent("prime found", trace.WithAttributes(
		attribute.Int("primesearch.index", p.Index),
		attribute.Int("primesearch.worker", worker),
	))
	return nil
}

func (s SearchService) record(ctx context.Context, sum domain.SearchSummary, logger *slog.Logger) {
	if s.Stats == nil {
		return
	}
	// best-effort: a busca já terminou, mesmo que ctx tenha sido cancelado.
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsTimeout)
	defer cancel()
	if err := s.Stats.Record(sctx, sum); err != nil {
		logger.Warn("stats record failed", "error", err)
	}
}

func (s SearchService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s SearchService) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s SearchService) tracer() trace.Tracer {
	if s.Tracer != nil {
		return s.Tracer
	}
	return otel.Tracer(tracerName)
}

// Verify confere, com um teste independente, que todos os valores continuam passando.
// Útil para auditoria da saída de Run.
func Verify(t domain.PrimalityTester, primes []domain.FoundPrime, rounds int) error {
	for i, p := range primes {
		if p.Index != i+1 {
			return fmt.Errorf("index %d at position %d", p.Index, i)
		}
		out, err := t.Test(new(big.Int).Set(p.Value), rounds)
		if err != nil {
			return err
		}
		if out != domain.ProbablyPrime {
			return fmt.Errorf("index %d: %s is %s", p.Index, p.Value, out)
		}
	}
	return nil
}
