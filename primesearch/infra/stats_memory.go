package infra

import (
	"context"
	"sync"

	"prime-gen/primesearch/domain"
)

type Counters struct {
	Searches  int64
	Failed    int64
	Generated int64
	Filtered  int64
	Composite int64
	Found     int64
}

func (c *Counters) add(s domain.SearchSummary) {
	c.Searches++
	if s.Err != nil {
		c.Failed++
	}
	c.Generated += s.Generated
	c.Filtered += s.Filtered
	c.Composite += s.Composite
	c.Found += s.Found
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento.
//
// Não faz expiração e não é indicada para produção.
type MemoryStatsStore struct {
	mu     sync.Mutex
	total  Counters
	byBits map[domain.BitLength]Counters
	last   []domain.SearchSummary

	keepLast int
}

type MemoryStatsOption func(*MemoryStatsStore)

// WithKeepLast guarda os n últimos resumos (0 desliga).
func WithKeepLast(n int) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.keepLast = n }
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		byBits: make(map[domain.BitLength]Counters),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, sum domain.SearchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(sum)
	c := s.byBits[sum.Bits]
	c.add(sum)
	s.byBits[sum.Bits] = c

	if s.keepLast > 0 {
		s.last = append(s.last, sum)
		if len(s.last) > s.keepLast {
			s.last = s.last[len(s.last)-s.keepLast:]
		}
	}
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByBits() map[domain.BitLength]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[domain.BitLength]Counters, len(s.byBits))
	for k, v := range s.byBits {
		out[k] = v
	}
	return out
}

func (s *MemoryStatsStore) Last() []domain.SearchSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SearchSummary, len(s.last))
	copy(out, s.last)
	return out
}

// MultiStatsStore grava em todos os stores e devolve o primeiro erro.
type MultiStatsStore []domain.StatsStore

func (m MultiStatsStore) Record(ctx context.Context, sum domain.SearchSummary) error {
	var first error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, sum); err != nil && first == nil {
			first = err
		}
	}
	return first
}
