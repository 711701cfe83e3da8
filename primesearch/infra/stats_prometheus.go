package infra

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"prime-gen/primesearch/domain"
)

// PrometheusStatsStore expõe os resumos das buscas como métricas.
type PrometheusStatsStore struct {
	searches   *prometheus.CounterVec
	candidates *prometheus.CounterVec
	found      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewPrometheusStatsStore registra as métricas em reg (nil usa o registry padrão).
func NewPrometheusStatsStore(reg prometheus.Registerer) (*PrometheusStatsStore, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	s := &PrometheusStatsStore{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "primegen",
			Name:      "searches_total",
			Help:      "Searches finished, by bit length and result.",
		}, []string{"bits", "result"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "primegen",
			Name:      "candidates_total",
			Help:      "Candidates evaluated, by bit length and stage outcome.",
		}, []string{"bits", "outcome"}),
		found: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "primegen",
			Name:      "primes_found_total",
			Help:      "Probable primes reported, by bit length.",
		}, []string{"bits"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "primegen",
			Name:      "search_duration_seconds",
			Help:      "Wall time of a search.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"bits"}),
	}

	for _, c := range []prometheus.Collector{s.searches, s.candidates, s.found, s.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, sum domain.SearchSummary) error {
	bits := strconv.Itoa(int(sum.Bits))

	result := "ok"
	if sum.Err != nil {
		result = "error"
	}
	s.searches.WithLabelValues(bits, result).Inc()

	s.candidates.WithLabelValues(bits, "generated").Add(float64(sum.Generated))
	s.candidates.WithLabelValues(bits, "filtered").Add(float64(sum.Filtered))
	s.candidates.WithLabelValues(bits, "composite").Add(float64(sum.Composite))
	s.candidates.WithLabelValues(bits, "inconclusive").Add(float64(sum.Inconclusive))
	s.found.WithLabelValues(bits).Add(float64(sum.Found))
	s.duration.WithLabelValues(bits).Observe(sum.Elapsed.Seconds())
	return nil
}
