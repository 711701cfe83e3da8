package primesearch

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	Handler     HandlerOptions
	Concurrency ConcurrencyOptions
	Admission   AdmissionOptions
	// Gatherer das métricas expostas em /metrics. nil usa o registry padrão.
	Gatherer prometheus.Gatherer
}

// NewRouter monta /primes (admissão -> vaga -> busca), /metrics e /healthz.
func NewRouter(opts RouterOptions) http.Handler {
	search := SearchHandler(opts.Handler)
	search = ConcurrencyMiddleware(opts.Concurrency)(search)
	search = AdmissionMiddleware(opts.Admission)(search)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/primes", search)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}
