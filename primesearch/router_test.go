package primesearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prime-gen/primesearch/infra"
)

func TestNewRouter_ServesSearchHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats, err := infra.NewPrometheusStatsStore(reg)
	require.NoError(t, err)

	search := testSearch()
	search.Stats = stats

	srv := httptest.NewServer(NewRouter(RouterOptions{
		Handler:     HandlerOptions{Search: search},
		Concurrency: ConcurrencyOptions{Max: 2},
		Admission:   AdmissionOptions{Store: infra.NewLimiterStore(100, 10)},
		Gatherer:    reg,
	}))
	defer srv.Close()

	get := func(path string) (int, string) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		var b strings.Builder
		_, _ = io.Copy(&b, resp.Body)
		return resp.StatusCode, b.String()
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok\n", body)

	code, body = get("/primes?bits=32&count=2")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, strings.Count(body, "\n"))

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `primegen_primes_found_total{bits="32"} 2`)
}
