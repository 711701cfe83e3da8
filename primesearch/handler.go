package primesearch

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"prime-gen/primesearch/application"
	"prime-gen/primesearch/domain"
	"prime-gen/primesearch/infra"
)

const (
	DefaultMaxBits  = 4096
	DefaultMaxCount = 100
)

type HandlerOptions struct {
	// Search é o protótipo da busca; Sink é sobrescrito por requisição.
	Search   application.SearchService
	Rounds   int
	MaxBits  int
	MaxCount int
}

// SearchHandler atende GET ?bits=<b>&count=<n> e escreve os primos em streaming.
func SearchHandler(opts HandlerOptions) http.Handler {
	if opts.MaxBits <= 0 {
		opts.MaxBits = DefaultMaxBits
	}
	if opts.MaxCount <= 0 {
		opts.MaxCount = DefaultMaxCount
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		req, err := parseRequest(r, opts)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)

		svc := opts.Search
		svc.Sink = infra.NewWriterSink(w)

		// o status 200 já foi enviado; falhas viram uma última linha de erro.
		if _, err := svc.Run(r.Context(), req); err != nil && r.Context().Err() == nil {
			_, _ = w.Write([]byte("error: " + err.Error() + "\n"))
		}
	})
}

func parseRequest(r *http.Request, opts HandlerOptions) (domain.SearchRequest, error) {
	q := r.URL.Query()

	bitsStr := strings.TrimSpace(q.Get("bits"))
	if bitsStr == "" {
		return domain.SearchRequest{}, errors.New("missing bits parameter")
	}
	bits, err := strconv.Atoi(bitsStr)
	if err != nil {
		return domain.SearchRequest{}, errors.New("bits must be an integer")
	}
	if bits > opts.MaxBits {
		return domain.SearchRequest{}, errors.New("bits above server limit " + formatInt(opts.MaxBits))
	}

	count := 1
	if c := strings.TrimSpace(q.Get("count")); c != "" {
		count, err = strconv.Atoi(c)
		if err != nil {
			return domain.SearchRequest{}, errors.New("count must be an integer")
		}
	}
	if count > opts.MaxCount {
		return domain.SearchRequest{}, errors.New("count above server limit " + formatInt(opts.MaxCount))
	}

	return domain.NewSearchRequest(bits, count, opts.Rounds)
}
