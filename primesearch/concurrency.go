package primesearch

import (
	"net/http"
	"time"

	"prime-gen/primesearch/application"
	"prime-gen/primesearch/domain"
	"prime-gen/primesearch/infra"
)

type ConcurrencyOptions struct {
	// Max buscas simultâneas. <= 0 desliga o limite.
	Max            int
	RejectStatus   int
	AcquireTimeout time.Duration
	// Pool opcional; se nil, cria um infra.ChanPool com Max vagas.
	Pool domain.SlotPool
}

// ConcurrencyMiddleware limita quantas buscas rodam ao mesmo tempo no servidor.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 && opts.Pool == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	pool := opts.Pool
	if pool == nil {
		pool = infra.NewChanPool(opts.Max)
	}

	svc := application.ConcurrencyService{
		Pool:           pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, ok := svc.Acquire(r.Context())
			if !ok {
				http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
