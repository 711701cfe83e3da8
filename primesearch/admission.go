package primesearch

import (
	"net"
	"net/http"
	"strings"
	"time"

	"prime-gen/primesearch/application"
	"prime-gen/primesearch/domain"
)

type KeyFunc func(r *http.Request) string

type AdmissionOptions struct {
	Store              domain.LimiterStore
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	RetryAfter         time.Duration
}

// ClientKey identifica quem pede a busca: header configurado, primeiro IP do
// X-Forwarded-For (se confiável) ou o host do RemoteAddr.
func ClientKey(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// AdmissionMiddleware responde 429 quando o cliente excede a taxa de buscas.
func AdmissionMiddleware(opts AdmissionOptions) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.KeyFn == nil {
		opts.KeyFn = ClientKey(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	svc := application.AdmissionService{
		Store:      opts.Store,
		RetryAfter: opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			dec := svc.Decide(opts.KeyFn(r))
			if !dec.Allowed {
				w.Header().Set("Retry-After", formatInt(int(dec.RetryAfter.Seconds())))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
