package primesearch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prime-gen/primesearch/infra"
)

func TestClientKey_PrefersHeaderWhenSet(t *testing.T) {
	fn := ClientKey("X-Client", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	r.Header.Set("X-Client", " client-123 ")

	if got := fn(r); got != "client-123" {
		t.Fatalf("expected header key, got %q", got)
	}
}

func TestClientKey_TrustXForwardedForUsesFirstIP(t *testing.T) {
	fn := ClientKey("", true)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"
	r.Header.Set("X-Forwarded-For", "1.2.3.4, 5.6.7.8")

	if got := fn(r); got != "1.2.3.4" {
		t.Fatalf("expected first XFF ip, got %q", got)
	}
}

func TestClientKey_FallbacksToRemoteAddrHost(t *testing.T) {
	fn := ClientKey("", false)

	r := httptest.NewRequest(http.MethodGet, "http://example/", nil)
	r.RemoteAddr = "10.0.0.9:5555"

	if got := fn(r); got != "10.0.0.9" {
		t.Fatalf("expected remote host, got %q", got)
	}
}

func TestAdmissionMiddleware_AllowsThenRejectsSameClient(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	h := AdmissionMiddleware(AdmissionOptions{
		Store:      infra.NewLimiterStore(0.02, 1),
		RetryAfter: 2500 * time.Millisecond,
	})(next)

	r1 := httptest.NewRequest(http.MethodGet, "http://example/primes?bits=64", nil)
	r1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)
	if w1.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w1.Code)
	}

	r2 := httptest.NewRequest(http.MethodGet, "http://example/primes?bits=64", nil)
	r2.RemoteAddr = "10.0.0.1:1234"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w2.Code)
	}
	if got := strings.TrimSpace(w2.Header().Get("Retry-After")); got != "2" {
		// int(2.5s.Seconds()) == 2
		t.Fatalf("expected Retry-After=2, got %q", got)
	}

	// outro cliente tem seu próprio limiter
	r3 := httptest.NewRequest(http.MethodGet, "http://example/primes?bits=64", nil)
	r3.RemoteAddr = "10.0.0.2:1234"
	w3 := httptest.NewRecorder()
	h.ServeHTTP(w3, r3)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 for other client, got %d", w3.Code)
	}

	if calls != 2 {
		t.Fatalf("expected next handler to be called twice, got %d", calls)
	}
}
