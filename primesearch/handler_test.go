package primesearch

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"prime-gen/primesearch/application"
	"prime-gen/primesearch/infra"
)

func testSearch() application.SearchService {
	return application.SearchService{
		Source:  infra.NewCryptoSource(),
		Filter:  infra.NewSmallPrimeFilter(),
		Tester:  infra.NewMillerRabin(),
		Workers: 4,
		Logger:  infra.NopLogger(),
	}
}

func TestSearchHandler_StreamsPrimesInOrder(t *testing.T) {
	h := SearchHandler(HandlerOptions{Search: testSearch()})

	r := httptest.NewRequest(http.MethodGet, "http://example/primes?bits=64&count=3", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), w.Body.String())
	}
	for i, line := range lines {
		idx, value, ok := strings.Cut(line, ": ")
		if !ok {
			t.Fatalf("malformed line %q", line)
		}
		if idx != strconv.Itoa(i+1) {
			t.Fatalf("expected index %d, got %s", i+1, idx)
		}
		n, ok := new(big.Int).SetString(value, 10)
		if !ok || n.BitLen() != 64 || !n.ProbablyPrime(20) {
			t.Fatalf("expected 64-bit prime, got %q", value)
		}
	}
}

func TestSearchHandler_DefaultsCountToOne(t *testing.T) {
	h := SearchHandler(HandlerOptions{Search: testSearch()})

	r := httptest.NewRequest(http.MethodGet, "http://example/primes?bits=32", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "1: ") || strings.Count(w.Body.String(), "\n") != 1 {
		t.Fatalf("expected a single line, got %q", w.Body.String())
	}
}

func TestSearchHandler_RejectsInvalidParams(t *testing.T) {
	h := SearchHandler(HandlerOptions{Search: testSearch(), MaxBits: 256, MaxCount: 5})

	for _, q := range []string{
		"",
		"bits=abc",
		"bits=33",
		"bits=16",
		"bits=512",
		"bits=64&count=0",
		"bits=64&count=-1",
		"bits=64&count=x",
		"bits=64&count=6",
	} {
		r := httptest.NewRequest(http.MethodGet, "http://example/primes?"+q, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", q, w.Code)
		}
	}
}

func TestSearchHandler_RejectsNonGet(t *testing.T) {
	h := SearchHandler(HandlerOptions{Search: testSearch()})

	r := httptest.NewRequest(http.MethodPost, "http://example/primes?bits=64", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
