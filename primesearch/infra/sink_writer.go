package infra

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"prime-gen/primesearch/domain"
)

// WriterSink escreve uma linha "<index>: <value>" por primo.
//
// Se o writer for um http.Flusher (resposta HTTP em streaming), faz flush a cada linha.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink { return &WriterSink{w: w} }

func (s *WriterSink) Emit(_ context.Context, p domain.FoundPrime) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "%d: %s\n", p.Index, p.Value.String()); err != nil {
		return err
	}
	if f, ok := s.w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
