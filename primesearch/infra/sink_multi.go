package infra

import (
	"context"
	"io"

	multierror "github.com/hashicorp/go-multierror"

	"prime-gen/primesearch/domain"
)

// MultiSink repassa cada primo para todos os sinks, na ordem em que foram passados.
// O primeiro erro interrompe o repasse daquele primo.
type MultiSink []domain.ResultSink

func (m MultiSink) Emit(ctx context.Context, p domain.FoundPrime) error {
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Emit(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close fecha todos os sinks que implementam io.Closer e agrega os erros.
func (m MultiSink) Close() error {
	var result error
	for _, s := range m {
		c, ok := s.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}
