package infra

import (
	"context"

	"prime-gen/primesearch/domain"
)

// ChannelSink entrega os primos em um channel.
//
// Emit bloqueia até o consumidor ler ou o ctx encerrar; como roda dentro da seção
// crítica do coordenador, um consumidor lento segura a busca inteira (backpressure).
type ChannelSink struct {
	out chan domain.FoundPrime
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 0 {
		buffer = 0
	}
	return &ChannelSink{out: make(chan domain.FoundPrime, buffer)}
}

func (s *ChannelSink) C() <-chan domain.FoundPrime { return s.out }

func (s *ChannelSink) Emit(ctx context.Context, p domain.FoundPrime) error {
	select {
	case s.out <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close fecha o channel. Só pode ser chamado depois que a busca terminou.
func (s *ChannelSink) Close() error {
	close(s.out)
	return nil
}
