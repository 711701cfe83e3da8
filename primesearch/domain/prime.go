package domain

import (
	"errors"
	"fmt"
	"math/big"
)

const (
	// MinBitLength é o menor tamanho aceito; mantém value-2 bem acima do intervalo de testemunhas.
	MinBitLength = 32
	// DefaultRounds é o número de rodadas de Miller-Rabin quando o chamador passa <= 0.
	DefaultRounds = 10
)

var (
	ErrInvalidBitLength = errors.New("bit length must be a multiple of 8 and at least 32")
	ErrInvalidCount     = errors.New("count must be a positive integer")
	// ErrEntropy marca falhas da fonte de aleatoriedade. É fatal para a busca.
	ErrEntropy = errors.New("entropy source failure")
	// ErrSink marca falhas ao entregar um primo para o ResultSink.
	ErrSink = errors.New("result sink failure")
)

// BitLength é o tamanho (em bits) dos candidatos. Só é construído via ParseBitLength.
type BitLength int

func ParseBitLength(bits int) (BitLength, error) {
	if bits < MinBitLength || bits%8 != 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidBitLength, bits)
	}
	return BitLength(bits), nil
}

func (b BitLength) Bytes() int { return int(b) / 8 }

// SearchRequest agrupa os parâmetros validados de uma busca.
// Depois de construído não muda.
type SearchRequest struct {
	Bits   BitLength
	Target int
	// Rounds de Miller-Rabin; <= 0 vira DefaultRounds.
	Rounds int
}

// NewSearchRequest valida bits e count antes de qualquer trabalho começar.
// count <= 0 é erro (o default 1 é aplicado pela CLI quando o argumento é omitido).
func NewSearchRequest(bits, count, rounds int) (SearchRequest, error) {
	b, err := ParseBitLength(bits)
	if err != nil {
		return SearchRequest{}, err
	}
	if count <= 0 {
		return SearchRequest{}, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	return SearchRequest{Bits: b, Target: count, Rounds: rounds}, nil
}

// FoundPrime é um primo provável confirmado, com seu índice de descoberta (1-based).
type FoundPrime struct {
	Index int
	Value *big.Int
}

func (p FoundPrime) String() string {
	return fmt.Sprintf("%d: %s", p.Index, p.Value.String())
}

// Outcome é o resultado de um teste de primalidade.
type Outcome int

const (
	Composite Outcome = iota
	ProbablyPrime
	// Inconclusive: amostragem de testemunhas esgotou o limite de tentativas.
	// O candidato é descartado e o worker sorteia outro.
	Inconclusive
)

func (o Outcome) String() string {
	switch o {
	case Composite:
		return "composite"
	case ProbablyPrime:
		return "probably-prime"
	case Inconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}
