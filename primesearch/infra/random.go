package infra

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"prime-gen/primesearch/domain"
)

// CryptoSource gera candidatos lendo bits/8 bytes de um leitor seguro.
// O bit mais alto é forçado, então todo candidato tem exatamente `bits` bits.
type CryptoSource struct {
	// Reader é a fonte de entropia. nil usa crypto/rand.Reader.
	Reader io.Reader
}

func NewCryptoSource() CryptoSource { return CryptoSource{Reader: rand.Reader} }

func (s CryptoSource) Next(bits domain.BitLength) (*big.Int, error) {
	r := s.Reader
	if r == nil {
		r = rand.Reader
	}

	buf := make([]byte, bits.Bytes())
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: zero-length candidate", domain.ErrEntropy)
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEntropy, err)
	}
	buf[0] |= 0x80

	return new(big.Int).SetBytes(buf), nil
}
