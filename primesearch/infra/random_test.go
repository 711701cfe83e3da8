package infra

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"prime-gen/primesearch/domain"
)

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

// constReader devolve sempre o mesmo byte.
type constReader byte

func (r constReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r)
	}
	return len(p), nil
}

func TestCryptoSource_ProducesRequestedBitLength(t *testing.T) {
	src := NewCryptoSource()
	for _, bits := range []domain.BitLength{32, 64, 256} {
		for i := 0; i < 50; i++ {
			n, err := src.Next(bits)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.BitLen() != int(bits) {
				t.Fatalf("expected %d bits, got %d", bits, n.BitLen())
			}
		}
	}
}

func TestCryptoSource_UsesBitsOver8Bytes(t *testing.T) {
	// 4 bytes para 32 bits; o resto do leitor não pode ser consumido.
	r := bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0xAA})
	src := CryptoSource{Reader: r}

	n, err := src.Next(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := n.Uint64(); got != 0x81020304 {
		t.Fatalf("expected 0x81020304 (top bit forced), got %#x", got)
	}
	if r.Len() != 1 {
		t.Fatalf("expected exactly 4 bytes consumed, %d left", r.Len())
	}
}

func TestCryptoSource_ShortReadIsEntropyError(t *testing.T) {
	src := CryptoSource{Reader: bytes.NewReader([]byte{0x01, 0x02})}
	_, err := src.Next(64)
	if !errors.Is(err, domain.ErrEntropy) {
		t.Fatalf("expected ErrEntropy, got %v", err)
	}
}

func TestCryptoSource_ReaderFailureIsEntropyError(t *testing.T) {
	src := CryptoSource{Reader: failingReader{err: io.ErrClosedPipe}}
	_, err := src.Next(64)
	if !errors.Is(err, domain.ErrEntropy) {
		t.Fatalf("expected ErrEntropy, got %v", err)
	}
}
