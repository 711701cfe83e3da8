package infra

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"prime-gen/primesearch/domain"
)

// DefaultMaxWitnessDraws limita a amostragem por rejeição de testemunhas.
//
// Cada sorteio usa bitlen(n-4) bits e é aceito com probabilidade >= 1/2,
// então esgotar 64 sorteios acontece com probabilidade <= 2^-64.
const DefaultMaxWitnessDraws = 64

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
	four  = big.NewInt(4)
)

// MillerRabin implementa domain.PrimalityTester.
//
// Não guarda estado mutável: pode ser chamado concorrentemente com valores independentes.
type MillerRabin struct {
	// Reader sorteia as testemunhas. nil usa crypto/rand.Reader.
	Reader io.Reader
	// MaxWitnessDraws <= 0 usa DefaultMaxWitnessDraws.
	MaxWitnessDraws int
}

func NewMillerRabin() MillerRabin {
	return MillerRabin{Reader: rand.Reader, MaxWitnessDraws: DefaultMaxWitnessDraws}
}

// IsProbablyPrime é o atalho booleano de Test: Inconclusive conta como false.
func (m MillerRabin) IsProbablyPrime(n *big.Int, rounds int) (bool, error) {
	out, err := m.Test(n, rounds)
	return out == domain.ProbablyPrime, err
}

func (m MillerRabin) Test(n *big.Int, rounds int) (domain.Outcome, error) {
	if n == nil || n.Cmp(one) <= 0 {
		return domain.Composite, nil
	}
	if n.Cmp(three) <= 0 {
		return domain.ProbablyPrime, nil
	}
	if n.Bit(0) == 0 {
		return domain.Composite, nil
	}
	if rounds <= 0 {
		rounds = domain.DefaultRounds
	}

	// n-1 = d * 2^s, d ímpar
	nm1 := new(big.Int).Sub(n, one)
	s := nm1.TrailingZeroBits()
	d := new(big.Int).Rsh(nm1, s)

	// testemunha a em [2, n-2): sorteia w em [0, n-4) e soma 2
	span := new(big.Int).Sub(n, four)

	var (
		a = new(big.Int)
		x = new(big.Int)
	)
	for i := 0; i < rounds; i++ {
		ok, err := m.witness(a, span)
		if err != nil {
			return domain.Composite, err
		}
		if !ok {
			return domain.Inconclusive, nil
		}
		a.Add(a, two)

		x.Exp(a, d, n)
		if x.Cmp(one) == 0 || x.Cmp(nm1) == 0 {
			continue
		}

		passed := false
		for r := uint(1); r < s; r++ {
			x.Mul(x, x).Mod(x, n)
			if x.Cmp(one) == 0 {
				return domain.Composite, nil
			}
			if x.Cmp(nm1) == 0 {
				passed = true
				break
			}
		}
		if !passed {
			return domain.Composite, nil
		}
	}
	return domain.ProbablyPrime, nil
}

// witness sorteia em dst um valor uniforme em [0, span). Retorna ok=false se o
// limite de sorteios esgotar.
func (m MillerRabin) witness(dst, span *big.Int) (bool, error) {
	r := m.Reader
	if r == nil {
		r = rand.Reader
	}
	limit := m.MaxWitnessDraws
	if limit <= 0 {
		limit = DefaultMaxWitnessDraws
	}

	if span.Sign() <= 0 {
		return false, nil
	}

	bitLen := span.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	// bits excedentes do primeiro byte
	excess := uint(len(buf)*8 - bitLen)

	for i := 0; i < limit; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return false, fmt.Errorf("%w: witness draw: %v", domain.ErrEntropy, err)
		}
		buf[0] &= byte(0xff >> excess)
		dst.SetBytes(buf)
		if dst.Cmp(span) < 0 {
			return true, nil
		}
	}
	return false, nil
}
