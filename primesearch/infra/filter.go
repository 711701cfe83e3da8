package infra

import "math/big"

// DefaultSmallPrimes é o conjunto padrão do filtro.
var DefaultSmallPrimes = []uint64{2, 3, 5, 7}

// SmallPrimeFilter rejeita candidatos negativos ou divisíveis por algum primo pequeno.
//
// Os primos são agrupados em módulos cujo produto cabe em uint64: cada grupo custa
// uma única redução big.Int, e o resto é testado com aritmética nativa.
// Depois de construído é imutável e seguro para uso concorrente.
type SmallPrimeFilter struct {
	groups []primeGroup
}

type primeGroup struct {
	modulus *big.Int
	primes  []uint64
}

func NewSmallPrimeFilter(primes ...uint64) SmallPrimeFilter {
	if len(primes) == 0 {
		primes = DefaultSmallPrimes
	}

	var (
		groups []primeGroup
		cur    []uint64
		prod   uint64 = 1
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		groups = append(groups, primeGroup{modulus: new(big.Int).SetUint64(prod), primes: cur})
		cur, prod = nil, 1
	}
	for _, p := range primes {
		if p < 2 {
			continue
		}
		if prod > ^uint64(0)/p {
			flush()
		}
		cur = append(cur, p)
		prod *= p
	}
	flush()

	return SmallPrimeFilter{groups: groups}
}

func (f SmallPrimeFilter) Passes(n *big.Int) bool {
	if n == nil || n.Sign() < 0 {
		return false
	}
	var rem big.Int
	for _, g := range f.groups {
		r := rem.Mod(n, g.modulus).Uint64()
		for _, p := range g.primes {
			if r%p == 0 {
				return false
			}
		}
	}
	return true
}
