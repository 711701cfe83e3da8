package application

import (
	"math/big"
	"sync"
	"sync/atomic"

	"prime-gen/primesearch/domain"
)

// searchState é o estado compartilhado de uma única busca.
//
// stopped e found são lidos sem lock (caminho rápido), mas só mudam dentro de mu,
// junto com a atribuição do índice e o Emit. Assim "checar-incrementar-emitir" é indivisível.
type searchState struct {
	target int

	mu      sync.Mutex
	stopped atomic.Bool
	found   atomic.Int64
	results []domain.FoundPrime

	phase    atomic.Int32
	observer domain.PhaseObserver

	generated    atomic.Int64
	filtered     atomic.Int64
	composite    atomic.Int64
	inconclusive atomic.Int64
}

func newSearchState(target int, observer domain.PhaseObserver) *searchState {
	return &searchState{
		target:   target,
		results:  make([]domain.FoundPrime, 0, target),
		observer: observer,
	}
}

func (st *searchState) Phase() domain.Phase { return domain.Phase(st.phase.Load()) }

// transition só avança a máquina de estados; pedidos para voltar ou repetir são ignorados.
func (st *searchState) transition(to domain.Phase) {
	for {
		from := domain.Phase(st.phase.Load())
		if from >= to {
			return
		}
		if st.phase.CompareAndSwap(int32(from), int32(to)) {
			if st.observer != nil {
				st.observer(from, to)
			}
			return
		}
	}
}

// stop sinaliza parada sem reportar nada (erro ou cancelamento).
func (st *searchState) stop() {
	st.mu.Lock()
	st.stopped.Store(true)
	st.mu.Unlock()
	st.transition(domain.PhaseDraining)
}

// commit tenta registrar n como o próximo primo. emit roda dentro da seção crítica.
// Devolve ok=false se o alvo já foi atingido (n é descartado).
func (st *searchState) commit(n *big.Int, emit func(domain.FoundPrime) error) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	// segunda checagem: evita que dois workers que passaram pela checagem otimista
	// reportem depois do alvo.
	if st.stopped.Load() {
		return false, nil
	}

	p := domain.FoundPrime{Index: int(st.found.Load()) + 1, Value: n}
	if err := emit(p); err != nil {
		st.stopped.Store(true)
		return false, err
	}
	st.results = append(st.results, p)
	st.found.Store(int64(p.Index))

	if p.Index >= st.target {
		st.stopped.Store(true)
		st.transition(domain.PhaseDraining)
	}
	return true, nil
}

func (st *searchState) snapshot() []domain.FoundPrime {
	st.mu.Lock()
	defer st.mu.Unlock()
	out := make([]domain.FoundPrime, len(st.results))
	copy(out, st.results)
	return out
}
