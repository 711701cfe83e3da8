package domain

import "context"

// SlotPool representa a capacidade finita de buscas simultâneas (cada busca já
// ocupa vários núcleos com seus workers).
//
// A semântica é: Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, retorna uma função de release que deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
