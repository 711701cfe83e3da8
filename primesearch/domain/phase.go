package domain

// Phase é o estado da máquina de estados de uma busca.
//
//	Idle -> Running -> Draining -> Completed
//
// Draining começa quando o alvo é atingido (ou o contexto é cancelado / um worker falha):
// iterações em andamento terminam, mas nenhum candidato novo é avaliado.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseDraining
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseDraining:
		return "draining"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// PhaseObserver é notificado a cada transição. Chamado de forma síncrona.
type PhaseObserver func(from, to Phase)
