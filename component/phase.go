package component

// GamePhase gates sensor logic on readiness
type GamePhase uint8

const (
	PhaseLoading GamePhase = iota
	PhaseGame
)

func (p GamePhase) String() string {
	if p == PhaseGame {
		return "game"
	}
	return "loading"
}
