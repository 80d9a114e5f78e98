package main

import "time"

// Phase is the shared game phase. The process cycles Lobby -> Running ->
// Ended -> Lobby indefinitely; reset returns to Lobby from anywhere.
type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseRunning Phase = "running"
	PhaseEnded   Phase = "ended"
)

// GamePhase is the process-wide phase singleton. Like Registry it is owned by
// the hub's message loop and performs no locking of its own. Authorization
// (game-master-only transitions) is enforced by the caller before any of the
// transition methods run.
type GamePhase struct {
	state        Phase
	startedAt    time.Time
	totalPuzzles int
}

func NewGamePhase() *GamePhase {
	return &GamePhase{state: PhaseLobby}
}

func (g *GamePhase) State() Phase { return g.state }

func (g *GamePhase) StartedAt() time.Time { return g.startedAt }

func (g *GamePhase) TotalPuzzles() int { return g.totalPuzzles }

// RoundStarted reports whether a round has begun in the current game
// lifetime. The puzzle count is set only by a lobby->running transition and
// survives the round ending, so it doubles as the "has anything happened
// worth retaining" signal for the disconnect retention policy.
func (g *GamePhase) RoundStarted() bool { return g.totalPuzzles > 0 }

// Start moves Lobby -> Running, fixing the puzzle count for the round.
// A requested count below 1 is clamped to 1.
func (g *GamePhase) Start(totalPuzzles int) bool {
	if g.state != PhaseLobby {
		return false
	}
	g.state = PhaseRunning
	g.startedAt = time.Now()
	g.totalPuzzles = max(1, totalPuzzles)
	return true
}

// End moves Running -> Ended. The puzzle count is preserved so result screens
// can keep showing "X of Y" after the round closes.
func (g *GamePhase) End() bool {
	if g.state != PhaseRunning {
		return false
	}
	g.state = PhaseEnded
	g.startedAt = time.Time{}
	return true
}

// Reset returns to Lobby from any state, clearing the round entirely.
func (g *GamePhase) Reset() {
	g.state = PhaseLobby
	g.startedAt = time.Time{}
	g.totalPuzzles = 0
}
