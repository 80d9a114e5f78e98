package main

import "time"

// Messages coming from clients. One envelope for every inbound kind, with
// fields populated per type; required-but-absent fields cause the message to
// be dropped at the handler.
type ClientMessage struct {
	Type string `json:"type"` // "join", "ready", "progress", "complete", "start", "end", "reset"

	// join
	PersistentID string `json:"persistent_id,omitempty"` // empty: server assigns one
	DisplayName  string `json:"display_name,omitempty"`
	GameMaster   bool   `json:"game_master,omitempty"`

	// ready
	Ready *bool `json:"ready,omitempty"`

	// progress / complete
	PuzzleIndex *int `json:"puzzle_index,omitempty"`
	MoveCount   int  `json:"move_count,omitempty"`
	Score       int  `json:"score,omitempty"`
	TimeSeconds int  `json:"time_seconds,omitempty"`

	// complete
	CompletedCount     int  `json:"completed_count,omitempty"`
	CurrentPuzzleIndex *int `json:"current_puzzle_index,omitempty"`
	PuzzleScore        int  `json:"puzzle_score,omitempty"`

	// start
	TotalPuzzles int `json:"total_puzzles,omitempty"`
}

// ParticipantView is one roster row as sent to clients.
type ParticipantView struct {
	PersistentID string    `json:"persistent_id"`
	DisplayName  string    `json:"display_name"`
	GameMaster   bool      `json:"game_master"`
	Online       bool      `json:"online"`
	Ready        bool      `json:"ready"`
	PuzzleIndex  int       `json:"puzzle_index"`
	MoveCount    int       `json:"move_count"`
	Completed    int       `json:"completed"`
	Score        int       `json:"score"`
	TimeSeconds  int       `json:"time_seconds"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RosterMessage is the full-roster snapshot broadcast after every mutation.
// Always the complete list, never a diff.
type RosterMessage struct {
	Type    string            `json:"type"` // "roster"
	Players []ParticipantView `json:"players"`
}

// PhaseMessage carries the current game phase. Sent to a connection right
// after its join is applied (with the persistent id echoed back so the client
// can store it), and broadcast on every phase transition.
type PhaseMessage struct {
	Type         string     `json:"type"`  // "phase"
	Phase        Phase      `json:"phase"` // "lobby", "running", "ended"
	StartedAt    *time.Time `json:"started_at,omitempty"`
	TotalPuzzles int        `json:"total_puzzles"`
	PersistentID string     `json:"persistent_id,omitempty"` // join echo only
}

// CompletionMessage is the one-shot notice broadcast when a participant
// finishes a puzzle, alongside (and strictly after) the roster snapshot.
type CompletionMessage struct {
	Type            string `json:"type"` // "puzzle_completed"
	PersistentID    string `json:"persistent_id"`
	DisplayName     string `json:"display_name"`
	PuzzleIndex     int    `json:"puzzle_index"`
	PuzzleScore     int    `json:"puzzle_score"`
	CumulativeScore int    `json:"cumulative_score"`
}

// ImageListMessage announces the current puzzle image catalog whenever it
// changes, so connected clients can rebuild their boards.
type ImageListMessage struct {
	Type   string     `json:"type"` // "image_list"
	Images []ImageRef `json:"images"`
}

func participantView(p *Participant) ParticipantView {
	return ParticipantView{
		PersistentID: p.PersistentID,
		DisplayName:  p.DisplayName,
		GameMaster:   p.GameMaster,
		Online:       p.Online,
		Ready:        p.Ready,
		PuzzleIndex:  p.PuzzleIndex,
		MoveCount:    p.MoveCount,
		Completed:    p.Completed,
		Score:        p.Score,
		TimeSeconds:  p.TimeSeconds,
		UpdatedAt:    p.UpdatedAt,
	}
}

func rosterMessage(roster []*Participant) RosterMessage {
	players := make([]ParticipantView, 0, len(roster))
	for _, p := range roster {
		players = append(players, participantView(p))
	}
	return RosterMessage{
		Type:    "roster",
		Players: players,
	}
}

func phaseMessage(g *GamePhase, echoPersistentID string) PhaseMessage {
	msg := PhaseMessage{
		Type:         "phase",
		Phase:        g.State(),
		TotalPuzzles: g.TotalPuzzles(),
		PersistentID: echoPersistentID,
	}
	if started := g.StartedAt(); !started.IsZero() {
		msg.StartedAt = &started
	}
	return msg
}
