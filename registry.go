package main

import (
	"sort"
	"time"
)

// Participant is the server-side record for one persistent player (or the
// game master), surviving across any number of transport connections.
type Participant struct {
	PersistentID string
	DisplayName  string
	GameMaster   bool
	Online       bool
	Ready        bool
	PuzzleIndex  int
	MoveCount    int
	Completed    int
	Score        int
	TimeSeconds  int
	UpdatedAt    time.Time

	// Last reported score per puzzle index for the current round. A repeat
	// report for an index replaces the previous entry rather than stacking.
	results map[int]int

	joined int // join sequence, used as the final roster tiebreaker
}

// Result returns the recorded score for one puzzle index, if any.
func (p *Participant) Result(puzzleIndex int) (int, bool) {
	score, ok := p.results[puzzleIndex]
	return score, ok
}

// Registry is the authoritative participant store: persistent id -> record,
// with a secondary lookup from live connection id to persistent id.
//
// Registry is not safe for concurrent use; it is owned by the hub's message
// loop, which serializes all access. Constructing independent registries for
// independent hubs (or tests) is the expected usage.
type Registry struct {
	participants map[string]*Participant
	connections  map[string]string // connection id -> persistent id
	joinSeq      int
}

func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string]*Participant),
		connections:  make(map[string]string),
	}
}

// Resolve maps a live connection id to its bound participant, or nil if the
// connection never joined (or its binding was superseded).
func (r *Registry) Resolve(connID string) *Participant {
	pid, ok := r.connections[connID]
	if !ok {
		return nil
	}
	return r.participants[pid]
}

// Join creates or revives the participant for persistentID and binds connID
// to it. A join for an already-known id supersedes any prior connection
// binding: the old connection, if still open, no longer resolves to this
// participant. Exactly one live connection per participant at any instant.
func (r *Registry) Join(connID, persistentID, displayName string, gameMaster bool) *Participant {
	p, ok := r.participants[persistentID]
	if ok {
		p.Online = true
		p.DisplayName = displayName
		p.UpdatedAt = time.Now()
	} else {
		r.joinSeq++
		p = &Participant{
			PersistentID: persistentID,
			DisplayName:  displayName,
			GameMaster:   gameMaster,
			Online:       true,
			UpdatedAt:    time.Now(),
			results:      make(map[int]int),
			joined:       r.joinSeq,
		}
		r.participants[persistentID] = p
	}

	// Supersede any previous binding for this participant.
	for conn, pid := range r.connections {
		if pid == persistentID && conn != connID {
			delete(r.connections, conn)
		}
	}
	r.connections[connID] = persistentID

	return p
}

// SetReady flags the bound participant as (not) ready to advance. Returns
// false when the connection is unbound, in which case nothing changed.
func (r *Registry) SetReady(connID string, ready bool) bool {
	p := r.Resolve(connID)
	if p == nil {
		return false
	}
	p.Ready = ready
	p.UpdatedAt = time.Now()
	return true
}

// UpdateProgress overwrites the participant's live progress fields. This is
// the high-frequency path: every call fully replaces the four fields, so
// rapid repeated calls can never accumulate partial state.
func (r *Registry) UpdateProgress(connID string, puzzleIndex, moveCount, score, timeSeconds int) bool {
	p := r.Resolve(connID)
	if p == nil {
		return false
	}
	p.PuzzleIndex = puzzleIndex
	p.MoveCount = moveCount
	p.Score = score
	p.TimeSeconds = timeSeconds
	p.UpdatedAt = time.Now()
	return true
}

// RecordCompletion stores a finished puzzle. The cumulative totals arrive
// pre-summed from the client and are stored as-is; the per-index result is
// recorded last-write-wins, so a duplicate report for the same puzzle index
// replaces rather than double-counts. Returns the participant for the
// follow-up completion notice, or nil if the connection is unbound.
func (r *Registry) RecordCompletion(connID string, completed, score, timeSeconds, currentIndex, puzzleIndex, puzzleScore int) *Participant {
	p := r.Resolve(connID)
	if p == nil {
		return nil
	}
	p.Completed = completed
	p.Score = score
	p.TimeSeconds = timeSeconds
	p.PuzzleIndex = currentIndex
	p.results[puzzleIndex] = puzzleScore
	p.UpdatedAt = time.Now()
	return p
}

// Disconnect unbinds connID and marks its participant offline. Records are
// retained while a round is (or has been) in play so results survive flaky
// links, with two exceptions: before any round has started there is nothing
// worth keeping, and the game master is always removed outright.
func (r *Registry) Disconnect(connID string, roundStarted bool) (p *Participant, removed bool) {
	p = r.Resolve(connID)
	delete(r.connections, connID)
	if p == nil {
		return nil, false
	}

	p.Online = false
	p.UpdatedAt = time.Now()

	if p.GameMaster || !roundStarted {
		delete(r.participants, p.PersistentID)
		return p, true
	}
	return p, false
}

// ResetAll wipes the game back to an empty lobby: every non-game-master
// participant is deleted, the game master's own progress is zeroed in place,
// and every connection binding except the requester's is cleared. Only a
// connection resolving to a game master may reset; anything else is a no-op.
func (r *Registry) ResetAll(connID string) bool {
	requester := r.Resolve(connID)
	if requester == nil || !requester.GameMaster {
		return false
	}

	for pid, p := range r.participants {
		if !p.GameMaster {
			delete(r.participants, pid)
			continue
		}
		p.Ready = false
		p.PuzzleIndex = 0
		p.MoveCount = 0
		p.Completed = 0
		p.Score = 0
		p.TimeSeconds = 0
		p.results = make(map[int]int)
		p.UpdatedAt = time.Now()
	}

	for conn := range r.connections {
		if conn != connID {
			delete(r.connections, conn)
		}
	}

	return true
}

// Roster returns all participants in leaderboard order: cumulative score
// descending, then cumulative time ascending, then join order.
func (r *Registry) Roster() []*Participant {
	roster := make([]*Participant, 0, len(r.participants))
	for _, p := range r.participants {
		roster = append(roster, p)
	}

	sort.Slice(roster, func(i, j int) bool {
		if roster[i].Score != roster[j].Score {
			return roster[i].Score > roster[j].Score
		}
		if roster[i].TimeSeconds != roster[j].TimeSeconds {
			return roster[i].TimeSeconds < roster[j].TimeSeconds
		}
		return roster[i].joined < roster[j].joined
	})

	return roster
}
