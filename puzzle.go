// Puzzle board algorithms: shuffling, solved-state checks, and scoring.
//
// Everything in this file is pure and stateless. The same scoring formula runs
// in the browser client; the server copy exists so the board endpoint and the
// tests stay the single source of truth for what a "correct" score is. Changing
// any constant here silently breaks leaderboard comparability between clients,
// so don't.

package main

import (
	"math/rand"
)

const (
	scoreBase        = 1000 // flat starting score per puzzle
	timeGraceSeconds = 30   // seconds before the time penalty kicks in
	timePenaltyRate  = 10
	minimumMoves     = 9 // theoretical minimum swaps for a 9-piece board
	movePenaltyRate  = 5
	fastSolveSeconds = 20 // solves faster than this earn a time bonus
	timeBonusRate    = 20
	efficientMoves   = 15 // solves with fewer moves than this earn a move bonus
	moveBonusRate    = 10
)

// ShuffledPiece describes one tile of a shuffled board: where the tile belongs
// in the solved picture, and where it currently sits.
type ShuffledPiece struct {
	OriginalIndex int `json:"original_index"`
	CurrentIndex  int `json:"current_index"`
}

// ShuffleBoard returns a random permutation of [0, pieceCount) via a
// Fisher-Yates pass. The result is never the identity permutation when
// pieceCount > 1: if the shuffle happens to land on an already-solved board,
// the first two pieces are swapped before returning, so every board dealt to
// a player actually needs solving.
func ShuffleBoard(pieceCount int) []int {
	perm := make([]int, pieceCount)
	for i := range perm {
		perm[i] = i
	}

	for i := pieceCount - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	if pieceCount > 1 && Solved(perm) {
		perm[0], perm[1] = perm[1], perm[0]
	}

	return perm
}

// Pieces expands a permutation into the wire representation sent to clients.
func Pieces(perm []int) []ShuffledPiece {
	pieces := make([]ShuffledPiece, 0, len(perm))
	for pos, orig := range perm {
		pieces = append(pieces, ShuffledPiece{
			OriginalIndex: orig,
			CurrentIndex:  pos,
		})
	}
	return pieces
}

// Solved reports whether every piece sits at its original position.
func Solved(perm []int) bool {
	for i, orig := range perm {
		if orig != i {
			return false
		}
	}
	return true
}

// SwapPieces returns a copy of perm with the pieces at positions i and j
// exchanged. Swapping a position with itself returns an unchanged copy.
func SwapPieces(perm []int, i, j int) []int {
	out := make([]int, len(perm))
	copy(out, perm)
	out[i], out[j] = out[j], out[i]
	return out
}

// ScorePuzzle computes the score for one completed puzzle from the solve time
// and move count. Base score minus penalties for slow or wasteful solves, plus
// bonuses for fast or efficient ones, floored at zero. Integer math only; this
// is the sole ranking authority and must not be "adjusted" anywhere else.
func ScorePuzzle(timeSeconds, moveCount int) int {
	score := scoreBase

	if timeSeconds > timeGraceSeconds {
		score -= (timeSeconds - timeGraceSeconds) * timePenaltyRate
	}
	if moveCount > minimumMoves {
		score -= (moveCount - minimumMoves) * movePenaltyRate
	}
	if timeSeconds < fastSolveSeconds {
		score += (fastSolveSeconds - timeSeconds) * timeBonusRate
	}
	if moveCount < efficientMoves {
		score += (efficientMoves - moveCount) * moveBonusRate
	}

	if score < 0 {
		return 0
	}
	return score
}
