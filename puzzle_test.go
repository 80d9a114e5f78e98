package main

import (
	"testing"
)

// TestShuffleBoardIsPermutation verifies every shuffle yields a permutation
// of [0, pieceCount).
func TestShuffleBoardIsPermutation(t *testing.T) {
	for pieces := 2; pieces <= 16; pieces++ {
		for i := 0; i < 100; i++ {
			perm := ShuffleBoard(pieces)
			if len(perm) != pieces {
				t.Fatalf("expected %d pieces, got %d", pieces, len(perm))
			}

			seen := make(map[int]bool, pieces)
			for _, orig := range perm {
				if orig < 0 || orig >= pieces {
					t.Fatalf("piece index %d out of range [0, %d)", orig, pieces)
				}
				if seen[orig] {
					t.Fatalf("duplicate piece index %d", orig)
				}
				seen[orig] = true
			}
		}
	}
}

// TestShuffleBoardNeverSolved verifies a dealt board always needs solving.
func TestShuffleBoardNeverSolved(t *testing.T) {
	for pieces := 2; pieces <= 9; pieces++ {
		for i := 0; i < 500; i++ {
			if Solved(ShuffleBoard(pieces)) {
				t.Fatalf("shuffle returned an already-solved %d-piece board", pieces)
			}
		}
	}
}

func TestShuffleBoardSinglePiece(t *testing.T) {
	perm := ShuffleBoard(1)
	if !Solved(perm) {
		t.Fatal("a 1-piece board should be trivially solved")
	}
}

func TestSolved(t *testing.T) {
	if !Solved([]int{0, 1, 2, 3}) {
		t.Error("identity permutation should be solved")
	}
	if Solved([]int{1, 0, 2, 3}) {
		t.Error("swapped permutation should not be solved")
	}
	if !Solved([]int{}) {
		t.Error("empty permutation should be solved")
	}
}

func TestSwapPieces(t *testing.T) {
	perm := []int{0, 1, 2}

	swapped := SwapPieces(perm, 0, 2)
	if swapped[0] != 2 || swapped[2] != 0 || swapped[1] != 1 {
		t.Errorf("unexpected swap result: %v", swapped)
	}
	if perm[0] != 0 || perm[2] != 2 {
		t.Errorf("swap mutated its input: %v", perm)
	}

	same := SwapPieces(perm, 1, 1)
	for i := range perm {
		if same[i] != perm[i] {
			t.Errorf("self-swap changed the board: %v", same)
			break
		}
	}
}

func TestPieces(t *testing.T) {
	pieces := Pieces([]int{2, 0, 1})
	want := []ShuffledPiece{
		{OriginalIndex: 2, CurrentIndex: 0},
		{OriginalIndex: 0, CurrentIndex: 1},
		{OriginalIndex: 1, CurrentIndex: 2},
	}
	if len(pieces) != len(want) {
		t.Fatalf("expected %d pieces, got %d", len(want), len(pieces))
	}
	for i := range want {
		if pieces[i] != want[i] {
			t.Errorf("piece %d: expected %+v, got %+v", i, want[i], pieces[i])
		}
	}
}

// TestScorePuzzleExamples pins the exact leaderboard formula. These values
// are load-bearing: the browser computes the same formula, and any drift
// breaks score comparability between clients.
func TestScorePuzzleExamples(t *testing.T) {
	cases := []struct {
		timeSeconds int
		moveCount   int
		want        int
	}{
		{30, 9, 1060},  // at both grace thresholds, move bonus only
		{10, 10, 1245}, // fast and efficient: both bonuses
		{60, 20, 645},  // slow and wasteful: both penalties
		{0, 0, 1550},   // instant perfect solve
		{20, 15, 970},  // one past each bonus threshold: penalties only
		{31, 9, 1050},  // one second past the time grace
		{30, 10, 1045}, // one move past the minimum
		{500, 100, 0},  // floored at zero
		{200, 9, 0},    // time penalty alone exceeds the base
	}

	for _, tc := range cases {
		got := ScorePuzzle(tc.timeSeconds, tc.moveCount)
		if got != tc.want {
			t.Errorf("ScorePuzzle(%d, %d) = %d, expected %d", tc.timeSeconds, tc.moveCount, got, tc.want)
		}
	}
}

// TestScorePuzzleMonotonicInTime verifies taking longer never raises the
// score for a fixed move count.
func TestScorePuzzleMonotonicInTime(t *testing.T) {
	for _, moves := range []int{0, 9, 20, 50} {
		prev := ScorePuzzle(0, moves)
		for secs := 1; secs <= 300; secs++ {
			cur := ScorePuzzle(secs, moves)
			if cur > prev {
				t.Fatalf("score increased with time: ScorePuzzle(%d, %d) = %d > %d", secs, moves, cur, prev)
			}
			prev = cur
		}
	}
}

func TestScorePuzzleNonNegative(t *testing.T) {
	for secs := 0; secs <= 600; secs += 17 {
		for moves := 0; moves <= 400; moves += 13 {
			if got := ScorePuzzle(secs, moves); got < 0 {
				t.Fatalf("ScorePuzzle(%d, %d) = %d, expected >= 0", secs, moves, got)
			}
		}
	}
}
