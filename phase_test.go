package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGamePhaseInitialState(t *testing.T) {
	g := NewGamePhase()

	assert.Equal(t, PhaseLobby, g.State())
	assert.Zero(t, g.TotalPuzzles())
	assert.True(t, g.StartedAt().IsZero())
	assert.False(t, g.RoundStarted())
}

func TestGamePhaseStart(t *testing.T) {
	g := NewGamePhase()

	require.True(t, g.Start(3))
	assert.Equal(t, PhaseRunning, g.State())
	assert.Equal(t, 3, g.TotalPuzzles())
	assert.False(t, g.StartedAt().IsZero())
	assert.True(t, g.RoundStarted())

	// Starting again mid-round changes nothing.
	assert.False(t, g.Start(5))
	assert.Equal(t, 3, g.TotalPuzzles())
}

func TestGamePhaseStartClampsPuzzleCount(t *testing.T) {
	g := NewGamePhase()

	require.True(t, g.Start(0))
	assert.Equal(t, 1, g.TotalPuzzles())
}

func TestGamePhaseEnd(t *testing.T) {
	g := NewGamePhase()

	// End before start is invalid.
	assert.False(t, g.End())

	require.True(t, g.Start(4))
	require.True(t, g.End())

	assert.Equal(t, PhaseEnded, g.State())
	assert.True(t, g.StartedAt().IsZero())
	// Puzzle count survives so result screens can show "X of Y".
	assert.Equal(t, 4, g.TotalPuzzles())
	assert.True(t, g.RoundStarted())

	assert.False(t, g.End())
}

func TestGamePhaseReset(t *testing.T) {
	g := NewGamePhase()
	require.True(t, g.Start(4))
	require.True(t, g.End())

	g.Reset()

	assert.Equal(t, PhaseLobby, g.State())
	assert.Zero(t, g.TotalPuzzles())
	assert.True(t, g.StartedAt().IsZero())
	assert.False(t, g.RoundStarted())

	// The cycle repeats indefinitely.
	assert.True(t, g.Start(2))
}
