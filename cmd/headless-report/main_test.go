package main

import (
	"testing"

	"github.com/Garsondee/Burrow-Sense/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan_SortsByTime(t *testing.T) {
	steps, err := parsePlan("A1:stopothers:6, A0:dig:4.5")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "A0", steps[0].label)
	assert.Equal(t, game.ActionDig, steps[0].action)
	assert.InDelta(t, 4.5, steps[0].at, 1e-9)
	assert.Equal(t, game.ActionStopOthers, steps[1].action)
}

func TestParsePlan_Empty(t *testing.T) {
	steps, err := parsePlan("  ")
	require.NoError(t, err)
	assert.Empty(t, steps)
}

func TestParsePlan_Errors(t *testing.T) {
	for _, in := range []string{"A0:dig", "A0:jump:1", "A0:dig:-1", "A0:dig:soon"} {
		_, err := parsePlan(in)
		assert.Error(t, err, in)
	}
}

func TestSelectLevels(t *testing.T) {
	all, err := selectLevels(-1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, all)

	one, err := selectLevels(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, one)

	_, err = selectLevels(3, 3)
	assert.ErrorIs(t, err, game.ErrUnknownLevel)
}

func TestFormattingHelpers(t *testing.T) {
	assert.Equal(t, "none", joinLabels(nil))
	assert.Equal(t, "A0,A2", joinLabels([]string{"A0", "A2"}))
	assert.Equal(t, "inAir → walking → death",
		formatPath([]game.AgentState{game.AgentInAir, game.AgentWalking, game.AgentDeath}))
	assert.Equal(t, "n/a", avgTickString(nil))
	assert.Equal(t, "15.0", avgTickString([]int{10, 20}))
	assert.InDelta(t, 50.0, pct(1, 2), 1e-9)
	assert.Zero(t, pct(1, 0))
}

func TestRunLevel_FirstLevelIsWon(t *testing.T) {
	levels, err := game.DefaultLevels()
	require.NoError(t, err)

	rs, err := runLevel(0, levels[0], 60, 60, false, nil)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeWon, rs.outcome)
	assert.Equal(t, levels[0].AgentCount, rs.counts.Survived)
	assert.GreaterOrEqual(t, rs.stepUps, 1)
	assert.Positive(t, rs.firstSurviveTick)
}

func TestRunLevel_DigDownNeedsOneDigger(t *testing.T) {
	levels, err := game.DefaultLevels()
	require.NoError(t, err)

	idle, err := runLevel(1, levels[1], 20, 60, false, nil)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeRunning, idle.outcome)

	steps, err := parsePlan("A0:dig:3")
	require.NoError(t, err)
	rs, err := runLevel(1, levels[1], 60, 60, false, steps)
	require.NoError(t, err)
	assert.Equal(t, game.OutcomeWon, rs.outcome)
	assert.Equal(t, 1, rs.actions)
	assert.Equal(t, 2, rs.digs)
	assert.Empty(t, rs.dead)
}

func TestRunLevel_UnspawnedPlanStepIsRejected(t *testing.T) {
	levels, err := game.DefaultLevels()
	require.NoError(t, err)

	rs, err := runLevel(0, levels[0], 1, 60, false, []planStep{{label: "A9", action: game.ActionDig}})
	require.NoError(t, err)
	assert.Equal(t, 1, rs.rejected)
	assert.Zero(t, rs.actions)
}
