package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulation_WinLatchesAndSurvivorsFreeze(t *testing.T) {
	ts := mustSim(t,
		WithLayout(32, flatRows...),
		WithEndPortal(256, 64, 50, 80),
		WithAgent(64, flatStandY, 1),
	)
	tick := ts.RunUntil(outcomeIsNot(OutcomeRunning), 600)
	require.Positive(t, tick)
	assert.Equal(t, OutcomeWon, ts.Sim.Outcome())

	a := ts.Agent(0)
	assert.True(t, a.Survived())
	x, _ := a.Position()
	assert.GreaterOrEqual(t, x+10, 256.0)

	ts.RunTicks(60)
	assert.Equal(t, tick, ts.CurrentTick(), "steps after the outcome are no-ops")
	assert.True(t, a.Survived())
	assert.Equal(t, 1, ts.SimLog.CountCategory("outcome", "won"))
}

func TestSimulation_NoExitNeverWins(t *testing.T) {
	ts := mustSim(t, WithLayout(32, flatRows...), WithAgent(64, flatStandY, 1))
	ts.RunSeconds(10)
	assert.Equal(t, OutcomeRunning, ts.Sim.Outcome())
	assert.False(t, ts.Agent(0).Survived())
}

func TestSimulation_SpawnsFromPortal(t *testing.T) {
	ts := mustSim(t,
		WithLayout(32, flatRows...),
		WithSpawn(48, 60, 2, time.Second),
	)
	ts.Step()
	require.Len(t, ts.Sim.Agents, 1)
	assert.True(t, ts.SimLog.HasEntry("spawn", "new", "1/2"))

	ts.RunSeconds(1.1)
	assert.Len(t, ts.Sim.Agents, 2)
	ts.RunSeconds(3)
	assert.Len(t, ts.Sim.Agents, 2)
}

func TestSimulation_AdvanceClampsFrameDelta(t *testing.T) {
	ts := mustSim(t, WithLayout(32, openRows...), WithAgent(100, 32, 1))
	sim := ts.Sim
	a := ts.Agent(0)
	t0 := harnessEpoch

	sim.Advance(t0)
	_, y0 := a.Position()
	assert.InDelta(t, 32.0, y0, 1e-9, "first frame has no delta")

	sim.Advance(t0.Add(5 * time.Second))
	_, y1 := a.Position()
	assert.InDelta(t, DefaultPhysics().Gravity*MaxFrameDelta*MaxFrameDelta, y1-y0, 1e-9,
		"a five second stall integrates as one capped step")
	assert.InDelta(t, DefaultPhysics().Gravity*MaxFrameDelta, a.VelocityY(), 1e-9)
}

func TestSimulation_PauseResume(t *testing.T) {
	ts := mustSim(t, WithLayout(32, openRows...), WithAgent(100, 32, 1))
	sim := ts.Sim
	t0 := harnessEpoch

	sim.Advance(t0)
	sim.Advance(t0.Add(16 * time.Millisecond))
	require.Equal(t, 2, sim.Tick())

	sim.Pause()
	assert.True(t, sim.Paused())
	sim.Advance(t0.Add(time.Second))
	sim.Step(t0.Add(time.Second), 0.016)
	assert.Equal(t, 2, sim.Tick(), "paused simulations do not step")

	vy := ts.Agent(0).VelocityY()
	sim.Resume(t0.Add(time.Minute))
	sim.Advance(t0.Add(time.Minute + 10*time.Millisecond))
	assert.Equal(t, 3, sim.Tick())
	assert.InDelta(t, vy+DefaultPhysics().Gravity*0.01, ts.Agent(0).VelocityY(), 1e-9,
		"resume resynchronises the frame clock")
}

func TestSimulation_ActAtHitTesting(t *testing.T) {
	ts := mustSim(t,
		WithLayout(32, flatRows...),
		WithAgent(64, flatStandY, 1),
		WithAgent(200, 40, 1),
	)
	ts.Step()

	a, ok := ts.Sim.ActAt(0, 0, ActionDig)
	assert.Nil(t, a)
	assert.False(t, ok)

	x, y := ts.Agent(1).Position()
	a, ok = ts.Sim.ActAt(x+5, y+5, ActionDig)
	assert.Same(t, ts.Agent(1), a)
	assert.False(t, ok, "airborne agents cannot dig")

	x, y = ts.Agent(0).Position()
	a, ok = ts.Sim.ActAt(x+5, y+14, ActionDig)
	assert.Same(t, ts.Agent(0), a)
	assert.True(t, ok)
	assert.Equal(t, AgentDigging, a.State())
	assert.True(t, ts.SimLog.HasEntry("state", "change", "walking → digging"))
	assert.Equal(t, 1, ts.SimLog.CountCategory("action", "dig"))
}

func TestSimulation_PaintAndSnapshot(t *testing.T) {
	ts := mustSim(t, WithLayout(32, flatRows...), WithAgent(64, flatStandY, 1))
	ts.Sim.Paint(100, 40, TileStone)
	ts.Sim.Paint(-5, 40, TileStone)
	k, _ := ts.Sim.Grid.At(3, 1)
	assert.Equal(t, TileStone, k)

	ts.Step()
	snap := ts.Sim.Snapshot()
	assert.Equal(t, 1, snap.Tick)
	assert.Equal(t, OutcomeRunning, snap.Outcome)
	require.Len(t, snap.Agents, 1)
	assert.Equal(t, "A0", snap.Agents[0].Label)
	assert.Equal(t, AgentWalking, snap.Agents[0].State)

	// Snapshots are copies.
	ts.RunTicks(10)
	assert.Equal(t, 1, snap.Tick)
	x, _ := ts.Agent(0).Position()
	assert.NotEqual(t, x, snap.Agents[0].X)
}

func TestSimulation_FromLevelLogsLoad(t *testing.T) {
	log := NewSimLog(false)
	sim, err := NewSimulationFromLevel(mustLevel(t, "First Steps"), DefaultPhysics(), log)
	require.NoError(t, err)
	assert.True(t, log.HasEntry("level", "load", "First Steps"))
	require.NotNil(t, sim.Exit)
	assert.InDelta(t, 50.0, sim.Exit.Width, 1e-9)
	assert.Equal(t, 3, sim.Spawner.Total)

	_, err = NewSimulationFromLevel(Level{Name: "broken"}, DefaultPhysics(), nil)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}
