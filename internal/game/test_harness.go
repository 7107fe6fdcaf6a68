package game

import (
	"fmt"
	"time"
)

// harnessEpoch is the fake wall clock origin used by TestSim.
var harnessEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// TestSim is a headless, deterministic driver around Simulation. The clock is
// fake: every tick advances it by exactly DT seconds.
type TestSim struct {
	Sim    *Simulation
	SimLog *SimLog
	DT     float64
	Clock  time.Time

	physics  Physics
	grid     *TileGrid
	layout   []string
	tileSize float64
	level    *Level
	exit     *PortalZone
	spawn    *spawnSpec
}

type spawnSpec struct {
	x, y     float64
	count    int
	interval time.Duration
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // grid, physics, timing, log
	simOptAgent                      // agents placed directly on the built grid
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithLayout builds the grid from rows of '.', 'D', 'S' and 'I' characters.
func WithLayout(tileSize float64, rows ...string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.layout = rows
		ts.tileSize = tileSize
	}}
}

// WithGrid uses an already built grid.
func WithGrid(tg *TileGrid) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.grid = tg
	}}
}

// WithLevel builds grid, exit and spawner from a level descriptor.
func WithLevel(l Level) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.level = &l
	}}
}

// WithPhysics overrides the default physics tuning.
func WithPhysics(ph Physics) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.physics = ph
	}}
}

// WithTimeStep sets the fixed tick length in seconds.
func WithTimeStep(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.DT = dt
	}}
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithEndPortal places the exit rectangle.
func WithEndPortal(x, y, w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.exit = &PortalZone{X: x, Y: y, Width: w, Height: h}
	}}
}

// WithSpawn adds a start portal at (x, y) emitting count agents.
func WithSpawn(x, y float64, count int, interval time.Duration) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.spawn = &spawnSpec{x: x, y: y, count: count, interval: interval}
	}}
}

// WithAgent places an agent with its top-left corner at (x, y) facing dir.
func WithAgent(x, y float64, dir int) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		a := NewAgent(len(ts.Sim.Agents), x, y, ts.physics.AgentSpeed, ts.physics)
		if dir < 0 {
			a.direction = -1
		}
		ts.Sim.Agents = append(ts.Sim.Agents, a)
	}}
}

// NewTestSim constructs a TestSim in two passes: infrastructure, then agents.
func NewTestSim(opts ...SimOption) (*TestSim, error) {
	ts := &TestSim{
		DT:      1.0 / 60,
		Clock:   harnessEpoch,
		SimLog:  NewSimLog(false),
		physics: DefaultPhysics(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	if err := ts.build(); err != nil {
		return nil, err
	}
	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(ts)
		}
	}
	return ts, nil
}

func (ts *TestSim) build() error {
	if ts.level != nil {
		sim, err := NewSimulationFromLevel(*ts.level, ts.physics, ts.SimLog)
		if err != nil {
			return err
		}
		ts.Sim = sim
		return nil
	}
	tg := ts.grid
	if tg == nil {
		var err error
		tg, err = parseLayout(ts.layout, ts.tileSize)
		if err != nil {
			return err
		}
	}
	var sp *SpawnController
	if ts.spawn != nil {
		sp = NewSpawnController(ts.spawn.x, ts.spawn.y, ts.spawn.count, ts.physics.AgentSpeed, ts.physics)
		sp.Interval = ts.spawn.interval
	}
	ts.Sim = NewSimulation(tg, ts.exit, sp, ts.physics, ts.SimLog)
	return nil
}

// parseLayout accepts the level characters plus 'I' for invisible tiles.
func parseLayout(rows []string, tileSize float64) (*TileGrid, error) {
	if tileSize <= 0 {
		tileSize = 32
	}
	out := make([][]TileKind, len(rows))
	for r, line := range rows {
		out[r] = make([]TileKind, len(line))
		for c, ch := range line {
			switch ch {
			case '.':
				out[r][c] = TileEmpty
			case 'D':
				out[r][c] = TileDirt
			case 'S':
				out[r][c] = TileStone
			case 'I':
				out[r][c] = TileInvisible
			default:
				return nil, fmt.Errorf("layout row %d col %d: unknown tile %q", r, c, ch)
			}
		}
	}
	return NewTileGridFromRows(out, tileSize)
}

// Agent returns the i-th agent, or nil.
func (ts *TestSim) Agent(i int) *Agent {
	if i < 0 || i >= len(ts.Sim.Agents) {
		return nil
	}
	return ts.Sim.Agents[i]
}

// Step advances one tick on the fake clock.
func (ts *TestSim) Step() LevelOutcome {
	ts.Clock = ts.Clock.Add(time.Duration(ts.DT * float64(time.Second)))
	return ts.Sim.Step(ts.Clock, ts.DT)
}

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.Step()
	}
}

// RunSeconds advances the simulation by roughly the given simulated time.
func (ts *TestSim) RunSeconds(sec float64) {
	ts.RunTicks(int(sec/ts.DT + 0.5))
}

// RunUntil advances up to maxTicks, stopping early if predicate returns true.
// Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.Step()
		if predicate(ts) {
			return ts.Sim.Tick()
		}
	}
	return -1
}

// Act applies an action to agent i directly.
func (ts *TestSim) Act(i int, action Action) bool {
	a := ts.Agent(i)
	if a == nil {
		return false
	}
	return ts.Sim.Act(a, action)
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.Sim.Tick()
}
