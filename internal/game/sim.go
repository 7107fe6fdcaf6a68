package game

import (
	"fmt"
	"time"
)

// MaxFrameDelta caps the wall-clock step fed to the physics, in seconds.
const MaxFrameDelta = 0.1

// Simulation owns one running level: the grid, the exit, the spawner and the
// agents. All mutation happens synchronously inside Step.
type Simulation struct {
	Grid    *TileGrid
	Exit    *PortalZone // nil: no exit
	Spawner *SpawnController
	Agents  []*Agent
	Physics Physics
	Log     *SimLog

	tick      int
	outcome   LevelOutcome
	counts    PopulationCounts
	lastFrame time.Time
	paused    bool
}

// NewSimulation wires a simulation from its parts. A nil log gets a quiet one.
func NewSimulation(tg *TileGrid, exit *PortalZone, sp *SpawnController, ph Physics, log *SimLog) *Simulation {
	if log == nil {
		log = NewSimLog(false)
	}
	return &Simulation{
		Grid:    tg,
		Exit:    exit,
		Spawner: sp,
		Physics: ph,
		Log:     log,
	}
}

// NewSimulationFromLevel decodes a level descriptor into a fresh simulation.
func NewSimulationFromLevel(l Level, ph Physics, log *SimLog) (*Simulation, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	tg, err := l.BuildGrid()
	if err != nil {
		return nil, fmt.Errorf("level %q: %w", l.Name, err)
	}
	sp := NewSpawnController(l.Spawn[0], l.Spawn[1], l.AgentCount, l.Speed(ph), ph)
	sp.Interval = l.SpawnInterval()
	exit := l.ExitZone()
	s := NewSimulation(tg, &exit, sp, ph, log)
	s.Log.Add(0, "--", "level", "load", l.Name, float64(l.AgentCount))
	return s, nil
}

// Tick returns the number of steps taken.
func (s *Simulation) Tick() int { return s.tick }

// Outcome returns the latched level outcome.
func (s *Simulation) Outcome() LevelOutcome { return s.outcome }

// Counts returns the population tally from the last step.
func (s *Simulation) Counts() PopulationCounts { return s.counts }

// Paused reports whether stepping is suspended.
func (s *Simulation) Paused() bool { return s.paused }

// Pause suspends stepping. Nothing accumulates while paused.
func (s *Simulation) Pause() {
	s.paused = true
}

// Resume restarts stepping and resynchronises the frame clock to now so the
// next Advance does not see the pause as one huge step.
func (s *Simulation) Resume(now time.Time) {
	s.paused = false
	s.lastFrame = now
}

// Advance steps the simulation using the wall-clock time since the previous
// frame, capped at MaxFrameDelta.
func (s *Simulation) Advance(now time.Time) LevelOutcome {
	if s.paused {
		return s.outcome
	}
	dt := 0.0
	if !s.lastFrame.IsZero() {
		dt = now.Sub(s.lastFrame).Seconds()
	}
	s.lastFrame = now
	if dt < 0 {
		dt = 0
	}
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	return s.Step(now, dt)
}

// Step runs one tick: spawn, advance every agent in insertion order, then
// evaluate the outcome. Once the level is won or lost further steps are no-ops.
func (s *Simulation) Step(now time.Time, dt float64) LevelOutcome {
	if s.paused || s.outcome != OutcomeRunning {
		return s.outcome
	}
	s.tick++
	tick := s.tick

	if s.Spawner != nil {
		if a := s.Spawner.Update(now); a != nil {
			s.Agents = append(s.Agents, a)
			s.Log.Add(tick, a.label, "spawn", "new",
				fmt.Sprintf("(%.1f,%.1f) %d/%d", a.x, a.y, s.Spawner.Spawned, s.Spawner.Total),
				float64(s.Spawner.Spawned))
		}
	}

	for _, a := range s.Agents {
		prevState := a.state
		rep := a.Update(dt, s.Grid, s.Exit)
		s.logStep(tick, a, prevState, rep)
	}

	s.counts = CountPopulation(s.Agents)
	s.outcome = s.counts.Outcome()
	if s.outcome != OutcomeRunning {
		s.Log.Add(tick, "--", "outcome", s.outcome.String(), s.counts.Describe(), float64(s.counts.Survived))
	}
	return s.outcome
}

func (s *Simulation) logStep(tick int, a *Agent, prevState AgentState, rep StepReport) {
	if rep.SteppedUp {
		s.Log.Add(tick, a.label, "move", "step_up", fmt.Sprintf("(%.1f,%.1f)", a.x, a.y), a.y)
	}
	if rep.Bounced {
		s.Log.Add(tick, a.label, "move", "bounce", fmt.Sprintf("dir=%+d", a.direction), float64(a.direction))
	}
	if rep.Dug {
		s.Log.Add(tick, a.label, "dig", "remove", fmt.Sprintf("(%d,%d)", rep.DugCol, rep.DugRow), 0)
	}
	if rep.Landed {
		s.Log.Add(tick, a.label, "fall", "land", fmt.Sprintf("%.1fpx", rep.FallDistance), rep.FallDistance)
	}
	if rep.ParachuteSpent {
		s.Log.Add(tick, a.label, "fall", "parachute_spent", fmt.Sprintf("%.1fpx", rep.FallDistance), rep.FallDistance)
	}
	if rep.Damage > 0 {
		s.Log.Add(tick, a.label, "fall", "damage",
			fmt.Sprintf("-%.1f hp=%.1f", rep.Damage, a.health), rep.Damage)
	}
	if a.state != prevState {
		s.Log.Add(tick, a.label, "state", "change", fmt.Sprintf("%s → %s", prevState, a.state), 0)
	}
	if rep.Survived {
		s.Log.Add(tick, a.label, "portal", "survived", fmt.Sprintf("(%.1f,%.1f)", a.x, a.y), 0)
	}
	if !a.Frozen() {
		s.Log.AddVerbose(tick, a.label, "move", "position", fmt.Sprintf("(%.1f,%.1f)", a.x, a.y), 0)
	}
}

// AgentAt returns the first agent, in insertion order, whose box contains the
// point.
func (s *Simulation) AgentAt(px, py float64) *Agent {
	for _, a := range s.Agents {
		if a.ContainsPoint(px, py) {
			return a
		}
	}
	return nil
}

// ActAt applies an action to the first agent under the point. It reports the
// targeted agent (nil if none) and whether the action took effect.
func (s *Simulation) ActAt(px, py float64, action Action) (*Agent, bool) {
	a := s.AgentAt(px, py)
	if a == nil {
		return nil, false
	}
	return a, s.Act(a, action)
}

// Act applies an action to one agent and logs it if it took effect.
func (s *Simulation) Act(a *Agent, action Action) bool {
	prev := a.state
	if !a.Act(action, s.Grid) {
		return false
	}
	s.Log.Add(s.tick, a.label, "action", action.String(), fmt.Sprintf("(%.1f,%.1f)", a.x, a.y), 0)
	if a.state != prev {
		s.Log.Add(s.tick, a.label, "state", "change", fmt.Sprintf("%s → %s", prev, a.state), 0)
	}
	return true
}

// Paint is the editor mutation: one tile under a pixel, bounds-checked only.
func (s *Simulation) Paint(px, py float64, k TileKind) {
	s.Grid.SetTileAt(px, py, k)
}

// AgentSnapshot is a value copy of one agent's observable state.
type AgentSnapshot struct {
	ID       int
	Label    string
	X, Y     float64
	State    AgentState
	Health   float64
	Survived bool
}

// Snapshot captures the current state of the level.
type Snapshot struct {
	Tick    int
	Outcome LevelOutcome
	Agents  []AgentSnapshot
}

// Snapshot returns a value copy of every agent.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{Tick: s.tick, Outcome: s.outcome, Agents: make([]AgentSnapshot, 0, len(s.Agents))}
	for _, a := range s.Agents {
		snap.Agents = append(snap.Agents, AgentSnapshot{
			ID:       a.id,
			Label:    a.label,
			X:        a.x,
			Y:        a.y,
			State:    a.state,
			Health:   a.health,
			Survived: a.survived,
		})
	}
	return snap
}
