package main

import (
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Garsondee/Burrow-Sense/internal/game"
)

// planStep is one scripted command: apply action to the agent with label at
// the given simulated time.
type planStep struct {
	label  string
	action game.Action
	at     float64
}

type runStats struct {
	levelIndex int
	levelName  string
	outcome    game.LevelOutcome
	ticks      int
	counts     game.PopulationCounts

	firstSpawnTick   int
	firstSurviveTick int
	firstDeathTick   int
	firstDigTick     int

	stateChanges int
	stepUps      int
	bounces      int
	digs         int
	landings     int
	damageEvents int
	actions      int
	rejected     int
	dead         []string

	log *game.SimLog
}

func main() {
	var level int
	var seconds float64
	var hz float64
	var verbose bool
	var plan string

	flag.IntVar(&level, "level", -1, "catalogue index to run (-1 runs every level)")
	flag.Float64Var(&seconds, "seconds", 60, "simulated seconds before giving up")
	flag.Float64Var(&hz, "hz", 60, "fixed tick rate")
	flag.BoolVar(&verbose, "verbose", false, "dump the full event log for each run")
	flag.StringVar(&plan, "plan", "", "scripted commands, e.g. \"A0:dig:4.5,A1:stopothers:6\"")
	flag.Parse()

	if seconds <= 0 {
		fmt.Println("error: -seconds must be > 0")
		return
	}
	if hz <= 0 {
		fmt.Println("error: -hz must be > 0")
		return
	}
	steps, err := parsePlan(plan)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	levels, err := game.DefaultLevels()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	indices, err := selectLevels(level, len(levels))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Level Report ===\n")
	fmt.Printf("levels=%d seconds=%.1f hz=%.0f plan_steps=%d\n\n", len(indices), seconds, hz, len(steps))

	all := make([]runStats, 0, len(indices))
	for _, i := range indices {
		rs, err := runLevel(i, levels[i], seconds, hz, verbose, steps)
		if err != nil {
			fmt.Printf("error: level %d: %v\n", i, err)
			continue
		}
		all = append(all, rs)
		printRun(rs, verbose)
	}
	printAggregate(all)
}

func selectLevels(level, n int) ([]int, error) {
	if level >= n {
		return nil, fmt.Errorf("%w: %d of %d", game.ErrUnknownLevel, level, n)
	}
	if level >= 0 {
		return []int{level}, nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out, nil
}

// parsePlan reads comma separated label:action:seconds triples.
func parsePlan(s string) ([]planStep, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []planStep
	for _, part := range strings.Split(s, ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("plan step %q: want label:action:seconds", part)
		}
		action := game.ParseAction(fields[1])
		if action == game.ActionNone {
			return nil, fmt.Errorf("plan step %q: unknown action %q", part, fields[1])
		}
		at, err := strconv.ParseFloat(fields[2], 64)
		if err != nil || at < 0 {
			return nil, fmt.Errorf("plan step %q: bad time %q", part, fields[2])
		}
		out = append(out, planStep{label: fields[0], action: action, at: at})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out, nil
}

func runLevel(index int, l game.Level, seconds, hz float64, verbose bool, steps []planStep) (runStats, error) {
	ts, err := game.NewTestSim(
		game.WithLevel(l),
		game.WithTimeStep(1/hz),
		game.WithVerbose(verbose),
	)
	if err != nil {
		return runStats{}, err
	}

	rs := runStats{levelIndex: index, levelName: l.Name}
	maxTicks := int(seconds*hz + 0.5)
	next := 0
	for i := 0; i < maxTicks; i++ {
		elapsed := float64(ts.CurrentTick()) / hz
		for next < len(steps) && steps[next].at <= elapsed {
			if applyStep(ts, steps[next]) {
				rs.actions++
			} else {
				rs.rejected++
			}
			next++
		}
		if ts.Step() != game.OutcomeRunning {
			break
		}
	}

	rs.outcome = ts.Sim.Outcome()
	rs.ticks = ts.CurrentTick()
	rs.counts = game.CountPopulation(ts.Sim.Agents)
	sl := ts.SimLog
	rs.firstSpawnTick = sl.FirstTick("spawn", "new", "")
	rs.firstSurviveTick = sl.FirstTick("portal", "survived", "")
	rs.firstDeathTick = sl.FirstTick("state", "change", "→ death")
	rs.firstDigTick = sl.FirstTick("dig", "remove", "")
	rs.stateChanges = sl.CountCategory("state", "change")
	rs.stepUps = sl.CountCategory("move", "step_up")
	rs.bounces = sl.CountCategory("move", "bounce")
	rs.digs = sl.CountCategory("dig", "remove")
	rs.landings = sl.CountCategory("fall", "land")
	rs.damageEvents = sl.CountCategory("fall", "damage")
	rs.dead = sl.Labels("state", "change", "→ death")
	rs.log = sl
	return rs, nil
}

// applyStep finds the agent by label; agents that have not spawned yet count
// as a rejected command.
func applyStep(ts *game.TestSim, st planStep) bool {
	for i, a := range ts.Sim.Agents {
		if a.Label() == st.label {
			return ts.Act(i, st.action)
		}
	}
	return false
}

func printRun(rs runStats, verbose bool) {
	fmt.Printf("--- Level %d %q ---\n", rs.levelIndex, rs.levelName)
	fmt.Printf("outcome=%s ticks=%d population: %s\n", rs.outcome, rs.ticks, rs.counts.Describe())
	fmt.Printf("phase_markers: first_spawn=%d first_dig=%d first_survive=%d first_death=%d\n",
		rs.firstSpawnTick, rs.firstDigTick, rs.firstSurviveTick, rs.firstDeathTick)
	fmt.Printf("event_totals: state_change=%d step_up=%d bounce=%d dig=%d land=%d damage=%d\n",
		rs.stateChanges, rs.stepUps, rs.bounces, rs.digs, rs.landings, rs.damageEvents)
	fmt.Printf("commands: applied=%d rejected=%d\n", rs.actions, rs.rejected)
	fmt.Printf("dead_labels: %s\n", joinLabels(rs.dead))
	if verbose && rs.log != nil {
		for _, label := range rs.dead {
			fmt.Printf("  %s path: %s\n", label, formatPath(rs.log.StatePath(label)))
		}
		fmt.Print(rs.log.Format())
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	won, lost, running := 0, 0, 0
	totalSurvived, totalDead, totalAgents := 0, 0, 0
	surviveTicks := make([]int, 0, len(all))
	for _, rs := range all {
		switch rs.outcome {
		case game.OutcomeWon:
			won++
		case game.OutcomeLost:
			lost++
		default:
			running++
		}
		totalSurvived += rs.counts.Survived
		totalDead += rs.counts.Dead
		totalAgents += rs.counts.Total
		if rs.firstSurviveTick >= 0 {
			surviveTicks = append(surviveTicks, rs.firstSurviveTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("levels=%d won=%d lost=%d unresolved=%d\n", len(all), won, lost, running)
	fmt.Printf("agents=%d survived=%d dead=%d survival_rate=%.0f%%\n",
		totalAgents, totalSurvived, totalDead, pct(totalSurvived, totalAgents))
	fmt.Printf("avg_first_survive_tick=%s\n", avgTickString(surviveTicks))
}

func pct(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinLabels(labels []string) string {
	if len(labels) == 0 {
		return "none"
	}
	return strings.Join(labels, ",")
}

func formatPath(path []game.AgentState) string {
	parts := make([]string, len(path))
	for i, st := range path {
		parts[i] = st.String()
	}
	return strings.Join(parts, " → ")
}
