package game

import "fmt"

type LevelOutcome int

const (
	OutcomeRunning LevelOutcome = iota
	OutcomeWon
	OutcomeLost
)

func (o LevelOutcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "unknown"
	}
}

// PopulationCounts is a one-pass tally of the agent set.
type PopulationCounts struct {
	Total          int
	Active         int // walking or inAir
	ActiveSurvived int
	Digging        int
	Dead           int
	Stopped        int
	Survived       int
}

// CountPopulation tallies agents in a single linear scan.
func CountPopulation(agents []*Agent) PopulationCounts {
	var c PopulationCounts
	c.Total = len(agents)
	for _, a := range agents {
		if a.survived {
			c.Survived++
		}
		switch a.state {
		case AgentWalking, AgentInAir:
			c.Active++
			if a.survived {
				c.ActiveSurvived++
			}
		case AgentDigging:
			c.Digging++
		case AgentDeath:
			c.Dead++
		case AgentStopOthers:
			c.Stopped++
		}
	}
	return c
}

// Outcome classifies the counts. Won: at least one traversing agent and all of
// them survived; dead and stopped agents are ignored. Lost: a non-empty
// population in which nobody is walking or falling. Diggers do not count.
func (c PopulationCounts) Outcome() LevelOutcome {
	switch {
	case c.Active > 0 && c.ActiveSurvived == c.Active:
		return OutcomeWon
	case c.Total > 0 && c.Active == 0:
		return OutcomeLost
	default:
		return OutcomeRunning
	}
}

// Describe returns a one-line summary for logs and reports.
func (c PopulationCounts) Describe() string {
	return fmt.Sprintf("total=%d active=%d survived=%d digging=%d dead=%d stopped=%d",
		c.Total, c.Active, c.Survived, c.Digging, c.Dead, c.Stopped)
}

// EvaluateOutcome is CountPopulation followed by Outcome.
func EvaluateOutcome(agents []*Agent) LevelOutcome {
	return CountPopulation(agents).Outcome()
}
