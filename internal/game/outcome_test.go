package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func agentIn(st AgentState, survived bool) *Agent {
	a := NewAgent(0, 0, 0, 50, DefaultPhysics())
	a.state = st
	a.survived = survived
	return a
}

func TestOutcome_Classification(t *testing.T) {
	cases := []struct {
		name   string
		agents []*Agent
		want   LevelOutcome
	}{
		{"empty population", nil, OutcomeRunning},
		{"walker still out", []*Agent{agentIn(AgentWalking, false)}, OutcomeRunning},
		{"all walkers home", []*Agent{agentIn(AgentWalking, true), agentIn(AgentInAir, true)}, OutcomeWon},
		{"dead ignored for win", []*Agent{agentIn(AgentWalking, true), agentIn(AgentDeath, false)}, OutcomeWon},
		{"blocker ignored for win", []*Agent{agentIn(AgentWalking, true), agentIn(AgentStopOthers, false)}, OutcomeWon},
		{"one walker left out", []*Agent{agentIn(AgentWalking, true), agentIn(AgentWalking, false)}, OutcomeRunning},
		{"all dead", []*Agent{agentIn(AgentDeath, false), agentIn(AgentDeath, false)}, OutcomeLost},
		{"dead and blockers", []*Agent{agentIn(AgentDeath, false), agentIn(AgentStopOthers, false)}, OutcomeLost},
		{"dead and digger", []*Agent{agentIn(AgentDeath, false), agentIn(AgentDigging, false)}, OutcomeLost},
		{"only diggers", []*Agent{agentIn(AgentDigging, false), agentIn(AgentDigging, false)}, OutcomeLost},
		{"digger beside walker", []*Agent{agentIn(AgentDigging, false), agentIn(AgentWalking, false)}, OutcomeRunning},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EvaluateOutcome(tc.agents))
		})
	}
}

func TestCountPopulation(t *testing.T) {
	c := CountPopulation([]*Agent{
		agentIn(AgentWalking, true),
		agentIn(AgentInAir, false),
		agentIn(AgentDigging, false),
		agentIn(AgentDeath, false),
		agentIn(AgentStopOthers, false),
	})
	assert.Equal(t, PopulationCounts{
		Total:          5,
		Active:         2,
		ActiveSurvived: 1,
		Digging:        1,
		Dead:           1,
		Stopped:        1,
		Survived:       1,
	}, c)
	assert.Equal(t, "total=5 active=2 survived=1 digging=1 dead=1 stopped=1", c.Describe())
}

func TestLevelOutcome_String(t *testing.T) {
	assert.Equal(t, "running", OutcomeRunning.String())
	assert.Equal(t, "won", OutcomeWon.String())
	assert.Equal(t, "lost", OutcomeLost.String())
	assert.Equal(t, "unknown", LevelOutcome(9).String())
}
