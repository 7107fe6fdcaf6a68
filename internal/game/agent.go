package game

import (
	"fmt"
	"math"
)

// snapEpsilon absorbs float error when a coordinate sits exactly on a tile edge.
const snapEpsilon = 1e-6

// Physics holds the tunable constants of the agent model.
type Physics struct {
	Gravity            float64 // px/s²
	DigDuration        float64 // seconds per dig action
	SafeFallTiles      float64 // falls longer than this many tile heights hurt
	AgentWidth         float64
	AgentHeight        float64
	AgentSpeed         float64 // px/s
	StartHealth        float64
	ParachuteFallSpeed float64 // terminal velocity under a parachute, px/s
}

// DefaultPhysics returns the stock tuning.
func DefaultPhysics() Physics {
	return Physics{
		Gravity:            500,
		DigDuration:        1.0,
		SafeFallTiles:      3,
		AgentWidth:         10,
		AgentHeight:        15,
		AgentSpeed:         50,
		StartHealth:        100,
		ParachuteFallSpeed: 60,
	}
}

// AgentState is the agent's state machine node.
type AgentState int

const (
	AgentInAir      AgentState = iota // falling or just stepped up
	AgentWalking                      // feet on solid ground
	AgentDigging                      // digging straight down
	AgentDeath                        // terminal
	AgentStopOthers                   // terminal, blocks other agents
	agentStateCount                   // sentinel
)

func (s AgentState) String() string {
	switch s {
	case AgentInAir:
		return "inAir"
	case AgentWalking:
		return "walking"
	case AgentDigging:
		return "digging"
	case AgentDeath:
		return "death"
	case AgentStopOthers:
		return "stopothers"
	default:
		return "unknown"
	}
}

// ParseAgentState is the inverse of AgentState.String.
func ParseAgentState(s string) (AgentState, bool) {
	for st := AgentState(0); st < agentStateCount; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return 0, false
}

// Traversing reports whether the state still moves through the level.
func (s AgentState) Traversing() bool {
	return s == AgentWalking || s == AgentInAir
}

// Terminal reports whether the state ends all physics.
func (s AgentState) Terminal() bool {
	return s == AgentDeath || s == AgentStopOthers
}

// Action is a player command applied to one agent.
type Action int

const (
	ActionNone Action = iota
	ActionDig
	ActionStopOthers
	ActionParachute
)

func (a Action) String() string {
	switch a {
	case ActionDig:
		return "dig"
	case ActionStopOthers:
		return "stopothers"
	case ActionParachute:
		return "parachute"
	default:
		return "none"
	}
}

// ParseAction maps a command name to an Action. Unknown names map to ActionNone.
func ParseAction(s string) Action {
	switch s {
	case "dig":
		return ActionDig
	case "stopothers":
		return ActionStopOthers
	case "parachute":
		return ActionParachute
	default:
		return ActionNone
	}
}

// StepReport describes what happened to an agent during one Update.
type StepReport struct {
	SteppedUp      bool
	Bounced        bool
	Dug            bool
	DugCol         int
	DugRow         int
	Landed         bool
	FallDistance   float64
	Damage         float64
	ParachuteSpent bool
	Survived       bool // became true this tick
}

// Agent is one walking unit.
type Agent struct {
	id    int
	label string

	x, y      float64 // top-left, pixels
	w, h      float64
	speed     float64
	direction int // +1 right, -1 left
	vy        float64
	health    float64

	state    AgentState
	survived bool

	// Fall tracking: falling is set on entering inAir.
	falling    bool
	fallStartY float64

	digTimer  float64
	parachute bool

	physics Physics
}

// NewAgent creates an airborne agent with its top-left corner at (x, y).
func NewAgent(id int, x, y, speed float64, ph Physics) *Agent {
	return &Agent{
		id:         id,
		label:      fmt.Sprintf("A%d", id),
		x:          x,
		y:          y,
		w:          ph.AgentWidth,
		h:          ph.AgentHeight,
		speed:      speed,
		direction:  1,
		health:     ph.StartHealth,
		state:      AgentInAir,
		falling:    true,
		fallStartY: y,
		physics:    ph,
	}
}

func (a *Agent) ID() int { return a.id }
func (a *Agent) Label() string { return a.label }
func (a *Agent) Position() (float64, float64) { return a.x, a.y }
func (a *Agent) Size() (float64, float64) { return a.w, a.h }
func (a *Agent) State() AgentState { return a.state }
func (a *Agent) Survived() bool { return a.survived }
func (a *Agent) Health() float64 { return a.health }
func (a *Agent) Direction() int { return a.direction }
func (a *Agent) VelocityY() float64 { return a.vy }
func (a *Agent) HasParachute() bool { return a.parachute }
func (a *Agent) Box() (x, y, w, h float64) { return a.x, a.y, a.w, a.h }
func (a *Agent) FallStart() (y float64, falling bool) { return a.fallStartY, a.falling }

// Frozen reports whether physics no longer applies to the agent.
func (a *Agent) Frozen() bool {
	return a.survived || a.state.Terminal()
}

// Damage subtracts health. Death is applied on the next Update.
func (a *Agent) Damage(amount float64) {
	a.health -= amount
}

// ContainsPoint is an inclusive hit test against the agent's box.
func (a *Agent) ContainsPoint(px, py float64) bool {
	return px >= a.x && px <= a.x+a.w && py >= a.y && py <= a.y+a.h
}

// maxFallSafe is the longest harmless fall on this grid.
func (a *Agent) maxFallSafe(tg *TileGrid) float64 {
	return a.physics.SafeFallTiles * tg.TileSize
}

// Update advances the agent by dt seconds. Order matters: integrate, resolve
// collisions, progress digging, classify, then test the exit.
func (a *Agent) Update(dt float64, tg *TileGrid, exit *PortalZone) StepReport {
	var rep StepReport
	if a.Frozen() {
		return rep
	}

	a.vy += a.physics.Gravity * dt
	if a.parachute && a.vy > a.physics.ParachuteFallSpeed {
		a.vy = a.physics.ParachuteFallSpeed
	}
	a.y += a.vy * dt

	if a.state != AgentDigging {
		a.x += a.speed * float64(a.direction) * dt
	}

	a.checkCollisions(dt, tg, &rep)

	if a.state == AgentDigging {
		a.digTimer += dt
		if a.digTimer+snapEpsilon >= a.physics.DigDuration {
			a.digTimer = 0
			a.dig(tg, &rep)
		}
	}

	a.updateState(tg, &rep)

	if exit != nil && !a.state.Terminal() && exit.Intersects(a.x, a.y, a.w, a.h) {
		rep.Survived = true
		a.survived = true
	}
	return rep
}

// feetOnSolid samples the tiles under both feet corners, 1px inset.
func (a *Agent) feetOnSolid(tg *TileGrid, bottomY float64) bool {
	return tg.SolidAt(a.x+1, bottomY) || tg.SolidAt(a.x+a.w-1, bottomY)
}

func (a *Agent) checkCollisions(dt float64, tg *TileGrid, rep *StepReport) {
	ts := tg.TileSize

	// Floor clamp.
	bottomY := a.y + a.h
	if a.feetOnSolid(tg, bottomY) {
		a.y = math.Floor(bottomY/ts)*ts - a.h
		a.vy = 0
	}

	// A digger has no front.
	if a.state == AgentDigging {
		return
	}

	frontX := a.x - 1
	if a.direction > 0 {
		frontX = a.x + a.w + 1
	}
	top, _ := tg.TileAt(frontX, a.y+1)
	bottom, _ := tg.TileAt(frontX, a.y+a.h-1)
	if !top.Solid() && !bottom.Solid() {
		return
	}

	// One tile step: the cell a tile above the lowest body pixel must be open.
	if a.state == AgentWalking && top != TileInvisible && !tg.SolidAt(frontX, a.y+a.h-1-ts) {
		a.y -= ts
		a.x += 2 * a.speed * float64(a.direction) * dt
		rep.SteppedUp = true
		return
	}
	a.direction = -a.direction
	rep.Bounced = true
}

// dig removes the tile under the agent's feet centre. Stone is left alone and
// the agent keeps digging; if the tile beneath the dug one is open or stone
// the agent stops digging and drops.
func (a *Agent) dig(tg *TileGrid, rep *StepReport) {
	cx := a.x + a.w/2
	feetY := a.y + a.h + 1

	target, ok := tg.TileAt(cx, feetY)
	if !ok || target == TileStone {
		return
	}
	below, belowOK := tg.TileAt(cx, feetY+tg.TileSize)
	if target.Diggable() {
		tg.SetTileAt(cx, feetY, TileEmpty)
		rep.Dug = true
		rep.DugCol, rep.DugRow = tg.CellOf(cx, feetY)
	}
	if target == TileEmpty || !belowOK || below == TileEmpty || below == TileStone {
		a.state = AgentInAir
	}
}

func (a *Agent) updateState(tg *TileGrid, rep *StepReport) {
	if a.state != AgentDigging {
		if a.feetOnSolid(tg, a.y+a.h) {
			if a.falling {
				a.land(tg, rep)
			}
			a.state = AgentWalking
		} else {
			if !a.falling {
				a.falling = true
				a.fallStartY = a.y
			}
			a.state = AgentInAir
		}
	}
	if a.health <= 0 {
		a.state = AgentDeath
		a.falling = false
	}
}

// land closes a fall. Damage is the full distance once it exceeds the safe
// height. A parachute covers one fall; hops shorter than a tile keep it.
func (a *Agent) land(tg *TileGrid, rep *StepReport) {
	dist := a.y - a.fallStartY
	a.falling = false
	rep.Landed = true
	rep.FallDistance = dist
	if a.parachute {
		if dist >= tg.TileSize {
			a.parachute = false
			rep.ParachuteSpent = true
		}
		return
	}
	if dist <= a.maxFallSafe(tg) {
		return
	}
	a.Damage(dist)
	rep.Damage = dist
}

// Act applies a player command. Dig and stop-others need a walking agent;
// parachute works while walking or airborne. It reports whether the command
// took effect.
func (a *Agent) Act(action Action, tg *TileGrid) bool {
	if a.Frozen() {
		return false
	}
	switch action {
	case ActionDig:
		if a.state != AgentWalking {
			return false
		}
		a.state = AgentDigging
		a.digTimer = 0
		a.snapToCell(tg)
		return true
	case ActionStopOthers:
		if a.state != AgentWalking {
			return false
		}
		a.state = AgentStopOthers
		a.snapToCell(tg)
		tg.SetTileAt(a.x+a.w/2, a.y+a.h/2, TileInvisible)
		return true
	case ActionParachute:
		if !a.state.Traversing() || a.parachute {
			return false
		}
		a.parachute = true
		return true
	default:
		return false
	}
}

// snapToCell centres the agent on its tile column, feet flush with the top of
// the row it stands on.
func (a *Agent) snapToCell(tg *TileGrid) {
	ts := tg.TileSize
	col := math.Floor((a.x + a.w/2) / ts)
	row := math.Floor((a.y+a.h)/ts + snapEpsilon)
	a.x = col*ts + (ts-a.w)/2
	a.y = row*ts - a.h
	a.vy = 0
}
