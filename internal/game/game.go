package game

import (
	"fmt"
	"log"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const (
	screenW = 1280
	screenH = 720

	zoomStep = 1.1
	minZoom  = 0.25
	maxZoom  = 4.0
)

// Game is the ebiten front end. It owns the frame loop, input and drawing; all
// rules live in Simulation.
type Game struct {
	levels     []Level
	levelIndex int
	sim        *Simulation
	physics    Physics
	anim       *AnimationTable
	face       *text.GoXFace

	editor   bool
	selected Action

	// Camera: world-space top-left and zoom.
	camX    float64
	camY    float64
	camZoom float64

	dragging   bool
	dragStartX int
	dragStartY int
	camStartX  float64
	camStartY  float64

	manualPause  bool
	focusPaused  bool
	noMoreLevels bool

	feed      *EventFeed
	showFeed  bool
	inspector Inspector

	// Per-agent animation clocks, reset on every state change.
	animClock map[*Agent]float64
	animState map[*Agent]AgentState

	now func() time.Time
}

// New creates the front end on the given catalogue level.
func New(levels []Level, start int, editor bool) (*Game, error) {
	anim, err := DefaultAnimationTable()
	if err != nil {
		return nil, err
	}
	g := &Game{
		levels:   levels,
		physics:  DefaultPhysics(),
		anim:     anim,
		face:     text.NewGoXFace(basicfont.Face7x13),
		editor:   editor,
		selected: ActionDig,
		feed:     NewEventFeed(),
		showFeed: true,
		now:      time.Now,
	}
	if err := g.loadLevel(start); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) loadLevel(index int) error {
	if index < 0 || index >= len(g.levels) {
		return fmt.Errorf("%w: %d of %d", ErrUnknownLevel, index, len(g.levels))
	}
	l := g.levels[index]
	sim, err := NewSimulationFromLevel(l, g.physics, NewSimLog(false))
	if err != nil {
		return err
	}
	g.levelIndex = index
	g.sim = sim
	g.camX, g.camY, g.camZoom = l.Camera()
	g.animClock = make(map[*Agent]float64)
	g.animState = make(map[*Agent]AgentState)
	g.inspector.hovered = nil
	g.feed.Rewind()
	log.Printf("loaded level %d %q", index, l.Name)
	return nil
}

func (g *Game) resetLevel() {
	if err := g.loadLevel(g.levelIndex); err != nil {
		log.Printf("reset level: %v", err)
	}
}

func (g *Game) nextLevel() {
	if g.levelIndex+1 >= len(g.levels) {
		if !g.noMoreLevels {
			log.Printf("no more levels")
		}
		g.noMoreLevels = true
		return
	}
	if err := g.loadLevel(g.levelIndex + 1); err != nil {
		log.Printf("next level: %v", err)
	}
}

// Update is called once per frame by ebiten.
func (g *Game) Update() error {
	now := g.now()

	// Unfocused windows skip ticks; the frame clock is resynced on return.
	if !ebiten.IsFocused() {
		if !g.sim.Paused() {
			g.sim.Pause()
			g.focusPaused = true
		}
		return nil
	}
	if g.focusPaused {
		g.focusPaused = false
		if !g.manualPause {
			g.sim.Resume(now)
		}
	}

	g.handleInput(now)

	switch g.sim.Outcome() {
	case OutcomeWon:
		if inpututil.IsKeyJustPressed(ebiten.KeyN) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.nextLevel()
		}
		return nil
	case OutcomeLost:
		log.Printf("level %d lost: %s", g.levelIndex, g.sim.Counts().Describe())
		g.resetLevel()
		return nil
	}

	g.sim.Advance(now)
	g.feed.Consume(g.sim.Log)
	g.tickAnimations(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) tickAnimations(dt float64) {
	for _, a := range g.sim.Agents {
		if st, ok := g.animState[a]; !ok || st != a.state {
			g.animState[a] = a.state
			g.animClock[a] = 0
			continue
		}
		g.animClock[a] += dt
	}
}

// screenToWorld converts a cursor position to world pixels.
func (g *Game) screenToWorld(sx, sy int) (float64, float64) {
	return float64(sx)/g.camZoom + g.camX, float64(sy)/g.camZoom + g.camY
}

func (g *Game) handleInput(now time.Time) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		g.selected = ActionDig
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		g.selected = ActionStopOthers
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.selected = ActionParachute
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.manualPause = !g.manualPause
		if g.manualPause {
			g.sim.Pause()
		} else {
			g.sim.Resume(now)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.showFeed = !g.showFeed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.resetLevel()
		return
	}

	g.handleCamera()
	g.updateInspector()

	altHeld := ebiten.IsKeyPressed(ebiten.KeyAlt)
	if g.editor {
		g.handleEditor(altHeld)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !(g.editor && altHeld) {
		wx, wy := g.screenToWorld(ebiten.CursorPosition())
		g.sim.ActAt(wx, wy, g.selected)
	}
}

func (g *Game) handleCamera() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.dragging = true
		g.dragStartX, g.dragStartY = ebiten.CursorPosition()
		g.camStartX, g.camStartY = g.camX, g.camY
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		g.dragging = false
	}
	if g.dragging {
		mx, my := ebiten.CursorPosition()
		g.camX = g.camStartX - float64(mx-g.dragStartX)/g.camZoom
		g.camY = g.camStartY - float64(my-g.dragStartY)/g.camZoom
	}

	// Zoom towards the cursor.
	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	before := g.camZoom
	if wy > 0 {
		g.camZoom *= zoomStep
	} else {
		g.camZoom /= zoomStep
	}
	g.camZoom = clampF(g.camZoom, minZoom, maxZoom)
	worldX := float64(mx)/before + g.camX
	worldY := float64(my)/before + g.camY
	g.camX = worldX - float64(mx)/g.camZoom
	g.camY = worldY - float64(my)/g.camZoom
}

// handleEditor paints with alt held: shift erases, ctrl places stone,
// otherwise dirt. C exports the world, E replaces it with a blank one.
func (g *Game) handleEditor(altHeld bool) {
	if altHeld && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		kind := TileDirt
		switch {
		case ebiten.IsKeyPressed(ebiten.KeyShift):
			kind = TileEmpty
		case ebiten.IsKeyPressed(ebiten.KeyControl):
			kind = TileStone
		}
		wx, wy := g.screenToWorld(ebiten.CursorPosition())
		g.sim.Paint(wx, wy, kind)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		encoded := g.sim.Grid.ExportEncoded()
		if err := clipboard.WriteAll(encoded); err != nil {
			log.Printf("clipboard export failed: %v", err)
			log.Printf("world: %s", encoded)
			return
		}
		log.Printf("copied %dx%d world (%d chars) to clipboard", g.sim.Grid.Cols, g.sim.Grid.Rows, len(encoded))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		tg := g.sim.Grid
		g.sim.Grid = CreateEmpty(tg.Cols, tg.Rows, tg.TileSize)
	}
}

// Layout returns the fixed logical screen size.
func (g *Game) Layout(_, _ int) (int, int) {
	return screenW, screenH
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
