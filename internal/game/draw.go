package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colBackground  = color.RGBA{R: 18, G: 20, B: 28, A: 255}
	colDirt        = color.RGBA{R: 121, G: 85, B: 58, A: 255}
	colDirtEdge    = color.RGBA{R: 84, G: 58, B: 38, A: 255}
	colStone       = color.RGBA{R: 110, G: 112, B: 120, A: 255}
	colStoneEdge   = color.RGBA{R: 70, G: 72, B: 80, A: 255}
	colInvisible   = color.RGBA{R: 200, G: 200, B: 255, A: 18}
	colStartPortal = color.RGBA{R: 60, G: 200, B: 90, A: 160}
	colEndPortal   = color.RGBA{R: 160, G: 70, B: 220, A: 170}
	colHUDPanel    = color.RGBA{R: 10, G: 12, B: 16, A: 220}
	colHUDText     = color.RGBA{R: 220, G: 230, B: 220, A: 255}
	colHUDAccent   = color.RGBA{R: 255, G: 210, B: 90, A: 255}
	colParachute   = color.RGBA{R: 240, G: 240, B: 250, A: 230}
)

// Draw renders the world, then the HUD in screen space.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	g.drawTiles(screen)
	g.drawPortals(screen)
	g.drawAgents(screen)
	g.drawHUD(screen)
	if g.showFeed {
		g.feed.Draw(screen, screenW-feedPanelWidth, screenH)
	}
	g.drawInspector(screen)
}

// toScreen maps a world rectangle through the camera.
func (g *Game) toScreen(x, y, w, h float64) (float32, float32, float32, float32) {
	z := g.camZoom
	return float32((x - g.camX) * z), float32((y - g.camY) * z), float32(w * z), float32(h * z)
}

func (g *Game) drawTiles(screen *ebiten.Image) {
	tg := g.sim.Grid
	ts := tg.TileSize

	// Only the visible window of cells is walked.
	c0, r0 := tg.CellOf(g.camX, g.camY)
	c1, r1 := tg.CellOf(g.camX+screenW/g.camZoom, g.camY+screenH/g.camZoom)
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, tg.Cols-1), min(r1, tg.Rows-1)

	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			k, _ := tg.At(col, row)
			if k == TileEmpty {
				continue
			}
			sx, sy, sw, sh := g.toScreen(float64(col)*ts, float64(row)*ts, ts, ts)
			switch k {
			case TileDirt:
				vector.FillRect(screen, sx, sy, sw, sh, colDirt, false)
				vector.StrokeRect(screen, sx, sy, sw, sh, 1, colDirtEdge, false)
			case TileStone:
				vector.FillRect(screen, sx, sy, sw, sh, colStone, false)
				vector.StrokeRect(screen, sx, sy, sw, sh, 1, colStoneEdge, false)
			case TileInvisible:
				// Blocker cells get a faint wash and no border.
				vector.FillRect(screen, sx, sy, sw, sh, colInvisible, false)
			}
		}
	}
}

func (g *Game) drawPortals(screen *ebiten.Image) {
	if sp := g.sim.Spawner; sp != nil {
		p := sp.Portal
		sx, sy, sw, sh := g.toScreen(p.X, p.Y, p.Width, p.Height)
		vector.FillRect(screen, sx, sy, sw, sh, colStartPortal, false)
	}
	if e := g.sim.Exit; e != nil {
		sx, sy, sw, sh := g.toScreen(e.X, e.Y, e.Width, e.Height)
		vector.FillRect(screen, sx, sy, sw, sh, colEndPortal, false)
		vector.StrokeRect(screen, sx, sy, sw, sh, 2, colHUDAccent, false)
	}
}

func (g *Game) drawAgents(screen *ebiten.Image) {
	for _, a := range g.sim.Agents {
		if a.survived {
			continue
		}
		fr, col, ok := g.anim.FrameAt(a.state, g.animClock[a])
		if !ok {
			continue
		}
		// Frames are anchored bottom-centre on the collision box.
		fx := a.x + (a.w-fr.W)/2
		fy := a.y + a.h - fr.H
		sx, sy, sw, sh := g.toScreen(fx, fy, fr.W, fr.H)
		vector.FillRect(screen, sx, sy, sw, sh, col, false)
		if a.parachute && a.state == AgentInAir {
			cx, cy, cw, _ := g.toScreen(a.x-3, a.y-8, a.w+6, 0)
			vector.StrokeLine(screen, cx, cy, cx+cw, cy, 2, colParachute, false)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	vector.FillRect(screen, 0, 0, screenW, 44, colHUDPanel, false)

	name := g.levels[g.levelIndex].Name
	c := g.sim.Counts()
	spawned, total := 0, 0
	if sp := g.sim.Spawner; sp != nil {
		spawned, total = sp.Spawned, sp.Total
	}
	line1 := fmt.Sprintf("Level %d: %s   out %d/%d   saved %d   lost %d   blockers %d",
		g.levelIndex+1, name, spawned, total, c.Survived, c.Dead, c.Stopped)
	g.drawText(screen, line1, 8, 6, colHUDText)

	line2 := fmt.Sprintf("[1] dig  [2] stop  [3] parachute   action: %s", g.selected)
	if g.editor {
		line2 += "   EDITOR alt+click paint  [C] copy  [E] empty"
	}
	g.drawText(screen, line2, 8, 24, colHUDAccent)

	switch {
	case g.sim.Outcome() == OutcomeWon && g.noMoreLevels:
		g.drawBanner(screen, "All levels complete!")
	case g.sim.Outcome() == OutcomeWon:
		g.drawBanner(screen, "Level complete! Press N for the next level")
	case g.sim.Paused():
		g.drawBanner(screen, "Paused")
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS %.0f  T=%d", ebiten.ActualFPS(), g.sim.Tick()), screenW-feedPanelWidth-130, screenH-18)
}

func (g *Game) drawBanner(screen *ebiten.Image, msg string) {
	w, h := text.Measure(msg, g.face, 0)
	x := (screenW - w) / 2
	y := float64(screenH) / 2
	vector.FillRect(screen, float32(x-16), float32(y-12), float32(w+32), float32(h+24), colHUDPanel, false)
	g.drawText(screen, msg, x, y, colHUDAccent)
}

func (g *Game) drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, g.face, op)
}
