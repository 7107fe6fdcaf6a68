package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Inspector panel, rendered into an offscreen buffer at 1x then blitted at inspScale.
const (
	inspScale = 2
	inspBufW  = 150
	inspBufH  = 128
	inspPad   = 4
	inspLineH = 13
)

// Inspector follows the agent under the cursor.
type Inspector struct {
	hovered *Agent
	buf     *ebiten.Image
}

// InspectorLines is the text shown for one agent.
func InspectorLines(a *Agent) []string {
	fallY, falling := a.FallStart()
	lines := []string{
		fmt.Sprintf("[ %s ]", a.Label()),
		fmt.Sprintf("state  %s", a.State()),
		fmt.Sprintf("hp     %.0f", a.Health()),
		fmt.Sprintf("pos    %.0f,%.0f", a.x, a.y),
		fmt.Sprintf("vy     %.1f", a.VelocityY()),
		fmt.Sprintf("dir    %+d", a.Direction()),
	}
	if falling {
		lines = append(lines, fmt.Sprintf("fall   %.0fpx", a.y-fallY))
	}
	if a.HasParachute() {
		lines = append(lines, "parachute")
	}
	if a.Survived() {
		lines = append(lines, "SAVED")
	}
	return lines
}

func (g *Game) updateInspector() {
	wx, wy := g.screenToWorld(ebiten.CursorPosition())
	g.inspector.hovered = g.sim.AgentAt(wx, wy)
}

// drawInspector renders the panel for the hovered agent at the bottom left.
func (g *Game) drawInspector(screen *ebiten.Image) {
	a := g.inspector.hovered
	if a == nil {
		return
	}
	if g.inspector.buf == nil {
		g.inspector.buf = ebiten.NewImage(inspBufW, inspBufH)
	}
	buf := g.inspector.buf
	buf.Clear()

	panelBorder := color.RGBA{R: 55, G: 70, B: 100, A: 255}
	vector.FillRect(buf, 0, 0, inspBufW, inspBufH, color.RGBA{R: 14, G: 16, B: 22, A: 230}, false)
	vector.StrokeRect(buf, 0, 0, inspBufW, inspBufH, 1.0, panelBorder, false)

	ly := inspPad
	for i, line := range InspectorLines(a) {
		ebitenutil.DebugPrintAt(buf, line, inspPad, ly)
		ly += inspLineH
		if i == 0 {
			vector.StrokeLine(buf, inspPad, float32(ly+1), inspBufW-inspPad, float32(ly+1), 1.0, panelBorder, false)
			ly += 4
		}
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(inspScale, inspScale)
	op.GeoM.Translate(8, float64(screenH-inspBufH*inspScale-8))
	screen.DrawImage(buf, op)
}
