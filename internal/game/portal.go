package game

import "time"

const (
	defaultEndPortalW    = 50
	defaultEndPortalH    = 80
	startPortalW         = 32
	startPortalH         = 50
	defaultSpawnInterval = time.Second
)

// PortalZone is a static axis-aligned rectangle in world pixels.
type PortalZone struct {
	X, Y          float64
	Width, Height float64
}

// Intersects reports AABB overlap with the box (ax, ay, aw, ah). Touching
// edges count as overlap.
func (p PortalZone) Intersects(ax, ay, aw, ah float64) bool {
	return !(ax+aw < p.X ||
		ax > p.X+p.Width ||
		ay+ah < p.Y ||
		ay > p.Y+p.Height)
}

// Center returns the centre point of the zone.
func (p PortalZone) Center() (float64, float64) {
	return p.X + p.Width/2, p.Y + p.Height/2
}

// SpawnController emits agents from a start portal, one per interval, until
// Total have been created. Cadence is measured on the wall clock from the last
// real spawn, so a long pause yields a single spawn, not a burst.
type SpawnController struct {
	Portal    PortalZone
	Total     int
	Interval  time.Duration
	Spawned   int
	LastSpawn time.Time

	physics Physics
	speed   float64
	nextID  int
}

// NewSpawnController creates a controller for a start portal whose top-left
// corner is (x, y).
func NewSpawnController(x, y float64, total int, speed float64, ph Physics) *SpawnController {
	return &SpawnController{
		Portal:   PortalZone{X: x, Y: y, Width: startPortalW, Height: startPortalH},
		Total:    total,
		Interval: defaultSpawnInterval,
		physics:  ph,
		speed:    speed,
	}
}

// Done reports whether every agent has been spawned.
func (sc *SpawnController) Done() bool {
	return sc.Spawned >= sc.Total
}

// Update returns a new agent if one is due at now, or nil. The zero LastSpawn
// makes the first call spawn immediately.
func (sc *SpawnController) Update(now time.Time) *Agent {
	if sc.Done() {
		return nil
	}
	if !sc.LastSpawn.IsZero() && now.Sub(sc.LastSpawn) < sc.Interval {
		return nil
	}
	cx, cy := sc.Portal.Center()
	a := NewAgent(sc.nextID, cx, cy, sc.speed, sc.physics)
	sc.nextID++
	sc.Spawned++
	sc.LastSpawn = now
	return a
}
