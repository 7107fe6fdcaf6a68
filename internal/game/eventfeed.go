package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedPanelWidth = 300
	feedMaxEntries = 40
	feedLineHeight = 14
	feedTop        = 48
)

// EventFeed is a ring buffer of recent SimLog entries rendered on-screen.
type EventFeed struct {
	entries []SimLogEntry
	head    int
	count   int
	cursor  int // next unread index in the source SimLog
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{entries: make([]SimLogEntry, feedMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (f *EventFeed) Add(e SimLogEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Consume copies the entries added to sl since the last call. Per-tick
// movement is skipped.
func (f *EventFeed) Consume(sl *SimLog) {
	all := sl.Entries()
	if f.cursor > len(all) {
		f.cursor = 0
	}
	for _, e := range all[f.cursor:] {
		if e.Category == "move" {
			continue
		}
		f.Add(e)
	}
	f.cursor = len(all)
}

// Rewind points the feed at a fresh SimLog, keeping what is already shown.
func (f *EventFeed) Rewind() {
	f.cursor = 0
}

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []SimLogEntry {
	out := make([]SimLogEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		out[i] = f.entries[idx]
	}
	return out
}

func feedColor(category string) color.RGBA {
	switch category {
	case "portal", "outcome":
		return color.RGBA{R: 90, G: 210, B: 110, A: 255}
	case "fall":
		return color.RGBA{R: 220, G: 80, B: 70, A: 255}
	case "dig", "action":
		return color.RGBA{R: 230, G: 170, B: 60, A: 255}
	default:
		return color.RGBA{R: 120, G: 130, B: 150, A: 255}
	}
}

// Draw renders the feed panel down the right side of the screen.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), feedTop, feedPanelWidth, float32(panelH-feedTop), color.RGBA{R: 10, G: 12, B: 16, A: 220}, false)
	vector.StrokeLine(screen, float32(panelX), feedTop, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS  [L] hide", panelX+8, feedTop+2)

	entries := f.Recent()
	maxVisible := (panelH - feedTop - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := feedTop + 20
	for _, e := range entries {
		vector.FillRect(screen, float32(panelX+5), float32(y+5), 3, 5, feedColor(e.Category), false)
		line := fmt.Sprintf("%4d %-3s %s %s", e.Tick, e.Agent, e.Key, e.Value)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += feedLineHeight
	}
}
