package game

import (
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var levelsYAML []byte

var (
	ErrUnknownLevel = errors.New("level: index out of range")
	ErrInvalidLevel = errors.New("level: invalid descriptor")
)

// Level is an authored level descriptor. Camera fields are presentation only.
type Level struct {
	Name            string    `yaml:"name"`
	CameraStart     []float64 `yaml:"camera_start"`
	CameraZoom      float64   `yaml:"camera_zoom"`
	Cols            int       `yaml:"cols"`
	Rows            int       `yaml:"rows"`
	TileSize        float64   `yaml:"tile_size"`
	Blocks          string    `yaml:"blocks"`
	Layout          []string  `yaml:"layout"`
	EndPortal       []float64 `yaml:"end_portal"`
	EndPortalSize   []float64 `yaml:"end_portal_size"`
	Spawn           []float64 `yaml:"spawn"`
	AgentCount      int       `yaml:"agent_count"`
	SpawnIntervalMS int       `yaml:"spawn_interval_ms"`
	AgentSpeed      float64   `yaml:"agent_speed"`
}

type levelFile struct {
	Levels []Level `yaml:"levels"`
}

// LoadLevels decodes and validates a YAML level catalogue.
func LoadLevels(data []byte) ([]Level, error) {
	var lf levelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("level: decode catalogue: %w", err)
	}
	for i := range lf.Levels {
		if err := lf.Levels[i].Validate(); err != nil {
			return nil, fmt.Errorf("level %d (%q): %w", i, lf.Levels[i].Name, err)
		}
	}
	return lf.Levels, nil
}

// DefaultLevels returns the built-in catalogue.
func DefaultLevels() ([]Level, error) {
	return LoadLevels(levelsYAML)
}

func invalidLevel(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidLevel, fmt.Sprintf(format, args...))
}

// Validate checks the descriptor without building the grid.
func (l *Level) Validate() error {
	if l.Cols <= 0 || l.Rows <= 0 {
		return invalidLevel("dimensions %dx%d", l.Cols, l.Rows)
	}
	if l.TileSize <= 0 {
		return invalidLevel("tile_size %v", l.TileSize)
	}
	if (l.Blocks == "") == (len(l.Layout) == 0) {
		return invalidLevel("exactly one of blocks or layout is required")
	}
	if len(l.Spawn) != 2 {
		return invalidLevel("spawn needs 2 coordinates, got %d", len(l.Spawn))
	}
	if len(l.EndPortal) != 2 {
		return invalidLevel("end_portal needs 2 coordinates, got %d", len(l.EndPortal))
	}
	if l.EndPortalSize != nil && len(l.EndPortalSize) != 2 {
		return invalidLevel("end_portal_size needs 2 values, got %d", len(l.EndPortalSize))
	}
	if l.CameraStart != nil && len(l.CameraStart) != 2 {
		return invalidLevel("camera_start needs 2 values, got %d", len(l.CameraStart))
	}
	if l.AgentCount < 0 || l.SpawnIntervalMS < 0 || l.AgentSpeed < 0 {
		return invalidLevel("negative agent_count, spawn_interval_ms or agent_speed")
	}
	if len(l.Layout) > 0 {
		if len(l.Layout) != l.Rows {
			return invalidLevel("layout has %d rows, want %d", len(l.Layout), l.Rows)
		}
		for r, line := range l.Layout {
			if len(line) != l.Cols {
				return notRectangularError(r, len(line), l.Cols)
			}
		}
	}
	return nil
}

// BuildGrid decodes the level's terrain.
func (l *Level) BuildGrid() (*TileGrid, error) {
	if l.Blocks != "" {
		return Decode(l.Blocks, l.Cols, l.Rows, l.TileSize)
	}
	rows := make([][]TileKind, len(l.Layout))
	for r, line := range l.Layout {
		rows[r] = make([]TileKind, len(line))
		for c, ch := range line {
			switch ch {
			case '.':
				rows[r][c] = TileEmpty
			case 'D':
				rows[r][c] = TileDirt
			case 'S':
				rows[r][c] = TileStone
			default:
				return nil, invalidLevel("layout row %d col %d: unknown tile %q", r, c, ch)
			}
		}
	}
	return NewTileGridFromRows(rows, l.TileSize)
}

// ExitZone returns the end-portal rectangle.
func (l *Level) ExitZone() PortalZone {
	w, h := float64(defaultEndPortalW), float64(defaultEndPortalH)
	if len(l.EndPortalSize) == 2 {
		w, h = l.EndPortalSize[0], l.EndPortalSize[1]
	}
	return PortalZone{X: l.EndPortal[0], Y: l.EndPortal[1], Width: w, Height: h}
}

// SpawnInterval returns the configured interval or the default.
func (l *Level) SpawnInterval() time.Duration {
	if l.SpawnIntervalMS > 0 {
		return time.Duration(l.SpawnIntervalMS) * time.Millisecond
	}
	return defaultSpawnInterval
}

// Speed returns the agent speed for the level.
func (l *Level) Speed(ph Physics) float64 {
	if l.AgentSpeed > 0 {
		return l.AgentSpeed
	}
	return ph.AgentSpeed
}

// Camera returns the presentation start position and zoom.
func (l *Level) Camera() (x, y, zoom float64) {
	zoom = l.CameraZoom
	if zoom <= 0 {
		zoom = 1
	}
	if len(l.CameraStart) == 2 {
		x, y = l.CameraStart[0], l.CameraStart[1]
	}
	return x, y, zoom
}
