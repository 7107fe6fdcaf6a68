package game

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"

	"gopkg.in/yaml.v3"
)

//go:embed frames.yaml
var framesYAML []byte

var ErrMissingFrames = errors.New("animation: state has no frame entry")

// Frame is one animation frame, drawn bottom-centred on the agent box.
type Frame struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Animation is the frame list of one agent state.
type Animation struct {
	Color  color.RGBA
	Once   bool
	Frames []Frame
}

// AnimationTable maps every AgentState to its animation.
type AnimationTable struct {
	FPS    float64
	States map[AgentState]Animation
}

type rawAnimation struct {
	Color  []int   `yaml:"color"`
	Once   bool    `yaml:"once"`
	Frames []Frame `yaml:"frames"`
}

type rawAnimationTable struct {
	FPS    float64                 `yaml:"fps"`
	States map[string]rawAnimation `yaml:"states"`
}

// LoadAnimationTable decodes a YAML table and checks that every agent state
// has an entry.
func LoadAnimationTable(data []byte) (*AnimationTable, error) {
	var raw rawAnimationTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("animation: decode: %w", err)
	}
	if raw.FPS <= 0 {
		return nil, fmt.Errorf("animation: fps must be positive, got %v", raw.FPS)
	}
	at := &AnimationTable{FPS: raw.FPS, States: make(map[AgentState]Animation, agentStateCount)}
	for name, ra := range raw.States {
		st, ok := ParseAgentState(name)
		if !ok {
			return nil, fmt.Errorf("animation: unknown state %q", name)
		}
		anim := Animation{Once: ra.Once, Frames: ra.Frames, Color: color.RGBA{A: 255}}
		switch len(ra.Color) {
		case 0:
		case 3:
			for _, ch := range ra.Color {
				if ch < 0 || ch > 255 {
					return nil, fmt.Errorf("animation: state %q color channel %d out of range", name, ch)
				}
			}
			anim.Color = color.RGBA{R: uint8(ra.Color[0]), G: uint8(ra.Color[1]), B: uint8(ra.Color[2]), A: 255}
		default:
			return nil, fmt.Errorf("animation: state %q color needs 3 channels, got %d", name, len(ra.Color))
		}
		at.States[st] = anim
	}
	for st := AgentState(0); st < agentStateCount; st++ {
		if _, ok := at.States[st]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFrames, st)
		}
	}
	return at, nil
}

// DefaultAnimationTable returns the built-in table.
func DefaultAnimationTable() (*AnimationTable, error) {
	return LoadAnimationTable(framesYAML)
}

// FrameAt picks the frame for a state that has been shown for t seconds. It
// returns false when nothing should be drawn.
func (at *AnimationTable) FrameAt(st AgentState, t float64) (Frame, color.RGBA, bool) {
	anim := at.States[st]
	n := len(anim.Frames)
	if n == 0 {
		return Frame{}, anim.Color, false
	}
	idx := int(t * at.FPS)
	if idx < 0 {
		idx = 0
	}
	if anim.Once {
		if idx >= n {
			return Frame{}, anim.Color, false
		}
	} else {
		idx %= n
	}
	return anim.Frames[idx], anim.Color, true
}
