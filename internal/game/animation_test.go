package game

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAnimationTable_CoversEveryState(t *testing.T) {
	at, err := DefaultAnimationTable()
	require.NoError(t, err)
	assert.InDelta(t, 8.0, at.FPS, 1e-9)
	for st := AgentState(0); st < agentStateCount; st++ {
		_, ok := at.States[st]
		assert.True(t, ok, st.String())
	}
	assert.Equal(t, color.RGBA{R: 60, G: 120, B: 230, A: 255}, at.States[AgentStopOthers].Color)
}

func TestAnimationTable_FrameAt(t *testing.T) {
	at, err := DefaultAnimationTable()
	require.NoError(t, err)

	fr, _, ok := at.FrameAt(AgentWalking, 0)
	require.True(t, ok)
	assert.Equal(t, Frame{W: 10, H: 15}, fr)

	// Looping: three walking frames at 8 fps, so t=0.375 wraps to frame 0.
	fr, _, ok = at.FrameAt(AgentWalking, 0.25)
	require.True(t, ok)
	assert.Equal(t, Frame{W: 10, H: 14}, fr)
	fr, _, ok = at.FrameAt(AgentWalking, 0.375)
	require.True(t, ok)
	assert.Equal(t, Frame{W: 10, H: 15}, fr)

	// Death plays once and then disappears.
	fr, _, ok = at.FrameAt(AgentDeath, 0.25)
	require.True(t, ok)
	assert.Equal(t, Frame{W: 10, H: 4}, fr)
	_, _, ok = at.FrameAt(AgentDeath, 0.375)
	assert.False(t, ok)
}

func TestLoadAnimationTable_Errors(t *testing.T) {
	missing := []byte(`
fps: 8
states:
  walking: {frames: [{w: 1, h: 1}]}
`)
	_, err := LoadAnimationTable(missing)
	assert.ErrorIs(t, err, ErrMissingFrames)

	_, err = LoadAnimationTable([]byte("fps: 0\nstates: {}\n"))
	assert.Error(t, err)

	_, err = LoadAnimationTable([]byte("fps: 8\nstates:\n  swimming: {}\n"))
	assert.ErrorContains(t, err, "swimming")

	_, err = LoadAnimationTable([]byte("fps: 8\nstates:\n  walking: {color: [1, 2]}\n"))
	assert.ErrorContains(t, err, "3 channels")

	_, err = LoadAnimationTable([]byte("fps: 8\nstates:\n  walking: {color: [1, 2, 300]}\n"))
	assert.ErrorContains(t, err, "out of range")
}

func TestAnimationTable_EmptyFrameListDrawsNothing(t *testing.T) {
	data := []byte(`
fps: 4
states:
  walking: {frames: [{w: 1, h: 1}]}
  digging: {frames: [{w: 1, h: 1}]}
  inAir: {frames: [{w: 1, h: 1}]}
  death: {}
  stopothers: {frames: [{w: 1, h: 1}]}
`)
	at, err := LoadAnimationTable(data)
	require.NoError(t, err)
	_, _, ok := at.FrameAt(AgentDeath, 0)
	assert.False(t, ok)
	_, c, ok := at.FrameAt(AgentDigging, 10)
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{A: 255}, c, "no color means opaque black")
}
