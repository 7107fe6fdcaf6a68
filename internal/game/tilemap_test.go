package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileKind_Properties(t *testing.T) {
	assert.False(t, TileEmpty.Solid())
	assert.True(t, TileDirt.Solid())
	assert.True(t, TileStone.Solid())
	assert.True(t, TileInvisible.Solid())

	assert.True(t, TileDirt.Diggable())
	assert.True(t, TileInvisible.Diggable())
	assert.False(t, TileStone.Diggable())
	assert.False(t, TileEmpty.Diggable())

	assert.Equal(t, "invisible", TileInvisible.String())
	assert.Equal(t, "unknown", tileKindCount.String())
}

func TestCreateEmpty_Layout(t *testing.T) {
	tg := CreateEmpty(10, 8, 32)

	for col := 0; col < 10; col++ {
		top, _ := tg.At(col, 0)
		bottom, _ := tg.At(col, 7)
		assert.Equal(t, TileStone, top)
		assert.Equal(t, TileStone, bottom)
	}
	for row := 0; row < 8; row++ {
		left, _ := tg.At(0, row)
		right, _ := tg.At(9, row)
		assert.Equal(t, TileStone, left)
		assert.Equal(t, TileStone, right)
	}
	k, _ := tg.At(4, 3)
	assert.Equal(t, TileEmpty, k)
	k, _ = tg.At(4, 4)
	assert.Equal(t, TileDirt, k, "dirt starts four rows from the bottom")
	k, _ = tg.At(4, 6)
	assert.Equal(t, TileDirt, k)

	assert.Equal(t, 8*3, tg.Count(TileDirt))
	assert.InDelta(t, 320.0, tg.Width(), 1e-9)
	assert.InDelta(t, 256.0, tg.Height(), 1e-9)
}

func TestTileGrid_PixelLookup(t *testing.T) {
	tg := CreateEmpty(10, 8, 32)

	k, ok := tg.TileAt(31.9, 100)
	assert.True(t, ok)
	assert.Equal(t, TileStone, k)

	k, ok = tg.TileAt(32, 100)
	assert.True(t, ok)
	assert.Equal(t, TileEmpty, k)

	// Outside the grid reads as absent, never solid.
	k, ok = tg.TileAt(-0.5, 100)
	assert.False(t, ok)
	assert.Equal(t, TileEmpty, k)
	assert.False(t, tg.SolidAt(-0.5, 100))
	assert.False(t, tg.SolidAt(100, 256))

	col, row := tg.CellOf(-1, 65)
	assert.Equal(t, -1, col)
	assert.Equal(t, 2, row)
}

func TestTileGrid_SetIgnoresOutOfBounds(t *testing.T) {
	tg := NewTileGrid(3, 3, 16)
	tg.Set(-1, 0, TileDirt)
	tg.Set(3, 0, TileDirt)
	tg.SetTileAt(100, 100, TileDirt)
	assert.Zero(t, tg.Count(TileDirt))

	tg.SetTileAt(17, 1, TileDirt)
	k, _ := tg.At(1, 0)
	assert.Equal(t, TileDirt, k)
}

func TestTileGrid_FromRowsRejectsRagged(t *testing.T) {
	_, err := NewTileGridFromRows([][]TileKind{
		{TileEmpty, TileEmpty},
		{TileEmpty},
	}, 32)
	assert.ErrorIs(t, err, ErrNotRectangular)

	tg, err := NewTileGridFromRows(nil, 32)
	require.NoError(t, err)
	assert.Zero(t, tg.Cols)
}

func TestTileGrid_CloneAndRows(t *testing.T) {
	tg := CreateEmpty(5, 6, 32)
	c := tg.Clone()
	c.Set(2, 1, TileDirt)

	k, _ := tg.At(2, 1)
	assert.Equal(t, TileEmpty, k, "clone is deep")

	rows := c.RowsOf()
	require.Len(t, rows, 6)
	assert.Equal(t, TileDirt, rows[1][2])
	rows[1][2] = TileStone
	k, _ = c.At(2, 1)
	assert.Equal(t, TileDirt, k, "RowsOf returns copies")
}
