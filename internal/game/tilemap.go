package game

import "math"

// TileKind identifies the material of one grid cell.
type TileKind uint8

const (
	TileEmpty     TileKind = iota // open air
	TileDirt                      // solid, diggable
	TileStone                     // solid, never diggable
	TileInvisible                 // solid, diggable, placed by a blocker at runtime
	tileKindCount                 // sentinel
)

func (k TileKind) String() string {
	switch k {
	case TileEmpty:
		return "empty"
	case TileDirt:
		return "dirt"
	case TileStone:
		return "stone"
	case TileInvisible:
		return "invisible"
	default:
		return "unknown"
	}
}

// Solid reports whether agents collide with the tile.
func (k TileKind) Solid() bool {
	return k != TileEmpty
}

// Diggable reports whether a digger can remove the tile.
func (k TileKind) Diggable() bool {
	return k == TileDirt || k == TileInvisible
}

// TileGrid is the authoritative per-cell terrain of a level.
type TileGrid struct {
	Cols     int
	Rows     int
	TileSize float64    // edge length of one tile in pixels
	Tiles    []TileKind // row-major: index = row*Cols + col
}

// NewTileGrid creates an all-empty grid.
func NewTileGrid(cols, rows int, tileSize float64) *TileGrid {
	return &TileGrid{
		Cols:     cols,
		Rows:     rows,
		TileSize: tileSize,
		Tiles:    make([]TileKind, cols*rows),
	}
}

// CreateEmpty builds the default editor world: a stone border, four rows of dirt
// along the bottom and open air everywhere else.
func CreateEmpty(cols, rows int, tileSize float64) *TileGrid {
	tg := NewTileGrid(cols, rows, tileSize)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			switch {
			case col == 0 || col == cols-1 || row == 0 || row == rows-1:
				tg.Set(col, row, TileStone)
			case row >= rows-4:
				tg.Set(col, row, TileDirt)
			}
		}
	}
	return tg
}

// NewTileGridFromRows builds a grid from authored rows. All rows must have the
// same length.
func NewTileGridFromRows(rows [][]TileKind, tileSize float64) (*TileGrid, error) {
	if len(rows) == 0 {
		return NewTileGrid(0, 0, tileSize), nil
	}
	cols := len(rows[0])
	tg := NewTileGrid(cols, len(rows), tileSize)
	for r, line := range rows {
		if len(line) != cols {
			return nil, notRectangularError(r, len(line), cols)
		}
		copy(tg.Tiles[r*cols:(r+1)*cols], line)
	}
	return tg, nil
}

// Width returns the pixel width of the grid.
func (tg *TileGrid) Width() float64 {
	return float64(tg.Cols) * tg.TileSize
}

// Height returns the pixel height of the grid.
func (tg *TileGrid) Height() float64 {
	return float64(tg.Rows) * tg.TileSize
}

// inBounds returns true if (col, row) is within the grid.
func (tg *TileGrid) inBounds(col, row int) bool {
	return col >= 0 && col < tg.Cols && row >= 0 && row < tg.Rows
}

// CellOf maps a pixel coordinate to tile indices.
func (tg *TileGrid) CellOf(px, py float64) (col, row int) {
	return int(math.Floor(px / tg.TileSize)), int(math.Floor(py / tg.TileSize))
}

// At returns the tile at (col, row); ok is false when out of bounds.
func (tg *TileGrid) At(col, row int) (TileKind, bool) {
	if !tg.inBounds(col, row) {
		return TileEmpty, false
	}
	return tg.Tiles[row*tg.Cols+col], true
}

// Set writes a tile at (col, row). Out-of-bounds writes are ignored.
func (tg *TileGrid) Set(col, row int, k TileKind) {
	if !tg.inBounds(col, row) {
		return
	}
	tg.Tiles[row*tg.Cols+col] = k
}

// TileAt returns the tile under a pixel. Outside the grid it returns
// (TileEmpty, false): callers treat absence as "not solid".
func (tg *TileGrid) TileAt(px, py float64) (TileKind, bool) {
	col, row := tg.CellOf(px, py)
	return tg.At(col, row)
}

// SolidAt reports whether the pixel lies inside a solid tile.
func (tg *TileGrid) SolidAt(px, py float64) bool {
	k, ok := tg.TileAt(px, py)
	return ok && k.Solid()
}

// SetTileAt writes the tile under a pixel. No-op outside the grid.
func (tg *TileGrid) SetTileAt(px, py float64, k TileKind) {
	col, row := tg.CellOf(px, py)
	tg.Set(col, row, k)
}

// RowsOf returns a copy of the grid as a slice of rows.
func (tg *TileGrid) RowsOf() [][]TileKind {
	out := make([][]TileKind, tg.Rows)
	for r := range out {
		out[r] = make([]TileKind, tg.Cols)
		copy(out[r], tg.Tiles[r*tg.Cols:(r+1)*tg.Cols])
	}
	return out
}

// Clone returns a deep copy.
func (tg *TileGrid) Clone() *TileGrid {
	c := &TileGrid{Cols: tg.Cols, Rows: tg.Rows, TileSize: tg.TileSize}
	c.Tiles = make([]TileKind, len(tg.Tiles))
	copy(c.Tiles, tg.Tiles)
	return c
}

// Count returns how many cells hold kind k.
func (tg *TileGrid) Count(k TileKind) int {
	n := 0
	for _, t := range tg.Tiles {
		if t == k {
			n++
		}
	}
	return n
}

// ExportEncoded returns the persisted codec string for this grid.
// Invisible tiles are runtime-only and export as empty.
func (tg *TileGrid) ExportEncoded() string {
	return Encode(tg)
}
