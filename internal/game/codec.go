package game

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Codec errors.
var (
	ErrInvalidPayload  = errors.New("codec: invalid base64 payload")
	ErrShortPayload    = errors.New("codec: payload shorter than grid")
	ErrInvalidTileCode = errors.New("codec: invalid tile code")
	ErrNotRectangular  = errors.New("grid: rows have unequal length")
)

const tilesPerByte = 4

// tileCode maps a tile to its persisted 2-bit code. Invisible has no code of
// its own and persists as empty.
func tileCode(k TileKind) byte {
	switch k {
	case TileDirt:
		return 1
	case TileStone:
		return 2
	default:
		return 0
	}
}

func notRectangularError(row, got, want int) error {
	return fmt.Errorf("row %d has %d tiles, want %d: %w", row, got, want, ErrNotRectangular)
}

// Encode packs the grid four tiles per byte, two bits each (tile j of a group
// at bit 2*j), and base64-encodes the bytes.
func Encode(tg *TileGrid) string {
	n := len(tg.Tiles)
	buf := make([]byte, (n+tilesPerByte-1)/tilesPerByte)
	for i, k := range tg.Tiles {
		buf[i/tilesPerByte] |= tileCode(k) << (2 * (i % tilesPerByte))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// Decode is the inverse of Encode. Cells beyond cols*rows in the final byte
// (or surplus bytes) are dropped.
func Decode(data string, cols, rows int, tileSize float64) (*TileGrid, error) {
	if cols < 0 || rows < 0 {
		return nil, fmt.Errorf("codec: negative dimensions %dx%d: %w", cols, rows, ErrShortPayload)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	n := cols * rows
	need := (n + tilesPerByte - 1) / tilesPerByte
	if len(raw) < need {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d tiles, need %d",
			ErrShortPayload, len(raw), cols, rows, need)
	}

	tg := NewTileGrid(cols, rows, tileSize)
	for i := 0; i < n; i++ {
		code := (raw[i/tilesPerByte] >> (2 * (i % tilesPerByte))) & 3
		switch code {
		case 0:
			tg.Tiles[i] = TileEmpty
		case 1:
			tg.Tiles[i] = TileDirt
		case 2:
			tg.Tiles[i] = TileStone
		default:
			return nil, fmt.Errorf("%w: %d at cell %d", ErrInvalidTileCode, code, i)
		}
	}
	return tg, nil
}
