package grid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"gridfall/internal/sim/tile"
)

// OutOfBounds is what Get reports for any coordinate outside the grid.
// The world is treated as solid past its edges so the player can never
// walk or fall out of the simulated region.
const OutOfBounds = tile.Stone

// Grid is a fixed-size rectangular tile map. It is allocated once (by the
// generator or a snapshot restore) and mutated in place for the rest of
// the process. Not safe for concurrent use; the world loop owns it.
type Grid struct {
	w, h  int
	cells []tile.Tile
}

func New(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", w, h)
	}
	return &Grid{w: w, h: h, cells: make([]tile.Tile, w*h)}, nil
}

// FromCells builds a grid over an existing cell slice (row-major).
// Used by snapshot restore; the slice is copied, not aliased.
func FromCells(w, h int, cells []tile.Tile) (*Grid, error) {
	g, err := New(w, h)
	if err != nil {
		return nil, err
	}
	if len(cells) != w*h {
		return nil, fmt.Errorf("cell count %d does not match %dx%d", len(cells), w, h)
	}
	copy(g.cells, cells)
	return g, nil
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.w && y >= 0 && y < g.h
}

// Get never fails: out-of-bounds queries report the solid sentinel.
func (g *Grid) Get(x, y int) tile.Tile {
	if !g.InBounds(x, y) {
		return OutOfBounds
	}
	return g.cells[x+y*g.w]
}

// Set replaces the stored tile unconditionally. Out of bounds is a no-op;
// legality of the transition is the caller's policy, not the grid's.
func (g *Grid) Set(x, y int, t tile.Tile) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[x+y*g.w] = t
}

// Solid reports whether the cell at (x, y) blocks movement, with the
// out-of-bounds-is-solid convention applied.
func (g *Grid) Solid(x, y int) bool {
	return g.Get(x, y).Solid()
}

// Cells returns a copy of the backing cells, row-major.
func (g *Grid) Cells() []tile.Tile {
	out := make([]tile.Tile, len(g.cells))
	copy(out, g.cells)
	return out
}

// Digest hashes the full grid contents. Used by determinism tests and the
// tick log.
func (g *Grid) Digest() string {
	h := sha256.New()
	var dims [8]byte
	dims[0] = byte(g.w)
	dims[1] = byte(g.w >> 8)
	dims[2] = byte(g.w >> 16)
	dims[3] = byte(g.w >> 24)
	dims[4] = byte(g.h)
	dims[5] = byte(g.h >> 8)
	dims[6] = byte(g.h >> 16)
	dims[7] = byte(g.h >> 24)
	h.Write(dims[:])
	buf := make([]byte, len(g.cells))
	for i, c := range g.cells {
		buf[i] = byte(c)
	}
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}
