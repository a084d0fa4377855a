// Package physics resolves actor motion against the tile grid with swept
// axis-aligned sampling. One world unit is one tile edge.
package physics

import (
	"math"

	"gridfall/internal/sim/grid"
)

type Vec2 struct {
	X float64
	Y float64
}

// Result is the outcome of one resolve call. Grounded is set only by a
// downward-blocking contact in the same call; it is never inferred from
// distance to the ground.
type Result struct {
	Pos      Vec2
	Grounded bool
	BlockedX bool
	BlockedY bool
}

// contactEpsilon keeps a blocked AABB flush against the tile edge on the
// approach side without re-penetrating on the next sample.
const contactEpsilon = 1e-3

// Resolve sweeps the AABB (center pos, extents +-half) through delta.
// Horizontal displacement resolves first; the vertical sweep then runs
// from the already-resolved x, which prevents tunneling through corners.
// Each sweep advances at most one tile edge per increment, so the maximum
// tunneling distance per step is one tile regardless of velocity.
func Resolve(g *grid.Grid, pos, half, delta Vec2) Result {
	res := Result{Pos: pos}

	res.Pos.X, res.BlockedX = sweepX(g, pos, half, delta.X)

	// Downward sweeps probe even at zero displacement so an actor resting
	// flush on a tile row stays grounded.
	if delta.Y >= 0 {
		res.Pos.Y, res.BlockedY = sweepDown(g, res.Pos.X, pos.Y, half, delta.Y)
		res.Grounded = res.BlockedY
	} else {
		res.Pos.Y, res.BlockedY = sweepUp(g, res.Pos.X, pos.Y, half, -delta.Y)
	}
	return res
}

func sweepX(g *grid.Grid, pos, half Vec2, dx float64) (x float64, blocked bool) {
	x = pos.X
	if dx == 0 {
		return x, false
	}
	dir := 1.0
	if dx < 0 {
		dir = -1.0
	}
	rowTop := int(math.Floor(pos.Y - half.Y + contactEpsilon))
	rowBot := int(math.Floor(pos.Y + half.Y - contactEpsilon))

	remaining := math.Abs(dx)
	for remaining > 0 {
		step := math.Min(1, remaining)
		cand := x + dir*step
		col := int(math.Floor(cand + dir*half.X))
		hit := false
		for row := rowTop; row <= rowBot; row++ {
			if g.Solid(col, row) {
				hit = true
				break
			}
		}
		if hit {
			if dir > 0 {
				x = float64(col) - half.X - contactEpsilon
			} else {
				x = float64(col+1) + half.X + contactEpsilon
			}
			return x, true
		}
		x = cand
		remaining -= step
	}
	return x, false
}

func sweepDown(g *grid.Grid, x, y float64, half Vec2, dy float64) (outY float64, blocked bool) {
	colL := int(math.Floor(x - half.X + contactEpsilon))
	colR := int(math.Floor(x + half.X - contactEpsilon))

	remaining := dy
	for {
		step := math.Min(1, remaining)
		cand := y + step
		row := int(math.Floor(cand + half.Y))
		for col := colL; col <= colR; col++ {
			if g.Solid(col, row) {
				// Snap to rest exactly on top of the blocking row.
				return float64(row) - half.Y, true
			}
		}
		y = cand
		remaining -= step
		if remaining <= 0 {
			return y, false
		}
	}
}

func sweepUp(g *grid.Grid, x, y float64, half Vec2, dist float64) (outY float64, blocked bool) {
	colL := int(math.Floor(x - half.X + contactEpsilon))
	colR := int(math.Floor(x + half.X - contactEpsilon))

	remaining := dist
	for remaining > 0 {
		step := math.Min(1, remaining)
		cand := y - step
		row := int(math.Floor(cand - half.Y))
		for col := colL; col <= colR; col++ {
			if g.Solid(col, row) {
				// Snap to rest just below the blocking row.
				return float64(row+1) + half.Y + contactEpsilon, true
			}
		}
		y = cand
		remaining -= step
	}
	return y, false
}
