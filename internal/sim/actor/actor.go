package actor

import (
	"gridfall/internal/sim/physics"
	"gridfall/internal/sim/tile"
)

// Actor is the player: continuous position and velocity in tile units,
// a fixed collision footprint, and health bookkeeping. It is created once
// at spawn and mutated every step; death respawns it rather than
// destroying it.
type Actor struct {
	Pos  physics.Vec2
	Vel  physics.Vec2
	Half physics.Vec2

	Grounded bool
	Facing   int // -1 left, +1 right

	Health    float64
	MaxHealth float64

	// InvulnFrames counts down in reference frames; while positive all
	// damage calls are no-ops.
	InvulnFrames float64
	// LastDamageAt is the simulation time (seconds) of the last applied
	// damage, gating regeneration.
	LastDamageAt float64
}

// DefaultHalf is the actor collision half-extents in tile units
// (a footprint of roughly 0.9 x 1.8 tiles).
var DefaultHalf = physics.Vec2{X: 0.45, Y: 0.9}

func NewActor(pos physics.Vec2, maxHealth float64) *Actor {
	return &Actor{
		Pos:          pos,
		Half:         DefaultHalf,
		Facing:       1,
		Health:       maxHealth,
		MaxHealth:    maxHealth,
		LastDamageAt: -1 << 30,
	}
}

// Inventory maps tile types (never Air) to non-negative counts.
type Inventory map[tile.Tile]int

// InfiniteTile is exempt from depletion: placing it never decrements and
// its count never gates placement.
const InfiniteTile = tile.Dirt

func NewInventory() Inventory { return Inventory{} }

func (inv Inventory) Count(t tile.Tile) int { return inv[t] }

func (inv Inventory) Add(t tile.Tile, n int) {
	if t == tile.Air || n <= 0 {
		return
	}
	inv[t] += n
}

// Take removes one of t, reporting whether the caller may proceed. The
// infinite tile always succeeds and is never decremented.
func (inv Inventory) Take(t tile.Tile) bool {
	if t == tile.Air {
		return false
	}
	if t == InfiniteTile {
		return true
	}
	if inv[t] <= 0 {
		return false
	}
	inv[t]--
	return true
}

// CanTake reports whether Take would succeed, without mutating.
func (inv Inventory) CanTake(t tile.Tile) bool {
	if t == tile.Air {
		return false
	}
	return t == InfiniteTile || inv[t] > 0
}
