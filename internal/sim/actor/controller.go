package actor

import (
	"math"

	"gridfall/internal/sim/grid"
	"gridfall/internal/sim/physics"
	"gridfall/internal/sim/tile"
	"gridfall/internal/sim/tuning"
	"gridfall/internal/sim/worldgen"
)

// MoveIntent is the per-frame locomotion part of the input contract.
type MoveIntent struct {
	Left  bool
	Right bool
	Jump  bool
}

// Controller owns the actor's kinematic and health state transitions:
// intent to velocity, velocity to position through the collision resolver,
// world mutation through mine/place, and damage bookkeeping.
type Controller struct {
	phys tuning.Physics
	surv tuning.Survival

	actor *Actor
	inv   Inventory
}

func NewController(a *Actor, inv Inventory, phys tuning.Physics, surv tuning.Survival) *Controller {
	return &Controller{phys: phys, surv: surv, actor: a, inv: inv}
}

func (c *Controller) Actor() *Actor        { return c.actor }
func (c *Controller) Inventory() Inventory { return c.inv }

// Step advances locomotion by the given number of reference frames.
// now is the simulation clock in seconds, used for damage timestamps.
func (c *Controller) Step(g *grid.Grid, in MoveIntent, frames, now float64) {
	a := c.actor
	p := c.phys

	accel := p.MoveAccel
	if !a.Grounded {
		accel = p.AirAccel
	}
	switch {
	case in.Left && !in.Right:
		a.Vel.X -= accel * frames
		a.Facing = -1
	case in.Right && !in.Left:
		a.Vel.X += accel * frames
		a.Facing = 1
	default:
		// No opposing input: velocity decays by the friction multiplier
		// per reference frame.
		a.Vel.X *= math.Pow(p.Friction, frames)
	}
	// Run speed clamp applies every step, regardless of friction or accel.
	if a.Vel.X > p.MaxRunSpeed {
		a.Vel.X = p.MaxRunSpeed
	}
	if a.Vel.X < -p.MaxRunSpeed {
		a.Vel.X = -p.MaxRunSpeed
	}

	if in.Jump && a.Grounded {
		a.Vel.Y = -p.JumpSpeed
		a.Grounded = false
	}
	a.Vel.Y += p.Gravity * frames
	if a.Vel.Y > p.TerminalVel {
		a.Vel.Y = p.TerminalVel
	}

	wasFalling := !a.Grounded && a.Vel.Y > 0
	preImpactVy := a.Vel.Y

	res := physics.Resolve(g, a.Pos, a.Half, physics.Vec2{
		X: a.Vel.X * frames,
		Y: a.Vel.Y * frames,
	})
	a.Pos = res.Pos
	if res.BlockedX {
		a.Vel.X = 0
	}
	if res.BlockedY {
		a.Vel.Y = 0
	}
	a.Grounded = res.Grounded

	// Fall damage fires exactly on the falling -> grounded transition,
	// proportional to speed in excess of the threshold fraction of
	// terminal velocity.
	if wasFalling && res.Grounded {
		threshold := c.surv.FallThresholdFrac * c.phys.TerminalVel
		if excess := preImpactVy - threshold; excess > 0 {
			c.Damage(g, excess*c.surv.FallDamageScale, now)
		}
	}

	if a.InvulnFrames > 0 {
		a.InvulnFrames -= frames
	}
	c.regenerate(frames, now)
}

func (c *Controller) regenerate(frames, now float64) {
	a := c.actor
	if a.Health >= a.MaxHealth {
		return
	}
	if now-a.LastDamageAt <= c.surv.RegenDelaySeconds {
		return
	}
	a.Health += c.surv.RegenPerFrame * frames
	if a.Health > a.MaxHealth {
		a.Health = a.MaxHealth
	}
}

// Damage applies amount to the actor unless it is invulnerable. Health
// floors at zero; reaching zero respawns immediately with full health.
func (c *Controller) Damage(g *grid.Grid, amount, now float64) {
	a := c.actor
	if amount <= 0 || a.InvulnFrames > 0 {
		return
	}
	a.Health -= amount
	if a.Health < 0 {
		a.Health = 0
	}
	a.InvulnFrames = c.surv.InvulnSeconds * 60
	a.LastDamageAt = now
	if a.Health <= 0 {
		c.Respawn(g)
	}
}

// Respawn resets health and repositions the actor on the surface at the
// world-center column, two tile-heights above the first solid tile.
func (c *Controller) Respawn(g *grid.Grid) {
	a := c.actor
	a.Health = a.MaxHealth
	a.Pos = SpawnPosition(g)
	a.Vel = physics.Vec2{}
	a.Grounded = false
}

// SpawnPosition is the surface spawn point at the world-center column:
// two tile-heights above the first solid tile scanning down from y=0.
func SpawnPosition(g *grid.Grid) physics.Vec2 {
	col := g.Width() / 2
	s := worldgen.SurfaceY(g, col)
	return physics.Vec2{X: float64(col) + 0.5, Y: float64(s) - 2}
}

// InReach gates interactions: Euclidean distance in tile units between the
// actor's position and the target tile's center.
func (c *Controller) InReach(tx, ty int) bool {
	dx := c.actor.Pos.X - (float64(tx) + 0.5)
	dy := c.actor.Pos.Y - (float64(ty) + 0.5)
	return math.Sqrt(dx*dx+dy*dy) <= c.phys.Reach
}

// Mine clears the targeted tile into the inventory. Air targets,
// out-of-reach targets, and out-of-bounds targets are silent no-ops. The
// bounds check must come first: out-of-bounds reads report solid stone, but
// there is no real tile there to clear or collect.
func (c *Controller) Mine(g *grid.Grid, tx, ty int) bool {
	if !g.InBounds(tx, ty) || !c.InReach(tx, ty) {
		return false
	}
	t := g.Get(tx, ty)
	if t == tile.Air {
		return false
	}
	c.inv.Add(t, 1)
	g.Set(tx, ty, tile.Air)
	return true
}

// Place writes sel at the target if every placement rule holds: sel is not
// Air, the target is Air, the inventory covers it (infinite tile exempt),
// and the tile footprint does not overlap the actor's AABB. Refusals are
// silent and leave grid and inventory unchanged.
func (c *Controller) Place(g *grid.Grid, tx, ty int, sel tile.Tile) bool {
	if sel == tile.Air || !g.InBounds(tx, ty) || !c.InReach(tx, ty) {
		return false
	}
	if g.Get(tx, ty) != tile.Air {
		return false
	}
	if !c.inv.CanTake(sel) {
		return false
	}
	if c.overlapsActor(tx, ty) {
		return false
	}
	if !c.inv.Take(sel) {
		return false
	}
	g.Set(tx, ty, sel)
	return true
}

// overlapsActor tests the tile's world-space footprint [tx,tx+1)x[ty,ty+1)
// against the actor AABB; placing inside the actor would bury it.
func (c *Controller) overlapsActor(tx, ty int) bool {
	a := c.actor
	return float64(tx) < a.Pos.X+a.Half.X &&
		float64(tx+1) > a.Pos.X-a.Half.X &&
		float64(ty) < a.Pos.Y+a.Half.Y &&
		float64(ty+1) > a.Pos.Y-a.Half.Y
}
