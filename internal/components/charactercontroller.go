package components

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/engine"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

// CharacterController moves a capsule-sized character with sphere-swept
// collision, gravity, sliding and stair stepping. It does not create a
// rigid body; the character is moved directly and never pushed by the
// simulation.
type CharacterController struct {
	engine.BaseComponent

	Height     float32 // total capsule height
	Radius     float32
	StepHeight float32 // max ledge height climbed automatically
	SlopeLimit float32 // max walkable slope in degrees

	UseGravity bool
	Gravity    float32 // positive = down

	LayerMask uint32 // which layers block the character

	world      *physics.World
	moveInput  mgl32.Vec3 // desired horizontal velocity
	velocityY  float32
	isGrounded bool
}

func NewCharacterController(world *physics.World) *CharacterController {
	return &CharacterController{
		Height:     1.8,
		Radius:     0.4,
		StepHeight: 0.4,
		SlopeLimit: 45.0,
		UseGravity: true,
		Gravity:    20.0,
		LayerMask:  ^uint32(0),
		world:      world,
	}
}

// Move sets the desired horizontal velocity for subsequent updates. The Y
// component is ignored; vertical motion comes from gravity and Jump.
func (c *CharacterController) Move(velocity mgl32.Vec3) {
	c.moveInput = mgl32.Vec3{velocity.X(), 0, velocity.Z()}
}

// Jump sets the vertical velocity if the character is grounded.
func (c *CharacterController) Jump(speed float32) {
	if c.isGrounded {
		c.velocityY = speed
		c.isGrounded = false
	}
}

func (c *CharacterController) IsGrounded() bool { return c.isGrounded }

func (c *CharacterController) Velocity() mgl32.Vec3 {
	return mgl32.Vec3{c.moveInput.X(), c.velocityY, c.moveInput.Z()}
}

func (c *CharacterController) Update(deltaTime float32) {
	g := c.GetGameObject()
	if g == nil || c.world == nil || deltaTime <= 0 {
		return
	}

	if c.UseGravity && !c.isGrounded {
		c.velocityY -= c.Gravity * deltaTime
	}

	pos := g.Transform.Position

	// Horizontal sweep, with one slide off the hit plane and a step-up
	// attempt against low ledges.
	horizontal := c.moveInput.Mul(deltaTime)
	if horizontal.LenSqr() > 0 {
		pos = c.sweepMove(pos, horizontal, true)
	}

	// Vertical sweep.
	vertical := mgl32.Vec3{0, c.velocityY * deltaTime, 0}
	if vertical.LenSqr() > 0 {
		moved := c.sweepMove(pos, vertical, false)
		if c.velocityY < 0 && moved.Y() > pos.Y()+vertical.Y()+1e-4 {
			// Landed short of the full drop.
			c.velocityY = 0
		}
		pos = moved
	}

	c.isGrounded = c.groundCheck(pos)
	if c.isGrounded && c.velocityY < 0 {
		c.velocityY = 0
	}

	g.Transform.Position = pos
}

// sweepMove advances the character along delta, stopping at obstacles.
// Horizontal moves slide along the blocking surface and try a step-up when
// the surface is too steep to walk.
func (c *CharacterController) sweepMove(pos, delta mgl32.Vec3, allowStep bool) mgl32.Vec3 {
	dist := delta.Len()
	dir := delta.Mul(1 / dist)

	hit, ok := c.castBody(pos, dir, dist+skinWidth)
	if !ok {
		return pos.Add(delta)
	}

	allowed := math32.Max(0, hit.Distance-skinWidth)
	pos = pos.Add(dir.Mul(allowed))
	remaining := dist - allowed
	if remaining <= 0 {
		return pos
	}

	if allowStep && c.tooSteep(hit.Normal) {
		if stepped, ok := c.tryStepUp(pos, dir.Mul(remaining)); ok {
			return stepped
		}
	}

	// Slide the remainder along the hit plane.
	slide := dir.Mul(remaining)
	slide = slide.Sub(hit.Normal.Mul(slide.Dot(hit.Normal)))
	if slide.LenSqr() < 1e-10 {
		return pos
	}
	slideDist := slide.Len()
	slideDir := slide.Mul(1 / slideDist)
	if hit, ok := c.castBody(pos, slideDir, slideDist+skinWidth); ok {
		slideDist = math32.Max(0, hit.Distance-skinWidth)
	}
	return pos.Add(slideDir.Mul(slideDist))
}

// castBody sweeps the capsule's feet and head spheres along dir and keeps
// the nearest hit. A single mid-height sphere would pass clean over
// shin-height geometry; the feet sphere makes low ledges and curbs block.
func (c *CharacterController) castBody(pos, dir mgl32.Vec3, dist float32) (physics.RaycastHit, bool) {
	feet := pos.Add(mgl32.Vec3{0, c.Radius, 0})
	head := pos.Add(mgl32.Vec3{0, c.Height - c.Radius, 0})

	best, found := c.world.SphereCast(feet, dir, c.Radius, dist, c.LayerMask)
	if hit, ok := c.world.SphereCast(head, dir, c.Radius, dist, c.LayerMask); ok && (!found || hit.Distance < best.Distance) {
		best = hit
		found = true
	}
	return best, found
}

const skinWidth = 0.02

// tooSteep reports whether a surface normal exceeds the slope limit.
func (c *CharacterController) tooSteep(normal mgl32.Vec3) bool {
	cosLimit := math32.Cos(mgl32.DegToRad(c.SlopeLimit))
	return normal.Y() < cosLimit
}

// tryStepUp lifts the character by StepHeight, retries the blocked motion,
// then drops back down onto the ledge.
func (c *CharacterController) tryStepUp(pos, delta mgl32.Vec3) (mgl32.Vec3, bool) {
	lifted := pos.Add(mgl32.Vec3{0, c.StepHeight, 0})

	dist := delta.Len()
	dir := delta.Mul(1 / dist)
	if _, blocked := c.castBody(lifted, dir, dist+skinWidth); blocked {
		return pos, false
	}
	moved := lifted.Add(delta)

	// Drop the feet onto the step surface.
	feet := moved.Add(mgl32.Vec3{0, c.Radius, 0})
	down := mgl32.Vec3{0, -1, 0}
	if hit, ok := c.world.SphereCast(feet, down, c.Radius, c.StepHeight+skinWidth, c.LayerMask); ok {
		moved = moved.Add(down.Mul(math32.Max(0, hit.Distance-skinWidth)))
	}
	return moved, true
}

// groundCheck probes just below the character's feet.
func (c *CharacterController) groundCheck(pos mgl32.Vec3) bool {
	center := pos.Add(mgl32.Vec3{0, c.Radius + skinWidth, 0})
	hit, ok := c.world.SphereCast(center, mgl32.Vec3{0, -1, 0}, c.Radius, 3*skinWidth, c.LayerMask)
	return ok && !c.tooSteep(hit.Normal)
}
