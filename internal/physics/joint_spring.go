package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SpringConstraint is a damped spring between two anchors. Unlike the rigid
// joints it pushes toward its rest length with a finite force, so it never
// fully removes relative velocity in one iteration. Optional hard limits
// clamp the length like a DistanceConstraint.
type SpringConstraint struct {
	ConstraintBase

	RestLength float32
	Stiffness  float32 // spring constant k
	Damping    float32 // damping coefficient c

	// Hard length limits, enforced when LimitsEnabled.
	LimitsEnabled bool
	MinLength     float32
	MaxLength     float32

	anchorA mgl32.Vec3
	anchorB mgl32.Vec3
	normal  mgl32.Vec3
	dist    float32
}

func NewSpringConstraint(bodyA, bodyB *RigidBody, anchorA, anchorB mgl32.Vec3, restLength, stiffness, damping float32) *SpringConstraint {
	return &SpringConstraint{
		ConstraintBase: newConstraintBase(bodyA, bodyB, anchorA, anchorB),
		RestLength:     restLength,
		Stiffness:      stiffness,
		Damping:        damping,
	}
}

// SetLengthLimits enables hard clamping of the spring length.
func (c *SpringConstraint) SetLengthLimits(min, max float32) {
	c.LimitsEnabled = true
	c.MinLength = min
	c.MaxLength = max
}

func (c *SpringConstraint) PreSolve(dt float32) {
	if !c.active() {
		return
	}
	c.resetApplied()
	c.anchorA = c.worldAnchorA()
	c.anchorB = c.worldAnchorB()

	d := c.anchorA.Sub(c.anchorB)
	c.dist = d.Len()
	c.normal = safeNormalize(d, mgl32.Vec3{0, 1, 0})
	// Spring impulses are force-derived each step; there is no meaningful
	// impulse to warm start with.
}

func (c *SpringConstraint) SolveVelocity(dt float32) {
	if !c.active() {
		return
	}
	invSum := c.invMassSum()
	if invSum == 0 {
		return
	}

	vn := c.relVelocityAt(c.anchorA, c.anchorB).Dot(c.normal)

	// Hooke force plus damping, applied as an impulse over dt. Positive
	// stretch pulls A toward B.
	stretch := c.dist - c.RestLength
	force := -c.Stiffness*stretch - c.Damping*vn
	c.applyImpulse(c.normal.Mul(force*dt), c.anchorA, c.anchorB)

	if c.LimitsEnabled {
		vn = c.relVelocityAt(c.anchorA, c.anchorB).Dot(c.normal)
		if c.dist > c.MaxLength && vn > 0 {
			c.applyImpulse(c.normal.Mul(-vn/invSum), c.anchorA, c.anchorB)
		} else if c.dist < c.MinLength && vn < 0 {
			c.applyImpulse(c.normal.Mul(-vn/invSum), c.anchorA, c.anchorB)
		}
	}
}

func (c *SpringConstraint) SolvePosition(dt float32) {
	if !c.active() || !c.LimitsEnabled {
		return
	}

	anchorA := c.worldAnchorA()
	anchorB := c.worldAnchorB()
	d := anchorA.Sub(anchorB)
	dist := d.Len()
	n := safeNormalize(d, mgl32.Vec3{0, 1, 0})

	var err float32
	if dist > c.MaxLength+penetrationSlop {
		err = dist - c.MaxLength
	} else if dist < c.MinLength-penetrationSlop {
		err = dist - c.MinLength
	} else {
		return
	}
	c.correctPositions(n.Mul(err), baumgarteFactor)
}
