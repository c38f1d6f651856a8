package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DistanceConstraint keeps the anchor separation within [MinDistance,
// MaxDistance]. Equal min and max makes a rigid rod; min zero with a
// positive max makes a rope that only resists stretching.
type DistanceConstraint struct {
	ConstraintBase

	MinDistance float32
	MaxDistance float32

	normalImpulse float32 // cached along the current axis for warm starting

	anchorA mgl32.Vec3
	anchorB mgl32.Vec3
	normal  mgl32.Vec3 // from B's anchor toward A's anchor
	dist    float32
}

// NewDistanceConstraint creates a rod holding the current anchor separation.
// Use SetDistanceRange for rope behavior.
func NewDistanceConstraint(bodyA, bodyB *RigidBody, anchorA, anchorB mgl32.Vec3) *DistanceConstraint {
	c := &DistanceConstraint{
		ConstraintBase: newConstraintBase(bodyA, bodyB, anchorA, anchorB),
	}
	d := c.worldAnchorA().Sub(c.worldAnchorB()).Len()
	c.MinDistance = d
	c.MaxDistance = d
	return c
}

// SetDistanceRange configures the allowed separation interval.
func (c *DistanceConstraint) SetDistanceRange(min, max float32) {
	c.MinDistance = min
	c.MaxDistance = max
}

func (c *DistanceConstraint) PreSolve(dt float32) {
	if !c.active() {
		return
	}
	c.resetApplied()
	c.anchorA = c.worldAnchorA()
	c.anchorB = c.worldAnchorB()

	d := c.anchorA.Sub(c.anchorB)
	c.dist = d.Len()
	c.normal = safeNormalize(d, mgl32.Vec3{0, 1, 0})

	// Strictly inside the range the limit is inactive; an impulse cached
	// while taut (or compressed) must not be re-applied to a slack rope.
	if c.dist > c.MinDistance && c.dist < c.MaxDistance {
		c.normalImpulse = 0
	}

	if c.WarmStart {
		c.applyImpulse(c.normal.Mul(c.normalImpulse), c.anchorA, c.anchorB)
	} else {
		c.normalImpulse = 0
	}
}

func (c *DistanceConstraint) SolveVelocity(dt float32) {
	if !c.active() {
		return
	}
	invSum := c.invMassSum()
	if invSum == 0 {
		return
	}

	// Positive vn = anchors separating.
	vn := c.relVelocityAt(c.anchorA, c.anchorB).Dot(c.normal)

	switch {
	case c.dist > c.MaxDistance:
		// Taut: remove separating velocity only (one-sided clamp).
		if vn > 0 {
			j := -vn / invSum
			c.applyImpulse(c.normal.Mul(j), c.anchorA, c.anchorB)
			c.normalImpulse += j
		}
	case c.dist < c.MinDistance:
		// Compressed below minimum: remove approaching velocity only.
		if vn < 0 {
			j := -vn / invSum
			c.applyImpulse(c.normal.Mul(j), c.anchorA, c.anchorB)
			c.normalImpulse += j
		}
	}
}

func (c *DistanceConstraint) SolvePosition(dt float32) {
	if !c.active() {
		return
	}

	anchorA := c.worldAnchorA()
	anchorB := c.worldAnchorB()
	d := anchorA.Sub(anchorB)
	dist := d.Len()
	n := safeNormalize(d, mgl32.Vec3{0, 1, 0})

	var err float32
	if dist > c.MaxDistance+penetrationSlop {
		err = dist - c.MaxDistance
	} else if dist < c.MinDistance-penetrationSlop {
		err = dist - c.MinDistance
	} else {
		return
	}
	c.correctPositions(n.Mul(err), baumgarteFactor)
}
