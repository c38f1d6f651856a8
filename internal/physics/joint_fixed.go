package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FixedConstraint welds two bodies together: anchors stay coincident and
// the relative rotation captured at creation is preserved.
type FixedConstraint struct {
	ConstraintBase

	refRotation mgl32.Quat // A's orientation relative to B at creation

	// Cached impulses for warm starting.
	linearImpulse  mgl32.Vec3
	angularImpulse mgl32.Vec3

	// Step-scoped world-space state from PreSolve.
	anchorA mgl32.Vec3
	anchorB mgl32.Vec3
}

// NewFixedConstraint welds bodyA to bodyB (or to world space when bodyB is
// nil) at the given local anchors, preserving the current relative rotation.
func NewFixedConstraint(bodyA, bodyB *RigidBody, anchorA, anchorB mgl32.Vec3) *FixedConstraint {
	c := &FixedConstraint{
		ConstraintBase: newConstraintBase(bodyA, bodyB, anchorA, anchorB),
	}
	c.refRotation = c.relRotation()
	return c
}

func (c *FixedConstraint) PreSolve(dt float32) {
	if !c.active() {
		return
	}
	c.resetApplied()
	c.anchorA = c.worldAnchorA()
	c.anchorB = c.worldAnchorB()

	if c.WarmStart {
		c.applyImpulse(c.linearImpulse, c.anchorA, c.anchorB)
		c.applyAngularImpulse(c.angularImpulse)
	} else {
		c.linearImpulse = mgl32.Vec3{}
		c.angularImpulse = mgl32.Vec3{}
	}
}

func (c *FixedConstraint) SolveVelocity(dt float32) {
	if !c.active() {
		return
	}
	invSum := c.invMassSum()
	if invSum == 0 {
		return
	}

	// Linear: drive the anchor relative velocity to zero.
	relVel := c.relVelocityAt(c.anchorA, c.anchorB)
	impulse := relVel.Mul(-1 / invSum)
	c.applyImpulse(impulse, c.anchorA, c.anchorB)
	c.linearImpulse = c.linearImpulse.Add(impulse)

	// Angular: drive the relative angular velocity to zero.
	relW := c.relAngularVelocity()
	angular := relW.Mul(-1 / invSum)
	c.applyAngularImpulse(angular)
	c.angularImpulse = c.angularImpulse.Add(angular)
}

func (c *FixedConstraint) SolvePosition(dt float32) {
	if !c.active() {
		return
	}

	// Anchor drift.
	err := c.worldAnchorA().Sub(c.worldAnchorB())
	if err.Len() > penetrationSlop {
		c.correctPositions(err, baumgarteFactor)
	}

	// Rotation drift: delta between the current and reference relative
	// rotation, expressed in B's frame.
	delta := c.relRotation().Mul(c.refRotation.Conjugate())
	axisLocal, angle := quatDeltaAxisAngle(delta)
	if abs32(angle) > angularSlop {
		axis := c.rotationB().Rotate(axisLocal)
		c.correctRotations(axis, angle, baumgarteFactor)
	}
}
