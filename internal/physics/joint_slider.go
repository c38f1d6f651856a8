package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SliderConstraint allows translation along a single axis only. Rotation is
// fully locked to the creation pose. Supports translation limits and a
// linear motor (velocity or position-servo, impulse clamped to
// ±MaxMotorForce·dt).
type SliderConstraint struct {
	ConstraintBase

	// axisRef is the slide axis in body B's frame (world frame when bodyB
	// is nil), captured at creation.
	axisRef mgl32.Vec3
	refRel  mgl32.Quat

	LimitsEnabled bool
	LowerLimit    float32 // meters along the axis
	UpperLimit    float32

	MotorEnabled  bool
	MotorIsServo  bool
	MotorTarget   float32 // m/s, or meters for servo mode
	MaxMotorForce float32

	linearImpulse  mgl32.Vec3
	angularImpulse mgl32.Vec3

	anchorA      mgl32.Vec3
	anchorB      mgl32.Vec3
	worldAxis    mgl32.Vec3
	motorImpulse float32
}

// NewSliderConstraint creates a slider at the given anchors sliding along
// the world-space axis, with the current pose as translation zero.
func NewSliderConstraint(bodyA, bodyB *RigidBody, anchorA, anchorB, worldAxis mgl32.Vec3) *SliderConstraint {
	c := &SliderConstraint{
		ConstraintBase: newConstraintBase(bodyA, bodyB, anchorA, anchorB),
	}
	axis := safeNormalize(worldAxis, mgl32.Vec3{1, 0, 0})
	c.axisRef = c.rotationB().Conjugate().Rotate(axis)
	c.refRel = c.relRotation()
	return c
}

// SetLimits enables translation limits in meters, lower <= upper.
func (c *SliderConstraint) SetLimits(lower, upper float32) {
	c.LimitsEnabled = true
	c.LowerLimit = lower
	c.UpperLimit = upper
}

// SetMotorVelocity drives the slider at a target linear speed.
func (c *SliderConstraint) SetMotorVelocity(speed, maxForce float32) {
	c.MotorEnabled = true
	c.MotorIsServo = false
	c.MotorTarget = speed
	c.MaxMotorForce = maxForce
	c.wakeBodies()
}

// SetMotorServo drives the slider toward a target translation.
func (c *SliderConstraint) SetMotorServo(target, maxForce float32) {
	c.MotorEnabled = true
	c.MotorIsServo = true
	c.MotorTarget = target
	c.MaxMotorForce = maxForce
	c.wakeBodies()
}

// Translation returns A's anchor offset from B's anchor along the axis.
func (c *SliderConstraint) Translation() float32 {
	axis := c.rotationB().Rotate(c.axisRef)
	return c.worldAnchorA().Sub(c.worldAnchorB()).Dot(axis)
}

func (c *SliderConstraint) PreSolve(dt float32) {
	if !c.active() {
		return
	}
	c.resetApplied()
	c.anchorA = c.worldAnchorA()
	c.anchorB = c.worldAnchorB()
	c.worldAxis = c.rotationB().Rotate(c.axisRef)
	c.motorImpulse = 0

	if c.WarmStart {
		c.applyImpulse(c.linearImpulse, c.anchorA, c.anchorB)
		c.applyAngularImpulse(c.angularImpulse)
	} else {
		c.linearImpulse = mgl32.Vec3{}
		c.angularImpulse = mgl32.Vec3{}
	}
}

func (c *SliderConstraint) SolveVelocity(dt float32) {
	if !c.active() {
		return
	}
	invSum := c.invMassSum()
	if invSum == 0 {
		return
	}

	// Kill relative velocity perpendicular to the slide axis.
	relVel := c.relVelocityAt(c.anchorA, c.anchorB)
	perp := relVel.Sub(c.worldAxis.Mul(relVel.Dot(c.worldAxis)))
	impulse := perp.Mul(-1 / invSum)
	c.applyImpulse(impulse, c.anchorA, c.anchorB)
	c.linearImpulse = c.linearImpulse.Add(impulse)

	// Full angular lock.
	relW := c.relAngularVelocity()
	angular := relW.Mul(-1 / invSum)
	c.applyAngularImpulse(angular)
	c.angularImpulse = c.angularImpulse.Add(angular)

	if c.MotorEnabled && c.MaxMotorForce > 0 && dt > 0 {
		c.solveMotor(dt, invSum)
	}

	if c.LimitsEnabled {
		c.solveLimits(invSum)
	}
}

func (c *SliderConstraint) solveMotor(dt float32, invSum float32) {
	axial := c.relVelocityAt(c.anchorA, c.anchorB).Dot(c.worldAxis)

	targetVel := c.MotorTarget
	if c.MotorIsServo {
		targetVel = (c.MotorTarget - c.Translation()) / dt
	}

	lm := (targetVel - axial) / invSum
	budget := c.MaxMotorForce * dt
	old := c.motorImpulse
	c.motorImpulse = mgl32.Clamp(old+lm, -budget, budget)
	lm = c.motorImpulse - old

	c.applyImpulse(c.worldAxis.Mul(lm), c.anchorA, c.anchorB)
}

// solveLimits applies one-sided velocity clamps at the translation ends.
func (c *SliderConstraint) solveLimits(invSum float32) {
	t := c.Translation()
	axial := c.relVelocityAt(c.anchorA, c.anchorB).Dot(c.worldAxis)

	if t <= c.LowerLimit && axial < 0 {
		c.applyImpulse(c.worldAxis.Mul(-axial/invSum), c.anchorA, c.anchorB)
	} else if t >= c.UpperLimit && axial > 0 {
		c.applyImpulse(c.worldAxis.Mul(-axial/invSum), c.anchorA, c.anchorB)
	}
}

func (c *SliderConstraint) SolvePosition(dt float32) {
	if !c.active() {
		return
	}
	axis := c.rotationB().Rotate(c.axisRef)

	// Perpendicular anchor drift.
	err := c.worldAnchorA().Sub(c.worldAnchorB())
	perp := err.Sub(axis.Mul(err.Dot(axis)))
	if perp.Len() > penetrationSlop {
		c.correctPositions(perp, baumgarteFactor)
	}

	// Rotation drift back to the creation pose.
	d := c.relRotation().Mul(c.refRel.Conjugate())
	dAxis, dAngle := quatDeltaAxisAngle(d)
	if math32.Abs(dAngle) > angularSlop {
		c.correctRotations(c.rotationB().Rotate(dAxis), dAngle, baumgarteFactor)
	}

	// Limit backstops.
	if c.LimitsEnabled {
		t := err.Dot(axis)
		if t < c.LowerLimit-penetrationSlop {
			c.correctPositions(axis.Mul(t-c.LowerLimit), baumgarteFactor)
		} else if t > c.UpperLimit+penetrationSlop {
			c.correctPositions(axis.Mul(t-c.UpperLimit), baumgarteFactor)
		}
	}
}
