package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// HingeMotorMode selects what a hinge motor drives.
type HingeMotorMode int

const (
	MotorOff HingeMotorMode = iota
	MotorVelocity
	MotorServo // position servo toward a target angle
)

// HingeConstraint allows rotation about a single axis only. It supports
// angle limits (one-sided velocity clamps plus positional backstop) and a
// motor (velocity or position-servo, impulse clamped to ±MaxMotorForce·dt).
type HingeConstraint struct {
	ConstraintBase

	// axisRef is the hinge axis in body B's frame (world frame when bodyB
	// is nil), captured at creation.
	axisRef mgl32.Vec3
	refRel  mgl32.Quat // A's orientation relative to B at creation

	LimitsEnabled bool
	LowerLimit    float32 // radians
	UpperLimit    float32

	MotorMode     HingeMotorMode
	MotorTarget   float32 // rad/s for MotorVelocity, radians for MotorServo
	MaxMotorForce float32

	// Cached impulses for warm starting.
	linearImpulse mgl32.Vec3
	swingImpulse  mgl32.Vec3

	// Step-scoped state.
	anchorA      mgl32.Vec3
	anchorB      mgl32.Vec3
	worldAxis    mgl32.Vec3
	motorImpulse float32 // accumulated axial motor impulse this step
}

// NewHingeConstraint creates a hinge at the given anchors rotating about
// the world-space axis, with the current pose as the zero angle.
func NewHingeConstraint(bodyA, bodyB *RigidBody, anchorA, anchorB, worldAxis mgl32.Vec3) *HingeConstraint {
	c := &HingeConstraint{
		ConstraintBase: newConstraintBase(bodyA, bodyB, anchorA, anchorB),
	}
	axis := safeNormalize(worldAxis, mgl32.Vec3{0, 1, 0})
	c.axisRef = c.rotationB().Conjugate().Rotate(axis)
	c.refRel = c.relRotation()
	return c
}

// SetLimits enables angle limits in radians, lower <= upper.
func (c *HingeConstraint) SetLimits(lower, upper float32) {
	c.LimitsEnabled = true
	c.LowerLimit = lower
	c.UpperLimit = upper
}

// SetMotorVelocity drives the hinge at a target angular velocity.
func (c *HingeConstraint) SetMotorVelocity(speed, maxForce float32) {
	c.MotorMode = MotorVelocity
	c.MotorTarget = speed
	c.MaxMotorForce = maxForce
	c.wakeBodies()
}

// SetMotorServo drives the hinge toward a target angle.
func (c *HingeConstraint) SetMotorServo(targetAngle, maxForce float32) {
	c.MotorMode = MotorServo
	c.MotorTarget = targetAngle
	c.MaxMotorForce = maxForce
	c.wakeBodies()
}

// Angle returns the current hinge angle in (-pi, pi], zero at the creation
// pose, positive per right-hand rule about the hinge axis.
func (c *HingeConstraint) Angle() float32 {
	d := c.relRotation().Mul(c.refRel.Conjugate())
	if d.W < 0 {
		d = mgl32.Quat{W: -d.W, V: d.V.Mul(-1)}
	}
	return wrapAngle(2 * math32.Atan2(d.V.Dot(c.axisRef), d.W))
}

func (c *HingeConstraint) PreSolve(dt float32) {
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
		c.applyAngularImpulse(c.swingImpulse)
	} else {
		c.linearImpulse = mgl32.Vec3{}
		c.swingImpulse = mgl32.Vec3{}
	}
}

func (c *HingeConstraint) SolveVelocity(dt float32) {
	if !c.active() {
		return
	}
	invSum := c.invMassSum()
	if invSum == 0 {
		return
	}

	// Point-to-point: anchors move together.
	relVel := c.relVelocityAt(c.anchorA, c.anchorB)
	impulse := relVel.Mul(-1 / invSum)
	c.applyImpulse(impulse, c.anchorA, c.anchorB)
	c.linearImpulse = c.linearImpulse.Add(impulse)

	// Swing lock: kill relative angular velocity perpendicular to the axis.
	relW := c.relAngularVelocity()
	axial := relW.Dot(c.worldAxis)
	perp := relW.Sub(c.worldAxis.Mul(axial))
	swing := perp.Mul(-1 / invSum)
	c.applyAngularImpulse(swing)
	c.swingImpulse = c.swingImpulse.Add(swing)

	if c.MotorMode != MotorOff && c.MaxMotorForce > 0 && dt > 0 {
		c.solveMotor(dt, invSum)
	}

	if c.LimitsEnabled {
		c.solveLimits(invSum)
	}
}

func (c *HingeConstraint) solveMotor(dt float32, invSum float32) {
	axial := c.relAngularVelocity().Dot(c.worldAxis)

	targetVel := c.MotorTarget
	if c.MotorMode == MotorServo {
		targetVel = wrapAngle(c.MotorTarget-c.Angle()) / dt
	}

	lm := (targetVel - axial) / invSum

	// Clamp the accumulated motor impulse to the force budget.
	budget := c.MaxMotorForce * dt
	old := c.motorImpulse
	c.motorImpulse = mgl32.Clamp(old+lm, -budget, budget)
	lm = c.motorImpulse - old

	c.applyAngularImpulse(c.worldAxis.Mul(lm))
}

// solveLimits applies one-sided velocity clamps: only impulses that move
// the angle back inside the range are allowed.
func (c *HingeConstraint) solveLimits(invSum float32) {
	angle := c.Angle()
	axial := c.relAngularVelocity().Dot(c.worldAxis)

	if angle <= c.LowerLimit && axial < 0 {
		c.applyAngularImpulse(c.worldAxis.Mul(-axial / invSum))
	} else if angle >= c.UpperLimit && axial > 0 {
		c.applyAngularImpulse(c.worldAxis.Mul(-axial / invSum))
	}
}

func (c *HingeConstraint) SolvePosition(dt float32) {
	if !c.active() {
		return
	}

	// Anchor drift.
	err := c.worldAnchorA().Sub(c.worldAnchorB())
	if err.Len() > penetrationSlop {
		c.correctPositions(err, baumgarteFactor)
	}

	// Swing drift: split the rotation error into twist about the axis and
	// swing, and correct only the swing part.
	d := c.relRotation().Mul(c.refRel.Conjugate())
	if d.W < 0 {
		d = mgl32.Quat{W: -d.W, V: d.V.Mul(-1)}
	}
	twist := mgl32.Quat{W: d.W, V: c.axisRef.Mul(d.V.Dot(c.axisRef))}.Normalize()
	swing := d.Mul(twist.Conjugate())
	swingAxis, swingAngle := quatDeltaAxisAngle(swing)
	if math32.Abs(swingAngle) > angularSlop {
		c.correctRotations(c.rotationB().Rotate(swingAxis), swingAngle, baumgarteFactor)
	}

	// Limit backstop.
	if c.LimitsEnabled {
		worldAxis := c.rotationB().Rotate(c.axisRef)
		angle := c.Angle()
		if angle < c.LowerLimit-angularSlop {
			c.correctRotations(worldAxis, angle-c.LowerLimit, baumgarteFactor)
		} else if angle > c.UpperLimit+angularSlop {
			c.correctRotations(worldAxis, angle-c.UpperLimit, baumgarteFactor)
		}
	}
}
