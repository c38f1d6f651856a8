package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Constraint is the uniform protocol every joint implements. The solver
// calls PreSolve once per step, SolveVelocity for the configured number of
// velocity iterations, and SolvePosition for the position iterations.
//
// Sign conventions: relative quantities are A relative to B, impulses are
// applied positively to body A and negatively to body B. When BodyB is nil
// the joint is anchored to world space and only A is affected.
type Constraint interface {
	BodyA() *RigidBody
	BodyB() *RigidBody

	// PreSolve computes world-space anchors/axes and effective masses, and
	// re-applies the previous step's cached impulse (warm starting).
	PreSolve(dt float32)
	// SolveVelocity applies an impulse driving the constrained relative
	// velocity toward its target.
	SolveVelocity(dt float32)
	// SolvePosition applies fractional Baumgarte correction of positional
	// drift, independent of velocity-phase impulses.
	SolvePosition(dt float32)

	// AppliedImpulse returns the impulse magnitude accumulated this step,
	// used for breaking-threshold checks.
	AppliedImpulse() float32

	IsEnabled() bool
	SetEnabled(enabled bool)
	// IsBroken is one-way: once a constraint breaks it never re-engages
	// and all solve phases become no-ops.
	IsBroken() bool
}

// angular position error below this is not corrected (radians).
const angularSlop = 0.01

// ConstraintBase carries the state shared by all joints.
type ConstraintBase struct {
	bodyA *RigidBody // required
	bodyB *RigidBody // nil = anchored to world space

	// LocalAnchorA is in body A's local frame. LocalAnchorB is in body B's
	// local frame, or a world-space point when bodyB is nil.
	LocalAnchorA mgl32.Vec3
	LocalAnchorB mgl32.Vec3

	// BreakingForce is the applied-impulse-over-time threshold beyond which
	// the constraint breaks. Zero means unbreakable.
	BreakingForce float32

	// WarmStart controls re-application of the previous step's impulse in
	// PreSolve. On by default.
	WarmStart bool

	enabled bool
	broken  bool
	applied float32
}

func newConstraintBase(a, b *RigidBody, anchorA, anchorB mgl32.Vec3) ConstraintBase {
	return ConstraintBase{
		bodyA:        a,
		bodyB:        b,
		LocalAnchorA: anchorA,
		LocalAnchorB: anchorB,
		WarmStart:    true,
		enabled:      true,
	}
}

func (c *ConstraintBase) BodyA() *RigidBody { return c.bodyA }
func (c *ConstraintBase) BodyB() *RigidBody { return c.bodyB }

func (c *ConstraintBase) IsEnabled() bool { return c.enabled }
func (c *ConstraintBase) SetEnabled(enabled bool) {
	if enabled && !c.enabled {
		c.wakeBodies()
	}
	c.enabled = enabled
}
func (c *ConstraintBase) IsBroken() bool { return c.broken }
func (c *ConstraintBase) AppliedImpulse() float32 { return c.applied }
func (c *ConstraintBase) SetBreakingForce(f float32) { c.BreakingForce = f }

// active reports whether solve phases should run at all.
func (c *ConstraintBase) active() bool {
	return c.enabled && !c.broken && c.bodyA != nil
}

// resetApplied starts a fresh impulse accumulation for the step.
func (c *ConstraintBase) resetApplied() { c.applied = 0 }

// checkBreak transitions to broken when the impulse applied this step,
// expressed as a force, exceeds the threshold. One-way.
func (c *ConstraintBase) checkBreak(dt float32) {
	if c.broken || c.BreakingForce <= 0 || dt <= 0 {
		return
	}
	if c.applied/dt > c.BreakingForce {
		c.broken = true
	}
}

// worldAnchorA returns body A's anchor in world space.
func (c *ConstraintBase) worldAnchorA() mgl32.Vec3 {
	return c.bodyA.Position.Add(c.bodyA.Rotation.Rotate(c.LocalAnchorA))
}

// worldAnchorB returns body B's anchor in world space, or the fixed world
// anchor when bodyB is nil.
func (c *ConstraintBase) worldAnchorB() mgl32.Vec3 {
	if c.bodyB == nil {
		return c.LocalAnchorB
	}
	return c.bodyB.Position.Add(c.bodyB.Rotation.Rotate(c.LocalAnchorB))
}

// rotationB returns body B's orientation, identity for world anchoring.
func (c *ConstraintBase) rotationB() mgl32.Quat {
	if c.bodyB == nil {
		return mgl32.QuatIdent()
	}
	return c.bodyB.Rotation
}

// invMassSum is the total effective inverse mass seen by the joint; zero
// means the joint cannot move anything and solves are skipped.
func (c *ConstraintBase) invMassSum() float32 {
	sum := c.bodyA.effectiveInvMass()
	if c.bodyB != nil {
		sum += c.bodyB.effectiveInvMass()
	}
	return sum
}

// relVelocityAt returns the velocity of A's anchor relative to B's anchor.
func (c *ConstraintBase) relVelocityAt(pa, pb mgl32.Vec3) mgl32.Vec3 {
	v := c.bodyA.VelocityAtPoint(pa)
	if c.bodyB != nil {
		v = v.Sub(c.bodyB.VelocityAtPoint(pb))
	}
	return v
}

// relAngularVelocity returns A's angular velocity relative to B.
func (c *ConstraintBase) relAngularVelocity() mgl32.Vec3 {
	w := c.bodyA.AngularVelocity
	if c.bodyB != nil {
		w = w.Sub(c.bodyB.AngularVelocity)
	}
	return w
}

// applyImpulse applies +impulse to A at pa and -impulse to B at pb, and
// accumulates the magnitude for breaking checks.
func (c *ConstraintBase) applyImpulse(impulse, pa, pb mgl32.Vec3) {
	applyContactImpulse(c.bodyA, impulse, pa)
	if c.bodyB != nil {
		applyContactImpulse(c.bodyB, impulse.Mul(-1), pb)
	}
	c.applied += impulse.Len()
}

// applyAngularImpulse applies +L to A and -L to B under the isotropic
// inertia simplification (inverse angular mass = inverse mass).
func (c *ConstraintBase) applyAngularImpulse(l mgl32.Vec3) {
	if inv := c.bodyA.effectiveInvMass(); inv > 0 {
		c.bodyA.AngularVelocity = c.bodyA.AngularVelocity.Add(l.Mul(inv))
	}
	if c.bodyB != nil {
		if inv := c.bodyB.effectiveInvMass(); inv > 0 {
			c.bodyB.AngularVelocity = c.bodyB.AngularVelocity.Sub(l.Mul(inv))
		}
	}
	c.applied += l.Len()
}

// correctPositions closes a fraction of the anchor gap, mass-weighted.
// err points from B's anchor to A's anchor.
func (c *ConstraintBase) correctPositions(err mgl32.Vec3, factor float32) {
	invSum := c.invMassSum()
	if invSum == 0 {
		return
	}
	correction := err.Mul(factor / invSum)
	if inv := c.bodyA.effectiveInvMass(); inv > 0 {
		c.bodyA.Position = c.bodyA.Position.Sub(correction.Mul(inv))
	}
	if c.bodyB != nil {
		if inv := c.bodyB.effectiveInvMass(); inv > 0 {
			c.bodyB.Position = c.bodyB.Position.Add(correction.Mul(inv))
		}
	}
}

// correctRotations rotates the bodies about axis to remove a fraction of an
// angular error, mass-weighted. Positive angle rotates A backward.
func (c *ConstraintBase) correctRotations(axis mgl32.Vec3, angle, factor float32) {
	invSum := c.invMassSum()
	if invSum == 0 || axis.LenSqr() < 1e-12 {
		return
	}
	step := angle * factor / invSum
	if inv := c.bodyA.effectiveInvMass(); inv > 0 {
		c.bodyA.Rotation = mgl32.QuatRotate(-step*inv, axis).Mul(c.bodyA.Rotation).Normalize()
	}
	if c.bodyB != nil {
		if inv := c.bodyB.effectiveInvMass(); inv > 0 {
			c.bodyB.Rotation = mgl32.QuatRotate(step*inv, axis).Mul(c.bodyB.Rotation).Normalize()
		}
	}
}

// relRotation returns A's orientation relative to B (conj(qB) * qA).
func (c *ConstraintBase) relRotation() mgl32.Quat {
	return c.rotationB().Conjugate().Mul(c.bodyA.Rotation)
}

// wakeBodies wakes both bodies; the solver skips joints whose bodies are
// all asleep, so a setter that changes joint behavior has to wake them.
func (c *ConstraintBase) wakeBodies() {
	if c.bodyA != nil {
		c.bodyA.Wake()
	}
	if c.bodyB != nil {
		c.bodyB.Wake()
	}
}

// quatDeltaAxisAngle extracts an axis and angle from a delta quaternion,
// choosing the short way around. Near-identity deltas return a zero angle.
func quatDeltaAxisAngle(d mgl32.Quat) (mgl32.Vec3, float32) {
	if d.W < 0 {
		d = mgl32.Quat{W: -d.W, V: d.V.Mul(-1)}
	}
	sinHalf := d.V.Len()
	if sinHalf < 1e-6 {
		return mgl32.Vec3{0, 1, 0}, 0
	}
	angle := 2 * math32.Atan2(sinHalf, d.W)
	return d.V.Mul(1 / sinHalf), angle
}

// wrapAngle maps an angle to (-pi, pi].
func wrapAngle(a float32) float32 {
	for a > math32.Pi {
		a -= 2 * math32.Pi
	}
	for a <= -math32.Pi {
		a += 2 * math32.Pi
	}
	return a
}
