package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Stabilization constants shared by contact response and constraint
// position solving.
const (
	penetrationSlop = 0.005 // penetration below this is left alone
	baumgarteFactor = 0.2   // fraction of error corrected per pass

	// restitutionThreshold is the approach speed below which contacts are
	// treated as inelastic. Bouncing on gravity-scale residual velocities
	// would keep resting bodies jittering above the sleep thresholds.
	restitutionThreshold = 1.0
)

// contact is a narrowphase result bound to its body pair for the step.
type contact struct {
	a, b   *RigidBody
	result CollisionResult
}

// resolveContactVelocity applies the restitution and friction impulses for
// one contact. Angular response uses the simplified isotropic-inertia model
// (see RigidBody.ApplyImpulseAtPoint).
func resolveContactVelocity(c contact) {
	a, b := c.a, c.b
	invA := a.effectiveInvMass()
	invB := b.effectiveInvMass()
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	normal := c.result.Normal
	point := c.result.PointOnA.Add(c.result.PointOnB).Mul(0.5)

	relVel := b.VelocityAtPoint(point).Sub(a.VelocityAtPoint(point))
	velAlongNormal := relVel.Dot(normal)

	// Only resolve if bodies are moving toward each other.
	if velAlongNormal > 0 {
		return
	}

	matA := a.material()
	matB := b.material()

	e := CombineRestitution(matA, matB)
	if -velAlongNormal < restitutionThreshold {
		e = 0
	}
	j := -(1 + e) * velAlongNormal / invSum
	impulse := normal.Mul(j)

	applyContactImpulse(a, impulse.Mul(-1), point)
	applyContactImpulse(b, impulse, point)

	// Coulomb friction in the tangent plane, clamped to the friction cone.
	relVel = b.VelocityAtPoint(point).Sub(a.VelocityAtPoint(point))
	tangentVel := relVel.Sub(normal.Mul(relVel.Dot(normal)))
	tangentSpeed := tangentVel.Len()
	if tangentSpeed < 1e-6 {
		return
	}
	tangent := tangentVel.Mul(1 / tangentSpeed)

	jt := -tangentSpeed / invSum
	mu := CombineFriction(matA, matB)
	maxFriction := mu * abs32(j)
	jt = mgl32.Clamp(jt, -maxFriction, maxFriction)

	frictionImpulse := tangent.Mul(jt)
	applyContactImpulse(a, frictionImpulse.Mul(-1), point)
	applyContactImpulse(b, frictionImpulse, point)
}

// applyContactImpulse mutates velocity directly without the wake side
// effect of the public impulse API; the world handles waking from contacts
// itself.
func applyContactImpulse(b *RigidBody, impulse, point mgl32.Vec3) {
	inv := b.effectiveInvMass()
	if inv == 0 {
		return
	}
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(inv))
	r := point.Sub(b.Position)
	b.AngularVelocity = b.AngularVelocity.Add(r.Cross(impulse).Mul(inv))
}

// resolveContactPosition removes a fraction of the remaining penetration,
// mass-weighted between the bodies (Baumgarte stabilization).
func resolveContactPosition(c contact) {
	a, b := c.a, c.b
	invA := a.effectiveInvMass()
	invB := b.effectiveInvMass()
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	depth := c.result.Penetration - penetrationSlop
	if depth <= 0 {
		return
	}

	correction := c.result.Normal.Mul(depth * baumgarteFactor / invSum)
	a.Position = a.Position.Sub(correction.Mul(invA))
	b.Position = b.Position.Add(correction.Mul(invB))
}
