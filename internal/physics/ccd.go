package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Continuous collision detection. Fast-moving bodies are swept as bounding
// spheres between their previous and integrated positions; a hit clamps the
// body to the time of impact so it cannot tunnel through thin geometry.

const (
	// toiSlop keeps swept bodies a hair apart at the time of impact so the
	// discrete solver still sees a contact next step.
	toiSlop = 0.001

	// ccd bisection depth; 2^-20 of a substep is far below any slop.
	toiIterations = 20
)

// SweepResult reports the outcome of a swept test.
type SweepResult struct {
	Hit    bool
	TOI    float32 // fraction of the motion, in [0, 1]
	Point  mgl32.Vec3
	Normal mgl32.Vec3 // pushes the swept body away from the obstacle
	Body   *RigidBody
}

// TimeOfImpactSpheres finds the first time in [0, 1] at which two moving
// spheres come within toiSlop of touching. Both sweeps are linear. Returns
// false when the spheres never come that close.
func TimeOfImpactSpheres(fromA, toA mgl32.Vec3, radiusA float32, fromB, toB mgl32.Vec3, radiusB float32) (float32, bool) {
	rel0 := fromA.Sub(fromB)
	relMove := toA.Sub(fromA).Sub(toB.Sub(fromB))
	target := radiusA + radiusB + toiSlop

	dist := func(t float32) float32 {
		return rel0.Add(relMove.Mul(t)).Len() - target
	}

	if dist(0) <= 0 {
		return 0, true
	}

	// Closest approach along the relative motion brackets the root.
	moveSq := relMove.LenSqr()
	if moveSq < 1e-12 {
		return 0, false
	}
	tMin := mgl32.Clamp(-rel0.Dot(relMove)/moveSq, 0, 1)
	if dist(tMin) > 0 {
		return 0, false
	}

	// Bisect on [0, tMin]: dist is positive at 0 and non-positive at tMin.
	lo, hi := float32(0), tMin
	for i := 0; i < toiIterations; i++ {
		mid := (lo + hi) / 2
		if dist(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi, true
}

// sweepBody sweeps a's bounding sphere from its previous position to its
// current one against b's actual shapes. b's motion over the same interval
// folds into the sweep as relative displacement, with b's shapes held at
// their start-of-interval pose. Casting against the real shapes keeps large
// but distant geometry from registering phantom impacts the way a
// bounding-sphere obstacle test would.
func sweepBody(a *RigidBody, fromA mgl32.Vec3, b *RigidBody, fromB mgl32.Vec3) (SweepResult, bool) {
	rel := a.Position.Sub(fromA).Sub(b.Position.Sub(fromB))
	dist := rel.Len()
	if dist < 1e-6 {
		return SweepResult{}, false
	}
	dir := rel.Mul(1 / dist)
	radius := a.boundingRadius()
	offset := fromB.Sub(b.Position)

	var best RaycastHit
	found := false
	maxDist := dist
	for _, ps := range worldShapes(b) {
		ps.pos = ps.pos.Add(offset)
		if t, n, ok := sphereCastShape(fromA, dir, radius, ps, maxDist); ok && (!found || t < best.Distance) {
			best = RaycastHit{
				Point:    fromA.Add(dir.Mul(t)),
				Normal:   n,
				Distance: t,
			}
			found = true
			maxDist = t
		}
	}
	if !found {
		return SweepResult{}, false
	}

	return SweepResult{
		Hit:    true,
		TOI:    math32.Max(0, best.Distance-toiSlop) / dist,
		Point:  best.Point.Sub(best.Normal.Mul(radius)),
		Normal: best.Normal,
		Body:   b,
	}, true
}

// needsCCD reports whether a body moved far enough this substep that the
// discrete narrowphase could miss a collision entirely. motionThreshold is
// the configured fraction of the bounding radius.
func needsCCD(b *RigidBody, from mgl32.Vec3, motionThreshold float32) bool {
	if b.bodyType != BodyDynamic || b.sleeping {
		return false
	}
	moved := b.Position.Sub(from).Len()
	return moved > b.boundingRadius()*motionThreshold
}
