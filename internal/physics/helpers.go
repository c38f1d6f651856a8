package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// closestPointOnSegment returns the point on segment [a,b] closest to p.
func closestPointOnSegment(p, a, b mgl32.Vec3) mgl32.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < 1e-9 {
		return a
	}
	t := mgl32.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Mul(t))
}

// closestPointsBetweenSegments returns the closest points on segments
// [p1,q1] and [p2,q2]. Degenerate and near-parallel segments fall back to
// endpoint clamping.
func closestPointsBetweenSegments(p1, q1, p2, q2 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)

	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float32

	const eps = 1e-9

	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = mgl32.Clamp(f/e, 0, 1)
	case e <= eps:
		c := d1.Dot(r)
		s = mgl32.Clamp(-c/a, 0, 1)
	default:
		c := d1.Dot(r)
		b := d1.Dot(d2)
		denom := a*e - b*b
		if denom > eps {
			s = mgl32.Clamp((b*f-c*e)/denom, 0, 1)
		}
		t = (b*s + f) / e
		if t < 0 {
			t = 0
			s = mgl32.Clamp(-c/a, 0, 1)
		} else if t > 1 {
			t = 1
			s = mgl32.Clamp((b-c)/a, 0, 1)
		}
	}

	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

// estimateContactPoint estimates the contact point on an object's surface
// given its center, half extents and the push direction.
func estimateContactPoint(center, halfSize, pushDir mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{
		center.X() - pushDir.X()*halfSize.X(),
		center.Y() - pushDir.Y()*halfSize.Y(),
		center.Z() - pushDir.Z()*halfSize.Z(),
	}
}

// safeNormalize normalizes v, substituting fallback for near-zero vectors.
func safeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-6 {
		return fallback
	}
	return v.Mul(1 / l)
}

// anyPerpendicular returns a unit vector perpendicular to n.
func anyPerpendicular(n mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(n.X()) < 0.9 {
		return safeNormalize(n.Cross(mgl32.Vec3{1, 0, 0}), mgl32.Vec3{0, 1, 0})
	}
	return safeNormalize(n.Cross(mgl32.Vec3{0, 1, 0}), mgl32.Vec3{1, 0, 0})
}

// isFiniteVec reports whether all components are finite numbers.
func isFiniteVec(v mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math32.IsNaN(v[i]) || math32.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}
