package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RaycastHit describes the closest intersection found by a scene query.
type RaycastHit struct {
	Body     *RigidBody
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
}

// raySphere intersects a ray with a sphere. dir must be normalized. A ray
// starting inside reports distance 0.
func raySphere(origin, dir, center mgl32.Vec3, radius, maxDist float32) (float32, bool) {
	oc := origin.Sub(center)
	c := oc.LenSqr() - radius*radius
	if c <= 0 {
		return 0, true
	}
	b := oc.Dot(dir)
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math32.Sqrt(disc)
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

// rayBox intersects a ray with an oriented box via slab tests in the box's
// local frame. Returns the hit distance and world-space normal.
func rayBox(origin, dir mgl32.Vec3, pos mgl32.Vec3, rot mgl32.Quat, half mgl32.Vec3, maxDist float32) (float32, mgl32.Vec3, bool) {
	inv := rot.Conjugate()
	o := inv.Rotate(origin.Sub(pos))
	d := inv.Rotate(dir)

	tEnter := float32(0)
	tExit := maxDist
	enterAxis := -1
	enterSign := float32(1)

	for i := 0; i < 3; i++ {
		if math32.Abs(d[i]) < 1e-9 {
			if o[i] < -half[i] || o[i] > half[i] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		sign := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}
		if t1 > tEnter {
			tEnter = t1
			enterAxis = i
			enterSign = sign
		}
		tExit = math32.Min(tExit, t2)
		if tEnter > tExit {
			return 0, mgl32.Vec3{}, false
		}
	}

	if enterAxis < 0 {
		// Started inside the box.
		return 0, dir.Mul(-1), true
	}
	var local mgl32.Vec3
	local[enterAxis] = enterSign
	return tEnter, rot.Rotate(local), true
}

// rayCapsule intersects a ray with a capsule given its axis segment. Checks
// the infinite cylinder around the segment, then the two end caps.
func rayCapsule(origin, dir, segA, segB mgl32.Vec3, radius, maxDist float32) (float32, bool) {
	best := maxDist
	hit := false

	axis := segB.Sub(segA)
	axisLenSq := axis.LenSqr()
	if axisLenSq > 1e-12 {
		// Quadratic for the infinite cylinder: components perpendicular
		// to the axis.
		oc := origin.Sub(segA)
		dPerp := dir.Sub(axis.Mul(dir.Dot(axis) / axisLenSq))
		oPerp := oc.Sub(axis.Mul(oc.Dot(axis) / axisLenSq))

		a := dPerp.LenSqr()
		if a > 1e-12 {
			b := oPerp.Dot(dPerp)
			c := oPerp.LenSqr() - radius*radius
			disc := b*b - a*c
			if disc >= 0 {
				t := (-b - math32.Sqrt(disc)) / a
				if t >= 0 && t < best {
					// Accept only if the hit lies within the segment span.
					s := origin.Add(dir.Mul(t)).Sub(segA).Dot(axis) / axisLenSq
					if s >= 0 && s <= 1 {
						best = t
						hit = true
					}
				}
			}
		}
	}

	for _, end := range [2]mgl32.Vec3{segA, segB} {
		if t, ok := raySphere(origin, dir, end, radius, best); ok && t < best {
			best = t
			hit = true
		}
	}
	if !hit {
		return 0, false
	}
	return best, true
}

// rayTriangle intersects a ray with a triangle (Moller-Trumbore). Hits on
// either side count.
func rayTriangle(origin, dir mgl32.Vec3, tri Triangle, maxDist float32) (float32, bool) {
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < 1e-9 {
		return 0, false
	}
	invDet := 1 / det
	s := origin.Sub(tri.A)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * invDet
	if t < 0 || t > maxDist {
		return 0, false
	}
	return t, true
}

// rayHeightField marches along the ray sampling the field, then bisects the
// first crossing. Coordinates are local to the field.
func rayHeightField(origin, dir mgl32.Vec3, hf *HeightFieldShape, maxDist float32) (float32, mgl32.Vec3, bool) {
	bounds := hf.LocalBounds().Inflate(toiSlop)
	step := math32.Min(hf.Scale.X(), hf.Scale.Z()) / 2
	if step <= 0 {
		return 0, mgl32.Vec3{}, false
	}

	above := func(t float32) bool {
		p := origin.Add(dir.Mul(t))
		return p.Y() > hf.HeightAt(p.X(), p.Z())
	}

	prev := float32(0)
	wasAbove := above(0)
	if !wasAbove {
		return 0, mgl32.Vec3{0, 1, 0}, true
	}
	for t := step; t <= maxDist+step; t += step {
		tc := math32.Min(t, maxDist)
		p := origin.Add(dir.Mul(tc))
		if !bounds.ContainsPoint(p) && !bounds.ContainsPoint(origin.Add(dir.Mul(prev))) {
			prev = tc
			continue
		}
		if !above(tc) {
			lo, hi := prev, tc
			for i := 0; i < 16; i++ {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			hp := origin.Add(dir.Mul(hi))
			return hi, heightFieldNormal(hf, hp.X(), hp.Z()), true
		}
		prev = tc
		if tc >= maxDist {
			break
		}
	}
	return 0, mgl32.Vec3{}, false
}

// heightFieldNormal estimates the surface normal by central differences.
func heightFieldNormal(hf *HeightFieldShape, x, z float32) mgl32.Vec3 {
	dx := hf.Scale.X()
	dz := hf.Scale.Z()
	sx := (hf.HeightAt(x+dx, z) - hf.HeightAt(x-dx, z)) / (2 * dx)
	sz := (hf.HeightAt(x, z+dz) - hf.HeightAt(x, z-dz)) / (2 * dz)
	return safeNormalize(mgl32.Vec3{-sx, 1, -sz}, mgl32.Vec3{0, 1, 0})
}

// rayShape intersects a ray with one posed leaf shape. Compound shapes are
// expanded by the caller.
func rayShape(origin, dir mgl32.Vec3, ps posedShape, maxDist float32) (float32, mgl32.Vec3, bool) {
	switch s := ps.shape.(type) {
	case *SphereShape:
		if t, ok := raySphere(origin, dir, ps.pos, s.Radius, maxDist); ok {
			point := origin.Add(dir.Mul(t))
			return t, safeNormalize(point.Sub(ps.pos), dir.Mul(-1)), true
		}
	case *BoxShape:
		return rayBox(origin, dir, ps.pos, ps.rot, s.HalfExtents, maxDist)
	case *CapsuleShape:
		segA, segB := s.segment(ps.pos, ps.rot)
		if t, ok := rayCapsule(origin, dir, segA, segB, s.Radius, maxDist); ok {
			point := origin.Add(dir.Mul(t))
			closest := closestPointOnSegment(point, segA, segB)
			return t, safeNormalize(point.Sub(closest), dir.Mul(-1)), true
		}
	case *CylinderShape:
		// Approximated as a capsule of matching radius.
		up := ps.rot.Rotate(mgl32.Vec3{0, 1, 0}).Mul(s.HalfHeight)
		segA, segB := ps.pos.Sub(up), ps.pos.Add(up)
		if t, ok := rayCapsule(origin, dir, segA, segB, s.Radius, maxDist); ok {
			point := origin.Add(dir.Mul(t))
			closest := closestPointOnSegment(point, segA, segB)
			return t, safeNormalize(point.Sub(closest), dir.Mul(-1)), true
		}
	case *ConvexHullShape:
		// Hulls fall back to their oriented bounding box.
		b := s.LocalBounds()
		center := ps.pos.Add(ps.rot.Rotate(b.Center()))
		return rayBox(origin, dir, center, ps.rot, b.HalfExtents(), maxDist)
	case *TriangleMeshShape:
		inv := ps.rot.Conjugate()
		lo := inv.Rotate(origin.Sub(ps.pos))
		ld := inv.Rotate(dir)
		best := maxDist
		var bestTri Triangle
		hit := false
		for _, tri := range s.Triangles {
			if t, ok := rayTriangle(lo, ld, tri, best); ok && t < best {
				best = t
				bestTri = tri
				hit = true
			}
		}
		if hit {
			n := ps.rot.Rotate(bestTri.Normal())
			if n.Dot(dir) > 0 {
				n = n.Mul(-1)
			}
			return best, n, true
		}
	case *HeightFieldShape:
		inv := ps.rot.Conjugate()
		lo := inv.Rotate(origin.Sub(ps.pos))
		ld := inv.Rotate(dir)
		if t, n, ok := rayHeightField(lo, ld, s, maxDist); ok {
			return t, ps.rot.Rotate(n), true
		}
	}
	return 0, mgl32.Vec3{}, false
}

// rayBody finds the closest intersection over all of a body's leaf shapes.
func rayBody(b *RigidBody, origin, dir mgl32.Vec3, maxDist float32) (RaycastHit, bool) {
	best := RaycastHit{Distance: maxDist}
	hit := false
	for _, ps := range worldShapes(b) {
		if t, n, ok := rayShape(origin, dir, ps, best.Distance); ok && (!hit || t < best.Distance) {
			best = RaycastHit{
				Body:     b,
				Point:    origin.Add(dir.Mul(t)),
				Normal:   n,
				Distance: t,
			}
			hit = true
		}
	}
	return best, hit
}
