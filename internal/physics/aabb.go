package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size mgl32.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// NewAABBFromPoints creates the smallest AABB containing all given points.
func NewAABBFromPoints(points ...mgl32.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.ExtendPoint(p)
	}
	return box
}

func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) HalfExtents() mgl32.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

func (a AABB) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() >= a.Min.X() && p.X() <= a.Max.X() &&
		p.Y() >= a.Min.Y() && p.Y() <= a.Max.Y() &&
		p.Z() >= a.Min.Z() && p.Z() <= a.Max.Z()
}

// Union returns the smallest AABB containing both a and b.
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: mgl32.Vec3{
			math32.Min(a.Min.X(), b.Min.X()),
			math32.Min(a.Min.Y(), b.Min.Y()),
			math32.Min(a.Min.Z(), b.Min.Z()),
		},
		Max: mgl32.Vec3{
			math32.Max(a.Max.X(), b.Max.X()),
			math32.Max(a.Max.Y(), b.Max.Y()),
			math32.Max(a.Max.Z(), b.Max.Z()),
		},
	}
}

// ExtendPoint grows the AABB to include point p.
func (a AABB) ExtendPoint(p mgl32.Vec3) AABB {
	return AABB{
		Min: mgl32.Vec3{
			math32.Min(a.Min.X(), p.X()),
			math32.Min(a.Min.Y(), p.Y()),
			math32.Min(a.Min.Z(), p.Z()),
		},
		Max: mgl32.Vec3{
			math32.Max(a.Max.X(), p.X()),
			math32.Max(a.Max.Y(), p.Y()),
			math32.Max(a.Max.Z(), p.Z()),
		},
	}
}

// Inflate grows the AABB uniformly by r on all sides.
func (a AABB) Inflate(r float32) AABB {
	d := mgl32.Vec3{r, r, r}
	return AABB{Min: a.Min.Sub(d), Max: a.Max.Add(d)}
}

func (a AABB) Translate(v mgl32.Vec3) AABB {
	return AABB{Min: a.Min.Add(v), Max: a.Max.Add(v)}
}

// Transformed returns the world-space AABB of this local box under the given
// position and rotation. The result is conservative: the eight rotated
// corners are re-boxed.
func (a AABB) Transformed(pos mgl32.Vec3, rot mgl32.Quat) AABB {
	corners := [8]mgl32.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}
	first := rot.Rotate(corners[0]).Add(pos)
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		out = out.ExtendPoint(rot.Rotate(c).Add(pos))
	}
	return out
}

// Resolve returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap.
func (a AABB) Resolve(b AABB) mgl32.Vec3 {
	if !a.Intersects(b) {
		return mgl32.Vec3{}
	}

	// Penetration depth in each direction
	dx1 := b.Max.X() - a.Min.X() // push a in +X
	dx2 := a.Max.X() - b.Min.X() // push a in -X
	dy1 := b.Max.Y() - a.Min.Y() // push a in +Y
	dy2 := a.Max.Y() - b.Min.Y() // push a in -Y
	dz1 := b.Max.Z() - a.Min.Z() // push a in +Z
	dz2 := a.Max.Z() - b.Min.Z() // push a in -Z

	// The axis of minimum penetration is the push-out direction.
	min := dx1
	result := mgl32.Vec3{dx1, 0, 0}

	if dx2 < min {
		min = dx2
		result = mgl32.Vec3{-dx2, 0, 0}
	}
	if dy1 < min {
		min = dy1
		result = mgl32.Vec3{0, dy1, 0}
	}
	if dy2 < min {
		min = dy2
		result = mgl32.Vec3{0, -dy2, 0}
	}
	if dz1 < min {
		min = dz1
		result = mgl32.Vec3{0, 0, dz1}
	}
	if dz2 < min {
		result = mgl32.Vec3{0, 0, -dz2}
	}

	return result
}
