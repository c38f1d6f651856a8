package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type ShapeType int

const (
	ShapeSphere ShapeType = iota
	ShapeBox
	ShapeCapsule
	ShapeCylinder
	ShapeConvexHull
	ShapeTriangleMesh
	ShapeHeightField
	ShapeCompound
)

func (t ShapeType) String() string {
	switch t {
	case ShapeSphere:
		return "sphere"
	case ShapeBox:
		return "box"
	case ShapeCapsule:
		return "capsule"
	case ShapeCylinder:
		return "cylinder"
	case ShapeConvexHull:
		return "convex_hull"
	case ShapeTriangleMesh:
		return "triangle_mesh"
	case ShapeHeightField:
		return "height_field"
	case ShapeCompound:
		return "compound"
	}
	return "unknown"
}

// MassProperties is the result of integrating a shape at a given density.
// Inertia is the tensor about the center of mass, in the shape's local frame.
type MassProperties struct {
	Mass         float32
	CenterOfMass mgl32.Vec3
	Inertia      mgl32.Mat3
}

// Shape is an immutable geometric description plus a physics material.
// The implementing set is closed: the eight types above cover every shape
// the engine knows how to collide, sweep and weigh. Shapes are freely
// shared between bodies.
type Shape interface {
	Type() ShapeType
	Material() Material

	// Volume returns the enclosed volume. Static-only shapes report 0.
	Volume() float32
	// LocalBounds returns the AABB in the shape's local frame.
	LocalBounds() AABB
	// BoundingRadius returns the radius of the smallest origin-centered
	// sphere enclosing the shape.
	BoundingRadius() float32
	// MassProperties computes mass, center of mass and inertia tensor for
	// the given density. Deterministic: repeated calls yield identical
	// results. Static-only shapes report zero mass.
	MassProperties(density float32) MassProperties
}

// staticOnly reports whether a shape may only be attached to static bodies.
func staticOnly(s Shape) bool {
	t := s.Type()
	return t == ShapeTriangleMesh || t == ShapeHeightField
}

func diagMat3(x, y, z float32) mgl32.Mat3 {
	return mgl32.Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, z,
	}
}

// SphereShape is a sphere of the given radius centered at the local origin.
type SphereShape struct {
	Radius float32
	mat    Material
}

func NewSphereShape(radius float32, mat Material) *SphereShape {
	return &SphereShape{Radius: radius, mat: mat}
}

func (s *SphereShape) Type() ShapeType    { return ShapeSphere }
func (s *SphereShape) Material() Material { return s.mat }

func (s *SphereShape) Volume() float32 {
	return (4.0 / 3.0) * math32.Pi * s.Radius * s.Radius * s.Radius
}

func (s *SphereShape) LocalBounds() AABB {
	r := mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: r.Mul(-1), Max: r}
}

func (s *SphereShape) BoundingRadius() float32 { return s.Radius }

func (s *SphereShape) MassProperties(density float32) MassProperties {
	m := density * s.Volume()
	i := 0.4 * m * s.Radius * s.Radius
	return MassProperties{Mass: m, Inertia: diagMat3(i, i, i)}
}

// BoxShape is an axis-aligned box (in local space) given by half extents.
type BoxShape struct {
	HalfExtents mgl32.Vec3
	mat         Material
}

func NewBoxShape(halfExtents mgl32.Vec3, mat Material) *BoxShape {
	return &BoxShape{HalfExtents: halfExtents, mat: mat}
}

func (b *BoxShape) Type() ShapeType    { return ShapeBox }
func (b *BoxShape) Material() Material { return b.mat }

func (b *BoxShape) Volume() float32 {
	return 8 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()
}

func (b *BoxShape) LocalBounds() AABB {
	return AABB{Min: b.HalfExtents.Mul(-1), Max: b.HalfExtents}
}

func (b *BoxShape) BoundingRadius() float32 { return b.HalfExtents.Len() }

func (b *BoxShape) MassProperties(density float32) MassProperties {
	m := density * b.Volume()
	ex := 2 * b.HalfExtents.X()
	ey := 2 * b.HalfExtents.Y()
	ez := 2 * b.HalfExtents.Z()
	c := m / 12
	return MassProperties{
		Mass:    m,
		Inertia: diagMat3(c*(ey*ey+ez*ez), c*(ex*ex+ez*ez), c*(ex*ex+ey*ey)),
	}
}

// CapsuleShape is a cylinder of half-height HalfHeight along local Y with
// hemispherical caps of the given radius.
type CapsuleShape struct {
	Radius     float32
	HalfHeight float32 // half-height of the cylindrical section, excluding caps
	mat        Material
}

func NewCapsuleShape(radius, halfHeight float32, mat Material) *CapsuleShape {
	return &CapsuleShape{Radius: radius, HalfHeight: halfHeight, mat: mat}
}

func (c *CapsuleShape) Type() ShapeType    { return ShapeCapsule }
func (c *CapsuleShape) Material() Material { return c.mat }

func (c *CapsuleShape) Volume() float32 {
	cyl := math32.Pi * c.Radius * c.Radius * (2 * c.HalfHeight)
	caps := (4.0 / 3.0) * math32.Pi * c.Radius * c.Radius * c.Radius
	return cyl + caps
}

func (c *CapsuleShape) LocalBounds() AABB {
	e := mgl32.Vec3{c.Radius, c.HalfHeight + c.Radius, c.Radius}
	return AABB{Min: e.Mul(-1), Max: e}
}

func (c *CapsuleShape) BoundingRadius() float32 { return c.HalfHeight + c.Radius }

// segment returns the capsule's core segment endpoints in world space.
func (c *CapsuleShape) segment(pos mgl32.Vec3, rot mgl32.Quat) (mgl32.Vec3, mgl32.Vec3) {
	up := rot.Rotate(mgl32.Vec3{0, c.HalfHeight, 0})
	return pos.Sub(up), pos.Add(up)
}

func (c *CapsuleShape) MassProperties(density float32) MassProperties {
	r := c.Radius
	h := 2 * c.HalfHeight
	mCyl := density * math32.Pi * r * r * h
	mCaps := density * (4.0 / 3.0) * math32.Pi * r * r * r
	m := mCyl + mCaps

	// Cylinder about its COM plus two hemispheres shifted to the ends
	// (parallel-axis terms folded into the standard closed form).
	iy := mCyl*r*r/2 + mCaps*0.4*r*r
	ix := mCyl*(h*h/12+r*r/4) + mCaps*(0.4*r*r+h*h/4+0.375*h*r)
	return MassProperties{Mass: m, Inertia: diagMat3(ix, iy, ix)}
}

// CylinderShape is a solid cylinder along local Y.
type CylinderShape struct {
	Radius     float32
	HalfHeight float32
	mat        Material
}

func NewCylinderShape(radius, halfHeight float32, mat Material) *CylinderShape {
	return &CylinderShape{Radius: radius, HalfHeight: halfHeight, mat: mat}
}

func (c *CylinderShape) Type() ShapeType    { return ShapeCylinder }
func (c *CylinderShape) Material() Material { return c.mat }

func (c *CylinderShape) Volume() float32 {
	return math32.Pi * c.Radius * c.Radius * (2 * c.HalfHeight)
}

func (c *CylinderShape) LocalBounds() AABB {
	e := mgl32.Vec3{c.Radius, c.HalfHeight, c.Radius}
	return AABB{Min: e.Mul(-1), Max: e}
}

func (c *CylinderShape) BoundingRadius() float32 {
	return math32.Sqrt(c.Radius*c.Radius + c.HalfHeight*c.HalfHeight)
}

func (c *CylinderShape) MassProperties(density float32) MassProperties {
	m := density * c.Volume()
	r := c.Radius
	h := 2 * c.HalfHeight
	ix := m * (3*r*r + h*h) / 12
	iy := m * r * r / 2
	return MassProperties{Mass: m, Inertia: diagMat3(ix, iy, ix)}
}
