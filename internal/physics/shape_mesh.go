package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ConvexHullShape is a convex point cloud. Collision and mass treatment are
// estimates based on the hull's bounding box; the vertex set itself is used
// for bounds and sweeps.
type ConvexHullShape struct {
	Vertices []mgl32.Vec3
	mat      Material
	bounds   AABB
	centroid mgl32.Vec3
}

func NewConvexHullShape(vertices []mgl32.Vec3, mat Material) *ConvexHullShape {
	h := &ConvexHullShape{
		Vertices: append([]mgl32.Vec3(nil), vertices...),
		mat:      mat,
	}
	if len(h.Vertices) > 0 {
		h.bounds = NewAABBFromPoints(h.Vertices...)
		var sum mgl32.Vec3
		for _, v := range h.Vertices {
			sum = sum.Add(v)
		}
		h.centroid = sum.Mul(1 / float32(len(h.Vertices)))
	}
	return h
}

func (h *ConvexHullShape) Type() ShapeType    { return ShapeConvexHull }
func (h *ConvexHullShape) Material() Material { return h.mat }

// Volume estimates the hull volume as its bounding-box volume.
func (h *ConvexHullShape) Volume() float32 {
	e := h.bounds.Max.Sub(h.bounds.Min)
	return e.X() * e.Y() * e.Z()
}

func (h *ConvexHullShape) LocalBounds() AABB { return h.bounds }

func (h *ConvexHullShape) BoundingRadius() float32 {
	var r float32
	for _, v := range h.Vertices {
		if l := v.Len(); l > r {
			r = l
		}
	}
	return r
}

func (h *ConvexHullShape) MassProperties(density float32) MassProperties {
	m := density * h.Volume()
	e := h.bounds.Max.Sub(h.bounds.Min)
	c := m / 12
	return MassProperties{
		Mass:         m,
		CenterOfMass: h.centroid,
		Inertia: diagMat3(
			c*(e.Y()*e.Y()+e.Z()*e.Z()),
			c*(e.X()*e.X()+e.Z()*e.Z()),
			c*(e.X()*e.X()+e.Y()*e.Y()),
		),
	}
}

type Triangle struct {
	A, B, C mgl32.Vec3
}

func (t Triangle) Normal() mgl32.Vec3 {
	return safeNormalize(t.B.Sub(t.A).Cross(t.C.Sub(t.A)), mgl32.Vec3{0, 1, 0})
}

// TriangleMeshShape is arbitrary static geometry. It only participates in
// queries and sweeps; it cannot be attached to a dynamic body.
type TriangleMeshShape struct {
	Triangles []Triangle
	mat       Material
	bounds    AABB
}

func NewTriangleMeshShape(triangles []Triangle, mat Material) *TriangleMeshShape {
	m := &TriangleMeshShape{
		Triangles: append([]Triangle(nil), triangles...),
		mat:       mat,
	}
	if len(m.Triangles) > 0 {
		m.bounds = NewAABBFromPoints(m.Triangles[0].A, m.Triangles[0].B, m.Triangles[0].C)
		for _, t := range m.Triangles[1:] {
			m.bounds = m.bounds.ExtendPoint(t.A).ExtendPoint(t.B).ExtendPoint(t.C)
		}
	}
	return m
}

func (m *TriangleMeshShape) Type() ShapeType    { return ShapeTriangleMesh }
func (m *TriangleMeshShape) Material() Material { return m.mat }
func (m *TriangleMeshShape) Volume() float32    { return 0 }
func (m *TriangleMeshShape) LocalBounds() AABB  { return m.bounds }

func (m *TriangleMeshShape) BoundingRadius() float32 {
	var r float32
	for _, t := range m.Triangles {
		for _, v := range [3]mgl32.Vec3{t.A, t.B, t.C} {
			if l := v.Len(); l > r {
				r = l
			}
		}
	}
	return r
}

// MassProperties: triangle meshes are static-only and weigh nothing.
func (m *TriangleMeshShape) MassProperties(float32) MassProperties {
	return MassProperties{}
}

// HeightFieldShape is a regular grid of heights, static-only. The grid is
// centered on the local origin in XZ; Scale maps grid units to world units
// (X spacing, Y height multiplier, Z spacing).
type HeightFieldShape struct {
	Heights []float32 // row-major, Rows*Cols samples
	Rows    int       // samples along Z
	Cols    int       // samples along X
	Scale   mgl32.Vec3
	mat     Material
	minH    float32
	maxH    float32
}

func NewHeightFieldShape(heights []float32, rows, cols int, scale mgl32.Vec3, mat Material) *HeightFieldShape {
	h := &HeightFieldShape{
		Heights: append([]float32(nil), heights...),
		Rows:    rows,
		Cols:    cols,
		Scale:   scale,
		mat:     mat,
	}
	if len(h.Heights) > 0 {
		h.minH, h.maxH = h.Heights[0], h.Heights[0]
		for _, v := range h.Heights[1:] {
			h.minH = math32.Min(h.minH, v)
			h.maxH = math32.Max(h.maxH, v)
		}
	}
	return h
}

func (h *HeightFieldShape) Type() ShapeType    { return ShapeHeightField }
func (h *HeightFieldShape) Material() Material { return h.mat }
func (h *HeightFieldShape) Volume() float32    { return 0 }

func (h *HeightFieldShape) LocalBounds() AABB {
	halfW := float32(h.Cols-1) * h.Scale.X() / 2
	halfD := float32(h.Rows-1) * h.Scale.Z() / 2
	return AABB{
		Min: mgl32.Vec3{-halfW, h.minH * h.Scale.Y(), -halfD},
		Max: mgl32.Vec3{halfW, h.maxH * h.Scale.Y(), halfD},
	}
}

func (h *HeightFieldShape) BoundingRadius() float32 {
	b := h.LocalBounds()
	return math32.Max(b.Min.Len(), b.Max.Len())
}

// MassProperties: height fields are static-only and weigh nothing.
func (h *HeightFieldShape) MassProperties(float32) MassProperties {
	return MassProperties{}
}

// HeightAt bilinearly samples the field at local coordinates (x, z).
// Points outside the grid clamp to the border.
func (h *HeightFieldShape) HeightAt(x, z float32) float32 {
	if h.Rows < 2 || h.Cols < 2 {
		return 0
	}
	halfW := float32(h.Cols-1) * h.Scale.X() / 2
	halfD := float32(h.Rows-1) * h.Scale.Z() / 2
	gx := mgl32.Clamp((x+halfW)/h.Scale.X(), 0, float32(h.Cols-1))
	gz := mgl32.Clamp((z+halfD)/h.Scale.Z(), 0, float32(h.Rows-1))

	x0 := int(gx)
	z0 := int(gz)
	x1 := x0 + 1
	z1 := z0 + 1
	if x1 > h.Cols-1 {
		x1 = h.Cols - 1
	}
	if z1 > h.Rows-1 {
		z1 = h.Rows - 1
	}
	fx := gx - float32(x0)
	fz := gz - float32(z0)

	h00 := h.Heights[z0*h.Cols+x0]
	h10 := h.Heights[z0*h.Cols+x1]
	h01 := h.Heights[z1*h.Cols+x0]
	h11 := h.Heights[z1*h.Cols+x1]

	top := h00 + (h10-h00)*fx
	bot := h01 + (h11-h01)*fx
	return (top + (bot-top)*fz) * h.Scale.Y()
}
