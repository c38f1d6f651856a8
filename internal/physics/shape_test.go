package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphereMassProperties(t *testing.T) {
	s := NewSphereShape(2, Material{Density: 3})
	props := s.MassProperties(3)

	wantMass := float32(3 * 4.0 / 3.0 * math.Pi * 8)
	assert.InDelta(t, wantMass, props.Mass, 0.01)
	assert.Equal(t, mgl32.Vec3{}, props.CenterOfMass)

	// I = 2/5 m r^2 on every axis.
	wantI := 0.4 * wantMass * 4
	assert.InDelta(t, wantI, props.Inertia.At(0, 0), 0.1)
	assert.InDelta(t, wantI, props.Inertia.At(1, 1), 0.1)
	assert.InDelta(t, wantI, props.Inertia.At(2, 2), 0.1)
}

func TestBoxMassProperties(t *testing.T) {
	b := NewBoxShape(mgl32.Vec3{0.5, 1, 1.5}, Material{Density: 2})
	props := b.MassProperties(2)

	wantMass := float32(2 * 1 * 2 * 3)
	assert.InDelta(t, wantMass, props.Mass, 1e-4)

	// Ixx = m/12 (h^2 + d^2) with full extents h=2, d=3.
	assert.InDelta(t, wantMass/12*(4+9), props.Inertia.At(0, 0), 1e-3)
	assert.InDelta(t, wantMass/12*(1+9), props.Inertia.At(1, 1), 1e-3)
	assert.InDelta(t, wantMass/12*(1+4), props.Inertia.At(2, 2), 1e-3)
}

func TestCapsuleVolumeAndBounds(t *testing.T) {
	c := NewCapsuleShape(0.5, 1, DefaultMaterial())

	cyl := float32(math.Pi) * 0.25 * 2
	caps := float32(4.0 / 3.0 * math.Pi * 0.125)
	assert.InDelta(t, cyl+caps, c.Volume(), 1e-4)

	bounds := c.LocalBounds()
	assert.Equal(t, mgl32.Vec3{-0.5, -1.5, -0.5}, bounds.Min)
	assert.Equal(t, mgl32.Vec3{0.5, 1.5, 0.5}, bounds.Max)
	assert.InDelta(t, 1.5, c.BoundingRadius(), 1e-6)
}

func TestCompoundDumbbellInertia(t *testing.T) {
	// Two unit-mass spheres at +/- 2 on X. Parallel axis: about X only the
	// local sphere terms remain; about Y and Z each sphere contributes
	// m*d^2 extra.
	mat := Material{Density: 1}
	sphere := NewSphereShape(0.5, mat)
	density := 1 / sphere.Volume() // unit mass per sphere

	compound := NewCompoundShape([]CompoundChild{
		{Shape: sphere, Offset: mgl32.Vec3{2, 0, 0}, Rotation: mgl32.QuatIdent()},
		{Shape: sphere, Offset: mgl32.Vec3{-2, 0, 0}, Rotation: mgl32.QuatIdent()},
	}, mat)

	props := compound.MassProperties(density)
	require.InDelta(t, 2.0, props.Mass, 1e-3)
	assert.InDelta(t, 0, props.CenterOfMass.Len(), 1e-5)

	sphereI := float64(0.4 * 1 * 0.25)
	assert.InDelta(t, 2*sphereI, props.Inertia.At(0, 0), 1e-3)
	assert.InDelta(t, 2*sphereI+2*4, props.Inertia.At(1, 1), 1e-2)
	assert.InDelta(t, 2*sphereI+2*4, props.Inertia.At(2, 2), 1e-2)
}

func TestCompoundBoundsEncloseChildren(t *testing.T) {
	compound := NewCompoundShape([]CompoundChild{
		{Shape: NewSphereShape(1, DefaultMaterial()), Offset: mgl32.Vec3{3, 0, 0}},
		{Shape: NewBoxShape(mgl32.Vec3{1, 1, 1}, DefaultMaterial()), Offset: mgl32.Vec3{-2, 0, 0}},
	}, DefaultMaterial())

	bounds := compound.LocalBounds()
	assert.LessOrEqual(t, bounds.Min.X(), float32(-3))
	assert.GreaterOrEqual(t, bounds.Max.X(), float32(4))
}

func TestStaticOnlyShapes(t *testing.T) {
	mesh := NewTriangleMeshShape([]Triangle{
		{A: mgl32.Vec3{0, 0, 0}, B: mgl32.Vec3{1, 0, 0}, C: mgl32.Vec3{0, 0, 1}},
	}, DefaultMaterial())
	hf := NewHeightFieldShape(make([]float32, 4), 2, 2, mgl32.Vec3{1, 1, 1}, DefaultMaterial())

	assert.True(t, staticOnly(mesh))
	assert.True(t, staticOnly(hf))
	assert.False(t, staticOnly(NewSphereShape(1, DefaultMaterial())))

	// Static-only shapes weigh nothing.
	assert.Zero(t, mesh.MassProperties(1).Mass)
	assert.Zero(t, hf.MassProperties(1).Mass)
}

func TestHeightFieldSampling(t *testing.T) {
	// 2x2 grid, one corner raised.
	hf := NewHeightFieldShape([]float32{0, 0, 0, 2}, 2, 2, mgl32.Vec3{2, 1, 2}, DefaultMaterial())

	// Grid spans [-1,1] in X and Z.
	assert.InDelta(t, 0, hf.HeightAt(-1, -1), 1e-5)
	assert.InDelta(t, 2, hf.HeightAt(1, 1), 1e-5)
	assert.InDelta(t, 0.5, hf.HeightAt(0, 0), 1e-5)

	// Outside the grid clamps to the border.
	assert.InDelta(t, 2, hf.HeightAt(10, 10), 1e-5)
}

func TestShapeTypeString(t *testing.T) {
	assert.Equal(t, "sphere", ShapeSphere.String())
	assert.Equal(t, "compound", ShapeCompound.String())
}
