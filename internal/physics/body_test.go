package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDynamicSphere(pos mgl32.Vec3, mass float32) *RigidBody {
	return newRigidBody(1, BodyDesc{
		Type:     BodyDynamic,
		Position: pos,
		Mass:     mass,
		Shape:    NewSphereShape(0.5, DefaultMaterial()),
	})
}

func TestBodyDefaults(t *testing.T) {
	b := newRigidBody(1, BodyDesc{Type: BodyDynamic, Mass: 2})

	assert.Equal(t, mgl32.QuatIdent(), b.Rotation)
	assert.Equal(t, float32(1), b.GravityScale)
	assert.Equal(t, uint32(1), b.Layer)
	assert.Equal(t, uint32(0xFFFFFFFF), b.Mask)
	assert.True(t, b.CanSleep)
	assert.Equal(t, float32(0.5), b.InverseMass())
}

func TestStaticBodyIsImmovable(t *testing.T) {
	b := newRigidBody(1, BodyDesc{Type: BodyStatic, Mass: 5})

	assert.Zero(t, b.InverseMass())
	b.ApplyImpulse(mgl32.Vec3{100, 0, 0})
	b.ApplyForce(mgl32.Vec3{100, 0, 0})
	b.integrateVelocity(mgl32.Vec3{0, -9.81, 0}, 1.0/60.0)
	b.integratePosition(1.0 / 60.0)

	assert.Equal(t, mgl32.Vec3{}, b.LinearVelocity)
	assert.Equal(t, mgl32.Vec3{}, b.Position)
}

func TestZeroInverseMassDynamicBodyIgnoresGravity(t *testing.T) {
	// Mass 0 with no shapes leaves a dynamic body with zero inverse mass;
	// it must stay put like a static body.
	b := newRigidBody(1, BodyDesc{Type: BodyDynamic})
	require.Zero(t, b.InverseMass())

	for i := 0; i < 60; i++ {
		b.integrateVelocity(mgl32.Vec3{0, -9.81, 0}, 1.0/60.0)
		b.integratePosition(1.0 / 60.0)
	}

	assert.Equal(t, mgl32.Vec3{}, b.LinearVelocity)
	assert.Equal(t, mgl32.Vec3{}, b.Position)
}

func TestKinematicBodyMovesByVelocity(t *testing.T) {
	b := newRigidBody(1, BodyDesc{Type: BodyKinematic})
	b.LinearVelocity = mgl32.Vec3{1, 0, 0}

	// Gravity must not touch kinematic bodies.
	b.integrateVelocity(mgl32.Vec3{0, -9.81, 0}, 1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, b.LinearVelocity)

	b.integratePosition(1)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, b.Position)
}

func TestApplyImpulseChangesVelocityImmediately(t *testing.T) {
	b := makeDynamicSphere(mgl32.Vec3{}, 2)

	b.ApplyImpulse(mgl32.Vec3{4, 0, 0})
	assert.Equal(t, mgl32.Vec3{2, 0, 0}, b.LinearVelocity)

	// Off-center impulse adds spin.
	b.ApplyImpulseAtPoint(mgl32.Vec3{0, 0, -1}, mgl32.Vec3{1, 0, 0})
	assert.NotEqual(t, mgl32.Vec3{}, b.AngularVelocity)
}

func TestApplyForceAccumulatesUntilIntegration(t *testing.T) {
	b := makeDynamicSphere(mgl32.Vec3{}, 1)

	b.ApplyForce(mgl32.Vec3{10, 0, 0})
	assert.Equal(t, mgl32.Vec3{}, b.LinearVelocity, "force must not apply before integration")

	b.integrateVelocity(mgl32.Vec3{}, 0.5)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, b.LinearVelocity)

	b.clearAccumulators()
	b.integrateVelocity(mgl32.Vec3{}, 0.5)
	assert.Equal(t, mgl32.Vec3{5, 0, 0}, b.LinearVelocity, "cleared force must not re-apply")
}

func TestDampingDecaysAndNeverReverses(t *testing.T) {
	b := makeDynamicSphere(mgl32.Vec3{}, 1)
	b.LinearDamping = 2
	b.LinearVelocity = mgl32.Vec3{10, 0, 0}

	b.integrateVelocity(mgl32.Vec3{}, 0.1)
	assert.InDelta(t, 8, b.LinearVelocity.X(), 1e-4)

	// Huge dt would flip the sign without the clamp.
	b.integrateVelocity(mgl32.Vec3{}, 10)
	assert.GreaterOrEqual(t, b.LinearVelocity.X(), float32(0))
}

func TestVelocityAtPoint(t *testing.T) {
	b := makeDynamicSphere(mgl32.Vec3{}, 1)
	b.AngularVelocity = mgl32.Vec3{0, 0, 1}

	// w x r with r = +X gives +Y.
	v := b.VelocityAtPoint(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, v.X(), 1e-6)
	assert.InDelta(t, 1, v.Y(), 1e-6)
}

func TestSetTypeToStaticZeroesVelocity(t *testing.T) {
	b := makeDynamicSphere(mgl32.Vec3{}, 1)
	b.LinearVelocity = mgl32.Vec3{5, 0, 0}

	b.SetType(BodyStatic)
	assert.Equal(t, mgl32.Vec3{}, b.LinearVelocity)
	assert.Zero(t, b.InverseMass())

	b.SetType(BodyDynamic)
	assert.Equal(t, float32(1), b.InverseMass())
}

func TestStaticOnlyShapeRefusedOnDynamicBody(t *testing.T) {
	b := makeDynamicSphere(mgl32.Vec3{}, 1)
	mesh := NewTriangleMeshShape([]Triangle{
		{A: mgl32.Vec3{0, 0, 0}, B: mgl32.Vec3{1, 0, 0}, C: mgl32.Vec3{0, 0, 1}},
	}, DefaultMaterial())

	before := len(b.Shapes())
	b.AttachShape(mesh, mgl32.Vec3{}, mgl32.QuatIdent())
	assert.Equal(t, before, len(b.Shapes()), "triangle mesh must not attach to a dynamic body")
}

func TestMassFromShapeDensity(t *testing.T) {
	sphere := NewSphereShape(1, Material{Friction: 0.5, Restitution: 0.2, Density: 2})
	b := newRigidBody(1, BodyDesc{Type: BodyDynamic, Shape: sphere})

	require.Greater(t, b.Mass(), float32(0))
	assert.InDelta(t, 2*sphere.Volume(), b.Mass(), 0.01)
}

func TestSleepWakeCycle(t *testing.T) {
	b := makeDynamicSphere(mgl32.Vec3{}, 1)
	b.LinearVelocity = mgl32.Vec3{0.01, 0, 0}

	assert.True(t, b.belowSleepThreshold(DefaultSleepLinearThreshold, DefaultSleepAngularThreshold))

	b.putToSleep()
	assert.True(t, b.IsSleeping())
	assert.Equal(t, mgl32.Vec3{}, b.LinearVelocity)

	// Sleeping bodies ignore integration.
	b.integrateVelocity(mgl32.Vec3{0, -9.81, 0}, 1)
	assert.Equal(t, mgl32.Vec3{}, b.LinearVelocity)

	// Applying a force wakes.
	b.ApplyForce(mgl32.Vec3{1, 0, 0})
	assert.False(t, b.IsSleeping())
}

func TestShouldCollideFiltering(t *testing.T) {
	a := makeDynamicSphere(mgl32.Vec3{}, 1)
	b := makeDynamicSphere(mgl32.Vec3{}, 1)

	assert.True(t, shouldCollide(a, b))

	// Same nonzero group never collides.
	a.Group, b.Group = 7, 7
	assert.False(t, shouldCollide(a, b))
	b.Group = 8
	assert.True(t, shouldCollide(a, b))

	// Layer/mask filtering is symmetric.
	a.Layer, a.Mask = 0b01, 0b10
	b.Layer, b.Mask = 0b10, 0b01
	assert.True(t, shouldCollide(a, b))
	b.Mask = 0b10
	assert.False(t, shouldCollide(a, b))
}

func TestMaterialCombine(t *testing.T) {
	a := Material{Friction: 0.4, Restitution: 0.2}
	b := Material{Friction: 0.9, Restitution: 0.8}

	assert.InDelta(t, 0.5, CombineRestitution(a, b), 1e-6)
	assert.InDelta(t, 0.6, CombineFriction(a, b), 1e-6)
}
