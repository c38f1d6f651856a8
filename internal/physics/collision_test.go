package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyWithShape(id BodyID, t BodyType, pos mgl32.Vec3, s Shape) *RigidBody {
	return newRigidBody(id, BodyDesc{Type: t, Position: pos, Mass: 1, Shape: s})
}

func TestSphereSphereContact(t *testing.T) {
	a := bodyWithShape(1, BodyDynamic, mgl32.Vec3{0, 0, 0}, NewSphereShape(1, DefaultMaterial()))
	b := bodyWithShape(2, BodyDynamic, mgl32.Vec3{1.5, 0, 0}, NewSphereShape(1, DefaultMaterial()))

	res, ok := collideBodies(a, b)
	require.True(t, ok)

	// Normal points from A to B.
	assert.InDelta(t, 1, res.Normal.X(), 1e-5)
	assert.InDelta(t, 0.5, res.Penetration, 1e-5)
	assert.InDelta(t, 1, res.PointOnA.X(), 1e-5)
	assert.InDelta(t, 0.5, res.PointOnB.X(), 1e-5)
}

func TestSphereSphereSeparated(t *testing.T) {
	a := bodyWithShape(1, BodyDynamic, mgl32.Vec3{0, 0, 0}, NewSphereShape(1, DefaultMaterial()))
	b := bodyWithShape(2, BodyDynamic, mgl32.Vec3{3, 0, 0}, NewSphereShape(1, DefaultMaterial()))

	_, ok := collideBodies(a, b)
	assert.False(t, ok)
}

func TestSphereBoxContact(t *testing.T) {
	box := bodyWithShape(1, BodyStatic, mgl32.Vec3{}, NewBoxShape(mgl32.Vec3{1, 1, 1}, DefaultMaterial()))
	sphere := bodyWithShape(2, BodyDynamic, mgl32.Vec3{0, 1.5, 0}, NewSphereShape(1, DefaultMaterial()))

	res, ok := collideBodies(sphere, box)
	require.True(t, ok)

	// Sphere sits above the box, so the normal (A to B) points down.
	assert.InDelta(t, -1, res.Normal.Y(), 1e-5)
	assert.InDelta(t, 0.5, res.Penetration, 1e-5)
}

func TestSphereInsideBoxResolvesToNearestFace(t *testing.T) {
	box := bodyWithShape(1, BodyStatic, mgl32.Vec3{}, NewBoxShape(mgl32.Vec3{2, 1, 2}, DefaultMaterial()))
	sphere := bodyWithShape(2, BodyDynamic, mgl32.Vec3{0, 0.5, 0}, NewSphereShape(0.1, DefaultMaterial()))

	res, ok := collideBodies(box, sphere)
	require.True(t, ok)
	// Nearest face is +Y; normal from box toward the sphere's exit.
	assert.InDelta(t, 1, res.Normal.Y(), 1e-5)
	assert.Greater(t, res.Penetration, float32(0))
}

func TestCapsuleCapsuleCrossedContact(t *testing.T) {
	capA := bodyWithShape(1, BodyDynamic, mgl32.Vec3{}, NewCapsuleShape(0.5, 1, DefaultMaterial()))
	// Second capsule rotated onto the X axis, crossing slightly above A.
	rot := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	capB := newRigidBody(2, BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 1.8, 0},
		Rotation: rot,
		Mass:     1,
		Shape:    NewCapsuleShape(0.5, 1, DefaultMaterial()),
	})

	res, ok := collideBodies(capA, capB)
	require.True(t, ok)
	assert.InDelta(t, 1, res.Normal.Y(), 1e-4)
	assert.Greater(t, res.Penetration, float32(0))
}

func TestSphereCapsuleContact(t *testing.T) {
	capsule := bodyWithShape(1, BodyStatic, mgl32.Vec3{}, NewCapsuleShape(0.5, 1, DefaultMaterial()))
	sphere := bodyWithShape(2, BodyDynamic, mgl32.Vec3{0.8, 0.5, 0}, NewSphereShape(0.5, DefaultMaterial()))

	res, ok := collideBodies(sphere, capsule)
	require.True(t, ok)
	// Closest segment point is (0, 0.5, 0): normal from sphere toward it.
	assert.InDelta(t, -1, res.Normal.X(), 1e-4)
	assert.InDelta(t, 0.2, res.Penetration, 1e-4)
}

func TestCompoundCollidesThroughChildren(t *testing.T) {
	dumbbell := NewCompoundShape([]CompoundChild{
		{Shape: NewSphereShape(0.5, DefaultMaterial()), Offset: mgl32.Vec3{2, 0, 0}},
		{Shape: NewSphereShape(0.5, DefaultMaterial()), Offset: mgl32.Vec3{-2, 0, 0}},
	}, DefaultMaterial())

	a := bodyWithShape(1, BodyDynamic, mgl32.Vec3{}, dumbbell)
	// Overlaps only the +X child.
	b := bodyWithShape(2, BodyDynamic, mgl32.Vec3{2.8, 0, 0}, NewSphereShape(0.5, DefaultMaterial()))

	res, ok := collideBodies(a, b)
	require.True(t, ok)
	assert.InDelta(t, 1, res.Normal.X(), 1e-4)
	assert.InDelta(t, 0.2, res.Penetration, 1e-4)

	// Centered between children: no child overlaps.
	b.Position = mgl32.Vec3{0, 0, 0}
	_, ok = collideBodies(a, b)
	assert.False(t, ok)
}

func TestMeshProducesNoDiscreteContact(t *testing.T) {
	mesh := NewTriangleMeshShape([]Triangle{
		{A: mgl32.Vec3{-5, 0, -5}, B: mgl32.Vec3{5, 0, -5}, C: mgl32.Vec3{0, 0, 5}},
	}, DefaultMaterial())
	ground := bodyWithShape(1, BodyStatic, mgl32.Vec3{}, mesh)
	sphere := bodyWithShape(2, BodyDynamic, mgl32.Vec3{0, 0, 0}, NewSphereShape(1, DefaultMaterial()))

	_, ok := collideBodies(sphere, ground)
	assert.False(t, ok, "triangle meshes are query-only")
}

func TestBroadphaseSkipsFilteredPairs(t *testing.T) {
	sphere := func(id BodyID, pos mgl32.Vec3) *RigidBody {
		return bodyWithShape(id, BodyDynamic, pos, NewSphereShape(1, DefaultMaterial()))
	}

	a := sphere(1, mgl32.Vec3{0, 0, 0})
	b := sphere(2, mgl32.Vec3{1, 0, 0})
	far := sphere(3, mgl32.Vec3{100, 0, 0})

	pairs := broadphasePairs([]*RigidBody{a, b, far}, 64, nil)
	require.Len(t, pairs, 1)
	assert.Equal(t, a, pairs[0].a)
	assert.Equal(t, b, pairs[0].b)

	// Same group suppresses the pair.
	a.Group, b.Group = 3, 3
	pairs = broadphasePairs([]*RigidBody{a, b, far}, 64, pairs[:0])
	assert.Empty(t, pairs)
}

func TestBroadphaseSkipsStaticPairsAndSleepers(t *testing.T) {
	s1 := bodyWithShape(1, BodyStatic, mgl32.Vec3{}, NewBoxShape(mgl32.Vec3{1, 1, 1}, DefaultMaterial()))
	s2 := bodyWithShape(2, BodyStatic, mgl32.Vec3{0.5, 0, 0}, NewBoxShape(mgl32.Vec3{1, 1, 1}, DefaultMaterial()))
	pairs := broadphasePairs([]*RigidBody{s1, s2}, 64, nil)
	assert.Empty(t, pairs, "two non-dynamic bodies never pair")

	a := bodyWithShape(3, BodyDynamic, mgl32.Vec3{}, NewSphereShape(1, DefaultMaterial()))
	b := bodyWithShape(4, BodyDynamic, mgl32.Vec3{1, 0, 0}, NewSphereShape(1, DefaultMaterial()))
	a.putToSleep()
	b.putToSleep()
	pairs = broadphasePairs([]*RigidBody{a, b}, 64, nil)
	assert.Empty(t, pairs, "two sleeping bodies never pair")

	b.Wake()
	pairs = broadphasePairs([]*RigidBody{a, b}, 64, nil)
	assert.Len(t, pairs, 1, "an awake body pairs with a sleeping one")
}

func TestPairKeyIsOrderIndependent(t *testing.T) {
	a := bodyWithShape(1, BodyDynamic, mgl32.Vec3{}, NewSphereShape(1, DefaultMaterial()))
	b := bodyWithShape(2, BodyDynamic, mgl32.Vec3{}, NewSphereShape(1, DefaultMaterial()))

	assert.Equal(t, makePairKey(a, b), makePairKey(b, a))
}

func TestAABBResolvePushesOut(t *testing.T) {
	a := NewAABBFromCenter(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 2, 2})
	b := NewAABBFromCenter(mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{2, 2, 2})

	push := a.Resolve(b)
	assert.InDelta(t, -0.5, push.X(), 1e-5)
	assert.Zero(t, push.Y())

	apart := NewAABBFromCenter(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{2, 2, 2})
	assert.Equal(t, mgl32.Vec3{}, a.Resolve(apart))
}
