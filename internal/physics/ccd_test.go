package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeOfImpactHeadOn(t *testing.T) {
	// A moves 10 units toward a stationary unit sphere 5 away. Touch
	// happens when the centers are 2 apart, 3 units into the motion.
	toi, ok := TimeOfImpactSpheres(
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0}, 1,
		mgl32.Vec3{5, 0, 0}, mgl32.Vec3{5, 0, 0}, 1,
	)
	require.True(t, ok)
	assert.InDelta(t, 0.3, toi, 0.01)
}

func TestTimeOfImpactBothMoving(t *testing.T) {
	// Approaching at the same speed: closing 10 units over the motion,
	// starting 10 apart, touching at separation 2.
	toi, ok := TimeOfImpactSpheres(
		mgl32.Vec3{-5, 0, 0}, mgl32.Vec3{0, 0, 0}, 1,
		mgl32.Vec3{5, 0, 0}, mgl32.Vec3{0, 0, 0}, 1,
	)
	require.True(t, ok)
	assert.InDelta(t, 0.8, toi, 0.01)
}

func TestTimeOfImpactMiss(t *testing.T) {
	// Passing by with 3 units of lateral clearance.
	_, ok := TimeOfImpactSpheres(
		mgl32.Vec3{0, 3, 0}, mgl32.Vec3{10, 3, 0}, 1,
		mgl32.Vec3{5, 0, 0}, mgl32.Vec3{5, 0, 0}, 1,
	)
	assert.False(t, ok)

	// Stationary and apart.
	_, ok = TimeOfImpactSpheres(
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0}, 1,
		mgl32.Vec3{5, 0, 0}, mgl32.Vec3{5, 0, 0}, 1,
	)
	assert.False(t, ok)
}

func TestTimeOfImpactAlreadyTouching(t *testing.T) {
	toi, ok := TimeOfImpactSpheres(
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0}, 1,
		mgl32.Vec3{1.5, 0, 0}, mgl32.Vec3{1.5, 0, 0}, 1,
	)
	require.True(t, ok)
	assert.Zero(t, toi)
}

func TestTimeOfImpactRecedingNoHit(t *testing.T) {
	_, ok := TimeOfImpactSpheres(
		mgl32.Vec3{3, 0, 0}, mgl32.Vec3{10, 0, 0}, 1,
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0}, 1,
	)
	assert.False(t, ok)
}

func TestSweepBodyNormalPushesAway(t *testing.T) {
	mover := newRigidBody(1, BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{10, 0, 0}, // integrated position
		Mass:     1,
		Shape:    NewSphereShape(1, DefaultMaterial()),
	})
	wall := newRigidBody(2, BodyDesc{
		Type:     BodyStatic,
		Position: mgl32.Vec3{5, 0, 0},
		Shape:    NewSphereShape(1, DefaultMaterial()),
	})

	res, ok := sweepBody(mover, mgl32.Vec3{0, 0, 0}, wall, wall.Position)
	require.True(t, ok)
	assert.True(t, res.Hit)
	assert.Equal(t, wall, res.Body)
	assert.InDelta(t, 0.3, res.TOI, 0.01)
	assert.InDelta(t, -1, res.Normal.X(), 1e-3)
	assert.InDelta(t, 4, res.Point.X(), 0.05)
}

func TestSweepBodyMissesDistantLargeGeometry(t *testing.T) {
	// The ground's bounding sphere reaches well above its surface; a body
	// passing overhead must not register an impact against it.
	mover := newRigidBody(1, BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{10, 10, 0}, // integrated position
		Mass:     1,
		Shape:    NewSphereShape(0.5, DefaultMaterial()),
	})
	ground := newRigidBody(2, BodyDesc{
		Type:  BodyStatic,
		Shape: NewBoxShape(mgl32.Vec3{20, 0.25, 20}, DefaultMaterial()),
	})

	_, ok := sweepBody(mover, mgl32.Vec3{0, 10, 0}, ground, ground.Position)
	assert.False(t, ok)
}

func TestNeedsCCDOnlyForFastDynamics(t *testing.T) {
	body := newRigidBody(1, BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{5, 0, 0},
		Mass:     1,
		Shape:    NewSphereShape(1, DefaultMaterial()),
	})

	assert.True(t, needsCCD(body, mgl32.Vec3{0, 0, 0}, 1), "moved five radii")
	assert.False(t, needsCCD(body, mgl32.Vec3{4.5, 0, 0}, 1), "moved under one radius")

	// A larger threshold raises the speed needed to engage sweeping.
	assert.False(t, needsCCD(body, mgl32.Vec3{0, 0, 0}, 10))
	assert.True(t, needsCCD(body, mgl32.Vec3{4.5, 0, 0}, 0.25))

	body.putToSleep()
	assert.False(t, needsCCD(body, mgl32.Vec3{0, 0, 0}, 1))

	wall := newRigidBody(2, BodyDesc{
		Type:     BodyStatic,
		Position: mgl32.Vec3{5, 0, 0},
		Shape:    NewSphereShape(1, DefaultMaterial()),
	})
	assert.False(t, needsCCD(wall, mgl32.Vec3{0, 0, 0}, 1))
}
