package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(gravity mgl32.Vec3) *World {
	cfg := DefaultWorldConfig()
	cfg.Gravity = gravity
	return NewWorld(cfg)
}

func TestFreeFallMatchesIntegrator(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{0, -9.81, 0})
	body := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 10, 0},
		Shape:    NewSphereShape(0.5, DefaultMaterial()),
	})

	dt := w.Config().FixedTimeStep
	for i := 0; i < 60; i++ {
		w.stepOnce(dt)
	}

	// Semi-implicit Euler after n steps: y = y0 - g*dt^2 * n(n+1)/2.
	expected := 10 - 9.81*dt*dt*(60*61)/2
	assert.InDelta(t, expected, body.Position.Y(), 0.02)
	assert.InDelta(t, -9.81, body.LinearVelocity.Y(), 0.05)
}

func TestStepDrainsWholeSubsteps(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{})
	fixed := w.Config().FixedTimeStep

	assert.Equal(t, 0, w.Step(fixed*0.75), "partial step accumulates")
	assert.Equal(t, 1, w.Step(fixed*0.75), "accumulator drains a whole step")
	assert.Equal(t, 0, w.Step(-1), "negative dt is ignored")
}

func TestStepCapsSubsteps(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{})

	steps := w.Step(1.0)
	assert.Equal(t, w.Config().MaxSubSteps, steps)
	assert.Equal(t, 0, w.Step(0))

	// The leftover accumulator was clamped below one substep, so another
	// frame cannot replay the discarded time.
	next := w.Step(w.Config().FixedTimeStep)
	assert.GreaterOrEqual(t, next, 1)
	assert.LessOrEqual(t, next, 2)
}

func TestHeadOnElasticCollisionExchangesVelocity(t *testing.T) {
	bouncy := Material{Friction: 0, Restitution: 1, Density: 1}
	w := newTestWorld(mgl32.Vec3{})

	a := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{-1.5, 0, 0},
		Mass:     1,
		Shape:    NewSphereShape(0.5, bouncy),
	})
	b := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{1.5, 0, 0},
		Mass:     1,
		Shape:    NewSphereShape(0.5, bouncy),
	})
	a.LinearVelocity = mgl32.Vec3{4, 0, 0}

	dt := w.Config().FixedTimeStep
	for i := 0; i < 60; i++ {
		w.stepOnce(dt)
	}

	// Equal masses with restitution 1: the mover stops, the target takes
	// over its velocity.
	assert.InDelta(t, 0, a.LinearVelocity.X(), 0.3)
	assert.InDelta(t, 4, b.LinearVelocity.X(), 0.3)
}

func TestSlowImpactsDoNotBounce(t *testing.T) {
	// Below the restitution threshold a perfectly elastic material still
	// lands dead; micro-bounces would hold resting bodies above the sleep
	// thresholds forever.
	bouncy := Material{Friction: 0, Restitution: 1, Density: 1}
	w := newTestWorld(mgl32.Vec3{})

	w.CreateBody(BodyDesc{
		Type:     BodyStatic,
		Position: mgl32.Vec3{0, -0.5, 0},
		Shape:    NewBoxShape(mgl32.Vec3{10, 0.5, 10}, bouncy),
	})
	ball := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 0.52, 0},
		Mass:     1,
		Shape:    NewSphereShape(0.5, bouncy),
	})
	ball.LinearVelocity = mgl32.Vec3{0, -0.5, 0}

	dt := w.Config().FixedTimeStep
	for i := 0; i < 30; i++ {
		w.stepOnce(dt)
	}

	assert.LessOrEqual(t, ball.LinearVelocity.Y(), float32(0.05), "no rebound below the threshold")
	assert.InDelta(t, 0.5, ball.Position.Y(), 0.05, "ball settles on the surface")
}

func TestRestingBodyFallsAsleep(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{0, -9.81, 0})
	w.CreateBody(BodyDesc{
		Type:  BodyStatic,
		Shape: NewBoxShape(mgl32.Vec3{10, 0.5, 10}, DefaultMaterial()),
	})
	box := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 1.0, 0},
		Mass:     1,
		Shape:    NewBoxShape(mgl32.Vec3{0.5, 0.5, 0.5}, DefaultMaterial()),
	})

	dt := w.Config().FixedTimeStep
	for i := 0; i < 180; i++ {
		w.stepOnce(dt)
	}

	require.True(t, box.IsSleeping(), "resting box should sleep within 3 seconds")
	assert.Equal(t, mgl32.Vec3{}, box.LinearVelocity)

	// A sleeping body is skipped by integration until something wakes it.
	pos := box.Position
	for i := 0; i < 10; i++ {
		w.stepOnce(dt)
	}
	assert.Equal(t, pos, box.Position)
}

func TestImpulseWakesSleepingBody(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{0, -9.81, 0})
	w.CreateBody(BodyDesc{
		Type:  BodyStatic,
		Shape: NewBoxShape(mgl32.Vec3{10, 0.5, 10}, DefaultMaterial()),
	})
	box := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 1.0, 0},
		Mass:     1,
		Shape:    NewBoxShape(mgl32.Vec3{0.5, 0.5, 0.5}, DefaultMaterial()),
	})

	dt := w.Config().FixedTimeStep
	for i := 0; i < 180; i++ {
		w.stepOnce(dt)
	}
	require.True(t, box.IsSleeping())

	box.ApplyImpulse(mgl32.Vec3{0, 5, 0})
	assert.False(t, box.IsSleeping())
	w.stepOnce(dt)
	assert.Greater(t, box.LinearVelocity.Y(), float32(0))
}

func TestTriggerEventsWithoutResponse(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{})
	w.CreateBody(BodyDesc{
		Type:      BodyStatic,
		Position:  mgl32.Vec3{5, 0, 0},
		IsTrigger: true,
		Shape:     NewBoxShape(mgl32.Vec3{0.5, 2, 2}, DefaultMaterial()),
	})
	probe := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 0, 0},
		Mass:     1,
		Shape:    NewSphereShape(0.25, DefaultMaterial()),
	})
	probe.LinearVelocity = mgl32.Vec3{4, 0, 0}

	var enters, exits int
	w.SetContactHandler(func(ev ContactEvent) {
		if !ev.IsTrigger {
			return
		}
		switch ev.Type {
		case ContactEnter:
			enters++
		case ContactExit:
			exits++
		}
	})

	dt := w.Config().FixedTimeStep
	for i := 0; i < 180; i++ {
		w.stepOnce(dt)
	}

	assert.Equal(t, 1, enters)
	assert.Equal(t, 1, exits)
	// Trigger overlap applies no impulse: the probe passed straight through.
	assert.InDelta(t, 4, probe.LinearVelocity.X(), 1e-4)
	assert.Greater(t, probe.Position.X(), float32(6))
}

func TestContactEnterStayExitSequence(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{})
	w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 0, 0},
		Mass:     1,
		Shape:    NewSphereShape(1, DefaultMaterial()),
	})
	w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{1.5, 0, 0},
		Mass:     1,
		Shape:    NewSphereShape(1, DefaultMaterial()),
	})

	var types []ContactEventType
	w.SetContactHandler(func(ev ContactEvent) {
		types = append(types, ev.Type)
	})

	dt := w.Config().FixedTimeStep
	for i := 0; i < 120; i++ {
		w.stepOnce(dt)
	}

	require.NotEmpty(t, types)
	assert.Equal(t, ContactEnter, types[0])
	// Overlapping bodies separate under the contact impulse, ending with
	// exactly one exit.
	assert.Equal(t, ContactExit, types[len(types)-1])
	exits := 0
	for _, tt := range types {
		if tt == ContactExit {
			exits++
		}
	}
	assert.Equal(t, 1, exits)
}

func TestCCDStopsFastSphereAtThinWall(t *testing.T) {
	cfg := DefaultWorldConfig()
	cfg.Gravity = mgl32.Vec3{}
	cfg.EnableSleeping = false
	w := NewWorld(cfg)

	w.CreateBody(BodyDesc{
		Type:     BodyStatic,
		Position: mgl32.Vec3{20, 0, 0},
		Shape:    NewBoxShape(mgl32.Vec3{0.05, 3, 3}, DefaultMaterial()),
	})
	bullet := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 0, 0},
		Mass:     1,
		Shape:    NewSphereShape(0.2, DefaultMaterial()),
	})
	// 5 units per substep, 25x the wall thickness.
	bullet.LinearVelocity = mgl32.Vec3{300, 0, 0}

	dt := w.Config().FixedTimeStep
	for i := 0; i < 30; i++ {
		w.stepOnce(dt)
	}

	assert.Less(t, bullet.Position.X(), float32(20), "bullet must not tunnel the wall")
}

func TestCCDIgnoresBroadGeometryBelow(t *testing.T) {
	cfg := DefaultWorldConfig()
	cfg.Gravity = mgl32.Vec3{}
	cfg.EnableSleeping = false
	w := NewWorld(cfg)

	// A wide flat ground whose bounding sphere reaches far above its
	// surface. A fast body flying overhead must keep moving.
	w.CreateBody(BodyDesc{
		Type:  BodyStatic,
		Shape: NewBoxShape(mgl32.Vec3{20, 0.25, 20}, DefaultMaterial()),
	})
	flyer := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{0, 10, 0},
		Mass:     1,
		Shape:    NewSphereShape(0.5, DefaultMaterial()),
	})
	flyer.LinearVelocity = mgl32.Vec3{60, 0, 0}

	dt := w.Config().FixedTimeStep
	for i := 0; i < 30; i++ {
		w.stepOnce(dt)
	}

	assert.InDelta(t, 30, flyer.Position.X(), 0.1, "flight must not be clamped")
	assert.InDelta(t, 10, flyer.Position.Y(), 1e-3)
}

func TestRemoveBodyDropsItsConstraints(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{})
	a := w.CreateBody(BodyDesc{Type: BodyDynamic, Mass: 1, Shape: NewSphereShape(0.5, DefaultMaterial())})
	b := w.CreateBody(BodyDesc{
		Type:     BodyDynamic,
		Position: mgl32.Vec3{2, 0, 0},
		Mass:     1,
		Shape:    NewSphereShape(0.5, DefaultMaterial()),
	})
	w.AddConstraint(NewDistanceConstraint(a, b, mgl32.Vec3{}, mgl32.Vec3{}))
	require.Len(t, w.Constraints(), 1)

	w.RemoveBody(a.ID())

	assert.Empty(t, w.Constraints())
	assert.Equal(t, 1, w.BodyCount())
	_, ok := w.Body(a.ID())
	assert.False(t, ok)
	got, ok := w.Body(b.ID())
	assert.True(t, ok)
	assert.Equal(t, b, got)
}

func TestBodiesKeepCreationOrder(t *testing.T) {
	w := newTestWorld(mgl32.Vec3{})
	first := w.CreateBody(BodyDesc{Type: BodyStatic, Shape: NewSphereShape(1, DefaultMaterial())})
	second := w.CreateBody(BodyDesc{Type: BodyStatic, Shape: NewSphereShape(1, DefaultMaterial())})

	bodies := w.Bodies()
	require.Len(t, bodies, 2)
	assert.Equal(t, first, bodies[0])
	assert.Equal(t, second, bodies[1])
	assert.NotEqual(t, first.ID(), second.ID())
}
