package physics

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldConfig tunes the simulation. Zero values are replaced by defaults in
// NewWorld.
type WorldConfig struct {
	Gravity            mgl32.Vec3
	FixedTimeStep      float32 // seconds per substep
	MaxSubSteps        int     // substeps drained per Step call
	VelocityIterations int
	PositionIterations int
	MaxContactPairs    int

	SleepLinearThreshold  float32
	SleepAngularThreshold float32
	SleepTime             float32

	EnableSleeping bool
	EnableCCD      bool

	// CCDMotionThreshold is the fraction of a body's bounding radius it
	// must travel in one substep before it is swept continuously.
	CCDMotionThreshold float32
}

// DefaultWorldConfig returns the standard 60 Hz configuration.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:               mgl32.Vec3{0, -9.81, 0},
		FixedTimeStep:         1.0 / 60.0,
		MaxSubSteps:           8,
		VelocityIterations:    8,
		PositionIterations:    3,
		MaxContactPairs:       4096,
		SleepLinearThreshold:  DefaultSleepLinearThreshold,
		SleepAngularThreshold: DefaultSleepAngularThreshold,
		SleepTime:             DefaultSleepTime,
		EnableSleeping:        true,
		EnableCCD:             true,
		CCDMotionThreshold:    1,
	}
}

func (c *WorldConfig) applyDefaults() {
	if c.FixedTimeStep <= 0 {
		c.FixedTimeStep = 1.0 / 60.0
	}
	if c.MaxSubSteps <= 0 {
		c.MaxSubSteps = 8
	}
	if c.VelocityIterations <= 0 {
		c.VelocityIterations = 8
	}
	if c.PositionIterations <= 0 {
		c.PositionIterations = 3
	}
	if c.MaxContactPairs <= 0 {
		c.MaxContactPairs = 4096
	}
	if c.SleepLinearThreshold <= 0 {
		c.SleepLinearThreshold = DefaultSleepLinearThreshold
	}
	if c.SleepAngularThreshold <= 0 {
		c.SleepAngularThreshold = DefaultSleepAngularThreshold
	}
	if c.SleepTime <= 0 {
		c.SleepTime = DefaultSleepTime
	}
	if c.CCDMotionThreshold <= 0 {
		c.CCDMotionThreshold = 1
	}
}

// ContactEventType distinguishes the collision callback phases.
type ContactEventType int

const (
	ContactEnter ContactEventType = iota
	ContactStay
	ContactExit
)

func (t ContactEventType) String() string {
	switch t {
	case ContactEnter:
		return "enter"
	case ContactStay:
		return "stay"
	case ContactExit:
		return "exit"
	default:
		return "unknown"
	}
}

// ContactEvent is delivered for both solid contacts and trigger overlaps.
// Result is zero on exit events. IsTrigger is set when either body is a
// trigger, in which case no collision response was applied.
type ContactEvent struct {
	Type      ContactEventType
	BodyA     *RigidBody
	BodyB     *RigidBody
	Result    CollisionResult
	IsTrigger bool
}

// ContactHandler receives contact events during Step. Handlers must not
// create or remove bodies; defer that until Step returns.
type ContactHandler func(ContactEvent)

// World owns all bodies and constraints and advances the simulation on a
// fixed timestep.
type World struct {
	cfg    WorldConfig
	nextID atomic.Uint64

	bodies  map[BodyID]*RigidBody
	ordered []*RigidBody // insertion order, drives deterministic iteration

	constraints []Constraint
	solver      *ConstraintSolver

	handler ContactHandler

	accumulator float32
	stepCount   uint64

	// Scratch buffers reused across substeps.
	pairs    []bodyPair
	contacts []contact
	prevPos  []mgl32.Vec3

	// Pair tracking for enter/exit events.
	activePairs map[pairKey]bool
	prevPairs   map[pairKey]bool

	lastLogTime time.Time // rate-limit step stat logs
}

func NewWorld(cfg WorldConfig) *World {
	cfg.applyDefaults()
	return &World{
		cfg:         cfg,
		bodies:      make(map[BodyID]*RigidBody),
		solver:      NewConstraintSolver(cfg.VelocityIterations, cfg.PositionIterations),
		activePairs: make(map[pairKey]bool),
		prevPairs:   make(map[pairKey]bool),
	}
}

func (w *World) Gravity() mgl32.Vec3 { return w.cfg.Gravity }
func (w *World) SetGravity(g mgl32.Vec3) { w.cfg.Gravity = g }
func (w *World) Config() WorldConfig { return w.cfg }
func (w *World) StepCount() uint64 { return w.stepCount }
func (w *World) SetContactHandler(h ContactHandler) { w.handler = h }

// CreateBody adds a new body to the world and returns it. The returned
// body's ID stays valid until RemoveBody.
func (w *World) CreateBody(desc BodyDesc) *RigidBody {
	id := BodyID(w.nextID.Add(1))
	b := newRigidBody(id, desc)
	w.bodies[id] = b
	w.ordered = append(w.ordered, b)
	return b
}

// RemoveBody removes a body and every constraint attached to it. Pending
// contact pairs involving the body are dropped without exit events.
func (w *World) RemoveBody(id BodyID) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	delete(w.bodies, id)
	for i, other := range w.ordered {
		if other == b {
			w.ordered = append(w.ordered[:i], w.ordered[i+1:]...)
			break
		}
	}

	kept := w.constraints[:0]
	for _, c := range w.constraints {
		if c.BodyA() == b || c.BodyB() == b {
			continue
		}
		kept = append(kept, c)
	}
	w.constraints = kept

	for key := range w.prevPairs {
		if key.a == id || key.b == id {
			delete(w.prevPairs, key)
		}
	}
}

// Body looks up a body by ID.
func (w *World) Body(id BodyID) (*RigidBody, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// Bodies returns the live body list in creation order. Callers must not
// mutate the slice.
func (w *World) Bodies() []*RigidBody { return w.ordered }

func (w *World) BodyCount() int { return len(w.ordered) }

func (w *World) AddConstraint(c Constraint) {
	if c == nil || c.BodyA() == nil {
		return
	}
	w.constraints = append(w.constraints, c)
}

func (w *World) RemoveConstraint(c Constraint) {
	for i, other := range w.constraints {
		if other == c {
			w.constraints = append(w.constraints[:i], w.constraints[i+1:]...)
			return
		}
	}
}

// Constraints returns the live constraint list, including broken ones.
func (w *World) Constraints() []Constraint { return w.constraints }

// Step advances the simulation by dt, draining whole fixed substeps from an
// internal accumulator. Returns the number of substeps taken. Leftover time
// beyond MaxSubSteps is discarded so a slow frame cannot snowball.
func (w *World) Step(dt float32) int {
	if dt <= 0 || math32.IsNaN(dt) {
		return 0
	}
	w.accumulator += dt

	steps := 0
	for w.accumulator >= w.cfg.FixedTimeStep && steps < w.cfg.MaxSubSteps {
		w.stepOnce(w.cfg.FixedTimeStep)
		w.accumulator -= w.cfg.FixedTimeStep
		steps++
	}
	if w.accumulator >= w.cfg.FixedTimeStep {
		w.accumulator = math32.Mod(w.accumulator, w.cfg.FixedTimeStep)
	}
	return steps
}

// stepOnce runs one fixed substep: integrate velocities, detect contacts,
// solve velocities, integrate positions (with CCD), stabilize positions,
// then update sleep state.
func (w *World) stepOnce(dt float32) {
	w.stepCount++

	// 1. Velocities.
	for _, b := range w.ordered {
		b.integrateVelocity(w.cfg.Gravity, dt)
	}

	// 2. Detection.
	w.detectContacts()

	// 3. Velocity solve: contacts first, then joints.
	for i := 0; i < w.cfg.VelocityIterations; i++ {
		for _, c := range w.contacts {
			resolveContactVelocity(c)
		}
	}
	w.solver.SolveVelocities(w.constraints, dt)

	// 4. Positions, with a CCD pass for fast movers.
	if cap(w.prevPos) < len(w.ordered) {
		w.prevPos = make([]mgl32.Vec3, len(w.ordered))
	}
	w.prevPos = w.prevPos[:len(w.ordered)]
	for i, b := range w.ordered {
		w.prevPos[i] = b.Position
		b.integratePosition(dt)
	}
	if w.cfg.EnableCCD {
		w.continuousPass()
	}
	for _, b := range w.ordered {
		b.clearAccumulators()
	}

	// 5. Stabilization: re-detect the solved pairs at their new positions
	// and push out remaining penetration, then joint position iterations.
	for i := range w.contacts {
		c := &w.contacts[i]
		if res, ok := collideBodies(c.a, c.b); ok {
			c.result = res
			resolveContactPosition(*c)
		}
	}
	w.solver.SolvePositions(w.constraints, dt)

	// 6. Sleeping.
	if w.cfg.EnableSleeping {
		w.updateSleep(dt)
	}

	if time.Since(w.lastLogTime) >= 5*time.Second {
		w.lastLogTime = time.Now()
		log.Printf("Physics: %d bodies, %d contacts, %d constraints",
			len(w.ordered), len(w.contacts), len(w.constraints))
	}
}

// detectContacts runs broadphase plus narrowphase, fires contact events and
// fills the substep's contact buffer. Trigger overlaps produce events only.
func (w *World) detectContacts() {
	w.pairs = broadphasePairs(w.ordered, w.cfg.MaxContactPairs, w.pairs[:0])
	w.contacts = w.contacts[:0]

	for key := range w.activePairs {
		delete(w.activePairs, key)
	}

	for _, p := range w.pairs {
		res, ok := collideBodies(p.a, p.b)
		if !ok {
			continue
		}

		key := makePairKey(p.a, p.b)
		w.activePairs[key] = true
		isTrigger := p.a.IsTrigger || p.b.IsTrigger

		if w.handler != nil {
			evType := ContactStay
			if !w.prevPairs[key] {
				evType = ContactEnter
			}
			w.handler(ContactEvent{
				Type:      evType,
				BodyA:     p.a,
				BodyB:     p.b,
				Result:    res,
				IsTrigger: isTrigger,
			})
		}

		if isTrigger {
			continue
		}

		// A moving body wakes a sleeping one it touches. Static geometry
		// never wakes anything, and waking both sides unconditionally
		// would reset rest timers every step, so nothing resting on the
		// ground could ever fall asleep.
		if p.a.sleeping && canWakeOthers(p.b) {
			p.a.Wake()
		} else if p.b.sleeping && canWakeOthers(p.a) {
			p.b.Wake()
		}
		if atRest(p.a) && atRest(p.b) {
			continue
		}
		w.contacts = append(w.contacts, contact{a: p.a, b: p.b, result: res})
	}

	// Exit events for pairs that stopped overlapping.
	for key := range w.prevPairs {
		if w.activePairs[key] {
			continue
		}
		a, okA := w.bodies[key.a]
		b, okB := w.bodies[key.b]
		if okA && okB && w.handler != nil {
			w.handler(ContactEvent{
				Type:      ContactExit,
				BodyA:     a,
				BodyB:     b,
				IsTrigger: a.IsTrigger || b.IsTrigger,
			})
		}
		delete(w.prevPairs, key)
	}
	for key := range w.activePairs {
		w.prevPairs[key] = true
	}
}

// canWakeOthers reports whether contact with this body wakes a sleeping
// neighbor.
func canWakeOthers(b *RigidBody) bool {
	return b.bodyType != BodyStatic && !b.sleeping
}

// atRest reports whether a body contributes no motion to a contact, so the
// contact needs no response.
func atRest(b *RigidBody) bool {
	return b.bodyType == BodyStatic || b.sleeping
}

// continuousPass sweeps fast-moving bodies as bounding spheres against
// everything they can collide with and clamps them to the earliest time of
// impact, killing the approach velocity so the discrete solver takes over.
func (w *World) continuousPass() {
	for i, a := range w.ordered {
		if !needsCCD(a, w.prevPos[i], w.cfg.CCDMotionThreshold) {
			continue
		}

		best := SweepResult{TOI: 1}
		for j, b := range w.ordered {
			if a == b || b.IsTrigger || a.IsTrigger {
				continue
			}
			if !shouldCollide(a, b) {
				continue
			}
			res, ok := sweepBody(a, w.prevPos[i], b, w.prevPos[j])
			if ok && res.TOI < best.TOI {
				best = res
			}
		}
		if !best.Hit {
			continue
		}

		a.Position = w.prevPos[i].Add(a.Position.Sub(w.prevPos[i]).Mul(best.TOI))
		vn := a.LinearVelocity.Dot(best.Normal)
		if vn < 0 {
			a.LinearVelocity = a.LinearVelocity.Sub(best.Normal.Mul(vn))
		}
		best.Body.Wake()
	}
}

// updateSleep groups dynamic bodies into islands via contacts and
// constraints, then puts a whole island to sleep only when every member has
// been below the velocity thresholds for the sleep time.
func (w *World) updateSleep(dt float32) {
	index := make(map[BodyID]int, len(w.ordered))
	for i, b := range w.ordered {
		index[b.id] = i
	}

	parent := make([]int, len(w.ordered))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b *RigidBody) {
		if a == nil || b == nil {
			return
		}
		if a.bodyType != BodyDynamic || b.bodyType != BodyDynamic {
			return
		}
		ra, rb := find(index[a.id]), find(index[b.id])
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, c := range w.contacts {
		union(c.a, c.b)
	}
	for _, c := range w.constraints {
		if !c.IsEnabled() || c.IsBroken() {
			continue
		}
		union(c.BodyA(), c.BodyB())
	}

	// Per-body rest timers.
	for _, b := range w.ordered {
		if b.bodyType != BodyDynamic || b.sleeping || !b.CanSleep {
			continue
		}
		if b.belowSleepThreshold(w.cfg.SleepLinearThreshold, w.cfg.SleepAngularThreshold) {
			b.sleepTimer += dt
		} else {
			b.sleepTimer = 0
		}
	}

	// An island sleeps only as a whole.
	islandReady := make(map[int]bool)
	for i, b := range w.ordered {
		if b.bodyType != BodyDynamic {
			continue
		}
		root := find(i)
		ready, seen := islandReady[root]
		if !seen {
			ready = true
		}
		if b.sleeping {
			islandReady[root] = ready
			continue
		}
		if !b.CanSleep || b.sleepTimer < w.cfg.SleepTime {
			ready = false
		}
		islandReady[root] = ready
	}
	for i, b := range w.ordered {
		if b.bodyType != BodyDynamic || b.sleeping {
			continue
		}
		if islandReady[find(i)] {
			b.putToSleep()
		}
	}
}

// Raycast finds the closest body hit along the ray. layerMask filters by
// body layer; pass ^uint32(0) to hit everything.
func (w *World) Raycast(origin, dir mgl32.Vec3, maxDist float32, layerMask uint32) (RaycastHit, bool) {
	d := safeNormalize(dir, mgl32.Vec3{})
	if d.LenSqr() == 0 || maxDist <= 0 {
		return RaycastHit{}, false
	}

	best := RaycastHit{Distance: maxDist}
	found := false
	for _, b := range w.ordered {
		if b.Layer&layerMask == 0 {
			continue
		}
		if hit, ok := rayBody(b, origin, d, best.Distance); ok {
			best = hit
			found = true
		}
	}
	return best, found
}

// SphereCast sweeps a sphere along the ray and reports the first hit. Shape
// support is conservative: spheres and capsules are exact, boxes are
// inflated by the radius, everything else falls back to bounding spheres.
func (w *World) SphereCast(origin, dir mgl32.Vec3, radius, maxDist float32, layerMask uint32) (RaycastHit, bool) {
	d := safeNormalize(dir, mgl32.Vec3{})
	if d.LenSqr() == 0 || maxDist <= 0 {
		return RaycastHit{}, false
	}

	best := RaycastHit{Distance: maxDist}
	found := false
	for _, b := range w.ordered {
		if b.Layer&layerMask == 0 {
			continue
		}
		for _, ps := range worldShapes(b) {
			t, n, ok := sphereCastShape(origin, d, radius, ps, best.Distance)
			if ok && (!found || t < best.Distance) {
				best = RaycastHit{
					Body:     b,
					Point:    origin.Add(d.Mul(t)),
					Normal:   n,
					Distance: t,
				}
				found = true
			}
		}
	}
	return best, found
}

// sphereCastShape sweeps a sphere against one posed leaf shape by inflating
// the target and casting a ray.
func sphereCastShape(origin, dir mgl32.Vec3, radius float32, ps posedShape, maxDist float32) (float32, mgl32.Vec3, bool) {
	switch s := ps.shape.(type) {
	case *SphereShape:
		if t, ok := raySphere(origin, dir, ps.pos, s.Radius+radius, maxDist); ok {
			point := origin.Add(dir.Mul(t))
			return t, safeNormalize(point.Sub(ps.pos), dir.Mul(-1)), true
		}
	case *CapsuleShape:
		segA, segB := s.segment(ps.pos, ps.rot)
		if t, ok := rayCapsule(origin, dir, segA, segB, s.Radius+radius, maxDist); ok {
			point := origin.Add(dir.Mul(t))
			closest := closestPointOnSegment(point, segA, segB)
			return t, safeNormalize(point.Sub(closest), dir.Mul(-1)), true
		}
	case *BoxShape:
		inflated := s.HalfExtents.Add(mgl32.Vec3{radius, radius, radius})
		return rayBox(origin, dir, ps.pos, ps.rot, inflated, maxDist)
	default:
		center := ps.pos.Add(ps.rot.Rotate(ps.shape.LocalBounds().Center()))
		if t, ok := raySphere(origin, dir, center, ps.shape.BoundingRadius()+radius, maxDist); ok {
			point := origin.Add(dir.Mul(t))
			return t, safeNormalize(point.Sub(center), dir.Mul(-1)), true
		}
	}
	return 0, mgl32.Vec3{}, false
}

// OverlapSphere returns every body whose shapes intersect the given sphere,
// filtered by layer.
func (w *World) OverlapSphere(center mgl32.Vec3, radius float32, layerMask uint32) []*RigidBody {
	probe := posedShape{
		shape: NewSphereShape(radius, DefaultMaterial()),
		pos:   center,
		rot:   mgl32.QuatIdent(),
	}

	var out []*RigidBody
	for _, b := range w.ordered {
		if b.Layer&layerMask == 0 {
			continue
		}
		for _, ps := range worldShapes(b) {
			if _, ok := collideShapes(probe, ps); ok {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
