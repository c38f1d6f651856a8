package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type BodyType int

const (
	BodyStatic BodyType = iota
	BodyKinematic
	BodyDynamic
)

func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	}
	return "unknown"
}

// BodyID is an opaque handle to a body owned by a World. Zero is never a
// valid handle.
type BodyID uint64

const InvalidBodyID BodyID = 0

// Sleep thresholds
const (
	DefaultSleepLinearThreshold  = 0.05 // units/sec - below this, body might sleep
	DefaultSleepAngularThreshold = 0.1  // rad/sec - below this, body might sleep
	DefaultSleepTime             = 0.5  // seconds of low velocity before sleeping
)

// ShapeAttachment places a shared shape in a body's local frame.
type ShapeAttachment struct {
	Shape    Shape
	Offset   mgl32.Vec3
	Rotation mgl32.Quat
}

// BodyDesc describes a body for World.CreateBody.
type BodyDesc struct {
	Type           BodyType
	Position       mgl32.Vec3
	Rotation       mgl32.Quat // zero value treated as identity
	Mass           float32    // <= 0 derives mass from attached shape densities
	LinearDamping  float32
	AngularDamping float32
	GravityScale   float32 // 0 defaults to 1
	Layer          uint32  // collision category bits, 0 defaults to 1
	Mask           uint32  // collides-with bits, 0 defaults to all
	Group          int32   // bodies sharing a nonzero group never collide
	IsTrigger      bool
	NeverSleep     bool // excludes the body from sleep management
	Shape          Shape
	ShapeOffset    mgl32.Vec3
	ShapeRotation  mgl32.Quat
}

// RigidBody is a simulated body. All mutation must be serialized against an
// in-progress World.Step; the world provides no internal locking.
type RigidBody struct {
	id       BodyID
	bodyType BodyType

	Position mgl32.Vec3
	Rotation mgl32.Quat

	LinearVelocity  mgl32.Vec3
	AngularVelocity mgl32.Vec3

	// Per-step accumulators, cleared after position integration.
	force  mgl32.Vec3
	torque mgl32.Vec3

	mass         float32
	invMass      float32
	explicitMass bool // mass was set by the user, not derived from shapes
	centerOfMass mgl32.Vec3

	LinearDamping  float32
	AngularDamping float32
	GravityScale   float32

	Layer uint32
	Mask  uint32
	Group int32

	IsTrigger bool

	CanSleep   bool
	sleeping   bool
	sleepTimer float32

	shapes []ShapeAttachment

	// UserData carries an opaque owner reference, untouched by the world.
	UserData any
}

func newRigidBody(id BodyID, desc BodyDesc) *RigidBody {
	b := &RigidBody{
		id:             id,
		bodyType:       desc.Type,
		Position:       desc.Position,
		Rotation:       normalizedOrIdentity(desc.Rotation),
		LinearDamping:  desc.LinearDamping,
		AngularDamping: desc.AngularDamping,
		GravityScale:   desc.GravityScale,
		Layer:          desc.Layer,
		Mask:           desc.Mask,
		Group:          desc.Group,
		IsTrigger:      desc.IsTrigger,
		CanSleep:       !desc.NeverSleep,
	}
	if b.GravityScale == 0 {
		b.GravityScale = 1
	}
	if b.Layer == 0 {
		b.Layer = 1
	}
	if b.Mask == 0 {
		b.Mask = 0xFFFFFFFF
	}
	b.explicitMass = desc.Mass > 0
	b.setMassInternal(desc.Mass)
	if desc.Shape != nil {
		b.AttachShape(desc.Shape, desc.ShapeOffset, desc.ShapeRotation)
	}
	return b
}

func normalizedOrIdentity(q mgl32.Quat) mgl32.Quat {
	if q.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	return q.Normalize()
}

func (b *RigidBody) ID() BodyID     { return b.id }
func (b *RigidBody) Type() BodyType { return b.bodyType }

// SetType changes the body type. Transitioning to Static zeroes velocities
// and inverse mass; transitioning away restores inverse mass from the
// stored mass.
func (b *RigidBody) SetType(t BodyType) {
	if b.bodyType == t {
		return
	}
	b.bodyType = t
	if t == BodyStatic {
		b.LinearVelocity = mgl32.Vec3{}
		b.AngularVelocity = mgl32.Vec3{}
		b.invMass = 0
	} else if b.mass > 0 {
		b.invMass = 1 / b.mass
	}
	b.Wake()
}

func (b *RigidBody) Mass() float32        { return b.mass }
func (b *RigidBody) InverseMass() float32 { return b.invMass }

// SetMass updates mass and inverse mass. Non-positive mass means infinite.
func (b *RigidBody) SetMass(mass float32) {
	b.explicitMass = mass > 0
	b.setMassInternal(mass)
}

func (b *RigidBody) setMassInternal(mass float32) {
	b.mass = mass
	if b.bodyType == BodyStatic || mass <= 0 {
		b.invMass = 0
		return
	}
	b.invMass = 1 / mass
}

// effectiveInvMass is the inverse mass the solver sees: zero for anything
// the solver is not allowed to push.
func (b *RigidBody) effectiveInvMass() float32 {
	if b.bodyType != BodyDynamic {
		return 0
	}
	return b.invMass
}

func (b *RigidBody) CenterOfMass() mgl32.Vec3 { return b.centerOfMass }

// ApplyForce accumulates a force through the center of mass for the next
// step. No-op on non-dynamic bodies.
func (b *RigidBody) ApplyForce(f mgl32.Vec3) {
	if b.bodyType != BodyDynamic {
		return
	}
	b.force = b.force.Add(f)
	b.Wake()
}

// ApplyForceAtPoint accumulates a force applied at world point p, adding the
// induced torque. No-op on non-dynamic bodies.
func (b *RigidBody) ApplyForceAtPoint(f, p mgl32.Vec3) {
	if b.bodyType != BodyDynamic {
		return
	}
	b.force = b.force.Add(f)
	b.torque = b.torque.Add(p.Sub(b.Position).Cross(f))
	b.Wake()
}

// ApplyTorque accumulates a torque for the next step. No-op on non-dynamic
// bodies.
func (b *RigidBody) ApplyTorque(t mgl32.Vec3) {
	if b.bodyType != BodyDynamic {
		return
	}
	b.torque = b.torque.Add(t)
	b.Wake()
}

// ApplyImpulse changes linear velocity immediately and wakes the body.
func (b *RigidBody) ApplyImpulse(impulse mgl32.Vec3) {
	if b.bodyType != BodyDynamic || b.invMass == 0 {
		return
	}
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(b.invMass))
	b.Wake()
}

// ApplyImpulseAtPoint changes linear and angular velocity immediately.
// Angular response treats inertia as isotropic (scaled by inverse mass)
// rather than applying the full inverse inertia tensor; this matches the
// rest of the solver's simplified angular model.
func (b *RigidBody) ApplyImpulseAtPoint(impulse, p mgl32.Vec3) {
	if b.bodyType != BodyDynamic || b.invMass == 0 {
		return
	}
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(b.invMass))
	r := p.Sub(b.Position)
	b.AngularVelocity = b.AngularVelocity.Add(r.Cross(impulse).Mul(b.invMass))
	b.Wake()
}

// VelocityAtPoint returns the velocity of the body surface at world point p.
func (b *RigidBody) VelocityAtPoint(p mgl32.Vec3) mgl32.Vec3 {
	return b.LinearVelocity.Add(b.AngularVelocity.Cross(p.Sub(b.Position)))
}

// SetPosition teleports the body and wakes it.
func (b *RigidBody) SetPosition(p mgl32.Vec3) {
	b.Position = p
	b.Wake()
}

// SetRotation sets the orientation (normalized) and wakes the body.
func (b *RigidBody) SetRotation(q mgl32.Quat) {
	b.Rotation = normalizedOrIdentity(q)
	b.Wake()
}

// SetLinearVelocity sets velocity directly. No-op on static bodies.
func (b *RigidBody) SetLinearVelocity(v mgl32.Vec3) {
	if b.bodyType == BodyStatic {
		return
	}
	b.LinearVelocity = v
	b.Wake()
}

// SetAngularVelocity sets angular velocity directly. No-op on static bodies.
func (b *RigidBody) SetAngularVelocity(w mgl32.Vec3) {
	if b.bodyType == BodyStatic {
		return
	}
	b.AngularVelocity = w
	b.Wake()
}

func (b *RigidBody) Wake() {
	b.sleeping = false
	b.sleepTimer = 0
}

func (b *RigidBody) IsSleeping() bool { return b.sleeping }

// putToSleep zeroes velocity and marks the body asleep.
func (b *RigidBody) putToSleep() {
	b.sleeping = true
	b.sleepTimer = 0
	b.LinearVelocity = mgl32.Vec3{}
	b.AngularVelocity = mgl32.Vec3{}
}

// belowSleepThreshold reports whether this body is slow enough to sleep.
func (b *RigidBody) belowSleepThreshold(linear, angular float32) bool {
	return b.LinearVelocity.Len() < linear && b.AngularVelocity.Len() < angular
}

// AttachShape adds a shape at a local offset/rotation. Static-only shapes
// (triangle mesh, height field) silently refuse attachment to non-static
// bodies. Attaching recomputes mass from shape densities when the body has
// no explicit mass.
func (b *RigidBody) AttachShape(s Shape, offset mgl32.Vec3, rotation mgl32.Quat) {
	if s == nil {
		return
	}
	if staticOnly(s) && b.bodyType != BodyStatic {
		return
	}
	b.shapes = append(b.shapes, ShapeAttachment{
		Shape:    s,
		Offset:   offset,
		Rotation: normalizedOrIdentity(rotation),
	})
	b.recomputeCenterOfMass()
	b.deriveMassFromShapes()
}

// ClearShapes detaches every shape and recomputes the mass properties.
func (b *RigidBody) ClearShapes() {
	b.shapes = b.shapes[:0]
	b.recomputeCenterOfMass()
	b.deriveMassFromShapes()
}

// DetachShape removes the first attachment of the given shape.
func (b *RigidBody) DetachShape(s Shape) {
	for i, att := range b.shapes {
		if att.Shape == s {
			b.shapes = append(b.shapes[:i], b.shapes[i+1:]...)
			b.recomputeCenterOfMass()
			b.deriveMassFromShapes()
			return
		}
	}
}

func (b *RigidBody) Shapes() []ShapeAttachment { return b.shapes }

func (b *RigidBody) recomputeCenterOfMass() {
	var weighted mgl32.Vec3
	var total float32
	for _, att := range b.shapes {
		p := att.Shape.MassProperties(att.Shape.Material().Density)
		if p.Mass <= 0 {
			continue
		}
		weighted = weighted.Add(att.Offset.Add(att.Rotation.Rotate(p.CenterOfMass)).Mul(p.Mass))
		total += p.Mass
	}
	if total > 0 {
		b.centerOfMass = weighted.Mul(1 / total)
	} else {
		b.centerOfMass = mgl32.Vec3{}
	}
}

// deriveMassFromShapes recomputes mass from shape densities unless the user
// set an explicit mass.
func (b *RigidBody) deriveMassFromShapes() {
	if b.explicitMass {
		return
	}
	var total float32
	for _, att := range b.shapes {
		total += att.Shape.MassProperties(att.Shape.Material().Density).Mass
	}
	b.setMassInternal(total)
}

// material returns the material of the first attached shape, or the default
// when the body has no shapes.
func (b *RigidBody) material() Material {
	if len(b.shapes) == 0 {
		return DefaultMaterial()
	}
	return b.shapes[0].Shape.Material()
}

// worldBounds returns the world AABB enclosing all attached shapes.
func (b *RigidBody) worldBounds() AABB {
	if len(b.shapes) == 0 {
		return AABB{Min: b.Position, Max: b.Position}
	}
	att := b.shapes[0]
	out := att.Shape.LocalBounds().
		Transformed(att.Offset, att.Rotation).
		Transformed(b.Position, b.Rotation)
	for _, att := range b.shapes[1:] {
		box := att.Shape.LocalBounds().
			Transformed(att.Offset, att.Rotation).
			Transformed(b.Position, b.Rotation)
		out = out.Union(box)
	}
	return out
}

// boundingRadius returns a radius enclosing all attached shapes, used for
// swept-sphere CCD.
func (b *RigidBody) boundingRadius() float32 {
	var r float32
	for _, att := range b.shapes {
		if l := att.Offset.Len() + att.Shape.BoundingRadius(); l > r {
			r = l
		}
	}
	return r
}

// integrateVelocity applies gravity, accumulated force/torque and damping.
func (b *RigidBody) integrateVelocity(gravity mgl32.Vec3, dt float32) {
	if b.bodyType != BodyDynamic || b.sleeping {
		return
	}
	// Bodies with zero inverse mass are immovable regardless of type;
	// gravity must not accelerate them either.
	if b.invMass > 0 {
		b.LinearVelocity = b.LinearVelocity.Add(gravity.Mul(b.GravityScale * dt))
		b.LinearVelocity = b.LinearVelocity.Add(b.force.Mul(b.invMass * dt))
		b.AngularVelocity = b.AngularVelocity.Add(b.torque.Mul(b.invMass * dt))
	}

	// Damping as multiplicative decay, clamped so large dt cannot reverse
	// the velocity.
	b.LinearVelocity = b.LinearVelocity.Mul(math32.Max(0, 1-b.LinearDamping*dt))
	b.AngularVelocity = b.AngularVelocity.Mul(math32.Max(0, 1-b.AngularDamping*dt))
}

// integratePosition advances position and orientation by the current
// velocities. The orientation update is the first-order quaternion
// derivative q += 0.5*dt*(0,w)*q, renormalized. First-order only, so it
// drifts under large angular velocity or timestep.
func (b *RigidBody) integratePosition(dt float32) {
	if b.bodyType == BodyStatic || b.sleeping {
		return
	}
	if !isFiniteVec(b.LinearVelocity) {
		b.LinearVelocity = mgl32.Vec3{}
	}
	if !isFiniteVec(b.AngularVelocity) {
		b.AngularVelocity = mgl32.Vec3{}
	}

	b.Position = b.Position.Add(b.LinearVelocity.Mul(dt))

	w := b.AngularVelocity
	if w.LenSqr() > 1e-12 {
		wq := mgl32.Quat{W: 0, V: w}
		dq := wq.Mul(b.Rotation)
		half := 0.5 * dt
		b.Rotation = mgl32.Quat{
			W: b.Rotation.W + dq.W*half,
			V: b.Rotation.V.Add(dq.V.Mul(half)),
		}.Normalize()
	}
}

// clearAccumulators zeroes force/torque after each integration.
func (b *RigidBody) clearAccumulators() {
	b.force = mgl32.Vec3{}
	b.torque = mgl32.Vec3{}
}

// shouldCollide applies layer, mask and group filtering between two bodies.
func shouldCollide(a, b *RigidBody) bool {
	if a.Group != 0 && a.Group == b.Group {
		return false
	}
	return a.Layer&b.Mask != 0 && b.Layer&a.Mask != 0
}
