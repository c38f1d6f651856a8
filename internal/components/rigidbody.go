package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/engine"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

// Rigidbody binds a GameObject to a simulated body. On Start it collects
// every Collider on the same GameObject, creates the body at the object's
// world pose and attaches the shapes. Each Update it syncs the transform:
// dynamic bodies drive the transform, kinematic bodies follow it.
type Rigidbody struct {
	engine.BaseComponent

	Type           physics.BodyType
	Mass           float32 // <= 0 derives mass from shape densities
	LinearDamping  float32
	AngularDamping float32
	GravityScale   float32
	Layer          uint32
	Mask           uint32
	Group          int32
	IsTrigger      bool
	NeverSleep     bool

	OnCollisionEnter engine.EventWithArg[*engine.GameObject]
	OnCollisionExit  engine.EventWithArg[*engine.GameObject]
	OnTriggerEnter   engine.EventWithArg[*engine.GameObject]
	OnTriggerExit    engine.EventWithArg[*engine.GameObject]

	world *physics.World
	body  *physics.RigidBody
}

func NewRigidbody(world *physics.World, bodyType physics.BodyType) *Rigidbody {
	return &Rigidbody{
		Type:         bodyType,
		Mass:         1.0,
		GravityScale: 1.0,
		world:        world,
	}
}

func (r *Rigidbody) Start() {
	if r.body != nil || r.world == nil {
		return
	}
	g := r.GetGameObject()
	if g == nil {
		return
	}

	r.body = r.world.CreateBody(physics.BodyDesc{
		Type:           r.Type,
		Position:       g.WorldPosition(),
		Rotation:       g.WorldRotation(),
		Mass:           r.Mass,
		LinearDamping:  r.LinearDamping,
		AngularDamping: r.AngularDamping,
		GravityScale:   r.GravityScale,
		Layer:          r.Layer,
		Mask:           r.Mask,
		Group:          r.Group,
		IsTrigger:      r.IsTrigger,
		NeverSleep:     r.NeverSleep,
	})
	r.body.UserData = g

	r.attachColliders(g)
}

func (r *Rigidbody) attachColliders(g *engine.GameObject) {
	for _, c := range g.Components() {
		if col, ok := c.(Collider); ok {
			r.body.AttachShape(col.BuildShape(), col.ShapeOffset(), col.ShapeRotation())
		}
	}
}

// RebuildShapes replaces the body's attached shapes with freshly built ones
// from the current Collider components, picking up size or material edits
// made after Start.
func (r *Rigidbody) RebuildShapes() {
	if r.body == nil {
		return
	}
	g := r.GetGameObject()
	if g == nil {
		return
	}
	r.body.ClearShapes()
	r.attachColliders(g)
	r.body.Wake()
}

func (r *Rigidbody) Update(deltaTime float32) {
	if r.body == nil {
		return
	}
	g := r.GetGameObject()

	switch r.Type {
	case physics.BodyKinematic, physics.BodyStatic:
		// The transform drives the body.
		r.body.SetPosition(g.WorldPosition())
		r.body.SetRotation(g.WorldRotation())
	default:
		// The body drives the transform.
		setWorldPose(g, r.body.Position, r.body.Rotation)
	}
}

// setWorldPose writes a world pose back into the (possibly parented) local
// transform.
func setWorldPose(g *engine.GameObject, pos mgl32.Vec3, rot mgl32.Quat) {
	if g.Parent == nil {
		g.Transform.Position = pos
		g.Transform.Rotation = rot
		return
	}
	parentPos := g.Parent.WorldPosition()
	parentRot := g.Parent.WorldRotation()
	parentScale := g.Parent.WorldScale()

	local := parentRot.Conjugate().Rotate(pos.Sub(parentPos))
	g.Transform.Position = mgl32.Vec3{
		safeDiv(local.X(), parentScale.X()),
		safeDiv(local.Y(), parentScale.Y()),
		safeDiv(local.Z(), parentScale.Z()),
	}
	g.Transform.Rotation = parentRot.Conjugate().Mul(rot).Normalize()
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return a
	}
	return a / b
}

// Body exposes the underlying simulated body; nil before Start.
func (r *Rigidbody) Body() *physics.RigidBody { return r.body }

// Detach removes the body from the world, e.g. when destroying the object.
func (r *Rigidbody) Detach() {
	if r.body == nil {
		return
	}
	r.world.RemoveBody(r.body.ID())
	r.body = nil
}

func (r *Rigidbody) ApplyForce(f mgl32.Vec3) {
	if r.body != nil {
		r.body.ApplyForce(f)
	}
}

func (r *Rigidbody) ApplyImpulse(impulse mgl32.Vec3) {
	if r.body != nil {
		r.body.ApplyImpulse(impulse)
	}
}

func (r *Rigidbody) SetLinearVelocity(v mgl32.Vec3) {
	if r.body != nil {
		r.body.SetLinearVelocity(v)
	}
}

// DispatchContactEvent routes a physics contact event to the Rigidbody
// events and handler components of both involved GameObjects. Bodies
// without a GameObject owner are ignored.
func DispatchContactEvent(ev physics.ContactEvent) {
	ga, _ := ev.BodyA.UserData.(*engine.GameObject)
	gb, _ := ev.BodyB.UserData.(*engine.GameObject)
	if ga == nil || gb == nil {
		return
	}
	dispatchToObject(ga, gb, ev)
	dispatchToObject(gb, ga, ev)
}

func dispatchToObject(g, other *engine.GameObject, ev physics.ContactEvent) {
	rb := engine.GetComponent[*Rigidbody](g)

	switch {
	case ev.IsTrigger && ev.Type == physics.ContactEnter:
		if rb != nil {
			rb.OnTriggerEnter.Invoke(other)
		}
		for _, c := range g.Components() {
			if h, ok := c.(engine.TriggerHandler); ok {
				h.OnTriggerEnter(other)
			}
		}
	case ev.IsTrigger && ev.Type == physics.ContactExit:
		if rb != nil {
			rb.OnTriggerExit.Invoke(other)
		}
		for _, c := range g.Components() {
			if h, ok := c.(engine.TriggerHandler); ok {
				h.OnTriggerExit(other)
			}
		}
	case ev.Type == physics.ContactEnter:
		if rb != nil {
			rb.OnCollisionEnter.Invoke(other)
		}
		for _, c := range g.Components() {
			if h, ok := c.(engine.CollisionHandler); ok {
				h.OnCollisionEnter(other)
			}
		}
	case ev.Type == physics.ContactExit:
		if rb != nil {
			rb.OnCollisionExit.Invoke(other)
		}
		for _, c := range g.Components() {
			if h, ok := c.(engine.CollisionHandler); ok {
				h.OnCollisionExit(other)
			}
		}
	}
}
