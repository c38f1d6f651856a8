package backend

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

var errNotInitialized = errors.New("backend: not initialized")

// Builtin runs the in-process simulation from internal/physics.
type Builtin struct {
	world *physics.World
}

func NewBuiltin() *Builtin { return &Builtin{} }

func (b *Builtin) Initialize(cfg physics.WorldConfig) error {
	if b.world != nil {
		return errors.New("backend: already initialized")
	}
	b.world = physics.NewWorld(cfg)
	return nil
}

func (b *Builtin) Shutdown() { b.world = nil }

// World exposes the underlying simulation for hosts that know they are on
// the builtin backend.
func (b *Builtin) World() *physics.World { return b.world }

func (b *Builtin) Step(dt float32) int {
	if b.world == nil {
		return 0
	}
	return b.world.Step(dt)
}

func (b *Builtin) CreateShape(desc ShapeDesc) (physics.Shape, error) {
	switch desc.Type {
	case physics.ShapeSphere:
		return physics.NewSphereShape(desc.Radius, desc.Material), nil
	case physics.ShapeBox:
		return physics.NewBoxShape(desc.HalfExtents, desc.Material), nil
	case physics.ShapeCapsule:
		return physics.NewCapsuleShape(desc.Radius, desc.HalfHeight, desc.Material), nil
	case physics.ShapeCylinder:
		return physics.NewCylinderShape(desc.Radius, desc.HalfHeight, desc.Material), nil
	case physics.ShapeConvexHull:
		return physics.NewConvexHullShape(desc.Vertices, desc.Material), nil
	case physics.ShapeTriangleMesh:
		return physics.NewTriangleMeshShape(desc.Triangles, desc.Material), nil
	case physics.ShapeHeightField:
		return physics.NewHeightFieldShape(desc.Heights, desc.Rows, desc.Cols, desc.Scale, desc.Material), nil
	case physics.ShapeCompound:
		children := make([]physics.CompoundChild, 0, len(desc.Children))
		for i, child := range desc.Children {
			s, err := b.CreateShape(child.Shape)
			if err != nil {
				return nil, fmt.Errorf("compound child %d: %w", i, err)
			}
			children = append(children, physics.CompoundChild{
				Shape:    s,
				Offset:   child.Offset,
				Rotation: child.Rotation,
			})
		}
		return physics.NewCompoundShape(children, desc.Material), nil
	default:
		return nil, fmt.Errorf("backend: unknown shape type %v", desc.Type)
	}
}

func (b *Builtin) CreateBody(desc physics.BodyDesc) (physics.BodyID, error) {
	if b.world == nil {
		return physics.InvalidBodyID, errNotInitialized
	}
	return b.world.CreateBody(desc).ID(), nil
}

func (b *Builtin) RemoveBody(id physics.BodyID) {
	if b.world != nil {
		b.world.RemoveBody(id)
	}
}

func (b *Builtin) CreateConstraint(desc ConstraintDesc) (physics.Constraint, error) {
	if b.world == nil {
		return nil, errNotInitialized
	}
	bodyA, ok := b.world.Body(desc.BodyA)
	if !ok {
		return nil, fmt.Errorf("backend: unknown body %d", desc.BodyA)
	}
	var bodyB *physics.RigidBody
	if desc.BodyB != physics.InvalidBodyID {
		bodyB, ok = b.world.Body(desc.BodyB)
		if !ok {
			return nil, fmt.Errorf("backend: unknown body %d", desc.BodyB)
		}
	}

	// Constructors take body-local anchors; the descriptor speaks world
	// space. AnchorB stays a world point when anchoring against the world.
	anchorA := localAnchor(bodyA, desc.AnchorA)
	anchorB := desc.AnchorB
	if bodyB != nil {
		anchorB = localAnchor(bodyB, desc.AnchorB)
	}

	var c physics.Constraint
	switch desc.Type {
	case ConstraintFixed:
		c = physics.NewFixedConstraint(bodyA, bodyB, anchorA, anchorB)
	case ConstraintDistance:
		dc := physics.NewDistanceConstraint(bodyA, bodyB, anchorA, anchorB)
		if desc.MaxDistance > 0 {
			dc.SetDistanceRange(desc.MinDistance, desc.MaxDistance)
		}
		c = dc
	case ConstraintSpring:
		rest := desc.RestLength
		if rest <= 0 {
			rest = desc.AnchorA.Sub(desc.AnchorB).Len()
		}
		c = physics.NewSpringConstraint(bodyA, bodyB, anchorA, anchorB, rest, desc.Stiffness, desc.Damping)
	case ConstraintHinge:
		c = physics.NewHingeConstraint(bodyA, bodyB, anchorA, anchorB, desc.Axis)
	case ConstraintSlider:
		c = physics.NewSliderConstraint(bodyA, bodyB, anchorA, anchorB, desc.Axis)
	default:
		return nil, fmt.Errorf("backend: unknown constraint type %v", desc.Type)
	}

	if setter, ok := c.(interface{ SetBreakingForce(float32) }); ok && desc.BreakingForce > 0 {
		setter.SetBreakingForce(desc.BreakingForce)
	}
	b.world.AddConstraint(c)
	return c, nil
}

// localAnchor converts a world-space point into a body's local frame.
func localAnchor(b *physics.RigidBody, world mgl32.Vec3) mgl32.Vec3 {
	return b.Rotation.Inverse().Rotate(world.Sub(b.Position))
}

func (b *Builtin) RemoveConstraint(c physics.Constraint) {
	if b.world != nil {
		b.world.RemoveConstraint(c)
	}
}

func (b *Builtin) SyncBodyToBackend(id physics.BodyID, pos mgl32.Vec3, rot mgl32.Quat) bool {
	if b.world == nil {
		return false
	}
	body, ok := b.world.Body(id)
	if !ok {
		return false
	}
	body.SetPosition(pos)
	body.SetRotation(rot)
	return true
}

func (b *Builtin) SyncBodyFromBackend(id physics.BodyID) (mgl32.Vec3, mgl32.Quat, bool) {
	if b.world == nil {
		return mgl32.Vec3{}, mgl32.QuatIdent(), false
	}
	body, ok := b.world.Body(id)
	if !ok {
		return mgl32.Vec3{}, mgl32.QuatIdent(), false
	}
	return body.Position, body.Rotation, true
}

func (b *Builtin) Raycast(origin, dir mgl32.Vec3, maxDist float32, layerMask uint32) (physics.RaycastHit, bool) {
	if b.world == nil {
		return physics.RaycastHit{}, false
	}
	return b.world.Raycast(origin, dir, maxDist, layerMask)
}

func (b *Builtin) SphereCast(origin, dir mgl32.Vec3, radius, maxDist float32, layerMask uint32) (physics.RaycastHit, bool) {
	if b.world == nil {
		return physics.RaycastHit{}, false
	}
	return b.world.SphereCast(origin, dir, radius, maxDist, layerMask)
}

func (b *Builtin) OverlapSphere(center mgl32.Vec3, radius float32, layerMask uint32) []*physics.RigidBody {
	if b.world == nil {
		return nil
	}
	return b.world.OverlapSphere(center, radius, layerMask)
}

func (b *Builtin) SetContactHandler(h physics.ContactHandler) {
	if b.world != nil {
		b.world.SetContactHandler(h)
	}
}

var _ Backend = (*Builtin)(nil)
