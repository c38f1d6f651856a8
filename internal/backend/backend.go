// Package backend abstracts the physics implementation behind an interface
// so hosts can swap the builtin simulation for an external engine bridge.
// The active backend is passed to consumers explicitly; there is no global
// registry.
package backend

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

// ShapeDesc describes a collision shape independent of the implementation.
// Fields are used according to Type; the rest are ignored.
type ShapeDesc struct {
	Type        physics.ShapeType
	Radius      float32    // sphere, capsule, cylinder
	HalfHeight  float32    // capsule (cylindrical section), cylinder
	HalfExtents mgl32.Vec3 // box
	Vertices    []mgl32.Vec3       // convex hull
	Triangles   []physics.Triangle // triangle mesh
	Heights     []float32          // height field, row-major
	Rows, Cols  int
	Scale       mgl32.Vec3
	Children    []ShapeChildDesc // compound
	Material    physics.Material
}

type ShapeChildDesc struct {
	Shape    ShapeDesc
	Offset   mgl32.Vec3
	Rotation mgl32.Quat
}

// ConstraintType selects which joint CreateConstraint builds.
type ConstraintType int

const (
	ConstraintFixed ConstraintType = iota
	ConstraintDistance
	ConstraintSpring
	ConstraintHinge
	ConstraintSlider
)

// ConstraintDesc describes a joint between two bodies. BodyB may be
// InvalidBodyID to anchor against the world, in which case AnchorB is a
// world-space point.
type ConstraintDesc struct {
	Type    ConstraintType
	BodyA   physics.BodyID
	BodyB   physics.BodyID
	AnchorA mgl32.Vec3 // world space at creation time
	AnchorB mgl32.Vec3
	Axis    mgl32.Vec3 // hinge/slider axis, world space

	MinDistance float32 // distance
	MaxDistance float32

	RestLength float32 // spring; 0 = current anchor separation
	Stiffness  float32
	Damping    float32

	BreakingForce float32 // 0 = unbreakable
}

// Backend is the simulation interface hosts program against.
type Backend interface {
	// Initialize prepares the backend with the given configuration. It
	// must be called once before any other method.
	Initialize(cfg physics.WorldConfig) error
	Shutdown()

	// Step advances the simulation, returning the substeps taken.
	Step(dt float32) int

	CreateShape(desc ShapeDesc) (physics.Shape, error)
	CreateBody(desc physics.BodyDesc) (physics.BodyID, error)
	RemoveBody(id physics.BodyID)

	CreateConstraint(desc ConstraintDesc) (physics.Constraint, error)
	RemoveConstraint(c physics.Constraint)

	// SyncBodyToBackend pushes an externally driven pose into the body.
	SyncBodyToBackend(id physics.BodyID, pos mgl32.Vec3, rot mgl32.Quat) bool
	// SyncBodyFromBackend reads the simulated pose back out.
	SyncBodyFromBackend(id physics.BodyID) (pos mgl32.Vec3, rot mgl32.Quat, ok bool)

	Raycast(origin, dir mgl32.Vec3, maxDist float32, layerMask uint32) (physics.RaycastHit, bool)
	SphereCast(origin, dir mgl32.Vec3, radius, maxDist float32, layerMask uint32) (physics.RaycastHit, bool)
	OverlapSphere(center mgl32.Vec3, radius float32, layerMask uint32) []*physics.RigidBody

	SetContactHandler(h physics.ContactHandler)
}
