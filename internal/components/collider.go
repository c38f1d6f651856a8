package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/engine"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

// Collider is implemented by components that contribute a collision shape
// to the Rigidbody on the same GameObject.
type Collider interface {
	engine.Component
	BuildShape() physics.Shape
	ShapeOffset() mgl32.Vec3
	ShapeRotation() mgl32.Quat
}

// colliderBase carries the placement and material shared by all colliders.
type colliderBase struct {
	engine.BaseComponent
	Offset   mgl32.Vec3
	Rotation mgl32.Quat
	Material physics.Material
}

func newColliderBase() colliderBase {
	return colliderBase{
		Rotation: mgl32.QuatIdent(),
		Material: physics.DefaultMaterial(),
	}
}

func (c *colliderBase) ShapeOffset() mgl32.Vec3 { return c.Offset }

func (c *colliderBase) ShapeRotation() mgl32.Quat {
	if c.Rotation.Len() < 1e-6 {
		return mgl32.QuatIdent()
	}
	return c.Rotation
}
