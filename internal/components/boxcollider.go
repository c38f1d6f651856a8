package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

type BoxCollider struct {
	colliderBase
	Size mgl32.Vec3 // full extents
}

func NewBoxCollider(size mgl32.Vec3) *BoxCollider {
	return &BoxCollider{
		colliderBase: newColliderBase(),
		Size:         size,
	}
}

func (b *BoxCollider) BuildShape() physics.Shape {
	// Colliders scale with their GameObject.
	size := b.Size
	if g := b.GetGameObject(); g != nil {
		s := g.WorldScale()
		size = mgl32.Vec3{size.X() * s.X(), size.Y() * s.Y(), size.Z() * s.Z()}
	}
	return physics.NewBoxShape(size.Mul(0.5), b.Material)
}
