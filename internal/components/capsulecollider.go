package components

import (
	"github.com/chewxy/math32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

type CapsuleCollider struct {
	colliderBase
	Radius float32
	Height float32 // total height including both caps
}

func NewCapsuleCollider(radius, height float32) *CapsuleCollider {
	return &CapsuleCollider{
		colliderBase: newColliderBase(),
		Radius:       radius,
		Height:       height,
	}
}

func (c *CapsuleCollider) BuildShape() physics.Shape {
	radius := c.Radius
	height := c.Height
	if g := c.GetGameObject(); g != nil {
		sc := g.WorldScale()
		radius *= math32.Max(sc.X(), sc.Z())
		height *= sc.Y()
	}
	halfHeight := math32.Max(0, height/2-radius)
	return physics.NewCapsuleShape(radius, halfHeight, c.Material)
}
