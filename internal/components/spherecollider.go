package components

import (
	"github.com/chewxy/math32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

type SphereCollider struct {
	colliderBase
	Radius float32
}

func NewSphereCollider(radius float32) *SphereCollider {
	return &SphereCollider{
		colliderBase: newColliderBase(),
		Radius:       radius,
	}
}

func (s *SphereCollider) BuildShape() physics.Shape {
	radius := s.Radius
	if g := s.GetGameObject(); g != nil {
		sc := g.WorldScale()
		// Spheres stay spheres; take the largest axis of a non-uniform scale.
		radius *= math32.Max(sc.X(), math32.Max(sc.Y(), sc.Z()))
	}
	return physics.NewSphereShape(radius, s.Material)
}
