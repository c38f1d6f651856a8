package components

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

// MeshCollider builds a static triangle mesh shape. Only valid on static
// bodies; the physics layer refuses it elsewhere.
type MeshCollider struct {
	colliderBase
	Triangles []physics.Triangle
}

func NewMeshCollider(triangles []physics.Triangle) *MeshCollider {
	return &MeshCollider{
		colliderBase: newColliderBase(),
		Triangles:    triangles,
	}
}

func (m *MeshCollider) BuildShape() physics.Shape {
	tris := m.Triangles
	if g := m.GetGameObject(); g != nil {
		s := g.WorldScale()
		if s != (mgl32.Vec3{1, 1, 1}) {
			scaled := make([]physics.Triangle, len(tris))
			for i, tri := range tris {
				scaled[i] = physics.Triangle{
					A: scaleVec(tri.A, s),
					B: scaleVec(tri.B, s),
					C: scaleVec(tri.C, s),
				}
			}
			tris = scaled
		}
	}
	return physics.NewTriangleMeshShape(tris, m.Material)
}

func scaleVec(v, s mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X() * s.X(), v.Y() * s.Y(), v.Z() * s.Z()}
}
