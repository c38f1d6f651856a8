package engine

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a translation-rotation-scale pose. Rotation is a quaternion;
// scale applies before rotation.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// TransformPoint converts a local point to this transform's space.
func (t Transform) TransformPoint(p mgl32.Vec3) mgl32.Vec3 {
	scaled := mgl32.Vec3{p.X() * t.Scale.X(), p.Y() * t.Scale.Y(), p.Z() * t.Scale.Z()}
	return t.Position.Add(t.Rotation.Rotate(scaled))
}

// TransformDirection rotates a local direction into this transform's space,
// ignoring position and scale.
func (t Transform) TransformDirection(d mgl32.Vec3) mgl32.Vec3 {
	return t.Rotation.Rotate(d)
}

func (t Transform) Forward() mgl32.Vec3 { return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1}) }
func (t Transform) Right() mgl32.Vec3   { return t.Rotation.Rotate(mgl32.Vec3{1, 0, 0}) }
func (t Transform) Up() mgl32.Vec3      { return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0}) }
