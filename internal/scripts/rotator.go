// Package scripts holds small reusable gameplay components, typically
// attached next to a kinematic Rigidbody to drive moving level geometry.
package scripts

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/engine"
)

// Rotator spins its object at a constant angular speed. On a kinematic
// body the Rigidbody component pushes the new pose into the simulation,
// so the spin carries resting bodies with it.
type Rotator struct {
	engine.BaseComponent

	Axis  mgl32.Vec3 // zero defaults to +Y
	Speed float32    // degrees per second
}

func (r *Rotator) Update(deltaTime float32) {
	g := r.GetGameObject()
	if g == nil {
		return
	}
	axis := r.Axis
	if axis.LenSqr() < 1e-9 {
		axis = mgl32.Vec3{0, 1, 0}
	} else {
		axis = axis.Normalize()
	}
	step := mgl32.QuatRotate(mgl32.DegToRad(r.Speed*deltaTime), axis)
	g.Transform.Rotation = step.Mul(g.Transform.Rotation).Normalize()
}
