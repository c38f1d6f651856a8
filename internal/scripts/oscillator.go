package scripts

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/engine"
)

// Oscillator moves its object back and forth along an axis, the classic
// moving-platform script. The center of the motion is captured at Start.
type Oscillator struct {
	engine.BaseComponent

	Axis      mgl32.Vec3 // zero defaults to +X
	Amplitude float32    // units either side of the start position
	Frequency float32    // full cycles per second
	Phase     float32    // radians, offsets platforms sharing a frequency

	center mgl32.Vec3
	clock  float32
}

func (o *Oscillator) Start() {
	if g := o.GetGameObject(); g != nil {
		o.center = g.Transform.Position
	}
}

func (o *Oscillator) Update(deltaTime float32) {
	g := o.GetGameObject()
	if g == nil {
		return
	}
	axis := o.Axis
	if axis.LenSqr() < 1e-9 {
		axis = mgl32.Vec3{1, 0, 0}
	} else {
		axis = axis.Normalize()
	}
	o.clock += deltaTime
	offset := o.Amplitude * math32.Sin(2*math32.Pi*o.Frequency*o.clock+o.Phase)
	g.Transform.Position = o.center.Add(axis.Mul(offset))
}
