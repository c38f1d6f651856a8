package scripts

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/engine"
)

func TestRotatorQuarterTurn(t *testing.T) {
	g := engine.NewGameObject("spinner")
	rot := &Rotator{Speed: 90}
	g.AddComponent(rot)
	g.Start()

	// 90 deg/s for one second in small steps.
	for i := 0; i < 100; i++ {
		g.Update(0.01)
	}

	fwd := g.Transform.Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	if fwd.X() > 0.05 || fwd.Z() > -0.9 {
		t.Errorf("expected +X rotated onto -Z after a quarter turn, got %v", fwd)
	}
}

func TestOscillatorStaysOnAxisWithinAmplitude(t *testing.T) {
	g := engine.NewGameObject("platform")
	g.Transform.Position = mgl32.Vec3{0, 3, 0}
	g.AddComponent(&Oscillator{Amplitude: 2, Frequency: 0.5})
	g.Start()

	var maxX float32
	for i := 0; i < 300; i++ {
		g.Update(1.0 / 60.0)
		x := g.Transform.Position.X()
		if x > maxX {
			maxX = x
		}
		if y := g.Transform.Position.Y(); y != 3 {
			t.Fatalf("oscillator moved off axis, y = %v", y)
		}
		if x > 2.001 || x < -2.001 {
			t.Fatalf("oscillator exceeded amplitude, x = %v", x)
		}
	}
	if maxX < 1.5 {
		t.Errorf("oscillator never approached its amplitude, max x = %v", maxX)
	}
}
