package physics

import "github.com/chewxy/math32"

// Material describes the surface and bulk properties of a collision shape.
type Material struct {
	Friction    float32 // 0 = ice, 1 = very rough
	Restitution float32 // 0 = no bounce, 1 = perfect bounce
	Density     float32 // kg per cubic unit
}

func DefaultMaterial() Material {
	return Material{
		Friction:    0.5,
		Restitution: 0.2,
		Density:     1.0,
	}
}

// CombineRestitution mixes two restitution values by arithmetic mean.
func CombineRestitution(a, b Material) float32 {
	return (a.Restitution + b.Restitution) / 2
}

// CombineFriction mixes two friction values by geometric mean, so a
// frictionless surface stays frictionless regardless of the other side.
func CombineFriction(a, b Material) float32 {
	return math32.Sqrt(a.Friction * b.Friction)
}
