package physics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CompoundChild is a shape positioned inside a CompoundShape's local frame.
type CompoundChild struct {
	Shape    Shape
	Offset   mgl32.Vec3
	Rotation mgl32.Quat
}

// CompoundShape aggregates child shapes with local offsets and rotations.
// Children are shared, never copied.
type CompoundShape struct {
	Children []CompoundChild
	mat      Material
}

func NewCompoundShape(children []CompoundChild, mat Material) *CompoundShape {
	c := &CompoundShape{
		Children: append([]CompoundChild(nil), children...),
		mat:      mat,
	}
	for i := range c.Children {
		c.Children[i].Rotation = normalizedOrIdentity(c.Children[i].Rotation)
	}
	return c
}

func (c *CompoundShape) Type() ShapeType    { return ShapeCompound }
func (c *CompoundShape) Material() Material { return c.mat }

func (c *CompoundShape) Volume() float32 {
	var v float32
	for _, ch := range c.Children {
		v += ch.Shape.Volume()
	}
	return v
}

func (c *CompoundShape) LocalBounds() AABB {
	if len(c.Children) == 0 {
		return AABB{}
	}
	out := c.Children[0].Shape.LocalBounds().Transformed(c.Children[0].Offset, c.Children[0].Rotation)
	for _, ch := range c.Children[1:] {
		out = out.Union(ch.Shape.LocalBounds().Transformed(ch.Offset, ch.Rotation))
	}
	return out
}

func (c *CompoundShape) BoundingRadius() float32 {
	var r float32
	for _, ch := range c.Children {
		if l := ch.Offset.Len() + ch.Shape.BoundingRadius(); l > r {
			r = l
		}
	}
	return r
}

// MassProperties combines the children's tensors about the compound's
// combined center of mass using the parallel-axis theorem:
//
//	mass    = Σ child mass
//	com     = mass-weighted average of child COMs
//	inertia = Σ (R·I·Rᵀ + m·(dot(r,r)·E − r⊗r))  with r = child com − com
func (c *CompoundShape) MassProperties(density float32) MassProperties {
	var total MassProperties
	type childMass struct {
		props MassProperties
		com   mgl32.Vec3 // child COM in compound frame
		rot   mgl32.Quat
	}

	parts := make([]childMass, 0, len(c.Children))
	var weighted mgl32.Vec3
	for _, ch := range c.Children {
		p := ch.Shape.MassProperties(density)
		if p.Mass <= 0 {
			continue
		}
		com := ch.Offset.Add(ch.Rotation.Rotate(p.CenterOfMass))
		parts = append(parts, childMass{props: p, com: com, rot: ch.Rotation})
		total.Mass += p.Mass
		weighted = weighted.Add(com.Mul(p.Mass))
	}
	if total.Mass <= 0 {
		return MassProperties{}
	}
	total.CenterOfMass = weighted.Mul(1 / total.Mass)

	var inertia mgl32.Mat3
	for _, part := range parts {
		r := part.rot.Mat4().Mat3()
		rotated := r.Mul3(part.props.Inertia).Mul3(r.Transpose())

		d := part.com.Sub(total.CenterOfMass)
		dd := d.Dot(d)
		m := part.props.Mass
		// Diagonal m·(r·r − rᵢ²), off-diagonal −m·rᵢ·rⱼ (symmetric).
		correction := mgl32.Mat3{
			m * (dd - d.X()*d.X()), -m * d.X() * d.Y(), -m * d.X() * d.Z(),
			-m * d.Y() * d.X(), m * (dd - d.Y()*d.Y()), -m * d.Y() * d.Z(),
			-m * d.Z() * d.X(), -m * d.Z() * d.Y(), m * (dd - d.Z()*d.Z()),
		}
		inertia = inertia.Add(rotated).Add(correction)
	}
	total.Inertia = inertia
	return total
}

// expand flattens the compound into world-posed leaf shapes for collision
// dispatch. Nested compounds recurse.
func (c *CompoundShape) expand(pos mgl32.Vec3, rot mgl32.Quat, out []posedShape) []posedShape {
	for _, ch := range c.Children {
		childPos := pos.Add(rot.Rotate(ch.Offset))
		childRot := rot.Mul(ch.Rotation)
		if nested, ok := ch.Shape.(*CompoundShape); ok {
			out = nested.expand(childPos, childRot, out)
			continue
		}
		out = append(out, posedShape{shape: ch.Shape, pos: childPos, rot: childRot})
	}
	return out
}
