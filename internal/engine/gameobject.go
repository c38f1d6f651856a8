package engine

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

var nextUID atomic.Uint64

type GameObject struct {
	Name       string
	UID        uint64
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	Parent     *GameObject
	Children   []*GameObject
	components []Component
	started    bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		Name:       name,
		UID:        nextUID.Add(1),
		Active:     true,
		Transform:  NewTransform(),
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
	if g.started {
		c.Start()
	}
}

func (g *GameObject) RemoveComponent(c Component) {
	for i, other := range g.components {
		if other == c {
			g.components = append(g.components[:i], g.components[i+1:]...)
			c.SetGameObject(nil)
			return
		}
	}
}

// GetComponent returns the first component of the requested type, or the
// type's zero value when none is attached.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
	for _, child := range g.Children {
		child.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// WorldPosition composes the local position through the parent chain.
func (g *GameObject) WorldPosition() mgl32.Vec3 {
	if g.Parent == nil {
		return g.Transform.Position
	}
	parentPos := g.Parent.WorldPosition()
	parentRot := g.Parent.WorldRotation()
	parentScale := g.Parent.WorldScale()

	scaled := mgl32.Vec3{
		g.Transform.Position.X() * parentScale.X(),
		g.Transform.Position.Y() * parentScale.Y(),
		g.Transform.Position.Z() * parentScale.Z(),
	}
	return parentPos.Add(parentRot.Rotate(scaled))
}

// WorldRotation composes rotations down the parent chain.
func (g *GameObject) WorldRotation() mgl32.Quat {
	if g.Parent == nil {
		return g.Transform.Rotation
	}
	return g.Parent.WorldRotation().Mul(g.Transform.Rotation).Normalize()
}

func (g *GameObject) WorldScale() mgl32.Vec3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	ps := g.Parent.WorldScale()
	return mgl32.Vec3{
		ps.X() * g.Transform.Scale.X(),
		ps.Y() * g.Transform.Scale.Y(),
		ps.Z() * g.Transform.Scale.Z(),
	}
}
