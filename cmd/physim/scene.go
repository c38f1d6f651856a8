package main

import (
	"fmt"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/backend"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/components"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/config"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/engine"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/scripts"
)

func mglVec(x, y, z float32) mgl32.Vec3 { return mgl32.Vec3{x, y, z} }

// buildScene assembles the configured scene: a ground plane, an optional
// box stack and an optional sphere shower, all wired through GameObjects
// and components so transforms track the simulation.
func buildScene(be *backend.Builtin, sc config.SceneConfig) (*engine.Scene, error) {
	world := be.World()
	if world == nil {
		return nil, fmt.Errorf("backend not initialized")
	}
	world.SetContactHandler(components.DispatchContactEvent)

	scene := engine.NewScene("physim")
	mat := physics.Material{Friction: sc.Friction, Restitution: sc.Restitution, Density: 1}

	ground := engine.NewGameObject("Ground")
	groundCol := components.NewBoxCollider(mglVec(sc.GroundSize, 1, sc.GroundSize))
	groundCol.Material = mat
	ground.AddComponent(groundCol)
	ground.AddComponent(components.NewRigidbody(world, physics.BodyStatic))
	scene.AddGameObject(ground)

	for i := 0; i < sc.StackHeight; i++ {
		box := engine.NewGameObject(fmt.Sprintf("Box%d", i))
		box.Transform.Position = mglVec(0, 1.05*float32(i)+1, 0)
		col := components.NewBoxCollider(mglVec(1, 1, 1))
		col.Material = mat
		box.AddComponent(col)
		rb := components.NewRigidbody(world, physics.BodyDynamic)
		rb.Mass = 1
		box.AddComponent(rb)
		scene.AddGameObject(box)
	}

	if sc.SpinnerSpeed != 0 {
		spinner := engine.NewGameObject("Spinner")
		spinner.Transform.Position = mglVec(0, 2, 0)
		col := components.NewBoxCollider(mglVec(8, 0.5, 2))
		col.Material = mat
		spinner.AddComponent(col)
		// The script runs before the Rigidbody so the body sees this
		// frame's pose, not the previous one.
		spinner.AddComponent(&scripts.Rotator{Speed: sc.SpinnerSpeed})
		spinner.AddComponent(components.NewRigidbody(world, physics.BodyKinematic))
		scene.AddGameObject(spinner)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < sc.Spheres; i++ {
		sphere := engine.NewGameObject(fmt.Sprintf("Sphere%d", i))
		sphere.Transform.Position = mglVec(
			rng.Float32()*10-5,
			sc.SpawnHeight+rng.Float32()*5,
			rng.Float32()*10-5,
		)
		col := components.NewSphereCollider(0.4)
		col.Material = mat
		sphere.AddComponent(col)
		rb := components.NewRigidbody(world, physics.BodyDynamic)
		rb.Mass = 1
		sphere.AddComponent(rb)
		scene.AddGameObject(sphere)
	}

	return scene, nil
}

// spawnBodies drops randomly placed spheres straight into the world,
// bypassing the scene layer. Used by bench and watch.
func spawnBodies(world *physics.World, count int, spawnSize float32) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < count; i++ {
		world.CreateBody(physics.BodyDesc{
			Type: physics.BodyDynamic,
			Position: mglVec(
				rng.Float32()*spawnSize-spawnSize/2,
				5+rng.Float32()*spawnSize/2,
				rng.Float32()*spawnSize-spawnSize/2,
			),
			Shape: physics.NewSphereShape(0.4+rng.Float32()*0.3, physics.DefaultMaterial()),
		})
	}
}
