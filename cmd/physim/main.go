package main

import (
	"fmt"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/backend"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/config"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

var (
	configFile string
	preset     string
	duration   float32
	frameRate  int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "physim",
		Short: "rigid body physics sandbox",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a scene and print summary stats",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "yaml config file")
	runCmd.Flags().StringVar(&preset, "preset", "", "named preset (see the presets command)")
	runCmd.Flags().Float32Var(&duration, "time", 0, "override duration in seconds")

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "bouncing sphere demo with a height plot",
		RunE:  runDemo,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "step timing across body counts",
		RunE:  runBench,
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "live stepping view",
		RunE:  runWatch,
	}
	watchCmd.Flags().StringVar(&configFile, "config", "", "yaml config file")
	watchCmd.Flags().StringVar(&preset, "preset", "", "named preset")
	watchCmd.Flags().IntVar(&frameRate, "fps", 30, "display frame rate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	rootCmd.AddCommand(runCmd, demoCmd, benchCmd, watchCmd, presetsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (try: %v)", preset, config.ListPresets())
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if duration > 0 {
		cfg.Scene.Duration = duration
	}

	be := backend.NewBuiltin()
	if err := be.Initialize(cfg.ToWorldConfig()); err != nil {
		return err
	}
	defer be.Shutdown()

	scene, err := buildScene(be, cfg.Scene)
	if err != nil {
		return err
	}
	scene.Start()

	world := be.World()
	dt := world.Config().FixedTimeStep
	start := time.Now()
	steps := 0
	for t := float32(0); t < cfg.Scene.Duration; t += dt {
		steps += be.Step(dt)
		scene.Update(dt)
	}
	elapsed := time.Since(start)

	awake := 0
	for _, b := range world.Bodies() {
		if !b.IsSleeping() {
			awake++
		}
	}
	fmt.Printf("simulated %.1fs in %v (%d substeps)\n", cfg.Scene.Duration, elapsed.Round(time.Millisecond), steps)
	fmt.Printf("bodies: %d total, %d awake\n", world.BodyCount(), awake)
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	world := physics.NewWorld(physics.DefaultWorldConfig())

	world.CreateBody(physics.BodyDesc{
		Type:  physics.BodyStatic,
		Shape: physics.NewBoxShape(mglVec(50, 0.5, 50), physics.Material{Friction: 0.5, Restitution: 0.8, Density: 1}),
	})

	ball := world.CreateBody(physics.BodyDesc{
		Type:     physics.BodyDynamic,
		Position: mglVec(0, 10, 0),
		Shape:    physics.NewSphereShape(0.5, physics.Material{Friction: 0.3, Restitution: 0.8, Density: 1}),
	})

	dt := world.Config().FixedTimeStep
	var heights []float64
	for t := float32(0); t < 8; t += dt {
		world.Step(dt)
		heights = append(heights, float64(ball.Position.Y()))
	}

	graph := asciigraph.Plot(heights,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("sphere height vs time, restitution 0.8"),
	)
	fmt.Println(graph)
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	counts := []int{10, 50, 100, 250, 500, 1000}

	for _, count := range counts {
		world := physics.NewWorld(physics.DefaultWorldConfig())
		world.CreateBody(physics.BodyDesc{
			Type:  physics.BodyStatic,
			Shape: physics.NewBoxShape(mglVec(200, 0.5, 200), physics.DefaultMaterial()),
		})
		spawnBodies(world, count, 30)

		dt := world.Config().FixedTimeStep

		// Warm up.
		world.Step(dt)

		const iterations = 60
		start := time.Now()
		for i := 0; i < iterations; i++ {
			world.Step(dt)
		}
		perStep := time.Since(start) / iterations

		fmt.Printf("%5d bodies: %8s/step\n", count, perStep.Round(time.Microsecond))
	}
	return nil
}
