package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/yzscodehub/RenderVerseX-sub004/internal/backend"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/engine"
	"github.com/yzscodehub/RenderVerseX-sub004/internal/physics"
)

const energyHistoryCap = 300

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

type watchModel struct {
	world   *physics.World
	scene   *engine.Scene
	simTime float32
	paused  bool
	energy  []float64
	fps     int
}

func (m watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "g":
			g := m.world.Gravity()
			m.world.SetGravity(g.Mul(-1))
		}
		return m, nil

	case tickMsg:
		if !m.paused {
			frame := float32(1) / float32(m.fps)
			m.world.Step(frame)
			if m.scene != nil {
				m.scene.Update(frame)
			}
			m.simTime += frame

			m.energy = append(m.energy, m.kineticEnergy())
			if len(m.energy) > energyHistoryCap {
				m.energy = m.energy[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m watchModel) kineticEnergy() float64 {
	var e float32
	for _, b := range m.world.Bodies() {
		if b.Type() != physics.BodyDynamic || b.IsSleeping() {
			continue
		}
		v2 := b.LinearVelocity.LenSqr()
		e += 0.5 * b.Mass() * v2
	}
	return float64(e)
}

func (m watchModel) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("physim"))
	b.WriteString("\n")

	awake, sleeping := 0, 0
	for _, body := range m.world.Bodies() {
		if body.IsSleeping() {
			sleeping++
		} else {
			awake++
		}
	}

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("time", fmt.Sprintf("%.2fs", m.simTime))
	row("steps", fmt.Sprintf("%d", m.world.StepCount()))
	row("bodies", fmt.Sprintf("%d (%d awake, %d asleep)", m.world.BodyCount(), awake, sleeping))
	row("constraints", fmt.Sprintf("%d", len(m.world.Constraints())))
	row("gravity", fmt.Sprintf("%.2f", m.world.Gravity().Y()))
	if m.paused {
		row("state", "paused")
	}

	if len(m.energy) > 1 {
		graph := asciigraph.Plot(m.energy,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("kinetic energy"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause · g flip gravity · q quit"))
	return b.String()
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
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

	if frameRate <= 0 {
		frameRate = 30
	}
	model := watchModel{
		world: be.World(),
		scene: scene,
		fps:   frameRate,
	}
	_, err = tea.NewProgram(model).Run()
	return err
}
