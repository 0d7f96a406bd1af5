package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/decay/internal/dynamo"
	"github.com/san-kum/decay/internal/integrators"
	"github.com/san-kum/decay/internal/viz"
)

const (
	thetaStep = 0.1
	dtStep    = 0.1
	tableRows = 6
	tickEvery = 120 * time.Millisecond
)

// Explorer reveals the theta-rule mesh function one step per tick and
// re-solves whenever theta or dt changes.
type Explorer struct {
	spec   dynamo.MeshSpec
	t      []float64
	u      []float64
	paused bool

	width  int
	height int
}

func NewExplorer(spec dynamo.MeshSpec) *Explorer {
	m := &Explorer{spec: spec, width: 80, height: 24}
	m.reset()
	return m
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Explorer) Init() tea.Cmd { return tick() }

func (m *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Explorer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.setTheta(m.spec.Theta - thetaStep)
	case "right", "l":
		m.setTheta(m.spec.Theta + thetaStep)
	case "0":
		m.setTheta(integrators.ThetaForwardEuler)
	case "5":
		m.setTheta(integrators.ThetaCrankNicolson)
	case "1":
		m.setTheta(integrators.ThetaBackwardEuler)
	case "up", "k":
		m.setDt(m.spec.Dt + dtStep)
	case "down", "j":
		m.setDt(m.spec.Dt - dtStep)
	case " ":
		m.paused = !m.paused
	case "r":
		m.reset()
	}
	return m, nil
}

func (m *Explorer) setTheta(theta float64) {
	theta = math.Round(theta*10) / 10
	m.spec.Theta = math.Max(0, math.Min(1, theta))
	m.reset()
}

func (m *Explorer) setDt(dt float64) {
	dt = math.Round(dt*10) / 10
	if dt < dtStep || dt > m.spec.T {
		return
	}
	m.spec.Dt = dt
	m.reset()
}

func (m *Explorer) reset() {
	nt := m.spec.Steps()
	if nt < 1 {
		nt = 1
	}
	m.t = dynamo.Linspace(0, m.spec.T, nt+1)
	m.u = append(make([]float64, 0, nt+1), m.spec.I)
}

// step advances the revealed mesh function by one interval.
func (m *Explorer) step() {
	if m.Done() {
		return
	}
	th := integrators.NewTheta(m.spec.Theta)
	m.u = append(m.u, th.Step(m.spec.A, m.u[len(m.u)-1], m.spec.Dt))
}

// Done reports whether every mesh point has been revealed.
func (m *Explorer) Done() bool { return len(m.u) == len(m.t) }

// Mesh returns the part of the mesh function computed so far.
func (m *Explorer) Mesh() dynamo.MeshFunction {
	n := len(m.u)
	return dynamo.MeshFunction{
		Spec: m.spec,
		T:    append([]float64(nil), m.t[:n]...),
		U:    append([]float64(nil), m.u...),
	}
}

func (m *Explorer) Spec() dynamo.MeshSpec { return m.spec }

func (m *Explorer) View() string {
	var b strings.Builder

	b.WriteString(viz.HeaderStyle.Render("decay explorer  u' = -a*u"))
	b.WriteString("\n\n")

	factor := integrators.NewTheta(m.spec.Theta).Factor(m.spec.A, m.spec.Dt)
	b.WriteString(viz.Label("theta", fmt.Sprintf("%.6g", m.spec.Theta)) + "\n")
	b.WriteString(viz.Label("dt", fmt.Sprintf("%.6g", m.spec.Dt)) + "\n")
	b.WriteString(viz.Label("Nt", fmt.Sprintf("%d", len(m.t)-1)) + "\n")
	amp := viz.MetricValue
	if factor < 0 {
		amp = viz.StatusWarn
	}
	b.WriteString(viz.MetricLabel.Render("factor") + amp.Render(fmt.Sprintf("%.6g", factor)) + "\n")

	status := viz.StatusRunning.Render("running")
	switch {
	case m.paused:
		status = viz.StatusPaused.Render("paused")
	case m.Done():
		status = viz.Subtle.Render("done")
	}
	b.WriteString(viz.MetricLabel.Render("status") + status + "\n\n")

	mesh := m.Mesh()
	if mesh.Len() >= 2 {
		w := m.width - 16
		if w < 20 {
			w = 20
		}
		b.WriteString(viz.Overlay(mesh, w, 10, viz.Caption("theta rule", m.spec.Dt)))
		b.WriteString("\n\n")
	}

	start := mesh.Len() - tableRows
	if start < 0 {
		start = 0
	}
	for n := start; n < mesh.Len(); n++ {
		b.WriteString(viz.FormatPoint(mesh.T[n], mesh.U[n]) + "\n")
	}

	b.WriteString("\n" + viz.Separator(40) + "\n")
	b.WriteString(viz.KeyHint.Render("←/→ theta  0/5/1 FE/CN/BE  ↑/↓ dt  space pause  r restart  q quit"))

	return viz.GlassPanel.Render(b.String())
}

// Run starts the explorer on the alternate screen.
func Run(spec dynamo.MeshSpec) error {
	p := tea.NewProgram(NewExplorer(spec), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
