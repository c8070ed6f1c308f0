package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/render"
)

const (
	canvasCols   = 40
	canvasRows   = 20
	graphWindow  = 200
	minSpeed     = 0.25
	maxSpeed     = 8
	defaultSpeed = 1
)

type TickMsg time.Time

// Player replays a precomputed trajectory frame by frame. The trajectory
// is never re-integrated; speed only changes how many frames a tick advances.
type Player struct {
	traj    dynamo.Trajectory
	angles  []float64
	frames  []render.Point
	length  float64
	fps     int
	title   string
	frame   int
	speed   float64
	carry   float64
	running bool
	canvas  *Canvas
}

func NewPlayer(traj dynamo.Trajectory, length float64, fps int, title string) *Player {
	if fps <= 0 {
		fps = 60
	}
	return &Player{
		traj:    traj,
		angles:  traj.Angles(),
		frames:  render.Frames(traj, length),
		length:  length,
		fps:     fps,
		title:   title,
		speed:   defaultSpeed,
		running: true,
		canvas:  NewCanvas(canvasCols, canvasRows),
	}
}

func (p *Player) Frame() int { return p.frame }

func (p *Player) Running() bool { return p.running }

func (p *Player) Speed() float64 { return p.speed }

func (p *Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(p.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (p *Player) Init() tea.Cmd {
	return p.tick()
}

func (p *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case " ", "space":
			p.running = !p.running
		case "r":
			p.frame = 0
			p.carry = 0
		case "left", "h":
			p.seek(-1)
		case "right", "l":
			p.seek(1)
		case "+", "=":
			p.speed = math.Min(p.speed*2, maxSpeed)
		case "-", "_":
			p.speed = math.Max(p.speed/2, minSpeed)
		}
	case TickMsg:
		if p.running {
			p.advance()
		}
		return p, p.tick()
	}
	return p, nil
}

// advance moves the play head by speed frames, carrying fractional
// progress between ticks. Playback stops on the last frame.
func (p *Player) advance() {
	p.carry += p.speed
	n := int(p.carry)
	p.carry -= float64(n)
	p.seek(n)
	if p.frame == len(p.frames)-1 {
		p.running = false
	}
}

func (p *Player) seek(delta int) {
	p.frame += delta
	if p.frame < 0 {
		p.frame = 0
	}
	if last := len(p.frames) - 1; p.frame > last {
		p.frame = max(last, 0)
	}
}

func (p *Player) View() string {
	if len(p.frames) == 0 {
		return Subtle.Render("empty trajectory") + "\n"
	}

	p.canvas.Clear()
	vp := Viewport{Canvas: p.canvas, Extent: 1.2 * p.length}
	vp.DrawPendulum(render.Origin, p.frames[p.frame])

	left := canvasStyle.Render(p.canvas.String())
	right := statsStyle.Render(p.stats())

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(p.title) + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n" + helpStyle.Render("space pause • r restart • ←/→ step • +/- speed • q quit"))
	return b.String()
}

func (p *Player) stats() string {
	theta := p.angles[p.frame]
	var lines []string
	lines = append(lines,
		Field("time", "%.2f / %.2f s", p.traj.Time(p.frame), p.traj.Duration()),
		Field("theta", "%+.4f rad", theta),
		Field("frame", "%d / %d", p.frame+1, len(p.frames)),
		Field("speed", "%.2gx", p.speed),
		ProgressBar(float64(p.frame)/float64(max(len(p.frames)-1, 1)), 30),
	)
	if !p.running {
		lines = append(lines, Subtle.Render("paused"))
	}
	if g := p.graph(); g != "" {
		lines = append(lines, graphStyle.Render(g))
	}
	return strings.Join(lines, "\n")
}

// graph plots theta over the last graphWindow samples up to the play head.
func (p *Player) graph() string {
	lo := max(p.frame-graphWindow, 0)
	window := p.angles[lo : p.frame+1]
	if len(window) < 2 {
		return ""
	}
	for _, v := range window {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
	}
	return asciigraph.Plot(window,
		asciigraph.Height(8),
		asciigraph.Width(36),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("θ(t) last %d samples", len(window))),
	)
}
