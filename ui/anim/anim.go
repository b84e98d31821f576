// Package anim provides the gradient braille spinner shown while the TUI
// waits on the backend. Frames are pre-rendered per gradient pair and the
// label grows a cycling ellipsis.
package anim

import (
	"image/color"
	"math"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cf1-platform/cf1-tui/style"
)

const (
	fps           = 20
	frameDuration = time.Second / fps
	// ellipsisFrames is how many animation frames elapse per ellipsis state.
	ellipsisFrames = 8
)

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var ellipsisStates = []string{"", ".", "..", "..."}

// idCounter gives each spinner a unique ID so TickMsg events don't
// cross-talk between instances.
var idCounter atomic.Int64

// TickMsg is sent every animation frame. The ID field ensures that only
// the intended spinner responds.
type TickMsg struct {
	ID int64
}

// Model is a gradient-animated braille spinner. The gradient endpoints
// come from the active theme at construction time.
type Model struct {
	id          int64
	label       string
	spinning    bool
	frame       int
	ellipsisIdx int
	rendered    []string // one pre-rendered glyph per frame
}

// New creates a spinner with the given label.
func New(label string) Model {
	m := Model{
		id:    idCounter.Add(1),
		label: label,
	}
	m.rendered = renderFrames(style.GradColorA, style.GradColorB)
	return m
}

// Update advances the animation on each TickMsg addressed to this model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || !m.spinning {
		return m, nil
	}

	m.frame = (m.frame + 1) % len(frames)
	if m.frame%ellipsisFrames == 0 {
		m.ellipsisIdx = (m.ellipsisIdx + 1) % len(ellipsisStates)
	}

	return m, m.tick()
}

// View renders the current frame, or "" when stopped.
func (m Model) View() string {
	if !m.spinning {
		return ""
	}
	glyph := m.rendered[m.frame%len(m.rendered)]
	if m.label == "" {
		return glyph + ellipsisStates[m.ellipsisIdx]
	}
	return glyph + " " + m.label + ellipsisStates[m.ellipsisIdx]
}

// SetLabel changes the displayed label text.
func (m *Model) SetLabel(s string) { m.label = s }

// IsSpinning reports whether the animation is currently running.
func (m Model) IsSpinning() bool { return m.spinning }

// Start begins the animation. Use Tick() to schedule the first frame.
func (m *Model) Start() { m.spinning = true }

// Stop halts the animation; View returns "" until Start is called again.
func (m *Model) Stop() { m.spinning = false }

// Tick schedules the next animation frame. Subsequent frames are
// self-scheduled via Update.
func (m Model) Tick() tea.Cmd { return m.tick() }

func (m Model) tick() tea.Cmd {
	id := m.id
	return tea.Tick(frameDuration, func(time.Time) tea.Msg {
		return TickMsg{ID: id}
	})
}

// renderFrames pre-renders one colored string per braille glyph. A sine
// curve bounces the gradient between the endpoints instead of wrapping
// abruptly at the last frame.
func renderFrames(a, b color.Color) []string {
	n := len(frames)
	rendered := make([]string, n)
	for i, glyph := range frames {
		t := 0.0
		if n > 1 {
			t = (math.Sin(math.Pi*float64(i)/float64(n-1)) + 1) / 2
		}
		c := style.LerpColor(a, b, t)
		rendered[i] = lipgloss.NewStyle().Foreground(c).Render(glyph)
	}
	return rendered
}
