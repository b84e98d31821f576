// Package toast provides auto-dismissing notification toasts for the CF1 TUI.
package toast

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/cf1-platform/cf1-tui/style"
)

// Level classifies toast severity.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

const (
	maxToasts = 3
	toastTTL  = 4 * time.Second
)

type toast struct {
	message string
	level   Level
	expiry  time.Time
}

// Model manages a queue of auto-dismissing toast notifications.
type Model struct {
	queue []toast
	now   func() time.Time
}

// New creates an empty toast queue.
func New() Model {
	return Model{now: time.Now}
}

// Add enqueues a toast notification. Oldest toasts are dropped when the queue
// exceeds maxToasts.
func (m *Model) Add(message string, level Level) {
	m.queue = append(m.queue, toast{
		message: message,
		level:   level,
		expiry:  m.now().Add(toastTTL),
	})
	if len(m.queue) > maxToasts {
		m.queue = m.queue[len(m.queue)-maxToasts:]
	}
}

// Info enqueues an informational toast.
func (m *Model) Info(message string) { m.Add(message, LevelInfo) }

// Error enqueues an error toast.
func (m *Model) Error(message string) { m.Add(message, LevelError) }

// Tick prunes expired toasts. Call on every tick message.
func (m *Model) Tick() {
	now := m.now()
	alive := m.queue[:0]
	for _, t := range m.queue {
		if now.Before(t.expiry) {
			alive = append(alive, t)
		}
	}
	m.queue = alive
}

// HasToasts reports whether any toasts are currently visible.
func (m Model) HasToasts() bool {
	return len(m.queue) > 0
}

// View renders visible toasts as right-aligned colored lines.
func (m Model) View(termWidth int) string {
	if len(m.queue) == 0 {
		return ""
	}
	var lines []string
	for _, t := range m.queue {
		icon, col := iconColor(t.level)
		text := fmt.Sprintf(" %s %s ", icon, t.message)
		rendered := lipgloss.NewStyle().Foreground(col).Render(text)
		w := lipgloss.Width(rendered)
		pad := termWidth - w
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, strings.Repeat(" ", pad)+rendered)
	}
	return strings.Join(lines, "\n")
}

// iconColor returns the icon rune and color.Color for the given level.
// style.Success/Warning/Error are already color.Color values.
func iconColor(level Level) (string, color.Color) {
	switch level {
	case LevelWarning:
		return "⚠", style.Warning // ⚠
	case LevelError:
		return "✘", style.Error // ✘
	default:
		return "✓", style.Success // ✓
	}
}
