// Package common — keybind helpers shared across CF1 TUI components.
package common

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/cf1-platform/cf1-tui/style"
)

// KeyHelp renders a formatted key-binding help line for the status bar.
// Each binding is rendered as:
//
//	[key]  description
//
// Bindings whose Enabled() is false are omitted.
func KeyHelp(bindings ...key.Binding) string {
	var parts []string
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		keys := strings.Join(b.Keys(), "/")
		keyStr := style.StatusSegment.Render("[" + keys + "]")
		helpStr := style.Faint.Render(" " + b.Help().Desc)
		parts = append(parts, keyStr+helpStr)
	}
	return strings.Join(parts, style.Hint.Render("  ·  "))
}
