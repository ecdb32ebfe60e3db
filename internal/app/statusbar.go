package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/offview/internal/ui/styles"
)

// renderStatusBar shows fetch counters and the fencing mode on the left and
// the latest notice on the right. In debug mode the latest log entry wins.
func (m Model) renderStatusBar() string {
	mode := "fenced"
	if !m.ctrl.Fencing() {
		mode = "lww"
	}
	left := m.ctrl.Metrics().FormatDisplay() + " | " + mode

	right := m.notice
	if m.debugMode && m.lastLog != "" {
		right = strings.TrimSpace(m.lastLog)
	}

	// StatusBarStyle pads one cell on each side.
	inner := max(m.width-2, 1)
	left = styles.TruncateString(left, inner)

	if right != "" {
		room := inner - lipgloss.Width(left) - 2
		if room >= 8 {
			right = styles.TruncateString(right, room)
			gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
			left += strings.Repeat(" ", gap) + styles.MutedStyle.Render(right)
		}
	}
	return styles.StatusBarStyle.Width(m.width).Render(left)
}
