package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel is a rounded frame with a title on the left of the top edge and an
// optional status on the right:
//
//	╭─ Results ───────── 24 found ─╮
type Panel struct {
	Title   string
	Status  string
	Focused bool
}

// Render frames content in a width x height box. Content is clipped to the
// inner area; short content is padded so the right edge lines up.
func (p Panel) Render(content string, width, height int) string {
	border := lipgloss.RoundedBorder()
	var color lipgloss.TerminalColor = BorderDefaultColor
	if p.Focused {
		color = BorderHighlightFocusColor
	}
	edge := lipgloss.NewStyle().Foreground(color)

	inner := max(width-2, 1)
	rows := max(height-2, 1)

	body := lipgloss.NewStyle().
		Width(inner).
		MaxWidth(inner).
		Height(rows).
		MaxHeight(rows).
		Render(content)

	lines := strings.Split(body, "\n")
	var sb strings.Builder
	sb.WriteString(p.top(inner, edge, border))
	for i := range rows {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		sb.WriteString("\n" + edge.Render(border.Left) + line + edge.Render(border.Right))
	}
	sb.WriteString("\n" + edge.Render(border.BottomLeft+strings.Repeat(border.Bottom, inner)+border.BottomRight))
	return sb.String()
}

// top builds the top edge. Labels are dropped right to left when the
// panel is too narrow: the status first, then the title.
func (p Panel) top(inner int, edge lipgloss.Style, border lipgloss.Border) string {
	label := func(s string) string { return " " + s + " " }

	title, status := p.Title, p.Status
	// "─" before the title and after the status.
	room := inner - 2
	if status != "" && lipgloss.Width(label(title))+lipgloss.Width(label(status)) > room {
		status = ""
	}
	if title != "" && lipgloss.Width(label(title)) > room {
		title = TruncateString(title, room-2)
	}
	if room < 5 {
		title, status = "", ""
	}

	var sb strings.Builder
	sb.WriteString(edge.Render(border.TopLeft))
	used := 0
	if title != "" {
		sb.WriteString(edge.Render(border.Top))
		sb.WriteString(lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(p.Focused).Render(label(title)))
		used += 1 + lipgloss.Width(label(title))
	}
	statusWidth := 0
	if status != "" {
		statusWidth = lipgloss.Width(label(status)) + 1
	}
	sb.WriteString(edge.Render(strings.Repeat(border.Top, max(inner-used-statusWidth, 0))))
	if status != "" {
		sb.WriteString(MutedStyle.Render(label(status)))
		sb.WriteString(edge.Render(border.Top))
	}
	sb.WriteString(edge.Render(border.TopRight))
	return sb.String()
}
