// Package help contains the help overlay component.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/offview/internal/keys"
	"github.com/zjrosen/offview/internal/ui/styles"
)

var (
	titleStyle   lipgloss.Style
	dividerStyle lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
	boxStyle     lipgloss.Style
	contentStyle lipgloss.Style
	footerStyle  lipgloss.Style
)

func init() {
	buildStyles()
	styles.RegisterStyleRebuilder(buildStyles)
}

func buildStyles() {
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.BorderHighlightFocusColor).
		PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
		Foreground(styles.BorderDefaultColor)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.BorderHighlightFocusColor).
		MarginTop(1)

	keyStyle = lipgloss.NewStyle().
		Foreground(styles.TextSecondaryColor).
		Width(11)

	descStyle = lipgloss.NewStyle().
		Foreground(styles.TextPrimaryColor)

	boxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderDefaultColor)

	contentStyle = lipgloss.NewStyle().
		Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
		Foreground(styles.TextMutedColor).
		MarginTop(1)
}

// StatusLegend explains the counters shown in the status bar.
func StatusLegend() [][2]string {
	return [][2]string{
		{"req", "requests started"},
		{"ok", "results applied"},
		{"err", "errors applied"},
		{"stale", "superseded results dropped"},
		{"fenced", "stale results are dropped"},
		{"lww", "last response wins"},
	}
}

// Model holds the help view state.
type Model struct {
	keys       keys.KeyMap
	searchKeys keys.SearchKeyMap
	width      int
	height     int
}

// New creates a new help view.
func New() Model {
	return Model{
		keys:       keys.DefaultKeyMap(),
		searchKeys: keys.DefaultSearchKeyMap(),
	}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help overlay (standalone, no background).
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box centered on top of a background view.
func (m Model) Overlay(background string) string {
	helpBox := m.renderContent()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}
	return placeCentered(m.width, m.height, helpBox, background)
}

// renderContent builds the help box content.
func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	var navCol strings.Builder
	navCol.WriteString(sectionStyle.Render("Navigation"))
	navCol.WriteString("\n")
	navCol.WriteString(renderKeyDesc("j/k", "up/down"))
	navCol.WriteString(m.renderBinding(m.keys.PageUp))
	navCol.WriteString(m.renderBinding(m.keys.PageDown))
	navCol.WriteString(m.renderBinding(m.keys.Top))
	navCol.WriteString(m.renderBinding(m.keys.Bottom))

	var actionsCol strings.Builder
	actionsCol.WriteString(sectionStyle.Render("Actions"))
	actionsCol.WriteString("\n")
	actionsCol.WriteString(m.renderBinding(m.keys.FocusSearch))
	actionsCol.WriteString(m.renderBinding(m.keys.Open))
	actionsCol.WriteString(m.renderBinding(m.keys.Back))
	actionsCol.WriteString(renderKeyDesc("click", "view details"))

	var displayCol strings.Builder
	displayCol.WriteString(sectionStyle.Render("Display"))
	displayCol.WriteString("\n")
	displayCol.WriteString(m.renderBinding(m.keys.CycleTheme))
	displayCol.WriteString(m.renderBinding(m.keys.ToggleFencing))
	displayCol.WriteString(m.renderBinding(m.keys.ToggleStatus))

	var generalCol strings.Builder
	generalCol.WriteString(sectionStyle.Render("General"))
	generalCol.WriteString("\n")
	generalCol.WriteString(m.renderBinding(m.keys.Help))
	generalCol.WriteString(m.renderBinding(m.keys.Quit))

	keybindingColumns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(navCol.String()),
		columnStyle.Render(actionsCol.String()),
		columnStyle.Render(displayCol.String()),
		generalCol.String(),
	)

	var searchCol strings.Builder
	searchCol.WriteString(sectionStyle.Render("Search Input"))
	searchCol.WriteString("\n")
	for _, b := range m.searchKeys.ShortHelp() {
		searchCol.WriteString(m.renderBinding(b))
	}

	var legendCol strings.Builder
	legendCol.WriteString(sectionStyle.Render("Status Bar"))
	legendCol.WriteString("\n")
	for _, entry := range StatusLegend() {
		legendCol.WriteString(renderKeyDesc(entry[0], entry[1]))
	}

	secondRow := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(searchCol.String()),
		legendCol.String(),
	)

	columnsWidth := max(lipgloss.Width(keybindingColumns), lipgloss.Width(secondRow))
	boxWidth := columnsWidth + 4 // Add horizontal padding (2 each side)

	body := contentStyle.Render(
		keybindingColumns + "\n" + secondRow + "\n" + footerStyle.Render("Press ? or Esc to close"),
	)

	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

func (m Model) renderBinding(b key.Binding) string {
	help := b.Help()
	return renderKeyDesc(help.Key, help.Desc)
}

func renderKeyDesc(key, desc string) string {
	return keyStyle.Render(key) + descStyle.Render(desc) + "\n"
}
