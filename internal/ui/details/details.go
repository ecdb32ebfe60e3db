// Package details contains the product detail view component.
package details

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/offview/internal/keys"
	"github.com/zjrosen/offview/internal/product"
	"github.com/zjrosen/offview/internal/ui/markdown"
	"github.com/zjrosen/offview/internal/ui/styles"
)

// maxContentWidth caps the text column on very wide terminals.
const maxContentWidth = 100

// Model holds the detail view state.
type Model struct {
	detail        *product.Detail
	viewport      viewport.Model
	mdRenderer    *markdown.Renderer
	markdownStyle string // "dark" or "light"
	keys          keys.KeyMap
	width         int
	height        int
	ready         bool
}

// New creates an empty detail view.
func New() Model {
	return Model{
		keys:          keys.DefaultKeyMap(),
		markdownStyle: "dark",
	}
}

// SetMarkdownStyle sets the markdown rendering style ("dark" or "light").
func (m Model) SetMarkdownStyle(style string) Model {
	if style == m.markdownStyle {
		return m
	}
	m.markdownStyle = style
	// Clear renderer to force recreation with new style
	m.mdRenderer = nil
	return m.refresh()
}

// SetDetail replaces the displayed product. nil shows nothing.
// The scroll position resets when a different product is shown.
func (m Model) SetDetail(d *product.Detail) Model {
	changed := (m.detail == nil) != (d == nil) || (d != nil && m.detail.Code != d.Code)
	if d != nil {
		copied := *d
		d = &copied
	}
	m.detail = d
	m = m.refresh()
	if changed && m.ready {
		m.viewport.GotoTop()
	}
	return m
}

// Detail returns the displayed product, if any.
func (m Model) Detail() *product.Detail {
	return m.detail
}

// SetSize updates dimensions and initializes viewport.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height

	contentWidth := m.contentWidth()
	footerHeight := 1
	viewportHeight := max(height-footerHeight, 1)

	if !m.ready {
		m.viewport = viewport.New(contentWidth, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = viewportHeight
	}
	return m.refresh()
}

func (m Model) contentWidth() int {
	return min(max(m.width-2, 10), maxContentWidth)
}

// refresh re-renders content into the viewport, keeping the scroll offset.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	width := m.contentWidth()
	if m.mdRenderer == nil || m.mdRenderer.Width() != width {
		if r, err := markdown.New(width, m.markdownStyle); err == nil {
			m.mdRenderer = r
		}
	}
	m.viewport.SetContent(m.renderContent())
	return m
}

// Update handles scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keys.PageDown):
			m.viewport.PageDown()
			return m, nil
		case key.Matches(msg, m.keys.PageUp):
			m.viewport.PageUp()
			return m, nil
		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if !m.ready || m.width == 0 {
		return ""
	}
	body := lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.renderFooter())
	return lipgloss.NewStyle().Padding(0, 1).Render(body)
}

// YOffset returns the viewport scroll offset.
func (m Model) YOffset() int {
	return m.viewport.YOffset
}

func (m Model) renderContent() string {
	d := m.detail
	if d == nil {
		return ""
	}

	width := m.contentWidth()
	var sb strings.Builder

	sb.WriteString(styles.ProductNameStyle.Render(wordwrap.String(d.DisplayName(), width)))
	sb.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Width(8)
	if d.Brand != nil && *d.Brand != "" {
		sb.WriteString(labelStyle.Render("Brand:"))
		sb.WriteString(styles.ProductBrandStyle.Render(*d.Brand))
		sb.WriteString("\n")
	}
	sb.WriteString(labelStyle.Render("Code:"))
	sb.WriteString(styles.ProductCodeStyle.Render(d.Code))
	sb.WriteString("\n\n")

	sb.WriteString(m.renderIngredients())
	return sb.String()
}

// renderIngredients renders "Ingredients: ..." with markdown styling.
// OpenFoodFacts marks allergens with underscores, which renders as emphasis.
func (m Model) renderIngredients() string {
	text := "Ingredients: " + m.detail.Ingredients()
	if m.detail.IngredientsText != nil && m.mdRenderer != nil {
		if rendered, err := m.mdRenderer.Render(text); err == nil {
			return rendered
		}
	}
	// Fallback: plain wrapped text
	return wordwrap.String(text, m.contentWidth())
}

// renderFooter renders the keybinding hints.
func (m Model) renderFooter() string {
	scrollPercent := ""
	if m.viewport.TotalLineCount() > m.viewport.Height {
		scrollPercent = fmt.Sprintf(" %3.0f%%", m.viewport.ScrollPercent()*100)
	}
	return styles.MutedStyle.Render("[j/k] Scroll  [Esc] Back" + scrollPercent)
}
