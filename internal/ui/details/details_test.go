package details

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/offview/internal/product"
)

func chocolate() *product.Detail {
	return &product.Detail{
		Code:            "3017620422003",
		Name:            product.StringPtr("Nutella"),
		Brand:           product.StringPtr("Ferrero"),
		IngredientsText: product.StringPtr("sugar, palm oil, _hazelnuts_ 13%"),
	}
}

func longDetail() *product.Detail {
	d := chocolate()
	d.IngredientsText = product.StringPtr(strings.Repeat("sugar, ", 400))
	return d
}

// newModel builds a sized model that renders without terminal styling.
func newModel(d *product.Detail, width, height int) Model {
	return New().SetMarkdownStyle("notty").SetSize(width, height).SetDetail(d)
}

func TestDetails_View_NotReady(t *testing.T) {
	m := New().SetDetail(chocolate())
	require.Empty(t, m.View(), "view is empty until sized")
}

func TestDetails_View_Ready(t *testing.T) {
	m := newModel(chocolate(), 80, 20)
	view := ansi.Strip(m.View())

	require.Contains(t, view, "Nutella")
	require.Contains(t, view, "Ferrero")
	require.Contains(t, view, "3017620422003")
	require.Contains(t, view, "Ingredients:")
	require.Contains(t, view, "palm oil")
	require.Contains(t, view, "[j/k] Scroll")
	require.Contains(t, view, "[Esc] Back")
}

func TestDetails_View_MissingIngredients(t *testing.T) {
	d := &product.Detail{Code: "42", Name: product.StringPtr("Water")}
	view := ansi.Strip(newModel(d, 80, 20).View())

	require.Contains(t, view, "Water")
	require.Contains(t, view, "Ingredients: N/A")
	require.NotContains(t, view, "Brand:")
}

func TestDetails_View_NameFallsBackToCode(t *testing.T) {
	d := &product.Detail{Code: "42"}
	view := ansi.Strip(newModel(d, 80, 20).View())
	require.Contains(t, view, "42")
}

func TestDetails_SetDetail_CopiesInput(t *testing.T) {
	d := chocolate()
	m := newModel(d, 80, 20)
	d.Name = product.StringPtr("Changed")

	require.Equal(t, "Nutella", product.Value(m.Detail().Name))
	require.NotContains(t, ansi.Strip(m.View()), "Changed")
}

func TestDetails_SetDetail_Nil(t *testing.T) {
	m := newModel(chocolate(), 80, 20).SetDetail(nil)
	require.Nil(t, m.Detail())
	require.NotContains(t, ansi.Strip(m.View()), "Nutella")
}

func TestDetails_Update_ScrollDown(t *testing.T) {
	m := newModel(longDetail(), 40, 10)

	initialOffset := m.YOffset()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	require.Greater(t, m.YOffset(), initialOffset, "expected viewport to scroll down on 'j' key")
}

func TestDetails_Update_ScrollUp(t *testing.T) {
	m := newModel(longDetail(), 40, 10)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	afterDown := m.YOffset()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	require.Less(t, m.YOffset(), afterDown, "expected viewport to scroll up on 'k' key")
}

func TestDetails_Update_GotoTopAndBottom(t *testing.T) {
	m := newModel(longDetail(), 40, 10)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	require.NotEqual(t, 0, m.YOffset(), "expected viewport to scroll to bottom on 'G'")
	require.Contains(t, ansi.Strip(m.View()), "100%")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	require.Equal(t, 0, m.YOffset(), "expected viewport at top after 'g'")
}

func TestDetails_SetDetail_DifferentProductResetsScroll(t *testing.T) {
	m := newModel(longDetail(), 40, 10)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	require.NotEqual(t, 0, m.YOffset())

	other := longDetail()
	other.Code = "other"
	m = m.SetDetail(other)
	require.Equal(t, 0, m.YOffset())
}

func TestDetails_SetSize_TwiceUpdatesViewport(t *testing.T) {
	m := newModel(chocolate(), 100, 40)
	m = m.SetSize(80, 30)

	require.Equal(t, 80, m.width, "expected width 80 after resize")
	require.Equal(t, 30, m.height, "expected height 30 after resize")
	require.Equal(t, 29, m.viewport.Height, "footer takes one line")
}

func TestDetails_SetMarkdownStyle_RecreatesRenderer(t *testing.T) {
	m := newModel(chocolate(), 80, 20)
	require.NotNil(t, m.mdRenderer)

	m = m.SetMarkdownStyle("ascii")
	require.Equal(t, "ascii", m.mdRenderer.Style())
	require.Contains(t, ansi.Strip(m.View()), "palm oil")
}

// detailsHost wraps the component so teatest can drive it.
type detailsHost struct {
	m Model
}

func (h detailsHost) Init() tea.Cmd { return nil }

func (h detailsHost) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wm, ok := msg.(tea.WindowSizeMsg); ok {
		h.m = h.m.SetSize(wm.Width, wm.Height)
		return h, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "q" {
		return h, tea.Quit
	}
	var cmd tea.Cmd
	h.m, cmd = h.m.Update(msg)
	return h, cmd
}

func (h detailsHost) View() string { return h.m.View() }

func TestDetails_Teatest_RendersProduct(t *testing.T) {
	host := detailsHost{m: New().SetMarkdownStyle("notty").SetDetail(chocolate())}
	tm := teatest.NewTestModel(t, host, teatest.WithInitialTermSize(80, 20))

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(ansi.Strip(string(out)), "Ferrero")
	}, teatest.WithDuration(3*time.Second))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(detailsHost)
	require.Equal(t, "3017620422003", final.m.Detail().Code)
}
