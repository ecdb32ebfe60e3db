package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

func plainLines(s string) []string {
	return strings.Split(ansi.Strip(s), "\n")
}

func TestPanel_Dimensions(t *testing.T) {
	out := Panel{Title: "Results"}.Render("Nutella\nNocciolata", 30, 6)

	require.Equal(t, 30, lipgloss.Width(out))
	require.Equal(t, 6, lipgloss.Height(out))
	for _, line := range plainLines(out) {
		require.Equal(t, 30, ansi.StringWidth(line), line)
	}
}

func TestPanel_TopEdge(t *testing.T) {
	lines := plainLines(Panel{Title: "Results", Status: "24 found"}.Render("", 30, 3))

	require.Equal(t, "╭─ Results ─────── 24 found ─╮", lines[0])
	require.Equal(t, "│"+strings.Repeat(" ", 28)+"│", lines[1])
	require.Equal(t, "╰"+strings.Repeat("─", 28)+"╯", lines[2])
}

func TestPanel_TitleOnly(t *testing.T) {
	lines := plainLines(Panel{Title: "Product"}.Render("", 20, 3))
	require.Equal(t, "╭─ Product ────────╮", lines[0])
}

func TestPanel_NoLabels(t *testing.T) {
	lines := plainLines(Panel{}.Render("x", 10, 3))
	require.Equal(t, "╭────────╮", lines[0])
	require.Equal(t, "│x       │", lines[1])
}

func TestPanel_NarrowDropsStatusThenTitle(t *testing.T) {
	lines := plainLines(Panel{Title: "Results", Status: "24 found"}.Render("", 16, 3))
	require.Contains(t, lines[0], "Results")
	require.NotContains(t, lines[0], "found")
	require.Equal(t, 16, ansi.StringWidth(lines[0]))

	lines = plainLines(Panel{Title: "A rather long product name", Status: "1"}.Render("", 16, 3))
	require.Contains(t, lines[0], "...")
	require.Equal(t, 16, ansi.StringWidth(lines[0]))

	lines = plainLines(Panel{Title: "Results"}.Render("", 6, 3))
	require.Equal(t, "╭────╮", lines[0])
}

func TestPanel_ClipsContent(t *testing.T) {
	content := strings.Repeat("sugar ", 20) + "\nline2\nline3\nline4"
	out := Panel{Title: "Product"}.Render(content, 20, 4)

	lines := plainLines(out)
	require.Len(t, lines, 4)
	for _, line := range lines {
		require.Equal(t, 20, ansi.StringWidth(line), line)
	}
}

func TestPanel_FocusChangesBorderColor(t *testing.T) {
	prev := lipgloss.ColorProfile()
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
	lipgloss.SetColorProfile(termenv.TrueColor)

	focused := Panel{Title: "Results", Focused: true}.Render("x", 20, 3)
	unfocused := Panel{Title: "Results"}.Render("x", 20, 3)
	require.NotEqual(t, focused, unfocused)
	require.Equal(t, ansi.Strip(focused), ansi.Strip(unfocused))
}
