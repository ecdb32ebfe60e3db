package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Hello", 10, "Hello"},
		{"exact", "Hello", 5, "Hello"},
		{"truncate", "Hello World", 8, "Hello..."},
		{"very short", "Hello", 3, "..."},
		{"minimal", "Hello", 1, "."},
		{"zero", "Hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TruncateString(tt.input, tt.maxWidth))
		})
	}
}

func TestTruncateString_WideRunes(t *testing.T) {
	got := TruncateString("チョコレート菓子", 9)
	require.LessOrEqual(t, lipgloss.Width(got), 9)
	require.Contains(t, got, "...")
}

func TestPadRight(t *testing.T) {
	require.Equal(t, "abc  ", PadRight("abc", 5))
	require.Equal(t, "ab…", PadRight("abcdef", 3))
	require.Equal(t, "", PadRight("abc", 0))

	// Two cells per rune.
	require.Equal(t, "日本 ", PadRight("日本", 5))
}
