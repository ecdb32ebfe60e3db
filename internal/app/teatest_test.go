package app

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/offview/internal/fetch"
)

func waitForText(t *testing.T, tm *teatest.TestModel, text string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains([]byte(ansi.Strip(string(out))), []byte(text))
	}, teatest.WithDuration(3*time.Second), teatest.WithCheckInterval(10*time.Millisecond))
}

func TestApp_Teatest_SearchOpenBack(t *testing.T) {
	ctrl := fetch.NewController(fetch.Config{Fetcher: chocolateFetcher(), FenceStale: true})
	t.Cleanup(ctrl.Close)

	m := New(Options{Controller: ctrl, Config: testConfig()})
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(100, 30))

	waitForText(t, tm, "Search:")

	tm.Type("chocolate")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForText(t, tm, "Milk Chocolate")

	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	waitForText(t, tm, "cocoa mass")

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	final := tm.FinalModel(t).(Model)
	s := final.State()
	require.Equal(t, fetch.ViewSearchResults, s.View)
	require.Equal(t, "chocolate", s.SearchTerm)
	require.Len(t, s.Results, 3)
	require.Nil(t, s.Selected)
	require.False(t, s.Loading)
	require.Equal(t, 2, ctrl.Metrics().Completed)
}
