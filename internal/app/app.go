// Package app contains the root application model.
package app

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/offview/internal/config"
	"github.com/zjrosen/offview/internal/fetch"
	"github.com/zjrosen/offview/internal/flags"
	"github.com/zjrosen/offview/internal/keys"
	"github.com/zjrosen/offview/internal/log"
	"github.com/zjrosen/offview/internal/pubsub"
	"github.com/zjrosen/offview/internal/ui/details"
	"github.com/zjrosen/offview/internal/ui/help"
	"github.com/zjrosen/offview/internal/ui/styles"
	"github.com/zjrosen/offview/internal/watcher"
)

// Text shown in place of the view body while a fetch is outstanding.
const loadingText = "Loading..."

// focusArea selects which component receives key presses.
type focusArea int

const (
	focusSearch focusArea = iota
	focusBody
)

// Options configures a Model.
type Options struct {
	// Controller owns the fetch state. Required.
	Controller *fetch.Controller

	Config config.Config

	// ConfigPath is the file theme changes are saved to and the watcher observes.
	// Empty disables both.
	ConfigPath string

	// DebugMode shows the latest log entry in the status bar.
	DebugMode bool
}

// Model is the root application state.
type Model struct {
	ctrl       *fetch.Controller
	state      fetch.State
	cfg        config.Config
	configPath string
	flags      *flags.Registry

	keys       keys.KeyMap
	searchKeys keys.SearchKeyMap
	focus      focusArea

	input   textinput.Model
	results resultsList
	details details.Model
	spinner spinner.Model
	help    help.Model

	showHelp      bool
	showStatusBar bool
	notice        string

	width  int
	height int

	debugMode   bool
	lastLog     string
	logCtx      context.Context
	logCancel   context.CancelFunc
	logListener *log.LogListener

	// Config file watcher (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.ChangeEvent]
}

// New creates the application model. A config watcher is started when a
// config path is set and the config-reload flag is on.
func New(opts Options) Model {
	cfg := opts.Config
	registry := cfg.FeatureFlags()

	var (
		watcherHandle   *watcher.Watcher
		watcherCtx      context.Context
		watcherCancel   context.CancelFunc
		watcherListener *pubsub.ContinuousListener[watcher.ChangeEvent]
	)
	if opts.ConfigPath != "" && registry.Enabled(flags.FlagConfigReload) {
		w, err := watcher.New(watcher.DefaultConfig(opts.ConfigPath))
		if err == nil {
			if err := w.Start(); err == nil {
				watcherHandle = w
				watcherCtx, watcherCancel = context.WithCancel(context.Background())
				watcherListener = pubsub.NewContinuousListener(watcherCtx, w.Broker())
			} else {
				_ = w.Stop()
				log.Warn(log.CatWatcher, "Config watcher not started", "error", err)
			}
		} else {
			log.Warn(log.CatWatcher, "Config watcher not created", "error", err)
		}
	}

	var (
		logCtx      context.Context
		logCancel   context.CancelFunc
		logListener *log.LogListener
	)
	if opts.DebugMode {
		logCtx, logCancel = context.WithCancel(context.Background())
		logListener = log.NewListener(logCtx)
	}

	input := textinput.New()
	input.Prompt = "Search: "
	input.Placeholder = "product name, e.g. dark chocolate"
	input.PromptStyle = lipgloss.NewStyle().Foreground(styles.BorderHighlightFocusColor).Bold(true)
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextPlaceholderColor)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	markdownStyle := cfg.UI.MarkdownStyle
	if markdownStyle == "" {
		markdownStyle = "dark"
	}

	m := Model{
		ctrl:            opts.Controller,
		cfg:             cfg,
		configPath:      opts.ConfigPath,
		flags:           registry,
		keys:            keys.DefaultKeyMap(),
		searchKeys:      keys.DefaultSearchKeyMap(),
		focus:           focusSearch,
		input:           input,
		details:         details.New().SetMarkdownStyle(markdownStyle),
		spinner:         sp,
		help:            help.New(),
		showStatusBar:   cfg.UI.ShowStatusBar,
		debugMode:       opts.DebugMode,
		logCtx:          logCtx,
		logCancel:       logCancel,
		logListener:     logListener,
		watcherHandle:   watcherHandle,
		watcherCtx:      watcherCtx,
		watcherCancel:   watcherCancel,
		watcherListener: watcherListener,
	}
	return m.syncState()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		m.ctrl.ListenCmd(),
	}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// State returns the state snapshot the model last rendered from.
func (m Model) State() fetch.State {
	return m.state
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.resize(), nil

	case fetch.MessagesReadyMsg:
		if n := m.ctrl.PollMessages(); n > 0 {
			log.Debug(log.CatUI, "Polled messages", "applied", n)
		}
		m = m.syncState()
		return m, m.ctrl.ListenCmd()

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case log.LogEvent:
		// Never log here: the entry would be published straight back.
		m.lastLog = msg.Payload
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case watcher.WatcherEvent:
		m = m.handleConfigChange(msg.Payload)
		if m.watcherListener == nil {
			return m, nil
		}
		return m, m.watcherListener.Listen()

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusSearch {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), msg.Type == tea.KeyEsc:
			m.showHelp = false
		}
		return m, nil
	}

	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.FocusSearch):
		m.focus = focusSearch
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.ToggleStatus):
		m.showStatusBar = !m.showStatusBar
		return m.resize(), nil
	case key.Matches(msg, m.keys.ToggleFencing):
		return m.toggleFencing(), nil
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme(), nil
	}

	if m.state.View == fetch.ViewProductDetails {
		if key.Matches(msg, m.keys.Back) {
			m.ctrl.OnBackRequested()
			return m.syncState(), nil
		}
		var cmd tea.Cmd
		m.details, cmd = m.details.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.results = m.results.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.results = m.results.Move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.results = m.results.Move(-m.bodyHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.results = m.results.Move(m.bodyHeight())
	case key.Matches(msg, m.keys.Top):
		m.results = m.results.Top()
	case key.Matches(msg, m.keys.Bottom):
		m.results = m.results.Bottom()
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	case key.Matches(msg, m.keys.Back):
		m.ctrl.OnBackRequested()
		return m.syncState(), nil
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.searchKeys.Submit):
		return m.submitSearch()
	case key.Matches(msg, m.searchKeys.Blur):
		m.focus = focusBody
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitSearch starts a search for the input text. An empty term is a valid
// search. Searching from the details screen returns to the results first.
func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	if m.state.View == fetch.ViewProductDetails {
		m.ctrl.OnBackRequested()
	}
	m.ctrl.OnSearchSubmitted(m.input.Value())
	m.focus = focusBody
	m.input.Blur()
	m = m.syncState()
	return m, m.spinner.Tick
}

// openSelected requests details for the product under the cursor.
func (m Model) openSelected() (tea.Model, tea.Cmd) {
	p, ok := m.results.Selected()
	if !ok {
		return m, nil
	}
	m.ctrl.OnProductSelected(p)
	m = m.syncState()
	return m, m.spinner.Tick
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.cfg.UI.Mouse || m.showHelp {
		return m, nil
	}

	if m.state.View == fetch.ViewProductDetails {
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.results = m.results.Move(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.results = m.results.Move(1)
		return m, nil
	}

	// Only left-click releases select a row; rows are hidden while loading.
	if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionRelease || m.state.Loading || m.state.Err != nil {
		return m, nil
	}
	start, end := m.results.Visible()
	for i := start; i < end; i++ {
		if z := zone.Get(makeResultZoneID(i)); z != nil && z.InBounds(msg) {
			m.results = m.results.Select(i)
			m.focus = focusBody
			m.input.Blur()
			return m.openSelected()
		}
	}
	return m, nil
}

// syncState copies the controller state into the child components.
func (m Model) syncState() Model {
	m.state = m.ctrl.State()
	m.results = m.results.SetItems(m.state.Results)
	m.details = m.details.SetDetail(m.state.Selected)
	return m
}

func (m Model) toggleFencing() Model {
	enabled := !m.ctrl.Fencing()
	m.ctrl.SetFencing(enabled)
	if enabled {
		m.notice = "Stale results are dropped"
	} else {
		m.notice = "Last response wins"
	}
	log.Info(log.CatUI, "Fencing toggled", "enabled", enabled)
	return m
}

// bodyHeight is the number of lines available inside the main panel.
func (m Model) bodyHeight() int {
	h := m.height - 1 - 2 // search line and panel border
	if m.showStatusBar {
		h--
	}
	return max(h, 1)
}

func (m Model) resize() Model {
	innerWidth := max(m.width-2, 1)
	m.input.Width = max(m.width-lipgloss.Width(m.input.Prompt)-1, 1)
	m.results = m.results.SetHeight(m.bodyHeight())
	m.details = m.details.SetSize(innerWidth, m.bodyHeight())
	m.help = m.help.SetSize(m.width, m.height)
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	sections := []string{
		m.input.View(),
		m.renderPanel(),
	}
	if m.showStatusBar {
		sections = append(sections, m.renderStatusBar())
	}
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.showHelp {
		view = m.help.Overlay(view)
	}
	return zone.Scan(view)
}

func (m Model) renderPanel() string {
	panel := styles.Panel{Title: "Results", Focused: m.focus == focusBody}
	switch {
	case m.state.View == fetch.ViewProductDetails:
		panel.Title = "Product"
		if d := m.state.Selected; d != nil {
			panel.Status = d.Code
		}
	case m.results.Len() > 0:
		panel.Status = strconv.Itoa(m.results.Len()) + " found"
	}
	return panel.Render(m.renderBody(), m.width, m.bodyHeight()+2)
}

// renderBody applies the display rules: loading beats error, error beats
// the active view.
func (m Model) renderBody() string {
	innerWidth := max(m.width-2, 1)
	switch {
	case m.state.Loading:
		return m.spinner.View() + " " + loadingText
	case m.state.Err != nil:
		return styles.ErrorStyle.Width(innerWidth).Render("Error: " + *m.state.Err)
	case m.state.View == fetch.ViewProductDetails:
		if m.state.Selected == nil {
			return styles.MutedStyle.Render("No product details. Press Esc to go back.")
		}
		return m.details.View()
	default:
		return m.results.View(innerWidth, m.focus == focusBody)
	}
}

// Close releases resources held by the application. The controller is
// owned by the caller.
func (m *Model) Close() error {
	if m.logCancel != nil {
		m.logCancel()
	}
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			return err
		}
	}
	return nil
}
