package app

import (
	"slices"

	"github.com/zjrosen/offview/internal/config"
	"github.com/zjrosen/offview/internal/log"
	"github.com/zjrosen/offview/internal/ui/styles"
	"github.com/zjrosen/offview/internal/watcher"
)

// themeConfig converts the config theme section for the styles package.
func themeConfig(t config.ThemeConfig) styles.ThemeConfig {
	return styles.ThemeConfig{
		Preset: t.Preset,
		Mode:   t.Mode,
		Colors: t.FlattenedColors(),
	}
}

// ApplyTheme installs the configured theme. Call it before New.
func ApplyTheme(t config.ThemeConfig) error {
	return styles.ApplyTheme(themeConfig(t))
}

// nextPreset returns the preset after current in display order.
func nextPreset(current string) string {
	names := styles.PresetNames()
	if current == "" {
		current = "default"
	}
	i := slices.Index(names, current)
	return names[(i+1)%len(names)]
}

// cycleTheme applies the next preset and saves it to the config file.
func (m Model) cycleTheme() Model {
	next := nextPreset(m.cfg.Theme.Preset)

	theme := m.cfg.Theme
	theme.Preset = next
	if err := styles.ApplyTheme(themeConfig(theme)); err != nil {
		log.ErrorErr(log.CatUI, "Failed to apply theme", err, "preset", next)
		m.notice = "Theme error: " + err.Error()
		return m
	}
	m.cfg.Theme = theme
	m.notice = "Theme: " + next

	if m.configPath != "" {
		if err := config.SaveThemePreset(m.configPath, next); err != nil {
			log.ErrorErr(log.CatConfig, "Failed to save theme", err, "path", m.configPath)
			m.notice = "Theme: " + next + " (not saved)"
		}
	}
	return m.restyle()
}

// handleConfigChange re-applies theme and UI settings from the changed file.
// API settings only take effect on restart.
func (m Model) handleConfigChange(ev watcher.ChangeEvent) Model {
	if ev.Removed {
		log.Warn(log.CatWatcher, "Config file removed, keeping current settings", "path", ev.Path)
		m.notice = "Config removed"
		return m
	}

	cfg, err := config.Reload(ev.Path)
	if err != nil {
		m.notice = "Config error: " + err.Error()
		return m
	}
	if err := styles.ApplyTheme(themeConfig(cfg.Theme)); err != nil {
		log.ErrorErr(log.CatConfig, "Reloaded theme is invalid", err)
		m.notice = "Theme error: " + err.Error()
		return m
	}

	if cfg.API != m.cfg.API {
		log.Info(log.CatConfig, "API settings changed, restart to apply")
	}
	m.cfg.Theme = cfg.Theme
	m.cfg.UI = cfg.UI
	m.showStatusBar = cfg.UI.ShowStatusBar
	m.details = m.details.SetMarkdownStyle(cfg.UI.MarkdownStyle)
	m.notice = "Config reloaded"
	return m.restyle()
}

// restyle rebuilds components that captured colors when they were created.
func (m Model) restyle() Model {
	m.spinner.Style = styles.SpinnerStyle
	m.input.PromptStyle = m.input.PromptStyle.Foreground(styles.BorderHighlightFocusColor)
	m.input.PlaceholderStyle = m.input.PlaceholderStyle.Foreground(styles.TextPlaceholderColor)
	if m.width == 0 {
		return m
	}
	return m.resize()
}
