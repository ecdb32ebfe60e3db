// Package config provides configuration types and defaults for offview.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/offview/internal/flags"
	"github.com/zjrosen/offview/internal/log"
	"github.com/zjrosen/offview/internal/tracing"
)

const (
	// LocalConfigPath is checked before the user config and is where a default
	// config is written when none exists.
	LocalConfigPath = ".offview/config.yaml"

	DefaultBaseURL   = "https://world.openfoodfacts.org"
	DefaultUserAgent = "offview/dev (+https://github.com/zjrosen/offview)"
	DefaultTimeout   = 15 * time.Second
)

// Config holds all configuration options for offview.
type Config struct {
	API     APIConfig       `mapstructure:"api"`
	UI      UIConfig        `mapstructure:"ui"`
	Theme   ThemeConfig     `mapstructure:"theme"`
	Tracing tracing.Config  `mapstructure:"tracing"`
	Flags   map[string]bool `mapstructure:"flags"`
}

// APIConfig configures the OpenFoodFacts client.
type APIConfig struct {
	// BaseURL is the catalog server, e.g. https://fr.openfoodfacts.org.
	BaseURL string `mapstructure:"base_url"`

	// UserAgent is sent with every request. OpenFoodFacts asks clients to
	// identify themselves.
	UserAgent string `mapstructure:"user_agent"`

	// Timeout bounds each fetch. Zero disables the deadline.
	Timeout time.Duration `mapstructure:"timeout"`

	// PageSize limits search results. Zero uses the server default.
	PageSize int `mapstructure:"page_size"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool   `mapstructure:"show_status_bar"`
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	Mouse         bool   `mapstructure:"mouse"`          // Click a result to open it
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     product:
	//       name: "#FF0000"
	// Or quoted dot notation:
	//   colors:
	//     "product.name": "#FF0000"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// FeatureFlags returns the flag registry with config overrides applied.
func (c Config) FeatureFlags() *flags.Registry {
	return flags.New(c.Flags)
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/offview/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "offview", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			UserAgent: DefaultUserAgent,
			Timeout:   DefaultTimeout,
		},
		UI: UIConfig{
			ShowStatusBar: true,
			MarkdownStyle: "dark",
			Mouse:         true,
		},
		Tracing: tracing.DefaultConfig(),
		Flags:   flags.Defaults(),
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if err := ValidateAPI(cfg.API); err != nil {
		return err
	}
	if err := ValidateUI(cfg.UI); err != nil {
		return err
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateAPI checks API configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateAPI(api APIConfig) error {
	if api.BaseURL != "" {
		u, err := url.Parse(api.BaseURL)
		if err != nil {
			return fmt.Errorf("api.base_url is not a valid URL: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("api.base_url must use http or https, got %q", api.BaseURL)
		}
		if u.Host == "" {
			return fmt.Errorf("api.base_url must include a host, got %q", api.BaseURL)
		}
	}
	if api.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative, got %s", api.Timeout)
	}
	if api.PageSize < 0 {
		return fmt.Errorf("api.page_size must not be negative, got %d", api.PageSize)
	}
	return nil
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	switch ui.MarkdownStyle {
	case "", "dark", "light":
		return nil
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	if tc.Exporter != "" {
		switch tc.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
		}
	}

	if tc.Enabled && tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# offview configuration

# OpenFoodFacts API
api:
  base_url: https://world.openfoodfacts.org  # Use a country server such as https://fr.openfoodfacts.org
  # user_agent: "offview/dev (you@example.com)"
  timeout: 15s      # Per-request deadline, 0 disables it
  # page_size: 24   # Search results per page (server default when unset)

# UI settings
ui:
  show_status_bar: true   # Show request counters at the bottom
  # markdown_style: dark  # Ingredients rendering style: "dark" (default) or "light"
  mouse: true             # Click a result to open it

# Theme configuration
theme:
  # preset: catppuccin-mocha
  #
  # Available presets:
  #   default, catppuccin-mocha, dracula, nord, high-contrast
  #
  # Override specific colors (works with or without preset):
  # colors:
  #   product.name: "#54A0FF"
  #   status.error: "#FF0000"

# Tracing
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/offview/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Feature flags
# flags:
#   fence-stale-results: true  # Ignore results of superseded requests
#   config-reload: true        # Re-apply theme and UI settings when this file changes
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
