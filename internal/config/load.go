package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/zjrosen/offview/internal/log"
)

// EnvPrefix is prepended to environment overrides, e.g. OFFVIEW_API_TIMEOUT.
const EnvPrefix = "OFFVIEW"

// SetDefaults registers every default value with v so that environment
// variables and unset keys resolve.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.user_agent", d.API.UserAgent)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.page_size", d.API.PageSize)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("ui.markdown_style", d.UI.MarkdownStyle)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", DefaultTracesFilePath())
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// Locate resolves the config file path.
// Lookup order:
// 1. explicit path (--config)
// 2. .offview/config.yaml (current directory)
// 3. ~/.config/offview/config.yaml (user config)
// The second return value is false when none of them exists.
func Locate(explicit string) (string, bool) {
	if explicit != "" {
		_, err := os.Stat(explicit)
		return explicit, err == nil
	}
	if _, err := os.Stat(LocalConfigPath); err == nil {
		return LocalConfigPath, true
	}
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".config", "offview", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return userPath, true
		}
	}
	return LocalConfigPath, false
}

// Load reads path into v (if it exists) and decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
			log.Debug(log.CatConfig, "No config file, using defaults", "path", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Reload reads path into a fresh viper instance. Used when the file changes
// while the UI is running.
func Reload(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v, path)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Config reload failed", err, "path", path)
		return Config{}, err
	}
	log.Info(log.CatConfig, "Config reloaded", "path", path)
	return cfg, nil
}
