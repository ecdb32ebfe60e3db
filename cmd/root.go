package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/offview/internal/app"
	"github.com/zjrosen/offview/internal/config"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"
	cfgFile string

	cfg        config.Config
	cfgPath    string
	cfgLoadErr error
)

var rootCmd = &cobra.Command{
	Use:   "offview",
	Short: "A terminal ui for browsing OpenFoodFacts",
	Long: `A terminal user interface for searching the OpenFoodFacts catalog
and reading a product's ingredients.

Type a search term, press Enter, pick a product and press Enter again to
see its details. Press ? for all keybindings.`,
	Version: version,
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/offview/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write a debug log to debug.log (also OFFVIEW_DEBUG)")
	rootCmd.PersistentFlags().String("base-url", "",
		"OpenFoodFacts server, e.g. https://fr.openfoodfacts.org")
	rootCmd.PersistentFlags().Duration("timeout", 0,
		"per-request deadline (default 15s)")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("api.timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)

	path, found := config.Locate(cfgFile)
	if !found && cfgFile == "" {
		// No config file found anywhere - create default at .offview/config.yaml
		if err := config.WriteDefaultConfig(path); err != nil {
			// If write fails, just continue with defaults (no config file)
			path = ""
		}
	}
	cfgPath = path

	cfg, cfgLoadErr = config.Load(v, path)
}

// debugEnabled reports --debug or OFFVIEW_DEBUG.
func debugEnabled() bool {
	return viper.GetBool("debug")
}

func runApp(cmd *cobra.Command, args []string) error {
	if cfgLoadErr != nil {
		return cfgLoadErr
	}

	rt, err := newRuntime(cfg, debugEnabled())
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := app.ApplyTheme(cfg.Theme); err != nil {
		return fmt.Errorf("invalid theme configuration: %w", err)
	}

	zone.NewGlobal()

	model := app.New(app.Options{
		Controller: rt.ctrl,
		Config:     cfg,
		ConfigPath: cfgPath,
		DebugMode:  rt.debug,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(&model, opts...)

	_, err = p.Run()

	// Clean up watcher resources
	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// shutdownTimeout bounds flushing spans on exit.
const shutdownTimeout = 5 * time.Second

func shutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), shutdownTimeout)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
