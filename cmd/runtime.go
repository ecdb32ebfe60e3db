package cmd

import (
	"fmt"

	"github.com/zjrosen/offview/internal/config"
	"github.com/zjrosen/offview/internal/fetch"
	"github.com/zjrosen/offview/internal/flags"
	"github.com/zjrosen/offview/internal/log"
	"github.com/zjrosen/offview/internal/openfoodfacts"
	"github.com/zjrosen/offview/internal/tracing"
)

// debugLogPath is where --debug writes its log.
const debugLogPath = "debug.log"

// runtime bundles what every command needs to talk to the catalog.
type runtime struct {
	ctrl     *fetch.Controller
	provider *tracing.Provider
	closeLog func()
	debug    bool
}

// newRuntime wires logging, tracing, the HTTP client and the controller from cfg.
func newRuntime(cfg config.Config, debug bool) (*runtime, error) {
	rt := &runtime{debug: debug}

	if debug {
		closeLog, err := log.Init(debugLogPath)
		if err != nil {
			return nil, err
		}
		rt.closeLog = closeLog
		log.Info(log.CatConfig, "Debug logging enabled", "version", version)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	rt.provider = provider

	rt.ctrl = newController(cfg, provider)
	return rt, nil
}

func newController(cfg config.Config, provider *tracing.Provider) *fetch.Controller {
	client := openfoodfacts.NewClient(openfoodfacts.Options{
		BaseURL:   cfg.API.BaseURL,
		UserAgent: cfg.API.UserAgent,
		PageSize:  cfg.API.PageSize,
		Tracer:    provider.Tracer(),
	})

	fence := cfg.FeatureFlags().Enabled(flags.FlagFenceStaleResults)
	log.Debug(log.CatConfig, "Controller configured",
		"base_url", client.BaseURL(), "timeout", cfg.API.Timeout, "fence", fence)

	return fetch.NewController(fetch.Config{
		Fetcher:    client,
		Timeout:    cfg.API.Timeout,
		FenceStale: fence,
		Tracer:     provider.Tracer(),
	})
}

// Close stops workers, flushes spans and closes the log. Safe on a
// partially built runtime.
func (r *runtime) Close() {
	if r.ctrl != nil {
		r.ctrl.Close()
	}
	if r.provider != nil {
		ctx, cancel := shutdownContext()
		if err := r.provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Flushing spans failed", err)
		}
		cancel()
	}
	if r.closeLog != nil {
		r.closeLog()
	}
}
