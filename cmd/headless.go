package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/offview/internal/fetch"
	"github.com/zjrosen/offview/internal/presentation"
)

// pollInterval is how often the headless loop polls when no wakeup arrives.
const pollInterval = 50 * time.Millisecond

var jsonOutput bool

// awaitIdle drives ctrl the way the UI loop does: poll, then wait for the
// next wakeup, until no request is outstanding.
func awaitIdle(ctx context.Context, ctrl *fetch.Controller, interval time.Duration) (fetch.State, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ctrl.PollMessages()
		if s := ctrl.State(); !s.Loading {
			return s, nil
		}

		select {
		case <-ctx.Done():
			return fetch.State{}, ctx.Err()
		case <-ctrl.Channel().Ready():
		case <-ticker.C:
		}
	}
}

// headlessRuntime loads the runtime for a one-shot command.
func headlessRuntime() (*runtime, error) {
	if cfgLoadErr != nil {
		return nil, cfgLoadErr
	}
	return newRuntime(cfg, debugEnabled())
}

func formatter(cmd *cobra.Command) *presentation.Formatter {
	return presentation.NewFormatter(cmd.OutOrStdout(), jsonOutput)
}

// reportError turns a failed fetch into the command's error. Cobra prints
// it as "Error: ...". With --json the error object also goes to stdout.
func reportError(f *presentation.Formatter, s fetch.State) error {
	text := s.ErrText()
	if text == "" {
		text = "no result"
	}
	if jsonOutput {
		if err := f.FormatError(text); err != nil {
			return err
		}
	}
	return errors.New(text)
}
