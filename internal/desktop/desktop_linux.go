//go:build linux

package desktop

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wallcycle/internal/proc"
)

// gsettingsApplier sets the wallpaper through the GNOME desktop schema,
// which persists the setting and notifies listeners for us.
type gsettingsApplier struct {
	runner proc.Runner
	logger hclog.Logger
}

// New creates the Linux desktop applier.
func New(runner proc.Runner, logger hclog.Logger) Applier {
	if runner == nil {
		runner = proc.NewExecRunner()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &gsettingsApplier{runner: runner, logger: logger}
}

func (a *gsettingsApplier) Apply(ctx context.Context, path string) error {
	uri := "file://" + path

	// Both keys are set so the wallpaper follows the active colour scheme.
	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		a.logger.Debug("setting desktop wallpaper", "key", key, "uri", uri)
		args := []string{"set", "org.gnome.desktop.background", key, uri}
		result, err := a.runner.Run(ctx, "gsettings", args, nil)
		if err != nil {
			return fmt.Errorf("gsettings invocation failed: %w", err)
		}
		if result.ExitCode != 0 {
			return fmt.Errorf("gsettings exited with code %d setting %s", result.ExitCode, key)
		}
	}

	return nil
}
