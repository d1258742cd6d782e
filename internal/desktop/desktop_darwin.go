//go:build darwin

package desktop

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wallcycle/internal/proc"
)

// osascriptApplier sets the wallpaper through System Events, covering
// every desktop in one call.
type osascriptApplier struct {
	runner proc.Runner
	logger hclog.Logger
}

// New creates the macOS desktop applier.
func New(runner proc.Runner, logger hclog.Logger) Applier {
	if runner == nil {
		runner = proc.NewExecRunner()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &osascriptApplier{runner: runner, logger: logger}
}

func (a *osascriptApplier) Apply(ctx context.Context, path string) error {
	escaped := strings.ReplaceAll(path, `"`, `\"`)
	script := fmt.Sprintf(`tell application "System Events" to tell every desktop to set picture to "%s"`, escaped)

	a.logger.Debug("setting desktop wallpaper", "path", path)
	result, err := a.runner.Run(ctx, "osascript", []string{"-e", script}, nil)
	if err != nil {
		return fmt.Errorf("osascript invocation failed: %w", err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("osascript exited with code %d: %s", result.ExitCode, strings.Join(result.Output, "; "))
	}

	return nil
}
