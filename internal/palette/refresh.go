// Package palette triggers the external tool that derives a colour
// palette from the current wallpaper and rewrites its styling targets.
// The tool re-queries the OS for the active wallpaper itself; this engine
// owns which wallpaper is active, the tool owns what palette that implies.
package palette

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wallcycle/internal/proc"
)

var (
	// ErrRefreshFailed indicates the palette tool exited non-zero.
	ErrRefreshFailed = errors.New("palette refresh failed")

	// ErrToolNotFound indicates no palette tool could be located.
	ErrToolNotFound = errors.New("palette tool not found")
)

// DefaultCommand is the palette tool looked up when none is configured.
const DefaultCommand = "update-palette"

// Orchestrator invokes the palette tool and waits for it to finish.
type Orchestrator struct {
	runner  proc.Runner
	logger  hclog.Logger
	command string
	args    []string
	timeout time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCommand overrides the palette tool command and arguments.
func WithCommand(command string, args ...string) Option {
	return func(o *Orchestrator) {
		o.command = command
		o.args = args
	}
}

// WithTimeout bounds one refresh run. Zero disables the bound, restoring
// the historical hang-forever behaviour.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = d
	}
}

// New creates an Orchestrator around the given process runner.
func New(runner proc.Runner, logger hclog.Logger, opts ...Option) *Orchestrator {
	if runner == nil {
		runner = proc.NewExecRunner()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	o := &Orchestrator{
		runner:  runner,
		logger:  logger,
		command: DefaultCommand,
		timeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Refresh locates the palette tool, runs it with no wallpaper argument,
// and surfaces its combined output through the logger as it arrives. A
// non-zero exit is returned as ErrRefreshFailed carrying the code.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	resolved, err := o.resolveCommand()
	if err != nil {
		return err
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	o.logger.Info("refreshing palette", "command", resolved, "args", strings.Join(o.args, " "))
	result, err := o.runner.Run(ctx, resolved, o.args, func(line string) {
		o.logger.Info("palette", "output", line)
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && o.timeout > 0 {
			return fmt.Errorf("%w: timed out after %s", ErrRefreshFailed, o.timeout)
		}
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: %s exited with code %d", ErrRefreshFailed, resolved, result.ExitCode)
	}

	o.logger.Info("palette refresh complete")
	return nil
}

// resolveCommand finds the palette tool. An explicit path wins; otherwise
// PATH is searched, then the per-user script directories where Python
// entry points commonly land.
func (o *Orchestrator) resolveCommand() (string, error) {
	if strings.ContainsRune(o.command, os.PathSeparator) {
		if _, err := os.Stat(o.command); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, o.command, err)
		}
		return o.command, nil
	}

	if found, err := exec.LookPath(o.command); err == nil {
		return found, nil
	}

	for _, dir := range fallbackScriptDirs() {
		matches, err := filepath.Glob(filepath.Join(dir, o.command+"*"))
		if err != nil || len(matches) == 0 {
			continue
		}
		return matches[0], nil
	}

	return "", fmt.Errorf("%w: %q not on PATH", ErrToolNotFound, o.command)
}

// fallbackScriptDirs lists directories probed when PATH lookup fails.
func fallbackScriptDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	dirs := []string{filepath.Join(home, ".local", "bin")}

	// Windows Python installs drop console scripts under per-version
	// Scripts directories that are rarely on PATH.
	for _, base := range []string{
		filepath.Join(home, "AppData", "Roaming", "Python"),
		filepath.Join(home, "AppData", "Local", "Programs", "Python"),
	} {
		versions, err := filepath.Glob(filepath.Join(base, "Python*", "Scripts"))
		if err != nil {
			continue
		}
		dirs = append(dirs, versions...)
	}

	return dirs
}
