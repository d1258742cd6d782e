// Package proc provides an interface for running external processes with
// their combined output captured line by line.
package proc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result holds the outcome of one external process invocation.
type Result struct {
	// ExitCode is the process exit code. Zero means success.
	ExitCode int

	// Output contains the combined stdout and stderr, split into lines
	// in arrival order.
	Output []string
}

// LineFunc receives each output line as it arrives. It may be nil.
type LineFunc func(line string)

// Runner defines an interface for running external processes.
// This abstraction allows for dependency injection and easier testing.
type Runner interface {
	// Run executes a command with the given context and arguments, capturing
	// combined stdout/stderr. onLine, when non-nil, is called for every
	// output line as it is read. Run blocks until the process exits.
	Run(ctx context.Context, path string, args []string, onLine LineFunc) (Result, error)
}

// ExecRunner implements Runner using os/exec commands.
type ExecRunner struct{}

// NewExecRunner creates a new real process runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a real external process and streams its combined output.
func (r *ExecRunner) Run(ctx context.Context, path string, args []string, onLine LineFunc) (Result, error) {
	cmd := exec.CommandContext(ctx, path, args...)

	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("failed to open output pipe: %w", err)
	}
	// Merge stderr into the same pipe so output lines keep arrival order.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("failed to start %s: %w", path, err)
	}

	var lines []string
	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lines = append(lines, line)
		if onLine != nil {
			onLine(line)
		}
	}
	scanErr := scanner.Err()

	waitErr := cmd.Wait()
	result := Result{ExitCode: cmd.ProcessState.ExitCode(), Output: lines}

	if waitErr != nil {
		// Context cancellation takes priority over the generic exit error so
		// callers can distinguish a timeout from a tool failure.
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		exitErr := &exec.ExitError{}
		if errors.As(waitErr, &exitErr) {
			// Non-zero exit is reported through Result.ExitCode, not as an
			// error; the caller owns the success policy.
			return result, nil
		}
		return result, fmt.Errorf("failed to wait for %s: %w", path, waitErr)
	}
	if scanErr != nil {
		return result, fmt.Errorf("failed to read output of %s: %w", path, scanErr)
	}

	return result, nil
}
