package proc

import (
	"context"
	"time"
)

// MockRunner is a mock implementation of Runner for testing.
type MockRunner struct {
	// RunFunc allows tests to provide custom behavior
	RunFunc func(ctx context.Context, path string, args []string, onLine LineFunc) (Result, error)

	// ShouldTimeout if true, will block until context is cancelled
	ShouldTimeout bool

	// Delay simulates slow process execution
	Delay time.Duration

	// CallCount tracks how many times Run was called
	CallCount int

	// LastPath stores the last path passed to Run
	LastPath string

	// LastArgs stores the last args passed to Run
	LastArgs []string
}

// Run executes the mock behavior.
func (m *MockRunner) Run(ctx context.Context, path string, args []string, onLine LineFunc) (Result, error) {
	m.CallCount++
	m.LastPath = path
	m.LastArgs = args

	if m.ShouldTimeout {
		<-ctx.Done()
		return Result{ExitCode: -1}, ctx.Err()
	}

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return Result{ExitCode: -1}, ctx.Err()
		}
	}

	if m.RunFunc != nil {
		return m.RunFunc(ctx, path, args, onLine)
	}

	return Result{ExitCode: 0}, nil
}

// NewMockRunner creates a new mock process runner.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// NewExitMockRunner creates a mock that exits with the given code after
// emitting the given output lines.
func NewExitMockRunner(code int, output ...string) *MockRunner {
	return &MockRunner{
		RunFunc: func(ctx context.Context, path string, args []string, onLine LineFunc) (Result, error) {
			for _, line := range output {
				if onLine != nil {
					onLine(line)
				}
			}
			return Result{ExitCode: code, Output: output}, nil
		},
	}
}

// NewTimeoutMockRunner creates a mock that blocks until the context expires.
func NewTimeoutMockRunner() *MockRunner {
	return &MockRunner{ShouldTimeout: true}
}
