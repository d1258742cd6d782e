//go:build !windows

package lockscreen

import (
	"context"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wallcycle/internal/proc"
)

type unsupportedSynchronizer struct{}

// New returns a synchronizer that reports the platform gap. Rotation
// treats the error as a warning, so the rest of the pipeline still runs.
func New(_ proc.Runner, _ hclog.Logger) Synchronizer {
	return unsupportedSynchronizer{}
}

func (unsupportedSynchronizer) Sync(_ context.Context, _ string) error {
	return ErrUnsupported
}
