// Package desktop applies a wallpaper image to the desktop background
// through the platform's native mechanism.
package desktop

import (
	"context"
)

// Applier sets the desktop background to an absolute file path. Apply is
// synchronous: it returns only after the OS confirms the change or the
// call fails. The OS is asked to persist the setting and broadcast a
// change notification to other processes.
type Applier interface {
	Apply(ctx context.Context, path string) error
}
