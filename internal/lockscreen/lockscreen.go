// Package lockscreen mirrors the desktop wallpaper onto the OS lock
// screen. The underlying OS capability is asynchronous; Sync hides that
// plumbing and always blocks until the outcome is known.
package lockscreen

import (
	"context"
	"errors"
)

var (
	// ErrManagedProvider indicates the OS refused the update because a
	// managed lock-screen provider (e.g. Windows Spotlight) is active.
	// Expected in the field; callers treat it as a warning.
	ErrManagedProvider = errors.New("a managed lock-screen provider is active")

	// ErrUnsupported indicates the platform has no lock-screen bridge.
	ErrUnsupported = errors.New("lock screen sync is not supported on this platform")
)

// Synchronizer applies a wallpaper file as the lock screen image. Sync
// returns only once the asynchronous OS operation has completed, success
// or failure; its outcome never gates the rest of a rotation.
type Synchronizer interface {
	Sync(ctx context.Context, path string) error
}
