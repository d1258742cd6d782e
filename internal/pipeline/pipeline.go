// Package pipeline sequences one wallpaper rotation: load the catalog,
// resolve a theme, pick a wallpaper, apply it to the desktop and lock
// screen, persist the rotation record, then trigger the palette refresh.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/wallcycle/internal/catalog"
	"github.com/jmylchreest/wallcycle/internal/desktop"
	"github.com/jmylchreest/wallcycle/internal/lockscreen"
	"github.com/jmylchreest/wallcycle/internal/rotation"
)

// Stage identifies how far a run progressed.
type Stage string

const (
	StageIdle                Stage = "idle"
	StageCatalogLoaded       Stage = "catalog-loaded"
	StageSelecting           Stage = "selecting"
	StageThemeChosen         Stage = "theme-chosen"
	StageWallpaperChosen     Stage = "wallpaper-chosen"
	StageDesktopApplied      Stage = "desktop-applied"
	StageLockScreenAttempted Stage = "lockscreen-attempted"
	StageStatePersisted      Stage = "state-persisted"
	StagePaletteRefreshed    Stage = "palette-refreshed"
	StageDone                Stage = "done"
	StageAborted             Stage = "aborted"
	StageFailed              Stage = "failed"
)

var (
	// ErrWallpaperApply indicates the desktop wallpaper could not be set.
	ErrWallpaperApply = errors.New("failed to apply desktop wallpaper")

	// ErrStatePersist indicates the rotation record could not be saved.
	// Fatal: silently losing history would defeat repeat avoidance. The
	// wallpaper change itself is not rolled back.
	ErrStatePersist = errors.New("failed to persist rotation state")
)

// Selection is the outcome of theme selection: either an abort or one
// catalog theme to rotate.
type Selection struct {
	Theme catalog.Theme
	Abort bool
}

// ThemeSelector resolves one theme from the loaded catalog. Interactive
// implementations may re-prompt internally; non-interactive ones return an
// error for invalid input.
type ThemeSelector func(ctx context.Context, cat catalog.Catalog) (Selection, error)

// Refresher triggers the external palette regeneration.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Result reports where a run ended and what it applied. Stage is the
// terminal stage; Reached is the last stage completed before the terminal,
// which identifies the failing step after StageFailed.
type Result struct {
	Stage     Stage
	Reached   Stage
	Theme     string
	Wallpaper string
}

// Controller owns the rotation state machine.
type Controller struct {
	store      *rotation.Store
	picker     *rotation.Picker
	applier    desktop.Applier
	lockScreen lockscreen.Synchronizer
	palette    Refresher
	logger     hclog.Logger

	skipLockScreen bool
	skipPalette    bool
	now            func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithSkipLockScreen disables the lock screen step.
func WithSkipLockScreen() Option {
	return func(c *Controller) { c.skipLockScreen = true }
}

// WithSkipPalette disables the palette refresh step.
func WithSkipPalette() Option {
	return func(c *Controller) { c.skipPalette = true }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New wires a Controller from its collaborators.
func New(store *rotation.Store, picker *rotation.Picker, applier desktop.Applier,
	lockScreen lockscreen.Synchronizer, refresher Refresher, logger hclog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Controller{
		store:      store,
		picker:     picker,
		applier:    applier,
		lockScreen: lockScreen,
		palette:    refresher,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes one rotation against the catalog at root. A clean abort
// returns Result{Stage: StageAborted} with a nil error; any other early
// return carries the stage that failed.
func (c *Controller) Run(ctx context.Context, root string, selectTheme ThemeSelector) (Result, error) {
	result := Result{Stage: StageIdle, Reached: StageIdle}

	cat, err := catalog.Load(root)
	if err != nil {
		return c.fail(result, err)
	}
	result.Stage = StageCatalogLoaded
	c.logger.Debug("catalog loaded", "root", cat.Root, "themes", cat.Len())

	result.Stage = StageSelecting
	selection, err := selectTheme(ctx, cat)
	if err != nil {
		return c.fail(result, err)
	}
	if selection.Abort {
		c.logger.Info("rotation aborted before any change")
		result.Reached = StageSelecting
		result.Stage = StageAborted
		return result, nil
	}
	result.Stage = StageThemeChosen
	result.Theme = selection.Theme.Name

	state := c.store.Load()
	choice, err := c.picker.Wallpaper(selection.Theme, state)
	if err != nil {
		return c.fail(result, err)
	}
	if choice.RepeatReuse {
		c.logger.Warn("theme has a single image, reusing previous wallpaper",
			"theme", selection.Theme.Name, "wallpaper", choice.Path)
	}
	result.Stage = StageWallpaperChosen
	result.Wallpaper = choice.Path
	c.logger.Info("wallpaper selected", "theme", selection.Theme.Name, "wallpaper", choice.Path)

	if err := c.applier.Apply(ctx, choice.Path); err != nil {
		return c.fail(result, fmt.Errorf("%w: %v", ErrWallpaperApply, err))
	}
	result.Stage = StageDesktopApplied
	c.logger.Info("desktop wallpaper applied", "wallpaper", choice.Path)

	// Lock screen failures are absorbed: this step can never fail the run.
	c.attemptLockScreen(ctx, choice.Path)
	result.Stage = StageLockScreenAttempted

	state.Touch(selection.Theme.Name, choice.Path, c.now())
	if err := c.store.Save(state); err != nil {
		return c.fail(result, fmt.Errorf("%w: %v", ErrStatePersist, err))
	}
	result.Stage = StageStatePersisted
	c.logger.Debug("rotation state persisted", "path", c.store.Path())

	if !c.skipPalette {
		if err := c.palette.Refresh(ctx); err != nil {
			// Desktop, lock screen and state changes already committed stay
			// in effect; there is no compensating rollback.
			return c.fail(result, err)
		}
	}
	result.Stage = StagePaletteRefreshed

	result.Reached = result.Stage
	result.Stage = StageDone
	c.logger.Info("rotation complete", "theme", result.Theme, "wallpaper", result.Wallpaper)
	return result, nil
}

// attemptLockScreen runs the sync step and reduces every outcome to a log
// line.
func (c *Controller) attemptLockScreen(ctx context.Context, path string) {
	if c.skipLockScreen {
		c.logger.Debug("lock screen sync skipped")
		return
	}
	err := c.lockScreen.Sync(ctx, path)
	switch {
	case err == nil:
		c.logger.Info("lock screen image applied", "wallpaper", path)
	case errors.Is(err, lockscreen.ErrManagedProvider):
		c.logger.Warn("lock screen update refused by managed provider", "error", err)
	case errors.Is(err, lockscreen.ErrUnsupported):
		c.logger.Warn("lock screen sync unavailable", "error", err)
	default:
		c.logger.Warn("lock screen sync failed", "error", err)
	}
}

// fail marks the result failed while preserving the stage that was
// reached, so callers can report which step broke.
func (c *Controller) fail(result Result, err error) (Result, error) {
	failed := result
	failed.Reached = result.Stage
	failed.Stage = StageFailed
	c.logger.Error("rotation failed", "after", string(failed.Reached), "error", err)
	return failed, err
}
