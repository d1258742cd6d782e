package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmylchreest/wallcycle/internal/catalog"
	"github.com/jmylchreest/wallcycle/internal/lockscreen"
	"github.com/jmylchreest/wallcycle/internal/palette"
	"github.com/jmylchreest/wallcycle/internal/rotation"
)

type fakeApplier struct {
	err     error
	applied []string
}

func (f *fakeApplier) Apply(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, path)
	return nil
}

type fakeSync struct {
	err    error
	synced []string
}

func (f *fakeSync) Sync(_ context.Context, path string) error {
	if f.err != nil {
		return f.err
	}
	f.synced = append(f.synced, path)
	return nil
}

type fakeRefresher struct {
	err   error
	calls int
}

func (f *fakeRefresher) Refresh(_ context.Context) error {
	f.calls++
	return f.err
}

// fixture owns a temp catalog with themes A (a1,a2,a3) and B (b1), a temp
// state store, and fakes for the OS-facing collaborators.
type fixture struct {
	root    string
	store   *rotation.Store
	applier *fakeApplier
	sync    *fakeSync
	palette *fakeRefresher
	aImages []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	f := &fixture{
		root:    root,
		store:   rotation.NewStore(filepath.Join(t.TempDir(), "state.json"), nil),
		applier: &fakeApplier{},
		sync:    &fakeSync{},
		palette: &fakeRefresher{},
	}

	for _, name := range []string{"a1.jpg", "a2.jpg", "a3.jpg"} {
		path := filepath.Join(root, "A", name)
		writeFile(t, path)
		f.aImages = append(f.aImages, path)
	}
	writeFile(t, filepath.Join(root, "B", "b1.jpg"))

	return f
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func (f *fixture) controller(opts ...Option) *Controller {
	picker := rotation.NewPicker(rand.New(rand.NewSource(1)))
	return New(f.store, picker, f.applier, f.sync, f.palette, nil, opts...)
}

func selectIndex(index int) ThemeSelector {
	return func(_ context.Context, cat catalog.Catalog) (Selection, error) {
		theme, err := rotation.ThemeByIndex(cat, index)
		if err != nil {
			return Selection{}, err
		}
		return Selection{Theme: theme}, nil
	}
}

func selectAbort() ThemeSelector {
	return func(_ context.Context, _ catalog.Catalog) (Selection, error) {
		return Selection{Abort: true}, nil
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func TestRunHappyPath(t *testing.T) {
	f := newFixture(t)

	result, err := f.controller().Run(context.Background(), f.root, selectIndex(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stage != StageDone {
		t.Errorf("stage = %s, want %s", result.Stage, StageDone)
	}
	if result.Theme != "A" {
		t.Errorf("theme = %s, want A", result.Theme)
	}
	if !contains(f.aImages, result.Wallpaper) {
		t.Errorf("wallpaper = %s, want one of %v", result.Wallpaper, f.aImages)
	}

	if len(f.applier.applied) != 1 || f.applier.applied[0] != result.Wallpaper {
		t.Errorf("desktop applied %v, want exactly the chosen wallpaper", f.applier.applied)
	}
	if len(f.sync.synced) != 1 || f.sync.synced[0] != result.Wallpaper {
		t.Errorf("lock screen synced %v, want exactly the chosen wallpaper", f.sync.synced)
	}
	if f.palette.calls != 1 {
		t.Errorf("palette refreshed %d times, want 1", f.palette.calls)
	}

	state := f.store.Load()
	record, ok := state["A"]
	if !ok {
		t.Fatal("no rotation record persisted for theme A")
	}
	if record.Wallpaper != result.Wallpaper {
		t.Errorf("persisted wallpaper = %s, want %s", record.Wallpaper, result.Wallpaper)
	}
	if record.Timestamp == "" {
		t.Error("persisted record has no timestamp")
	}
}

func TestRunAvoidsPriorWallpaper(t *testing.T) {
	f := newFixture(t)
	prior := f.aImages[1] // a2
	state := rotation.State{"A": {Wallpaper: prior, Timestamp: "2026-08-01T10:00:00Z"}}
	if err := f.store.Save(state); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	controller := f.controller()
	for i := 0; i < 50; i++ {
		result, err := controller.Run(context.Background(), f.root, selectIndex(1))
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if result.Wallpaper == prior {
			t.Fatal("rotation reused the immediately-prior wallpaper")
		}
		// Re-seed so every iteration excludes the same prior path.
		if err := f.store.Save(state); err != nil {
			t.Fatalf("reseed state: %v", err)
		}
	}
}

func TestRunAbortHasNoSideEffects(t *testing.T) {
	f := newFixture(t)

	result, err := f.controller().Run(context.Background(), f.root, selectAbort())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stage != StageAborted {
		t.Errorf("stage = %s, want %s", result.Stage, StageAborted)
	}

	if len(f.applier.applied) != 0 || len(f.sync.synced) != 0 || f.palette.calls != 0 {
		t.Error("abort performed side effects")
	}
	if _, err := os.Stat(f.store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Error("abort created a state file")
	}
}

func TestRunRootNotFound(t *testing.T) {
	f := newFixture(t)

	result, err := f.controller().Run(context.Background(), filepath.Join(f.root, "missing"), selectIndex(1))
	if !errors.Is(err, catalog.ErrRootNotFound) {
		t.Errorf("Run error = %v, want ErrRootNotFound", err)
	}
	if result.Stage != StageFailed {
		t.Errorf("stage = %s, want %s", result.Stage, StageFailed)
	}
	if _, statErr := os.Stat(f.store.Path()); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("failed run modified the state file")
	}
}

func TestRunEmptyThemeFails(t *testing.T) {
	f := newFixture(t)
	if err := os.MkdirAll(filepath.Join(f.root, "0empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// 0empty sorts first.
	result, err := f.controller().Run(context.Background(), f.root, selectIndex(1))
	if !errors.Is(err, rotation.ErrEmptyTheme) {
		t.Errorf("Run error = %v, want ErrEmptyTheme", err)
	}
	if result.Stage != StageFailed {
		t.Errorf("stage = %s, want %s", result.Stage, StageFailed)
	}
	if len(f.applier.applied) != 0 {
		t.Error("empty theme still applied a wallpaper")
	}
}

func TestRunInvalidIndexFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.controller().Run(context.Background(), f.root, selectIndex(9))
	if !errors.Is(err, rotation.ErrInvalidIndex) {
		t.Errorf("Run error = %v, want ErrInvalidIndex", err)
	}
}

func TestRunApplyFailureIsFatalBeforePersist(t *testing.T) {
	f := newFixture(t)
	f.applier.err = fmt.Errorf("wallpaper API rejected the call")

	result, err := f.controller().Run(context.Background(), f.root, selectIndex(1))
	if !errors.Is(err, ErrWallpaperApply) {
		t.Errorf("Run error = %v, want ErrWallpaperApply", err)
	}
	if result.Stage != StageFailed {
		t.Errorf("stage = %s, want %s", result.Stage, StageFailed)
	}
	if result.Reached != StageWallpaperChosen {
		t.Errorf("reached = %s, want %s", result.Reached, StageWallpaperChosen)
	}

	// No partial state is persisted and later steps never run.
	if _, statErr := os.Stat(f.store.Path()); !errors.Is(statErr, os.ErrNotExist) {
		t.Error("failed apply still persisted state")
	}
	if len(f.sync.synced) != 0 || f.palette.calls != 0 {
		t.Error("failed apply still ran later pipeline steps")
	}
}

func TestRunLockScreenFailureIsAbsorbed(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "managed provider refusal", err: lockscreen.ErrManagedProvider},
		{name: "platform unsupported", err: lockscreen.ErrUnsupported},
		{name: "arbitrary failure", err: errors.New("broken pipe")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.sync.err = tt.err

			result, err := f.controller().Run(context.Background(), f.root, selectIndex(1))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if result.Stage != StageDone {
				t.Errorf("stage = %s, want %s", result.Stage, StageDone)
			}
			if f.palette.calls != 1 {
				t.Errorf("palette refreshed %d times, want 1", f.palette.calls)
			}
			if _, ok := f.store.Load()["A"]; !ok {
				t.Error("state not persisted despite lock screen failure being non-fatal")
			}
		})
	}
}

func TestRunPaletteFailureAfterPersist(t *testing.T) {
	f := newFixture(t)
	f.palette.err = fmt.Errorf("%w: update-palette exited with code 2", palette.ErrRefreshFailed)

	result, err := f.controller().Run(context.Background(), f.root, selectIndex(1))
	if !errors.Is(err, palette.ErrRefreshFailed) {
		t.Errorf("Run error = %v, want ErrRefreshFailed", err)
	}
	if result.Stage != StageFailed {
		t.Errorf("stage = %s, want %s", result.Stage, StageFailed)
	}
	if result.Reached != StageStatePersisted {
		t.Errorf("reached = %s, want %s", result.Reached, StageStatePersisted)
	}

	// Changes already committed stay committed: no rollback.
	if len(f.applier.applied) != 1 {
		t.Error("desktop wallpaper was not left in place")
	}
	if _, ok := f.store.Load()["A"]; !ok {
		t.Error("persisted state was rolled back")
	}
}

func TestRunStatePersistFailureIsFatal(t *testing.T) {
	f := newFixture(t)

	// Point the store below a regular file so the directory cannot be made.
	blocker := filepath.Join(t.TempDir(), "blocker")
	writeFile(t, blocker)
	f.store = rotation.NewStore(filepath.Join(blocker, "state.json"), nil)

	result, err := f.controller().Run(context.Background(), f.root, selectIndex(1))
	if !errors.Is(err, ErrStatePersist) {
		t.Errorf("Run error = %v, want ErrStatePersist", err)
	}
	if result.Reached != StageLockScreenAttempted {
		t.Errorf("reached = %s, want %s", result.Reached, StageLockScreenAttempted)
	}

	// The wallpaper change is not rolled back.
	if len(f.applier.applied) != 1 {
		t.Error("desktop apply was rolled back")
	}
	if f.palette.calls != 0 {
		t.Error("palette ran despite the persist failure")
	}
}

func TestRunSkipFlags(t *testing.T) {
	f := newFixture(t)

	result, err := f.controller(WithSkipLockScreen(), WithSkipPalette()).
		Run(context.Background(), f.root, selectIndex(1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stage != StageDone {
		t.Errorf("stage = %s, want %s", result.Stage, StageDone)
	}
	if len(f.sync.synced) != 0 {
		t.Error("lock screen ran despite skip")
	}
	if f.palette.calls != 0 {
		t.Error("palette ran despite skip")
	}
}
