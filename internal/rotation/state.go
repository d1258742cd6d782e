// Package rotation holds the per-theme rotation history and the wallpaper
// selection logic that biases away from immediate repeats.
package rotation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Record is the persisted state for one theme.
type Record struct {
	// Wallpaper is the absolute path of the last wallpaper applied.
	Wallpaper string `json:"wallpaper"`

	// Timestamp is the time of that application in RFC3339.
	Timestamp string `json:"timestamp"`
}

// State maps theme name to its last rotation record. Absence of an entry
// means the theme was never rotated in recorded history.
type State map[string]Record

// Store loads and saves rotation state at a fixed path. The in-memory
// mapping is the source of truth during a run; Save rewrites the whole
// file rather than patching it.
type Store struct {
	path   string
	logger hclog.Logger
}

// NewStore creates a store persisting at path.
func NewStore(path string, logger hclog.Logger) *Store {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the location of the persisted state file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted mapping. A missing file yields an empty state.
// An unparsable file is logged and also yields an empty state; corruption
// is never fatal since the history rebuilds itself on the next rotation.
func (s *Store) Load() State {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read rotation state, starting fresh", "path", s.path, "error", err)
		}
		return State{}
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("rotation state is unparsable, starting fresh", "path", s.path, "error", err)
		return State{}
	}
	if state == nil {
		state = State{}
	}
	return state
}

// Save serializes the full mapping and atomically replaces the persisted
// file. The temp file is created in the destination directory so the
// rename cannot cross filesystems.
func (s *Store) Save(state State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rotation state: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".rotation-state-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file %s: %w", s.path, err)
	}

	return nil
}

// Touch records wallpaper as the last-used selection for theme at now.
// It mutates the mapping in place; the caller persists via Save.
func (st State) Touch(theme, wallpaper string, now time.Time) {
	st[theme] = Record{
		Wallpaper: wallpaper,
		Timestamp: now.Format(time.RFC3339),
	}
}

// DefaultStatePath returns the conventional location of the rotation state
// file under the user config directory.
func DefaultStatePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user config directory: %w", err)
	}
	return filepath.Join(base, "wallcycle", "rotation-state.json"), nil
}
