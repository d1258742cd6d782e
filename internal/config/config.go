// Package config loads the optional wallcycle configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings wallcycle reads from its TOML file. Flags
// override any value set here.
type Config struct {
	// WallpaperRoot is the catalog root holding theme folders.
	WallpaperRoot string

	// StateFile overrides the rotation state location.
	StateFile string

	// PaletteCommand names the external palette tool.
	PaletteCommand string

	// PaletteArgs are extra arguments passed to the palette tool.
	PaletteArgs []string

	// PaletteTimeout bounds one palette refresh; zero disables the bound.
	PaletteTimeout time.Duration
}

const (
	defaultConfigPath     = "~/.config/wallcycle/config.toml"
	defaultWallpaperRoot  = "~/Pictures/wallpapers"
	defaultPaletteTimeout = 2 * time.Minute
)

// Load locates and parses the config file, falling back to defaults when
// missing. A config file is optional; only a present-but-broken file is an
// error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		WallpaperRoot:  mustExpand(defaultWallpaperRoot),
		PaletteTimeout: defaultPaletteTimeout,
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		WallpaperRoot  string   `toml:"wallpaper_root"`
		StateFile      string   `toml:"state_file"`
		PaletteCommand string   `toml:"palette_command"`
		PaletteArgs    []string `toml:"palette_args"`
		PaletteTimeout string   `toml:"palette_timeout"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if root := strings.TrimSpace(raw.WallpaperRoot); root != "" {
		cfg.WallpaperRoot = mustExpand(root)
	}
	if state := strings.TrimSpace(raw.StateFile); state != "" {
		cfg.StateFile = mustExpand(state)
	}
	cfg.PaletteCommand = strings.TrimSpace(raw.PaletteCommand)
	cfg.PaletteArgs = raw.PaletteArgs

	if timeout := strings.TrimSpace(raw.PaletteTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: invalid palette_timeout %q: %w", timeout, err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("parse config: palette_timeout must not be negative")
		}
		cfg.PaletteTimeout = d
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}
