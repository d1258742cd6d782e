package rotation

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/jmylchreest/wallcycle/internal/catalog"
)

var (
	// ErrInvalidIndex indicates a theme index outside the catalog range.
	ErrInvalidIndex = errors.New("theme index out of range")

	// ErrEmptyTheme indicates the chosen theme has no candidate wallpapers.
	ErrEmptyTheme = errors.New("theme contains no images")
)

// Picker selects themes and wallpapers. The random source is injected so
// tests can drive it deterministically.
type Picker struct {
	rng *rand.Rand
}

// NewPicker creates a Picker backed by the given random source.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng}
}

// ThemeByIndex resolves a 1-based index into the sorted catalog. Out of
// range values are rejected, never clamped.
func ThemeByIndex(cat catalog.Catalog, index int) (catalog.Theme, error) {
	theme, ok := cat.Theme(index)
	if !ok {
		return catalog.Theme{}, fmt.Errorf("%w: %d (catalog has %d themes)", ErrInvalidIndex, index, cat.Len())
	}
	return theme, nil
}

// RandomTheme picks uniformly among all catalog themes, regardless of how
// many images each carries.
func (p *Picker) RandomTheme(cat catalog.Catalog) (catalog.Theme, error) {
	if cat.Len() == 0 {
		return catalog.Theme{}, catalog.ErrEmptyCatalog
	}
	return cat.Themes[p.rng.Intn(cat.Len())], nil
}

// WallpaperChoice is the outcome of one wallpaper selection.
type WallpaperChoice struct {
	// Path is the chosen wallpaper file.
	Path string

	// RepeatReuse is set when the theme's only image is being reused even
	// though a prior record exists. No alternative was available; callers
	// should surface this as an advisory, not an error.
	RepeatReuse bool
}

// Wallpaper picks one image from theme, avoiding the path recorded as
// last-used when more than one candidate exists. This is a single-slot
// avoid-immediate-repeat policy, not a history-aware shuffle.
func (p *Picker) Wallpaper(theme catalog.Theme, state State) (WallpaperChoice, error) {
	switch theme.Count() {
	case 0:
		return WallpaperChoice{}, fmt.Errorf("%w: %s", ErrEmptyTheme, theme.Name)
	case 1:
		_, hasPrior := state[theme.Name]
		return WallpaperChoice{
			Path:        theme.Images[0].Path,
			RepeatReuse: hasPrior,
		}, nil
	}

	lastUsed := state[theme.Name].Wallpaper
	pool := make([]string, 0, theme.Count())
	for _, img := range theme.Images {
		if img.Path == lastUsed {
			continue
		}
		pool = append(pool, img.Path)
	}

	// If excluding the last-used path emptied the pool, fall back to the
	// full image set.
	if len(pool) == 0 {
		for _, img := range theme.Images {
			pool = append(pool, img.Path)
		}
	}

	return WallpaperChoice{Path: pool[p.rng.Intn(len(pool))]}, nil
}
