// Package catalog discovers wallpaper themes on disk. A theme is an
// immediate subdirectory of the catalog root; its immediate files with a
// supported raster extension are the theme's candidate wallpapers.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrRootNotFound indicates the catalog root directory does not exist.
	ErrRootNotFound = errors.New("catalog root not found")

	// ErrEmptyCatalog indicates the root contains no theme folders.
	ErrEmptyCatalog = errors.New("no theme folders found")
)

// supportedExtensions lists the raster formats accepted as wallpapers.
// Matching is case-insensitive.
var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".webp": {},
}

// Image describes one candidate wallpaper file.
type Image struct {
	// Path is the absolute location of the file.
	Path string

	// Ext is the lowercased file extension including the dot.
	Ext string
}

// Theme is a named folder of candidate wallpaper images.
type Theme struct {
	// Name is the directory name, unique within one catalog.
	Name string

	// Path is the absolute directory location.
	Path string

	// Images holds the theme's wallpapers sorted by path, so index-based
	// selection is stable within a run.
	Images []Image
}

// Count returns the number of candidate wallpapers in the theme.
func (t Theme) Count() int {
	return len(t.Images)
}

// Catalog is the result of scanning one root directory, sorted by theme name.
type Catalog struct {
	// Root is the absolute path that was scanned.
	Root string

	// Themes holds the discovered themes sorted by name.
	Themes []Theme
}

// Len returns the number of themes in the catalog.
func (c Catalog) Len() int {
	return len(c.Themes)
}

// Theme returns the catalog entry at the given 1-based index.
func (c Catalog) Theme(index int) (Theme, bool) {
	if index < 1 || index > len(c.Themes) {
		return Theme{}, false
	}
	return c.Themes[index-1], true
}

// Load scans root for theme folders. Immediate subdirectories become
// themes; each theme's immediate files are filtered to supported image
// extensions. Subdirectories of theme folders are not recursed. Themes
// with zero images are retained so their lack of assets can be reported.
func Load(root string) (Catalog, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to resolve catalog root %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return Catalog{}, fmt.Errorf("%w: %s", ErrRootNotFound, abs)
		}
		return Catalog{}, fmt.Errorf("failed to stat catalog root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return Catalog{}, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, abs)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read catalog root %s: %w", abs, err)
	}

	var themes []Theme
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		themePath := filepath.Join(abs, entry.Name())
		images, err := loadImages(themePath)
		if err != nil {
			return Catalog{}, err
		}
		themes = append(themes, Theme{
			Name:   entry.Name(),
			Path:   themePath,
			Images: images,
		})
	}

	if len(themes) == 0 {
		return Catalog{}, fmt.Errorf("%w under %s", ErrEmptyCatalog, abs)
	}

	sort.Slice(themes, func(i, j int) bool {
		return themes[i].Name < themes[j].Name
	})

	return Catalog{Root: abs, Themes: themes}, nil
}

// loadImages collects the supported image files directly inside dir.
func loadImages(dir string) ([]Image, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme folder %s: %w", dir, err)
	}

	var images []Image
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := supportedExtensions[ext]; !ok {
			continue
		}
		images = append(images, Image{
			Path: filepath.Join(dir, entry.Name()),
			Ext:  ext,
		})
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Path < images[j].Path
	})

	return images, nil
}
