package catalog

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/webp" // Register WebP format
)

// Dimensions holds the pixel size of a probed image.
type Dimensions struct {
	Width  int
	Height int
}

// ProbeImage reads just enough of the file to report its pixel dimensions.
// Supported formats: JPEG, PNG, BMP, WebP.
func ProbeImage(path string) (Dimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dimensions{}, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
