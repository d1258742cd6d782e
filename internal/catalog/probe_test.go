package catalog

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestProbeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.png")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(file, image.NewRGBA(image.Rect(0, 0, 32, 18))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	dims, err := ProbeImage(path)
	if err != nil {
		t.Fatalf("ProbeImage: %v", err)
	}
	if dims.Width != 32 || dims.Height != 18 {
		t.Errorf("dimensions = %dx%d, want 32x18", dims.Width, dims.Height)
	}
}

func TestProbeImageUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := ProbeImage(path); err == nil {
		t.Error("ProbeImage succeeded on non-image data")
	}
}
