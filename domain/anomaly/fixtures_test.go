package anomaly

import (
	"image"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/soocke/anomaly-watch-go/config"
)

// Fixture geometry: a 200x200 reference frame with a flat background and two
// textured 40x40 feature patches, both clear of the dynamic mask rectangle
// (bottom 20% x left 30%).
const (
	refW, refH = 200, 200
	patchSize  = 40
)

var (
	patchABox = image.Rect(20, 20, 20+patchSize, 20+patchSize)
	patchBBox = image.Rect(120, 80, 120+patchSize, 80+patchSize)
)

// synthGray creates an NRGBA frame filled with a uniform gray luminance.
func synthGray(w, h int, base byte) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = base
		img.Pix[i+1] = base
		img.Pix[i+2] = base
		img.Pix[i+3] = 255
	}
	return img
}

// applyPattern fills box with a deterministic pseudo-random gray texture.
// Values stay within [0,100] so that inversion always produces a per-pixel
// delta above the default binary threshold.
func applyPattern(img *image.NRGBA, box image.Rectangle, seed uint32) {
	v := seed
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			v = v*1103515245 + 12345
			lum := byte((v >> 16) % 101)
			img.SetNRGBA(x, y, color.NRGBA{R: lum, G: lum, B: lum, A: 255})
		}
	}
}

// invertRegion replaces box with inverted pixel values.
func invertRegion(img *image.NRGBA, box image.Rectangle) {
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			img.SetNRGBA(x, y, color.NRGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: 255})
		}
	}
}

// newReference builds the fixture reference frame.
func newReference() *image.NRGBA {
	ref := synthGray(refW, refH, 80)
	applyPattern(ref, patchABox, 1)
	applyPattern(ref, patchBBox, 7)
	return ref
}

// writeRoomFixture persists a room directory (template.png plus crops cut
// from the reference) under baseDir.
func writeRoomFixture(t *testing.T, baseDir, room string, ref *image.NRGBA, crops map[string]image.Rectangle) {
	t.Helper()
	dir := filepath.Join(baseDir, room, cropDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := imaging.Save(ref, filepath.Join(baseDir, room, referenceFile)); err != nil {
		t.Fatalf("save reference: %v", err)
	}
	for name, box := range crops {
		crop := imaging.Crop(ref, box)
		if err := imaging.Save(imaging.Grayscale(crop), filepath.Join(dir, name+".png")); err != nil {
			t.Fatalf("save crop %s: %v", name, err)
		}
	}
}

// testConfig returns a config rooted at a temp base dir with test-friendly
// defaults (no capture delay).
func testConfig(t *testing.T, rooms ...string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Rooms = rooms
	cfg.BaseDir = t.TempDir()
	cfg.CaptureDelayMS = 0
	return cfg
}

// loadTestLibrary builds a library over the fixture reference for the given
// room with crops "door" (patch A) and "window" (patch B).
func loadTestLibrary(t *testing.T, cfg *config.Config, room string) (*Library, *image.NRGBA) {
	t.Helper()
	ref := newReference()
	writeRoomFixture(t, cfg.BaseDir, room, ref, map[string]image.Rectangle{
		"door":   patchABox,
		"window": patchBBox,
	})
	lib, err := LoadLibrary(cfg, discardLogger())
	if err != nil {
		t.Fatalf("LoadLibrary: %v", err)
	}
	return lib, ref
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
