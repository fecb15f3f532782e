package anomaly

import (
	"bytes"
	"testing"
)

func TestMaskDynamic_ZeroesDynamicRect(t *testing.T) {
	img := synthGray(100, 50, 200)
	masked := MaskDynamic(img, 0.20, 0.30)

	rect := dynamicRect(img.Bounds(), 0.20, 0.30)
	if rect.Min.Y != 40 || rect.Max.X != 30 {
		t.Fatalf("unexpected dynamic rect %v", rect)
	}
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			c := masked.NRGBAAt(x, y)
			inRect := x < 30 && y >= 40
			if inRect && (c.R != 0 || c.G != 0 || c.B != 0) {
				t.Fatalf("pixel (%d,%d) inside mask not black: %v", x, y, c)
			}
			if !inRect && c.R != 200 {
				t.Fatalf("pixel (%d,%d) outside mask modified: %v", x, y, c)
			}
		}
	}
}

func TestMaskDynamic_PureAndIdempotent(t *testing.T) {
	img := synthGray(80, 80, 123)
	orig := make([]byte, len(img.Pix))
	copy(orig, img.Pix)

	once := MaskDynamic(img, 0.20, 0.30)
	if !bytes.Equal(orig, img.Pix) {
		t.Fatalf("MaskDynamic mutated its input")
	}
	twice := MaskDynamic(once, 0.20, 0.30)
	if !bytes.Equal(once.Pix, twice.Pix) {
		t.Fatalf("MaskDynamic is not idempotent")
	}
}
