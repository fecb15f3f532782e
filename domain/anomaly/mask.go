package anomaly

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// dynamicRect returns the rectangle covering the bottom bottomFrac of height
// by the left leftFrac of width of b. This is where the game renders its
// location label and other time-varying chrome.
func dynamicRect(b image.Rectangle, bottomFrac, leftFrac float64) image.Rectangle {
	h := b.Dy()
	w := b.Dx()
	y0 := b.Min.Y + int(float64(h)*(1-bottomFrac))
	x1 := b.Min.X + int(float64(w)*leftFrac)
	return image.Rect(b.Min.X, y0, x1, b.Max.Y)
}

// MaskDynamic returns a copy of img with the dynamic rectangle filled with
// black. Pure: the input is never mutated. Idempotent: masking an already
// masked image yields an identical image.
func MaskDynamic(img image.Image, bottomFrac, leftFrac float64) *image.NRGBA {
	out := imaging.Clone(img)
	rect := dynamicRect(out.Bounds(), bottomFrac, leftFrac)
	draw.Draw(out, rect, image.NewUniform(color.NRGBA{A: 0xFF}), image.Point{}, draw.Src)
	return out
}
