package anomaly

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// jetColor maps an intensity 0..255 onto the JET colormap (blue through
// green to red).
func jetColor(v byte) color.NRGBA {
	t := float64(v) / 255.0
	clamp := func(x float64) uint8 {
		if x < 0 {
			x = 0
		} else if x > 1 {
			x = 1
		}
		return uint8(x*255 + 0.5)
	}
	return color.NRGBA{
		R: clamp(1.5 - math.Abs(4*t-3)),
		G: clamp(1.5 - math.Abs(4*t-2)),
		B: clamp(1.5 - math.Abs(4*t-1)),
		A: 0xFF,
	}
}

// renderHeatmap colormaps the binarized difference and blends it additively
// over the live crop: out = clip(0.7*live + 0.5*heat). The overweighted sum
// is intentional; clipping produces the hot-highlight look.
func renderHeatmap(live *image.NRGBA, binary []byte) *image.NRGBA {
	b := live.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	blend := func(lv, hv uint8) uint8 {
		v := 0.7*float64(lv) + 0.5*float64(hv)
		if v > 255 {
			v = 255
		}
		return uint8(v)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			heat := jetColor(binary[y*w+x])
			src := live.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			out.SetNRGBA(x, y, color.NRGBA{
				R: blend(src.R, heat.R),
				G: blend(src.G, heat.G),
				B: blend(src.B, heat.B),
				A: 0xFF,
			})
		}
	}
	return out
}

// writeHeatmap persists the rendered overlay as PNG.
func writeHeatmap(path string, img *image.NRGBA) error {
	return imaging.Save(img, path)
}
