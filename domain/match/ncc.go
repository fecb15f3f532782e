// Package match implements normalized cross-correlation (NCC) template
// matching over grayscale projections of images. Frames and templates are
// precomputed once (grayscale plus summed-area tables) so that repeated
// matches against the same reference image reuse the integral data.
package match

import (
	"image"
	"math"
)

// FramePrecomp stores per-frame grayscale values and their summed-area tables
// (integral images). The integrals allow O(1) window sum and variance queries.
type FramePrecomp struct {
	gray       []float64 // per pixel grayscale (length W*H)
	integral   []float64 // summed-area table of grayscale
	integralSq []float64 // summed-area table of grayscale squared
	W, H       int
}

// Template caches grayscale pixels and summary statistics for a template
// crop. Pixels with alpha==0 are ignored when computing stats.
type Template struct {
	gray  []float32
	W, H  int
	meanT float64
	stdT  float64
}

// Options configures an NCC match.
type Options struct {
	Threshold float64 // minimum NCC score for a positive match (default 0.80)
	Stride    int     // coarse stride for scanning (default 1)
	Refine    bool    // if true and Stride>1, do a refinement pass around the best window
}

// Result holds the outcome of a template matching operation. X,Y is the
// top-left offset of the best window in frame coordinates.
type Result struct {
	X, Y  int
	Score float64
	Found bool
}

// NewFramePrecomp computes per-pixel grayscale values and their summed-area
// tables for a frame. Alpha==0 pixels contribute zero.
func NewFramePrecomp(frame image.Image) *FramePrecomp {
	if frame == nil {
		return nil
	}
	b := frame.Bounds()
	W, H := b.Dx(), b.Dy()
	if W == 0 || H == 0 {
		return nil
	}
	need := W * H
	p := &FramePrecomp{
		gray:       make([]float64, need),
		integral:   make([]float64, need),
		integralSq: make([]float64, need),
		W:          W,
		H:          H,
	}
	for y := 0; y < H; y++ {
		var rowSum, rowSum2 float64
		for x := 0; x < W; x++ {
			r, g, bb, a := frame.At(b.Min.X+x, b.Min.Y+y).RGBA()
			var gray float64
			if a != 0 {
				gray = 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bb)
			}
			off := y*W + x
			p.gray[off] = gray
			rowSum += gray
			rowSum2 += gray * gray
			if y == 0 {
				p.integral[off] = rowSum
				p.integralSq[off] = rowSum2
			} else {
				p.integral[off] = p.integral[(y-1)*W+x] + rowSum
				p.integralSq[off] = p.integralSq[(y-1)*W+x] + rowSum2
			}
		}
	}
	return p
}

// Bounds reports the precomputed frame dimensions.
func (p *FramePrecomp) Bounds() (w, h int) { return p.W, p.H }

// NewTemplate builds grayscale pixels and summary statistics for tmpl.
func NewTemplate(tmpl image.Image) *Template {
	if tmpl == nil {
		return nil
	}
	b := tmpl.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	need := w * h
	gray := make([]float32, need)
	var sumT, sumT2 float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bb, a := tmpl.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if a == 0 { // transparent ignored
				continue
			}
			gval := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(bb)
			gray[y*w+x] = float32(gval)
			sumT += gval
			sumT2 += gval * gval
		}
	}
	n := float64(need)
	meanT := sumT / n
	varT := (sumT2 - sumT*sumT/n) / n
	stdT := 0.0
	if varT > 0 {
		stdT = math.Sqrt(varT)
	}
	return &Template{gray: gray, W: w, H: h, meanT: meanT, stdT: stdT}
}

// Size reports the template dimensions.
func (t *Template) Size() (w, h int) { return t.W, t.H }

// Match computes normalized cross-correlation between a template and a
// precomputed frame across all valid offsets and returns the best window.
// Deterministic: identical inputs always yield identical results.
func Match(pre *FramePrecomp, tmpl *Template, opts Options) Result {
	res := Result{Score: -1}
	if pre == nil || tmpl == nil {
		return res
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 0.80
	}
	stride := opts.Stride
	if stride <= 0 {
		stride = 1
	}
	W, H := pre.W, pre.H
	w, h := tmpl.W, tmpl.H
	if w == 0 || h == 0 || W < w || H < h {
		return res
	}

	// A flat template carries no correlation signal; fall back to an exact
	// uniform-window scan, mirroring TM_CCOEFF_NORMED degenerate behavior.
	if tmpl.stdT <= 1e-9 {
		ref := float64(tmpl.gray[0])
		for y := 0; y <= H-h; y += stride {
			for x := 0; x <= W-w; x += stride {
				if uniformWindow(pre, tmpl, x, y, ref) {
					return Result{X: x, Y: y, Score: 1, Found: true}
				}
			}
		}
		return res
	}

	bestX, bestY, bestScore := 0, 0, -1.0
	for y := 0; y <= H-h; y += stride {
		for x := 0; x <= W-w; x += stride {
			if score, ok := scoreAt(pre, tmpl, x, y); ok && score > bestScore {
				bestScore, bestX, bestY = score, x, y
			}
		}
	}
	if opts.Refine && stride > 1 {
		minY := max(0, bestY-stride)
		maxY := min(H-h, bestY+stride)
		minX := max(0, bestX-stride)
		maxX := min(W-w, bestX+stride)
		for y := minY; y <= maxY; y++ {
			for x := minX; x <= maxX; x++ {
				if score, ok := scoreAt(pre, tmpl, x, y); ok && score > bestScore {
					bestScore, bestX, bestY = score, x, y
				}
			}
		}
	}
	res.X, res.Y, res.Score = bestX, bestY, bestScore
	res.Found = bestScore >= opts.Threshold
	return res
}

// scoreAt computes the NCC score of the template window at offset (x,y).
// Returns ok=false for windows with no variance.
func scoreAt(pre *FramePrecomp, tmpl *Template, x, y int) (float64, bool) {
	w, h := tmpl.W, tmpl.H
	n := float64(w * h)
	sumF := integralSum(pre.integral, pre.W, x, y, x+w-1, y+h-1)
	sumF2 := integralSum(pre.integralSq, pre.W, x, y, x+w-1, y+h-1)
	meanF := sumF / n
	varF := (sumF2 - sumF*sumF/n) / n
	if varF <= 1e-9 {
		return 0, false
	}
	stdF := math.Sqrt(varF)
	var sumFT float64
	W := pre.W
	for py := 0; py < h; py++ {
		rowF := pre.gray[(y+py)*W+x:]
		rowT := tmpl.gray[py*w:]
		for px := 0; px < w; px++ {
			sumFT += rowF[px] * float64(rowT[px])
		}
	}
	numer := sumFT - n*meanF*tmpl.meanT
	denom := n * stdF * tmpl.stdT
	if denom <= 0 {
		return 0, false
	}
	return numer / denom, true
}

// uniformWindow reports whether every frame pixel under the window at (x,y)
// equals ref.
func uniformWindow(pre *FramePrecomp, tmpl *Template, x, y int, ref float64) bool {
	w, h := tmpl.W, tmpl.H
	W := pre.W
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			if math.Abs(pre.gray[(y+py)*W+(x+px)]-ref) > 1e-9 {
				return false
			}
		}
	}
	return true
}

// integralSum returns the inclusive sum over rectangle [x0..x1] x [y0..y1]
// from an integral image stored in row-major order with width W.
func integralSum(I []float64, W int, x0, y0, x1, y1 int) float64 {
	if x0 > x1 || y0 > y1 {
		return 0
	}
	A := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return I[y*W+x]
	}
	return A(x1, y1) - A(x0-1, y1) - A(x1, y0-1) + A(x0-1, y0-1)
}
