package anomaly

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/soocke/anomaly-watch-go/config"
)

const timestampLayout = "20060102_150405"

// Detector compares baseline regions of a classified room's live frame
// against the room's reference image and reports regions whose binarized
// difference exceeds the pixel-count threshold.
type Detector struct {
	cfg    *config.Config
	lib    *Library
	logger *slog.Logger
}

// NewDetector builds a detector over an initialized library.
func NewDetector(cfg *config.Config, lib *Library, logger *slog.Logger) *Detector {
	return &Detector{cfg: cfg, lib: lib, logger: logger}
}

// Detect masks both frames, diffs each baseline region, and returns one
// Anomaly per region whose set-pixel count strictly exceeds the threshold,
// in region order. A room without a reference or regions yields an empty
// result. A live frame whose resolution differs from the reference fails
// the whole cycle with a GeometryMismatchError.
func (d *Detector) Detect(room Room, live image.Image) ([]Anomaly, error) {
	ref, ok := d.lib.Reference(room)
	if !ok {
		return nil, nil
	}
	regions := d.lib.Regions(room)
	if len(regions) == 0 {
		return nil, nil
	}
	lb, rb := live.Bounds(), ref.Bounds()
	if lb.Dx() != rb.Dx() || lb.Dy() != rb.Dy() {
		return nil, &GeometryMismatchError{Room: room, Live: lb, Reference: rb}
	}

	// The live frame changes every cycle, so masks are recomputed per call.
	maskedLive := MaskDynamic(live, d.cfg.MaskBottomFrac, d.cfg.MaskLeftFrac)
	maskedRef := MaskDynamic(ref, d.cfg.MaskBottomFrac, d.cfg.MaskLeftFrac)

	now := time.Now()
	stamp := now.Format(timestampLayout)
	var anomalies []Anomaly
	for _, region := range regions {
		liveCrop := imaging.Crop(maskedLive, region.Box)
		refCrop := imaging.Crop(maskedRef, region.Box)
		binary, count := diffBinary(liveCrop, refCrop, d.cfg.BinaryThreshold)
		if count <= d.cfg.PixelCountThreshold {
			continue
		}
		record := Anomaly{
			Room:       room,
			Name:       region.Name,
			Box:        region.Box,
			PixelCount: count,
			DetectedAt: now,
		}
		// Heatmap generation is best-effort: a failed write never drops the
		// anomaly or aborts the remaining regions.
		overlay := renderHeatmap(liveCrop, binary)
		path := filepath.Join(d.cfg.BaseDir, string(room),
			fmt.Sprintf("%s_%s_%s_HEAT.png", room, region.Name, stamp))
		if err := writeHeatmap(path, overlay); err != nil {
			if d.logger != nil {
				d.logger.Warn("detector: heatmap write failed", "room", room, "feature", region.Name, "path", path, "error", err)
			}
		} else {
			record.HeatmapPath = path
		}
		anomalies = append(anomalies, record)
	}
	return anomalies, nil
}

// diffBinary computes the per-pixel absolute difference between two
// equally-sized crops, reduces it to intensity, and binarizes: intensity
// strictly greater than threshold becomes 255, everything else 0. Returns
// the binary plane (row-major, one byte per pixel) and the set-pixel count.
func diffBinary(a, b *image.NRGBA, threshold int) ([]byte, int) {
	ab, bb := a.Bounds(), b.Bounds()
	w, h := ab.Dx(), ab.Dy()
	if bb.Dx() != w || bb.Dy() != h {
		return nil, 0
	}
	binary := make([]byte, w*h)
	count := 0
	for y := 0; y < h; y++ {
		ra := a.Pix[a.PixOffset(ab.Min.X, ab.Min.Y+y):]
		rb := b.Pix[b.PixOffset(bb.Min.X, bb.Min.Y+y):]
		for x := 0; x < w; x++ {
			i := x * 4
			dr := absDiff(ra[i], rb[i])
			dg := absDiff(ra[i+1], rb[i+1])
			db := absDiff(ra[i+2], rb[i+2])
			gray := int((77*uint32(dr) + 150*uint32(dg) + 29*uint32(db)) >> 8)
			if gray > threshold {
				binary[y*w+x] = 0xFF
				count++
			}
		}
	}
	return binary, count
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
