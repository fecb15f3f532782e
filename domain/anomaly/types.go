// Package anomaly implements the detection pipeline: room classification
// from on-screen text, baseline region discovery via template matching,
// dynamic-area masking, and per-region pixel differencing against a stored
// reference frame.
package anomaly

import (
	"fmt"
	"image"
	"time"
)

// Room is a named game location from the configured room set.
type Room string

// Region is the located bounding box of a named reference crop within a
// room's reference image. Box coordinates are in reference-image pixel
// space; its dimensions equal the matched crop's dimensions.
type Region struct {
	Name string
	Box  image.Rectangle
}

// Anomaly is one region whose live-vs-reference difference exceeded the
// configured pixel-count threshold. HeatmapPath is empty when the heatmap
// write failed; the anomaly is still valid.
type Anomaly struct {
	Room        Room
	Name        string
	Box         image.Rectangle
	PixelCount  int
	HeatmapPath string
	DetectedAt  time.Time
}

// GeometryMismatchError reports a live frame whose resolution does not match
// the reference image used to compute the room's baseline regions. Region
// boxes would address the wrong pixels, so the cycle fails instead of
// producing silently wrong results.
type GeometryMismatchError struct {
	Room      Room
	Live      image.Rectangle
	Reference image.Rectangle
}

func (e *GeometryMismatchError) Error() string {
	return fmt.Sprintf("room %s: live frame %dx%d does not match reference %dx%d",
		e.Room, e.Live.Dx(), e.Live.Dy(), e.Reference.Dx(), e.Reference.Dy())
}
