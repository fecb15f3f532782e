package anomaly

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/soocke/anomaly-watch-go/domain/ocr"
)

// Classifier identifies the current room by reading the location label the
// game renders in the dynamic rectangle. Recognition is best-effort: a miss
// means the detection cycle skips comparison, never an error.
type Classifier struct {
	rooms      []string
	recognizer ocr.Recognizer
	bottomFrac float64
	leftFrac   float64
	logger     *slog.Logger
}

// NewClassifier builds a classifier matching the given room names in
// declared order.
func NewClassifier(rooms []string, recognizer ocr.Recognizer, bottomFrac, leftFrac float64, logger *slog.Logger) *Classifier {
	return &Classifier{
		rooms:      rooms,
		recognizer: recognizer,
		bottomFrac: bottomFrac,
		leftFrac:   leftFrac,
		logger:     logger,
	}
}

// Classify extracts the label region from frame, runs text recognition over
// its grayscale projection, and returns the first configured room whose name
// occurs (case-insensitively) as a substring of any recognized span. Rooms
// are tried in declared order; spans in recognizer order.
func (c *Classifier) Classify(frame image.Image) (Room, bool) {
	rect := dynamicRect(frame.Bounds(), c.bottomFrac, c.leftFrac)
	label := imaging.Grayscale(imaging.Crop(frame, rect))

	var buf bytes.Buffer
	if err := png.Encode(&buf, label); err != nil {
		if c.logger != nil {
			c.logger.Warn("classifier: encode label region", "error", err)
		}
		return "", false
	}
	spans, err := c.recognizer.Recognize(buf.Bytes())
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("classifier: text recognition", "error", err)
		}
		return "", false
	}
	if len(spans) == 0 {
		return "", false
	}
	for _, room := range c.rooms {
		needle := strings.ToLower(room)
		for _, span := range spans {
			if strings.Contains(strings.ToLower(span.Text), needle) {
				return Room(room), true
			}
		}
	}
	return "", false
}
