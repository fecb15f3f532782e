package anomaly

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/soocke/anomaly-watch-go/config"
	"github.com/soocke/anomaly-watch-go/domain/capture"
	"github.com/soocke/anomaly-watch-go/domain/ocr"
)

// historyLimit bounds the in-memory session anomaly log.
const historyLimit = 256

// Pipeline composes capture, classification and detection into one
// synchronous cycle. Not safe for concurrent use; the caller drives cadence
// from a single goroutine.
type Pipeline struct {
	cfg        *config.Config
	logger     *slog.Logger
	grabber    capture.Grabber
	classifier *Classifier
	detector   *Detector
	history    []Anomaly
}

// NewPipeline wires the pipeline over an initialized library. The recognizer
// is owned by the caller and must outlive the pipeline.
func NewPipeline(cfg *config.Config, logger *slog.Logger, grabber capture.Grabber, recognizer ocr.Recognizer, lib *Library) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		grabber:    grabber,
		classifier: NewClassifier(cfg.Rooms, recognizer, cfg.MaskBottomFrac, cfg.MaskLeftFrac, logger),
		detector:   NewDetector(cfg, lib, logger),
	}
}

// ProcessFrame runs one detection cycle: capture the display, classify the
// room, diff its baseline regions. A classification miss returns ("", nil,
// nil). Capture failures and geometry mismatches propagate; every other
// failure degrades to an empty result.
func (p *Pipeline) ProcessFrame() (Room, []Anomaly, error) {
	if p.cfg.CaptureDelayMS > 0 {
		time.Sleep(time.Duration(p.cfg.CaptureDelayMS) * time.Millisecond)
	}
	cycle := uuid.NewString()

	frame, err := p.grabber.Grab()
	if err != nil {
		return "", nil, err
	}
	room, ok := p.classifier.Classify(frame)
	if !ok {
		if p.logger != nil {
			p.logger.Debug("pipeline: no room recognized", "cycle", cycle)
		}
		return "", nil, nil
	}
	anomalies, err := p.detector.Detect(room, frame)
	if err != nil {
		return room, nil, err
	}
	for _, a := range anomalies {
		if p.logger != nil {
			p.logger.Info("pipeline: anomaly",
				"cycle", cycle,
				"room", a.Room,
				"feature", a.Name,
				"pixel_count", a.PixelCount,
				"heatmap", a.HeatmapPath,
			)
		}
	}
	p.remember(anomalies)
	return room, anomalies, nil
}

// remember appends anomalies to the bounded session log.
func (p *Pipeline) remember(anomalies []Anomaly) {
	p.history = append(p.history, anomalies...)
	if over := len(p.history) - historyLimit; over > 0 {
		p.history = append(p.history[:0], p.history[over:]...)
	}
}

// History returns a copy of the anomalies recorded this session, oldest
// first.
func (p *Pipeline) History() []Anomaly {
	out := make([]Anomaly, len(p.history))
	copy(out, p.history)
	return out
}
