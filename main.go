package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/soocke/anomaly-watch-go/config"
	"github.com/soocke/anomaly-watch-go/debug"
	"github.com/soocke/anomaly-watch-go/domain/anomaly"
	"github.com/soocke/anomaly-watch-go/domain/capture"
	"github.com/soocke/anomaly-watch-go/domain/ocr"
)

func main() {
	// .env may point at an alternate config file; missing .env is fine.
	_ = godotenv.Load()
	defaultCfg := os.Getenv("ANOMALY_WATCH_CONFIG")
	if defaultCfg == "" {
		defaultCfg = "config.json"
	}

	cfgPath := flag.String("config", defaultCfg, "path to JSON config file")
	once := flag.Bool("once", false, "run a single detection cycle and exit")
	flag.Parse()

	level := slog.LevelInfo
	cfg, cfgErr := config.Load(*cfgPath)
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	if cfgErr != nil {
		logger.Warn("config load failed, using defaults", "path", *cfgPath, "error", cfgErr)
	}

	if cfg.Debug {
		debug.StartWatchStats(5*time.Second, logger)
	}

	recognizer, err := ocr.NewTesseract(cfg.OCRLanguage)
	if err != nil {
		logger.Error("OCR init failed", "error", err)
		os.Exit(1)
	}
	defer recognizer.Close()

	lib, err := anomaly.LoadLibrary(cfg, logger)
	if err != nil {
		logger.Error("library init failed", "base_dir", cfg.BaseDir, "error", err)
		os.Exit(1)
	}
	// Warm the baseline-region cache so per-cycle latency stays OCR-bound.
	for _, room := range lib.Rooms() {
		lib.Regions(room)
	}

	pipeline := anomaly.NewPipeline(cfg, logger, capture.Display{Index: cfg.Display}, recognizer, lib)

	if *once {
		runCycle(pipeline, logger)
		return
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(time.Duration(cfg.IntervalMS) * time.Millisecond)
	defer ticker.Stop()
	logger.Info("watch loop started", "display", cfg.Display, "interval_ms", cfg.IntervalMS, "rooms", len(lib.Rooms()))
	for {
		select {
		case <-stop:
			logger.Info("watch loop stopped", "anomalies_this_session", len(pipeline.History()))
			return
		case <-ticker.C:
			runCycle(pipeline, logger)
		}
	}
}

// runCycle executes one detection cycle. Capture failures abort the cycle
// only; the next tick retries.
func runCycle(pipeline *anomaly.Pipeline, logger *slog.Logger) {
	room, anomalies, err := pipeline.ProcessFrame()
	switch {
	case err != nil:
		var capErr *capture.Error
		if errors.As(err, &capErr) {
			logger.Error("capture failed, skipping cycle", "error", err)
			return
		}
		logger.Error("detection cycle failed", "room", room, "error", err)
	case room == "":
		logger.Debug("no room detected")
	default:
		logger.Info("cycle complete", "room", room, "anomalies", len(anomalies))
	}
}
