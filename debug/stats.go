package debug

// Runtime instrumentation for the watch loop, enabled by config.Debug.
// Tracks heap and goroutine growth across long capture/OCR sessions.

import (
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// StartWatchStats launches a goroutine that logs runtime stats every
// interval: goroutine count, heap usage, and process RSS where the platform
// exposes it cheaply. Lightweight; runs for the process lifetime.
func StartWatchStats(interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		for range t.C {
			metrics.Read(samples)
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			logger.Info("watch.stats",
				slog.Uint64("goroutines", samples[0].Value.Uint64()),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("rss", workingSetSize(logger)),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			)
		}
	}()
}
