package workers

import (
	"chat-relay/translation"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

const DefaultMetricInterval = time.Minute

type cacheStats interface {
	Stats() translation.Stats
}

type limiterStats interface {
	Tracked() int
}

type connectionStats interface {
	Connected() int
}

// TelemetryWorker periodically logs counters of the relay and resource usage of its
// own process. Sampling is best effort: a failing probe only skips its fields.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	translations   cacheStats
	limiter        limiterStats
	connections    connectionStats
	pool           *EnrichmentPool
}

func NewTelemetryWorker(
	log *slog.Logger,
	metricInterval time.Duration,
	translations cacheStats,
	limiter limiterStats,
	connections connectionStats,
	pool *EnrichmentPool,
) *TelemetryWorker {
	if metricInterval <= 0 {
		metricInterval = DefaultMetricInterval
	}
	return &TelemetryWorker{
		log:            log,
		metricInterval: metricInterval,
		translations:   translations,
		limiter:        limiter,
		connections:    connections,
		pool:           pool,
	}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		w.log.Debug("Process probe unavailable", "error", err)
	}

	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.log.Info("Relay telemetry", w.sample(self)...)
		}
	}
}

func (w *TelemetryWorker) sample(self *process.Process) []any {
	stats := w.translations.Stats()
	attrs := []any{
		"connected_identities", w.connections.Connected(),
		"rate_limited_identities", w.limiter.Tracked(),
		"translation_cache_size", stats.Size,
		"translation_hits", stats.Hits,
		"translation_misses", stats.Misses,
		"translation_failures", stats.Failures,
		"translation_hit_rate", stats.HitRate,
		"enrichment_queue_depth", w.pool.Depth(),
		"enrichment_queue_capacity", w.pool.Capacity(),
		"enrichment_dropped", w.pool.Dropped(),
		"enrichment_completed", w.pool.Completed(),
		"enrichment_failed", w.pool.Failed(),
	}
	if self == nil {
		return attrs
	}
	if memory, err := self.MemoryInfo(); err == nil {
		attrs = append(attrs, "rss_bytes", memory.RSS)
	} else {
		w.log.Debug("Error while finding process memory", "error", err)
	}
	if cpu, err := self.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu_percent", cpu)
	} else {
		w.log.Debug("Error while finding process cpu usage", "error", err)
	}
	return attrs
}
