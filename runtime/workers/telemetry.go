package workers

import (
	"chat-hub/observability"
	"context"
	"log/slog"
	"time"
)

// Sampler is the part of observability.Monitor the telemetry worker drives.
type Sampler interface {
	Refresh() observability.Stats
}

// TelemetryWorker periodically samples the process and logs the online sessions.
type TelemetryWorker struct {
	log            *slog.Logger
	sampler        Sampler
	metricInterval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, sampler Sampler, metricInterval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, sampler: sampler, metricInterval: metricInterval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			stats := w.sampler.Refresh()
			w.log.Info("Telemetry",
				"online_users", stats.OnlineUsers,
				"goroutines", stats.Goroutines,
				"cpu_percent", stats.CPUPercent,
				"rss_mb", stats.RSSMb,
				"alloc_mem_mb", stats.AllocMemMb)
		}
	}
}
