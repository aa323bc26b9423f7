package bootstrap

import (
	"context"
	"log/slog"

	"github.com/target/jobboard/config"
	"github.com/target/jobboard/internal/observability/statsd"
)

// BuildMetrics dials the StatsD sink when metrics are enabled. A dial failure
// is logged and metrics stay off; it never blocks startup.
func BuildMetrics(ctx context.Context, cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	client, err := statsd.NewClient(ctx, statsd.Config{
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	logger.Info("metrics enabled", "statsd_address", cfg.StatsdAddress, "prefix", cfg.Prefix)
	return client
}

// metricsSink keeps a nil client from becoming a non-nil interface.
func metricsSink(c *statsd.Client) statsd.Sink {
	if c == nil {
		return nil
	}
	return c
}
