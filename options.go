package trovochat

import (
	"log/slog"
	"time"

	"github.com/hashicorp/go-metrics"
)

// Diagnostic describes one line the decoder dropped.
type Diagnostic struct {
	Line string
	Err  error
}

type config struct {
	logHandler   slog.Handler
	metricSink   metrics.MetricSink
	metricLabels []metrics.Label

	rateMessages int
	rateWindow   time.Duration

	diagnostics chan<- Diagnostic
}

// Option to pass to `NewClient`.
type Option func(*config) error

// WithLog specifies which `slog.Handler` to use.
func WithLog(handler slog.Handler) Option {
	return func(c *config) error {
		c.logHandler = handler
		return nil
	}
}

// WithMetricSink allows you to choose how to collect the metrics emitted
// by the client.
func WithMetricSink(ms metrics.MetricSink) Option {
	return func(c *config) error {
		if ms == nil {
			ms = &metrics.BlackholeSink{}
		}
		c.metricSink = ms
		return nil
	}
}

// WithMetricLabels adds static labels to all metrics produced by the
// client.
func WithMetricLabels(labels []metrics.Label) Option {
	return func(c *config) error {
		c.metricLabels = labels
		return nil
	}
}

// WithRateLimit overrides the chat-flood budget: at most messages
// chat-class lines per rolling window. Non-positive values disable
// limiting. The default is 20 messages per 30 seconds.
func WithRateLimit(messages int, window time.Duration) Option {
	return func(c *config) error {
		c.rateMessages = messages
		c.rateWindow = window
		return nil
	}
}

// WithDiagnostics surfaces dropped lines on ch. Sends never block; when
// the channel is full the diagnostic is discarded.
func WithDiagnostics(ch chan<- Diagnostic) Option {
	return func(c *config) error {
		c.diagnostics = ch
		return nil
	}
}
