package trovochat

import (
	"log/slog"

	"github.com/hashicorp/go-metrics"
)

var (
	MetricLinesInCount     = []string{"trovochat", "lines", "in", "count"}
	MetricLinesOutCount    = []string{"trovochat", "lines", "out", "count"}
	MetricDecodeErrorCount = []string{"trovochat", "decode", "error", "count"}
	MetricEventCount       = []string{"trovochat", "event", "count"}
	MetricPingCount        = []string{"trovochat", "ping", "count"}
	MetricWriteErrorCount  = []string{"trovochat", "write", "error", "count"}
	MetricRateWaitSeconds  = []string{"trovochat", "ratelimit", "wait", "seconds"}
)

type TelemetryLabel string

var (
	LabelEvent   TelemetryLabel = "event"
	LabelCommand TelemetryLabel = "command"
	LabelError   TelemetryLabel = "error"
)

func (lab TelemetryLabel) M(val string) metrics.Label {
	return metrics.Label{Name: string(lab), Value: val}
}

func (lab TelemetryLabel) L(val any) slog.Attr {
	return slog.Attr{
		Key:   string(lab),
		Value: slog.AnyValue(val),
	}
}
