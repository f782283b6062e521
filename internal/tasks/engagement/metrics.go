package engagement

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricNameProcessed = "engagement_events_processed_total"
	metricNameDropped   = "engagement_events_dropped_total"
	metricNameLag       = "engagement_event_lag_ms"
)

type engagementMetrics struct {
	processed metric.Int64Counter
	dropped   metric.Int64Counter
	lag       metric.Float64Histogram
	helper    *log.Helper
	enabled   bool
}

func newEngagementMetrics(meter metric.Meter, helper *log.Helper) *engagementMetrics {
	m := &engagementMetrics{helper: helper}
	if meter == nil {
		return m
	}

	var err error
	if m.processed, err = meter.Int64Counter(metricNameProcessed,
		metric.WithDescription("Number of user engagement events applied")); err != nil {
		helper.Warnf("engagement metrics: register processed counter: %v", err)
		return m
	}
	if m.dropped, err = meter.Int64Counter(metricNameDropped,
		metric.WithDescription("Number of user engagement events dropped")); err != nil {
		helper.Warnf("engagement metrics: register dropped counter: %v", err)
	}
	if m.lag, err = meter.Float64Histogram(metricNameLag,
		metric.WithDescription("Lag between event timestamp and processing time"), metric.WithUnit("ms")); err != nil {
		helper.Warnf("engagement metrics: register lag histogram: %v", err)
	}
	m.enabled = true
	return m
}

func (m *engagementMetrics) recordProcessed(ctx context.Context, eventType string, occurredAt, now time.Time) {
	if m == nil || !m.enabled {
		return
	}
	attrs := metric.WithAttributes(attribute.String("event_type", eventType))
	if m.processed != nil {
		m.processed.Add(ctx, 1, attrs)
	}
	if m.lag != nil && !occurredAt.IsZero() {
		lag := now.Sub(occurredAt).Milliseconds()
		if lag < 0 {
			lag = 0
		}
		m.lag.Record(ctx, float64(lag), attrs)
	}
}

func (m *engagementMetrics) recordDropped(ctx context.Context, reason string) {
	if m == nil || !m.enabled {
		return
	}
	if m.dropped != nil {
		m.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}
