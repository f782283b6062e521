package engagement

import (
	"github.com/bionicotaku/lingo-services-features/internal/services"

	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel"
)

// ProvideProcessor wires the user event processor with its handler and metrics.
func ProvideProcessor(writer *services.FeatureWriter, logger log.Logger) *Processor {
	if writer == nil || logger == nil {
		return nil
	}
	helper := log.NewHelper(logger)
	meter := otel.GetMeterProvider().Meter("lingo-services-features.engagement")
	metrics := newEngagementMetrics(meter, helper)
	handler := NewEventHandler(writer, logger, metrics)
	return NewProcessor(handler, metrics, logger)
}
