package content

import (
	"github.com/bionicotaku/lingo-services-features/internal/services"

	"github.com/go-kratos/kratos/v2/log"
)

var _ featureWriter = (*services.FeatureWriter)(nil)

// ProvideProcessor wires the content event processor.
func ProvideProcessor(writer *services.FeatureWriter, logger log.Logger) *Processor {
	if writer == nil || logger == nil {
		return nil
	}
	return NewProcessor(writer, logger)
}
