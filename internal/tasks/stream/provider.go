package stream

import (
	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	streamsrc "github.com/bionicotaku/lingo-services-features/internal/stream"
	"github.com/bionicotaku/lingo-services-features/internal/tasks/content"
	"github.com/bionicotaku/lingo-services-features/internal/tasks/engagement"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/go-kratos/kratos/v2/log"
)

// ProvideSource builds the Pub/Sub backed stream source.
func ProvideSource(sub gcpubsub.Subscriber, cfg configloader.PipelineConfig, logger log.Logger) streamsrc.Source {
	return streamsrc.NewPubsubSource(sub, cfg.SourceBuffer, logger)
}

// ProvideRunner assembles the consume loop with all topic processors.
func ProvideRunner(
	source streamsrc.Source,
	userProc *engagement.Processor,
	contentProc *content.Processor,
	cfg configloader.PipelineConfig,
	logger log.Logger,
) (*Runner, error) {
	return NewRunner(RunnerParams{
		Source:      source,
		Processors:  []Processor{userProc, contentProc},
		PollTimeout: cfg.PollTimeout.AsDuration(),
		LogEvery:    cfg.LogEvery,
		Logger:      logger,
	})
}
