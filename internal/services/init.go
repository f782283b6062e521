package services

import (
	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-features/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet exposes service layer constructors for dependency injection.
var ProviderSet = wire.NewSet(ProvideFeatureWriter, ProvideConsistencyChecker)

// ProvideFeatureWriter adapts pipeline config into the FeatureWriter constructor.
func ProvideFeatureWriter(
	online *repositories.OnlineFeatureStore,
	offline *repositories.OfflineFeatureStore,
	tx txmanager.Manager,
	cfg configloader.PipelineConfig,
	logger log.Logger,
) (*FeatureWriter, error) {
	return NewFeatureWriter(online, offline, tx, cfg.OfflineRetryAttempts, logger)
}

// ProvideConsistencyChecker adapts concrete repositories into the checker constructor.
func ProvideConsistencyChecker(
	online *repositories.OnlineFeatureStore,
	offline *repositories.OfflineFeatureStore,
	recorder *repositories.ConsistencyRepository,
	cfg configloader.CheckerConfig,
	logger log.Logger,
) (*ConsistencyChecker, error) {
	return NewConsistencyChecker(online, offline, recorder, cfg, logger)
}
