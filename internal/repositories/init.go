package repositories

import "github.com/google/wire"

// ProviderSet is repositories providers.
var ProviderSet = wire.NewSet(
	NewOfflineFeatureStore,
	NewConsistencyRepository,
	NewOnlineFeatureStore,
)
