package configloader

import (
	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/wire"
)

// ProviderSet exposes configuration-derived dependencies for Wire graphs.
var ProviderSet = wire.NewSet(
	Load,
	ProvideRuntimeConfig,
	ProvideServiceMetadata,
	ProvideServerConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvidePubSubConfig,
	ProvidePipelineConfig,
	ProvideCheckerConfig,
	ProvideTxConfig,
)

// ProvideRuntimeConfig exposes the scanned runtime configuration.
func ProvideRuntimeConfig(b *Bundle) RuntimeConfig {
	if b == nil {
		return RuntimeConfig{}
	}
	return b.Runtime
}

// ProvideServiceMetadata returns the resolved ServiceMetadata from the loader.
func ProvideServiceMetadata(b *Bundle) ServiceMetadata {
	if b == nil {
		return ServiceMetadata{}
	}
	return b.Service
}

// ProvideServerConfig returns the HTTP server section.
func ProvideServerConfig(rc RuntimeConfig) ServerConfig { return rc.Server }

// ProvideDatabaseConfig returns the PostgreSQL section.
func ProvideDatabaseConfig(rc RuntimeConfig) DatabaseConfig { return rc.Database }

// ProvideRedisConfig returns the Redis section.
func ProvideRedisConfig(rc RuntimeConfig) RedisConfig { return rc.Redis }

// ProvidePipelineConfig returns the stream-pipeline section.
func ProvidePipelineConfig(rc RuntimeConfig) PipelineConfig { return rc.Pipeline }

// ProvideCheckerConfig returns the consistency-checker section.
func ProvideCheckerConfig(rc RuntimeConfig) CheckerConfig { return rc.Checker }

// ProvideTxConfig returns transaction manager defaults.
func ProvideTxConfig() txmanager.Config { return txmanager.Config{} }

// ProvidePubSubConfig 将 messaging.pubsub 配置转换为 gcpubsub.Config。
func ProvidePubSubConfig(rc RuntimeConfig, meta ServiceMetadata) gcpubsub.Config {
	ps := rc.Messaging.PubSub
	cfg := gcpubsub.Config{
		ProjectID:        ps.ProjectID,
		SubscriptionID:   ps.SubscriptionID,
		EmulatorEndpoint: ps.EmulatorEndpoint,
		MeterName:        meta.Name + ".gcpubsub",
	}
	if ps.Receive.NumGoroutines > 0 || ps.Receive.MaxOutstandingMessages > 0 {
		cfg.Receive = gcpubsub.ReceiveConfig{
			NumGoroutines:          ps.Receive.NumGoroutines,
			MaxOutstandingMessages: ps.Receive.MaxOutstandingMessages,
			MaxExtension:           ps.Receive.MaxExtension.AsDuration(),
		}
	}
	return cfg
}
