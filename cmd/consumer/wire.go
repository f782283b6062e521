//go:build wireinject
// +build wireinject

// Package main 为消费进程提供 Wire 依赖注入定义。
package main

import (
	"context"

	configloader "github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/database"
	loginfra "github.com/bionicotaku/lingo-services-features/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/rediscache"
	"github.com/bionicotaku/lingo-services-features/internal/repositories"
	"github.com/bionicotaku/lingo-services-features/internal/services"
	"github.com/bionicotaku/lingo-services-features/internal/tasks/content"
	"github.com/bionicotaku/lingo-services-features/internal/tasks/engagement"
	streamtasks "github.com/bionicotaku/lingo-services-features/internal/tasks/stream"

	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

func wireConsumer(context.Context, configloader.Params) (*consumerApp, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		loginfra.ProviderSet,
		database.ProviderSet,
		rediscache.ProviderSet,
		provideTxManager,
		providePubsubSubscriber,
		repositories.ProviderSet,
		services.ProvideFeatureWriter,
		engagement.ProvideProcessor,
		content.ProvideProcessor,
		streamtasks.ProvideSource,
		streamtasks.ProvideRunner,
		newConsumerApp,
	))
}
