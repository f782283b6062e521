//go:build wireinject
// +build wireinject

// Package main 为校验进程提供 Wire 依赖注入定义。
package main

import (
	"context"

	configloader "github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/database"
	loginfra "github.com/bionicotaku/lingo-services-features/internal/infrastructure/logger"
	"github.com/bionicotaku/lingo-services-features/internal/infrastructure/rediscache"
	"github.com/bionicotaku/lingo-services-features/internal/repositories"
	"github.com/bionicotaku/lingo-services-features/internal/server"
	"github.com/bionicotaku/lingo-services-features/internal/services"

	"github.com/google/wire"
)

//go:generate go run github.com/google/wire/cmd/wire

func wireChecker(context.Context, configloader.Params) (*checkerApp, func(), error) {
	panic(wire.Build(
		configloader.ProviderSet,
		loginfra.ProviderSet,
		database.ProviderSet,
		rediscache.ProviderSet,
		repositories.ProviderSet,
		services.ProvideConsistencyChecker,
		server.ProviderSet,
		newCheckerApp,
	))
}
