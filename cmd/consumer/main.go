// Package main 提供特征流水线消费进程入口。
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/bionicotaku/lingo-services-features/internal/infrastructure/configloader"
	"github.com/bionicotaku/lingo-services-features/internal/repositories"
	streamtasks "github.com/bionicotaku/lingo-services-features/internal/tasks/stream"

	"github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2/log"

	_ "go.uber.org/automaxprocs"
)

type consumerApp struct {
	Runner *streamtasks.Runner
	Store  *repositories.OfflineFeatureStore
	Meta   configloader.ServiceMetadata
	Logger log.Logger
}

func newConsumerApp(logger log.Logger, meta configloader.ServiceMetadata, store *repositories.OfflineFeatureStore, runner *streamtasks.Runner) *consumerApp {
	return &consumerApp{
		Runner: runner,
		Store:  store,
		Meta:   meta,
		Logger: logger,
	}
}

func main() {
	ctx := context.Background()

	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	flag.Parse()

	app, cleanup, err := wireConsumer(ctx, configloader.Params{ConfPath: *confFlag})
	if err != nil {
		panic(err)
	}
	defer cleanup()

	logger := app.Logger
	if logger == nil {
		logger = log.NewStdLogger(os.Stdout)
	}
	helper := log.NewHelper(logger)

	obsShutdown, err := observability.Init(ctx, observability.ObservabilityConfig{},
		observability.WithLogger(logger),
		observability.WithServiceName(app.Meta.Name),
		observability.WithServiceVersion(app.Meta.Version),
		observability.WithEnvironment(app.Meta.Environment),
	)
	if err != nil {
		panic(err)
	}
	defer func() {
		if obsShutdown == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obsShutdown(shutdownCtx); err != nil {
			helper.Warnf("shutdown observability: %v", err)
		}
	}()

	if err := app.Store.EnsureSchema(ctx); err != nil {
		helper.Errorf("ensure offline schema: %v", err)
		os.Exit(1)
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	helper.Info("starting feature pipeline consumer")

	if err := app.Runner.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		helper.Errorf("stream runner stopped unexpectedly: %v", err)
		os.Exit(1)
	}

	helper.Info("feature pipeline consumer stopped")
}
