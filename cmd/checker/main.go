// Package main 提供在线/离线一致性校验进程入口。
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
	"github.com/bionicotaku/lingo-services-features/internal/services"

	"github.com/bionicotaku/lingo-utils/observability"
	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	_ "go.uber.org/automaxprocs"
)

type checkerApp struct {
	Server  *http.Server
	Checker *services.ConsistencyChecker
	Store   *repositories.OfflineFeatureStore
	Meta    configloader.ServiceMetadata
	Logger  log.Logger
}

func newCheckerApp(logger log.Logger, meta configloader.ServiceMetadata, store *repositories.OfflineFeatureStore, checker *services.ConsistencyChecker, srv *http.Server) *checkerApp {
	return &checkerApp{
		Server:  srv,
		Checker: checker,
		Store:   store,
		Meta:    meta,
		Logger:  logger,
	}
}

func main() {
	ctx := context.Background()

	confFlag := flag.String("conf", "", "config path or directory, eg: -conf configs/config.yaml")
	flag.Parse()

	app, cleanup, err := wireChecker(ctx, configloader.Params{ConfPath: *confFlag})
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

	go func() {
		if err := app.Checker.Monitor(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			helper.Errorf("consistency monitor stopped unexpectedly: %v", err)
		}
	}()

	kratosApp := kratos.New(
		kratos.ID(app.Meta.InstanceID),
		kratos.Name(app.Meta.Name),
		kratos.Version(app.Meta.Version),
		kratos.Logger(logger),
		kratos.Context(runCtx),
		kratos.Server(app.Server),
	)

	helper.Info("starting consistency checker")

	if err := kratosApp.Run(); err != nil {
		helper.Errorf("checker stopped unexpectedly: %v", err)
		os.Exit(1)
	}

	helper.Info("consistency checker stopped")
}
