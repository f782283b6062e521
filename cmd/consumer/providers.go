package main

import (
	"context"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

func provideTxManager(pool *pgxpool.Pool, cfg txmanager.Config, logger log.Logger) (txmanager.Manager, error) {
	return txmanager.NewManager(pool, cfg, txmanager.Dependencies{Logger: logger})
}

func providePubsubSubscriber(ctx context.Context, cfg gcpubsub.Config, logger log.Logger) (gcpubsub.Subscriber, func(), error) {
	component, cleanup, err := gcpubsub.NewComponent(ctx, cfg, gcpubsub.Dependencies{Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	return gcpubsub.ProvideSubscriber(component), cleanup, nil
}
