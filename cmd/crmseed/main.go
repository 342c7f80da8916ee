// Command crmseed fills an empty CRM database with demo data.
//
//	crmseed                  # refuses when users already exist
//	crmseed --force=true     # wipes users, leads, customers, tasks, activities first
package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dalemusser/crmhub/internal/app/bootstrap"
	"github.com/dalemusser/crmhub/internal/app/seed"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(context.Background(), logger); err != nil {
		if errors.Is(err, seed.ErrNotEmpty) {
			logger.Warn(err.Error())
			os.Exit(2)
		}
		logger.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, logger *zap.Logger) error {
	coreCfg, appCfg, force, err := bootstrap.LoadSeedConfig(logger)
	if err != nil {
		return err
	}
	if err := bootstrap.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return err
	}

	deps, err := bootstrap.ConnectDB(ctx, coreCfg, appCfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.MongoClient.Disconnect(context.Background()); err != nil {
			logger.Warn("mongo disconnect", zap.Error(err))
		}
	}()

	if err := bootstrap.EnsureSchema(ctx, coreCfg, appCfg, deps, logger); err != nil {
		return err
	}

	_, err = seed.Run(ctx, deps.MongoDatabase, seed.Options{Force: force, BcryptCost: appCfg.BcryptCost}, logger)
	return err
}
