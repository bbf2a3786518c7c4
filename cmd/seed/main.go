package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/campus/internal/config"
	"github.com/mamadbah2/campus/internal/repository/mongodb"
	"github.com/mamadbah2/campus/internal/seed"
	"github.com/mamadbah2/campus/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "optional .env file to load")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}

	log := logger.Must(logger.New(cfg.Log.Level)).Named("seed")
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.Seed.AdminEmail == "" || cfg.Seed.AdminPassword == "" {
		return errors.New("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD must be provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, log.Named("repo.mongodb"))
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	res, err := seed.Run(ctx, repo, seed.DefaultAccounts(cfg.Seed.AdminEmail, cfg.Seed.AdminPassword), log)
	if err != nil {
		return err
	}
	log.Info("seeding finished", zap.Int("created", res.Created), zap.Int("existing", res.Existing))
	return nil
}
