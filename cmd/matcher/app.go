// cmd/matcher/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"subsidy-matcher/internal/common/config"
	"subsidy-matcher/internal/common/database"
	"subsidy-matcher/internal/common/logger"
	analyzeprofile "subsidy-matcher/internal/pipeline/analyze-profile"
	batchrefresh "subsidy-matcher/internal/pipeline/batch-refresh"
	refreshprofile "subsidy-matcher/internal/pipeline/refresh-profile"
	scorecandidate "subsidy-matcher/internal/pipeline/score-candidate"
	"subsidy-matcher/internal/store"
)

// application wires configuration, storage clients, and the pipeline
// handlers together for the CLI commands.
type application struct {
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger

	pg    *database.PostgresClient
	redis *database.RedisClient

	profiles  *store.ProfileStore
	subsidies *store.SubsidyStore
	matches   *store.MatchStore

	refresher *refreshprofile.Handler
	batch     *batchrefresh.Handler
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func newApp() (*application, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.NewZapAdapter(zapLog)

	ctx := context.Background()

	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("PostgreSQL connected successfully")

	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		pg.Close()
		return nil, err
	}
	zapLog.Info("Redis connected successfully")

	profiles := store.NewProfileStore(pg.DB, rdb.Client, config.GetDuration(cfg.Refresh.ProfileCacheTTLMs), log)
	subsidies := store.NewSubsidyStore(pg.DB, log)
	matches := store.NewMatchStore(pg.DB, cfg.Refresh.UpsertChunkSize, log)

	analyzer := analyzeprofile.NewHandler(log)
	scorer := scorecandidate.NewHandler(scorecandidate.FromMatching(cfg.Matching), log)

	refresher := refreshprofile.NewHandler(
		&refreshprofile.Config{
			MinScore: cfg.Matching.MinScore,
			Timeout:  30 * time.Second,
		},
		profiles, subsidies, matches, analyzer, scorer, log,
	)

	batch := batchrefresh.NewHandler(
		batchrefresh.FromRefresh(cfg.Refresh),
		profiles, refresher, matches, log,
	)

	return &application{
		cfg:       cfg,
		zapLog:    zapLog,
		log:       log,
		pg:        pg,
		redis:     rdb,
		profiles:  profiles,
		subsidies: subsidies,
		matches:   matches,
		refresher: refresher,
		batch:     batch,
	}, nil
}

func (a *application) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.pg != nil {
		a.pg.Close()
	}
	if a.zapLog != nil {
		a.zapLog.Sync()
	}
}
