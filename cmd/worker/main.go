package main

import (
	"os"
	"strings"

	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"

	"github.com/resto-labs/backend-resto/internal/common"
	"github.com/resto-labs/backend-resto/internal/config"
	"github.com/resto-labs/backend-resto/internal/notify"
	"github.com/resto-labs/backend-resto/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     redisOpts.Addr,
			Password: redisOpts.Password,
			DB:       redisOpts.DB,
		},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues:      map[string]int{"default": 1},
		},
	)

	worker := &notify.Worker{
		Log:      logger,
		Email:    common.NopEmailSender{},
		Staff:    envOrDefault("NOTIFY_STAFF_EMAIL", ""),
		Currency: cfg.CurrencyCode,
	}

	mux := asynq.NewServeMux()
	worker.Register(mux)

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
	logger.Info().Msg("worker shutdown complete")
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
