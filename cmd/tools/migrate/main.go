package main

import (
	"flag"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/resto-labs/backend-resto/internal/app"
	"github.com/resto-labs/backend-resto/internal/config"
	"github.com/resto-labs/backend-resto/internal/obs"
)

func main() {
	dir := flag.String("dir", "db/migrations", "migrations directory")
	down := flag.Int("down", 0, "roll back N migrations instead of migrating up")
	flag.Parse()

	logger := obs.NewLogger("console", "info").With().Str("component", "migrate").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	m, err := migrate.New("file://"+*dir, pgxURL(cfg.DatabaseURL))
	if err != nil {
		logger.Fatal().Err(err).Msg("open migrator")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Error().Err(srcErr).Msg("close migration source")
		}
		if dbErr != nil {
			logger.Error().Err(dbErr).Msg("close migration database")
		}
	}()

	if *down > 0 {
		if err := m.Steps(-*down); err != nil && err != migrate.ErrNoChange {
			logger.Fatal().Err(err).Msg("roll back")
		}
		logger.Info().Int("steps", *down).Msg("rolled back")
		return
	}

	if err := app.RunMigrations(m); err != nil {
		logger.Fatal().Err(err).Msg("migrate up")
	}
	logger.Info().Msg("migrations applied")
}

// pgxURL rewrites a postgres:// DSN to the scheme the migrate pgx/v5 driver
// registers itself under.
func pgxURL(dsn string) string {
	if rest, ok := strings.CutPrefix(dsn, "postgres://"); ok {
		return "pgx5://" + rest
	}
	if rest, ok := strings.CutPrefix(dsn, "postgresql://"); ok {
		return "pgx5://" + rest
	}
	return dsn
}
