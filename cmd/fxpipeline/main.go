package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/adapters/database/pgsql"
	"github.com/MessaoudiOussama/fx-pipeline/internal/adapters/ratesource/frankfurter"
	"github.com/MessaoudiOussama/fx-pipeline/internal/adapters/storage/s3parquet"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	portsrepo "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/repositories"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/services"
	"github.com/MessaoudiOussama/fx-pipeline/pkg/config"
	"github.com/MessaoudiOussama/fx-pipeline/pkg/database"
	"github.com/robfig/cron/v3"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	startFlag := flag.String("start-date", "", "first date to load (YYYY-MM-DD, default from FX_START_DATE)")
	endFlag := flag.String("end-date", "", "last date to load (YYYY-MM-DD, default from FX_END_DATE)")
	flag.Parse()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	warehouse, cleanup, err := buildWarehouse(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize warehouse sink", slog.String("sink", cfg.Sink), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	source := frankfurter.NewClient(cfg.FrankfurterURL, cfg.FrankfurterTimeout, cfg.Currencies, cfg.BaseCurrency, logger)

	pipeline, err := services.NewPipelineService(source, warehouse, cfg.Currencies, cfg.BaseCurrency, cfg.CurrencyNames, logger)
	if err != nil {
		logger.Error("Invalid currency configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.Schedule != "" {
		runScheduled(ctx, cfg, pipeline, logger)
		return
	}

	start, end, err := resolveWindow(cfg, *startFlag, *endFlag)
	if err != nil {
		logger.Error("Invalid date window", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if _, err := pipeline.Run(ctx, start, end); err != nil {
		logger.Error("Pipeline run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildWarehouse selects the configured sink. The Postgres sink also applies
// pending schema migrations before the first write.
func buildWarehouse(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.WarehouseRepositoryFacade, func(), error) {
	switch cfg.Sink {
	case "s3":
		writer, err := s3parquet.NewWriter(ctx, s3parquet.Options{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return writer, func() {}, nil
	default:
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			database.ClosePgxPool(dbPool)
			return nil, nil, err
		}
		return pgsql.NewPgxWarehouseRepository(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
	}
}

// runMigrations applies all pending "up" migrations using a short-lived
// database/sql connection compatible with the pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}
	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// resolveWindow picks the load window: CLI flags win over configured defaults.
func resolveWindow(cfg *config.Config, startOverride, endOverride string) (time.Time, time.Time, error) {
	startStr := cfg.DefaultStartDate
	if startOverride != "" {
		startStr = startOverride
	}
	endStr := cfg.DefaultEndDate
	if endOverride != "" {
		endStr = endOverride
	}

	start, err := time.Parse(domain.DateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(domain.DateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// runScheduled keeps the process resident and reloads the current calendar
// year on every cron tick. A failed tick is logged and retried on the next
// tick rather than crashing the scheduler.
func runScheduled(ctx context.Context, cfg *config.Config, pipeline *services.PipelineService, logger *slog.Logger) {
	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() {
		now := time.Now().UTC()
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if _, err := pipeline.Run(ctx, start, end); err != nil {
			logger.Error("Scheduled pipeline run failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		logger.Error("Invalid FX_SCHEDULE cron expression", slog.String("schedule", cfg.Schedule), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Scheduler started", slog.String("schedule", cfg.Schedule))
	c.Run()
}
