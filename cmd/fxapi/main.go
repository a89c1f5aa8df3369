package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/MessaoudiOussama/fx-pipeline/internal/adapters/database/pgsql"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/services"
	"github.com/MessaoudiOussama/fx-pipeline/internal/handlers"
	"github.com/MessaoudiOussama/fx-pipeline/internal/middleware"
	"github.com/MessaoudiOussama/fx-pipeline/pkg/config"
	"github.com/MessaoudiOussama/fx-pipeline/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.APIRateLimit)
	if err != nil {
		logger.Error("Invalid API_RATE_LIMIT value", slog.String("value", cfg.APIRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(memory.NewStore(), rate)))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reportingRepo := pgsql.NewPgxReportingRepository(dbPool)
	reportingService := services.NewReportingService(reportingRepo, logger)
	handlers.RegisterRoutes(r, reportingService)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
