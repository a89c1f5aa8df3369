package services

import (
	"context"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
)

// ReportingSvc exposes the warehouse's analytical queries to the API layer.
type ReportingSvc interface {
	// PairRateOnDate retrieves a single directed pair's rate on a given day.
	PairRateOnDate(ctx context.Context, date time.Time, fromCode, toCode string) (*domain.PairRate, error)

	// RatesForDate retrieves every directed pair loaded for a given day.
	RatesForDate(ctx context.Context, date time.Time) ([]domain.PairRate, error)

	// LatestRates retrieves all pairs out of fromCode on the most recent loaded date.
	LatestRates(ctx context.Context, fromCode string) ([]domain.PairRate, error)

	// YTDAverages retrieves year-to-date average rates for all pairs out of fromCode.
	YTDAverages(ctx context.Context, fromCode string) ([]domain.YTDAverage, error)

	// YTDChanges retrieves the first-day-to-latest percentage move for all pairs out of fromCode.
	YTDChanges(ctx context.Context, fromCode string) ([]domain.YTDChange, error)
}
