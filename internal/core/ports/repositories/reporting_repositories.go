package repositories

import (
	"context"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
)

// ReportingRepository defines the analytical reads over the star schema that
// back the reporting API. All rates are rounded at this query boundary; the
// fact table itself stores full precision.
type ReportingRepository interface {
	// GetPairRateOnDate retrieves a single directed pair's rate on a given day.
	GetPairRateOnDate(ctx context.Context, date time.Time, fromCode, toCode string) (*domain.PairRate, error)

	// ListRatesForDate retrieves every directed pair loaded for a given day.
	ListRatesForDate(ctx context.Context, date time.Time) ([]domain.PairRate, error)

	// ListLatestRates retrieves all pairs out of fromCode on the most recent loaded date.
	ListLatestRates(ctx context.Context, fromCode string) ([]domain.PairRate, error)

	// ListYTDAverages retrieves year-to-date average rates for all pairs out of fromCode.
	ListYTDAverages(ctx context.Context, fromCode string, year int) ([]domain.YTDAverage, error)

	// ListYTDChanges retrieves the first-day-to-latest percentage move for all pairs out of fromCode.
	ListYTDChanges(ctx context.Context, fromCode string, year int) ([]domain.YTDChange, error)
}
