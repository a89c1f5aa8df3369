package ports

import (
	"context"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
)

// RateSource supplies base-relative daily rates for a date range. Implementations
// are expected to return either a complete, decoded rate set or an error; the
// pipeline never performs partial-range recovery itself.
type RateSource interface {
	FetchRates(ctx context.Context, start, end time.Time) (domain.RateHistory, error)
}
