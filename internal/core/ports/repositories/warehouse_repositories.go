package repositories

import (
	"context"

	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
)

// DimensionReader defines read operations over the dimension tables. The
// pipeline uses these to seed its surrogate-key registry before a run so that
// re-ingesting a code or date reuses the id it was first given.
type DimensionReader interface {
	// ListCurrencyDims retrieves all currency dimension rows.
	ListCurrencyDims(ctx context.Context) ([]domain.CurrencyDim, error)

	// ListDateDims retrieves all date dimension rows.
	ListDateDims(ctx context.Context) ([]domain.DateDim, error)
}

// DimensionWriter defines insert-if-absent writes for dimension rows, keyed on
// their natural key (currency_code / full_date). Writing a row that already
// exists must be a no-op.
type DimensionWriter interface {
	SaveCurrencyDims(ctx context.Context, dims []domain.CurrencyDim) error
	SaveDateDims(ctx context.Context, dims []domain.DateDim) error
}

// FactWriter defines the insert-if-absent write for fact rows, keyed on
// (date_id, from_currency_id, to_currency_id). It reports how many rows were
// actually inserted so re-runs can be told apart from first loads.
type FactWriter interface {
	SaveFactRows(ctx context.Context, rows []domain.FactRow) (int64, error)
}

// LoadRunWriter records the audit trail of pipeline runs.
type LoadRunWriter interface {
	RecordLoadRun(ctx context.Context, run domain.LoadRun) error
}

// WarehouseRepositoryFacade combines everything the pipeline needs from a
// warehouse sink.
type WarehouseRepositoryFacade interface {
	DimensionReader
	DimensionWriter
	FactWriter
	LoadRunWriter
}
