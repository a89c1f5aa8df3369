package pgsql

import (
	"context"
	"fmt"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	portsrepo "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxWarehouseRepository persists the star schema in PostgreSQL. All writes are
// insert-if-absent: ON CONFLICT DO NOTHING on the natural key for dimensions
// and on (date_id, from_currency_id, to_currency_id) for facts, so repeated
// loads of the same range leave the tables unchanged.
type PgxWarehouseRepository struct {
	pool *pgxpool.Pool
}

// NewPgxWarehouseRepository creates a new warehouse repository over the pool.
func NewPgxWarehouseRepository(pool *pgxpool.Pool) portsrepo.WarehouseRepositoryFacade {
	return &PgxWarehouseRepository{pool: pool}
}

// ListCurrencyDims retrieves all currency dimension rows in surrogate-id order.
func (r *PgxWarehouseRepository) ListCurrencyDims(ctx context.Context) ([]domain.CurrencyDim, error) {
	query := `
		SELECT currency_id, currency_code, currency_name
		FROM dim_currency
		ORDER BY currency_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dim_currency: %w", err)
	}
	defer rows.Close()

	dims, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CurrencyDim, error) {
		var dim domain.CurrencyDim
		err := row.Scan(&dim.CurrencyID, &dim.CurrencyCode, &dim.CurrencyName)
		return dim, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan dim_currency: %w", err)
	}
	return dims, nil
}

// ListDateDims retrieves all date dimension rows in surrogate-id order.
func (r *PgxWarehouseRepository) ListDateDims(ctx context.Context) ([]domain.DateDim, error) {
	query := `
		SELECT date_id, full_date, year, month, quarter, day, is_weekend
		FROM dim_date
		ORDER BY date_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query dim_date: %w", err)
	}
	defer rows.Close()

	dims, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DateDim, error) {
		var dim domain.DateDim
		err := row.Scan(&dim.DateID, &dim.FullDate, &dim.Year, &dim.Month, &dim.Quarter, &dim.Day, &dim.IsWeekend)
		return dim, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan dim_date: %w", err)
	}
	return dims, nil
}

// SaveCurrencyDims inserts currency rows, skipping codes already present.
func (r *PgxWarehouseRepository) SaveCurrencyDims(ctx context.Context, dims []domain.CurrencyDim) error {
	query := `
		INSERT INTO dim_currency (currency_id, currency_code, currency_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (currency_code) DO NOTHING;
	`
	for _, dim := range dims {
		if _, err := r.pool.Exec(ctx, query, dim.CurrencyID, dim.CurrencyCode, dim.CurrencyName); err != nil {
			return fmt.Errorf("%w: failed to save currency %s: %v", apperrors.ErrSinkRejection, dim.CurrencyCode, err)
		}
	}
	return nil
}

// SaveDateDims inserts date rows, skipping dates already present.
func (r *PgxWarehouseRepository) SaveDateDims(ctx context.Context, dims []domain.DateDim) error {
	query := `
		INSERT INTO dim_date (date_id, full_date, year, month, quarter, day, is_weekend)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (full_date) DO NOTHING;
	`
	for _, dim := range dims {
		if _, err := r.pool.Exec(ctx, query,
			dim.DateID, dim.FullDate, dim.Year, dim.Month, dim.Quarter, dim.Day, dim.IsWeekend,
		); err != nil {
			return fmt.Errorf("%w: failed to save date %s: %v",
				apperrors.ErrSinkRejection, dim.FullDate.Format(domain.DateLayout), err)
		}
	}
	return nil
}

// SaveFactRows batch-inserts fact rows and reports how many were actually
// inserted; rows whose key triple already exists are silently skipped.
func (r *PgxWarehouseRepository) SaveFactRows(ctx context.Context, factRows []domain.FactRow) (int64, error) {
	query := `
		INSERT INTO fact_fx_rates (date_id, from_currency_id, to_currency_id, rate)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date_id, from_currency_id, to_currency_id) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, row := range factRows {
		batch.Queue(query, row.DateID, row.FromCurrencyID, row.ToCurrencyID, row.Rate)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range factRows {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("%w: failed to save fact rows: %v", apperrors.ErrSinkRejection, err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// RecordLoadRun appends one audit row for a completed pipeline run.
func (r *PgxWarehouseRepository) RecordLoadRun(ctx context.Context, run domain.LoadRun) error {
	query := `
		INSERT INTO load_runs (run_id, start_date, end_date, dates_loaded, dates_excluded, fact_rows, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := r.pool.Exec(ctx, query,
		run.RunID, run.StartDate, run.EndDate, run.DatesLoaded, run.DatesExcluded, run.FactRows, run.CreatedAt,
	); err != nil {
		return fmt.Errorf("%w: failed to record load run %s: %v", apperrors.ErrSinkRejection, run.RunID, err)
	}
	return nil
}
