package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	portsrepo "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportingRepository runs the analytical queries over the star schema.
// Rates are stored at full precision; ROUND happens here, at the query
// boundary (6 decimals for rates, 4 for percentages).
type PgxReportingRepository struct {
	pool *pgxpool.Pool
}

// NewPgxReportingRepository creates a new reporting repository over the pool.
func NewPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{pool: pool}
}

// GetPairRateOnDate retrieves a single directed pair's rate on a given day.
func (r *PgxReportingRepository) GetPairRateOnDate(ctx context.Context, date time.Time, fromCode, toCode string) (*domain.PairRate, error) {
	query := `
		SELECT d.full_date,
		       fc.currency_code,
		       tc.currency_code,
		       ROUND(f.rate::numeric, 6)::float8
		FROM fact_fx_rates f
		JOIN dim_date     d  ON d.date_id      = f.date_id
		JOIN dim_currency fc ON fc.currency_id = f.from_currency_id
		JOIN dim_currency tc ON tc.currency_id = f.to_currency_id
		WHERE d.full_date      = $1
		  AND fc.currency_code = $2
		  AND tc.currency_code = $3;
	`
	var (
		rate     domain.PairRate
		fullDate time.Time
	)
	err := r.pool.QueryRow(ctx, query, date, fromCode, toCode).Scan(
		&fullDate, &rate.FromCurrency, &rate.ToCurrency, &rate.Rate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query pair rate %s/%s: %w", fromCode, toCode, err)
	}
	rate.FullDate = fullDate.Format(domain.DateLayout)
	return &rate, nil
}

// ListRatesForDate retrieves every directed pair loaded for a given day.
func (r *PgxReportingRepository) ListRatesForDate(ctx context.Context, date time.Time) ([]domain.PairRate, error) {
	query := `
		SELECT d.full_date,
		       fc.currency_code,
		       tc.currency_code,
		       ROUND(f.rate::numeric, 6)::float8
		FROM fact_fx_rates f
		JOIN dim_date     d  ON d.date_id      = f.date_id
		JOIN dim_currency fc ON fc.currency_id = f.from_currency_id
		JOIN dim_currency tc ON tc.currency_id = f.to_currency_id
		WHERE d.full_date = $1
		ORDER BY fc.currency_code, tc.currency_code;
	`
	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates for date: %w", err)
	}
	defer rows.Close()
	return collectPairRates(rows)
}

// ListLatestRates retrieves all pairs out of fromCode on the most recent loaded date.
func (r *PgxReportingRepository) ListLatestRates(ctx context.Context, fromCode string) ([]domain.PairRate, error) {
	query := `
		SELECT d.full_date,
		       fc.currency_code,
		       tc.currency_code,
		       ROUND(f.rate::numeric, 6)::float8
		FROM fact_fx_rates f
		JOIN dim_date     d  ON d.date_id      = f.date_id
		JOIN dim_currency fc ON fc.currency_id = f.from_currency_id
		JOIN dim_currency tc ON tc.currency_id = f.to_currency_id
		WHERE d.full_date      = (SELECT MAX(full_date) FROM dim_date)
		  AND fc.currency_code = $1
		ORDER BY tc.currency_code;
	`
	rows, err := r.pool.Query(ctx, query, fromCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rates: %w", err)
	}
	defer rows.Close()
	return collectPairRates(rows)
}

// ListYTDAverages retrieves year-to-date average rates for all pairs out of fromCode.
func (r *PgxReportingRepository) ListYTDAverages(ctx context.Context, fromCode string, year int) ([]domain.YTDAverage, error) {
	query := `
		SELECT fc.currency_code,
		       tc.currency_code,
		       MIN(d.full_date),
		       MAX(d.full_date),
		       ROUND(AVG(f.rate)::numeric, 6)::float8
		FROM fact_fx_rates f
		JOIN dim_date     d  ON d.date_id      = f.date_id
		JOIN dim_currency fc ON fc.currency_id = f.from_currency_id
		JOIN dim_currency tc ON tc.currency_id = f.to_currency_id
		WHERE d.year           = $2
		  AND fc.currency_code = $1
		GROUP BY fc.currency_code, tc.currency_code
		ORDER BY tc.currency_code;
	`
	rows, err := r.pool.Query(ctx, query, fromCode, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query YTD averages: %w", err)
	}
	defer rows.Close()

	averages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.YTDAverage, error) {
		var (
			avg        domain.YTDAverage
			start, end time.Time
		)
		err := row.Scan(&avg.FromCurrency, &avg.ToCurrency, &start, &end, &avg.AverageRate)
		avg.YTDStart = start.Format(domain.DateLayout)
		avg.YTDEnd = end.Format(domain.DateLayout)
		return avg, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan YTD averages: %w", err)
	}
	return averages, nil
}

// ListYTDChanges retrieves the percentage move of every pair out of fromCode
// between the first trading day of the year and the latest loaded date.
func (r *PgxReportingRepository) ListYTDChanges(ctx context.Context, fromCode string, year int) ([]domain.YTDChange, error) {
	query := `
		WITH first_rate AS (
			SELECT f.from_currency_id, f.to_currency_id, f.rate AS rate_on_first_day
			FROM fact_fx_rates f
			JOIN dim_date d ON d.date_id = f.date_id
			WHERE d.full_date = (SELECT MIN(full_date) FROM dim_date WHERE year = $2)
		),
		last_rate AS (
			SELECT f.from_currency_id, f.to_currency_id, f.rate AS rate_on_last_day
			FROM fact_fx_rates f
			JOIN dim_date d ON d.date_id = f.date_id
			WHERE d.full_date = (SELECT MAX(full_date) FROM dim_date)
		)
		SELECT fc.currency_code,
		       tc.currency_code,
		       (SELECT MIN(full_date) FROM dim_date WHERE year = $2),
		       (SELECT MAX(full_date) FROM dim_date),
		       ROUND(fr.rate_on_first_day::numeric, 6)::float8,
		       ROUND(lr.rate_on_last_day::numeric, 6)::float8,
		       ROUND(((lr.rate_on_last_day - fr.rate_on_first_day) / fr.rate_on_first_day * 100)::numeric, 4)::float8
		FROM first_rate fr
		JOIN last_rate    lr ON lr.from_currency_id = fr.from_currency_id
		                    AND lr.to_currency_id   = fr.to_currency_id
		JOIN dim_currency fc ON fc.currency_id      = fr.from_currency_id
		JOIN dim_currency tc ON tc.currency_id      = fr.to_currency_id
		WHERE fc.currency_code = $1
		ORDER BY tc.currency_code;
	`
	rows, err := r.pool.Query(ctx, query, fromCode, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query YTD changes: %w", err)
	}
	defer rows.Close()

	changes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.YTDChange, error) {
		var (
			change     domain.YTDChange
			start, end time.Time
		)
		err := row.Scan(&change.FromCurrency, &change.ToCurrency, &start, &end,
			&change.FirstRate, &change.LastRate, &change.ChangePct)
		change.YTDStart = start.Format(domain.DateLayout)
		change.YTDEnd = end.Format(domain.DateLayout)
		return change, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan YTD changes: %w", err)
	}
	return changes, nil
}

func collectPairRates(rows pgx.Rows) ([]domain.PairRate, error) {
	rates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PairRate, error) {
		var (
			rate     domain.PairRate
			fullDate time.Time
		)
		err := row.Scan(&fullDate, &rate.FromCurrency, &rate.ToCurrency, &rate.Rate)
		rate.FullDate = fullDate.Format(domain.DateLayout)
		return rate, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan pair rates: %w", err)
	}
	return rates, nil
}
