package services

import (
	"fmt"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
)

// DimensionRegistry is the run-scoped allocator of surrogate keys for the
// currency and date dimensions. It is seeded from the warehouse before a run so
// that re-ingesting a known code or date reuses the id it was first given, and
// new entries are minted above the existing maximum. Registrations are
// append-only: the registry never mutates or forgets an entry.
type DimensionRegistry struct {
	currencies    map[string]domain.CurrencyDim
	currencyOrder []string
	dates         map[string]domain.DateDim
	dateOrder     []string

	nextCurrencyID int64
	nextDateID     int64
}

// NewDimensionRegistry returns an empty registry with ids starting at 1.
func NewDimensionRegistry() *DimensionRegistry {
	return &DimensionRegistry{
		currencies:     make(map[string]domain.CurrencyDim),
		dates:          make(map[string]domain.DateDim),
		nextCurrencyID: 1,
		nextDateID:     1,
	}
}

// SeedCurrencies loads existing currency dimension rows into the registry.
func (r *DimensionRegistry) SeedCurrencies(dims []domain.CurrencyDim) error {
	for _, dim := range dims {
		if existing, ok := r.currencies[dim.CurrencyCode]; ok {
			if existing.CurrencyID != dim.CurrencyID || existing.CurrencyName != dim.CurrencyName {
				return fmt.Errorf("%w: currency %s seeded twice with different attributes", apperrors.ErrDimensionConflict, dim.CurrencyCode)
			}
			continue
		}
		r.currencies[dim.CurrencyCode] = dim
		r.currencyOrder = append(r.currencyOrder, dim.CurrencyCode)
		if dim.CurrencyID >= r.nextCurrencyID {
			r.nextCurrencyID = dim.CurrencyID + 1
		}
	}
	return nil
}

// SeedDates loads existing date dimension rows into the registry.
func (r *DimensionRegistry) SeedDates(dims []domain.DateDim) error {
	for _, dim := range dims {
		key := dim.FullDate.Format(domain.DateLayout)
		if existing, ok := r.dates[key]; ok {
			if existing.DateID != dim.DateID {
				return fmt.Errorf("%w: date %s seeded twice with different ids", apperrors.ErrDimensionConflict, key)
			}
			continue
		}
		r.dates[key] = dim
		r.dateOrder = append(r.dateOrder, key)
		if dim.DateID >= r.nextDateID {
			r.nextDateID = dim.DateID + 1
		}
	}
	return nil
}

// EnsureCurrency returns the surrogate id for a currency code, registering it
// with the next free id on first sight. Re-registering the same code with a
// different display name is a dimension conflict.
func (r *DimensionRegistry) EnsureCurrency(code, name string) (int64, error) {
	if existing, ok := r.currencies[code]; ok {
		if name != "" && existing.CurrencyName != "" && existing.CurrencyName != name {
			return 0, fmt.Errorf("%w: currency %s already registered as %q, got %q", apperrors.ErrDimensionConflict, code, existing.CurrencyName, name)
		}
		return existing.CurrencyID, nil
	}
	dim := domain.CurrencyDim{
		CurrencyID:   r.nextCurrencyID,
		CurrencyCode: code,
		CurrencyName: name,
	}
	r.currencies[code] = dim
	r.currencyOrder = append(r.currencyOrder, code)
	r.nextCurrencyID++
	return dim.CurrencyID, nil
}

// EnsureDate returns the surrogate id for a calendar date, registering it with
// derived attributes (year, month, quarter, day, weekend flag) on first sight.
// The attributes are a pure function of the date, so repeated calls always
// agree with the stored row.
func (r *DimensionRegistry) EnsureDate(fullDate time.Time) (int64, error) {
	key := fullDate.Format(domain.DateLayout)
	if existing, ok := r.dates[key]; ok {
		return existing.DateID, nil
	}
	dim := NewDateDim(r.nextDateID, fullDate)
	r.dates[key] = dim
	r.dateOrder = append(r.dateOrder, key)
	r.nextDateID++
	return dim.DateID, nil
}

// CurrencyDims returns every registered currency row in registration order.
func (r *DimensionRegistry) CurrencyDims() []domain.CurrencyDim {
	dims := make([]domain.CurrencyDim, 0, len(r.currencyOrder))
	for _, code := range r.currencyOrder {
		dims = append(dims, r.currencies[code])
	}
	return dims
}

// DateDims returns every registered date row in registration order.
func (r *DimensionRegistry) DateDims() []domain.DateDim {
	dims := make([]domain.DateDim, 0, len(r.dateOrder))
	for _, key := range r.dateOrder {
		dims = append(dims, r.dates[key])
	}
	return dims
}

// NewDateDim derives the calendar attributes for a date dimension row.
// The date is normalized to UTC midnight before derivation.
func NewDateDim(id int64, fullDate time.Time) domain.DateDim {
	year, month, day := fullDate.UTC().Date()
	normalized := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	weekday := normalized.Weekday()
	return domain.DateDim{
		DateID:    id,
		FullDate:  normalized,
		Year:      year,
		Month:     int(month),
		Quarter:   (int(month)-1)/3 + 1,
		Day:       day,
		IsWeekend: weekday == time.Saturday || weekday == time.Sunday,
	}
}
