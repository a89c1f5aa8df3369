package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
)

// Triangulator derives all directed cross-pair rates from base-relative rates:
// rate(A→B) = rate_vs_base(B) / rate_vs_base(A). Days failing validation are
// excluded whole, never as a partial pair subset.
type Triangulator struct {
	currencies []string
	base       string
}

// TriangulationResult holds the derived cross-pairs plus the per-day exclusions.
// CrossRates is ordered by (date, from, to) ascending and contains exactly
// DatesProcessed × N × (N−1) entries for N configured currencies.
type TriangulationResult struct {
	CrossRates     []domain.CrossRate
	ExcludedDates  []domain.ExcludedDate
	DatesProcessed int
}

// NewTriangulator validates the currency configuration and returns a Triangulator.
// Structural problems (empty set, duplicate codes, base not in set) are returned
// as validation errors so a run fails before any I/O happens.
func NewTriangulator(currencies []string, baseCurrency string) (*Triangulator, error) {
	if len(currencies) == 0 {
		return nil, fmt.Errorf("%w: currency set is empty", apperrors.ErrValidation)
	}
	seen := make(map[string]struct{}, len(currencies))
	for _, code := range currencies {
		if len(code) != 3 {
			return nil, fmt.Errorf("%w: currency code %q must be 3 letters", apperrors.ErrValidation, code)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("%w: duplicate currency code %q", apperrors.ErrValidation, code)
		}
		seen[code] = struct{}{}
	}
	if _, ok := seen[baseCurrency]; !ok {
		return nil, fmt.Errorf("%w: base currency %q is not in the currency set", apperrors.ErrValidation, baseCurrency)
	}
	return &Triangulator{currencies: currencies, base: baseCurrency}, nil
}

// CrossPairs computes every directed cross-pair for every complete trading day
// in the history. A day missing any configured currency's rate, or carrying a
// non-positive or non-finite rate, is excluded entirely with a recorded reason.
func (t *Triangulator) CrossPairs(history domain.RateHistory) (*TriangulationResult, error) {
	dates := make([]string, 0, len(history))
	for d := range history {
		if _, err := time.Parse(domain.DateLayout, d); err != nil {
			return nil, fmt.Errorf("%w: malformed date key %q from rate source", apperrors.ErrValidation, d)
		}
		dates = append(dates, d)
	}
	sort.Strings(dates)

	ordered := make([]string, len(t.currencies))
	copy(ordered, t.currencies)
	sort.Strings(ordered)

	result := &TriangulationResult{}
	for _, date := range dates {
		rates := t.withBaseInjected(history[date])
		if reason := t.validateDay(rates); reason != "" {
			result.ExcludedDates = append(result.ExcludedDates, domain.ExcludedDate{Date: date, Reason: reason})
			continue
		}
		for _, from := range ordered {
			for _, to := range ordered {
				if from == to {
					continue
				}
				result.CrossRates = append(result.CrossRates, domain.CrossRate{
					Date:         date,
					FromCurrency: from,
					ToCurrency:   to,
					Rate:         rates[to] / rates[from],
				})
			}
		}
		result.DatesProcessed++
	}
	return result, nil
}

// withBaseInjected copies one day's rates and pins the base currency at 1.0,
// so no downstream code ever special-cases the base.
func (t *Triangulator) withBaseInjected(day domain.DailyRates) domain.DailyRates {
	full := make(domain.DailyRates, len(day)+1)
	for code, rate := range day {
		full[code] = rate
	}
	full[t.base] = 1.0
	return full
}

// validateDay returns an empty string for a complete, well-formed day, or the
// exclusion reason otherwise. The first offending currency (in configured
// order) decides the reason.
func (t *Triangulator) validateDay(rates domain.DailyRates) string {
	for _, code := range t.currencies {
		rate, ok := rates[code]
		if !ok {
			return fmt.Sprintf("%s: missing rate for %s", apperrors.ErrIncompleteRateData, code)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Sprintf("%s: non-finite rate for %s", apperrors.ErrInvalidRate, code)
		}
		if rate <= 0 {
			return fmt.Sprintf("%s: non-positive rate %g for %s", apperrors.ErrInvalidRate, rate, code)
		}
	}
	return ""
}
