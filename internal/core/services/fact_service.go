package services

import (
	"fmt"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
)

// FactAssembler turns cross-pair rates into fact rows by resolving currency and
// date surrogate keys through the dimension registry, registering new dimension
// entries as a side effect. The mapping is strictly 1:1.
type FactAssembler struct {
	registry      *DimensionRegistry
	currencyNames map[string]string
}

// NewFactAssembler creates a FactAssembler over the given registry.
// currencyNames supplies display names for newly registered currencies; codes
// without an entry fall back to the code itself.
func NewFactAssembler(registry *DimensionRegistry, currencyNames map[string]string) *FactAssembler {
	return &FactAssembler{
		registry:      registry,
		currencyNames: currencyNames,
	}
}

// Assemble emits exactly one fact row per cross rate.
func (a *FactAssembler) Assemble(crossRates []domain.CrossRate) ([]domain.FactRow, error) {
	rows := make([]domain.FactRow, 0, len(crossRates))
	for _, cr := range crossRates {
		fullDate, err := time.Parse(domain.DateLayout, cr.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed cross-rate date %q", apperrors.ErrValidation, cr.Date)
		}
		dateID, err := a.registry.EnsureDate(fullDate)
		if err != nil {
			return nil, fmt.Errorf("failed to register date %s: %w", cr.Date, err)
		}
		fromID, err := a.registry.EnsureCurrency(cr.FromCurrency, a.currencyName(cr.FromCurrency))
		if err != nil {
			return nil, fmt.Errorf("failed to register currency %s: %w", cr.FromCurrency, err)
		}
		toID, err := a.registry.EnsureCurrency(cr.ToCurrency, a.currencyName(cr.ToCurrency))
		if err != nil {
			return nil, fmt.Errorf("failed to register currency %s: %w", cr.ToCurrency, err)
		}
		rows = append(rows, domain.FactRow{
			DateID:         dateID,
			FromCurrencyID: fromID,
			ToCurrencyID:   toID,
			Rate:           cr.Rate,
		})
	}
	return rows, nil
}

func (a *FactAssembler) currencyName(code string) string {
	if name, ok := a.currencyNames[code]; ok {
		return name
	}
	return code
}
