package services_test

import (
	"testing"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCurrency_MintsSequentialIDs(t *testing.T) {
	reg := services.NewDimensionRegistry()

	nokID, err := reg.EnsureCurrency("NOK", "Norwegian Krone")
	require.NoError(t, err)
	eurID, err := reg.EnsureCurrency("EUR", "Euro")
	require.NoError(t, err)

	assert.Equal(t, int64(1), nokID)
	assert.Equal(t, int64(2), eurID)

	// Re-registering is idempotent and returns the original id.
	again, err := reg.EnsureCurrency("NOK", "Norwegian Krone")
	require.NoError(t, err)
	assert.Equal(t, nokID, again)
}

func TestEnsureCurrency_ConflictingName(t *testing.T) {
	reg := services.NewDimensionRegistry()

	_, err := reg.EnsureCurrency("NOK", "Norwegian Krone")
	require.NoError(t, err)

	_, err = reg.EnsureCurrency("NOK", "Norsk Krone")
	assert.ErrorIs(t, err, apperrors.ErrDimensionConflict)
}

func TestSeedCurrencies_NewIDsAboveSeededMax(t *testing.T) {
	reg := services.NewDimensionRegistry()
	err := reg.SeedCurrencies([]domain.CurrencyDim{
		{CurrencyID: 1, CurrencyCode: "EUR", CurrencyName: "Euro"},
		{CurrencyID: 5, CurrencyCode: "NOK", CurrencyName: "Norwegian Krone"},
	})
	require.NoError(t, err)

	// Seeded codes keep their warehouse ids.
	eurID, err := reg.EnsureCurrency("EUR", "Euro")
	require.NoError(t, err)
	assert.Equal(t, int64(1), eurID)

	// A new code is minted above the seeded maximum, never reusing a gap.
	sekID, err := reg.EnsureCurrency("SEK", "Swedish Krona")
	require.NoError(t, err)
	assert.Equal(t, int64(6), sekID)
}

func TestSeedCurrencies_Conflict(t *testing.T) {
	reg := services.NewDimensionRegistry()
	err := reg.SeedCurrencies([]domain.CurrencyDim{
		{CurrencyID: 1, CurrencyCode: "EUR", CurrencyName: "Euro"},
		{CurrencyID: 2, CurrencyCode: "EUR", CurrencyName: "Euro"},
	})
	assert.ErrorIs(t, err, apperrors.ErrDimensionConflict)
}

func TestSeedDates_Conflict(t *testing.T) {
	reg := services.NewDimensionRegistry()
	day := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	err := reg.SeedDates([]domain.DateDim{
		services.NewDateDim(1, day),
		services.NewDateDim(2, day),
	})
	assert.ErrorIs(t, err, apperrors.ErrDimensionConflict)
}

func TestEnsureDate_IdempotentAndSeeded(t *testing.T) {
	reg := services.NewDimensionRegistry()
	seeded := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, reg.SeedDates([]domain.DateDim{services.NewDateDim(7, seeded)}))

	id, err := reg.EnsureDate(seeded)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	newID, err := reg.EnsureDate(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(8), newID)

	again, err := reg.EnsureDate(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, newID, again)
}

func TestDims_ReturnedInRegistrationOrder(t *testing.T) {
	reg := services.NewDimensionRegistry()
	for _, code := range []string{"NOK", "EUR", "SEK"} {
		_, err := reg.EnsureCurrency(code, code)
		require.NoError(t, err)
	}

	dims := reg.CurrencyDims()
	require.Len(t, dims, 3)
	assert.Equal(t, "NOK", dims[0].CurrencyCode)
	assert.Equal(t, "EUR", dims[1].CurrencyCode)
	assert.Equal(t, "SEK", dims[2].CurrencyCode)
}

func TestNewDateDim_DerivedAttributes(t *testing.T) {
	testCases := []struct {
		name      string
		date      time.Time
		quarter   int
		isWeekend bool
	}{
		{"Q1 weekday", time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC), 1, false},
		{"Q1 Saturday", time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), 1, true},
		{"Q2 Sunday", time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC), 2, true},
		{"Q3 start", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), 3, false},
		{"Q4 end", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), 4, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dim := services.NewDateDim(1, tc.date)
			assert.Equal(t, tc.date.Year(), dim.Year)
			assert.Equal(t, int(tc.date.Month()), dim.Month)
			assert.Equal(t, tc.quarter, dim.Quarter)
			assert.Equal(t, tc.date.Day(), dim.Day)
			assert.Equal(t, tc.isWeekend, dim.IsWeekend)
		})
	}
}

func TestNewDateDim_NormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	dim := services.NewDateDim(1, time.Date(2026, 2, 17, 15, 30, 45, 0, loc))
	assert.Equal(t, time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC), dim.FullDate)
}
