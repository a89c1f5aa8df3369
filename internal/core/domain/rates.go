package domain

// DateLayout is the ISO date format used for trading-day keys throughout the pipeline.
const DateLayout = "2006-01-02"

// DailyRates maps a currency code to its rate against the base currency for one trading day.
type DailyRates map[string]float64

// RateHistory maps an ISO date string (YYYY-MM-DD) to that day's base-relative rates.
// This is the shape the rate source delivers: one entry per trading day, one rate
// per non-base currency. The base currency may be absent (implicitly 1.0).
type RateHistory map[string]DailyRates

// CrossRate is a single directed cross-pair rate derived via triangulation.
type CrossRate struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	Rate         float64 `json:"rate"`
}
