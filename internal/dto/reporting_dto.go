package dto

// PairRateRequest binds the path parameters for a single pair/date lookup.
type PairRateRequest struct {
	Date string `uri:"date" binding:"required,datetime=2006-01-02"`
	From string `uri:"from" binding:"required,len=3,alpha"`
	To   string `uri:"to" binding:"required,len=3,alpha"`
}

// DateRequest binds the path parameter for a full-day listing.
type DateRequest struct {
	Date string `uri:"date" binding:"required,datetime=2006-01-02"`
}

// CurrencyRequest binds the path parameter for per-currency reports.
type CurrencyRequest struct {
	From string `uri:"from" binding:"required,len=3,alpha"`
}

// PairRateResponse is one directed rate observation.
type PairRateResponse struct {
	Date         string  `json:"date"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	Rate         float64 `json:"rate"`
}

// YTDAverageResponse is the year-to-date average rate for one directed pair.
type YTDAverageResponse struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	YTDStart     string  `json:"ytd_start"`
	YTDEnd       string  `json:"ytd_end"`
	AverageRate  float64 `json:"average_rate"`
}

// YTDChangeResponse is the year-to-date percentage change for one directed pair.
type YTDChangeResponse struct {
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
	YTDStart     string  `json:"ytd_start"`
	YTDEnd       string  `json:"ytd_end"`
	FirstRate    float64 `json:"first_rate"`
	LastRate     float64 `json:"last_rate"`
	ChangePct    float64 `json:"change_pct"`
}
