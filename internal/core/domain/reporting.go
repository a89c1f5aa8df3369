package domain

// PairRate is one directed cross-pair rate resolved back to natural keys,
// as returned by warehouse lookups.
type PairRate struct {
	FullDate     string  `json:"fullDate"` // YYYY-MM-DD
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	Rate         float64 `json:"rate"`
}

// YTDAverage is the year-to-date average rate for one directed pair.
type YTDAverage struct {
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	YTDStart     string  `json:"ytdStart"`
	YTDEnd       string  `json:"ytdEnd"`
	AverageRate  float64 `json:"averageRate"`
}

// YTDChange is the percentage move of one directed pair between the first
// trading day of the year and the latest loaded date.
type YTDChange struct {
	FromCurrency string  `json:"fromCurrency"`
	ToCurrency   string  `json:"toCurrency"`
	YTDStart     string  `json:"ytdStart"`
	YTDEnd       string  `json:"ytdEnd"`
	FirstRate    float64 `json:"firstRate"`
	LastRate     float64 `json:"lastRate"`
	ChangePct    float64 `json:"changePct"`
}
