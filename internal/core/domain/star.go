package domain

import "time"

// CurrencyDim is a row of the currency dimension. CurrencyID is the surrogate key,
// CurrencyCode the natural key.
type CurrencyDim struct {
	CurrencyID   int64  `json:"currencyId"`
	CurrencyCode string `json:"currencyCode"` // e.g. "NOK"
	CurrencyName string `json:"currencyName"` // e.g. "Norwegian Krone"
}

// DateDim is a row of the date dimension. Calendar attributes are derived once at
// registration and never change afterwards.
type DateDim struct {
	DateID    int64     `json:"dateId"`
	FullDate  time.Time `json:"fullDate"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Quarter   int       `json:"quarter"`
	Day       int       `json:"day"`
	IsWeekend bool      `json:"isWeekend"`
}

// FactRow is a row of fact_fx_rates, fully resolved to surrogate keys.
// (DateID, FromCurrencyID, ToCurrencyID) is unique within the fact table.
type FactRow struct {
	DateID         int64   `json:"dateId"`
	FromCurrencyID int64   `json:"fromCurrencyId"`
	ToCurrencyID   int64   `json:"toCurrencyId"`
	Rate           float64 `json:"rate"`
}
