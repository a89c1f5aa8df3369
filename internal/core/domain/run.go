package domain

import "time"

// ExcludedDate records a trading day that was dropped from the load, with the
// reason it failed validation.
type ExcludedDate struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

// RunSummary is the user-visible outcome of one pipeline run.
type RunSummary struct {
	RunID            string         `json:"runId"`
	StartDate        string         `json:"startDate"`
	EndDate          string         `json:"endDate"`
	DatesProcessed   int            `json:"datesProcessed"`
	DatesExcluded    []ExcludedDate `json:"datesExcluded"`
	FactRowsProduced int            `json:"factRowsProduced"`
	FactRowsInserted int64          `json:"factRowsInserted"`
	Duration         time.Duration  `json:"duration"`
}

// LoadRun is the persisted audit record of a pipeline run.
type LoadRun struct {
	RunID         string    `json:"runId"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	DatesLoaded   int       `json:"datesLoaded"`
	DatesExcluded int       `json:"datesExcluded"`
	FactRows      int64     `json:"factRows"`
	CreatedAt     time.Time `json:"createdAt"`
}
