package services

import (
	"context"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
)

// PipelineSvc runs one extract→triangulate→load batch over a contiguous date range.
type PipelineSvc interface {
	// Run processes [start, end] to completion and returns the run summary.
	Run(ctx context.Context, start, end time.Time) (*domain.RunSummary, error)
}
