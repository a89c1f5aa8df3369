package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/ports"
	portsrepo "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/repositories"
	portssvc "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/services"
	"github.com/google/uuid"
)

// PipelineService orchestrates one batch run: fetch base-relative rates,
// triangulate cross-pairs, resolve surrogate keys and load the star schema.
// The run is strictly sequential; all I/O sits at the edges.
type PipelineService struct {
	source        ports.RateSource
	warehouse     portsrepo.WarehouseRepositoryFacade
	triangulator  *Triangulator
	currencies    []string
	currencyNames map[string]string
	logger        *slog.Logger
}

// NewPipelineService validates the currency configuration and wires the
// pipeline. Structural configuration problems are reported here, before any
// run is attempted.
func NewPipelineService(
	source ports.RateSource,
	warehouse portsrepo.WarehouseRepositoryFacade,
	currencies []string,
	baseCurrency string,
	currencyNames map[string]string,
	logger *slog.Logger,
) (*PipelineService, error) {
	triangulator, err := NewTriangulator(currencies, baseCurrency)
	if err != nil {
		return nil, err
	}
	return &PipelineService{
		source:        source,
		warehouse:     warehouse,
		triangulator:  triangulator,
		currencies:    currencies,
		currencyNames: currencyNames,
		logger:        logger,
	}, nil
}

// Ensure PipelineService implements the PipelineSvc interface
var _ portssvc.PipelineSvc = (*PipelineService)(nil)

// Run processes the date range [start, end] to completion. Incomplete trading
// days are excluded and reported; the run only fails when no day in the range
// survives validation, or when the source or sink errors.
func (s *PipelineService) Run(ctx context.Context, start, end time.Time) (*domain.RunSummary, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s",
			apperrors.ErrValidation, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}

	runID := uuid.NewString()
	logger := s.logger.With(
		slog.String("run_id", runID),
		slog.String("start_date", start.Format(domain.DateLayout)),
		slog.String("end_date", end.Format(domain.DateLayout)),
	)
	startedAt := time.Now()
	logger.Info("Pipeline run starting")

	history, err := s.source.FetchRates(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	logger.Info("Rates fetched", slog.Int("trading_days", len(history)))

	result, err := s.triangulator.CrossPairs(history)
	if err != nil {
		return nil, fmt.Errorf("triangulation failed: %w", err)
	}
	for _, excluded := range result.ExcludedDates {
		logger.Warn("Trading day excluded",
			slog.String("date", excluded.Date),
			slog.String("reason", excluded.Reason))
	}
	if result.DatesProcessed == 0 {
		return nil, fmt.Errorf("%w: no complete trading day in range %s..%s",
			apperrors.ErrIncompleteRateData, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	}

	registry, err := s.seedRegistry(ctx)
	if err != nil {
		return nil, err
	}

	// Register the full configured currency set up front so the currency
	// dimension is complete even for codes that only ever appear on one side
	// of a pair.
	for _, code := range s.currencies {
		if _, err := registry.EnsureCurrency(code, s.displayName(code)); err != nil {
			return nil, fmt.Errorf("failed to register currency %s: %w", code, err)
		}
	}

	assembler := NewFactAssembler(registry, s.currencyNames)
	facts, err := assembler.Assemble(result.CrossRates)
	if err != nil {
		return nil, err
	}

	if err := s.warehouse.SaveCurrencyDims(ctx, registry.CurrencyDims()); err != nil {
		return nil, fmt.Errorf("failed to load currency dimension: %w", err)
	}
	if err := s.warehouse.SaveDateDims(ctx, registry.DateDims()); err != nil {
		return nil, fmt.Errorf("failed to load date dimension: %w", err)
	}
	inserted, err := s.warehouse.SaveFactRows(ctx, facts)
	if err != nil {
		return nil, fmt.Errorf("failed to load fact rows: %w", err)
	}

	summary := &domain.RunSummary{
		RunID:            runID,
		StartDate:        start.Format(domain.DateLayout),
		EndDate:          end.Format(domain.DateLayout),
		DatesProcessed:   result.DatesProcessed,
		DatesExcluded:    result.ExcludedDates,
		FactRowsProduced: len(facts),
		FactRowsInserted: inserted,
		Duration:         time.Since(startedAt),
	}
	if err := s.warehouse.RecordLoadRun(ctx, domain.LoadRun{
		RunID:         runID,
		StartDate:     summary.StartDate,
		EndDate:       summary.EndDate,
		DatesLoaded:   summary.DatesProcessed,
		DatesExcluded: len(summary.DatesExcluded),
		FactRows:      inserted,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		return nil, fmt.Errorf("failed to record load run: %w", err)
	}

	logger.Info("Pipeline run complete",
		slog.Int("dates_processed", summary.DatesProcessed),
		slog.Int("dates_excluded", len(summary.DatesExcluded)),
		slog.Int("fact_rows_produced", summary.FactRowsProduced),
		slog.Int64("fact_rows_inserted", summary.FactRowsInserted),
		slog.Duration("duration", summary.Duration))
	return summary, nil
}

// seedRegistry builds a fresh run-scoped registry primed with the warehouse's
// existing dimension rows, so previously minted surrogate ids are reused.
func (s *PipelineService) seedRegistry(ctx context.Context) (*DimensionRegistry, error) {
	registry := NewDimensionRegistry()

	existingCurrencies, err := s.warehouse.ListCurrencyDims(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read currency dimension: %w", err)
	}
	if err := registry.SeedCurrencies(existingCurrencies); err != nil {
		return nil, err
	}

	existingDates, err := s.warehouse.ListDateDims(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read date dimension: %w", err)
	}
	if err := registry.SeedDates(existingDates); err != nil {
		return nil, err
	}
	return registry, nil
}

func (s *PipelineService) displayName(code string) string {
	if name, ok := s.currencyNames[code]; ok {
		return name
	}
	return code
}
