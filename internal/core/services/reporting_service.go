package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	portsrepo "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/repositories"
	portssvc "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/services"
)

// reportingService implements the ReportingSvc interface over the warehouse's
// analytical queries.
type reportingService struct {
	reportingRepo portsrepo.ReportingRepository
	logger        *slog.Logger
}

// NewReportingService creates a new reporting service.
func NewReportingService(repo portsrepo.ReportingRepository, logger *slog.Logger) portssvc.ReportingSvc {
	return &reportingService{
		reportingRepo: repo,
		logger:        logger,
	}
}

// Ensure reportingService implements the ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

// PairRateOnDate retrieves a single directed pair's rate on a given day.
func (s *reportingService) PairRateOnDate(ctx context.Context, date time.Time, fromCode, toCode string) (*domain.PairRate, error) {
	fromCode, err := normalizeCode(fromCode)
	if err != nil {
		return nil, err
	}
	toCode, err = normalizeCode(toCode)
	if err != nil {
		return nil, err
	}
	if fromCode == toCode {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	rate, err := s.reportingRepo.GetPairRateOnDate(ctx, date, fromCode, toCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get pair rate: %w", err)
	}
	return rate, nil
}

// RatesForDate retrieves every directed pair loaded for a given day.
func (s *reportingService) RatesForDate(ctx context.Context, date time.Time) ([]domain.PairRate, error) {
	rates, err := s.reportingRepo.ListRatesForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates for date: %w", err)
	}
	s.logger.Info("Rates for date retrieved",
		slog.String("date", date.Format(domain.DateLayout)),
		slog.Int("pair_count", len(rates)))
	return rates, nil
}

// LatestRates retrieves all pairs out of fromCode on the most recent loaded date.
func (s *reportingService) LatestRates(ctx context.Context, fromCode string) ([]domain.PairRate, error) {
	fromCode, err := normalizeCode(fromCode)
	if err != nil {
		return nil, err
	}
	rates, err := s.reportingRepo.ListLatestRates(ctx, fromCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest rates: %w", err)
	}
	return rates, nil
}

// YTDAverages retrieves year-to-date average rates for all pairs out of fromCode.
func (s *reportingService) YTDAverages(ctx context.Context, fromCode string) ([]domain.YTDAverage, error) {
	fromCode, err := normalizeCode(fromCode)
	if err != nil {
		return nil, err
	}
	year := time.Now().UTC().Year()
	averages, err := s.reportingRepo.ListYTDAverages(ctx, fromCode, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list YTD averages: %w", err)
	}
	return averages, nil
}

// YTDChanges retrieves the first-day-to-latest percentage move for all pairs out of fromCode.
func (s *reportingService) YTDChanges(ctx context.Context, fromCode string) ([]domain.YTDChange, error) {
	fromCode, err := normalizeCode(fromCode)
	if err != nil {
		return nil, err
	}
	year := time.Now().UTC().Year()
	changes, err := s.reportingRepo.ListYTDChanges(ctx, fromCode, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list YTD changes: %w", err)
	}
	return changes, nil
}

func normalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	return code, nil
}
