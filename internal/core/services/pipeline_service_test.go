package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock RateSource ---
type MockRateSource struct {
	mock.Mock
}

func (m *MockRateSource) FetchRates(ctx context.Context, start, end time.Time) (domain.RateHistory, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.RateHistory), args.Error(1)
}

// --- Mock Warehouse ---
type MockWarehouse struct {
	mock.Mock
}

func (m *MockWarehouse) ListCurrencyDims(ctx context.Context) ([]domain.CurrencyDim, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyDim), args.Error(1)
}

func (m *MockWarehouse) ListDateDims(ctx context.Context) ([]domain.DateDim, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DateDim), args.Error(1)
}

func (m *MockWarehouse) SaveCurrencyDims(ctx context.Context, dims []domain.CurrencyDim) error {
	args := m.Called(ctx, dims)
	return args.Error(0)
}

func (m *MockWarehouse) SaveDateDims(ctx context.Context, dims []domain.DateDim) error {
	args := m.Called(ctx, dims)
	return args.Error(0)
}

func (m *MockWarehouse) SaveFactRows(ctx context.Context, rows []domain.FactRow) (int64, error) {
	args := m.Called(ctx, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarehouse) RecordLoadRun(ctx context.Context, run domain.LoadRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// --- Test Suite ---
type PipelineServiceTestSuite struct {
	suite.Suite
	mockSource    *MockRateSource
	mockWarehouse *MockWarehouse
	service       *services.PipelineService

	start time.Time
	end   time.Time
}

func (suite *PipelineServiceTestSuite) SetupTest() {
	suite.mockSource = new(MockRateSource)
	suite.mockWarehouse = new(MockWarehouse)

	svc, err := services.NewPipelineService(
		suite.mockSource,
		suite.mockWarehouse,
		[]string{"EUR", "NOK", "SEK"},
		"EUR",
		map[string]string{"EUR": "Euro", "NOK": "Norwegian Krone", "SEK": "Swedish Krona"},
		slog.Default(),
	)
	suite.Require().NoError(err)
	suite.service = svc

	suite.start = time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	suite.end = time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC)
}

func (suite *PipelineServiceTestSuite) TestRun_Success() {
	ctx := context.Background()
	history := domain.RateHistory{
		"2026-02-17": {"NOK": 11.50, "SEK": 11.20},
		"2026-02-18": {"NOK": 11.52, "SEK": 11.18},
	}

	suite.mockSource.On("FetchRates", ctx, suite.start, suite.end).Return(history, nil).Once()
	suite.mockWarehouse.On("ListCurrencyDims", ctx).Return([]domain.CurrencyDim{}, nil).Once()
	suite.mockWarehouse.On("ListDateDims", ctx).Return([]domain.DateDim{}, nil).Once()
	suite.mockWarehouse.On("SaveCurrencyDims", ctx, mock.MatchedBy(func(dims []domain.CurrencyDim) bool {
		return len(dims) == 3
	})).Return(nil).Once()
	suite.mockWarehouse.On("SaveDateDims", ctx, mock.MatchedBy(func(dims []domain.DateDim) bool {
		return len(dims) == 2
	})).Return(nil).Once()
	suite.mockWarehouse.On("SaveFactRows", ctx, mock.MatchedBy(func(rows []domain.FactRow) bool {
		return len(rows) == 12 // 2 days × 3×2 directed pairs
	})).Return(int64(12), nil).Once()
	suite.mockWarehouse.On("RecordLoadRun", ctx, mock.MatchedBy(func(run domain.LoadRun) bool {
		return run.DatesLoaded == 2 && run.DatesExcluded == 0 && run.FactRows == 12
	})).Return(nil).Once()

	summary, err := suite.service.Run(ctx, suite.start, suite.end)

	suite.Require().NoError(err)
	suite.Require().NotNil(summary)
	suite.Equal(2, summary.DatesProcessed)
	suite.Empty(summary.DatesExcluded)
	suite.Equal(12, summary.FactRowsProduced)
	suite.Equal(int64(12), summary.FactRowsInserted)
	suite.NotEmpty(summary.RunID)

	suite.mockSource.AssertExpectations(suite.T())
	suite.mockWarehouse.AssertExpectations(suite.T())
}

func (suite *PipelineServiceTestSuite) TestRun_ReusesSeededSurrogateIDs() {
	ctx := context.Background()
	history := domain.RateHistory{
		"2026-02-17": {"NOK": 11.50, "SEK": 11.20},
	}
	existingDate := services.NewDateDim(3, time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC))

	suite.mockSource.On("FetchRates", ctx, suite.start, suite.end).Return(history, nil).Once()
	suite.mockWarehouse.On("ListCurrencyDims", ctx).Return([]domain.CurrencyDim{
		{CurrencyID: 1, CurrencyCode: "EUR", CurrencyName: "Euro"},
		{CurrencyID: 4, CurrencyCode: "NOK", CurrencyName: "Norwegian Krone"},
	}, nil).Once()
	suite.mockWarehouse.On("ListDateDims", ctx).Return([]domain.DateDim{existingDate}, nil).Once()

	suite.mockWarehouse.On("SaveCurrencyDims", ctx, mock.MatchedBy(func(dims []domain.CurrencyDim) bool {
		byCode := make(map[string]int64, len(dims))
		for _, d := range dims {
			byCode[d.CurrencyCode] = d.CurrencyID
		}
		// Known codes keep warehouse ids, the new one is minted above the max.
		return byCode["EUR"] == 1 && byCode["NOK"] == 4 && byCode["SEK"] == 5
	})).Return(nil).Once()
	suite.mockWarehouse.On("SaveDateDims", ctx, mock.MatchedBy(func(dims []domain.DateDim) bool {
		for _, d := range dims {
			if d.FullDate.Equal(suite.start) {
				return d.DateID == 4
			}
		}
		return false
	})).Return(nil).Once()
	suite.mockWarehouse.On("SaveFactRows", ctx, mock.Anything).Return(int64(6), nil).Once()
	suite.mockWarehouse.On("RecordLoadRun", ctx, mock.Anything).Return(nil).Once()

	_, err := suite.service.Run(ctx, suite.start, suite.end)

	suite.Require().NoError(err)
	suite.mockWarehouse.AssertExpectations(suite.T())
}

func (suite *PipelineServiceTestSuite) TestRun_SecondRunInsertsNothingNew() {
	ctx := context.Background()
	history := domain.RateHistory{
		"2026-02-17": {"NOK": 11.50, "SEK": 11.20},
	}

	suite.mockSource.On("FetchRates", ctx, suite.start, suite.end).Return(history, nil).Once()
	suite.mockWarehouse.On("ListCurrencyDims", ctx).Return([]domain.CurrencyDim{}, nil).Once()
	suite.mockWarehouse.On("ListDateDims", ctx).Return([]domain.DateDim{}, nil).Once()
	suite.mockWarehouse.On("SaveCurrencyDims", ctx, mock.Anything).Return(nil).Once()
	suite.mockWarehouse.On("SaveDateDims", ctx, mock.Anything).Return(nil).Once()
	// The sink reports zero inserts when every row already exists.
	suite.mockWarehouse.On("SaveFactRows", ctx, mock.Anything).Return(int64(0), nil).Once()
	suite.mockWarehouse.On("RecordLoadRun", ctx, mock.MatchedBy(func(run domain.LoadRun) bool {
		return run.FactRows == 0
	})).Return(nil).Once()

	summary, err := suite.service.Run(ctx, suite.start, suite.end)

	suite.Require().NoError(err)
	suite.Equal(6, summary.FactRowsProduced)
	suite.Equal(int64(0), summary.FactRowsInserted)
}

func (suite *PipelineServiceTestSuite) TestRun_AllDatesExcluded() {
	ctx := context.Background()
	history := domain.RateHistory{
		"2026-02-17": {"NOK": 11.50}, // SEK missing
	}

	suite.mockSource.On("FetchRates", ctx, suite.start, suite.end).Return(history, nil).Once()

	summary, err := suite.service.Run(ctx, suite.start, suite.end)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrIncompleteRateData)
	suite.mockWarehouse.AssertNotCalled(suite.T(), "SaveFactRows", mock.Anything, mock.Anything)
	suite.mockWarehouse.AssertNotCalled(suite.T(), "RecordLoadRun", mock.Anything, mock.Anything)
}

func (suite *PipelineServiceTestSuite) TestRun_StartAfterEnd() {
	summary, err := suite.service.Run(context.Background(), suite.end, suite.start)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockSource.AssertNotCalled(suite.T(), "FetchRates", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PipelineServiceTestSuite) TestRun_SinkRejectionPropagates() {
	ctx := context.Background()
	history := domain.RateHistory{
		"2026-02-17": {"NOK": 11.50, "SEK": 11.20},
	}

	suite.mockSource.On("FetchRates", ctx, suite.start, suite.end).Return(history, nil).Once()
	suite.mockWarehouse.On("ListCurrencyDims", ctx).Return([]domain.CurrencyDim{}, nil).Once()
	suite.mockWarehouse.On("ListDateDims", ctx).Return([]domain.DateDim{}, nil).Once()
	suite.mockWarehouse.On("SaveCurrencyDims", ctx, mock.Anything).Return(nil).Once()
	suite.mockWarehouse.On("SaveDateDims", ctx, mock.Anything).Return(nil).Once()
	suite.mockWarehouse.On("SaveFactRows", ctx, mock.Anything).Return(int64(0), apperrors.ErrSinkRejection).Once()

	summary, err := suite.service.Run(ctx, suite.start, suite.end)

	suite.Require().Error(err)
	suite.Nil(summary)
	suite.ErrorIs(err, apperrors.ErrSinkRejection)
	suite.mockWarehouse.AssertNotCalled(suite.T(), "RecordLoadRun", mock.Anything, mock.Anything)
}

func (suite *PipelineServiceTestSuite) TestNewPipelineService_InvalidConfiguration() {
	_, err := services.NewPipelineService(
		suite.mockSource,
		suite.mockWarehouse,
		[]string{"NOK", "SEK"},
		"EUR", // base not in set
		nil,
		slog.Default(),
	)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestPipelineServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineServiceTestSuite))
}
