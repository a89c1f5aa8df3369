package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	portssvc "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/services"
	"github.com/MessaoudiOussama/fx-pipeline/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) PairRateOnDate(ctx context.Context, date time.Time, fromCode, toCode string) (*domain.PairRate, error) {
	args := m.Called(ctx, date, fromCode, toCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PairRate), args.Error(1)
}

func (m *MockReportingService) RatesForDate(ctx context.Context, date time.Time) ([]domain.PairRate, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PairRate), args.Error(1)
}

func (m *MockReportingService) LatestRates(ctx context.Context, fromCode string) ([]domain.PairRate, error) {
	args := m.Called(ctx, fromCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PairRate), args.Error(1)
}

func (m *MockReportingService) YTDAverages(ctx context.Context, fromCode string) ([]domain.YTDAverage, error) {
	args := m.Called(ctx, fromCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.YTDAverage), args.Error(1)
}

func (m *MockReportingService) YTDChanges(ctx context.Context, fromCode string) ([]domain.YTDChange, error) {
	args := m.Called(ctx, fromCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.YTDChange), args.Error(1)
}

var _ portssvc.ReportingSvc = (*MockReportingService)(nil)

// --- Test Suite ---
type ReportingHandlerTestSuite struct {
	suite.Suite
	mockService *MockReportingService
	router      *gin.Engine
}

func (suite *ReportingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockService = new(MockReportingService)
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, suite.mockService)
}

func (suite *ReportingHandlerTestSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ReportingHandlerTestSuite) TestHealth() {
	w := suite.get("/health")
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestGetPairRate_Success() {
	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	suite.mockService.On("PairRateOnDate", mock.Anything, date, "NOK", "SEK").
		Return(&domain.PairRate{FullDate: "2026-02-17", FromCurrency: "NOK", ToCurrency: "SEK", Rate: 0.973913}, nil).Once()

	w := suite.get("/api/v1/rates/2026-02-17/NOK/SEK")

	suite.Require().Equal(http.StatusOK, w.Code)
	var body map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("2026-02-17", body["date"])
	suite.Equal("NOK", body["from_currency"])
	suite.Equal("SEK", body["to_currency"])
	suite.InDelta(0.973913, body["rate"].(float64), 1e-9)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestGetPairRate_NotFound() {
	date := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)
	suite.mockService.On("PairRateOnDate", mock.Anything, date, "NOK", "SEK").
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.get("/api/v1/rates/2026-02-15/NOK/SEK")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestGetPairRate_BadDate() {
	w := suite.get("/api/v1/rates/17-02-2026/NOK/SEK")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "PairRateOnDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestGetPairRate_BadCurrencyCode() {
	w := suite.get("/api/v1/rates/2026-02-17/NOKK/SEK")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestListRatesForDate_Success() {
	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	suite.mockService.On("RatesForDate", mock.Anything, date).Return([]domain.PairRate{
		{FullDate: "2026-02-17", FromCurrency: "NOK", ToCurrency: "SEK", Rate: 0.973913},
		{FullDate: "2026-02-17", FromCurrency: "SEK", ToCurrency: "NOK", Rate: 1.026786},
	}, nil).Once()

	w := suite.get("/api/v1/rates/2026-02-17")

	suite.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Date  string           `json:"date"`
		Rates []map[string]any `json:"rates"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("2026-02-17", body.Date)
	suite.Len(body.Rates, 2)
}

func (suite *ReportingHandlerTestSuite) TestListLatestRates_ValidationError() {
	suite.mockService.On("LatestRates", mock.Anything, "NOK").
		Return(nil, apperrors.ErrValidation).Once()

	w := suite.get("/api/v1/latest/NOK")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ReportingHandlerTestSuite) TestListYTDAverages_Success() {
	suite.mockService.On("YTDAverages", mock.Anything, "NOK").Return([]domain.YTDAverage{
		{FromCurrency: "NOK", ToCurrency: "SEK", YTDStart: "2026-01-02", YTDEnd: "2026-02-18", AverageRate: 0.9702},
	}, nil).Once()

	w := suite.get("/api/v1/reports/ytd-average/NOK")

	suite.Require().Equal(http.StatusOK, w.Code)
	var body struct {
		Averages []map[string]any `json:"averages"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Len(body.Averages, 1)
}

func (suite *ReportingHandlerTestSuite) TestListYTDChanges_InternalError() {
	suite.mockService.On("YTDChanges", mock.Anything, "NOK").
		Return(nil, context.DeadlineExceeded).Once()

	w := suite.get("/api/v1/reports/ytd-change/NOK")

	suite.Equal(http.StatusInternalServerError, w.Code)
}

func TestReportingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}
