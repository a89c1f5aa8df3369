package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/apperrors"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	portssvc "github.com/MessaoudiOussama/fx-pipeline/internal/core/ports/services"
	"github.com/MessaoudiOussama/fx-pipeline/internal/dto"
	"github.com/MessaoudiOussama/fx-pipeline/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// reportingHandler handles HTTP requests for warehouse reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers the rate lookup and report routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	rates := rg.Group("/rates")
	{
		rates.GET("/:date", h.listRatesForDate)
		rates.GET("/:date/:from/:to", h.getPairRate)
	}

	latest := rg.Group("/latest")
	{
		latest.GET("/:from", h.listLatestRates)
	}

	reports := rg.Group("/reports")
	{
		reports.GET("/ytd-average/:from", h.listYTDAverages)
		reports.GET("/ytd-change/:from", h.listYTDChanges)
	}
}

// getPairRate returns the rate for one directed pair on one date.
func (h *reportingHandler) getPairRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PairRateRequest
	if err := c.ShouldBindUri(&req); err != nil {
		logger.Warn("Failed to bind URI for GetPairRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	rate, err := h.reportingService.PairRateOnDate(c.Request.Context(), date, req.From, req.To)
	if err != nil {
		h.respondError(c, err, "Failed to fetch pair rate")
		return
	}

	c.JSON(http.StatusOK, dto.PairRateResponse{
		Date:         rate.FullDate,
		FromCurrency: rate.FromCurrency,
		ToCurrency:   rate.ToCurrency,
		Rate:         rate.Rate,
	})
}

// listRatesForDate returns every directed pair loaded for one date.
func (h *reportingHandler) listRatesForDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DateRequest
	if err := c.ShouldBindUri(&req); err != nil {
		logger.Warn("Failed to bind URI for ListRatesForDate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	rates, err := h.reportingService.RatesForDate(c.Request.Context(), date)
	if err != nil {
		h.respondError(c, err, "Failed to fetch rates for date")
		return
	}

	resp := make([]dto.PairRateResponse, 0, len(rates))
	for _, rate := range rates {
		resp = append(resp, dto.PairRateResponse{
			Date:         rate.FullDate,
			FromCurrency: rate.FromCurrency,
			ToCurrency:   rate.ToCurrency,
			Rate:         rate.Rate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"date": req.Date, "rates": resp})
}

// listLatestRates returns the most recent rate from one currency to all others.
func (h *reportingHandler) listLatestRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CurrencyRequest
	if err := c.ShouldBindUri(&req); err != nil {
		logger.Warn("Failed to bind URI for ListLatestRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	rates, err := h.reportingService.LatestRates(c.Request.Context(), req.From)
	if err != nil {
		h.respondError(c, err, "Failed to fetch latest rates")
		return
	}

	resp := make([]dto.PairRateResponse, 0, len(rates))
	for _, rate := range rates {
		resp = append(resp, dto.PairRateResponse{
			Date:         rate.FullDate,
			FromCurrency: rate.FromCurrency,
			ToCurrency:   rate.ToCurrency,
			Rate:         rate.Rate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"from_currency": req.From, "rates": resp})
}

// listYTDAverages returns year-to-date average rates from one currency.
func (h *reportingHandler) listYTDAverages(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CurrencyRequest
	if err := c.ShouldBindUri(&req); err != nil {
		logger.Warn("Failed to bind URI for ListYTDAverages", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	averages, err := h.reportingService.YTDAverages(c.Request.Context(), req.From)
	if err != nil {
		h.respondError(c, err, "Failed to fetch YTD averages")
		return
	}

	resp := make([]dto.YTDAverageResponse, 0, len(averages))
	for _, avg := range averages {
		resp = append(resp, dto.YTDAverageResponse{
			FromCurrency: avg.FromCurrency,
			ToCurrency:   avg.ToCurrency,
			YTDStart:     avg.YTDStart,
			YTDEnd:       avg.YTDEnd,
			AverageRate:  avg.AverageRate,
		})
	}
	c.JSON(http.StatusOK, gin.H{"from_currency": req.From, "averages": resp})
}

// listYTDChanges returns year-to-date percentage changes from one currency.
func (h *reportingHandler) listYTDChanges(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CurrencyRequest
	if err := c.ShouldBindUri(&req); err != nil {
		logger.Warn("Failed to bind URI for ListYTDChanges", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingErrorMessage(err)})
		return
	}

	changes, err := h.reportingService.YTDChanges(c.Request.Context(), req.From)
	if err != nil {
		h.respondError(c, err, "Failed to fetch YTD changes")
		return
	}

	resp := make([]dto.YTDChangeResponse, 0, len(changes))
	for _, change := range changes {
		resp = append(resp, dto.YTDChangeResponse{
			FromCurrency: change.FromCurrency,
			ToCurrency:   change.ToCurrency,
			YTDStart:     change.YTDStart,
			YTDEnd:       change.YTDEnd,
			FirstRate:    change.FirstRate,
			LastRate:     change.LastRate,
			ChangePct:    change.ChangePct,
		})
	}
	c.JSON(http.StatusOK, gin.H{"from_currency": req.From, "changes": resp})
}

// respondError maps service errors onto HTTP status codes.
func (h *reportingHandler) respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Requested rate not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// bindingErrorMessage flattens validator errors into a single readable message.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "Invalid value for '" + fe.Field() + "' (rule: " + fe.Tag() + ")"
	}
	return "Invalid request format: " + err.Error()
}
