// Package frankfurter implements the RateSource port against the Frankfurter
// API (https://api.frankfurter.app), which serves ECB daily reference rates.
// Rates are published on ECB business days only; weekends and holidays are
// simply absent from the response.
package frankfurter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MessaoudiOussama/fx-pipeline/internal/core/domain"
	"github.com/MessaoudiOussama/fx-pipeline/internal/core/ports"
	"github.com/hashicorp/go-retryablehttp"
)

// Client fetches base-relative daily rates for a configured currency set.
type Client struct {
	baseURL    string
	httpClient *http.Client
	currencies []string
	base       string
	logger     *slog.Logger
}

// NewClient creates a Frankfurter client with retry-enabled HTTP transport.
func NewClient(baseURL string, timeout time.Duration, currencies []string, baseCurrency string, logger *slog.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 3 * time.Second
	retryClient.Logger = nil

	httpClient := retryClient.StandardClient()
	httpClient.Timeout = timeout

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		currencies: currencies,
		base:       baseCurrency,
		logger:     logger,
	}
}

// Ensure Client implements the RateSource port
var _ ports.RateSource = (*Client)(nil)

// rangeResponse matches the Frankfurter time-series payload.
type rangeResponse struct {
	Base      string                        `json:"base"`
	StartDate string                        `json:"start_date"`
	EndDate   string                        `json:"end_date"`
	Rates     map[string]map[string]float64 `json:"rates"`
}

// FetchRates retrieves one rate per (trading day, non-base currency) for the
// inclusive range [start, end]. The base currency is not requested; it is
// injected at 1.0 downstream.
func (c *Client) FetchRates(ctx context.Context, start, end time.Time) (domain.RateHistory, error) {
	url := fmt.Sprintf("%s/%s..%s", c.baseURL, start.Format(domain.DateLayout), end.Format(domain.DateLayout))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	q := req.URL.Query()
	q.Set("base", c.base)
	q.Set("symbols", strings.Join(c.targetCurrencies(), ","))
	req.URL.RawQuery = q.Encode()

	c.logger.Info("Calling Frankfurter API",
		slog.String("url", url),
		slog.String("base", c.base),
		slog.String("symbols", q.Get("symbols")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching rates from Frankfurter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("frankfurter API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload rangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("error decoding Frankfurter response: %w", err)
	}

	history := make(domain.RateHistory, len(payload.Rates))
	for date, rates := range payload.Rates {
		day := make(domain.DailyRates, len(rates))
		for code, rate := range rates {
			day[code] = rate
		}
		history[date] = day
	}

	c.logger.Info("Extraction done",
		slog.Int("trading_days", len(history)),
		slog.String("source_start", payload.StartDate),
		slog.String("source_end", payload.EndDate))
	return history, nil
}

// targetCurrencies returns the configured set minus the base currency, which
// Frankfurter rejects as a symbol when it is also the base.
func (c *Client) targetCurrencies() []string {
	targets := make([]string, 0, len(c.currencies))
	for _, code := range c.currencies {
		if code == c.base {
			continue
		}
		targets = append(targets, code)
	}
	return targets
}
