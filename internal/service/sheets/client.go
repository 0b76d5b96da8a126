package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"SalesPulse/internal/domain/models"
	drepo "SalesPulse/internal/domain/repository"
	"SalesPulse/internal/service/ratelimit"
	xhttp "SalesPulse/pkg/http"
	"SalesPulse/pkg/logger"
	"SalesPulse/pkg/util"
)

// ErrRateLimited is returned when the upstream request budget is spent.
// Callers should fall back to cached series instead of retrying hot.
var ErrRateLimited = errors.New("sheets: rate limited")

// Client implements a DealSource backed by the spreadsheet gateway's
// REST values API. Each pipeline maps to one sheet tab; rows are
// id, name, amount, stage, owner, date with a header row.
type Client struct {
	http          *xhttp.Client
	baseURL       string
	apiKey        string
	spreadsheetID string
	pipelines     []string

	limiter      *ratelimit.Limiter
	burst        float64
	refillPerSec float64

	log *logger.Logger
}

type Config struct {
	BaseURL           string
	APIKey            string
	SpreadsheetID     string
	Pipelines         []string
	Timeout           time.Duration
	RequestsPerMinute int
	Burst             int
}

// New creates a spreadsheet-backed DealSource.
func New(cfg Config, log *logger.Logger) drepo.DealSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	return &Client{
		http:          xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL:       cfg.BaseURL,
		apiKey:        cfg.APIKey,
		spreadsheetID: cfg.SpreadsheetID,
		pipelines:     cfg.Pipelines,
		limiter:       ratelimit.New(),
		burst:         float64(burst),
		refillPerSec:  float64(rpm) / 60.0,
		log:           log,
	}
}

// valuesResponse mirrors the gateway's values API payload: a 2-D array
// of cell strings, header row first.
type valuesResponse struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// FetchDeals pulls one pipeline's rows and keeps deals dated in [from, to].
func (c *Client) FetchDeals(ctx context.Context, pipeline string, from, to time.Time) ([]*models.Deal, error) {
	if !c.limiter.Allow("values", c.burst, c.refillPerSec) {
		return nil, ErrRateLimited
	}

	rng := fmt.Sprintf("%s!A:F", pipeline)
	reqURL := fmt.Sprintf("%s/spreadsheets/%s/values/%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(rng))

	var resp valuesResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         reqURL,
		QueryParams: map[string][]string{"key": {c.apiKey}},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pipeline, err)
	}

	deals := make([]*models.Deal, 0, len(resp.Values))
	for i, row := range resp.Values {
		if i == 0 {
			// header row
			continue
		}
		d, ok := parseRow(pipeline, row)
		if !ok {
			c.log.Debug("sheets: skipping malformed row",
				logger.String("pipeline", pipeline),
				logger.Int("row", i))
			continue
		}
		if d.Date.Before(from) || d.Date.After(to) {
			continue
		}
		deals = append(deals, d)
	}

	c.log.Debug("sheets: fetched deals",
		logger.String("pipeline", pipeline),
		logger.Int("count", len(deals)))
	return deals, nil
}

// parseRow maps a sheet row onto a Deal. A row is usable when it has an
// id and a parseable date; a bad amount coerces to 0 rather than
// dropping the point.
func parseRow(pipeline string, row []string) (*models.Deal, bool) {
	if len(row) < 6 || row[0] == "" {
		return nil, false
	}
	date, ok := util.ParseTime(row[5])
	if !ok {
		return nil, false
	}
	return &models.Deal{
		ID:       row[0],
		Pipeline: pipeline,
		Name:     row[1],
		Amount:   util.ParseFloatDefault(row[2], 0),
		Stage:    row[3],
		Owner:    row[4],
		Date:     date,
	}, true
}

// Pipelines returns the configured pipeline (sheet tab) names.
func (c *Client) Pipelines(_ context.Context) ([]string, error) {
	out := make([]string, len(c.pipelines))
	copy(out, c.pipelines)
	return out, nil
}

// Health checks the gateway by fetching spreadsheet metadata.
func (c *Client) Health(ctx context.Context) error {
	reqURL := fmt.Sprintf("%s/spreadsheets/%s", c.baseURL, url.PathEscape(c.spreadsheetID))
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         reqURL,
		QueryParams: map[string][]string{"key": {c.apiKey}},
	}, nil)
	if err != nil {
		return fmt.Errorf("sheets health: %w", err)
	}
	return nil
}
