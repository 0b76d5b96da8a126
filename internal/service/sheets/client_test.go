package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/pkg/logger"
)

func testLogger() *logger.Logger {
	l, _ := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	return l
}

func valuesServer(t *testing.T, rows [][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(valuesResponse{Range: "smb!A:F", Values: rows})
	}))
}

func TestFetchDealsParsesAndFilters(t *testing.T) {
	rows := [][]string{
		{"id", "name", "amount", "stage", "owner", "date"}, // header
		{"d-1", "Acme renewal", "1200.50", "negotiation", "kim", "2025-06-10"},
		{"d-2", "Globex pilot", "not-a-number", "qualified", "lee", "2025-06-12"},
		{"", "missing id", "500", "won", "kim", "2025-06-11"},
		{"d-3", "too old", "900", "won", "lee", "2024-01-01"},
		{"d-4", "short row", "100"},
	}
	srv := valuesServer(t, rows)
	defer srv.Close()

	src := New(Config{
		BaseURL:       srv.URL,
		APIKey:        "secret",
		SpreadsheetID: "sheet-1",
		Pipelines:     []string{"smb"},
	}, testLogger())

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	deals, err := src.FetchDeals(context.Background(), "smb", from, to)
	require.NoError(t, err)

	// d-1 parses fully; d-2 keeps the row with a zero amount; the rest drop
	require.Len(t, deals, 2)
	assert.Equal(t, "d-1", deals[0].ID)
	assert.Equal(t, 1200.50, deals[0].Amount)
	assert.Equal(t, "smb", deals[0].Pipeline)
	assert.Equal(t, "d-2", deals[1].ID)
	assert.Equal(t, 0.0, deals[1].Amount)
}

func TestFetchDealsRateLimited(t *testing.T) {
	srv := valuesServer(t, nil)
	defer srv.Close()

	src := New(Config{
		BaseURL:           srv.URL,
		APIKey:            "secret",
		SpreadsheetID:     "sheet-1",
		RequestsPerMinute: 1,
		Burst:             1,
	}, testLogger())

	_, err := src.FetchDeals(context.Background(), "smb", time.Time{}, time.Now())
	require.NoError(t, err)

	_, err = src.FetchDeals(context.Background(), "smb", time.Time{}, time.Now())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestPipelinesReturnsCopy(t *testing.T) {
	src := New(Config{Pipelines: []string{"enterprise", "smb"}}, testLogger())

	got, err := src.Pipelines(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"enterprise", "smb"}, got)

	got[0] = "mutated"
	again, _ := src.Pipelines(context.Background())
	assert.Equal(t, "enterprise", again[0])
}

func TestParseRow(t *testing.T) {
	d, ok := parseRow("smb", []string{"d-9", "Initech", "42.5", "won", "kim", "2025-03-04"})
	require.True(t, ok)
	assert.Equal(t, "d-9", d.ID)
	assert.Equal(t, 42.5, d.Amount)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), d.Date)

	_, ok = parseRow("smb", []string{"d-9", "Initech", "42.5", "won", "kim", "not a date"})
	assert.False(t, ok)
}
