package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestParseAsOf(t *testing.T) {
	now := time.Date(2024, 5, 20, 13, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		query   url.Values
		want    time.Time
		wantErr error
	}{
		{"absent uses now", url.Values{}, now, nil},
		{"date", url.Values{"asOf": {"2024-01-31"}}, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), nil},
		{"timestamp drops time", url.Values{"asOf": {"2024-02-01T22:30:00Z"}}, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), nil},
		{"garbage", url.Values{"asOf": {"yesterday"}}, time.Time{}, ErrInvalidAsOf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAsOf(tt.query, now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseAsOf() error = %v, want %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseAsOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{"absent uses default", "", 2024, false},
		{"explicit", "2021", 2021, false},
		{"not a number", "abc", 0, true},
		{"out of range", "12", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			if tt.value != "" {
				q.Set("year", tt.value)
			}
			got, err := ParseYear(q, 2024)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseYear() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseYear() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   url.Values
		want    core.TransactionFilter
		wantErr error
	}{
		{
			name:  "defaults",
			query: url.Values{},
			want:  core.DefaultFilter(),
		},
		{
			name:  "all values disable criteria",
			query: url.Values{"type": {"all"}, "category": {"all"}},
			want:  core.DefaultFilter(),
		},
		{
			name:  "explicit",
			query: url.Values{"type": {"Expense"}, "category": {"Food"}, "range": {"month"}, "sort": {"amount-asc"}},
			want:  core.TransactionFilter{Kind: core.Expense, Category: "Food", Range: core.RangeMonth, Sort: core.SortAmountAsc},
		},
		{
			name:  "frontend aliases",
			query: url.Values{"dateRange": {"week"}, "sortBy": {"date-asc"}},
			want:  core.TransactionFilter{Range: core.RangeWeek, Sort: core.SortDateAsc},
		},
		{
			name:    "bad type",
			query:   url.Values{"type": {"transfer"}},
			wantErr: core.ErrInvalidKind,
		},
		{
			name:    "bad range",
			query:   url.Values{"range": {"decade"}},
			wantErr: core.ErrInvalidRange,
		},
		{
			name:    "bad sort",
			query:   url.Values{"sort": {"name"}},
			wantErr: core.ErrInvalidSort,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.query)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseFilter() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Errorf("ParseFilter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"valid", `{"description":"Coffee","amount":"3.50","type":"expense"}`, nil},
		{"numeric amount", `{"amount":12.3}`, nil},
		{"malformed", `{"amount":`, ErrMalformedBody},
		{"empty", ``, ErrMalformedBody},
		{"negative amount", `{"amount":-5}`, core.ErrInvalidAmount},
		{"zero amount", `{"amount":"0"}`, core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/transactions", strings.NewReader(tt.body))
			var dst transactionRequest
			if err := DecodeJSON(req, &dst); !errors.Is(err, tt.wantErr) {
				t.Fatalf("DecodeJSON() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionRequestFields(t *testing.T) {
	req := transactionRequest{
		Description: "  Groceries\x00 ",
		Amount:      core.Money{Cents: 4250},
		Type:        "EXPENSE",
		Category:    "Food",
		Date:        "2024-03-09",
		Notes:       "weekly",
	}
	f, err := req.Fields()
	if err != nil {
		t.Fatalf("Fields() error = %v", err)
	}
	if f.Description != "Groceries" || f.Kind != core.Expense || f.Date != core.NewDate(2024, 3, 9) {
		t.Errorf("Fields() = %+v", f)
	}

	req.Type = "gift"
	if _, err := req.Fields(); !errors.Is(err, core.ErrInvalidKind) {
		t.Errorf("bad type error = %v", err)
	}
	req.Type, req.Date = "income", "09/03/2024"
	if _, err := req.Fields(); !errors.Is(err, core.ErrInvalidDate) {
		t.Errorf("bad date error = %v", err)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := map[string]string{
		"  plain  ":       "plain",
		"bell\x07char":    "bellchar",
		"keeps\ttab":      "keeps\ttab",
		"line\nbreak":     "line\nbreak",
		"\x1b[31mred\x1b": "[31mred",
	}
	for in, want := range tests {
		if got := sanitizeInput(in); got != want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", in, got, want)
		}
	}
}
