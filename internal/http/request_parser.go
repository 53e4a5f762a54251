// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Query parameters share one set of defaults across handlers so every endpoint
// interprets asOf, year and the listing filters the same way.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

const maxBodyBytes = 1 << 20

var (
	ErrMalformedBody = errors.New("malformed request body")
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidAsOf   = errors.New("asOf must be a YYYY-MM-DD date")
)

// DecodeJSON reads one JSON object from the request body into dst.
// Amount errors raised while decoding are reported as such so clients see
// the same message they get from validation.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, core.ErrInvalidAmount) {
			return core.ErrInvalidAmount
		}
		return ErrMalformedBody
	}
	return nil
}

// ParseAsOf returns the asOf query parameter, or now when it is absent.
func ParseAsOf(query url.Values, now time.Time) (time.Time, error) {
	v := strings.TrimSpace(query.Get("asOf"))
	if v == "" {
		return now, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return time.Time{}, ErrInvalidAsOf
	}
	return d.Time, nil
}

// ParseYear returns the year query parameter, or def when it is absent.
func ParseYear(query url.Values, def int) (int, error) {
	v := strings.TrimSpace(query.Get("year"))
	if v == "" {
		return def, nil
	}
	y, err := strconv.Atoi(v)
	if err != nil || y < 1900 || y > 9999 {
		return 0, ErrInvalidYear
	}
	return y, nil
}

// ParseFilter builds a listing filter from the query string. "all" and empty
// values disable a criterion; dateRange and sortBy are accepted as aliases.
func ParseFilter(query url.Values) (core.TransactionFilter, error) {
	f := core.DefaultFilter()

	if v := firstValue(query, "type"); v != "" && v != "all" {
		k, err := core.ParseKind(v)
		if err != nil {
			return core.TransactionFilter{}, err
		}
		f.Kind = k
	}
	if v := firstValue(query, "category"); v != "all" {
		f.Category = sanitizeInput(v)
	}
	if v := firstValue(query, "range", "dateRange"); v != "" {
		f.Range = core.DateRange(v)
	}
	if v := firstValue(query, "sort", "sortBy"); v != "" {
		f.Sort = core.SortOrder(v)
	}
	return f, f.Validate()
}

func firstValue(query url.Values, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(query.Get(k)); v != "" {
			return v
		}
	}
	return ""
}

// transactionRequest is the body of POST and PUT /api/transactions.
type transactionRequest struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Type        string     `json:"type"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	Notes       string     `json:"notes"`
}

// Fields converts the request into validated-ready transaction fields.
func (req transactionRequest) Fields() (core.TransactionFields, error) {
	kind, err := core.ParseKind(req.Type)
	if err != nil {
		return core.TransactionFields{}, err
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.TransactionFields{}, err
	}
	return core.TransactionFields{
		Description: sanitizeInput(req.Description),
		Amount:      req.Amount,
		Kind:        kind,
		Category:    sanitizeInput(req.Category),
		Date:        date,
		Notes:       sanitizeInput(req.Notes),
	}, nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type budgetRequest struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
}

// sanitizeInput removes control characters other than tab and newlines and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
