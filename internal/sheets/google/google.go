// Package google mirrors yearly summaries into a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/core"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Credentials names a service account key, inline or on disk. JSON wins when both are set.
type Credentials struct {
	File string
	JSON string
}

// SummaryWriter writes one "<year> Summary" tab per year.
type SummaryWriter struct {
	svc           *gsheet.Service
	spreadsheetID string
}

func NewSummaryWriter(ctx context.Context, spreadsheetID string, creds Credentials) (*SummaryWriter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	svc, err := newSheetsService(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &SummaryWriter{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// newSheetsService authenticates with a service account. Without explicit
// credentials it falls back to GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, creds Credentials) (*gsheet.Service, error) {
	inline := strings.TrimSpace(creds.JSON)
	file := strings.TrimSpace(creds.File)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inline != "":
		credentialsJSON = []byte(inline)
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.InfoContext(ctx, "Creating Google Sheets service with Service Account",
		"credentials_size", len(credentialsJSON),
		"scope", gsheet.SpreadsheetsScope)

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// SummaryTabName returns the tab title used for year.
func SummaryTabName(year int) string {
	return fmt.Sprintf("%d Summary", year)
}

// WriteYearSummary replaces the contents of the year's tab, creating it first if needed.
func (w *SummaryWriter) WriteYearSummary(ctx context.Context, series core.MonthlySeries, totals core.CategoryTotals) error {
	title := SummaryTabName(series.Year)
	if err := w.ensureTab(ctx, title); err != nil {
		return err
	}

	// The category block can shrink between writes.
	if _, err := w.svc.Spreadsheets.Values.Clear(w.spreadsheetID, title, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", title, err)
	}

	vr := &gsheet.ValueRange{Values: BuildSummaryValues(series, totals)}
	_, err := w.svc.Spreadsheets.Values.Update(w.spreadsheetID, title+"!A1", vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update %s: %w", title, err)
	}
	return nil
}

func (w *SummaryWriter) ensureTab(ctx context.Context, title string) error {
	ss, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := w.svc.Spreadsheets.BatchUpdate(w.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	slog.InfoContext(ctx, "Created summary tab", "title", title)
	return nil
}

// BuildSummaryValues lays out the monthly table, its total row, a blank row
// and the expense categories ranked by amount.
func BuildSummaryValues(series core.MonthlySeries, totals core.CategoryTotals) [][]any {
	rows := make([][]any, 0, 16+len(totals))
	rows = append(rows, []any{"Month", "Income", "Expenses", "Net"})
	for i, label := range monthLabels {
		in, out := series.Income[i], series.Expense[i]
		rows = append(rows, []any{label, amount(in), amount(out), amount(in.Sub(out))})
	}
	in, out := series.TotalIncome(), series.TotalExpense()
	rows = append(rows, []any{"Total", amount(in), amount(out), amount(in.Sub(out))})

	rows = append(rows, []any{})
	rows = append(rows, []any{"Category", "Spent"})
	for _, c := range totals.Ranked() {
		rows = append(rows, []any{c.Name, amount(c.Amount)})
	}
	return rows
}

func amount(m core.Money) string {
	return m.Decimal().StringFixed(2)
}
