// Package export renders a user's transactions as CSV or XLSX downloads.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fintrack/internal/core"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	transactionsSheet = "Transactions"
	summarySheet      = "Summary"
)

var header = []string{"Date", "Description", "Type", "Category", "Amount", "Notes"}

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Filename returns the attachment name for an export made at now.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("transactions_%s.%s", now.Format("20060102"), ext)
}

// sanitizeCell stops spreadsheet applications from evaluating user text as a formula.
func sanitizeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func record(t core.Transaction) []string {
	return []string{
		t.Date.String(),
		sanitizeCell(t.Description),
		string(t.Kind),
		sanitizeCell(t.Category),
		t.Amount.Decimal().StringFixed(2),
		sanitizeCell(t.Notes),
	}
}

// WriteCSV writes a UTF-8 BOM, a header row and one row per transaction.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range txs {
		if err := cw.Write(record(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Workbook is the content of an XLSX export.
type Workbook struct {
	Transactions []core.Transaction
	Series       core.MonthlySeries
	Categories   core.CategoryTotals
}

// WriteXLSX writes a Transactions sheet and a Summary sheet for the series year.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return err
	}

	if err := writeTransactions(f, wb.Transactions, money); err != nil {
		return fmt.Errorf("transactions sheet: %w", err)
	}
	if err := writeSummary(f, wb.Series, wb.Categories, money); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeTransactions(f *excelize.File, txs []core.Transaction, money int) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := setRow(f, transactionsSheet, 1, headerRow...); err != nil {
		return err
	}
	for i, t := range txs {
		row := i + 2
		if err := setRow(f, transactionsSheet, row,
			t.Date.String(), t.Description, string(t.Kind), t.Category, t.Amount.Float(), t.Notes); err != nil {
			return err
		}
	}
	if len(txs) > 0 {
		if err := f.SetCellStyle(transactionsSheet, "E2", fmt.Sprintf("E%d", len(txs)+1), money); err != nil {
			return err
		}
	}
	for col, width := range map[string]float64{"A": 12, "B": 30, "C": 10, "D": 16, "E": 12, "F": 40} {
		if err := f.SetColWidth(transactionsSheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, series core.MonthlySeries, totals core.CategoryTotals, money int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	if err := setRow(f, summarySheet, 1, fmt.Sprintf("%d", series.Year), "Income", "Expenses", "Net"); err != nil {
		return err
	}
	for i, label := range monthLabels {
		in, out := series.Income[i], series.Expense[i]
		if err := setRow(f, summarySheet, i+2, label, in.Float(), out.Float(), in.Sub(out).Float()); err != nil {
			return err
		}
	}
	in, out := series.TotalIncome(), series.TotalExpense()
	if err := setRow(f, summarySheet, 14, "Total", in.Float(), out.Float(), in.Sub(out).Float()); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "B2", "D14", money); err != nil {
		return err
	}

	if err := setRow(f, summarySheet, 16, "Category", "Spent"); err != nil {
		return err
	}
	ranked := totals.Ranked()
	for i, c := range ranked {
		if err := setRow(f, summarySheet, 17+i, c.Name, c.Amount.Float()); err != nil {
			return err
		}
	}
	if len(ranked) > 0 {
		if err := f.SetCellStyle(summarySheet, "B17", fmt.Sprintf("B%d", 16+len(ranked)), money); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 16)
}
