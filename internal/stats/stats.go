// Package stats derives aggregate figures from a user's transaction snapshot.
//
// Every function here is pure: it reads the slice it is given, never keeps
// state between calls and never performs I/O. Callers recompute the full
// result whenever the snapshot changes.
package stats

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// ComputeDerivedStats sums income and expenses over the whole snapshot and over
// the calendar month containing asOf.
func ComputeDerivedStats(txs []core.Transaction, asOf time.Time) core.DerivedStats {
	year, month := asOf.Year(), int(asOf.Month())

	var s core.DerivedStats
	for _, t := range txs {
		inMonth := t.Date.Year() == year && t.Date.Month() == month
		switch t.Kind {
		case core.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			if inMonth {
				s.MonthlyIncome = s.MonthlyIncome.Add(t.Amount)
			}
		case core.Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			if inMonth {
				s.MonthlyExpenses = s.MonthlyExpenses.Add(t.Amount)
			}
		}
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// ComputeCategoryTotals groups expense records by exact category name.
// Income is excluded and categories only appear once they have spending.
func ComputeCategoryTotals(txs []core.Transaction) core.CategoryTotals {
	index := make(map[string]int)
	var totals core.CategoryTotals
	for _, t := range txs {
		if t.Kind != core.Expense {
			continue
		}
		i, ok := index[t.Category]
		if !ok {
			i = len(totals)
			index[t.Category] = i
			totals = append(totals, core.CategoryAmount{Name: t.Category})
		}
		totals[i].Amount = totals[i].Amount.Add(t.Amount)
	}
	return totals
}

// ComputeMonthlySeries buckets the records dated in year by calendar month.
// Records from other years are ignored.
func ComputeMonthlySeries(txs []core.Transaction, year int) core.MonthlySeries {
	series := core.MonthlySeries{Year: year}
	for _, t := range txs {
		if t.Date.Year() != year {
			continue
		}
		m := t.Date.Month() - 1
		switch t.Kind {
		case core.Income:
			series.Income[m] = series.Income[m].Add(t.Amount)
		case core.Expense:
			series.Expense[m] = series.Expense[m].Add(t.Amount)
		}
	}
	return series
}

// Recent returns up to n transactions, newest first. Equal dates keep their
// snapshot order.
func Recent(txs []core.Transaction, n int) []core.Transaction {
	out := append([]core.Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
