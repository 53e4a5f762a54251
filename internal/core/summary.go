package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// CategoryTotals holds per-category sums in first-appearance order.
type CategoryTotals []CategoryAmount

// Lookup returns the total for name, if present.
func (c CategoryTotals) Lookup(name string) (Money, bool) {
	for _, ca := range c {
		if ca.Name == name {
			return ca.Amount, true
		}
	}
	return Money{}, false
}

// Sum adds every category total.
func (c CategoryTotals) Sum() Money {
	var total Money
	for _, ca := range c {
		total = total.Add(ca.Amount)
	}
	return total
}

// Ranked returns a copy sorted by amount, largest first. Equal amounts keep
// their first-appearance order.
func (c CategoryTotals) Ranked() CategoryTotals {
	out := append(CategoryTotals(nil), c...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// Map converts the totals to a name-keyed map.
func (c CategoryTotals) Map() map[string]Money {
	m := make(map[string]Money, len(c))
	for _, ca := range c {
		m[ca.Name] = ca.Amount
	}
	return m
}

// DerivedStats are the aggregate figures shown on the dashboard.
type DerivedStats struct {
	TotalIncome     Money `json:"totalIncome"`
	TotalExpenses   Money `json:"totalExpenses"`
	Balance         Money `json:"balance"`
	MonthlyIncome   Money `json:"monthlyIncome"`
	MonthlyExpenses Money `json:"monthlyExpenses"`
}

// MonthlySeries holds income and expense sums per calendar month; index 0 is January.
type MonthlySeries struct {
	Year    int
	Income  [12]Money
	Expense [12]Money
}

// TotalIncome sums the income buckets.
func (s MonthlySeries) TotalIncome() Money {
	var total Money
	for _, m := range s.Income {
		total = total.Add(m)
	}
	return total
}

// TotalExpense sums the expense buckets.
func (s MonthlySeries) TotalExpense() Money {
	var total Money
	for _, m := range s.Expense {
		total = total.Add(m)
	}
	return total
}
