package stats

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// NullPercent is a percentage that is undefined for some inputs; it encodes
// as JSON null when not Valid.
type NullPercent struct {
	Value float64
	Valid bool
}

func (p NullPercent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, p.Value, 'f', -1, 64), nil
}

// Insights are the dashboard ratios derived from DerivedStats, in percent
// rounded to one decimal place.
type Insights struct {
	BalanceShare           float64 `json:"balanceShare"`        // |balance| as a share of total income
	MonthlyIncomeShare     float64 `json:"monthlyIncomeShare"`  // this month's income as a share of total income
	MonthlyExpenseShare    float64 `json:"monthlyExpenseShare"` // this month's expenses as a share of total expenses
	MonthlySavingsRate     float64 `json:"monthlySavingsRate"`  // 1 - monthly expenses / monthly income
	MonthlySavingsPositive bool    `json:"monthlySavingsPositive"`

	// All-time figures shown on the analytics page.
	AverageMonthlyExpense core.Money  `json:"averageMonthlyExpense"` // total expenses / 12
	SavingsRate           NullPercent `json:"savingsRate"`           // 1 - expenses / income, whole percent; null without income
}

// percentOf returns part/base*100; a zero base is treated as one unit.
func percentOf(part, base core.Money) decimal.Decimal {
	b := base.Decimal()
	if b.IsZero() {
		b = decimal.NewFromInt(1)
	}
	return part.Decimal().Div(b).Mul(hundred)
}

func round1(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

// ComputeInsights derives the dashboard percentages.
func ComputeInsights(s core.DerivedStats) Insights {
	in := Insights{
		BalanceShare:           round1(percentOf(s.Balance, s.TotalIncome).Abs()),
		MonthlyIncomeShare:     round1(percentOf(s.MonthlyIncome, s.TotalIncome)),
		MonthlyExpenseShare:    round1(percentOf(s.MonthlyExpenses, s.TotalExpenses)),
		MonthlySavingsPositive: s.MonthlyIncome.Cents > s.MonthlyExpenses.Cents,
		AverageMonthlyExpense:  core.Money{Cents: s.TotalExpenses.Decimal().Div(twelve).Round(2).Shift(2).IntPart()},
	}
	if s.MonthlyIncome.Cents != 0 {
		ratio := s.MonthlyExpenses.Decimal().Div(s.MonthlyIncome.Decimal())
		in.MonthlySavingsRate = round1(decimal.NewFromInt(1).Sub(ratio).Mul(hundred))
	}
	if s.TotalIncome.Cents != 0 {
		ratio := s.TotalExpenses.Decimal().Div(s.TotalIncome.Decimal())
		rate, _ := decimal.NewFromInt(1).Sub(ratio).Mul(hundred).Round(0).Float64()
		in.SavingsRate = NullPercent{Value: rate, Valid: true}
	}
	return in
}

// BudgetStatus classifies how much of a budget has been used.
type BudgetStatus string

const (
	BudgetGood    BudgetStatus = "good"
	BudgetWarning BudgetStatus = "warning"
	BudgetDanger  BudgetStatus = "danger"
)

// BudgetProgress reports spending against one budget.
type BudgetProgress struct {
	Budget    core.Budget
	Spent     core.Money
	Remaining core.Money
	Percent   float64 // capped at 100
	Status    BudgetStatus
}

// BudgetOverview reports every budget plus their combined figures.
type BudgetOverview struct {
	Items        []BudgetProgress
	TotalBudget  core.Money
	TotalSpent   core.Money
	TotalPercent float64
	TotalStatus  BudgetStatus
}

func progress(spent, limit core.Money) (float64, BudgetStatus) {
	if limit.Cents <= 0 {
		return 0, BudgetGood
	}
	pct := spent.Decimal().Div(limit.Decimal()).Mul(hundred)
	status := BudgetDanger
	switch {
	case pct.LessThan(decimal.NewFromInt(70)):
		status = BudgetGood
	case pct.LessThan(decimal.NewFromInt(90)):
		status = BudgetWarning
	}
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return round1(pct), status
}

// ComputeBudgetOverview measures each budget against the expenses recorded in
// its category during the calendar month containing asOf.
func ComputeBudgetOverview(budgets []core.Budget, txs []core.Transaction, asOf time.Time) BudgetOverview {
	year, month := asOf.Year(), int(asOf.Month())
	var monthly []core.Transaction
	for _, t := range txs {
		if t.Date.Year() == year && t.Date.Month() == month {
			monthly = append(monthly, t)
		}
	}
	spent := ComputeCategoryTotals(monthly)

	ov := BudgetOverview{Items: make([]BudgetProgress, 0, len(budgets))}
	for _, b := range budgets {
		s, _ := spent.Lookup(b.Category)
		pct, status := progress(s, b.Amount)
		ov.Items = append(ov.Items, BudgetProgress{
			Budget:    b,
			Spent:     s,
			Remaining: b.Amount.Sub(s),
			Percent:   pct,
			Status:    status,
		})
		ov.TotalBudget = ov.TotalBudget.Add(b.Amount)
		ov.TotalSpent = ov.TotalSpent.Add(s)
	}
	ov.TotalPercent, ov.TotalStatus = progress(ov.TotalSpent, ov.TotalBudget)
	return ov
}
