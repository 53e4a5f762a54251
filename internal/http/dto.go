package http

import (
	"time"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/stats"
)

// Chart colours used by the analytics page.
const (
	colorIncome  = "#10b981"
	colorExpense = "#ef4444"
)

var monthLabels = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type userJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserJSON(u core.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email}
}

type sessionJSON struct {
	Token string   `json:"token"`
	User  userJSON `json:"user"`
}

type transactionJSON struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Type        core.Kind  `json:"type"`
	Category    string     `json:"category"`
	Date        string     `json:"date"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func newTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Kind,
		Category:    t.Category,
		Date:        t.Date.String(),
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
	}
}

func newTransactionsJSON(txs []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, newTransactionJSON(t))
	}
	return out
}

type categoryJSON struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type core.Kind `json:"type"`
}

func newCategoriesJSON(cats []core.Category) []categoryJSON {
	out := make([]categoryJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryJSON{ID: c.ID, Name: c.Name, Type: c.Kind})
	}
	return out
}

type budgetJSON struct {
	ID        string     `json:"id"`
	Category  string     `json:"category"`
	Amount    core.Money `json:"amount"`
	CreatedAt time.Time  `json:"createdAt"`
}

func newBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{ID: b.ID, Category: b.Category, Amount: b.Amount, CreatedAt: b.CreatedAt}
}

func newBudgetsJSON(budgets []core.Budget) []budgetJSON {
	out := make([]budgetJSON, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, newBudgetJSON(b))
	}
	return out
}

type budgetProgressJSON struct {
	budgetJSON
	Spent     core.Money         `json:"spent"`
	Remaining core.Money         `json:"remaining"`
	Percent   float64            `json:"percent"`
	Status    stats.BudgetStatus `json:"status"`
}

type budgetOverviewJSON struct {
	Budgets      []budgetProgressJSON `json:"budgets"`
	TotalBudget  core.Money           `json:"totalBudget"`
	TotalSpent   core.Money           `json:"totalSpent"`
	TotalPercent float64              `json:"totalPercent"`
	TotalStatus  stats.BudgetStatus   `json:"totalStatus"`
}

func newBudgetOverviewJSON(ov stats.BudgetOverview) budgetOverviewJSON {
	out := budgetOverviewJSON{
		Budgets:      make([]budgetProgressJSON, 0, len(ov.Items)),
		TotalBudget:  ov.TotalBudget,
		TotalSpent:   ov.TotalSpent,
		TotalPercent: ov.TotalPercent,
		TotalStatus:  ov.TotalStatus,
	}
	for _, item := range ov.Items {
		out.Budgets = append(out.Budgets, budgetProgressJSON{
			budgetJSON: newBudgetJSON(item.Budget),
			Spent:      item.Spent,
			Remaining:  item.Remaining,
			Percent:    item.Percent,
			Status:     item.Status,
		})
	}
	return out
}

type summaryJSON struct {
	AsOf     string            `json:"asOf"`
	Stats    core.DerivedStats `json:"stats"`
	Insights stats.Insights    `json:"insights"`
}

func newSummaryJSON(s services.Summary) summaryJSON {
	return summaryJSON{AsOf: s.AsOf.String(), Stats: s.Stats, Insights: s.Insights}
}

// categoryTotalsJSON never encodes as null.
func categoryTotalsJSON(c core.CategoryTotals) core.CategoryTotals {
	if c == nil {
		return core.CategoryTotals{}
	}
	return c
}

type datasetJSON struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
}

type monthlyJSON struct {
	Year         int            `json:"year"`
	Labels       [12]string     `json:"labels"`
	Income       [12]core.Money `json:"income"`
	Expense      [12]core.Money `json:"expense"`
	TotalIncome  core.Money     `json:"totalIncome"`
	TotalExpense core.Money     `json:"totalExpense"`
	Datasets     []datasetJSON  `json:"datasets"`
}

func newMonthlyJSON(s core.MonthlySeries) monthlyJSON {
	return monthlyJSON{
		Year:         s.Year,
		Labels:       monthLabels,
		Income:       s.Income,
		Expense:      s.Expense,
		TotalIncome:  s.TotalIncome(),
		TotalExpense: s.TotalExpense(),
		Datasets: []datasetJSON{
			{Label: "Income", Data: floats(s.Income), BackgroundColor: colorIncome},
			{Label: "Expenses", Data: floats(s.Expense), BackgroundColor: colorExpense},
		},
	}
}

func floats(months [12]core.Money) []float64 {
	out := make([]float64, len(months))
	for i, m := range months {
		out[i] = m.Float()
	}
	return out
}

type dashboardJSON struct {
	summaryJSON
	Recent        []transactionJSON   `json:"recentTransactions"`
	TopCategories core.CategoryTotals `json:"topCategories"`
	Budgets       budgetOverviewJSON  `json:"budgetOverview"`
}

func newDashboardJSON(d services.Dashboard) dashboardJSON {
	return dashboardJSON{
		summaryJSON:   newSummaryJSON(d.Summary),
		Recent:        newTransactionsJSON(d.Recent),
		TopCategories: categoryTotalsJSON(d.TopCategories),
		Budgets:       newBudgetOverviewJSON(d.Budgets),
	}
}
