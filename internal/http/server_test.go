package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store/memory"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("database is locked") }

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	logger := log.New(log.Config{Output: io.Discard})
	st := memory.New()
	issuer := auth.NewIssuer("test-secret-0123456789", time.Hour)

	summary := services.NewSummaryService(st, st, cache.NewLRUCache[services.Summary](16, time.Minute), logger)
	svc := Services{
		Auth:         services.NewAuthService(st, auth.NewHasher(4), issuer, logger),
		Transactions: services.NewTransactionService(st, logger, summary),
		Categories:   services.NewCategoryService(st),
		Budgets:      services.NewBudgetService(st),
		Summary:      summary,
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 1000
	}
	srv := NewServer(opts, svc, issuer, st, logger)
	srv.now = func() time.Time { return testNow }
	t.Cleanup(srv.limiter.Stop)
	return srv
}

func do(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rr.Body.String(), err)
	}
	return v
}

func expectMessage(t *testing.T, rr *httptest.ResponseRecorder, code int, msg string) {
	t.Helper()
	if rr.Code != code {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, code, rr.Body.String())
	}
	if got := decode[MessageBody](t, rr).Message; got != msg {
		t.Fatalf("message = %q, want %q", got, msg)
	}
}

func register(t *testing.T, srv *Server, name, email string) string {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/auth/register", "", registerRequest{Name: name, Email: email, Password: "secret123"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rr.Code, rr.Body.String())
	}
	return decode[sessionJSON](t, rr).Token
}

func createTx(t *testing.T, srv *Server, token string, body map[string]any) transactionJSON {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/transactions", token, body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	return decode[transactionJSON](t, rr)
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusOK || decode[map[string]any](t, rr)["status"] != "ok" {
		t.Fatalf("healthz = %d %s", rr.Code, rr.Body.String())
	}
	rr = do(t, srv, http.MethodGet, "/readyz", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("readyz = %d %s", rr.Code, rr.Body.String())
	}

	srv.pinger = failingPinger{}
	rr = do(t, srv, http.MethodGet, "/readyz", "", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz with failing store = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "database is locked") {
		t.Errorf("readyz body = %s", rr.Body.String())
	}
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, http.MethodPost, "/api/auth/register", "", registerRequest{Name: "Ada", Email: "Ada@Example.com", Password: "secret123"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rr.Code, rr.Body.String())
	}
	session := decode[sessionJSON](t, rr)
	if session.Token == "" || session.User.ID == "" || session.User.Email != "ada@example.com" {
		t.Fatalf("session = %+v", session)
	}

	rr = do(t, srv, http.MethodPost, "/api/auth/register", "", registerRequest{Name: "Ada", Email: "ada@example.com", Password: "secret123"})
	expectMessage(t, rr, http.StatusBadRequest, "User already exists")

	rr = do(t, srv, http.MethodPost, "/api/auth/register", "", registerRequest{Name: "Bob", Email: "bob@example.com", Password: "123"})
	expectMessage(t, rr, http.StatusBadRequest, "Password must be at least 6 characters")

	rr = do(t, srv, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	expectMessage(t, rr, http.StatusUnauthorized, "Invalid credentials")

	rr = do(t, srv, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "nobody@example.com", Password: "secret123"})
	expectMessage(t, rr, http.StatusUnauthorized, "Invalid credentials")

	rr = do(t, srv, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "ada@example.com", Password: "secret123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login status = %d", rr.Code)
	}
	token := decode[sessionJSON](t, rr).Token

	rr = do(t, srv, http.MethodGet, "/api/auth/user", token, nil)
	if u := decode[userJSON](t, rr); rr.Code != http.StatusOK || u.Name != "Ada" {
		t.Fatalf("get user = %d %+v", rr.Code, u)
	}

	rr = do(t, srv, http.MethodPut, "/api/auth/user", token, profileRequest{Name: "Ada L.", Email: "ada@example.org"})
	if u := decode[userJSON](t, rr); rr.Code != http.StatusOK || u.Name != "Ada L." || u.Email != "ada@example.org" {
		t.Fatalf("update user = %d %+v", rr.Code, u)
	}

	rr = do(t, srv, http.MethodPut, "/api/auth/password", token, passwordRequest{CurrentPassword: "nope-nope", NewPassword: "another1"})
	expectMessage(t, rr, http.StatusUnauthorized, "Current password is incorrect")

	rr = do(t, srv, http.MethodPut, "/api/auth/password", token, passwordRequest{CurrentPassword: "secret123", NewPassword: "another1"})
	expectMessage(t, rr, http.StatusOK, "Password updated successfully")

	rr = do(t, srv, http.MethodPost, "/api/auth/login", "", loginRequest{Email: "ada@example.org", Password: "another1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("login with new password = %d", rr.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, Options{})
	paths := []string{"/api/transactions", "/api/categories", "/api/budgets", "/api/stats/summary", "/api/dashboard", "/api/export/csv"}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			expectMessage(t, do(t, srv, http.MethodGet, p, "", nil), http.StatusUnauthorized, "Authentication required")
			expectMessage(t, do(t, srv, http.MethodGet, p, "not-a-token", nil), http.StatusUnauthorized, "Authentication required")
		})
	}
}

func TestTransactionCRUD(t *testing.T) {
	srv := newTestServer(t, Options{})
	token := register(t, srv, "Ada", "ada@example.com")

	created := createTx(t, srv, token, map[string]any{
		"description": "Groceries", "amount": 42.5, "type": "expense",
		"category": "Food", "date": "2024-03-10", "notes": "weekly",
	})
	if created.ID == "" || created.Amount.Cents != 4250 || created.Date != "2024-03-10" {
		t.Fatalf("created = %+v", created)
	}
	createTx(t, srv, token, map[string]any{
		"description": "Salary", "amount": "1000", "type": "income", "category": "Salary", "date": "2024-03-01",
	})

	rr := do(t, srv, http.MethodGet, "/api/transactions?type=expense", token, nil)
	list := decode[[]transactionJSON](t, rr)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("filtered list = %+v", list)
	}
	rr = do(t, srv, http.MethodGet, "/api/transactions?sort=amount-desc", token, nil)
	if list = decode[[]transactionJSON](t, rr); len(list) != 2 || list[0].Description != "Salary" {
		t.Fatalf("sorted list = %+v", list)
	}
	rr = do(t, srv, http.MethodGet, "/api/transactions?range=century", token, nil)
	expectMessage(t, rr, http.StatusBadRequest, "Invalid date range")

	update := map[string]any{
		"description": "Groceries", "amount": "55.10", "type": "expense",
		"category": "Food", "date": "2024-03-11",
	}
	rr = do(t, srv, http.MethodPut, "/api/transactions/"+created.ID, token, update)
	if got := decode[transactionJSON](t, rr); rr.Code != http.StatusOK || got.Amount.Cents != 5510 || got.Notes != "" {
		t.Fatalf("update = %d %+v", rr.Code, got)
	}
	rr = do(t, srv, http.MethodPut, "/api/transactions/missing", token, update)
	expectMessage(t, rr, http.StatusNotFound, "Transaction not found")

	rr = do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, token, nil)
	expectMessage(t, rr, http.StatusOK, "Transaction deleted successfully")
	rr = do(t, srv, http.MethodDelete, "/api/transactions/"+created.ID, token, nil)
	expectMessage(t, rr, http.StatusNotFound, "Transaction not found")
}

func TestTransactionValidation(t *testing.T) {
	srv := newTestServer(t, Options{})
	token := register(t, srv, "Ada", "ada@example.com")
	valid := func() map[string]any {
		return map[string]any{"description": "Lunch", "amount": "12", "type": "expense", "category": "Food", "date": "2024-03-10"}
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   string
	}{
		{"empty description", func(m map[string]any) { m["description"] = "  " }, "Empty description"},
		{"negative amount", func(m map[string]any) { m["amount"] = -3 }, "Invalid amount"},
		{"missing amount", func(m map[string]any) { delete(m, "amount") }, "Invalid amount"},
		{"bad type", func(m map[string]any) { m["type"] = "transfer" }, "Type must be income or expense"},
		{"empty category", func(m map[string]any) { m["category"] = "" }, "Empty category"},
		{"bad date", func(m map[string]any) { m["date"] = "10/03/2024" }, "Invalid date"},
		{"long notes", func(m map[string]any) { m["notes"] = strings.Repeat("n", 1001) }, "Notes too long (max 1000 characters)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			tt.mutate(body)
			expectMessage(t, do(t, srv, http.MethodPost, "/api/transactions", token, body), http.StatusBadRequest, tt.want)
		})
	}

	rr := do(t, srv, http.MethodGet, "/api/transactions", token, nil)
	if list := decode[[]transactionJSON](t, rr); len(list) != 0 {
		t.Fatalf("rejected transactions were stored: %+v", list)
	}
}

func TestTransactionsAreIsolatedPerUser(t *testing.T) {
	srv := newTestServer(t, Options{})
	ada := register(t, srv, "Ada", "ada@example.com")
	bob := register(t, srv, "Bob", "bob@example.com")

	tx := createTx(t, srv, ada, map[string]any{
		"description": "Rent", "amount": "900", "type": "expense", "category": "Housing", "date": "2024-03-01",
	})

	rr := do(t, srv, http.MethodGet, "/api/transactions", bob, nil)
	if list := decode[[]transactionJSON](t, rr); len(list) != 0 {
		t.Fatalf("bob sees %+v", list)
	}
	expectMessage(t, do(t, srv, http.MethodDelete, "/api/transactions/"+tx.ID, bob, nil), http.StatusNotFound, "Transaction not found")
}

func TestSummaryFollowsMutations(t *testing.T) {
	srv := newTestServer(t, Options{})
	token := register(t, srv, "Ada", "ada@example.com")

	type summaryBody struct {
		AsOf     string             `json:"asOf"`
		Stats    map[string]float64 `json:"stats"`
		Insights map[string]any     `json:"insights"`
	}
	summary := func() summaryBody {
		rr := do(t, srv, http.MethodGet, "/api/stats/summary?asOf=2024-03-15", token, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("summary status = %d", rr.Code)
		}
		return decode[summaryBody](t, rr)
	}

	if s := summary(); s.Stats["balance"] != 0 || s.AsOf != "2024-03-15" || s.Insights == nil {
		t.Fatalf("empty summary = %+v", s)
	} else if rate, ok := s.Insights["savingsRate"]; !ok || rate != nil {
		t.Fatalf("savingsRate without income = %v (present %v), want null", rate, ok)
	}

	createTx(t, srv, token, map[string]any{"description": "Salary", "amount": "1000", "type": "income", "category": "Salary", "date": "2024-03-01"})
	expense := createTx(t, srv, token, map[string]any{"description": "Groceries", "amount": "42.50", "type": "expense", "category": "Food", "date": "2024-03-10"})
	createTx(t, srv, token, map[string]any{"description": "Old", "amount": "10", "type": "expense", "category": "Food", "date": "2024-01-10"})

	s := summary()
	if s.Stats["totalIncome"] != 1000 || s.Stats["totalExpenses"] != 52.5 || s.Stats["balance"] != 947.5 {
		t.Fatalf("totals = %+v", s.Stats)
	}
	if s.Stats["monthlyIncome"] != 1000 || s.Stats["monthlyExpenses"] != 42.5 {
		t.Fatalf("monthly = %+v", s.Stats)
	}
	if s.Insights["savingsRate"] != 95.0 || s.Insights["averageMonthlyExpense"] != 4.38 {
		t.Fatalf("analytics insights = %+v", s.Insights)
	}

	do(t, srv, http.MethodDelete, "/api/transactions/"+expense.ID, token, nil)
	if s := summary(); s.Stats["totalExpenses"] != 10 || s.Stats["monthlyExpenses"] != 0 {
		t.Fatalf("after delete = %+v", s.Stats)
	}

	rr := do(t, srv, http.MethodGet, "/api/stats/summary?asOf=soon", token, nil)
	expectMessage(t, rr, http.StatusBadRequest, "AsOf must be a YYYY-MM-DD date")
}

func TestStatsEndpoints(t *testing.T) {
	srv := newTestServer(t, Options{})
	token := register(t, srv, "Ada", "ada@example.com")
	for _, body := range []map[string]any{
		{"description": "Salary", "amount": "2000", "type": "income", "category": "Salary", "date": "2024-02-01"},
		{"description": "Cinema", "amount": "20", "type": "expense", "category": "Fun", "date": "2024-02-03"},
		{"description": "Rent", "amount": "800", "type": "expense", "category": "Housing", "date": "2024-03-01"},
		{"description": "Pizza", "amount": "15", "type": "expense", "category": "Fun", "date": "2023-12-30"},
	} {
		createTx(t, srv, token, body)
	}

	rr := do(t, srv, http.MethodGet, "/api/stats/categories", token, nil)
	cats := decode[struct {
		Categories []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
		} `json:"categories"`
		Total float64 `json:"total"`
	}](t, rr)
	if len(cats.Categories) != 2 || cats.Categories[0].Name != "Housing" || cats.Categories[1].Amount != 35 || cats.Total != 835 {
		t.Fatalf("categories = %+v", cats)
	}

	rr = do(t, srv, http.MethodGet, "/api/stats/monthly", token, nil)
	monthly := decode[struct {
		Year     int           `json:"year"`
		Labels   []string      `json:"labels"`
		Datasets []datasetJSON `json:"datasets"`
	}](t, rr)
	if monthly.Year != 2024 || len(monthly.Labels) != 12 || monthly.Labels[0] != "Jan" {
		t.Fatalf("monthly = %+v", monthly)
	}
	if len(monthly.Datasets) != 2 || monthly.Datasets[0].BackgroundColor != colorIncome || monthly.Datasets[1].BackgroundColor != colorExpense {
		t.Fatalf("datasets = %+v", monthly.Datasets)
	}
	if monthly.Datasets[0].Data[1] != 2000 || monthly.Datasets[1].Data[1] != 20 || monthly.Datasets[1].Data[2] != 800 {
		t.Fatalf("dataset values = %+v", monthly.Datasets)
	}

	rr = do(t, srv, http.MethodGet, "/api/stats/monthly?year=2023", token, nil)
	m := decode[struct {
		Expense     []float64 `json:"expense"`
		TotalIncome float64   `json:"totalIncome"`
	}](t, rr)
	if m.Expense[11] != 15 || m.TotalIncome != 0 {
		t.Fatalf("2023 series = %+v", m)
	}
	expectMessage(t, do(t, srv, http.MethodGet, "/api/stats/monthly?year=last", token, nil), http.StatusBadRequest, "Invalid year")
}

func TestCategoriesAndBudgets(t *testing.T) {
	srv := newTestServer(t, Options{})
	token := register(t, srv, "Ada", "ada@example.com")

	rr := do(t, srv, http.MethodPost, "/api/categories", token, categoryRequest{Name: "Food", Type: "expense"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create category = %d", rr.Code)
	}
	expectMessage(t, do(t, srv, http.MethodPost, "/api/categories", token, categoryRequest{Name: "Food", Type: "expense"}),
		http.StatusBadRequest, "Category already exists")
	if rr := do(t, srv, http.MethodPost, "/api/categories", token, categoryRequest{Name: "Food", Type: "income"}); rr.Code != http.StatusCreated {
		t.Fatalf("same name, other kind = %d", rr.Code)
	}
	expectMessage(t, do(t, srv, http.MethodPost, "/api/categories", token, categoryRequest{Name: "Gifts", Type: "other"}),
		http.StatusBadRequest, "Type must be income or expense")
	rr = do(t, srv, http.MethodGet, "/api/categories", token, nil)
	if cats := decode[[]categoryJSON](t, rr); len(cats) != 2 {
		t.Fatalf("categories = %+v", cats)
	}

	rr = do(t, srv, http.MethodPost, "/api/budgets", token, map[string]any{"category": "Food", "amount": 50})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create budget = %d %s", rr.Code, rr.Body.String())
	}
	budget := decode[budgetJSON](t, rr)
	expectMessage(t, do(t, srv, http.MethodPost, "/api/budgets", token, map[string]any{"category": "Food", "amount": 60}),
		http.StatusBadRequest, "Budget already exists for this category")

	createTx(t, srv, token, map[string]any{"description": "Groceries", "amount": "42.50", "type": "expense", "category": "Food", "date": "2024-03-10"})

	type overviewBody struct {
		Budgets []struct {
			Spent   float64 `json:"spent"`
			Percent float64 `json:"percent"`
			Status  string  `json:"status"`
		} `json:"budgets"`
		TotalSpent  float64 `json:"totalSpent"`
		TotalStatus string  `json:"totalStatus"`
	}
	rr = do(t, srv, http.MethodGet, "/api/budgets/overview", token, nil)
	ov := decode[overviewBody](t, rr)
	if len(ov.Budgets) != 1 || ov.Budgets[0].Spent != 42.5 || ov.Budgets[0].Percent != 85 || ov.Budgets[0].Status != "warning" {
		t.Fatalf("overview = %+v", ov)
	}
	rr = do(t, srv, http.MethodGet, "/api/budgets/overview?asOf=2024-04-01", token, nil)
	if ov := decode[overviewBody](t, rr); ov.TotalSpent != 0 || ov.TotalStatus != "good" {
		t.Fatalf("april overview = %+v", ov)
	}

	rr = do(t, srv, http.MethodPut, "/api/budgets/"+budget.ID, token, map[string]any{"category": "Food", "amount": "40"})
	if b := decode[budgetJSON](t, rr); rr.Code != http.StatusOK || b.Amount.Cents != 4000 {
		t.Fatalf("update budget = %d %+v", rr.Code, b)
	}
	expectMessage(t, do(t, srv, http.MethodDelete, "/api/budgets/"+budget.ID, token, nil), http.StatusOK, "Budget deleted successfully")
	expectMessage(t, do(t, srv, http.MethodDelete, "/api/budgets/"+budget.ID, token, nil), http.StatusNotFound, "Budget not found")
}

func TestDashboard(t *testing.T) {
	srv := newTestServer(t, Options{})
	token := register(t, srv, "Ada", "ada@example.com")
	for day := 1; day <= 7; day++ {
		createTx(t, srv, token, map[string]any{
			"description": "Coffee", "amount": "3", "type": "expense", "category": "Cafe",
			"date": time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		})
	}

	rr := do(t, srv, http.MethodGet, "/api/dashboard?asOf=2024-03-15", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard = %d", rr.Code)
	}
	d := decode[struct {
		Stats  map[string]float64 `json:"stats"`
		Recent []transactionJSON  `json:"recentTransactions"`
		Top    []map[string]any   `json:"topCategories"`
		Budget map[string]any     `json:"budgetOverview"`
	}](t, rr)
	if len(d.Recent) != 5 || d.Recent[0].Date != "2024-03-07" {
		t.Fatalf("recent = %+v", d.Recent)
	}
	if d.Stats["monthlyExpenses"] != 21 || len(d.Top) != 1 || d.Budget["budgets"] == nil {
		t.Fatalf("dashboard = %+v", d)
	}
}

func TestExports(t *testing.T) {
	srv := newTestServer(t, Options{})
	token := register(t, srv, "Ada", "ada@example.com")
	createTx(t, srv, token, map[string]any{"description": "=SUM(A1)", "amount": "9.99", "type": "expense", "category": "Misc", "date": "2024-03-02"})

	rr := do(t, srv, http.MethodGet, "/api/export/csv", token, nil)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != export.ContentTypeCSV {
		t.Fatalf("csv = %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if got := rr.Header().Get("Content-Disposition"); got != `attachment; filename="transactions_20240315.csv"` {
		t.Errorf("Content-Disposition = %q", got)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "\ufeffDate,Description") || !strings.Contains(body, "'=SUM(A1)") || !strings.Contains(body, "9.99") {
		t.Errorf("csv body = %q", body)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/export/xlsx?token="+token, nil)
	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != export.ContentTypeXLSX {
		t.Fatalf("xlsx = %d %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")) {
		t.Error("xlsx body is not a zip archive")
	}
}

func TestMiddlewareChain(t *testing.T) {
	srv := newTestServer(t, Options{CORSOrigins: []string{"http://localhost:5173"}})

	rr := do(t, srv, http.MethodGet, "/healthz", "", nil)
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" || rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("security headers missing: %v", rr.Header())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("request id not echoed")
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/transactions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent || rr.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("preflight = %d %v", rr.Code, rr.Header())
	}

	token := register(t, srv, "Ada", "ada@example.com")
	rr = do(t, srv, http.MethodGet, "/api/transactions", token, nil)
	if rr.Header().Get("Cache-Control") == "" {
		t.Error("API responses must not be cached")
	}

	expectMessage(t, do(t, srv, http.MethodGet, "/api/unknown", "", nil), http.StatusNotFound, "Not found")
}

func TestRateLimit(t *testing.T) {
	srv := newTestServer(t, Options{RateLimit: 2})
	for i := 0; i < 2; i++ {
		if rr := do(t, srv, http.MethodGet, "/healthz", "", nil); rr.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodGet, "/healthz", "", nil)
	expectMessage(t, rr, http.StatusTooManyRequests, "Too many requests")
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}
	if m := srv.Metrics(); m.Requests.TotalRequests != 3 {
		t.Errorf("TotalRequests = %d, want 3", m.Requests.TotalRequests)
	}
}
