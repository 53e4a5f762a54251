package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"fintrack/internal/amqp"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/stats"
	"fintrack/internal/store"
)

const (
	recentCount        = 5
	topCategoriesCount = 5
)

// Summary is every derived view of one user's snapshot for one as-of day.
type Summary struct {
	AsOf       core.Date
	Stats      core.DerivedStats
	Insights   stats.Insights
	Categories core.CategoryTotals // first-appearance order
	Monthly    core.MonthlySeries
}

// Dashboard bundles the data shown on the landing page.
type Dashboard struct {
	Summary       Summary
	Recent        []core.Transaction
	TopCategories core.CategoryTotals
	Budgets       stats.BudgetOverview
}

// SummaryService computes derived state from the full transaction snapshot
// and caches it per user, as-of day and year until the user's next mutation.
type SummaryService struct {
	txs     store.TransactionStore
	budgets store.BudgetStore
	cache   cache.Cache[Summary]
	flight  singleflight.Group
	logger  *log.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

func NewSummaryService(txs store.TransactionStore, budgets store.BudgetStore, c cache.Cache[Summary], logger *log.Logger) *SummaryService {
	return &SummaryService{
		txs:         txs,
		budgets:     budgets,
		cache:       c,
		logger:      logger.WithComponent(log.ComponentSummary),
		generations: make(map[string]uint64),
	}
}

func summaryKey(userID string, asOf core.Date, year int) string {
	return userID + "|" + asOf.String() + "|" + strconv.Itoa(year)
}

func (s *SummaryService) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[userID]
}

// TransactionChanged drops every cached summary of the user. A computation
// already in flight for the old snapshot will not be cached.
func (s *SummaryService) TransactionChanged(ctx context.Context, userID, _ string, _ amqp.Op) {
	s.mu.Lock()
	s.generations[userID]++
	s.mu.Unlock()
	n := s.cache.DeletePrefix(userID + "|")
	s.logger.DebugContext(ctx, "Invalidated cached summaries", log.FieldUserID, userID, "entries", n)
}

// Summary returns the derived state as of asOf. A zero year selects the as-of year.
func (s *SummaryService) Summary(ctx context.Context, userID string, asOf time.Time, year int) (Summary, error) {
	day := core.DateOf(asOf)
	if year == 0 {
		year = day.Year()
	}
	key := summaryKey(userID, day, year)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	// Readers arriving after a mutation must not join a load of the older snapshot.
	gen := s.generation(userID)
	flightKey := key + "|" + strconv.FormatUint(gen, 10)
	v, err, _ := s.flight.Do(flightKey, func() (any, error) {
		txs, err := s.txs.ListTransactions(ctx, userID)
		if err != nil {
			return Summary{}, fmt.Errorf("list transactions: %w", err)
		}
		sum := computeSummary(txs, asOf, year)
		if s.generation(userID) == gen {
			s.cache.Set(key, sum)
		}
		return sum, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

func computeSummary(txs []core.Transaction, asOf time.Time, year int) Summary {
	derived := stats.ComputeDerivedStats(txs, asOf)
	return Summary{
		AsOf:       core.DateOf(asOf),
		Stats:      derived,
		Insights:   stats.ComputeInsights(derived),
		Categories: stats.ComputeCategoryTotals(txs),
		Monthly:    stats.ComputeMonthlySeries(txs, year),
	}
}

// BudgetOverview compares each budget with the current month's spending.
func (s *SummaryService) BudgetOverview(ctx context.Context, userID string, asOf time.Time) (stats.BudgetOverview, error) {
	var (
		txs     []core.Transaction
		budgets []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		txs, err = s.txs.ListTransactions(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = s.budgets.ListBudgets(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return stats.BudgetOverview{}, fmt.Errorf("load budget overview: %w", err)
	}
	return stats.ComputeBudgetOverview(budgets, txs, asOf), nil
}

// Dashboard loads the summary, the snapshot and the budgets concurrently.
func (s *SummaryService) Dashboard(ctx context.Context, userID string, asOf time.Time) (Dashboard, error) {
	var (
		summary Summary
		txs     []core.Transaction
		budgets []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary, err = s.Summary(gctx, userID, asOf, 0)
		return err
	})
	g.Go(func() (err error) {
		txs, err = s.txs.ListTransactions(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		budgets, err = s.budgets.ListBudgets(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}

	top := summary.Categories.Ranked()
	if len(top) > topCategoriesCount {
		top = top[:topCategoriesCount]
	}
	return Dashboard{
		Summary:       summary,
		Recent:        stats.Recent(txs, recentCount),
		TopCategories: top,
		Budgets:       stats.ComputeBudgetOverview(budgets, txs, asOf),
	}, nil
}
