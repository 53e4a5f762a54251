package worker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/stats"
	"fintrack/internal/store"
)

// SummaryWriter receives one year of derived state.
type SummaryWriter interface {
	WriteYearSummary(ctx context.Context, series core.MonthlySeries, totals core.CategoryTotals) error
}

// SnapshotWorker recomputes a user's yearly summaries after each change event
// and hands them to a SummaryWriter.
type SnapshotWorker struct {
	store  store.TransactionStore
	writer SummaryWriter
	userID string
	logger *log.Logger
	now    func() time.Time

	// maxParallelWrites bounds concurrent tab writes against the Sheets quota.
	maxParallelWrites int
}

// NewSnapshotWorker mirrors only userID's snapshot; events for other users are acknowledged and skipped.
func NewSnapshotWorker(s store.TransactionStore, writer SummaryWriter, userID string, logger *log.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		store:             s,
		writer:            writer,
		userID:            userID,
		logger:            logger.WithComponent(log.ComponentWorker),
		now:               time.Now,
		maxParallelWrites: 2,
	}
}

// HandleTransactionChanged is an amqp.Handler. Returning an error requeues the event.
func (w *SnapshotWorker) HandleTransactionChanged(ctx context.Context, msg *amqp.TransactionChangedMessage) error {
	if msg.UserID != w.userID {
		w.logger.DebugContext(ctx, "Skipping change event for unmirrored user", log.FieldUserID, msg.UserID)
		return nil
	}

	w.logger.InfoContext(ctx, "Processing change event",
		log.FieldUserID, msg.UserID,
		log.FieldTransactionID, msg.TransactionID,
		log.FieldOperation, string(msg.Op))

	return w.Mirror(ctx)
}

// Mirror writes a summary for every year present in the snapshot plus the
// current year. A delete can empty a year, which is then written as zeros.
func (w *SnapshotWorker) Mirror(ctx context.Context) error {
	txs, err := w.store.ListTransactions(ctx, w.userID)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	years := yearsOf(txs, w.now().Year())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxParallelWrites)
	for _, year := range years {
		g.Go(func() error {
			series := stats.ComputeMonthlySeries(txs, year)
			totals := stats.ComputeCategoryTotals(inYear(txs, year))
			if err := w.writer.WriteYearSummary(gctx, series, totals); err != nil {
				return fmt.Errorf("write %d summary: %w", year, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w.logger.InfoContext(ctx, "Mirrored yearly summaries",
		log.FieldUserID, w.userID,
		"years", len(years),
		"transactions", len(txs))
	return nil
}

func yearsOf(txs []core.Transaction, current int) []int {
	seen := map[int]bool{current: true}
	for _, t := range txs {
		seen[t.Date.Year()] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func inYear(txs []core.Transaction, year int) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if t.Date.Year() == year {
			out = append(out, t)
		}
	}
	return out
}
