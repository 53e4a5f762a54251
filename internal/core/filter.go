package core

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// DateRange limits a listing to records on or after a cutoff relative to today.
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeYear  DateRange = "year"
)

// SortOrder controls listing order.
type SortOrder string

const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortAmountDesc SortOrder = "amount-desc"
	SortAmountAsc  SortOrder = "amount-asc"
)

var (
	ErrInvalidRange = errors.New("invalid date range")
	ErrInvalidSort  = errors.New("invalid sort order")
)

// TransactionFilter narrows and orders a transaction snapshot.
// An empty Kind or Category means "all".
type TransactionFilter struct {
	Kind     Kind
	Category string
	Range    DateRange
	Sort     SortOrder
}

// DefaultFilter returns a filter that keeps everything, newest first.
func DefaultFilter() TransactionFilter {
	return TransactionFilter{Range: RangeAll, Sort: SortDateDesc}
}

func (f TransactionFilter) Validate() error {
	if f.Kind != "" {
		if err := f.Kind.Validate(); err != nil {
			return err
		}
	}
	switch f.Range {
	case "", RangeAll, RangeToday, RangeWeek, RangeMonth, RangeYear:
	default:
		return ErrInvalidRange
	}
	switch f.Sort {
	case "", SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
	default:
		return ErrInvalidSort
	}
	return nil
}

// cutoff returns the earliest date kept by the range, relative to asOf's day.
func (r DateRange) cutoff(asOf time.Time) (Date, bool) {
	today := DateOf(asOf).Time
	switch r {
	case RangeToday:
		return Date{Time: today}, true
	case RangeWeek:
		return Date{Time: today.AddDate(0, 0, -7)}, true
	case RangeMonth:
		return Date{Time: today.AddDate(0, -1, 0)}, true
	case RangeYear:
		return Date{Time: today.AddDate(-1, 0, 0)}, true
	default:
		return Date{}, false
	}
}

// Apply returns a new slice with the matching transactions in the requested order.
// The input is never modified.
func (f TransactionFilter) Apply(txs []Transaction, asOf time.Time) []Transaction {
	from, bounded := f.Range.cutoff(asOf)
	category := strings.TrimSpace(f.Category)

	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Kind != "" && t.Kind != f.Kind {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		if bounded && t.Date.Before(from.Time) {
			continue
		}
		out = append(out, t)
	}

	switch f.Sort {
	case SortDateAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	case SortAmountDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.Cents > out[j].Amount.Cents })
	case SortAmountAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.Cents < out[j].Amount.Cents })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	}
	return out
}
