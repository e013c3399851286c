// Package statement builds classified financial statements from the
// read-only transaction store: profit & loss, balance sheet / net worth,
// cash flow, sales analysis, and a combined report. Builders never fail
// hard: a store error yields a zero-valued result with Err set so callers
// can always render something.
package statement

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeethk/finsight/internal/classify"
	"github.com/jeethk/finsight/internal/database/repository"
	"github.com/jeethk/finsight/internal/money"
	"github.com/jeethk/finsight/internal/period"
)

const defaultTopN = 10

// Builder aggregates classified entries for a period into statements.
// It is stateless across requests and safe for concurrent use.
type Builder struct {
	Entries *repository.EntryRepo
	Ledgers *repository.LedgerRepo
	Stock   *repository.StockRepo

	Periods period.Resolver
	Company string
	Symbol  string
	TopN    int
	Timeout time.Duration
	Log     zerolog.Logger
}

// LineItem is the atomic aggregation unit across all statements.
type LineItem struct {
	Category     classify.Category
	Ledger       string
	VoucherType  string
	Amount       float64
	AmountFmt    string
	Transactions int
}

// Bucket collects line items of one category. Total covers every matched
// entry even when Items is trimmed to the top N.
type Bucket struct {
	Total    float64
	TotalFmt string
	Count    int
	Items    []LineItem
}

func (b *Bucket) add(item LineItem) {
	b.Total += item.Amount
	b.Count += item.Transactions
	b.Items = append(b.Items, item)
}

// Diagnostics lists entries no classification rule matched. They are
// excluded from totals but reported so rule-coverage gaps stay visible.
type Diagnostics struct {
	Count int
	Items []LineItem
}

func (b *Builder) topN() int {
	if b.TopN > 0 {
		return b.TopN
	}
	return defaultTopN
}

func (b *Builder) format(v float64) string {
	return money.Format(b.Symbol, v)
}

// queryCtx bounds one store read. A deadline hit surfaces as a store error
// and is absorbed like any other.
func (b *Builder) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.Timeout)
}

func (b *Builder) finishBucket(bucket *Bucket) {
	bucket.TotalFmt = b.format(bucket.Total)
	if len(bucket.Items) > b.topN() {
		bucket.Items = bucket.Items[:b.topN()]
	}
}

func trimLines[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
