package statement

import (
	"context"
	"sort"

	"github.com/jeethk/finsight/internal/classify"
	"github.com/jeethk/finsight/internal/money"
	"github.com/jeethk/finsight/internal/period"
)

// ProfitLoss is a classified income statement for one period.
type ProfitLoss struct {
	Company  string
	Period   string
	Range    period.Range
	Currency string

	Revenue           Bucket
	COGS              Bucket
	OperatingExpenses Bucket
	OtherIncome       Bucket
	OtherExpenses     Bucket

	GrossProfit     float64
	GrossProfitFmt  string
	GrossMargin     float64
	GrossMarginFmt  string
	OperatingProfit float64
	OperatingFmt    string
	NetProfit       float64
	NetProfitFmt    string
	NetMargin       float64
	NetMarginFmt    string

	TotalTransactions int
	Unclassified      Diagnostics

	Err string
}

// ProfitLoss builds the income statement for the period expression.
// Margins divide by max(revenue, 1) so a zero-revenue period still
// produces finite percentages.
func (b *Builder) ProfitLoss(ctx context.Context, expr string) (ProfitLoss, error) {
	rng := b.Periods.Resolve(expr)
	pl := ProfitLoss{
		Company:  b.Company,
		Period:   rng.Description,
		Range:    rng,
		Currency: b.Symbol,
	}

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	groups, err := b.Entries.GroupedInRange(qctx, rng.Start, rng.End)
	if err != nil {
		b.Log.Warn().Err(err).Str("period", rng.Description).Msg("profit and loss query failed")
		pl.Err = err.Error()
		return pl, err
	}

	for _, g := range groups {
		cat := classify.ProfitLoss(g.VoucherType, g.Ledger, g.Parent)
		item := LineItem{
			Category:     cat,
			Ledger:       g.Ledger,
			VoucherType:  g.VoucherType,
			Amount:       g.Total,
			AmountFmt:    b.format(g.Total),
			Transactions: g.Count,
		}
		if cat == classify.Unclassified {
			pl.Unclassified.Count += g.Count
			pl.Unclassified.Items = append(pl.Unclassified.Items, item)
			continue
		}
		if g.Total <= 0 {
			continue
		}
		pl.TotalTransactions += g.Count
		switch cat {
		case classify.Revenue:
			pl.Revenue.add(item)
		case classify.COGS:
			pl.COGS.add(item)
		case classify.OperatingExpense:
			pl.OperatingExpenses.add(item)
		case classify.OtherIncome:
			pl.OtherIncome.add(item)
		case classify.OtherExpense:
			pl.OtherExpenses.add(item)
		}
	}

	for _, bucket := range []*Bucket{
		&pl.Revenue, &pl.COGS, &pl.OperatingExpenses, &pl.OtherIncome, &pl.OtherExpenses,
	} {
		sort.SliceStable(bucket.Items, func(i, j int) bool {
			return bucket.Items[i].Amount > bucket.Items[j].Amount
		})
		b.finishBucket(bucket)
	}

	floor := pl.Revenue.Total
	if floor < 1 {
		floor = 1
	}
	pl.GrossProfit = pl.Revenue.Total - pl.COGS.Total
	pl.GrossMargin = pl.GrossProfit / floor * 100
	pl.OperatingProfit = pl.GrossProfit - pl.OperatingExpenses.Total
	pl.NetProfit = pl.OperatingProfit + pl.OtherIncome.Total - pl.OtherExpenses.Total
	pl.NetMargin = pl.NetProfit / floor * 100

	pl.GrossProfitFmt = b.format(pl.GrossProfit)
	pl.GrossMarginFmt = money.Percent(pl.GrossMargin)
	pl.OperatingFmt = b.format(pl.OperatingProfit)
	pl.NetProfitFmt = b.format(pl.NetProfit)
	pl.NetMarginFmt = money.Percent(pl.NetMargin)

	b.Log.Debug().
		Str("period", rng.Description).
		Float64("revenue", pl.Revenue.Total).
		Float64("net_profit", pl.NetProfit).
		Int("transactions", pl.TotalTransactions).
		Msg("profit and loss built")
	return pl, nil
}
