package statement

import (
	"context"

	"github.com/jeethk/finsight/internal/classify"
	"github.com/jeethk/finsight/internal/period"
)

// SalesLine is one selling ledger's positive turnover inside the period.
type SalesLine struct {
	Ledger       string
	Category     string
	Amount       float64
	AmountFmt    string
	Transactions int
}

// Sales breaks positive turnover down by product category. Categories are
// inferred from ledger names, which is as granular as the store gets
// without item-level invoices.
type Sales struct {
	Period string
	Range  period.Range

	Mobile         float64
	MobileFmt      string
	Accessories    float64
	AccessoriesFmt string
	Other          float64
	OtherFmt       string
	Total          float64
	TotalFmt       string

	Lines             []SalesLine
	TotalTransactions int
	Found             bool

	Err string
}

// Sales aggregates positive entries on selling ledgers by category.
func (b *Builder) Sales(ctx context.Context, expr string) (Sales, error) {
	rng := b.Periods.Resolve(expr)
	s := Sales{Period: rng.Description, Range: rng}

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	groups, err := b.Entries.PositiveGroupedInRange(qctx, rng.Start, rng.End)
	if err != nil {
		b.Log.Warn().Err(err).Str("period", rng.Description).Msg("sales query failed")
		s.Err = err.Error()
		return s, err
	}

	for _, g := range groups {
		cat := classify.SalesCategory(g.Ledger)
		s.Total += g.Total
		s.TotalTransactions += g.Count
		switch cat {
		case "Mobile":
			s.Mobile += g.Total
		case "Accessories":
			s.Accessories += g.Total
		default:
			s.Other += g.Total
		}
		s.Lines = append(s.Lines, SalesLine{
			Ledger:       g.Ledger,
			Category:     cat,
			Amount:       g.Total,
			AmountFmt:    b.format(g.Total),
			Transactions: g.Count,
		})
	}

	s.Found = s.Total > 0
	s.MobileFmt = b.format(s.Mobile)
	s.AccessoriesFmt = b.format(s.Accessories)
	s.OtherFmt = b.format(s.Other)
	s.TotalFmt = b.format(s.Total)
	s.Lines = trimLines(s.Lines, b.topN())
	return s, nil
}
