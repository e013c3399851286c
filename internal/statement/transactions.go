package statement

import (
	"context"
	"time"
)

// TransactionLine is one raw accounting entry as booked.
type TransactionLine struct {
	Date        time.Time
	VoucherType string
	Ledger      string
	Amount      float64
	AmountFmt   string
}

// Transactions lists the newest raw entries inside a period, most recent
// first, capped at limit. A non-positive limit falls back to the builder's
// top-N setting.
func (b *Builder) Transactions(ctx context.Context, expr string, limit int) ([]TransactionLine, error) {
	rng := b.Periods.Resolve(expr)

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	entries, err := b.Entries.InRange(qctx, rng.Start, rng.End)
	if err != nil {
		b.Log.Warn().Err(err).Str("period", rng.Description).Msg("entry listing failed")
		return nil, err
	}

	if limit <= 0 {
		limit = b.topN()
	}
	entries = trimLines(entries, limit)

	out := make([]TransactionLine, 0, len(entries))
	for _, e := range entries {
		out = append(out, TransactionLine{
			Date:        e.Date,
			VoucherType: e.VoucherType,
			Ledger:      e.Ledger,
			Amount:      e.Amount,
			AmountFmt:   b.format(e.Amount),
		})
	}
	return out, nil
}
