package statement

import (
	"context"
	"math"
	"sort"
)

// CashBalance is a snapshot of liquid funds across cash and bank ledgers.
type CashBalance struct {
	Total    float64
	TotalFmt string
	Accounts []BalanceLine

	Position       string
	PrimaryAccount string
	Concentration  float64

	Err string
}

// Position thresholds for liquid funds, in store currency units.
const (
	strongCashFloor   = 1_000_000
	moderateCashFloor = 100_000
)

// CashBalance sums balances of ledgers that look like cash or bank
// accounts and grades the liquidity position.
func (b *Builder) CashBalance(ctx context.Context) (CashBalance, error) {
	cb := CashBalance{}

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	balances, err := b.Ledgers.BalancesMatching(qctx, "CASH", "BANK")
	if err != nil {
		b.Log.Warn().Err(err).Msg("cash balance query failed")
		cb.Err = err.Error()
		return cb, err
	}

	for _, lb := range balances {
		cb.Total += lb.OpeningBalance
		cb.Accounts = append(cb.Accounts, BalanceLine{
			Name:      lb.Name,
			Parent:    lb.Parent,
			Amount:    lb.OpeningBalance,
			AmountFmt: b.format(lb.OpeningBalance),
		})
	}
	sort.SliceStable(cb.Accounts, func(i, j int) bool {
		return math.Abs(cb.Accounts[i].Amount) > math.Abs(cb.Accounts[j].Amount)
	})

	cb.TotalFmt = b.format(cb.Total)
	switch {
	case cb.Total >= strongCashFloor:
		cb.Position = "Strong"
	case cb.Total >= moderateCashFloor:
		cb.Position = "Moderate"
	default:
		cb.Position = "Weak"
	}
	if len(cb.Accounts) > 0 {
		cb.PrimaryAccount = cb.Accounts[0].Name
		if cb.Total != 0 {
			cb.Concentration = math.Abs(cb.Accounts[0].Amount) / math.Abs(cb.Total) * 100
		}
	}
	return cb, nil
}

// Outstanding summarises receivable and payable party balances. With no
// party filter it falls back to ledger-name patterns that identify trade
// parties in this store.
type Outstanding struct {
	Query string

	Receivables BalanceBucket
	Payables    BalanceBucket

	NetPosition    float64
	NetPositionFmt string

	Err string
}

var defaultPartyTerms = []string{"SUNDRY", "CUSTOMER", "MOBILES", "CELL", "COMMUNICATION"}

// Outstanding splits matching party balances by sign: positive balances
// are money owed to the business, negative balances money it owes.
func (b *Builder) Outstanding(ctx context.Context, party string) (Outstanding, error) {
	out := Outstanding{Query: party}
	terms := defaultPartyTerms
	if party != "" {
		terms = []string{party}
	}

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	balances, err := b.Ledgers.BalancesMatching(qctx, terms...)
	if err != nil {
		b.Log.Warn().Err(err).Str("party", party).Msg("outstanding query failed")
		out.Err = err.Error()
		return out, err
	}

	for _, lb := range balances {
		line := BalanceLine{
			Name:      lb.Name,
			Parent:    lb.Parent,
			Amount:    math.Abs(lb.OpeningBalance),
			AmountFmt: b.format(math.Abs(lb.OpeningBalance)),
		}
		if lb.OpeningBalance > 0 {
			out.Receivables.add(line)
		} else if lb.OpeningBalance < 0 {
			out.Payables.add(line)
		}
	}

	for _, bucket := range []*BalanceBucket{&out.Receivables, &out.Payables} {
		sort.SliceStable(bucket.Items, func(i, j int) bool {
			return bucket.Items[i].Amount > bucket.Items[j].Amount
		})
		bucket.TotalFmt = b.format(bucket.Total)
		bucket.Items = trimLines(bucket.Items, b.topN())
	}

	out.NetPosition = out.Receivables.Total - out.Payables.Total
	out.NetPositionFmt = b.format(out.NetPosition)
	return out, nil
}
