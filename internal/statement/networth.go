package statement

import (
	"context"
	"math"
	"sort"

	"github.com/jeethk/finsight/internal/classify"
)

// BalanceLine is one classified ledger balance.
type BalanceLine struct {
	Name      string
	Parent    string
	Kind      string
	Amount    float64
	AmountFmt string
}

// BalanceBucket collects classified ledger balances of one side.
type BalanceBucket struct {
	Total    float64
	TotalFmt string
	Count    int
	Items    []BalanceLine
}

func (b *BalanceBucket) add(line BalanceLine) {
	b.Total += line.Amount
	b.Count++
	b.Items = append(b.Items, line)
}

// NetWorth is a point-in-time balance sheet built from ledger opening
// balances. Balances are a snapshot of the store, so no period applies.
type NetWorth struct {
	Company string

	Assets      BalanceBucket
	Liabilities BalanceBucket
	Capital     BalanceBucket

	NetWorth     float64
	NetWorthFmt  string
	Solvent      bool
	Health       string
	Unclassified Diagnostics

	Err string
}

const (
	healthPositive  = "Positive Net Worth"
	healthAttention = "Needs Attention - Liabilities Meet or Exceed Assets"
)

// NetWorth classifies every non-zero ledger balance into assets,
// liabilities, and capital. Ledgers that look like assets but carry a
// negative balance are folded into assets at their magnitude rather than
// treated as liabilities; Tally exports frequently carry asset ledgers
// with inverted signs and reclassifying them understates both sides.
func (b *Builder) NetWorth(ctx context.Context) (NetWorth, error) {
	nw := NetWorth{Company: b.Company}

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	balances, err := b.Ledgers.NonZeroBalances(qctx)
	if err != nil {
		b.Log.Warn().Err(err).Msg("net worth query failed")
		nw.Err = err.Error()
		return nw, err
	}

	for _, lb := range balances {
		bc := classify.BalanceSheet(lb.Name, lb.Parent, lb.OpeningBalance)
		line := BalanceLine{
			Name:   lb.Name,
			Parent: lb.Parent,
			Kind:   bc.AssetKind,
			Amount: lb.OpeningBalance,
		}
		switch bc.Category {
		case classify.Asset:
			line.Amount = math.Abs(lb.OpeningBalance)
			line.AmountFmt = b.format(line.Amount)
			nw.Assets.add(line)
		case classify.Liability:
			line.AmountFmt = b.format(line.Amount)
			nw.Liabilities.add(line)
		case classify.Capital:
			line.AmountFmt = b.format(line.Amount)
			nw.Capital.add(line)
		default:
			nw.Unclassified.Count++
			nw.Unclassified.Items = append(nw.Unclassified.Items, LineItem{
				Category:  classify.Unclassified,
				Ledger:    lb.Name,
				Amount:    lb.OpeningBalance,
				AmountFmt: b.format(lb.OpeningBalance),
			})
		}
	}

	for _, bucket := range []*BalanceBucket{&nw.Assets, &nw.Liabilities, &nw.Capital} {
		sort.SliceStable(bucket.Items, func(i, j int) bool {
			return math.Abs(bucket.Items[i].Amount) > math.Abs(bucket.Items[j].Amount)
		})
		bucket.TotalFmt = b.format(bucket.Total)
		bucket.Items = trimLines(bucket.Items, b.topN())
	}

	nw.NetWorth = nw.Assets.Total - math.Abs(nw.Liabilities.Total)
	nw.NetWorthFmt = b.format(nw.NetWorth)
	nw.Solvent = nw.NetWorth > 0
	if nw.Solvent {
		nw.Health = healthPositive
	} else {
		nw.Health = healthAttention
	}

	b.Log.Debug().
		Float64("assets", nw.Assets.Total).
		Float64("liabilities", nw.Liabilities.Total).
		Float64("net_worth", nw.NetWorth).
		Msg("net worth built")
	return nw, nil
}
