package compare

import (
	"context"
	"fmt"
	"math"

	"github.com/jeethk/finsight/internal/money"
	"github.com/jeethk/finsight/internal/statement"
)

// PeriodFigures are the headline numbers for one arbitrary period.
type PeriodFigures struct {
	Period      string
	Revenue     float64
	RevenueFmt  string
	NetProfit   float64
	ProfitFmt   string
	GrossProfit float64

	Transactions     int
	MobileSales      float64
	AccessoriesSales float64
}

// PeriodDelta compares one period to its predecessor in the list order.
type PeriodDelta struct {
	Label            string
	RevenueChange    float64
	RevenueChangeFmt string
	ProfitChange     float64
	ProfitChangeFmt  string
	Trend            Trend
}

// Comparative is a multi-period performance comparison.
type Comparative struct {
	Periods []PeriodFigures
	Deltas  []PeriodDelta

	OverallTrend   string
	RevenueTrend   string
	ProfitTrend    string
	BestPeriod     string
	MostProfitable string

	Err string
}

// Comparative walks the given periods in order and measures each against
// the one before it.
func (e *Engine) Comparative(ctx context.Context, b *statement.Builder, periods []string) (Comparative, error) {
	c := Comparative{}

	for _, p := range periods {
		pl, err := b.ProfitLoss(ctx, p)
		if err != nil {
			e.Log.Warn().Err(err).Str("period", p).Msg("comparative analysis failed")
			c.Err = err.Error()
			return c, err
		}
		sales, err := b.Sales(ctx, p)
		if err != nil {
			c.Err = err.Error()
			return c, err
		}
		sym := e.symbol()
		c.Periods = append(c.Periods, PeriodFigures{
			Period:           p,
			Revenue:          pl.Revenue.Total,
			RevenueFmt:       money.Format(sym, pl.Revenue.Total),
			NetProfit:        pl.NetProfit,
			ProfitFmt:        money.Format(sym, pl.NetProfit),
			GrossProfit:      pl.GrossProfit,
			Transactions:     sales.TotalTransactions,
			MobileSales:      sales.Mobile,
			AccessoriesSales: sales.Accessories,
		})
	}

	var revSum, profitSum float64
	for i := 1; i < len(c.Periods); i++ {
		cur, prev := c.Periods[i], c.Periods[i-1]
		revChange := (cur.Revenue - prev.Revenue) / math.Max(prev.Revenue, 1) * 100
		profitChange := (cur.NetProfit - prev.NetProfit) / math.Max(math.Abs(prev.NetProfit), 1) * 100
		revSum += revChange
		profitSum += profitChange

		d := PeriodDelta{
			Label:            fmt.Sprintf("%s vs %s", cur.Period, prev.Period),
			RevenueChange:    revChange,
			RevenueChangeFmt: money.Percent(revChange),
			ProfitChange:     profitChange,
			ProfitChangeFmt:  money.Percent(profitChange),
		}
		switch {
		case revChange == 0 && profitChange == 0:
			d.Trend = TrendStable
		case revChange > 0 && profitChange > 0:
			d.Trend = TrendImproving
		case revChange > 0 || profitChange > 0:
			d.Trend = TrendMixed
		default:
			d.Trend = TrendDeclining
		}
		c.Deltas = append(c.Deltas, d)
	}

	improving := 0
	for _, d := range c.Deltas {
		if d.Trend == TrendImproving {
			improving++
		}
	}
	if len(c.Deltas) > 0 && improving > len(c.Deltas)/2 {
		c.OverallTrend = "Growth"
	} else {
		c.OverallTrend = "Stable"
	}
	if revSum > 0 {
		c.RevenueTrend = "Increasing"
	} else {
		c.RevenueTrend = "Decreasing"
	}
	if profitSum > 0 {
		c.ProfitTrend = "Improving"
	} else {
		c.ProfitTrend = "Declining"
	}

	bestRev, bestProfit := math.Inf(-1), math.Inf(-1)
	for _, p := range c.Periods {
		if p.Revenue > bestRev {
			bestRev = p.Revenue
			c.BestPeriod = p.Period
		}
		if p.NetProfit > bestProfit {
			bestProfit = p.NetProfit
			c.MostProfitable = p.Period
		}
	}
	return c, nil
}
