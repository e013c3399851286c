package compare

import (
	"context"
	"errors"
	"math"

	"github.com/jeethk/finsight/internal/money"
	"github.com/jeethk/finsight/internal/statement"
)

// ErrInsufficientHistory means fewer than two usable periods were given.
var ErrInsufficientHistory = errors.New("compare: at least two historical periods required for a forecast")

// Forecast is a linear-trend projection from historical periods. It is
// directional guidance, not a prediction; Confidence says as much.
type Forecast struct {
	PeriodsAnalyzed int
	AvgRevenue      float64
	AvgRevenueFmt   string
	AvgProfit       float64
	AvgProfitFmt    string
	AvgExpenses     float64
	Volatility      string

	RevenueTrendPerPeriod float64
	ProfitTrendPerPeriod  float64
	RevenueDirection      string
	ProfitDirection       string

	NextRevenue    float64
	NextRevenueFmt string
	NextProfit     float64
	NextProfitFmt  string
	Confidence     string

	RevenueRisk string
	ProfitRisk  string

	Err string
}

// Forecast fits a straight line through the periods' revenue and profit
// and extends it one period forward.
func (e *Engine) Forecast(ctx context.Context, b *statement.Builder, periods []string) (Forecast, error) {
	f := Forecast{Confidence: "Moderate - Based on linear trend"}
	if len(periods) < 2 {
		f.Err = ErrInsufficientHistory.Error()
		return f, ErrInsufficientHistory
	}

	type point struct{ revenue, profit, expenses float64 }
	var history []point
	for _, p := range periods {
		pl, err := b.ProfitLoss(ctx, p)
		if err != nil {
			e.Log.Warn().Err(err).Str("period", p).Msg("forecast input failed")
			f.Err = err.Error()
			return f, err
		}
		history = append(history, point{
			revenue:  pl.Revenue.Total,
			profit:   pl.NetProfit,
			expenses: pl.COGS.Total + pl.OperatingExpenses.Total + pl.OtherExpenses.Total,
		})
	}

	n := float64(len(history))
	first, last := history[0], history[len(history)-1]
	steps := math.Max(n-1, 1)
	f.PeriodsAnalyzed = len(history)
	f.RevenueTrendPerPeriod = (last.revenue - first.revenue) / steps
	f.ProfitTrendPerPeriod = (last.profit - first.profit) / steps

	minRev, maxRev := math.Inf(1), math.Inf(-1)
	for _, h := range history {
		f.AvgRevenue += h.revenue / n
		f.AvgProfit += h.profit / n
		f.AvgExpenses += h.expenses / n
		minRev = math.Min(minRev, h.revenue)
		maxRev = math.Max(maxRev, h.revenue)
	}
	if maxRev/math.Max(minRev, 1) > 2 {
		f.Volatility = "High"
	} else {
		f.Volatility = "Moderate"
	}

	f.NextRevenue = last.revenue + f.RevenueTrendPerPeriod
	f.NextProfit = last.profit + f.ProfitTrendPerPeriod

	f.RevenueDirection = direction(f.RevenueTrendPerPeriod, "Increasing", "Decreasing")
	f.ProfitDirection = direction(f.ProfitTrendPerPeriod, "Improving", "Declining")
	if f.RevenueTrendPerPeriod < 0 {
		f.RevenueRisk = "High"
	} else {
		f.RevenueRisk = "Moderate"
	}
	if f.ProfitTrendPerPeriod < 0 {
		f.ProfitRisk = "High"
	} else {
		f.ProfitRisk = "Low"
	}

	sym := e.symbol()
	f.AvgRevenueFmt = money.Format(sym, f.AvgRevenue)
	f.AvgProfitFmt = money.Format(sym, f.AvgProfit)
	f.NextRevenueFmt = money.Format(sym, f.NextRevenue)
	f.NextProfitFmt = money.Format(sym, f.NextProfit)
	return f, nil
}

func direction(trend float64, up, down string) string {
	switch {
	case trend > 0:
		return up
	case trend < 0:
		return down
	default:
		return "Stable"
	}
}
