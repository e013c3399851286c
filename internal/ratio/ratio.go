// Package ratio derives financial ratios, KPIs, and a composite health
// score from statement aggregates. Every function is pure; denominators
// are floored at 1 so empty periods yield zeros instead of NaN.
package ratio

import (
	"math"

	"github.com/jeethk/finsight/internal/statement"
)

// Inputs are the statement aggregates the ratios are computed from.
type Inputs struct {
	Revenue          float64
	GrossProfit      float64
	NetProfit        float64
	TotalExpenses    float64
	TotalAssets      float64
	TotalLiabilities float64
	NetWorth         float64
	Transactions     int
}

// Profitability ratios, all in percent.
type Profitability struct {
	GrossMargin    float64
	NetMargin      float64
	ReturnOnAssets float64
	ReturnOnEquity float64
	Grade          string
}

// Leverage ratios. DebtToEquity is +Inf when net worth is exactly zero.
type Leverage struct {
	DebtToEquity  float64
	AssetTurnover float64
	EquityRatio   float64
	Stability     string
}

// Efficiency KPIs.
type Efficiency struct {
	RevenuePerTransaction float64
	CostRatio             float64
	AssetUtilization      string
	Operational           string
}

// HealthScore is the weighted composite in [0, 100].
type HealthScore struct {
	Overall    float64
	ProfitPart float64
	CostPart   float64
	AssetPart  float64
	Grade      string
}

// Metrics bundles every derived figure for one period.
type Metrics struct {
	Profitability Profitability
	Leverage      Leverage
	Efficiency    Efficiency
	Health        HealthScore
}

func floor1(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}

// Compute derives all ratios from the aggregates.
func Compute(in Inputs) Metrics {
	revFloor := floor1(in.Revenue)
	assetFloor := floor1(math.Abs(in.TotalAssets))
	equityFloor := floor1(math.Abs(in.NetWorth))

	p := Profitability{
		GrossMargin:    in.GrossProfit / revFloor * 100,
		NetMargin:      in.NetProfit / revFloor * 100,
		ReturnOnAssets: in.NetProfit / assetFloor * 100,
	}
	if in.NetWorth != 0 {
		p.ReturnOnEquity = in.NetProfit / equityFloor * 100
	}
	switch {
	case p.NetMargin > 15:
		p.Grade = "Excellent"
	case p.NetMargin > 5:
		p.Grade = "Good"
	default:
		p.Grade = "Needs Improvement"
	}

	l := Leverage{
		AssetTurnover: in.Revenue / assetFloor,
		EquityRatio:   math.Abs(in.NetWorth) / assetFloor,
	}
	if in.NetWorth == 0 {
		l.DebtToEquity = math.Inf(1)
	} else {
		l.DebtToEquity = math.Abs(in.TotalLiabilities) / equityFloor
	}
	switch {
	case l.DebtToEquity < 2:
		l.Stability = "Stable"
	case l.DebtToEquity < 5:
		l.Stability = "High Leverage"
	default:
		l.Stability = "Very High Risk"
	}

	e := Efficiency{
		RevenuePerTransaction: in.Revenue / floor1(float64(in.Transactions)),
		CostRatio:             in.TotalExpenses / revFloor * 100,
	}
	switch {
	case l.AssetTurnover > 1:
		e.AssetUtilization = "High"
	case l.AssetTurnover > 0.5:
		e.AssetUtilization = "Moderate"
	default:
		e.AssetUtilization = "Low"
	}
	switch {
	case e.CostRatio < 80:
		e.Operational = "High"
	case e.CostRatio < 90:
		e.Operational = "Moderate"
	default:
		e.Operational = "Needs Improvement"
	}

	h := HealthScore{
		ProfitPart: p.NetMargin * 0.3,
		CostPart:   math.Min(100, math.Max(0, 100-e.CostRatio)) * 0.3,
		AssetPart:  math.Min(100, l.AssetTurnover*50) * 0.4,
	}
	h.Overall = math.Min(100, math.Max(0, h.ProfitPart+h.CostPart+h.AssetPart))
	switch {
	case p.NetMargin > 15:
		h.Grade = "A"
	case p.NetMargin > 5:
		h.Grade = "B"
	default:
		h.Grade = "C"
	}

	return Metrics{Profitability: p, Leverage: l, Efficiency: e, Health: h}
}

// FromReport extracts ratio inputs from a combined statement report.
func FromReport(rep statement.Report) Inputs {
	pl := rep.ProfitLoss
	return Inputs{
		Revenue:          pl.Revenue.Total,
		GrossProfit:      pl.GrossProfit,
		NetProfit:        pl.NetProfit,
		TotalExpenses:    pl.COGS.Total + pl.OperatingExpenses.Total + pl.OtherExpenses.Total,
		TotalAssets:      rep.NetWorth.Assets.Total,
		TotalLiabilities: rep.NetWorth.Liabilities.Total,
		NetWorth:         rep.NetWorth.NetWorth,
		Transactions:     rep.Sales.TotalTransactions,
	}
}
