// Package compare measures financial performance across fiscal quarters
// and arbitrary periods. The base quarter defaults to the newest quarter
// the store holds data for, so "latest" tracks the data rather than the
// wall clock.
package compare

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeethk/finsight/internal/classify"
	"github.com/jeethk/finsight/internal/database/repository"
	"github.com/jeethk/finsight/internal/money"
	"github.com/jeethk/finsight/internal/period"
)

// Trend labels one period-over-period delta.
type Trend string

const (
	TrendImproving Trend = "Improving"
	TrendMixed     Trend = "Mixed"
	TrendDeclining Trend = "Declining"
	TrendStable    Trend = "Stable"
)

// ComparisonType describes the relationship between base and comparison
// quarters.
type ComparisonType string

const (
	Sequential   ComparisonType = "Sequential Quarter (QoQ)"
	SameYear     ComparisonType = "Same Year Quarter"
	YearOverYear ComparisonType = "Year-over-Year (YoY)"
	MultiPeriod  ComparisonType = "Multi-Period Comparison"
	General      ComparisonType = "General Comparison"
)

// Engine builds quarter and period comparisons from the entry store.
type Engine struct {
	Entries *repository.EntryRepo
	Periods period.Resolver
	Symbol  string
	Timeout time.Duration
	Log     zerolog.Logger
}

// QuarterPerformance is one quarter's headline figures. Revenue counts
// positive sales-voucher totals and Expenses positive purchase-voucher
// totals; the margin floor keeps zero-revenue quarters finite.
type QuarterPerformance struct {
	Period string
	Range  period.Range

	Revenue    float64
	RevenueFmt string
	Expenses   float64
	Profit     float64
	ProfitFmt  string
	Margin     float64
	MarginFmt  string

	Transactions int
	Activity     string
}

// Delta is the base quarter measured against one comparison quarter.
type Delta struct {
	Against string
	Type    ComparisonType

	RevenueChange    float64
	RevenueChangeFmt string
	ProfitChange     float64
	ProfitChangeFmt  string
	RevenueAbs       float64
	RevenueAbsFmt    string
	ProfitAbs        float64
	ProfitAbsFmt     string

	Trend      Trend
	Comparison QuarterPerformance
}

// Summary condenses all deltas into a verdict.
type Summary struct {
	Best         string
	MostImproved string
	Overall      string
	Consistency  string
	Improving    int
	Declining    int
	Confidence   string
}

// QuarterComparison is the full comparison product.
type QuarterComparison struct {
	Base    QuarterPerformance
	Deltas  []Delta
	Summary Summary

	Err string
}

func (e *Engine) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.Timeout)
}

func (e *Engine) symbol() string {
	if e.Symbol == "" {
		return money.DefaultSymbol
	}
	return e.Symbol
}

// Quarters compares a base quarter against a set of others. An empty or
// "latest" base resolves to the newest quarter carrying data. An empty
// comparison set defaults to the previous quarter, the same quarter one
// year earlier, and the remaining quarters of the base year.
func (e *Engine) Quarters(ctx context.Context, base string, against []string) (QuarterComparison, error) {
	q, year := e.resolveBase(ctx, base)
	baseRange := period.QuarterRange(q, year)

	qc := QuarterComparison{}
	basePerf, err := e.quarterPerformance(ctx, baseRange)
	if err != nil {
		e.Log.Warn().Err(err).Str("base", baseRange.Description).Msg("quarter comparison failed")
		qc.Base.Period = baseRange.Description
		qc.Err = err.Error()
		return qc, err
	}
	qc.Base = basePerf

	if len(against) == 0 {
		against = defaultComparisonSet(q, year)
	}

	for _, token := range against {
		var compRange period.Range
		cq, cyear, quarterly := period.ParseQuarter(token, e.Periods.DefaultYear)
		if quarterly {
			compRange = period.QuarterRange(cq, cyear)
		} else {
			// Free-form tokens still compare, typed as a general comparison.
			compRange = e.Periods.Resolve(token)
		}
		compPerf, err := e.quarterPerformance(ctx, compRange)
		if err != nil {
			e.Log.Warn().Err(err).Str("period", compRange.Description).Msg("skipping comparison period")
			continue
		}
		if compPerf.Revenue <= 0 && basePerf.Revenue <= 0 {
			continue
		}
		d := e.delta(basePerf, compPerf, q, year, cq, cyear)
		if !quarterly {
			d.Type = General
		}
		qc.Deltas = append(qc.Deltas, d)
	}

	qc.Summary = summarise(qc.Deltas)
	e.Log.Debug().
		Str("base", basePerf.Period).
		Int("comparisons", len(qc.Deltas)).
		Str("overall", qc.Summary.Overall).
		Msg("quarter comparison built")
	return qc, nil
}

func (e *Engine) resolveBase(ctx context.Context, base string) (q, year int) {
	if base != "" && base != "latest" {
		if pq, py, ok := period.ParseQuarter(base, e.Periods.DefaultYear); ok {
			return pq, py
		}
	}
	qctx, cancel := e.queryCtx(ctx)
	defer cancel()
	y, m, err := e.Entries.LatestMonth(qctx)
	if err != nil {
		// No usable store: fall back to Q4 of the default year.
		return 4, e.Periods.DefaultYear
	}
	return period.QuarterOfMonth(y, m)
}

func defaultComparisonSet(q, year int) []string {
	pq, py := period.PrevQuarter(q, year)
	set := []string{
		fmt.Sprintf("Q%d %d", pq, py),
		fmt.Sprintf("Q%d %d", q, year-1),
	}
	for i := 1; i <= 4; i++ {
		if i != q {
			set = append(set, fmt.Sprintf("Q%d %d", i, year))
		}
	}
	return set
}

func (e *Engine) quarterPerformance(ctx context.Context, rng period.Range) (QuarterPerformance, error) {
	qctx, cancel := e.queryCtx(ctx)
	defer cancel()
	groups, err := e.Entries.GroupedInRange(qctx, rng.Start, rng.End)
	if err != nil {
		return QuarterPerformance{Period: rng.Description, Range: rng}, err
	}

	perf := QuarterPerformance{Period: rng.Description, Range: rng}
	for _, g := range groups {
		perf.Transactions += g.Count
		if g.Total <= 0 {
			continue
		}
		switch {
		case classify.SalesVoucher(g.VoucherType):
			perf.Revenue += g.Total
		case classify.PurchaseVoucher(g.VoucherType):
			perf.Expenses += g.Total
		}
	}
	perf.Profit = perf.Revenue - perf.Expenses
	if perf.Revenue > 0 {
		perf.Margin = perf.Profit / math.Max(perf.Revenue, 1) * 100
	}
	switch {
	case perf.Transactions > 200:
		perf.Activity = "High"
	case perf.Transactions > 100:
		perf.Activity = "Moderate"
	default:
		perf.Activity = "Low"
	}
	sym := e.symbol()
	perf.RevenueFmt = money.Format(sym, perf.Revenue)
	perf.ProfitFmt = money.Format(sym, perf.Profit)
	perf.MarginFmt = money.Percent(perf.Margin)
	return perf, nil
}

func (e *Engine) delta(base, comp QuarterPerformance, bq, by, cq, cy int) Delta {
	revChange := (base.Revenue - comp.Revenue) / math.Max(comp.Revenue, 1) * 100
	profitChange := (base.Profit - comp.Profit) / math.Max(math.Abs(comp.Profit), 1) * 100

	sym := e.symbol()
	d := Delta{
		Against:          comp.Period,
		Type:             comparisonType(bq, by, cq, cy),
		RevenueChange:    revChange,
		RevenueChangeFmt: money.Percent(revChange),
		ProfitChange:     profitChange,
		ProfitChangeFmt:  money.Percent(profitChange),
		RevenueAbs:       base.Revenue - comp.Revenue,
		RevenueAbsFmt:    money.FormatSigned(sym, base.Revenue-comp.Revenue),
		ProfitAbs:        base.Profit - comp.Profit,
		ProfitAbsFmt:     money.FormatSigned(sym, base.Profit-comp.Profit),
		Comparison:       comp,
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
	return d
}

func comparisonType(bq, by, cq, cy int) ComparisonType {
	switch {
	case by == cy && abs(bq-cq) == 1:
		return Sequential
	case by == cy:
		return SameYear
	case by-cy == 1 && bq == cq:
		return YearOverYear
	default:
		return MultiPeriod
	}
}

func summarise(deltas []Delta) Summary {
	s := Summary{Best: "No comparisons available", MostImproved: "Needs improvement"}
	if len(deltas) == 0 {
		s.Overall = "Stable"
		s.Consistency = "Unknown"
		s.Confidence = "Low"
		return s
	}

	var revSum, bestChange float64
	bestChange = math.Inf(-1)
	anyRevenueUp, anyProfitUp := false, false
	for _, d := range deltas {
		revSum += d.RevenueChange
		if d.RevenueChange > bestChange {
			bestChange = d.RevenueChange
			s.Best = d.Against
		}
		if d.RevenueChange > 0 {
			anyRevenueUp = true
		}
		if d.ProfitChange > 0 {
			anyProfitUp = true
		}
		switch d.Trend {
		case TrendImproving:
			s.Improving++
		case TrendDeclining:
			s.Declining++
		}
	}

	switch {
	case anyRevenueUp:
		s.MostImproved = "Revenue"
	case anyProfitUp:
		s.MostImproved = "Profit"
	}
	switch {
	case revSum > 0:
		s.Overall = "Growth"
	case revSum < 0:
		s.Overall = "Decline"
	default:
		s.Overall = "Stable"
	}
	if s.Improving > len(deltas)/2 {
		s.Consistency = "High"
	} else {
		s.Consistency = "Variable"
	}
	switch {
	case len(deltas) >= 2:
		s.Confidence = "High"
	case len(deltas) == 1:
		s.Confidence = "Moderate"
	default:
		s.Confidence = "Low"
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
