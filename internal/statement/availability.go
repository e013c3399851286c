package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/jeethk/finsight/internal/database/repository"
	"github.com/jeethk/finsight/internal/period"
)

// YearCoverage describes how much data one calendar year carries.
type YearCoverage struct {
	Year         string
	Transactions int
	First        time.Time
	Last         time.Time
	Quality      string
}

// Availability maps which periods the store can actually answer for.
type Availability struct {
	Earliest      time.Time
	Latest        time.Time
	TotalVouchers int

	Years  []YearCoverage
	Months []repository.MonthActivity

	FiscalYearNote string

	Err string
}

// PeriodValidation reports whether a requested period has enough data to
// be worth querying, with alternatives when it does not.
type PeriodValidation struct {
	Requested string
	Range     period.Range

	Available    bool
	Transactions int
	Quality      string
	// CoversLatest marks whether the store's most recent activity falls
	// inside the requested range, so callers can flag stale periods.
	CoversLatest bool
	Suggested    []string

	Err string
}

func coverageQuality(count int) string {
	switch {
	case count == 0:
		return "None"
	case count < 10:
		return "Sparse"
	case count < 100:
		return "Moderate"
	default:
		return "Rich"
	}
}

// AvailablePeriods surveys the store's date coverage year by year.
func (b *Builder) AvailablePeriods(ctx context.Context) (Availability, error) {
	av := Availability{
		FiscalYearNote: "Fiscal year runs April through March; Q4 of a year ends the following March.",
	}

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	years, err := b.Entries.YearlyActivity(qctx)
	if err != nil {
		b.Log.Warn().Err(err).Msg("availability query failed")
		av.Err = err.Error()
		return av, err
	}
	months, err := b.Entries.MonthlyActivity(qctx)
	if err != nil {
		av.Err = err.Error()
		return av, err
	}

	av.Months = months
	for _, y := range years {
		av.TotalVouchers += y.Count
		av.Years = append(av.Years, YearCoverage{
			Year:         y.Year,
			Transactions: y.Count,
			First:        y.First,
			Last:         y.Last,
			Quality:      coverageQuality(y.Count),
		})
		if av.Earliest.IsZero() || y.First.Before(av.Earliest) {
			av.Earliest = y.First
		}
		if y.Last.After(av.Latest) {
			av.Latest = y.Last
		}
	}
	return av, nil
}

// ValidatePeriod resolves a period expression and checks the store holds
// data for it. When the period is empty it suggests years that are not.
func (b *Builder) ValidatePeriod(ctx context.Context, expr string) (PeriodValidation, error) {
	rng := b.Periods.Resolve(expr)
	pv := PeriodValidation{Requested: expr, Range: rng}

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	count, err := b.Entries.CountInRange(qctx, rng.Start, rng.End)
	if err != nil {
		b.Log.Warn().Err(err).Str("period", rng.Description).Msg("period validation failed")
		pv.Err = err.Error()
		return pv, err
	}

	pv.Transactions = count
	pv.Quality = coverageQuality(count)
	pv.Available = count > 0

	if y, m, lerr := b.Entries.LatestMonth(qctx); lerr == nil {
		pv.CoversLatest = rng.Contains(time.Date(y, m, 1, 0, 0, 0, 0, time.UTC))
	}

	if pv.Available {
		return pv, nil
	}

	years, err := b.Entries.YearlyActivity(qctx)
	if err != nil {
		return pv, nil
	}
	for _, y := range years {
		if y.Count > 0 {
			pv.Suggested = append(pv.Suggested, fmt.Sprintf("%s (%d transactions)", y.Year, y.Count))
		}
	}
	return pv, nil
}
