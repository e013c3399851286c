package statement

import (
	"context"
	"sync"

	"github.com/jeethk/finsight/internal/period"
)

// HealthIndicators distils the combined report into three booleans and a
// verdict. Overall is "Good" only when all three hold.
type HealthIndicators struct {
	Profitable       bool
	PositiveCashFlow bool
	Solvent          bool

	Profitability string
	Liquidity     string
	Solvency      string
	Overall       string
}

// Report is the combined statement set for one period. Sections that
// failed carry their own Err; the report itself fails only when every
// section does.
type Report struct {
	Company string
	Period  string
	Range   period.Range

	ProfitLoss ProfitLoss
	NetWorth   NetWorth
	CashFlow   CashFlow
	Sales      Sales

	Health HealthIndicators

	Err string
}

// Comprehensive builds every statement for the period concurrently and
// derives the health verdict from whatever sections succeeded.
func (b *Builder) Comprehensive(ctx context.Context, expr string) (Report, error) {
	rng := b.Periods.Resolve(expr)
	rep := Report{Company: b.Company, Period: rng.Description, Range: rng}

	var wg sync.WaitGroup
	var plErr, nwErr, cfErr, slErr error
	wg.Add(4)
	go func() {
		defer wg.Done()
		rep.ProfitLoss, plErr = b.ProfitLoss(ctx, expr)
	}()
	go func() {
		defer wg.Done()
		rep.NetWorth, nwErr = b.NetWorth(ctx)
	}()
	go func() {
		defer wg.Done()
		rep.CashFlow, cfErr = b.CashFlow(ctx, expr)
	}()
	go func() {
		defer wg.Done()
		rep.Sales, slErr = b.Sales(ctx, expr)
	}()
	wg.Wait()

	rep.Health = healthFrom(rep)

	if plErr != nil && nwErr != nil && cfErr != nil && slErr != nil {
		rep.Err = plErr.Error()
		return rep, plErr
	}
	b.Log.Debug().
		Str("period", rng.Description).
		Str("health", rep.Health.Overall).
		Msg("comprehensive report built")
	return rep, nil
}

func healthFrom(rep Report) HealthIndicators {
	h := HealthIndicators{
		Profitable:       rep.ProfitLoss.NetProfit > 0,
		PositiveCashFlow: rep.CashFlow.NetFlow > 0,
		Solvent:          rep.NetWorth.Solvent,
	}
	h.Profitability = verdict(h.Profitable, "Profitable", "Loss-Making")
	h.Liquidity = verdict(h.PositiveCashFlow, "Positive Cash Flow", "Negative Cash Flow")
	h.Solvency = verdict(h.Solvent, "Solvent", "Insolvent")
	h.Overall = verdict(h.Profitable && h.PositiveCashFlow && h.Solvent, "Good", "Needs Attention")
	return h
}

func verdict(ok bool, good, bad string) string {
	if ok {
		return good
	}
	return bad
}
