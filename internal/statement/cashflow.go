package statement

import (
	"context"
	"math"
	"time"

	"github.com/jeethk/finsight/internal/classify"
	"github.com/jeethk/finsight/internal/period"
)

// FlowLine is one cash movement inside the period.
type FlowLine struct {
	Date        time.Time
	VoucherType string
	Ledger      string
	Amount      float64
	AmountFmt   string
}

// CashFlow reports movements through cash and bank ledgers split by
// direction and activity.
type CashFlow struct {
	Period string
	Range  period.Range

	TotalInflows  float64
	InflowsFmt    string
	TotalOutflows float64
	OutflowsFmt   string
	NetFlow       float64
	NetFlowFmt    string
	Status        string

	OperatingInflows  []FlowLine
	OperatingOutflows []FlowLine
	NetOperating      float64
	Financing         []FlowLine
	Investing         []FlowLine

	TransactionCount int
	InflowCount      int
	OutflowCount     int
	Unclassified     Diagnostics

	Err string
}

// CashFlow builds the cash movement statement for the period expression.
// Outflow totals are reported as magnitudes; NetFlow carries the sign.
func (b *Builder) CashFlow(ctx context.Context, expr string) (CashFlow, error) {
	rng := b.Periods.Resolve(expr)
	cf := CashFlow{Period: rng.Description, Range: rng}

	qctx, cancel := b.queryCtx(ctx)
	defer cancel()
	entries, err := b.Entries.CashInRange(qctx, rng.Start, rng.End)
	if err != nil {
		b.Log.Warn().Err(err).Str("period", rng.Description).Msg("cash flow query failed")
		cf.Err = err.Error()
		return cf, err
	}

	for _, e := range entries {
		cf.TransactionCount++
		if e.Amount > 0 {
			cf.TotalInflows += e.Amount
			cf.InflowCount++
		} else if e.Amount < 0 {
			cf.TotalOutflows += -e.Amount
			cf.OutflowCount++
		}

		line := FlowLine{
			Date:        e.Date,
			VoucherType: e.VoucherType,
			Ledger:      e.Ledger,
			Amount:      e.Amount,
			AmountFmt:   b.format(math.Abs(e.Amount)),
		}
		switch classify.CashFlow(e.VoucherType, e.Ledger, e.Amount) {
		case classify.FinancingFlow:
			cf.Financing = append(cf.Financing, line)
		case classify.InvestingFlow:
			cf.Investing = append(cf.Investing, line)
		case classify.OperatingFlow:
			cf.NetOperating += e.Amount
			if e.Amount > 0 {
				cf.OperatingInflows = append(cf.OperatingInflows, line)
			} else {
				cf.OperatingOutflows = append(cf.OperatingOutflows, line)
			}
		default:
			cf.Unclassified.Count++
		}
	}

	cf.NetFlow = cf.TotalInflows - cf.TotalOutflows
	cf.InflowsFmt = b.format(cf.TotalInflows)
	cf.OutflowsFmt = b.format(cf.TotalOutflows)
	cf.NetFlowFmt = b.format(cf.NetFlow)
	// A flat period reads "Negative": only actual surplus is positive.
	if cf.NetFlow > 0 {
		cf.Status = "Positive"
	} else {
		cf.Status = "Negative"
	}

	n := b.topN()
	cf.OperatingInflows = trimLines(cf.OperatingInflows, n)
	cf.OperatingOutflows = trimLines(cf.OperatingOutflows, n)
	cf.Financing = trimLines(cf.Financing, n)
	cf.Investing = trimLines(cf.Investing, n)

	b.Log.Debug().
		Str("period", rng.Description).
		Float64("inflows", cf.TotalInflows).
		Float64("outflows", cf.TotalOutflows).
		Float64("net", cf.NetFlow).
		Msg("cash flow built")
	return cf, nil
}
