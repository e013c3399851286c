package compare

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeethk/finsight/internal/database"
	"github.com/jeethk/finsight/internal/database/repository"
	"github.com/jeethk/finsight/internal/logger"
	"github.com/jeethk/finsight/internal/period"
	"github.com/jeethk/finsight/internal/statement"
)

// Three fiscal quarters of history:
//
//	Q1 2022 (Apr-Jun 2022): sales 50,000  purchases 30,000
//	Q4 2022 (Jan-Mar 2023): sales 80,000  purchases 50,000
//	Q1 2023 (Apr-Jun 2023): sales 100,000 purchases 60,000
func newTestEngine(t *testing.T) (*Engine, *statement.Builder) {
	t.Helper()

	db, err := database.OpenWritable(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrations, err := filepath.Abs(filepath.Join("..", "database", "migrations"))
	require.NoError(t, err)
	require.NoError(t, database.RunMigrationsWithDB(db, migrations))
	seedQuarters(t, db)

	entries := repository.NewEntryRepo(db)
	resolver := period.Resolver{DefaultYear: 2023}
	engine := &Engine{
		Entries: entries,
		Periods: resolver,
		Symbol:  "₹",
		Timeout: 5 * time.Second,
		Log:     logger.Nop(),
	}
	builder := &statement.Builder{
		Entries: entries,
		Ledgers: repository.NewLedgerRepo(db),
		Stock:   repository.NewStockRepo(db),
		Periods: resolver,
		Symbol:  "₹",
		Timeout: 5 * time.Second,
		Log:     logger.Nop(),
	}
	return engine, builder
}

func seedQuarters(t *testing.T, db *sql.DB) {
	t.Helper()

	rows := []struct {
		guid, date, vtype, ledger string
		amount                    float64
	}{
		{"s3", "2022-05-01", "Sales", "SAMSUNG MOBILES SALES", 50000},
		{"p3", "2022-05-10", "Purchase", "SAMSUNG PURCHASE", 30000},
		{"s2", "2023-02-01", "Sales", "SAMSUNG MOBILES SALES", 80000},
		{"p2", "2023-02-10", "Purchase", "SAMSUNG PURCHASE", 50000},
		{"s1", "2023-05-01", "Sales", "SAMSUNG MOBILES SALES", 100000},
		{"p1", "2023-05-15", "Purchase", "SAMSUNG PURCHASE", 60000},
	}
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO trn_voucher (guid, date, voucher_type, voucher_number, party_name)
			VALUES (?, ?, ?, ?, ?)`, r.guid, r.date, r.vtype, r.guid, "")
		require.NoError(t, err)
		_, err = db.Exec(`INSERT INTO trn_accounting (guid, ledger, amount)
			VALUES (?, ?, ?)`, r.guid, r.ledger, r.amount)
		require.NoError(t, err)
	}
}

func TestQuartersLatestBase(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)

	qc, err := e.Quarters(context.Background(), "latest", nil)
	require.NoError(t, err)

	// Newest voucher is May 2023, which sits in fiscal Q1 2023.
	assert.Equal(t, "Q1 2023", qc.Base.Period)
	assert.InDelta(t, 100000, qc.Base.Revenue, 0.01)
	assert.InDelta(t, 40000, qc.Base.Profit, 0.01)
	assert.InDelta(t, 40.0, qc.Base.Margin, 0.01)
	assert.Equal(t, "Low", qc.Base.Activity)

	// Previous quarter, same quarter last year, then the rest of the year.
	require.Len(t, qc.Deltas, 5)
	prev := qc.Deltas[0]
	assert.Equal(t, "Q4 2022", prev.Against)
	assert.InDelta(t, 25.0, prev.RevenueChange, 0.01)
	assert.InDelta(t, 33.33, prev.ProfitChange, 0.01)
	assert.Equal(t, TrendImproving, prev.Trend)

	yoy := qc.Deltas[1]
	assert.Equal(t, "Q1 2022", yoy.Against)
	assert.Equal(t, YearOverYear, yoy.Type)
	assert.InDelta(t, 100.0, yoy.RevenueChange, 0.01)

	assert.Equal(t, "Growth", qc.Summary.Overall)
	assert.Equal(t, "Revenue", qc.Summary.MostImproved)
	assert.Equal(t, "High", qc.Summary.Consistency)
	assert.Equal(t, "High", qc.Summary.Confidence)
}

func TestQuartersExplicitBase(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)

	qc, err := e.Quarters(context.Background(), "Q4 2022", []string{"Q1 2022"})
	require.NoError(t, err)

	assert.Equal(t, "Q4 2022", qc.Base.Period)
	require.Len(t, qc.Deltas, 1)
	assert.InDelta(t, 60.0, qc.Deltas[0].RevenueChange, 0.01)
	assert.Equal(t, SameYear, qc.Deltas[0].Type)
}

func TestQuartersSelfComparisonIsStable(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)

	qc, err := e.Quarters(context.Background(), "Q1 2023", []string{"Q1 2023"})
	require.NoError(t, err)

	require.Len(t, qc.Deltas, 1)
	assert.Zero(t, qc.Deltas[0].RevenueChange)
	assert.Zero(t, qc.Deltas[0].ProfitChange)
	assert.Equal(t, TrendStable, qc.Deltas[0].Trend)
}

func TestQuartersFreeFormComparison(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)

	// A token that is neither a quarter nor a year still compares, typed
	// as a general comparison against whatever range it resolves to.
	qc, err := e.Quarters(context.Background(), "Q1 2023", []string{"last year"})
	require.NoError(t, err)

	require.Len(t, qc.Deltas, 1)
	d := qc.Deltas[0]
	assert.Equal(t, General, d.Type)
	assert.Equal(t, "Previous Year 2022", d.Against)
	assert.InDelta(t, 100.0, d.RevenueChange, 0.01)
}

func TestQuartersNoData(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)

	qc, err := e.Quarters(context.Background(), "Q3 2030", []string{"Q2 2030"})
	require.NoError(t, err)

	assert.Zero(t, qc.Base.Revenue)
	assert.Empty(t, qc.Deltas)
	assert.Equal(t, "Stable", qc.Summary.Overall)
	assert.Equal(t, "Low", qc.Summary.Confidence)
}

func TestQuartersBareYearBase(t *testing.T) {
	t.Parallel()
	e, _ := newTestEngine(t)

	// A bare year resolves to its Q4.
	qc, err := e.Quarters(context.Background(), "2022", []string{"Q1 2022"})
	require.NoError(t, err)
	assert.Equal(t, "Q4 2022", qc.Base.Period)
}

func TestComparative(t *testing.T) {
	t.Parallel()
	e, b := newTestEngine(t)

	c, err := e.Comparative(context.Background(), b, []string{"Q1 2022", "Q1 2023"})
	require.NoError(t, err)

	require.Len(t, c.Periods, 2)
	require.Len(t, c.Deltas, 1)
	assert.InDelta(t, 100.0, c.Deltas[0].RevenueChange, 0.01)
	assert.InDelta(t, 100.0, c.Deltas[0].ProfitChange, 0.01)
	assert.Equal(t, TrendImproving, c.Deltas[0].Trend)
	assert.Equal(t, "Growth", c.OverallTrend)
	assert.Equal(t, "Q1 2023", c.BestPeriod)
	assert.Equal(t, "Q1 2023", c.MostProfitable)
}

func TestForecastLinearTrend(t *testing.T) {
	t.Parallel()
	e, b := newTestEngine(t)

	f, err := e.Forecast(context.Background(), b, []string{"Q1 2022", "Q4 2022", "Q1 2023"})
	require.NoError(t, err)

	assert.Equal(t, 3, f.PeriodsAnalyzed)
	assert.InDelta(t, 25000, f.RevenueTrendPerPeriod, 0.01)
	assert.InDelta(t, 10000, f.ProfitTrendPerPeriod, 0.01)
	assert.InDelta(t, 125000, f.NextRevenue, 0.01)
	assert.InDelta(t, 50000, f.NextProfit, 0.01)
	assert.Equal(t, "Increasing", f.RevenueDirection)
	assert.Equal(t, "Improving", f.ProfitDirection)
	assert.Equal(t, "Moderate", f.Volatility)
	assert.Equal(t, "Low", f.ProfitRisk)
}

func TestForecastNeedsHistory(t *testing.T) {
	t.Parallel()
	e, b := newTestEngine(t)

	_, err := e.Forecast(context.Background(), b, []string{"Q1 2023"})
	require.ErrorIs(t, err, ErrInsufficientHistory)
}
