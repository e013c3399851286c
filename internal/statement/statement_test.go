package statement

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
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "tally.db")
	db, err := database.OpenWritable(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrations, err := filepath.Abs(filepath.Join("..", "database", "migrations"))
	require.NoError(t, err)
	require.NoError(t, database.RunMigrationsWithDB(db, migrations))

	seedFixture(t, db)

	return &Builder{
		Entries: repository.NewEntryRepo(db),
		Ledgers: repository.NewLedgerRepo(db),
		Stock:   repository.NewStockRepo(db),
		Periods: period.Resolver{DefaultYear: 2023},
		Company: "VASAVI TRADE ZONE",
		Symbol:  "₹",
		TopN:    10,
		Timeout: 5 * time.Second,
		Log:     logger.Nop(),
	}
}

func seedFixture(t *testing.T, db *sql.DB) {
	t.Helper()

	vouchers := []struct {
		guid, date, vtype string
	}{
		{"v1", "2023-04-10", "Sales"},
		{"v2", "2023-05-12", "Purchase"},
		{"v3", "2023-06-01", "Payment"},
		{"v4", "2023-06-20", "Receipt"},
		{"v5", "2023-06-21", "Payment"},
		{"v6", "2022-08-05", "Sales"},
	}
	for _, v := range vouchers {
		_, err := db.Exec(`INSERT INTO trn_voucher (guid, date, voucher_type, voucher_number, party_name)
			VALUES (?, ?, ?, ?, ?)`, v.guid, v.date, v.vtype, v.guid, "")
		require.NoError(t, err)
	}

	entries := []struct {
		guid, ledger string
		amount       float64
	}{
		{"v1", "SAMSUNG MOBILES SALES", 100000},
		{"v2", "SAMSUNG PURCHASE", 60000},
		{"v3", "RENT", 10000},
		{"v4", "CASH", 20000},
		{"v5", "HDFC BANK", -15000},
		{"v6", "SAMSUNG MOBILES SALES", 40000},
	}
	for _, e := range entries {
		_, err := db.Exec(`INSERT INTO trn_accounting (guid, ledger, amount)
			VALUES (?, ?, ?)`, e.guid, e.ledger, e.amount)
		require.NoError(t, err)
	}

	ledgers := []struct {
		name, parent string
		balance      float64
	}{
		{"SAMSUNG MOBILES SALES", "Sales Accounts", 0},
		{"SAMSUNG PURCHASE", "Purchase Accounts", 0},
		{"RENT", "Indirect Expenses", 0},
		{"CASH", "Cash-in-Hand", 50000},
		{"HDFC BANK", "Bank Accounts", 150000},
		{"MOTOR CAR", "Fixed Assets", -80000},
		{"OWNER CAPITAL", "Capital Account", -200000},
		{"SUNDRY CREDITOR X", "Sundry Creditors", 30000},
		{"SUNDRY SUPPLIER", "Sundry Creditors", -30000},
		{"ABC CUSTOMER", "Sundry Debtors", 45000},
	}
	for _, l := range ledgers {
		_, err := db.Exec(`INSERT INTO mst_ledger (name, parent, opening_balance)
			VALUES (?, ?, ?)`, l.name, l.parent, l.balance)
		require.NoError(t, err)
	}
}

func TestProfitLossQuarter(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	pl, err := b.ProfitLoss(context.Background(), "Q1 2023")
	require.NoError(t, err)

	assert.Equal(t, "VASAVI TRADE ZONE", pl.Company)
	assert.Equal(t, "Q1 2023", pl.Range.Description)
	assert.InDelta(t, 100000, pl.Revenue.Total, 0.01)
	assert.InDelta(t, 60000, pl.COGS.Total, 0.01)
	assert.InDelta(t, 40000, pl.GrossProfit, 0.01)
	assert.InDelta(t, 40.0, pl.GrossMargin, 0.01)
	assert.InDelta(t, 10000, pl.OperatingExpenses.Total, 0.01)
	assert.InDelta(t, 30000, pl.OperatingProfit, 0.01)
	assert.InDelta(t, 20000, pl.OtherIncome.Total, 0.01)
	assert.InDelta(t, 50000, pl.NetProfit, 0.01)
	assert.InDelta(t, 50.0, pl.NetMargin, 0.01)
	assert.Equal(t, "₹40,000.00", pl.GrossProfitFmt)

	// The negative bank movement matches no P&L rule.
	assert.Equal(t, 1, pl.Unclassified.Count)
}

func TestProfitLossExcludesOtherPeriods(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	pl, err := b.ProfitLoss(context.Background(), "Q2 2022")
	require.NoError(t, err)
	assert.InDelta(t, 40000, pl.Revenue.Total, 0.01)
	assert.InDelta(t, 0, pl.COGS.Total, 0.01)
}

func TestProfitLossEmptyPeriod(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	pl, err := b.ProfitLoss(context.Background(), "Q3 2030")
	require.NoError(t, err)
	assert.Zero(t, pl.Revenue.Total)
	// Margin floor keeps a zero-revenue period finite.
	assert.Zero(t, pl.GrossMargin)
	assert.Empty(t, pl.Err)
}

func TestNetWorth(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	nw, err := b.NetWorth(context.Background())
	require.NoError(t, err)

	// CASH 50k + HDFC 150k + MOTOR |−80k| + SUNDRY SUPPLIER |−30k| folded in.
	assert.InDelta(t, 310000, nw.Assets.Total, 0.01)
	assert.InDelta(t, 75000, nw.Liabilities.Total, 0.01)
	assert.InDelta(t, -200000, nw.Capital.Total, 0.01)
	assert.InDelta(t, 235000, nw.NetWorth, 0.01)
	assert.True(t, nw.Solvent)
	assert.Equal(t, healthPositive, nw.Health)
	assert.Equal(t, 4, nw.Assets.Count)
}

func TestNetWorthBalancedBooks(t *testing.T) {
	t.Parallel()

	db, err := database.OpenWritable(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrations, err := filepath.Abs(filepath.Join("..", "database", "migrations"))
	require.NoError(t, err)
	require.NoError(t, database.RunMigrationsWithDB(db, migrations))

	// Assets exactly cover liabilities.
	for _, l := range []struct {
		name, parent string
		balance      float64
	}{
		{"HDFC BANK", "Bank Accounts", 50000},
		{"SUNDRY CREDITOR X", "Sundry Creditors", 50000},
	} {
		_, err := db.Exec(`INSERT INTO mst_ledger (name, parent, opening_balance)
			VALUES (?, ?, ?)`, l.name, l.parent, l.balance)
		require.NoError(t, err)
	}

	b := &Builder{
		Entries: repository.NewEntryRepo(db),
		Ledgers: repository.NewLedgerRepo(db),
		Periods: period.Resolver{DefaultYear: 2023},
		Company: "VASAVI TRADE ZONE",
		Symbol:  "₹",
		Timeout: 5 * time.Second,
		Log:     logger.Nop(),
	}

	nw, err := b.NetWorth(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0, nw.NetWorth, 0.01)
	assert.False(t, nw.Solvent)
	assert.Equal(t, healthAttention, nw.Health)
}

func TestCashFlowQuarter(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	cf, err := b.CashFlow(context.Background(), "Q1 2023")
	require.NoError(t, err)

	assert.InDelta(t, 20000, cf.TotalInflows, 0.01)
	assert.InDelta(t, 15000, cf.TotalOutflows, 0.01)
	assert.InDelta(t, 5000, cf.NetFlow, 0.01)
	assert.Equal(t, "Positive", cf.Status)
	assert.InDelta(t, 5000, cf.NetOperating, 0.01)
	assert.Len(t, cf.OperatingInflows, 1)
	assert.Len(t, cf.OperatingOutflows, 1)
	assert.Equal(t, 2, cf.TransactionCount)
}

func TestCashFlowZeroNetIsNegative(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	cf, err := b.CashFlow(context.Background(), "Q3 2030")
	require.NoError(t, err)
	assert.Zero(t, cf.NetFlow)
	assert.Equal(t, "Negative", cf.Status)
}

func TestSalesByCategory(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	s, err := b.Sales(context.Background(), "Q1 2023")
	require.NoError(t, err)

	// Every positive entry counts; Samsung ledgers land in Mobile.
	assert.InDelta(t, 160000, s.Mobile, 0.01)
	assert.InDelta(t, 0, s.Accessories, 0.01)
	assert.InDelta(t, 30000, s.Other, 0.01)
	assert.InDelta(t, 190000, s.Total, 0.01)
	assert.True(t, s.Found)
}

func TestCashBalance(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	cb, err := b.CashBalance(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 200000, cb.Total, 0.01)
	assert.Equal(t, "Moderate", cb.Position)
	assert.Equal(t, "HDFC BANK", cb.PrimaryAccount)
	assert.InDelta(t, 75.0, cb.Concentration, 0.01)
	assert.Len(t, cb.Accounts, 2)
}

func TestOutstandingDefaultParties(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	out, err := b.Outstanding(context.Background(), "")
	require.NoError(t, err)

	assert.InDelta(t, 75000, out.Receivables.Total, 0.01)
	assert.InDelta(t, 30000, out.Payables.Total, 0.01)
	assert.InDelta(t, 45000, out.NetPosition, 0.01)
}

func TestOutstandingNamedParty(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	out, err := b.Outstanding(context.Background(), "ABC")
	require.NoError(t, err)
	assert.InDelta(t, 45000, out.Receivables.Total, 0.01)
	assert.Zero(t, out.Payables.Total)
}

func TestComprehensiveReport(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	rep, err := b.Comprehensive(context.Background(), "Q1 2023")
	require.NoError(t, err)

	assert.InDelta(t, 50000, rep.ProfitLoss.NetProfit, 0.01)
	assert.True(t, rep.Health.Profitable)
	assert.True(t, rep.Health.PositiveCashFlow)
	assert.True(t, rep.Health.Solvent)
	assert.Equal(t, "Good", rep.Health.Overall)
}

func TestComprehensiveNeedsAttention(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	// No transactions: no profit, no cash movement.
	rep, err := b.Comprehensive(context.Background(), "Q3 2030")
	require.NoError(t, err)
	assert.False(t, rep.Health.Profitable)
	assert.False(t, rep.Health.PositiveCashFlow)
	assert.Equal(t, "Needs Attention", rep.Health.Overall)
}

func TestAvailablePeriods(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	av, err := b.AvailablePeriods(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, av.TotalVouchers)
	assert.Len(t, av.Years, 2)
	assert.Equal(t, "2022", av.Years[0].Year)
	assert.Equal(t, "Sparse", av.Years[0].Quality)
	assert.Equal(t, "2022-08-05", av.Earliest.Format("2006-01-02"))
	assert.Equal(t, "2023-06-21", av.Latest.Format("2006-01-02"))
}

func TestValidatePeriod(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	pv, err := b.ValidatePeriod(context.Background(), "Q1 2023")
	require.NoError(t, err)
	assert.True(t, pv.Available)
	assert.Equal(t, 5, pv.Transactions)
	// June 2023 is the newest month on file and sits inside Q1 2023.
	assert.True(t, pv.CoversLatest)

	empty, err := b.ValidatePeriod(context.Background(), "Q3 2030")
	require.NoError(t, err)
	assert.False(t, empty.Available)
	assert.Equal(t, "None", empty.Quality)
	assert.False(t, empty.CoversLatest)
	assert.NotEmpty(t, empty.Suggested)
}

func TestTransactions(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	lines, err := b.Transactions(context.Background(), "Q1 2023", 0)
	require.NoError(t, err)
	require.Len(t, lines, 5)

	// Newest first.
	assert.Equal(t, "2023-06-21", lines[0].Date.Format("2006-01-02"))
	assert.Equal(t, "HDFC BANK", lines[0].Ledger)
	assert.InDelta(t, -15000, lines[0].Amount, 0.01)

	capped, err := b.Transactions(context.Background(), "Q1 2023", 2)
	require.NoError(t, err)
	assert.Len(t, capped, 2)
}

func TestBuilderAbsorbsClosedStore(t *testing.T) {
	t.Parallel()
	b := newTestBuilder(t)

	broken, err := database.OpenWritable(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	require.NoError(t, broken.Close())
	b.Entries = repository.NewEntryRepo(broken)
	b.Ledgers = repository.NewLedgerRepo(broken)

	pl, plErr := b.ProfitLoss(context.Background(), "Q1 2023")
	require.Error(t, plErr)
	assert.NotEmpty(t, pl.Err)
	assert.Equal(t, "Q1 2023", pl.Range.Description)

	nw, nwErr := b.NetWorth(context.Background())
	require.Error(t, nwErr)
	assert.NotEmpty(t, nw.Err)
}
