package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfitLossRuleOrder(t *testing.T) {
	t.Parallel()

	// Voucher semantics outrank ledger text: a Sales voucher posting to a
	// ledger with PURCHASE in the name is still revenue.
	assert.Equal(t, Revenue, ProfitLoss("Sales", "PURCHASE RETURNS", ""))
	assert.Equal(t, Revenue, ProfitLoss("GST Sales", "AR MOBILES", "SUNDRY DEBTORS"))
	assert.Equal(t, Revenue, ProfitLoss("Journal", "SALES ACCOUNT", ""))

	assert.Equal(t, COGS, ProfitLoss("Purchase", "SAMSUNG DISTRIBUTORS", ""))
	assert.Equal(t, COGS, ProfitLoss("Purchase -  Samsung", "STOCK", ""))
	assert.Equal(t, COGS, ProfitLoss("Journal", "PURCHASE ACCOUNT", ""))

	assert.Equal(t, OperatingExpense, ProfitLoss("Payment", "SHOP RENT", ""))
	assert.Equal(t, OperatingExpense, ProfitLoss("Payment", "STAFF SALARY", ""))
	assert.Equal(t, OperatingExpense, ProfitLoss("Journal", "MISC", "INDIRECT EXPENSES"))

	assert.Equal(t, OtherIncome, ProfitLoss("Receipt", "AR MOBILES", "SUNDRY DEBTORS"))
	assert.Equal(t, OtherIncome, ProfitLoss("Journal", "BANK INTEREST", ""))

	assert.Equal(t, Unclassified, ProfitLoss("Contra", "SUSPENSE", ""))
}

func TestProfitLossIsPure(t *testing.T) {
	t.Parallel()
	for i := 0; i < 3; i++ {
		assert.Equal(t, Revenue, ProfitLoss("Sales", "SALES ACCOUNT", ""))
		assert.Equal(t, Unclassified, ProfitLoss("", "", ""))
	}
}

func TestBalanceSheetClassification(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Capital, BalanceSheet("PROPRIETOR CAPITAL", "CAPITAL ACCOUNT", 300000).Category)
	assert.Equal(t, Capital, BalanceSheet("CAPITAL RESERVE", "", 1000).Category)

	bank := BalanceSheet("HDFC BANK", "BANK ACCOUNTS", 250000)
	assert.Equal(t, Asset, bank.Category)
	assert.Equal(t, "Current Asset", bank.AssetKind)

	fixed := BalanceSheet("DELIVERY VAN", "MOTOR VEHICLES", 150000)
	assert.Equal(t, Asset, fixed.Category)
	assert.Equal(t, "Fixed Asset", fixed.AssetKind)

	assert.Equal(t, Liability, BalanceSheet("SAMSUNG DISTRIBUTORS", "SUNDRY CREDITORS", 90000).Category)

	assert.Equal(t, Unclassified, BalanceSheet("SUSPENSE", "MISC", 0).Category)
}

func TestBalanceSheetNegativeBalanceFoldsToAsset(t *testing.T) {
	t.Parallel()

	// A negative balance classifies as a fixed asset whatever the parent
	// group says. Known quirk carried over from the source system.
	got := BalanceSheet("OVERDRAWN CREDITOR", "SUNDRY CREDITORS", -5000)
	assert.Equal(t, Asset, got.Category)
	assert.Equal(t, "Fixed Asset", got.AssetKind)
}

func TestCashFlowSubClassification(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OperatingFlow, CashFlow("Sales", "HDFC BANK", 5000))
	assert.Equal(t, OperatingFlow, CashFlow("Receipt", "CASH IN HAND", 2000))
	assert.Equal(t, OperatingFlow, CashFlow("Payment", "HDFC BANK", -3000))
	assert.Equal(t, OperatingFlow, CashFlow("Purchase", "HDFC BANK", -9000))

	assert.Equal(t, FinancingFlow, CashFlow("Receipt", "TERM LOAN", 100000))
	assert.Equal(t, FinancingFlow, CashFlow("Payment", "CAPITAL ACCOUNT", -50000))

	assert.Equal(t, Unclassified, CashFlow("Contra", "HDFC BANK", 1000))
	assert.Equal(t, Unclassified, CashFlow("Journal", "HDFC BANK", -1000))
}

func TestSalesCategory(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Mobile", SalesCategory("SAMSUNG GALAXY SALES"))
	assert.Equal(t, "Mobile", SalesCategory("mobile counter"))
	assert.Equal(t, "Accessories", SalesCategory("CHARGER SALES"))
	assert.Equal(t, "Other", SalesCategory("SERVICE INCOME"))
}
