// Package classify tags accounting entries with financial categories using
// layered heuristics. Rules are ordered by confidence: voucher semantics
// beat ledger-name text, which beats parent-group text. The functions are
// pure, so the same inputs always land in the same category.
package classify

import "strings"

// Category is a financial classification tag. The same ledger may classify
// differently for a P&L than for a balance sheet; callers pick the context.
type Category string

const (
	Revenue          Category = "revenue"
	COGS             Category = "cogs"
	OperatingExpense Category = "operating_expense"
	OtherIncome      Category = "other_income"
	OtherExpense     Category = "other_expense"
	Asset            Category = "asset"
	Liability        Category = "liability"
	Capital          Category = "capital"
	OperatingFlow    Category = "operating_flow"
	FinancingFlow    Category = "financing_flow"
	InvestingFlow    Category = "investing_flow"
	Unclassified     Category = "unclassified"
)

// Voucher-type literals recognised by the rule engine. Tally installations
// carry site-specific type names alongside the stock ones.
var (
	salesVouchers    = []string{"Sales", "GST Sales"}
	purchaseVouchers = []string{"Purchase", "Purchase -  Samsung"}
	receiptVouchers  = []string{"Receipt", "Receipt  SGH"}
	paymentVouchers  = []string{"Payment"}
)

var (
	opexLedgerKeywords  = []string{"RENT", "SALARY", "ELECTRICITY", "TELEPHONE"}
	opexParentKeywords  = []string{"EXPENSE", "INDIRECT"}
	otherIncomeKeywords = []string{"INTEREST", "COMMISSION"}
	financingKeywords   = []string{"LOAN", "CAPITAL"}
)

// ProfitLoss assigns the P&L category for one entry. First match wins:
// voucher-type literal, then ledger-name keyword, then parent-group keyword.
func ProfitLoss(voucherType, ledger, parent string) Category {
	ledgerUpper := strings.ToUpper(ledger)
	parentUpper := strings.ToUpper(parent)

	switch {
	case isOneOf(voucherType, salesVouchers) || strings.Contains(ledgerUpper, "SALES"):
		return Revenue
	case isOneOf(voucherType, purchaseVouchers) || strings.Contains(ledgerUpper, "PURCHASE"):
		return COGS
	case containsAny(parentUpper, opexParentKeywords) || containsAny(ledgerUpper, opexLedgerKeywords):
		return OperatingExpense
	case isOneOf(voucherType, receiptVouchers) || containsAny(ledgerUpper, otherIncomeKeywords):
		return OtherIncome
	default:
		return Unclassified
	}
}

// BalanceClass is the balance-sheet classification of one ledger balance.
type BalanceClass struct {
	Category Category
	// AssetKind distinguishes current from fixed assets; empty otherwise.
	AssetKind string
}

// BalanceSheet classifies a ledger snapshot row. A negative opening balance
// folds into assets at its magnitude regardless of parent group; this
// mirrors the source system's historical behaviour and is relied on by
// downstream totals, so it is preserved rather than corrected.
func BalanceSheet(name, parent string, balance float64) BalanceClass {
	nameUpper := strings.ToUpper(name)
	parentUpper := strings.ToUpper(parent)

	switch {
	case strings.Contains(parentUpper, "CAPITAL") || strings.Contains(nameUpper, "CAPITAL"):
		return BalanceClass{Category: Capital}
	case containsAny(parentUpper, []string{"BANK", "CASH", "DEPOSIT"}) && balance > 0:
		return BalanceClass{Category: Asset, AssetKind: "Current Asset"}
	case containsAny(parentUpper, []string{"MOTOR", "FIXED", "ASSET"}) || balance < 0:
		return BalanceClass{Category: Asset, AssetKind: "Fixed Asset"}
	case balance > 0:
		return BalanceClass{Category: Liability}
	default:
		return BalanceClass{Category: Unclassified}
	}
}

// CashFlow sub-classifies a cash/bank entry. Inflows from sales or receipt
// vouchers and outflows from payment or purchase vouchers are operating;
// loan and capital ledgers are financing regardless of direction.
func CashFlow(voucherType, ledger string, amount float64) Category {
	ledgerUpper := strings.ToUpper(ledger)

	if containsAny(ledgerUpper, financingKeywords) {
		return FinancingFlow
	}
	if amount > 0 {
		if isOneOf(voucherType, salesVouchers) || isOneOf(voucherType, receiptVouchers) {
			return OperatingFlow
		}
		return Unclassified
	}
	if isOneOf(voucherType, paymentVouchers) || isOneOf(voucherType, purchaseVouchers) {
		return OperatingFlow
	}
	return Unclassified
}

// SalesVoucher reports whether the voucher type is a sales literal.
func SalesVoucher(voucherType string) bool {
	return isOneOf(voucherType, salesVouchers)
}

// PurchaseVoucher reports whether the voucher type is a purchase literal.
func PurchaseVoucher(voucherType string) bool {
	return isOneOf(voucherType, purchaseVouchers)
}

// SalesCategory buckets a sales ledger into a product line.
func SalesCategory(ledger string) string {
	upper := strings.ToUpper(ledger)
	switch {
	case containsAny(upper, []string{"MOBILE", "PHONE", "GALAXY", "SAMSUNG"}):
		return "Mobile"
	case containsAny(upper, []string{"CASE", "COVER", "CHARGER", "ACCESSORY"}):
		return "Accessories"
	default:
		return "Other"
	}
}

func isOneOf(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
