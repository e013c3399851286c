package repository

import "time"

// Entry is one accounting line joined with its voucher and ledger master.
type Entry struct {
	Date        time.Time
	VoucherType string
	Ledger      string
	Parent      string
	Amount      float64
}

// GroupTotal aggregates entries by (voucher_type, ledger).
type GroupTotal struct {
	VoucherType string
	Ledger      string
	Parent      string
	Total       float64
	Count       int
}

// LedgerBalance is a ledger-master row with its current opening balance.
type LedgerBalance struct {
	Name           string
	Parent         string
	OpeningBalance float64
}

// StockItem is an inventory row; Value = Quantity * Rate.
type StockItem struct {
	Name     string
	Category string
	Quantity float64
	Rate     float64
	Value    float64
}

// LedgerActivity summarises transaction history for one ledger.
type LedgerActivity struct {
	Ledger        string
	Count         int
	TotalPositive float64
	TotalNegative float64
	First         time.Time
	Last          time.Time
}

// MonthActivity is the voucher count for one calendar month ("2024-03").
type MonthActivity struct {
	Month string
	Count int
}

// YearActivity is the voucher count and span for one calendar year.
type YearActivity struct {
	Year  string
	Count int
	First time.Time
	Last  time.Time
}

// YearFinancials splits one year's entries into income and expense sides.
type YearFinancials struct {
	Year          string
	Count         int
	Income        float64
	Expense       float64
	UniqueLedgers int
}

// StoreTotals are whole-store counts used by full-scan fallbacks.
type StoreTotals struct {
	Vouchers      int
	Entries       int
	UniqueLedgers int
	GrossAmount   float64
}

const dateLayout = "2006-01-02"

// parseDate reads Tally's text dates, tolerating a trailing time component.
func parseDate(s string) time.Time {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
