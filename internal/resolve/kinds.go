package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"github.com/jeethk/finsight/internal/database/repository"
)

// ClientMatch is one ledger that looks like the requested party.
type ClientMatch struct {
	Name          string
	Transactions  int
	TotalPositive float64
	TotalNegative float64
	Net           float64
	First         time.Time
	Last          time.Time
}

// ClientReport answers a client-verification request.
type ClientReport struct {
	Query    string
	Verified bool
	Matches  []ClientMatch
}

// FinancialReport is a per-year income/expense summary, or just raw store
// counts when only the basic fallback succeeded.
type FinancialReport struct {
	Years       []YearSummary
	TotalProfit float64

	BasicTransactions int
	BasicAccounts     int
}

// YearSummary is one year's income statement in miniature.
type YearSummary struct {
	Year         string
	Transactions int
	Income       float64
	Expenses     float64
	Profit       float64
	Margin       float64
	Accounts     int
}

// SalesReport answers a sales request: a per-voucher-type breakdown, or
// the positive-amount estimate from the fallback tier.
type SalesReport struct {
	Breakdown  []repository.GroupTotal
	TotalSales float64

	EstimatedTransactions int
	EstimatedTotal        float64
}

// CashAccount is one cash or bank ledger with its movement-derived balance.
type CashAccount struct {
	Name         string
	Balance      float64
	Transactions int
	Type         string
}

// CashReport answers a cash/balance request.
type CashReport struct {
	Accounts []CashAccount
	Total    float64
}

// InventoryReport answers an inventory request.
type InventoryReport struct {
	Items        []repository.StockItem
	TotalValue   float64
	SamsungItems int
}

// OverviewReport is the whole-store headline numbers.
type OverviewReport struct {
	Vouchers      int
	Entries       int
	UniqueLedgers int
	GrossAmount   float64
}

const clientFuzzyMaxDistance = 2

func (r *Resolver) client(ctx context.Context, log zerolog.Logger, req Request) Result {
	name := req.ClientName
	if name == "" {
		name = req.Query
	}
	res := Result{Client: &ClientReport{Query: name}}

	// Tier 1: targeted ledger search.
	if r.tier(ctx, log, "targeted", func(tctx context.Context) (bool, error) {
		activity, err := r.Entries.LedgerActivity(tctx, repository.LikePattern(name))
		if err != nil {
			return false, err
		}
		for _, a := range activity {
			res.Client.Matches = append(res.Client.Matches, clientMatch(a))
		}
		return len(activity) > 0, nil
	}) {
		res.Client.Verified = true
		res.Method = "Targeted ledger search"
		res.Confidence = ConfidenceHigh
		res.Fulfilled = true
		return res
	}

	// Tier 2: fuzzy broadening over all ledger names.
	if r.tier(ctx, log, "fuzzy", func(tctx context.Context) (bool, error) {
		ledgers, err := r.Entries.DistinctLedgers(tctx)
		if err != nil {
			return false, err
		}
		want := strings.ToUpper(strings.TrimSpace(name))
		for _, ledger := range ledgers {
			if fuzzyMatch(want, strings.ToUpper(ledger)) {
				res.Client.Matches = append(res.Client.Matches, ClientMatch{Name: ledger})
			}
		}
		return len(res.Client.Matches) > 0, nil
	}) {
		res.Client.Verified = true
		res.Method = "Fuzzy ledger scan"
		res.Confidence = ConfidenceMedium
		res.Fulfilled = true
		return res
	}

	// Tier 3: full scan, report the busiest ledgers as candidates.
	if r.tier(ctx, log, "full-scan", func(tctx context.Context) (bool, error) {
		activity, err := r.Entries.LedgerActivity(tctx, "%")
		if err != nil {
			return false, err
		}
		limit := 10
		for _, a := range activity {
			if limit == 0 {
				break
			}
			res.Client.Matches = append(res.Client.Matches, clientMatch(a))
			limit--
		}
		return len(res.Client.Matches) > 0, nil
	}) {
		res.Method = "Full ledger scan"
		res.Confidence = ConfidenceLow
		res.Fulfilled = true
		return res
	}

	out := r.emergency(KindClient)
	out.Client = res.Client
	return out
}

// fuzzyMatch accepts substring hits in either direction, then word-level
// edit distance for spelling drift ("MOBILS" finds "AR MOBILES").
func fuzzyMatch(want, have string) bool {
	if want == "" {
		return false
	}
	if strings.Contains(have, want) || strings.Contains(want, have) {
		return true
	}
	for _, wantWord := range strings.Fields(want) {
		if len(wantWord) < 4 {
			continue
		}
		for _, haveWord := range strings.Fields(have) {
			if len(haveWord) < 4 {
				continue
			}
			if levenshtein.ComputeDistance(wantWord, haveWord) <= clientFuzzyMaxDistance {
				return true
			}
		}
	}
	return false
}

func clientMatch(a repository.LedgerActivity) ClientMatch {
	return ClientMatch{
		Name:          a.Ledger,
		Transactions:  a.Count,
		TotalPositive: a.TotalPositive,
		TotalNegative: a.TotalNegative,
		Net:           a.TotalPositive + a.TotalNegative,
		First:         a.First,
		Last:          a.Last,
	}
}

func (r *Resolver) financial(ctx context.Context, log zerolog.Logger) Result {
	res := Result{Financial: &FinancialReport{}}

	if r.tier(ctx, log, "yearly", func(tctx context.Context) (bool, error) {
		years, err := r.Entries.YearlyFinancials(tctx)
		if err != nil {
			return false, err
		}
		for _, y := range years {
			profit := y.Income - y.Expense
			floor := y.Income
			if floor < 1 {
				floor = 1
			}
			res.Financial.Years = append(res.Financial.Years, YearSummary{
				Year:         y.Year,
				Transactions: y.Count,
				Income:       y.Income,
				Expenses:     y.Expense,
				Profit:       profit,
				Margin:       profit / floor * 100,
				Accounts:     y.UniqueLedgers,
			})
			res.Financial.TotalProfit += profit
		}
		return len(years) > 0, nil
	}) {
		res.Method = "Yearly financial breakdown"
		res.Confidence = ConfidenceHigh
		res.Fulfilled = true
		return res
	}

	if r.tier(ctx, log, "basic", func(tctx context.Context) (bool, error) {
		totals, err := r.Entries.Totals(tctx)
		if err != nil {
			return false, err
		}
		res.Financial.BasicTransactions = totals.Entries
		res.Financial.BasicAccounts = totals.UniqueLedgers
		return totals.Entries > 0, nil
	}) {
		res.Method = "Basic store counts"
		res.Confidence = ConfidenceLow
		res.Fulfilled = true
		return res
	}

	out := r.emergency(KindFinancial)
	out.Financial = res.Financial
	return out
}

func (r *Resolver) sales(ctx context.Context, log zerolog.Logger) Result {
	res := Result{Sales: &SalesReport{}}

	if r.tier(ctx, log, "by-voucher-type", func(tctx context.Context) (bool, error) {
		groups, err := r.Entries.VoucherTypeTotals(tctx, "%Sales%")
		if err != nil {
			return false, err
		}
		res.Sales.Breakdown = groups
		for _, g := range groups {
			res.Sales.TotalSales += g.Total
		}
		return len(groups) > 0, nil
	}) {
		res.Method = "Sales voucher analysis"
		res.Confidence = ConfidenceHigh
		res.Fulfilled = true
		return res
	}

	if r.tier(ctx, log, "positive-sum", func(tctx context.Context) (bool, error) {
		count, total, err := r.Entries.PositiveTotals(tctx)
		if err != nil {
			return false, err
		}
		res.Sales.EstimatedTransactions = count
		res.Sales.EstimatedTotal = total
		return count > 0, nil
	}) {
		res.Method = "Positive-amount estimate"
		res.Confidence = ConfidenceMedium
		res.Fulfilled = true
		return res
	}

	out := r.emergency(KindSales)
	out.Sales = res.Sales
	return out
}

func (r *Resolver) cash(ctx context.Context, log zerolog.Logger) Result {
	res := Result{Cash: &CashReport{}}

	if r.tier(ctx, log, "movement-balances", func(tctx context.Context) (bool, error) {
		for _, pattern := range []string{"%CASH%", "%BANK%"} {
			activity, err := r.Entries.LedgerActivity(tctx, pattern)
			if err != nil {
				return false, err
			}
			for _, a := range activity {
				acctType := "Bank"
				if strings.Contains(strings.ToUpper(a.Ledger), "CASH") {
					acctType = "Cash"
				}
				balance := a.TotalPositive + a.TotalNegative
				res.Cash.Accounts = append(res.Cash.Accounts, CashAccount{
					Name:         a.Ledger,
					Balance:      balance,
					Transactions: a.Count,
					Type:         acctType,
				})
				res.Cash.Total += balance
			}
		}
		return len(res.Cash.Accounts) > 0, nil
	}) {
		res.Method = "Cash and bank movement analysis"
		res.Confidence = ConfidenceHigh
		res.Fulfilled = true
		return res
	}

	if r.tier(ctx, log, "opening-balances", func(tctx context.Context) (bool, error) {
		balances, err := r.Ledgers.BalancesMatching(tctx, "CASH", "BANK")
		if err != nil {
			return false, err
		}
		for _, b := range balances {
			res.Cash.Accounts = append(res.Cash.Accounts, CashAccount{
				Name:    b.Name,
				Balance: b.OpeningBalance,
				Type:    "Ledger",
			})
			res.Cash.Total += b.OpeningBalance
		}
		return len(balances) > 0, nil
	}) {
		res.Method = "Opening balance snapshot"
		res.Confidence = ConfidenceMedium
		res.Fulfilled = true
		return res
	}

	out := r.emergency(KindCash)
	out.Cash = res.Cash
	return out
}

func (r *Resolver) inventory(ctx context.Context, log zerolog.Logger) Result {
	res := Result{Inventory: &InventoryReport{}}

	record := func(items []repository.StockItem) {
		res.Inventory.Items = items
		res.Inventory.TotalValue = 0
		res.Inventory.SamsungItems = 0
		for _, it := range items {
			res.Inventory.TotalValue += it.Value
			if strings.Contains(strings.ToUpper(it.Name), "SAMSUNG") {
				res.Inventory.SamsungItems++
			}
		}
	}

	if r.tier(ctx, log, "in-stock", func(tctx context.Context) (bool, error) {
		items, err := r.Stock.InStock(tctx, 50)
		if err != nil {
			return false, err
		}
		record(items)
		return len(items) > 0, nil
	}) {
		res.Method = "Stock item analysis"
		res.Confidence = ConfidenceHigh
		res.Fulfilled = true
		return res
	}

	if r.tier(ctx, log, "all-items", func(tctx context.Context) (bool, error) {
		items, err := r.Stock.All(tctx)
		if err != nil {
			return false, err
		}
		record(items)
		return len(items) > 0, nil
	}) {
		res.Method = "Full stock listing"
		res.Confidence = ConfidenceMedium
		res.Fulfilled = true
		return res
	}

	out := r.emergency(KindInventory)
	out.Inventory = res.Inventory
	return out
}

func (r *Resolver) overview(ctx context.Context, log zerolog.Logger) Result {
	res := Result{Overview: &OverviewReport{}}

	if r.tier(ctx, log, "totals", func(tctx context.Context) (bool, error) {
		totals, err := r.Entries.Totals(tctx)
		if err != nil {
			return false, err
		}
		res.Overview.Vouchers = totals.Vouchers
		res.Overview.Entries = totals.Entries
		res.Overview.UniqueLedgers = totals.UniqueLedgers
		res.Overview.GrossAmount = totals.GrossAmount
		return totals.Vouchers > 0, nil
	}) {
		res.Method = "Business metrics analysis"
		res.Confidence = ConfidenceHigh
		res.Fulfilled = true
		return res
	}

	out := r.emergency(KindOverview)
	out.Overview = res.Overview
	return out
}

// generic mirrors the keyword search of the universal fallback: pull
// whatever the query text hints at, else the busiest ledgers.
func (r *Resolver) generic(ctx context.Context, log zerolog.Logger, req Request) Result {
	if kind := KindFromString(req.Query); kind != KindGeneric {
		return r.Resolve(ctx, Request{Kind: kind, Query: req.Query, ClientName: req.ClientName})
	}

	res := Result{Client: &ClientReport{Query: req.Query}}
	if r.tier(ctx, log, "busiest-ledgers", func(tctx context.Context) (bool, error) {
		activity, err := r.Entries.LedgerActivity(tctx, "%")
		if err != nil {
			return false, err
		}
		for _, a := range activity {
			if a.Count > 5 {
				res.Client.Matches = append(res.Client.Matches, clientMatch(a))
			}
			if len(res.Client.Matches) == 15 {
				break
			}
		}
		return len(res.Client.Matches) > 0, nil
	}) {
		res.Method = "Broad ledger survey"
		res.Confidence = ConfidenceLow
		res.Fulfilled = true
		return res
	}

	return r.emergency(KindGeneric)
}
