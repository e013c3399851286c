package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// EntryRepo reads vouchers joined with accounting entries. All queries are
// read-only; the engine never mutates the store.
type EntryRepo struct {
	db *sql.DB
}

func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

const entryColumns = `v.date, v.voucher_type, a.ledger, a.amount, COALESCE(l.parent, '')`

const entryJoin = `
FROM trn_accounting a
JOIN trn_voucher v ON a.guid = v.guid
LEFT JOIN mst_ledger l ON a.ledger = l.name`

// InRange returns every entry with a voucher date inside [from, to].
func (r *EntryRepo) InRange(ctx context.Context, from, to time.Time) ([]Entry, error) {
	query := `SELECT ` + entryColumns + entryJoin + `
	WHERE v.date >= ? AND v.date <= ?
	ORDER BY v.date DESC, a.amount DESC`
	rows, err := r.db.QueryContext(ctx, query, formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// CashInRange returns entries touching cash or bank ledgers inside [from, to].
func (r *EntryRepo) CashInRange(ctx context.Context, from, to time.Time) ([]Entry, error) {
	query := `SELECT ` + entryColumns + entryJoin + `
	WHERE (UPPER(a.ledger) LIKE '%BANK%' OR UPPER(a.ledger) LIKE '%CASH%' OR UPPER(COALESCE(l.parent, '')) LIKE '%BANK%')
	AND v.date >= ? AND v.date <= ?
	ORDER BY v.date DESC, a.amount DESC`
	rows, err := r.db.QueryContext(ctx, query, formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// GroupedInRange aggregates entries by (voucher_type, ledger) inside [from, to],
// largest totals first so material rows surface before the noise.
func (r *EntryRepo) GroupedInRange(ctx context.Context, from, to time.Time) ([]GroupTotal, error) {
	query := `
	SELECT v.voucher_type, a.ledger, COALESCE(l.parent, '') AS parent,
	       SUM(CAST(a.amount AS REAL)) AS total, COUNT(*) AS cnt
	FROM trn_accounting a
	JOIN trn_voucher v ON a.guid = v.guid
	LEFT JOIN mst_ledger l ON l.name = a.ledger
	WHERE v.date >= ? AND v.date <= ?
	GROUP BY v.voucher_type, a.ledger
	ORDER BY total DESC`
	rows, err := r.db.QueryContext(ctx, query, formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupTotal
	for rows.Next() {
		var g GroupTotal
		if err := rows.Scan(&g.VoucherType, &g.Ledger, &g.Parent, &g.Total, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// PositiveGroupedInRange aggregates positive entries by ledger inside [from, to].
func (r *EntryRepo) PositiveGroupedInRange(ctx context.Context, from, to time.Time) ([]GroupTotal, error) {
	query := `
	SELECT '' AS voucher_type, a.ledger, SUM(CAST(a.amount AS REAL)) AS total, COUNT(*) AS cnt
	FROM trn_accounting a
	JOIN trn_voucher v ON a.guid = v.guid
	WHERE v.date >= ? AND v.date <= ? AND CAST(a.amount AS REAL) > 0
	GROUP BY a.ledger
	ORDER BY total DESC`
	rows, err := r.db.QueryContext(ctx, query, formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupTotal
	for rows.Next() {
		var g GroupTotal
		if err := rows.Scan(&g.VoucherType, &g.Ledger, &g.Total, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// LedgerActivity summarises transaction history for ledgers matching pattern
// (SQL LIKE, case-insensitive), busiest ledgers first.
func (r *EntryRepo) LedgerActivity(ctx context.Context, pattern string) ([]LedgerActivity, error) {
	query := `
	SELECT a.ledger,
	       COUNT(*) AS cnt,
	       SUM(CASE WHEN CAST(a.amount AS REAL) > 0 THEN CAST(a.amount AS REAL) ELSE 0 END) AS pos,
	       SUM(CASE WHEN CAST(a.amount AS REAL) < 0 THEN CAST(a.amount AS REAL) ELSE 0 END) AS neg,
	       MIN(v.date) AS first_date,
	       MAX(v.date) AS last_date
	FROM trn_accounting a
	JOIN trn_voucher v ON a.guid = v.guid
	WHERE UPPER(a.ledger) LIKE UPPER(?)
	GROUP BY a.ledger
	ORDER BY cnt DESC`
	rows, err := r.db.QueryContext(ctx, query, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LedgerActivity
	for rows.Next() {
		var la LedgerActivity
		var first, last string
		if err := rows.Scan(&la.Ledger, &la.Count, &la.TotalPositive, &la.TotalNegative, &first, &last); err != nil {
			return nil, err
		}
		la.First = parseDate(first)
		la.Last = parseDate(last)
		out = append(out, la)
	}
	return out, rows.Err()
}

// DistinctLedgers lists every ledger name that appears in the entries.
func (r *EntryRepo) DistinctLedgers(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT DISTINCT ledger FROM trn_accounting
	WHERE ledger IS NOT NULL AND ledger != ''
	ORDER BY ledger`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// LatestMonth returns the most recent calendar month carrying any voucher,
// derived from the data itself rather than wall-clock time.
func (r *EntryRepo) LatestMonth(ctx context.Context) (year int, month time.Month, err error) {
	var ym string
	err = r.db.QueryRowContext(ctx, `
	SELECT substr(date, 1, 7) FROM trn_voucher
	WHERE date IS NOT NULL
	GROUP BY substr(date, 1, 7)
	ORDER BY substr(date, 1, 7) DESC
	LIMIT 1`).Scan(&ym)
	if err != nil {
		return 0, 0, err
	}
	t, perr := time.Parse("2006-01", ym)
	if perr != nil {
		return 0, 0, perr
	}
	return t.Year(), t.Month(), nil
}

// MonthlyActivity returns voucher counts per calendar month, oldest first.
func (r *EntryRepo) MonthlyActivity(ctx context.Context) ([]MonthActivity, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT substr(date, 1, 7) AS ym, COUNT(*) AS cnt
	FROM trn_voucher
	WHERE date IS NOT NULL
	GROUP BY substr(date, 1, 7)
	ORDER BY ym`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthActivity
	for rows.Next() {
		var m MonthActivity
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// YearlyActivity returns voucher counts and date spans per calendar year.
func (r *EntryRepo) YearlyActivity(ctx context.Context) ([]YearActivity, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT substr(date, 1, 4) AS y, COUNT(*) AS cnt, MIN(date) AS first_date, MAX(date) AS last_date
	FROM trn_voucher
	WHERE date IS NOT NULL
	GROUP BY substr(date, 1, 4)
	ORDER BY y`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []YearActivity
	for rows.Next() {
		var ya YearActivity
		var first, last string
		if err := rows.Scan(&ya.Year, &ya.Count, &first, &last); err != nil {
			return nil, err
		}
		ya.First = parseDate(first)
		ya.Last = parseDate(last)
		out = append(out, ya)
	}
	return out, rows.Err()
}

// YearlyFinancials splits each year's entries into income and expense sides.
func (r *EntryRepo) YearlyFinancials(ctx context.Context) ([]YearFinancials, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT substr(v.date, 1, 4) AS y,
	       COUNT(*) AS cnt,
	       SUM(CASE WHEN CAST(a.amount AS REAL) > 0 THEN CAST(a.amount AS REAL) ELSE 0 END) AS income,
	       SUM(CASE WHEN CAST(a.amount AS REAL) < 0 THEN ABS(CAST(a.amount AS REAL)) ELSE 0 END) AS expense,
	       COUNT(DISTINCT a.ledger) AS ledgers
	FROM trn_accounting a
	JOIN trn_voucher v ON a.guid = v.guid
	WHERE v.date IS NOT NULL
	GROUP BY substr(v.date, 1, 4)
	ORDER BY y DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []YearFinancials
	for rows.Next() {
		var yf YearFinancials
		if err := rows.Scan(&yf.Year, &yf.Count, &yf.Income, &yf.Expense, &yf.UniqueLedgers); err != nil {
			return nil, err
		}
		out = append(out, yf)
	}
	return out, rows.Err()
}

// VoucherTypeTotals aggregates positive amounts by voucher type and year for
// voucher types or ledgers matching pattern.
func (r *EntryRepo) VoucherTypeTotals(ctx context.Context, pattern string) ([]GroupTotal, error) {
	query := `
	SELECT v.voucher_type, substr(v.date, 1, 4) AS y,
	       SUM(CASE WHEN CAST(a.amount AS REAL) > 0 THEN CAST(a.amount AS REAL) ELSE 0 END) AS total,
	       COUNT(*) AS cnt
	FROM trn_accounting a
	JOIN trn_voucher v ON a.guid = v.guid
	WHERE v.voucher_type LIKE ? OR a.ledger LIKE ?
	GROUP BY v.voucher_type, substr(v.date, 1, 4)
	ORDER BY total DESC`
	rows, err := r.db.QueryContext(ctx, query, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupTotal
	for rows.Next() {
		var g GroupTotal
		if err := rows.Scan(&g.VoucherType, &g.Ledger, &g.Total, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// CountInRange counts vouchers inside [from, to].
func (r *EntryRepo) CountInRange(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM trn_voucher WHERE date >= ? AND date <= ?`,
		formatDate(from), formatDate(to)).Scan(&count)
	return count, err
}

// Totals returns whole-store counts for full-scan fallbacks.
func (r *EntryRepo) Totals(ctx context.Context) (StoreTotals, error) {
	var t StoreTotals
	err := r.db.QueryRowContext(ctx, `
	SELECT (SELECT COUNT(*) FROM trn_voucher),
	       COUNT(*),
	       COUNT(DISTINCT ledger),
	       COALESCE(SUM(ABS(CAST(amount AS REAL))), 0)
	FROM trn_accounting
	WHERE amount IS NOT NULL`).Scan(&t.Vouchers, &t.Entries, &t.UniqueLedgers, &t.GrossAmount)
	return t, err
}

// PositiveTotals sums all positive entries, the crudest revenue estimate.
func (r *EntryRepo) PositiveTotals(ctx context.Context) (count int, total float64, err error) {
	err = r.db.QueryRowContext(ctx, `
	SELECT COUNT(*), COALESCE(SUM(CAST(amount AS REAL)), 0)
	FROM trn_accounting
	WHERE CAST(amount AS REAL) > 0`).Scan(&count, &total)
	return count, total, err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var date string
		if err := rows.Scan(&date, &e.VoucherType, &e.Ledger, &e.Amount, &e.Parent); err != nil {
			return nil, err
		}
		e.Date = parseDate(date)
		out = append(out, e)
	}
	return out, rows.Err()
}

// LikePattern wraps a term for substring matching, escaping nothing: the
// store is trusted input and patterns come from our own code.
func LikePattern(term string) string {
	return "%" + strings.TrimSpace(term) + "%"
}
