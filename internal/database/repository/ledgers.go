package repository

import (
	"context"
	"database/sql"
	"strings"
)

// LedgerRepo reads the ledger master. Opening balances are the current
// snapshot; the store keeps no point-in-time history.
type LedgerRepo struct {
	db *sql.DB
}

func NewLedgerRepo(db *sql.DB) *LedgerRepo { return &LedgerRepo{db: db} }

// NonZeroBalances returns every ledger with a non-zero opening balance,
// largest first.
func (r *LedgerRepo) NonZeroBalances(ctx context.Context) ([]LedgerBalance, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT name, COALESCE(parent, ''), opening_balance
	FROM mst_ledger
	WHERE opening_balance != 0
	ORDER BY opening_balance DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBalances(rows)
}

// BalancesMatching returns non-zero balances for ledgers whose name or
// parent group matches any of the given substrings (case-insensitive).
func (r *LedgerRepo) BalancesMatching(ctx context.Context, terms ...string) ([]LedgerBalance, error) {
	if len(terms) == 0 {
		return r.NonZeroBalances(ctx)
	}
	var clauses []string
	var args []interface{}
	for _, term := range terms {
		clauses = append(clauses, "UPPER(name) LIKE UPPER(?) OR UPPER(COALESCE(parent, '')) LIKE UPPER(?)")
		p := LikePattern(term)
		args = append(args, p, p)
	}
	query := `
	SELECT name, COALESCE(parent, ''), opening_balance
	FROM mst_ledger
	WHERE (` + strings.Join(clauses, " OR ") + `)
	AND opening_balance != 0
	ORDER BY opening_balance DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBalances(rows)
}

func scanBalances(rows *sql.Rows) ([]LedgerBalance, error) {
	var out []LedgerBalance
	for rows.Next() {
		var lb LedgerBalance
		if err := rows.Scan(&lb.Name, &lb.Parent, &lb.OpeningBalance); err != nil {
			return nil, err
		}
		out = append(out, lb)
	}
	return out, rows.Err()
}
