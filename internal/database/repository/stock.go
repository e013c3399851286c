package repository

import (
	"context"
	"database/sql"
)

// StockRepo reads the stock item master.
type StockRepo struct {
	db *sql.DB
}

func NewStockRepo(db *sql.DB) *StockRepo { return &StockRepo{db: db} }

// InStock returns items with positive quantity, most valuable first.
// limit <= 0 means no limit.
func (r *StockRepo) InStock(ctx context.Context, limit int) ([]StockItem, error) {
	query := `
	SELECT name, COALESCE(category, ''), quantity, rate,
	       CAST(quantity AS REAL) * CAST(rate AS REAL) AS value
	FROM mst_stock_item
	WHERE quantity > 0
	ORDER BY value DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStock(rows)
}

// All returns every stock item regardless of quantity, most valuable first.
func (r *StockRepo) All(ctx context.Context) ([]StockItem, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT name, COALESCE(category, ''), quantity, rate,
	       CAST(quantity AS REAL) * CAST(rate AS REAL) AS value
	FROM mst_stock_item
	ORDER BY value DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStock(rows)
}

// Matching returns items whose name or category contains term.
func (r *StockRepo) Matching(ctx context.Context, term string) ([]StockItem, error) {
	p := LikePattern(term)
	rows, err := r.db.QueryContext(ctx, `
	SELECT name, COALESCE(category, ''), quantity, rate,
	       CAST(quantity AS REAL) * CAST(rate AS REAL) AS value
	FROM mst_stock_item
	WHERE UPPER(name) LIKE UPPER(?) OR UPPER(COALESCE(category, '')) LIKE UPPER(?)
	ORDER BY value DESC`, p, p)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStock(rows)
}

func scanStock(rows *sql.Rows) ([]StockItem, error) {
	var out []StockItem
	for rows.Next() {
		var s StockItem
		if err := rows.Scan(&s.Name, &s.Category, &s.Quantity, &s.Rate, &s.Value); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
