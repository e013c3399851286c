package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// SeedSample loads a small ledger into an empty store copy. It exists so the
// CLI can demo reports without a real Tally export, and is idempotent.
func SeedSample(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trn_voucher`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	vouchers := []struct {
		date, voucherType, ledger string
		amount                    float64
	}{
		{"2023-04-12", "Sales", "SALES ACCOUNT", 100000},
		{"2023-04-12", "Sales", "AR MOBILES", -100000},
		{"2023-05-03", "Purchase", "PURCHASE ACCOUNT", 60000},
		{"2023-05-03", "Purchase", "HDFC BANK", -60000},
		{"2023-06-20", "Payment", "SHOP RENT", 15000},
		{"2023-06-20", "Payment", "HDFC BANK", -15000},
		{"2023-07-08", "Receipt", "HDFC BANK", 80000},
		{"2023-07-08", "Receipt", "AR MOBILES", -80000},
	}
	for _, v := range vouchers {
		guid := uuid.NewSHA1(uuid.NameSpaceOID, []byte("sample:"+v.date+v.ledger)).String()
		if _, err := db.ExecContext(ctx,
			`INSERT INTO trn_voucher(guid, date, voucher_type) VALUES(?, ?, ?)`,
			guid, v.date, v.voucherType); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO trn_accounting(guid, ledger, amount) VALUES(?, ?, ?)`,
			guid, v.ledger, v.amount); err != nil {
			return err
		}
	}

	ledgers := []struct {
		name, parent string
		balance      float64
	}{
		{"HDFC BANK", "BANK ACCOUNTS", 250000},
		{"CASH IN HAND", "CASH-IN-HAND", 40000},
		{"AR MOBILES", "SUNDRY DEBTORS", 120000},
		{"SAMSUNG DISTRIBUTORS", "SUNDRY CREDITORS", 90000},
		{"PROPRIETOR CAPITAL", "CAPITAL ACCOUNT", 300000},
	}
	for _, l := range ledgers {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO mst_ledger(name, parent, opening_balance) VALUES(?, ?, ?)`,
			l.name, l.parent, l.balance); err != nil {
			return err
		}
	}

	stock := []struct {
		name, category string
		qty, rate      float64
	}{
		{"SAMSUNG GALAXY A54", "Mobile", 12, 28000},
		{"SAMSUNG GALAXY S23", "Mobile", 4, 65000},
		{"USB-C CHARGER 25W", "Accessories", 40, 1200},
	}
	for _, s := range stock {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO mst_stock_item(name, category, quantity, rate) VALUES(?, ?, ?, ?)`,
			s.name, s.category, s.qty, s.rate); err != nil {
			return err
		}
	}
	return nil
}
