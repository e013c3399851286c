// Command finsight answers financial queries against a Tally sqlite
// export and prints the result as JSON.
//
// Usage:
//
//	finsight [-db path] [-period expr] [-seed] <command> [arg]
//
// Commands: pnl, networth, cashflow, sales, cash, outstanding, report,
// metrics, compare, forecast, entries, periods, validate, ask.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeethk/finsight/internal/compare"
	"github.com/jeethk/finsight/internal/config"
	"github.com/jeethk/finsight/internal/database"
	"github.com/jeethk/finsight/internal/database/repository"
	"github.com/jeethk/finsight/internal/logger"
	"github.com/jeethk/finsight/internal/period"
	"github.com/jeethk/finsight/internal/ratio"
	"github.com/jeethk/finsight/internal/resolve"
	"github.com/jeethk/finsight/internal/statement"
)

func main() {
	dbPath := flag.String("db", "", "path to the Tally sqlite export (overrides config)")
	periodExpr := flag.String("period", "", "period expression, e.g. 'Q1 2023', 'April 2023', '2022 to 2024'")
	party := flag.String("party", "", "party name for the outstanding command")
	seed := flag.Bool("seed", false, "provision a sample store at the db path if empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	zl := logger.New()
	ctx := logger.WithContext(context.Background(), zl)

	if *seed {
		if err := provisionSample(ctx, cfg.Database.Path); err != nil {
			log.Fatalf("seed: %v", err)
		}
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	entries := repository.NewEntryRepo(db)
	ledgers := repository.NewLedgerRepo(db)
	stock := repository.NewStockRepo(db)
	resolver := period.Resolver{DefaultYear: cfg.Report.DefaultYear}

	builder := &statement.Builder{
		Entries: entries,
		Ledgers: ledgers,
		Stock:   stock,
		Periods: resolver,
		Company: cfg.Company.Name,
		Symbol:  cfg.Report.CurrencySymbol,
		TopN:    cfg.Report.TopN,
		Timeout: cfg.Report.QueryTimeout(),
		Log:     zl,
	}
	engine := &compare.Engine{
		Entries: entries,
		Periods: resolver,
		Symbol:  cfg.Report.CurrencySymbol,
		Timeout: cfg.Report.QueryTimeout(),
		Log:     zl,
	}
	queries := &resolve.Resolver{
		Entries: entries,
		Ledgers: ledgers,
		Stock:   stock,
		Company: cfg.Company.Name,
		Timeout: cfg.Report.QueryTimeout(),
		Log:     zl,
	}

	cmd := flag.Arg(0)
	rest := flag.Args()
	if len(rest) > 1 {
		rest = rest[1:]
	} else {
		rest = nil
	}

	var out any
	switch cmd {
	case "pnl":
		out, _ = builder.ProfitLoss(ctx, *periodExpr)
	case "networth":
		out, _ = builder.NetWorth(ctx)
	case "cashflow":
		out, _ = builder.CashFlow(ctx, *periodExpr)
	case "sales":
		out, _ = builder.Sales(ctx, *periodExpr)
	case "cash":
		out, _ = builder.CashBalance(ctx)
	case "outstanding":
		out, _ = builder.Outstanding(ctx, *party)
	case "report":
		out, _ = builder.Comprehensive(ctx, *periodExpr)
	case "metrics":
		rep, _ := builder.Comprehensive(ctx, *periodExpr)
		out = ratio.Compute(ratio.FromReport(rep))
	case "compare":
		out, _ = engine.Quarters(ctx, *periodExpr, rest)
	case "forecast":
		var f compare.Forecast
		f, err = engine.Forecast(ctx, builder, rest)
		if err != nil {
			log.Fatalf("forecast: %v", err)
		}
		out = f
	case "entries":
		out, _ = builder.Transactions(ctx, *periodExpr, 0)
	case "periods":
		out, _ = builder.AvailablePeriods(ctx)
	case "validate":
		out, _ = builder.ValidatePeriod(ctx, *periodExpr)
	case "ask":
		out = queries.Resolve(ctx, resolve.Request{Query: strings.Join(rest, " ")})
	case "":
		flag.Usage()
		os.Exit(2)
	default:
		log.Fatalf("unknown command %q", cmd)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode: %v", err)
	}
}

// provisionSample creates the store layout and a small demo dataset so the
// tool is usable without a real Tally export.
func provisionSample(ctx context.Context, path string) error {
	zl := logger.FromContext(ctx)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	db, err := database.OpenWritable(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.RunMigrationsWithDB(db, "internal/database/migrations"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedSample(ctx, db); err != nil {
		return err
	}
	zl.Info().Str("path", path).Msg("sample store provisioned")
	return nil
}
