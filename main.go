package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/tripwise/tripbudget/audit"
	"github.com/tripwise/tripbudget/budget"
	"github.com/tripwise/tripbudget/config"
	"github.com/tripwise/tripbudget/currency"
	"github.com/tripwise/tripbudget/tipping"
)

// tripReport is what the CLI prints for one trip: the budget summary, the
// category breakdown, and the settle-up plan.
type tripReport struct {
	Summary    *budget.Summary        `json:"summary"`
	Breakdown  []budget.CategoryTotal `json:"breakdown"`
	Settlement *budget.Settlement     `json:"settlement"`
}

func main() {
	tripFlag := flag.String("trip", "", "trip id to report on")
	budgetFlag := flag.Float64("budget", 0, "planned total budget for the trip")
	flag.Parse()

	if *tripFlag == "" {
		flag.Usage()
		os.Exit(2)
	}
	tripID, err := uuid.Parse(*tripFlag)
	if err != nil {
		printErrorAndExit("parsing trip id", err)
	}

	cfg, err := config.Load()
	if err != nil {
		printErrorAndExit("loading configuration", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		printErrorAndExit("database connection", err)
	}
	err = db.Ping()
	if err != nil {
		printErrorAndExit("pinging database", err)
	}

	ctx := context.Background()
	if err := budget.Migrate(ctx, db); err != nil {
		printErrorAndExit("migrating schema", err)
	}

	evtlogger := audit.NewSqlEventLogger(db)
	worker := audit.NewWorker(evtlogger, cfg.AuditBuffer)
	worker.Start()
	defer worker.Shutdown()

	converter, err := buildConverter(cfg)
	if err != nil {
		printErrorAndExit("building currency converter", err)
	}
	tips, err := buildTipCalculator(cfg)
	if err != nil {
		printErrorAndExit("building tip calculator", err)
	}

	engine := budget.NewService(
		budget.NewPostgresTransactionRepository(db),
		budget.NewPostgresParticipantRepository(db),
		budget.WithConverter(converter),
		budget.WithTipCalculator(tips),
		budget.WithAuditWorker(worker),
	)

	report := tripReport{}
	report.Summary, err = engine.Summary(ctx, tripID, *budgetFlag)
	if err != nil {
		printErrorAndExit("computing summary", err)
	}
	report.Breakdown, err = engine.CategoryBreakdown(ctx, tripID)
	if err != nil {
		printErrorAndExit("computing breakdown", err)
	}
	report.Settlement, err = engine.SettleUp(ctx, tripID)
	if err != nil {
		printErrorAndExit("computing settlement", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		printErrorAndExit("encoding report", err)
	}
}

func buildConverter(cfg *config.Config) (*currency.Converter, error) {
	var opts []currency.Option
	if cfg.StrictCurrency {
		opts = append(opts, currency.WithStrict())
	}
	if cfg.RatesFile != "" {
		rates, err := currency.RatesFromFile(cfg.RatesFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, currency.WithRates(rates))
	}
	return currency.NewConverter(opts...), nil
}

func buildTipCalculator(cfg *config.Config) (*tipping.Calculator, error) {
	var opts []tipping.Option
	if cfg.TipsFile != "" {
		norms, err := tipping.NormsFromFile(cfg.TipsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tipping.WithNorms(norms))
	}
	return tipping.NewCalculator(opts...), nil
}

func printErrorAndExit(msg string, e error) {
	slog.Error(msg, "error", e)
	os.Exit(1)
}
