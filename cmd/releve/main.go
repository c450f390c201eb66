package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rumor-ml/commons.systems/releve/internal/allocation"
	"github.com/rumor-ml/commons.systems/releve/internal/builder"
	"github.com/rumor-ml/commons.systems/releve/internal/domain"
	"github.com/rumor-ml/commons.systems/releve/internal/extract/pdftable"
	"github.com/rumor-ml/commons.systems/releve/internal/ingest"
	"github.com/rumor-ml/commons.systems/releve/internal/rules"
	"github.com/rumor-ml/commons.systems/releve/internal/store"
	"github.com/rumor-ml/commons.systems/releve/internal/tracker"
	"github.com/rumor-ml/commons.systems/releve/internal/ui"
	"github.com/rumor-ml/commons.systems/releve/internal/validate"
)

const version = "0.1.0"

var (
	versionFlag = flag.Bool("version", false, "Show version")

	rootDir   = flag.String("root", "", "Root folder containing one subfolder of statements per account")
	dataDir   = flag.String("data", "data", "Directory holding the ledger collections")
	stateFile = flag.String("state", "", "Ingestion state file (default: <data>/config.json)")
	rulesFile = flag.String("rules", "", "Payment method rules file (default: embedded rules)")
	dryRun    = flag.Bool("dry-run", false, "Analyze statements without writing the ledger or state")
	verbose   = flag.Bool("verbose", false, "Show per-file details")

	summaryEvent = flag.String("summary", "", "Print the per-party summary for this event instead of ingesting")
	cutoffDate   = flag.String("cutoff", "", "Summary cutoff date (dd/mm/yyyy); only later transactions count")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `releve - Bank statement ingestion and allocation ledger

Usage:
  releve [flags]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, `
Examples:
  # Ingest new statements for every account under the root folder
  releve -root ~/comptes -data data

  # See what a pass would add without touching the ledger
  releve -root ~/comptes -dry-run

  # Per-party totals for one event, counting from a date
  releve -summary "Tournoi 2024" -cutoff 01/01/2024

`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("releve version %s\n", version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	ledgerStore := store.New(*dataDir)
	ledger, err := ledgerStore.Load()
	if err != nil {
		return fmt.Errorf("failed to load ledger from %s: %w", *dataDir, err)
	}

	if *summaryEvent != "" {
		return printSummary(ledger)
	}

	if *rootDir == "" {
		fmt.Fprintf(os.Stderr, "Error: -root flag is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	statePath := *stateFile
	if statePath == "" {
		statePath = filepath.Join(*dataDir, "config.json")
	}

	state, err := tracker.Load(statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			// Never overwrite an unreadable state file with a fresh one:
			// losing it would re-ingest every statement and double-count
			// the ledger.
			return fmt.Errorf("failed to load state file %q: %w", statePath, err)
		}
		state = tracker.NewState()
		if *verbose {
			fmt.Fprintf(os.Stderr, "State file not found, starting fresh\n")
		}
	}

	methods, err := loadRules()
	if err != nil {
		return err
	}

	ui.Header("Analyzing statements")
	ui.Step(1, 3, "Discovering accounts")
	ingestor := ingest.New(state, pdftable.New(), builder.New(methods))
	accounts, err := ingestor.DiscoverAccounts(*rootDir)
	if err != nil {
		return err
	}
	ui.Success(fmt.Sprintf("%d accounts registered", len(accounts)))
	if *verbose {
		for _, account := range accounts {
			fmt.Fprintf(os.Stderr, "  - %s (%s)\n", account, state.Folder(account))
		}
	}

	ui.Step(2, 3, "Ingesting new statements")
	if *dryRun {
		// Run against a scratch ledger and drop the state changes.
		scratch := domain.NewLedger()
		report, err := ingestor.IngestAll(ctx, scratch)
		if err != nil {
			return err
		}
		fmt.Printf("Dry run complete. Would add %d transactions from %d files.\n",
			report.NewTransactions, report.FilesIngested)
		return nil
	}

	report, err := ingestor.IngestAll(ctx, ledger)
	if err != nil {
		return err
	}
	ui.PrintReport(report)

	if check := validate.Ledger(ledger); len(check.Errors) > 0 || len(check.Warnings) > 0 {
		for _, w := range check.Warnings {
			ui.Warn(w.String())
		}
		for _, e := range check.Errors {
			ui.Error(e.String())
		}
		if len(check.Errors) > 0 {
			return fmt.Errorf("ledger failed validation with %d errors; nothing was saved", len(check.Errors))
		}
	}

	ui.Step(3, 3, "Saving ledger and state")
	if err := ledgerStore.Save(ledger); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	if err := tracker.Save(state, statePath); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	ui.Success("done")

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d statement files failed; fix them and rerun", len(report.Failures))
	}
	return nil
}

func loadRules() (*rules.Engine, error) {
	if *rulesFile != "" {
		return rules.LoadFromFile(*rulesFile)
	}
	return rules.LoadEmbedded()
}

func printSummary(ledger *domain.Ledger) error {
	if *cutoffDate == "" {
		return fmt.Errorf("-summary requires -cutoff (dd/mm/yyyy)")
	}
	cutoff, err := domain.ParseDate(*cutoffDate)
	if err != nil {
		return err
	}
	summary, err := allocation.SummarizeByEvent(ledger.Allocatables(), *summaryEvent, cutoff)
	if err != nil {
		return err
	}
	ui.PrintEventSummary(summary)
	return nil
}
