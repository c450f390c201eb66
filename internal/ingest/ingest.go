// Package ingest orchestrates statement ingestion: it walks each
// account's source folder, feeds unseen statement files through the
// table-extraction collaborator and the transaction builder, appends the
// resulting transactions to the ledger and records the file as ingested.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rumor-ml/commons.systems/releve/internal/builder"
	"github.com/rumor-ml/commons.systems/releve/internal/domain"
	"github.com/rumor-ml/commons.systems/releve/internal/extract"
	"github.com/rumor-ml/commons.systems/releve/internal/tracker"
)

// filenameDateLayout is the trailing day-month-year token embedded in
// statement filenames (e.g. "releve_15032024.pdf").
const filenameDateLayout = "02012006"

// Ingestor runs ingestion passes over the registered accounts.
type Ingestor struct {
	state     *tracker.State
	extractor extract.Extractor
	builder   *builder.Builder
}

// New creates an ingestor operating on the given registry.
func New(state *tracker.State, extractor extract.Extractor, b *builder.Builder) *Ingestor {
	return &Ingestor{state: state, extractor: extractor, builder: b}
}

// FileFailure records one statement file whose ingestion was aborted. The
// file stays out of the ingested set so it is retried after the content
// issue is corrected externally.
type FileFailure struct {
	Account  string
	Filename string
	Err      error
}

func (f FileFailure) Error() string {
	return fmt.Sprintf("%s/%s: %v", f.Account, f.Filename, f.Err)
}

// Unwrap exposes the underlying error for errors.Is matching.
func (f FileFailure) Unwrap() error { return f.Err }

// Report summarizes one ingestion pass.
type Report struct {
	RunID           string
	NewTransactions int
	FilesIngested   int
	FilesSkipped    int
	Failures        []FileFailure
}

// merge folds a per-account report into an aggregate one.
func (r *Report) merge(other *Report) {
	r.NewTransactions += other.NewTransactions
	r.FilesIngested += other.FilesIngested
	r.FilesSkipped += other.FilesSkipped
	r.Failures = append(r.Failures, other.Failures...)
}

// DiscoverAccounts registers every subfolder of the root folder as an
// account with that subfolder as its statement source. Known accounts
// keep their existing record.
func (i *Ingestor) DiscoverAccounts(rootFolder string) ([]string, error) {
	entries, err := os.ReadDir(rootFolder)
	if err != nil {
		return nil, fmt.Errorf("failed to read root folder %s: %w", rootFolder, err)
	}
	var accounts []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		i.state.EnsureAccount(entry.Name(), filepath.Join(rootFolder, entry.Name()))
		accounts = append(accounts, entry.Name())
	}
	sort.Strings(accounts)
	return accounts, nil
}

// IngestAll runs one ingestion pass over every registered account, in
// sorted account order. The pass gets a run identifier recorded in the
// registry metadata. A failing account folder is reported and does not
// stop the pass.
func (i *Ingestor) IngestAll(ctx context.Context, ledger *domain.Ledger) (*Report, error) {
	report := &Report{RunID: uuid.New().String()}
	for _, account := range i.state.AccountNames() {
		accountReport, err := i.IngestAccount(ctx, ledger, account)
		if err != nil {
			return report, fmt.Errorf("account %s: %w", account, err)
		}
		report.merge(accountReport)
	}
	i.state.Metadata.LastRunID = report.RunID
	return report, nil
}

// IngestAccount processes the not-yet-ingested statement files of one
// account, oldest statement first. Each file is atomic with respect to
// the ingested set: it is marked only after extraction and classification
// both succeed, and a failing file does not block the ones after it.
// Running the same pass again on an unchanged folder adds nothing.
func (i *Ingestor) IngestAccount(ctx context.Context, ledger *domain.Ledger, account string) (*Report, error) {
	folder := i.state.Folder(account)
	if folder == "" {
		return nil, fmt.Errorf("%w: account %q", domain.ErrConfig, account)
	}

	files, failures := i.listStatements(account, folder)
	report := &Report{Failures: failures}
	for _, file := range files {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		if i.state.IsIngested(account, file.name) {
			report.FilesSkipped++
			continue
		}

		transactions, err := i.ingestFile(ctx, account, filepath.Join(folder, file.name))
		if err != nil {
			report.Failures = append(report.Failures, FileFailure{Account: account, Filename: file.name, Err: err})
			continue
		}

		if err := ledger.AddTransactions(transactions); err != nil {
			return report, fmt.Errorf("failed to append transactions from %s: %w", file.name, err)
		}
		if err := i.state.MarkIngested(account, file.name); err != nil {
			return report, fmt.Errorf("failed to mark %s ingested: %w", file.name, err)
		}
		report.NewTransactions += len(transactions)
		report.FilesIngested++
	}
	return report, nil
}

// ingestFile runs extraction and classification for one statement file.
func (i *Ingestor) ingestFile(ctx context.Context, account, path string) ([]*domain.Transaction, error) {
	pages, err := i.extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}
	transactions, err := i.builder.Build(account, extract.Flatten(pages))
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// statementFile pairs a filename with the date embedded in it.
type statementFile struct {
	name string
	date time.Time
}

// listStatements returns the account folder's statement files sorted
// ascending by the date token in their name. Statement files whose name
// carries no parseable token are reported as failures and left out, so
// they are retried once renamed.
func (i *Ingestor) listStatements(account, folder string) ([]statementFile, []FileFailure) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, []FileFailure{{
			Account:  account,
			Filename: folder,
			Err:      fmt.Errorf("%w: failed to read folder: %v", domain.ErrExtraction, err),
		}}
	}

	var (
		files    []statementFile
		failures []FileFailure
	)
	for _, entry := range entries {
		if entry.IsDir() || !i.extractor.CanExtract(entry.Name()) {
			continue
		}
		date, err := filenameDate(entry.Name())
		if err != nil {
			failures = append(failures, FileFailure{Account: account, Filename: entry.Name(), Err: err})
			continue
		}
		files = append(files, statementFile{name: entry.Name(), date: date})
	}

	sort.Slice(files, func(a, b int) bool { return files[a].date.Before(files[b].date) })
	return files, failures
}

// filenameDate parses the trailing 8-digit day-month-year token before the
// extension, delimited by '_' (e.g. "compte_courant_15032024.pdf").
func filenameDate(filename string) (time.Time, error) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, "_")
	token := parts[len(parts)-1]
	date, err := time.Parse(filenameDateLayout, token)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: filename %q has no ddmmyyyy date token: %v", domain.ErrFormat, filename, err)
	}
	return date, nil
}
