// Package store persists the ledger as one JSON record collection per
// entity type. Every mutation of the in-memory ledger is followed by a
// full Save: the whole state is rewritten, never patched incrementally,
// so an abnormal exit loses at most the mutation in flight.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

// Collection filenames, kept identical to the legacy data files so an
// existing data directory loads as-is.
const (
	transactionsFile     = "operations.json"
	cashTransactionsFile = "cash_operations.json"
	partiesFile          = "tiers.json"
	eventsFile           = "events.json"
)

// Store reads and writes the ledger collections under one data directory.
type Store struct {
	dir string
}

// New creates a store rooted at the given data directory.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads all collections into a fresh ledger. A missing collection
// file yields an empty collection; a present but unreadable one is an
// error.
func (s *Store) Load() (*domain.Ledger, error) {
	ledger := domain.NewLedger()

	var transactions []*domain.Transaction
	if err := s.loadCollection(transactionsFile, &transactions); err != nil {
		return nil, err
	}
	if err := ledger.AddTransactions(transactions); err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	var cashTransactions []*domain.CashTransaction
	if err := s.loadCollection(cashTransactionsFile, &cashTransactions); err != nil {
		return nil, err
	}
	for _, c := range cashTransactions {
		if err := ledger.AddCashTransaction(c); err != nil {
			return nil, fmt.Errorf("failed to load cash transactions: %w", err)
		}
	}

	var parties []*domain.Party
	if err := s.loadCollection(partiesFile, &parties); err != nil {
		return nil, err
	}
	for _, p := range parties {
		if err := ledger.AddParty(p); err != nil {
			return nil, fmt.Errorf("failed to load parties: %w", err)
		}
	}

	var events []*domain.Event
	if err := s.loadCollection(eventsFile, &events); err != nil {
		return nil, err
	}
	for _, e := range events {
		if err := ledger.AddEvent(e); err != nil {
			return nil, fmt.Errorf("failed to load events: %w", err)
		}
	}

	return ledger, nil
}

// Save writes every collection. Each file is written atomically (temp
// file then rename) so a crash mid-flush never leaves a half-written
// collection behind.
func (s *Store) Save(ledger *domain.Ledger) error {
	if ledger == nil {
		return fmt.Errorf("ledger cannot be nil")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if err := s.saveCollection(transactionsFile, ledger.Transactions()); err != nil {
		return err
	}
	if err := s.saveCollection(cashTransactionsFile, ledger.CashTransactions()); err != nil {
		return err
	}
	if err := s.saveCollection(partiesFile, ledger.Parties()); err != nil {
		return err
	}
	return s.saveCollection(eventsFile, ledger.Events())
}

func (s *Store) loadCollection(filename string, target interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	return nil
}

func (s *Store) saveCollection(filename string, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filename, err)
	}

	path := filepath.Join(s.dir, filename)
	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
