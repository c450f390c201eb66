// Package tracker keeps the per-account registry of statement files that
// have already been ingested, persisted as a JSON state file with atomic
// writes. Re-scanning an unchanged folder is a no-op because previously
// seen filenames are skipped.
package tracker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// CurrentVersion is the current state file format version.
const CurrentVersion = 1

// State is the ingestion registry: one record per account.
type State struct {
	Version  int                       `json:"version"`
	Accounts map[string]*AccountRecord `json:"accounts"`
	Metadata StateMetadata             `json:"metadata"`
}

// AccountRecord holds an account's source folder and the statement
// filenames already ingested from it. The ingested list is append-only; a
// filename is never removed once added.
type AccountRecord struct {
	Folder        string   `json:"folder"`
	IngestedFiles []string `json:"analyzed_files"`
}

// StateMetadata contains aggregate information about the state.
type StateMetadata struct {
	LastUpdated time.Time `json:"lastUpdated"`
	LastRunID   string    `json:"lastRunId"`
	TotalFiles  int       `json:"totalFiles"`
}

// NewState creates an empty registry with the current version.
func NewState() *State {
	return &State{
		Version:  CurrentVersion,
		Accounts: make(map[string]*AccountRecord),
		Metadata: StateMetadata{LastUpdated: time.Now()},
	}
}

// Load reads a state file from disk.
// Returns os.IsNotExist error if the file doesn't exist (caller should
// handle by starting fresh).
func Load(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err // preserve os.IsNotExist for caller
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	if state.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported state file version %d (current version: %d)", state.Version, CurrentVersion)
	}

	if state.Accounts == nil {
		state.Accounts = make(map[string]*AccountRecord)
	}
	return &state, nil
}

// Save atomically writes the state to disk: write to a temp file, then
// rename. The parent directory is created if needed.
func Save(state *State, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	state.Metadata.LastUpdated = time.Now()
	total := 0
	for _, rec := range state.Accounts {
		total += len(rec.IngestedFiles)
	}
	state.Metadata.TotalFiles = total

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tempFile := filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempFile, filePath); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// EnsureAccount registers an account with its source folder if it is not
// known yet. An existing record keeps its folder and ingested list.
func (s *State) EnsureAccount(account, folder string) {
	if _, exists := s.Accounts[account]; exists {
		return
	}
	s.Accounts[account] = &AccountRecord{Folder: folder}
}

// SetFolder updates an account's source folder, registering the account
// when needed.
func (s *State) SetFolder(account, folder string) {
	rec, exists := s.Accounts[account]
	if !exists {
		s.Accounts[account] = &AccountRecord{Folder: folder}
		return
	}
	rec.Folder = folder
}

// Folder returns the configured source folder for an account, or "" when
// the account is unknown or unconfigured.
func (s *State) Folder(account string) string {
	rec, exists := s.Accounts[account]
	if !exists {
		return ""
	}
	return rec.Folder
}

// IsIngested reports whether the statement file was already processed for
// the account.
func (s *State) IsIngested(account, filename string) bool {
	rec, exists := s.Accounts[account]
	if !exists {
		return false
	}
	for _, f := range rec.IngestedFiles {
		if f == filename {
			return true
		}
	}
	return false
}

// MarkIngested records a statement file as processed. Marking the same
// filename twice is a no-op.
func (s *State) MarkIngested(account, filename string) error {
	rec, exists := s.Accounts[account]
	if !exists {
		return fmt.Errorf("unknown account %q", account)
	}
	if s.IsIngested(account, filename) {
		return nil
	}
	rec.IngestedFiles = append(rec.IngestedFiles, filename)
	return nil
}

// AccountNames returns the registered account names in sorted order so
// ingestion runs are deterministic.
func (s *State) AccountNames() []string {
	names := make([]string, 0, len(s.Accounts))
	for name := range s.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
