package domain

import "errors"

// Sentinel errors shared across the ingestion and allocation packages.
// Callers match with errors.Is after unwrapping.
var (
	// ErrFormat covers unparseable amounts and dates as well as malformed
	// row ordering (a continuation row before any record row).
	ErrFormat = errors.New("format error")

	// ErrExtraction is returned when the table-extraction collaborator
	// fails to produce rows for a statement file.
	ErrExtraction = errors.New("extraction error")

	// ErrConfig is returned when an account has no source folder configured.
	ErrConfig = errors.New("no source folder configured")

	// ErrNotFound is returned by ledger lookups and removals.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when adding an entity whose identifier
	// is already present in the ledger.
	ErrAlreadyExists = errors.New("already exists")
)
