// Package builder assembles extracted statement table rows into
// transactions. A statement table interleaves record rows (date, value
// date, description, debit or credit) with continuation rows that add
// detail to the record started above them.
package builder

import (
	"fmt"
	"strings"

	"github.com/rumor-ml/commons.systems/releve/internal/amount"
	"github.com/rumor-ml/commons.systems/releve/internal/domain"
	"github.com/rumor-ml/commons.systems/releve/internal/rules"
)

// Fixed table shape of the statement sources: three leading boilerplate
// rows, one trailing one, and five columns.
const (
	headerRows = 3
	footerRows = 1
)

const (
	colDate = iota
	colValueDate
	colDescription
	colDebit
	colCredit
)

type state int

const (
	noRecord state = iota
	buildingRecord
)

// Builder turns row sequences into transactions. It is stateless between
// calls; the running record of one Build invocation is local.
type Builder struct {
	methods *rules.Engine
}

// New creates a builder deriving payment methods from the given rules.
func New(methods *rules.Engine) *Builder {
	return &Builder{methods: methods}
}

// Build consumes the ordered rows extracted from one statement file and
// returns the transactions they describe, tagged with the account. Any
// malformed row fails the whole file; no partial result is returned.
func (b *Builder) Build(account string, rows [][]string) ([]*domain.Transaction, error) {
	if len(rows) <= headerRows+footerRows {
		return nil, nil
	}
	rows = rows[headerRows : len(rows)-footerRows]

	var (
		out     []*domain.Transaction
		current *domain.Transaction
		st      = noRecord
	)

	for i, row := range rows {
		switch {
		case cell(row, colDate) != "":
			if st == buildingRecord {
				out = append(out, current)
			}
			tx, err := b.startRecord(account, row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			current = tx
			st = buildingRecord

		case cell(row, colDescription) != "":
			if st == noRecord {
				return nil, fmt.Errorf("%w: row %d: continuation before any record", domain.ErrFormat, i)
			}
			applyContinuation(current, cell(row, colDescription))
		}
	}

	if st == buildingRecord {
		out = append(out, current)
	}
	return out, nil
}

// startRecord parses a record row into a fresh transaction.
func (b *Builder) startRecord(account string, row []string) (*domain.Transaction, error) {
	date, err := domain.ParseDate(cell(row, colDate))
	if err != nil {
		return nil, err
	}
	valueDate, err := domain.ParseDate(cell(row, colValueDate))
	if err != nil {
		return nil, err
	}

	label := cell(row, colDescription)
	debitText := cell(row, colDebit)
	creditText := cell(row, colCredit)

	var total float64
	switch {
	case creditText != "":
		credit, err := amount.Parse(creditText)
		if err != nil {
			return nil, err
		}
		total = credit
	case debitText != "":
		debit, err := amount.Parse(debitText)
		if err != nil {
			return nil, err
		}
		total = -debit
	default:
		return nil, fmt.Errorf("%w: record row has neither debit nor credit", domain.ErrFormat)
	}

	return domain.NewTransaction(account, b.methods.Method(label), label, total, date, valueDate)
}

// applyContinuation matches a continuation payload against the recognized
// prefixes and writes the corresponding field. DE: and POUR: both set the
// counterparty; when both appear on one record the later row wins.
// Unrecognized prefixes are ignored.
func applyContinuation(tx *domain.Transaction, payload string) {
	switch {
	case strings.HasPrefix(payload, "DE:"):
		tx.Originator = trimmed(payload, "DE:")
		tx.Counterparty = *tx.Originator
	case strings.HasPrefix(payload, "MOTIF:"):
		tx.Reason = trimmed(payload, "MOTIF:")
	case strings.HasPrefix(payload, "REF:"):
		// First empty slot of the three; further REF lines are dropped.
		ref := trimmed(payload, "REF:")
		switch {
		case tx.Ref == nil:
			tx.Ref = ref
		case tx.Ref2 == nil:
			tx.Ref2 = ref
		case tx.Ref3 == nil:
			tx.Ref3 = ref
		}
	case strings.HasPrefix(payload, "POUR:"):
		tx.Beneficiary = trimmed(payload, "POUR:")
		tx.Counterparty = *tx.Beneficiary
	case strings.HasPrefix(payload, "DATE:"):
		tx.TransferDate = trimmed(payload, "DATE:")
	case strings.HasPrefix(payload, "REMISE:"):
		tx.Remittance = trimmed(payload, "REMISE:")
	case strings.HasPrefix(payload, "CHEZ:"):
		tx.Location = trimmed(payload, "CHEZ:")
	case strings.HasPrefix(payload, "LIB:"):
		tx.FreeLabel = trimmed(payload, "LIB:")
	}
}

func trimmed(payload, prefix string) *string {
	s := strings.TrimSpace(strings.TrimPrefix(payload, prefix))
	return &s
}

// cell returns the column value or "" when the row is too short.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
