package domain

import (
	"fmt"
	"time"
)

// Ledger owns the session's collections: bank transactions, cash
// transactions, parties and events. It is a single-threaded resource; the
// surrounding application flushes it to storage after every mutation.
type Ledger struct {
	transactions     []*Transaction
	cashTransactions []*CashTransaction
	parties          []*Party
	events           []*Event
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// AddTransaction appends a bank transaction.
func (l *Ledger) AddTransaction(t *Transaction) error {
	if t == nil {
		return fmt.Errorf("transaction cannot be nil")
	}
	if t.Account == "" {
		return fmt.Errorf("transaction has no account")
	}
	if t.Date.IsZero() || t.ValueDate.IsZero() {
		return fmt.Errorf("transaction dates must be set")
	}
	l.transactions = append(l.transactions, t)
	return nil
}

// AddTransactions appends a batch of bank transactions, stopping at the
// first invalid one.
func (l *Ledger) AddTransactions(ts []*Transaction) error {
	for i, t := range ts {
		if err := l.AddTransaction(t); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
	}
	return nil
}

// Transactions returns a copy of the transaction list.
func (l *Ledger) Transactions() []*Transaction {
	return append([]*Transaction(nil), l.transactions...)
}

// AccountTransactions returns the transactions tagged with one account.
// This is a display filter; the ledger keeps all accounts together.
func (l *Ledger) AccountTransactions(account string) []*Transaction {
	var out []*Transaction
	for _, t := range l.transactions {
		if t.Account == account {
			out = append(out, t)
		}
	}
	return out
}

// CreateCashTransaction appends a new cash transaction with an identifier
// derived from the current time. When several are created within the same
// second the identifier is bumped past the last one to stay unique and
// monotonic.
func (l *Ledger) CreateCashTransaction(label, counterparty string, amount float64, date Date) (*CashTransaction, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("cash transaction date must be set")
	}
	id := time.Now().Unix()
	for _, c := range l.cashTransactions {
		if c.ID >= id {
			id = c.ID + 1
		}
	}
	ct := &CashTransaction{
		ID:           id,
		Label:        label,
		Counterparty: counterparty,
		Amount:       amount,
		Date:         date,
	}
	l.cashTransactions = append(l.cashTransactions, ct)
	return ct, nil
}

// AddCashTransaction appends an existing cash transaction, used when
// loading persisted collections.
func (l *Ledger) AddCashTransaction(c *CashTransaction) error {
	if c == nil {
		return fmt.Errorf("cash transaction cannot be nil")
	}
	for _, existing := range l.cashTransactions {
		if existing.ID == c.ID {
			return fmt.Errorf("cash transaction %d: %w", c.ID, ErrAlreadyExists)
		}
	}
	l.cashTransactions = append(l.cashTransactions, c)
	return nil
}

// CashTransactions returns a copy of the cash transaction list.
func (l *Ledger) CashTransactions() []*CashTransaction {
	return append([]*CashTransaction(nil), l.cashTransactions...)
}

// FindCashTransaction looks up a cash transaction by identifier.
func (l *Ledger) FindCashTransaction(id int64) (*CashTransaction, error) {
	for _, c := range l.cashTransactions {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("cash transaction %d: %w", id, ErrNotFound)
}

// RemoveCashTransaction deletes a cash transaction by identifier.
func (l *Ledger) RemoveCashTransaction(id int64) error {
	for i, c := range l.cashTransactions {
		if c.ID == id {
			l.cashTransactions = append(l.cashTransactions[:i], l.cashTransactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("cash transaction %d: %w", id, ErrNotFound)
}

// AddParty appends a counterparty identity.
func (l *Ledger) AddParty(p *Party) error {
	if p == nil {
		return fmt.Errorf("party cannot be nil")
	}
	if p.UsageName == "" {
		return fmt.Errorf("party usage name cannot be empty")
	}
	l.parties = append(l.parties, p)
	return nil
}

// Parties returns a copy of the party list.
func (l *Ledger) Parties() []*Party {
	return append([]*Party(nil), l.parties...)
}

// ResolveParty maps a raw counterparty string to a party's usage name when
// the raw string is a known variant, and returns it unchanged otherwise.
// Resolution is display-only: the stored counterparty on a transaction is
// never rewritten.
func (l *Ledger) ResolveParty(raw string) string {
	for _, p := range l.parties {
		if p.Matches(raw) {
			return p.UsageName
		}
	}
	return raw
}

// AddEvent appends an event; names are unique.
func (l *Ledger) AddEvent(e *Event) error {
	if e == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if e.Name == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	for _, existing := range l.events {
		if existing.Name == e.Name {
			return fmt.Errorf("event %q: %w", e.Name, ErrAlreadyExists)
		}
	}
	l.events = append(l.events, e)
	return nil
}

// Events returns a copy of the event list.
func (l *Ledger) Events() []*Event {
	return append([]*Event(nil), l.events...)
}

// RemoveEvent deletes an event by name. Allocations already tagged with it
// keep their tag.
func (l *Ledger) RemoveEvent(name string) error {
	for i, e := range l.events {
		if e.Name == name {
			l.events = append(l.events[:i], l.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event %q: %w", name, ErrNotFound)
}

// Allocatables returns all bank and cash transactions as one list, the
// shape the allocation summary operates on.
func (l *Ledger) Allocatables() []Allocatable {
	out := make([]Allocatable, 0, len(l.transactions)+len(l.cashTransactions))
	for _, t := range l.transactions {
		out = append(out, t)
	}
	for _, c := range l.cashTransactions {
		out = append(out, c)
	}
	return out
}
