package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is the payment method tag derived from a record's
// description text. The values are the literal tags used by the legacy
// collections, so they round-trip unchanged.
type PaymentMethod string

const (
	MethodCard     PaymentMethod = "CARTE"
	MethodTransfer PaymentMethod = "VIR"
	MethodCheque   PaymentMethod = "CHEQUE"
	MethodUnknown  PaymentMethod = "_"
)

var validMethods = map[PaymentMethod]struct{}{
	MethodCard: {}, MethodTransfer: {}, MethodCheque: {}, MethodUnknown: {},
}

// ValidateMethod checks if the payment method is one of the known tags.
func ValidateMethod(m PaymentMethod) bool {
	_, ok := validMethods[m]
	return ok
}

// noneEvent is the legacy placeholder stored by old data files when an
// allocation had no event. It is normalized to nil on load.
const noneEvent = "Aucun"

// Allocation attributes a portion of a transaction's amount to a party,
// optionally tagged with an event. It serializes as a 3-element tuple
// [party, amount, event|null] to stay compatible with the legacy files.
type Allocation struct {
	Party  string
	Amount float64
	Event  *string
}

// NewAllocation creates an allocation. Event may be empty for none.
func NewAllocation(party string, amount float64, event string) (Allocation, error) {
	if strings.TrimSpace(party) == "" {
		return Allocation{}, fmt.Errorf("allocation party cannot be empty")
	}
	a := Allocation{Party: party, Amount: amount}
	if event != "" && event != noneEvent {
		a.Event = &event
	}
	return a, nil
}

// EventName returns the event tag or "" when the allocation has none.
func (a Allocation) EventName() string {
	if a.Event == nil {
		return ""
	}
	return *a.Event
}

// MarshalJSON encodes the allocation as [party, amount, event|null].
func (a Allocation) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]interface{}{a.Party, a.Amount, a.Event})
}

// UnmarshalJSON decodes the 3-element tuple form.
func (a *Allocation) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("allocation must be a tuple: %w", err)
	}
	if len(tuple) != 3 {
		return fmt.Errorf("allocation must have 3 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &a.Party); err != nil {
		return fmt.Errorf("allocation party: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &a.Amount); err != nil {
		return fmt.Errorf("allocation amount: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &a.Event); err != nil {
		return fmt.Errorf("allocation event: %w", err)
	}
	if a.Event != nil && *a.Event == noneEvent {
		a.Event = nil
	}
	return nil
}

// Transaction is a single bank-ledger movement assembled from one
// statement record and its continuation rows. Field names in the JSON form
// mirror the legacy collections. Continuation sub-fields stay nil unless
// the matching prefix was seen.
type Transaction struct {
	Account      string        `json:"compte"`
	Method       PaymentMethod `json:"moyen"`
	Label        string        `json:"nom"`
	Counterparty string        `json:"destinataire"`
	// Sign convention: credits are positive, debits are stored as the
	// negated magnitude.
	Amount       float64 `json:"montant"`
	Date         Date    `json:"date"`
	ValueDate    Date    `json:"valeur"`
	Originator   *string `json:"de"`
	Reason       *string `json:"motif"`
	Ref          *string `json:"ref"`
	Ref2         *string `json:"ref_2"`
	Ref3         *string `json:"ref_3"`
	Beneficiary  *string `json:"pour"`
	TransferDate *string `json:"date_virement"`
	Remittance   *string `json:"remise"`
	Location     *string `json:"chez"`
	FreeLabel    *string `json:"lib"`
	Invoice      *string `json:"facture"`

	allocations []Allocation
}

// NewTransaction creates a validated transaction with no allocations.
func NewTransaction(account string, method PaymentMethod, label string, amount float64, date, valueDate Date) (*Transaction, error) {
	if account == "" {
		return nil, fmt.Errorf("account cannot be empty")
	}
	if !ValidateMethod(method) {
		return nil, fmt.Errorf("invalid payment method %q", method)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("operation date cannot be zero")
	}
	if valueDate.IsZero() {
		return nil, fmt.Errorf("value date cannot be zero")
	}
	return &Transaction{
		Account:   account,
		Method:    method,
		Label:     label,
		Amount:    amount,
		Date:      date,
		ValueDate: valueDate,
	}, nil
}

// TotalAmount returns the signed transaction amount.
func (t *Transaction) TotalAmount() float64 { return t.Amount }

// OperationDate returns the operation date.
func (t *Transaction) OperationDate() Date { return t.Date }

// Allocations returns a defensive copy of the allocation list.
func (t *Transaction) Allocations() []Allocation {
	return append([]Allocation(nil), t.allocations...)
}

// AppendAllocation appends one allocation. The same party may appear more
// than once.
func (t *Transaction) AppendAllocation(a Allocation) {
	t.allocations = append(t.allocations, a)
}

// RemoveAllocation removes the allocation at the given position.
func (t *Transaction) RemoveAllocation(i int) error {
	if i < 0 || i >= len(t.allocations) {
		return fmt.Errorf("allocation index %d out of range [0,%d)", i, len(t.allocations))
	}
	t.allocations = append(t.allocations[:i], t.allocations[i+1:]...)
	return nil
}

// MarshalJSON includes the allocation list under the legacy field name.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	allocs := t.allocations
	if allocs == nil {
		allocs = []Allocation{}
	}
	return json.Marshal(&struct {
		*Alias
		Allocations []Allocation `json:"repartition"`
	}{
		Alias:       (*Alias)(t),
		Allocations: allocs,
	})
}

// UnmarshalJSON restores the allocation list from the legacy field name.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type Alias Transaction
	aux := &struct {
		*Alias
		Allocations []Allocation `json:"repartition"`
	}{
		Alias: (*Alias)(t),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	t.allocations = aux.Allocations
	return nil
}

// CashTransaction is a manually recorded movement with no statement
// provenance. The identifier is derived from creation time and is unique
// within the ledger.
type CashTransaction struct {
	ID           int64   `json:"uni_id"`
	Label        string  `json:"nom"`
	Counterparty string  `json:"destinataire"`
	Amount       float64 `json:"montant"`
	Date         Date    `json:"date"`

	allocations []Allocation
}

// TotalAmount returns the signed amount.
func (c *CashTransaction) TotalAmount() float64 { return c.Amount }

// OperationDate returns the operation date.
func (c *CashTransaction) OperationDate() Date { return c.Date }

// Allocations returns a defensive copy of the allocation list.
func (c *CashTransaction) Allocations() []Allocation {
	return append([]Allocation(nil), c.allocations...)
}

// AppendAllocation appends one allocation.
func (c *CashTransaction) AppendAllocation(a Allocation) {
	c.allocations = append(c.allocations, a)
}

// RemoveAllocation removes the allocation at the given position.
func (c *CashTransaction) RemoveAllocation(i int) error {
	if i < 0 || i >= len(c.allocations) {
		return fmt.Errorf("allocation index %d out of range [0,%d)", i, len(c.allocations))
	}
	c.allocations = append(c.allocations[:i], c.allocations[i+1:]...)
	return nil
}

// MarshalJSON includes the allocation list under the legacy field name.
func (c *CashTransaction) MarshalJSON() ([]byte, error) {
	type Alias CashTransaction
	allocs := c.allocations
	if allocs == nil {
		allocs = []Allocation{}
	}
	return json.Marshal(&struct {
		*Alias
		Allocations []Allocation `json:"repartition"`
	}{
		Alias:       (*Alias)(c),
		Allocations: allocs,
	})
}

// UnmarshalJSON restores the allocation list from the legacy field name.
func (c *CashTransaction) UnmarshalJSON(data []byte) error {
	type Alias CashTransaction
	aux := &struct {
		*Alias
		Allocations []Allocation `json:"repartition"`
	}{
		Alias: (*Alias)(c),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	c.allocations = aux.Allocations
	return nil
}

// Allocatable is implemented by both transaction kinds so the allocation
// engine can operate on either.
type Allocatable interface {
	TotalAmount() float64
	OperationDate() Date
	Allocations() []Allocation
	AppendAllocation(Allocation)
	RemoveAllocation(i int) error
}

var (
	_ Allocatable = (*Transaction)(nil)
	_ Allocatable = (*CashTransaction)(nil)
)

// Party is a canonical counterparty identity: a display name plus the raw
// name variants that should resolve to it.
type Party struct {
	UsageName string   `json:"nom_usage"`
	Variants  []string `json:"noms_associes"`
}

// NewParty creates a validated party.
func NewParty(usageName string, variants []string) (*Party, error) {
	if strings.TrimSpace(usageName) == "" {
		return nil, fmt.Errorf("party usage name cannot be empty")
	}
	return &Party{UsageName: usageName, Variants: variants}, nil
}

// Matches reports whether the raw counterparty string is one of this
// party's known variants.
func (p *Party) Matches(raw string) bool {
	for _, v := range p.Variants {
		if v == raw {
			return true
		}
	}
	return false
}

// Event is a named budget bucket used to group allocations for reporting.
type Event struct {
	Name  string `json:"nom"`
	Color string `json:"couleur"`
}

// NewEvent creates a validated event.
func NewEvent(name, color string) (*Event, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("event name cannot be empty")
	}
	if color == "" {
		color = "#FFFFFF"
	}
	return &Event{Name: name, Color: color}, nil
}
