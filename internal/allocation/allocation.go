// Package allocation manages the splits of a transaction's amount across
// parties and events, and summarizes them per event for reporting.
package allocation

import (
	"fmt"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

// Attach appends one allocation to the transaction. There is no
// uniqueness constraint: the same party may appear several times, and the
// allocation sum is not forced to match the transaction amount.
func Attach(op domain.Allocatable, party string, amount float64, event string) error {
	a, err := domain.NewAllocation(party, amount, event)
	if err != nil {
		return err
	}
	op.AppendAllocation(a)
	return nil
}

// Remove deletes the allocation at the given position. On an out-of-range
// index the allocation list is left untouched.
func Remove(op domain.Allocatable, index int) error {
	return op.RemoveAllocation(index)
}

// CompleteRemaining returns the part of the transaction amount not yet
// covered by its allocations. Callers typically feed the value straight
// into Attach; under- or over-allocation stays allowed.
func CompleteRemaining(op domain.Allocatable) float64 {
	remaining := op.TotalAmount()
	for _, a := range op.Allocations() {
		remaining -= a.Amount
	}
	return remaining
}

// PartyTotal aggregates one party's allocations for an event: positive
// allocations count as revenue, negative ones as expense.
type PartyTotal struct {
	Revenue float64
	Expense float64
	Total   float64
}

// EventSummary is the per-event report across all transactions.
type EventSummary struct {
	Event        string
	Parties      map[string]*PartyTotal
	TotalRevenue float64
	TotalExpense float64
}

// GrandTotal returns revenue plus expense across all parties.
func (s *EventSummary) GrandTotal() float64 {
	return s.TotalRevenue + s.TotalExpense
}

// SummarizeByEvent sums the allocations tagged with the event across all
// given transactions dated strictly after the cutoff, grouped by party. A
// transaction dated exactly on the cutoff is excluded, and one without a
// matching allocation contributes nothing.
func SummarizeByEvent(ops []domain.Allocatable, event string, cutoff domain.Date) (*EventSummary, error) {
	if event == "" {
		return nil, fmt.Errorf("event name cannot be empty")
	}

	summary := &EventSummary{
		Event:   event,
		Parties: make(map[string]*PartyTotal),
	}
	for _, op := range ops {
		if !op.OperationDate().After(cutoff.Time) {
			continue
		}
		for _, a := range op.Allocations() {
			if a.EventName() != event {
				continue
			}
			pt, exists := summary.Parties[a.Party]
			if !exists {
				pt = &PartyTotal{}
				summary.Parties[a.Party] = pt
			}
			pt.Total += a.Amount
			if a.Amount > 0 {
				pt.Revenue += a.Amount
				summary.TotalRevenue += a.Amount
			} else {
				pt.Expense += a.Amount
				summary.TotalExpense += a.Amount
			}
		}
	}
	return summary, nil
}
