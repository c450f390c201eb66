// Package validate checks a loaded ledger for consistency problems:
// broken entity invariants are errors, suspicious but workable data
// (such as an allocation tagged with an event that no longer exists)
// only warns.
package validate

import (
	"fmt"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

// Result collects everything found in one validation pass.
type Result struct {
	Errors   []Issue
	Warnings []Issue
}

// Issue describes one finding.
type Issue struct {
	Entity  string // "transaction", "cash transaction", "party", "event"
	ID      string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Entity, i.ID, i.Message)
}

// Ledger validates every collection of the ledger.
func Ledger(l *domain.Ledger) *Result {
	result := &Result{}

	eventNames := make(map[string]bool)
	for _, e := range l.Events() {
		if eventNames[e.Name] {
			result.Errors = append(result.Errors, Issue{
				Entity: "event", ID: e.Name, Message: "duplicate event name",
			})
		}
		eventNames[e.Name] = true
	}

	variantOwner := make(map[string]string)
	for _, p := range l.Parties() {
		if p.UsageName == "" {
			result.Errors = append(result.Errors, Issue{
				Entity: "party", ID: "", Message: "usage name is empty",
			})
			continue
		}
		for _, v := range p.Variants {
			if owner, seen := variantOwner[v]; seen && owner != p.UsageName {
				result.Warnings = append(result.Warnings, Issue{
					Entity: "party", ID: p.UsageName,
					Message: fmt.Sprintf("variant %q is also claimed by %q; the first match wins", v, owner),
				})
				continue
			}
			variantOwner[v] = p.UsageName
		}
	}

	for i, t := range l.Transactions() {
		id := fmt.Sprintf("#%d (%s)", i, t.Label)
		if t.Account == "" {
			result.Errors = append(result.Errors, Issue{Entity: "transaction", ID: id, Message: "account is empty"})
		}
		if !domain.ValidateMethod(t.Method) {
			result.Errors = append(result.Errors, Issue{
				Entity: "transaction", ID: id,
				Message: fmt.Sprintf("unknown payment method %q", t.Method),
			})
		}
		if t.Date.IsZero() || t.ValueDate.IsZero() {
			result.Errors = append(result.Errors, Issue{Entity: "transaction", ID: id, Message: "missing date"})
		}
		checkAllocations(result, "transaction", id, t, eventNames)
	}

	cashIDs := make(map[int64]bool)
	for _, c := range l.CashTransactions() {
		id := fmt.Sprintf("%d", c.ID)
		if cashIDs[c.ID] {
			result.Errors = append(result.Errors, Issue{Entity: "cash transaction", ID: id, Message: "duplicate identifier"})
		}
		cashIDs[c.ID] = true
		if c.Date.IsZero() {
			result.Errors = append(result.Errors, Issue{Entity: "cash transaction", ID: id, Message: "missing date"})
		}
		checkAllocations(result, "cash transaction", id, c, eventNames)
	}

	return result
}

func checkAllocations(result *Result, entity, id string, op domain.Allocatable, eventNames map[string]bool) {
	for i, a := range op.Allocations() {
		if a.Party == "" {
			result.Errors = append(result.Errors, Issue{
				Entity: entity, ID: id,
				Message: fmt.Sprintf("allocation %d has no party", i),
			})
		}
		if name := a.EventName(); name != "" && !eventNames[name] {
			result.Warnings = append(result.Warnings, Issue{
				Entity: entity, ID: id,
				Message: fmt.Sprintf("allocation %d references unknown event %q", i, name),
			})
		}
	}
}
