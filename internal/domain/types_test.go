package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(2024, time.March, 5)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"05/03/2024"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(d.Time))
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"2024-03-05"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`42`), &d))
}

func TestAllocation_TupleRoundTrip(t *testing.T) {
	event := "Tournoi"
	tests := []struct {
		name string
		a    Allocation
		json string
	}{
		{
			name: "with event",
			a:    Allocation{Party: "Paul", Amount: 30, Event: &event},
			json: `["Paul",30,"Tournoi"]`,
		},
		{
			name: "without event",
			a:    Allocation{Party: "Paul", Amount: -12.5},
			json: `["Paul",-12.5,null]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.a)
			require.NoError(t, err)
			assert.JSONEq(t, tt.json, string(data))

			var back Allocation
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.a, back)
		})
	}
}

func TestAllocation_LegacyNoneEvent(t *testing.T) {
	// Old data files stored the placeholder "Aucun" instead of null.
	var a Allocation
	require.NoError(t, json.Unmarshal([]byte(`["Paul",10,"Aucun"]`), &a))
	assert.Nil(t, a.Event)
	assert.Equal(t, "", a.EventName())
}

func TestAllocation_BadTuple(t *testing.T) {
	var a Allocation
	assert.Error(t, json.Unmarshal([]byte(`["Paul",10]`), &a))
	assert.Error(t, json.Unmarshal([]byte(`{"party":"Paul"}`), &a))
}

func TestTransaction_JSONRoundTrip(t *testing.T) {
	tx, err := NewTransaction("courant", MethodTransfer, "VIR PAUL", 100, NewDate(2024, time.March, 5), NewDate(2024, time.March, 6))
	require.NoError(t, err)
	beneficiary := "Paul Martin"
	tx.Beneficiary = &beneficiary
	tx.Counterparty = beneficiary
	alloc, err := NewAllocation("Paul", 100, "")
	require.NoError(t, err)
	tx.AppendAllocation(alloc)

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, `"05/03/2024"`, string(fields["date"]))
	assert.Equal(t, `"VIR"`, string(fields["moyen"]))
	assert.Equal(t, `null`, string(fields["de"]), "unset continuation fields serialize as null")
	assert.Equal(t, `null`, string(fields["facture"]))
	assert.Contains(t, string(fields["repartition"]), `["Paul",100,null]`)

	var back Transaction
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, tx.Label, back.Label)
	assert.Equal(t, tx.Counterparty, back.Counterparty)
	require.NotNil(t, back.Beneficiary)
	assert.Equal(t, beneficiary, *back.Beneficiary)
	assert.Nil(t, back.Originator)
	assert.Equal(t, tx.Allocations(), back.Allocations())
}

func TestNewTransaction_Validation(t *testing.T) {
	date := NewDate(2024, time.March, 5)

	_, err := NewTransaction("", MethodCard, "x", 1, date, date)
	assert.Error(t, err, "empty account")

	_, err = NewTransaction("c", PaymentMethod("CB"), "x", 1, date, date)
	assert.Error(t, err, "unknown method")

	_, err = NewTransaction("c", MethodCard, "x", 1, Date{}, date)
	assert.Error(t, err, "zero date")
}

func TestRemoveAllocation(t *testing.T) {
	tx, err := NewTransaction("c", MethodCard, "x", 10, NewDate(2024, time.January, 1), NewDate(2024, time.January, 1))
	require.NoError(t, err)
	a1, _ := NewAllocation("A", 4, "")
	a2, _ := NewAllocation("B", 6, "")
	tx.AppendAllocation(a1)
	tx.AppendAllocation(a2)

	assert.Error(t, tx.RemoveAllocation(2))
	assert.Error(t, tx.RemoveAllocation(-1))
	assert.Len(t, tx.Allocations(), 2, "failed removal leaves the list untouched")

	require.NoError(t, tx.RemoveAllocation(0))
	allocs := tx.Allocations()
	require.Len(t, allocs, 1)
	assert.Equal(t, "B", allocs[0].Party)
}

func TestLedger_ResolvePartyIsDisplayOnly(t *testing.T) {
	ledger := NewLedger()
	party, err := NewParty("Paul", []string{"VIR PAUL MARTIN", "P. MARTIN"})
	require.NoError(t, err)
	require.NoError(t, ledger.AddParty(party))

	tx, err := NewTransaction("c", MethodTransfer, "VIR", 10, NewDate(2024, time.January, 2), NewDate(2024, time.January, 2))
	require.NoError(t, err)
	tx.Counterparty = "VIR PAUL MARTIN"
	require.NoError(t, ledger.AddTransaction(tx))

	assert.Equal(t, "Paul", ledger.ResolveParty(tx.Counterparty))
	assert.Equal(t, "VIR PAUL MARTIN", tx.Counterparty, "stored counterparty must not be rewritten")

	assert.Equal(t, "Unknown Shop", ledger.ResolveParty("Unknown Shop"))
}

func TestLedger_CreateCashTransaction(t *testing.T) {
	ledger := NewLedger()
	date := NewDate(2024, time.June, 1)

	first, err := ledger.CreateCashTransaction("dons", "Club", 50, date)
	require.NoError(t, err)
	second, err := ledger.CreateCashTransaction("courses", "Autre", -20, date)
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID, "identifiers are monotonic even within one second")

	found, err := ledger.FindCashTransaction(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "dons", found.Label)

	require.NoError(t, ledger.RemoveCashTransaction(first.ID))
	_, err = ledger.FindCashTransaction(first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedger_Events(t *testing.T) {
	ledger := NewLedger()
	event, err := NewEvent("Tournoi", "#FF0000")
	require.NoError(t, err)
	require.NoError(t, ledger.AddEvent(event))

	dup, _ := NewEvent("Tournoi", "#00FF00")
	assert.ErrorIs(t, ledger.AddEvent(dup), ErrAlreadyExists)

	require.NoError(t, ledger.RemoveEvent("Tournoi"))
	assert.ErrorIs(t, ledger.RemoveEvent("Tournoi"), ErrNotFound)
}

func TestLedger_AccountTransactions(t *testing.T) {
	ledger := NewLedger()
	date := NewDate(2024, time.January, 1)
	for _, account := range []string{"courant", "livret", "courant"} {
		tx, err := NewTransaction(account, MethodUnknown, "x", 1, date, date)
		require.NoError(t, err)
		require.NoError(t, ledger.AddTransaction(tx))
	}

	assert.Len(t, ledger.AccountTransactions("courant"), 2)
	assert.Len(t, ledger.AccountTransactions("livret"), 1)
	assert.Empty(t, ledger.AccountTransactions("autre"))
	assert.Len(t, ledger.Transactions(), 3)
}
