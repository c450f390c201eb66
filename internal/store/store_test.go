package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	ledger := domain.NewLedger()

	tx, err := domain.NewTransaction("courant", domain.MethodTransfer, "VIR PAUL", 150,
		domain.NewDate(2024, time.March, 5), domain.NewDate(2024, time.March, 6))
	require.NoError(t, err)
	beneficiary := "Paul Martin"
	tx.Beneficiary = &beneficiary
	tx.Counterparty = beneficiary
	alloc, err := domain.NewAllocation("Paul", 150, "Tournoi")
	require.NoError(t, err)
	tx.AppendAllocation(alloc)
	require.NoError(t, ledger.AddTransaction(tx))

	cash, err := ledger.CreateCashTransaction("Buvette", "Marie", -20, domain.NewDate(2024, time.April, 1))
	require.NoError(t, err)

	party, err := domain.NewParty("Paul", []string{"PAUL MARTIN", "P. MARTIN"})
	require.NoError(t, err)
	require.NoError(t, ledger.AddParty(party))

	event, err := domain.NewEvent("Tournoi", "")
	require.NoError(t, err)
	require.NoError(t, ledger.AddEvent(event))

	require.NoError(t, store.Save(ledger))

	loaded, err := store.Load()
	require.NoError(t, err)

	transactions := loaded.Transactions()
	require.Len(t, transactions, 1)
	got := transactions[0]
	assert.Equal(t, "courant", got.Account)
	assert.Equal(t, domain.MethodTransfer, got.Method)
	assert.Equal(t, 150.0, got.Amount)
	assert.Equal(t, "05/03/2024", got.Date.String())
	assert.Equal(t, "06/03/2024", got.ValueDate.String())
	require.NotNil(t, got.Beneficiary)
	assert.Equal(t, "Paul Martin", *got.Beneficiary)
	assert.Nil(t, got.Originator)
	require.Len(t, got.Allocations(), 1)
	assert.Equal(t, "Paul", got.Allocations()[0].Party)
	assert.Equal(t, "Tournoi", got.Allocations()[0].EventName())

	cashLoaded := loaded.CashTransactions()
	require.Len(t, cashLoaded, 1)
	assert.Equal(t, cash.ID, cashLoaded[0].ID)
	assert.Equal(t, "Buvette", cashLoaded[0].Label)
	assert.Equal(t, -20.0, cashLoaded[0].Amount)

	assert.Equal(t, "Paul", loaded.ResolveParty("P. MARTIN"))

	events := loaded.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Tournoi", events[0].Name)
	assert.Equal(t, "#FFFFFF", events[0].Color, "default color survives the round trip")
}

func TestLoad_MissingDirectoryIsEmptyLedger(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "absent"))

	ledger, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, ledger.Transactions())
	assert.Empty(t, ledger.CashTransactions())
	assert.Empty(t, ledger.Parties())
	assert.Empty(t, ledger.Events())
}

func TestLoad_CorruptCollection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "operations.json"), []byte("{oops"), 0644))

	_, err := New(dir).Load()
	assert.ErrorContains(t, err, "operations.json")
}

func TestSave_WritesAllCollections(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, New(dir).Save(domain.NewLedger()))

	for _, name := range []string{"operations.json", "cash_operations.json", "tiers.json", "events.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}
