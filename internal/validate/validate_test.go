package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

func testLedger(t *testing.T) *domain.Ledger {
	t.Helper()
	ledger := domain.NewLedger()

	event, err := domain.NewEvent("Tournoi", "")
	require.NoError(t, err)
	require.NoError(t, ledger.AddEvent(event))

	tx, err := domain.NewTransaction("courant", domain.MethodTransfer, "VIR", 100,
		domain.NewDate(2024, time.March, 5), domain.NewDate(2024, time.March, 5))
	require.NoError(t, err)
	alloc, err := domain.NewAllocation("Paul", 100, "Tournoi")
	require.NoError(t, err)
	tx.AppendAllocation(alloc)
	require.NoError(t, ledger.AddTransaction(tx))

	return ledger
}

func TestLedger_Clean(t *testing.T) {
	result := Ledger(testLedger(t))
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestLedger_UnknownEventIsWarning(t *testing.T) {
	ledger := testLedger(t)
	transactions := ledger.Transactions()
	alloc, err := domain.NewAllocation("Marie", 10, "Gala")
	require.NoError(t, err)
	transactions[0].AppendAllocation(alloc)

	result := Ledger(ledger)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, `unknown event "Gala"`)
	assert.Equal(t, "transaction", result.Warnings[0].Entity)
}

func TestLedger_SharedVariantIsWarning(t *testing.T) {
	ledger := testLedger(t)
	paul, err := domain.NewParty("Paul", []string{"P. MARTIN"})
	require.NoError(t, err)
	require.NoError(t, ledger.AddParty(paul))
	pierre, err := domain.NewParty("Pierre", []string{"P. MARTIN"})
	require.NoError(t, err)
	require.NoError(t, ledger.AddParty(pierre))

	result := Ledger(ledger)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "first match wins")
}

func TestLedger_CashMissingDateIsError(t *testing.T) {
	ledger := testLedger(t)
	// Hand-edited data files can carry a cash record without a date; the
	// ledger load path does not reject it.
	require.NoError(t, ledger.AddCashTransaction(&domain.CashTransaction{
		ID: 1, Label: "Buvette", Amount: 5,
	}))

	result := Ledger(ledger)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "cash transaction", result.Errors[0].Entity)
	assert.Contains(t, result.Errors[0].Message, "missing date")
}

func TestLedger_UnknownMethodIsError(t *testing.T) {
	ledger := testLedger(t)
	ledger.Transactions()[0].Method = domain.PaymentMethod("ESPECES")

	result := Ledger(ledger)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Message, `unknown payment method "ESPECES"`)
}
