package attach

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"VIR SEPA Crédit Agricole", "VIR_SEPA_Credit_Agricole"},
		{"CARTE 05/03 BOULANGERIE", "CARTE_05_03_BOULANGERIE"},
		{"élève très motivé", "eleve_tres_motive"},
		{"  --  ", "operation"},
		{"", "operation"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestAttach(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), "facture.pdf")
	require.NoError(t, os.WriteFile(src, []byte("contenu"), 0644))

	tx, err := domain.NewTransaction("courant", domain.MethodCard, "CARTE Boulangerie Dupré", -12.5,
		domain.NewDate(2024, time.March, 5), domain.NewDate(2024, time.March, 5))
	require.NoError(t, err)

	dest, err := New(root).Attach(tx, src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "courant", "03_05_2024_courant_CARTE_Boulangerie_Dupre_-125.pdf"), dest)
	require.NotNil(t, tx.Invoice)
	assert.Equal(t, dest, *tx.Invoice)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "contenu", string(content))
}

func TestAttach_MissingSource(t *testing.T) {
	tx, err := domain.NewTransaction("courant", domain.MethodCard, "CARTE", -5,
		domain.NewDate(2024, time.March, 5), domain.NewDate(2024, time.March, 5))
	require.NoError(t, err)

	_, err = New(t.TempDir()).Attach(tx, filepath.Join(t.TempDir(), "absent.pdf"))
	assert.Error(t, err)
	assert.Nil(t, tx.Invoice)
}

func TestAttach_NilTransaction(t *testing.T) {
	_, err := New(t.TempDir()).Attach(nil, "facture.pdf")
	assert.Error(t, err)
}
