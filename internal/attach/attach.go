// Package attach stores supporting documents (invoices) for
// transactions. A copy of the source file is filed under the attachment
// root by account, and the stored path is recorded verbatim on the
// transaction.
package attach

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

// Manager copies attachment files under a root folder, one subfolder per
// account.
type Manager struct {
	root string
}

// New creates a manager rooted at the given attachment folder.
func New(root string) *Manager {
	return &Manager{root: root}
}

// Attach copies the source file next to the other attachments of the
// transaction's account and records the stored path on the transaction.
// The filename keeps the legacy format: month_day_year, account, slugged
// label and amount without its decimal point, plus the source extension.
func (m *Manager) Attach(tx *domain.Transaction, srcPath string) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("transaction cannot be nil")
	}

	accountDir := filepath.Join(m.root, tx.Account)
	if err := os.MkdirAll(accountDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create attachment folder: %w", err)
	}

	amountText := strings.ReplaceAll(fmt.Sprintf("%v", tx.Amount), ".", "")
	filename := fmt.Sprintf("%s_%s_%s_%s%s",
		tx.Date.Format("01_02_2006"),
		tx.Account,
		Slug(tx.Label),
		amountText,
		filepath.Ext(srcPath),
	)

	destPath := filepath.Join(accountDir, filename)
	if err := copyFile(srcPath, destPath); err != nil {
		return "", err
	}

	tx.Invoice = &destPath
	return destPath, nil
}

func copyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open attachment source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create attachment copy: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close attachment copy: %w", closeErr)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy attachment: %w", err)
	}
	return nil
}
