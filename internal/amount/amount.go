// Package amount normalizes locale-formatted amount text from statement
// tables: `.` as thousands separator, `,` as decimal separator, and an
// optional `*` marker (e.g. "1.234,56" or "12,30*").
package amount

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rumor-ml/commons.systems/releve/internal/domain"
)

// Parse converts locale-formatted amount text to its numeric value.
// The marker and thousands separators are stripped, the decimal comma is
// replaced, and the rest must parse as a number. Failure wraps
// domain.ErrFormat.
func Parse(s string) (float64, error) {
	cleaned := strings.ReplaceAll(s, "*", "")
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", domain.ErrFormat, s)
	}
	return v, nil
}
