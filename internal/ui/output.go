// Package ui renders CLI output: progress steps, status lines and
// ingestion/summary reports.
package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rumor-ml/commons.systems/releve/internal/allocation"
	"github.com/rumor-ml/commons.systems/releve/internal/ingest"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)

	// Statement amounts follow the French convention; the report output
	// does too.
	amountPrinter = message.NewPrinter(language.French)
)

// Header prints a centered section header.
func Header(text string) {
	width := 60
	headerColor.Fprintln(os.Stderr, strings.Repeat("=", width))
	headerColor.Fprintln(os.Stderr, center(text, width))
	headerColor.Fprintln(os.Stderr, strings.Repeat("=", width))
}

// Step prints a numbered progress step.
func Step(current, total int, text string) {
	fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, text)
}

// Success prints a success line.
func Success(text string) {
	successColor.Fprintf(os.Stderr, "✓ %s\n", text)
}

// Warn prints a warning line.
func Warn(text string) {
	warnColor.Fprintf(os.Stderr, "! %s\n", text)
}

// Error prints an error line.
func Error(text string) {
	errorColor.Fprintf(os.Stderr, "✗ %s\n", text)
}

// Amount formats a signed amount with the French locale convention.
func Amount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

// PrintReport renders the outcome of one ingestion pass.
func PrintReport(r *ingest.Report) {
	Success(fmt.Sprintf("%d new transactions from %d files (%d already ingested)",
		r.NewTransactions, r.FilesIngested, r.FilesSkipped))
	for _, failure := range r.Failures {
		Error(failure.Error())
	}
}

// PrintEventSummary renders the per-party revenue/expense table for one
// event.
func PrintEventSummary(s *allocation.EventSummary) {
	Header(fmt.Sprintf("Event: %s", s.Event))

	parties := make([]string, 0, len(s.Parties))
	for party := range s.Parties {
		parties = append(parties, party)
	}
	sort.Strings(parties)

	fmt.Printf("%-30s %15s %15s %15s\n", "Party", "Revenue", "Expense", "Total")
	for _, party := range parties {
		pt := s.Parties[party]
		fmt.Printf("%-30s %15s %15s %15s\n", party, Amount(pt.Revenue), Amount(pt.Expense), Amount(pt.Total))
	}
	fmt.Printf("%-30s %15s %15s %15s\n", "TOTAL",
		Amount(s.TotalRevenue), Amount(s.TotalExpense), Amount(s.GrandTotal()))
}

// center pads text with leading spaces so it sits in the middle of the
// width. Text wider than the width is returned unchanged.
func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}
