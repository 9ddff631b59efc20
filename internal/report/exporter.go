// Package report formats filtered transactions and their aggregates into
// shareable representations. Both exporters are pure; writing the result to
// a file, spreadsheet or mail body is the caller's job.
package report

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"saldo/internal/core"
)

// narrativeItemCap is how many transactions the text report itemizes before
// collapsing the rest into a "+N more" note. Callers pre-sort the input;
// the exporter keeps whatever order it receives.
const narrativeItemCap = 10

// NarrativeText renders a human-readable report: a header block, a summary
// block and an itemized list capped at the first ten transactions.
func NarrativeText(transactions []core.Transaction, metrics core.Metrics, userName, periodLabel string, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("========================================\n")
	fmt.Fprintf(&b, " Financial report for %s\n", userName)
	fmt.Fprintf(&b, " Period: %s\n", periodLabel)
	fmt.Fprintf(&b, " Generated: %s\n", generatedAt.Format("2006-01-02 15:04"))
	b.WriteString("========================================\n\n")

	b.WriteString("Summary\n")
	fmt.Fprintf(&b, "  Income:   %s\n", metrics.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "  Expenses: %s\n", metrics.TotalExpense.StringFixed(2))
	fmt.Fprintf(&b, "  Balance:  %s\n", metrics.Balance.StringFixed(2))
	fmt.Fprintf(&b, "  Records:  %d\n\n", metrics.Count)

	b.WriteString("Transactions\n")
	if len(transactions) == 0 {
		b.WriteString("  (none in this period)\n")
		return b.String()
	}

	shown := transactions
	if len(shown) > narrativeItemCap {
		shown = shown[:narrativeItemCap]
	}
	for i, t := range shown {
		fmt.Fprintf(&b, "  %2d. %s  %s  %s %s  [%s] %s\n",
			i+1,
			effectiveDateLabel(t),
			t.EstablishmentLabel(),
			string(t.Kind),
			t.Amount.StringFixed(2),
			t.CategoryLabel(),
			t.Description)
	}
	if rest := len(transactions) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "  +%d more\n", rest)
	}
	return b.String()
}

// DelimitedTable renders the transactions as CSV: one header row plus one
// row per transaction. Fields containing the delimiter are quoted by the
// encoder per RFC 4180.
func DelimitedTable(transactions []core.Transaction) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{"date", "establishment", "amount", "kind", "category", "description"}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for _, t := range transactions {
		row := []string{
			effectiveDateLabel(t),
			t.EstablishmentLabel(),
			t.Amount.StringFixed(2),
			string(t.Kind),
			t.CategoryLabel(),
			t.Description,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return b.String(), nil
}

// effectiveDateLabel prints the business date, falling back to the raw
// value when it does not parse so a malformed record still shows up in
// exports instead of disappearing.
func effectiveDateLabel(t core.Transaction) string {
	if eff, err := t.EffectiveDate(); err == nil {
		return eff.Format(core.DateLayout)
	}
	if strings.TrimSpace(t.OccurredAt) != "" {
		return t.OccurredAt
	}
	return t.RecordedAt
}
