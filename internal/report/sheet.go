package report

import (
	"fmt"
	"time"

	"saldo/internal/core"
)

// SheetRows renders the report as spreadsheet rows: a title row, a summary
// row, a column header and one row per transaction. Amounts go out as
// strings so the spreadsheet does not re-round them.
func SheetRows(transactions []core.Transaction, metrics core.Metrics, userName, periodLabel string, generatedAt time.Time) [][]any {
	rows := [][]any{
		{fmt.Sprintf("Report for %s (%s)", userName, periodLabel), generatedAt.Format("2006-01-02 15:04")},
		{"income", metrics.TotalIncome.StringFixed(2),
			"expenses", metrics.TotalExpense.StringFixed(2),
			"balance", metrics.Balance.StringFixed(2),
			"records", metrics.Count},
		{"date", "establishment", "amount", "kind", "category", "description"},
	}
	for _, t := range transactions {
		rows = append(rows, []any{
			effectiveDateLabel(t),
			t.EstablishmentLabel(),
			t.Amount.StringFixed(2),
			string(t.Kind),
			t.CategoryLabel(),
			t.Description,
		})
	}
	return rows
}
