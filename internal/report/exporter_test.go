package report

import (
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
)

func sample(kind core.Kind, amount, occurredAt, establishment, description string) core.Transaction {
	return core.Transaction{
		ID:            uuid.New(),
		OwnerKey:      "5511999990000",
		Amount:        decimal.RequireFromString(amount),
		Kind:          kind,
		Category:      "groceries",
		Establishment: establishment,
		Description:   description,
		OccurredAt:    occurredAt,
		RecordedAt:    "2024-03-01",
	}
}

func TestNarrativeText(t *testing.T) {
	transactions := []core.Transaction{
		sample(core.KindExpense, "100", "2024-03-05", "Mercado Azul", "weekly shop"),
		sample(core.KindIncome, "50", "2024-03-10", "", "refund"),
	}
	metrics := core.Aggregate(transactions)
	generatedAt := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	out := NarrativeText(transactions, metrics, "Maria", "March 2024", generatedAt)

	assert.Contains(t, out, "Financial report for Maria")
	assert.Contains(t, out, "Period: March 2024")
	assert.Contains(t, out, "Generated: 2024-03-15 10:30")
	assert.Contains(t, out, "Income:   50.00")
	assert.Contains(t, out, "Expenses: 100.00")
	assert.Contains(t, out, "Balance:  -50.00")
	assert.Contains(t, out, "Records:  2")
	assert.Contains(t, out, "Mercado Azul")
	assert.Contains(t, out, core.NoEstablishmentLabel)
	assert.NotContains(t, out, "more")
}

func TestNarrativeText_CapsItemsAtTen(t *testing.T) {
	var transactions []core.Transaction
	for i := 0; i < 14; i++ {
		transactions = append(transactions,
			sample(core.KindExpense, "10", "2024-03-05", "shop", fmt.Sprintf("item %d", i)))
	}
	metrics := core.Aggregate(transactions)

	out := NarrativeText(transactions, metrics, "Maria", "March 2024", time.Now())

	assert.Contains(t, out, "item 0", "input order kept, first items shown")
	assert.Contains(t, out, "item 9")
	assert.NotContains(t, out, "item 10")
	assert.Contains(t, out, "+4 more")
}

func TestNarrativeText_Empty(t *testing.T) {
	out := NarrativeText(nil, core.Aggregate(nil), "Maria", "March 2024", time.Now())
	assert.Contains(t, out, "(none in this period)")
}

func TestDelimitedTable_RoundTripsRowCount(t *testing.T) {
	transactions := []core.Transaction{
		sample(core.KindExpense, "100", "2024-03-05", "Mercado Azul", "weekly shop"),
		sample(core.KindIncome, "50", "2024-03-10", "Cafe, Centro", "contains, delimiter"),
		sample(core.KindExpense, "12.34", "", "Padaria Sol", "bread"),
	}

	out, err := DelimitedTable(transactions)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(transactions)+1, "header plus one row per transaction")

	assert.Equal(t, []string{"date", "establishment", "amount", "kind", "category", "description"}, records[0])
	assert.Equal(t, "2024-03-05", records[1][0])
	assert.Equal(t, "Cafe, Centro", records[2][1], "delimiter inside a field survives quoting")
	assert.Equal(t, "2024-03-01", records[3][0], "recordedAt fallback when occurredAt is empty")
	assert.Equal(t, "100.00", records[1][2])
}

func TestDelimitedTable_Empty(t *testing.T) {
	out, err := DelimitedTable(nil)
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
