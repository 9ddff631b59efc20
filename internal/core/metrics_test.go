package core

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_MarchScenario(t *testing.T) {
	transactions := []Transaction{
		tx(KindExpense, "100", "2024-03-05"),
		tx(KindIncome, "50", "2024-03-10"),
	}
	m := Aggregate(transactions)
	assert.True(t, m.TotalExpense.Equal(dec("100")), "expense: %s", m.TotalExpense)
	assert.True(t, m.TotalIncome.Equal(dec("50")), "income: %s", m.TotalIncome)
	assert.True(t, m.Balance.Equal(dec("-50")), "balance: %s", m.Balance)
	assert.Equal(t, 2, m.Count)
}

func TestAggregate_BalanceIdentity(t *testing.T) {
	transactions := []Transaction{
		tx(KindIncome, "0.10", "2024-03-01"),
		tx(KindIncome, "0.20", "2024-03-02"),
		tx(KindExpense, "0.30", "2024-03-03"),
		tx(KindExpense, "1234.56", "2024-03-04"),
		tx(KindIncome, "9999.99", "2024-03-05"),
	}
	m := Aggregate(transactions)
	assert.True(t, m.Balance.Equal(m.TotalIncome.Sub(m.TotalExpense)),
		"balance must equal income minus expense exactly")
	// 0.1+0.2 style drift is exactly what decimal sums must not show.
	assert.True(t, m.TotalIncome.Equal(dec("10000.29")), "income: %s", m.TotalIncome)
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil)
	assert.True(t, m.TotalIncome.IsZero())
	assert.True(t, m.TotalExpense.IsZero())
	assert.True(t, m.Balance.IsZero())
	assert.Equal(t, 0, m.Count)
}

func TestByCategory(t *testing.T) {
	transactions := []Transaction{
		withCategory(tx(KindExpense, "300", "2024-03-01"), "groceries"),
		withCategory(tx(KindExpense, "100", "2024-03-02"), "groceries"),
		withCategory(tx(KindExpense, "200", "2024-03-03"), "transport"),
		withCategory(tx(KindExpense, "100", "2024-03-04"), ""),
		withCategory(tx(KindIncome, "5000", "2024-03-05"), "salary"), // income never counts
	}
	groups := ByCategory(transactions)
	require.Len(t, groups, 3)

	assert.Equal(t, "groceries", groups[0].Category)
	assert.True(t, groups[0].Total.Equal(dec("400")))
	assert.True(t, groups[0].Percent.Equal(dec("57.14")), "percent: %s", groups[0].Percent)

	assert.Equal(t, "transport", groups[1].Category)
	assert.Equal(t, UncategorizedLabel, groups[2].Category)
}

func TestByCategory_TruncatesToTopEightWithoutOtherBucket(t *testing.T) {
	var transactions []Transaction
	for i := 0; i < 12; i++ {
		tr := withCategory(tx(KindExpense, strconv.Itoa((i+1)*10), "2024-03-01"), fmt.Sprintf("cat-%02d", i))
		transactions = append(transactions, tr)
	}
	groups := ByCategory(transactions)
	require.Len(t, groups, 8)
	// Largest group first, smallest surviving group last. Dropped groups
	// vanish entirely rather than rolling into an aggregate row.
	assert.Equal(t, "cat-11", groups[0].Category)
	assert.Equal(t, "cat-04", groups[7].Category)
	for _, g := range groups {
		assert.NotEqual(t, "other", g.Category)
	}
}

func TestByEstablishment(t *testing.T) {
	transactions := []Transaction{
		withEstablishment(tx(KindExpense, "80", "2024-03-01"), "Mercado Azul"),
		withEstablishment(tx(KindIncome, "40", "2024-03-02"), "Mercado Azul"),
		withEstablishment(tx(KindExpense, "90", "2024-03-03"), "Padaria Sol"),
		withEstablishment(tx(KindExpense, "15", "2024-03-04"), ""),
	}
	groups := ByEstablishment(transactions)
	require.Len(t, groups, 3)

	assert.Equal(t, "Mercado Azul", groups[0].Establishment)
	assert.True(t, groups[0].Income.Equal(dec("40")))
	assert.True(t, groups[0].Expense.Equal(dec("80")))
	assert.Equal(t, "Padaria Sol", groups[1].Establishment)
	assert.Equal(t, NoEstablishmentLabel, groups[2].Establishment)
}

func TestByEstablishment_TruncatesToTopTen(t *testing.T) {
	var transactions []Transaction
	for i := 0; i < 14; i++ {
		tr := withEstablishment(tx(KindExpense, strconv.Itoa(100-i), "2024-03-01"), fmt.Sprintf("shop-%02d", i))
		transactions = append(transactions, tr)
	}
	groups := ByEstablishment(transactions)
	assert.Len(t, groups, 10)
}

func TestByDay(t *testing.T) {
	transactions := []Transaction{
		tx(KindExpense, "30", "2024-03-02"),
		tx(KindIncome, "100", "2024-03-01"),
		tx(KindExpense, "20", "2024-03-01"),
	}
	buckets := ByDay(transactions)
	require.Len(t, buckets, 2)

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), buckets[0].Date)
	assert.True(t, buckets[0].Income.Equal(dec("100")))
	assert.True(t, buckets[0].Expense.Equal(dec("20")))
	assert.True(t, buckets[0].Balance.Equal(dec("80")))

	assert.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), buckets[1].Date)
	assert.True(t, buckets[1].Balance.Equal(dec("-30")))
}

func TestByDay_KeepsMostRecentThirtyBuckets(t *testing.T) {
	var transactions []Transaction
	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		transactions = append(transactions, tx(KindExpense, "1", day.AddDate(0, 0, i).Format(DateLayout)))
	}
	buckets := ByDay(transactions)
	require.Len(t, buckets, 30)
	// Ascending order, ending on the most recent day.
	for i := 1; i < len(buckets); i++ {
		assert.True(t, buckets[i].Date.After(buckets[i-1].Date), "buckets must be in non-decreasing date order")
	}
	assert.Equal(t, day.AddDate(0, 0, 44), buckets[len(buckets)-1].Date)
	assert.Equal(t, day.AddDate(0, 0, 15), buckets[0].Date)
}

func withCategory(t Transaction, category string) Transaction {
	t.Category = category
	return t
}

func withEstablishment(t Transaction, establishment string) Transaction {
	t.Establishment = establishment
	return t
}
