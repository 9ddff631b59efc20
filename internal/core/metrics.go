package core

import (
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown limits. Groups beyond the cut are dropped, not merged into an
// "other" bucket; chart legends rely on seeing exactly the top groups.
const (
	maxCategoryGroups      = 8
	maxEstablishmentGroups = 10
	maxDayBuckets          = 30
)

type (
	// Metrics is the summary over a (usually pre-filtered) transaction set.
	Metrics struct {
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		Balance      decimal.Decimal
		Count        int
	}

	// CategoryGroup is one slice of the expense-by-category breakdown.
	CategoryGroup struct {
		Category string
		Total    decimal.Decimal
		Percent  decimal.Decimal // share of the summed category total
	}

	// EstablishmentGroup carries income and expense per establishment.
	EstablishmentGroup struct {
		Establishment string
		Income        decimal.Decimal
		Expense       decimal.Decimal
	}

	// DayBucket holds per-calendar-day totals for the trend chart.
	DayBucket struct {
		Date    time.Time
		Income  decimal.Decimal
		Expense decimal.Decimal
		Balance decimal.Decimal
	}
)

// Aggregate reduces a transaction set into summary metrics. Sums are exact
// decimals; Balance is always TotalIncome minus TotalExpense.
func Aggregate(transactions []Transaction) Metrics {
	m := Metrics{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		Count:        len(transactions),
	}
	for _, t := range transactions {
		switch t.Kind {
		case KindIncome:
			m.TotalIncome = m.TotalIncome.Add(t.Amount)
		case KindExpense:
			m.TotalExpense = m.TotalExpense.Add(t.Amount)
		}
	}
	m.Balance = m.TotalIncome.Sub(m.TotalExpense)
	return m
}

// ByCategory groups expense transactions by category, sums each group and
// computes its share of the expense total. Groups are ordered by descending
// total and truncated to the top eight.
func ByCategory(transactions []Transaction) []CategoryGroup {
	sums := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Kind != KindExpense {
			continue
		}
		label := t.CategoryLabel()
		sums[label] = sums[label].Add(t.Amount)
	}

	total := decimal.Zero
	for _, v := range sums {
		total = total.Add(v)
	}

	groups := make([]CategoryGroup, 0, len(sums))
	for name, sum := range sums {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = sum.Mul(decimal.NewFromInt(100)).Div(total).Round(2)
		}
		groups = append(groups, CategoryGroup{Category: name, Total: sum, Percent: pct})
	}
	sortGroupsDesc(groups)

	if len(groups) > maxCategoryGroups {
		groups = groups[:maxCategoryGroups]
	}
	return groups
}

// ByEstablishment groups transactions of both kinds by establishment,
// summing income and expense separately, ranked by combined total and
// truncated to the top ten.
func ByEstablishment(transactions []Transaction) []EstablishmentGroup {
	type acc struct {
		income  decimal.Decimal
		expense decimal.Decimal
	}
	sums := make(map[string]*acc)
	for _, t := range transactions {
		label := t.EstablishmentLabel()
		a, ok := sums[label]
		if !ok {
			a = &acc{income: decimal.Zero, expense: decimal.Zero}
			sums[label] = a
		}
		switch t.Kind {
		case KindIncome:
			a.income = a.income.Add(t.Amount)
		case KindExpense:
			a.expense = a.expense.Add(t.Amount)
		}
	}

	groups := make([]EstablishmentGroup, 0, len(sums))
	for name, a := range sums {
		groups = append(groups, EstablishmentGroup{
			Establishment: name,
			Income:        a.income,
			Expense:       a.expense,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ti := groups[i].Income.Add(groups[i].Expense)
		tj := groups[j].Income.Add(groups[j].Expense)
		if !ti.Equal(tj) {
			return ti.GreaterThan(tj)
		}
		return groups[i].Establishment < groups[j].Establishment
	})

	if len(groups) > maxEstablishmentGroups {
		groups = groups[:maxEstablishmentGroups]
	}
	return groups
}

// ByDay groups transactions into calendar-day buckets on the effective
// date, ascending, keeping only the most recent thirty buckets (buckets,
// not transactions). Records with unparseable dates are skipped and
// reported, matching the filter engine's policy.
func ByDay(transactions []Transaction) []DayBucket {
	buckets := make(map[time.Time]*DayBucket)
	for _, t := range transactions {
		eff, err := t.EffectiveDate()
		if err != nil {
			slog.Warn("Transaction excluded from daily buckets: unparseable effective date",
				"transaction_id", t.ID, "error", err)
			continue
		}
		day := midnight(eff)
		b, ok := buckets[day]
		if !ok {
			b = &DayBucket{Date: day, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[day] = b
		}
		switch t.Kind {
		case KindIncome:
			b.Income = b.Income.Add(t.Amount)
		case KindExpense:
			b.Expense = b.Expense.Add(t.Amount)
		}
	}

	out := make([]DayBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Balance = b.Income.Sub(b.Expense)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	if len(out) > maxDayBuckets {
		out = out[len(out)-maxDayBuckets:]
	}
	return out
}

func sortGroupsDesc(groups []CategoryGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if !groups[i].Total.Equal(groups[j].Total) {
			return groups[i].Total.GreaterThan(groups[j].Total)
		}
		return groups[i].Category < groups[j].Category
	})
}
