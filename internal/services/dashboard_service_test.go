package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/core"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

type fakeStore struct {
	transactions []core.Transaction
	goal         *core.Goal
	savedGoals   []core.Goal
	deletedIDs   []uuid.UUID
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) error {
	f.transactions = append(f.transactions, t)
	return nil
}

func (f *fakeStore) ListTransactions(_ context.Context, ownerKey string) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range f.transactions {
		if t.OwnerKey == ownerKey {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, _ string, id uuid.UUID) error {
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeStore) GetMonthlyGoal(_ context.Context, _ string, _ core.MonthPeriod) (*core.Goal, error) {
	return f.goal, nil
}

func (f *fakeStore) UpsertGoal(_ context.Context, g core.Goal) error {
	f.savedGoals = append(f.savedGoals, g)
	return nil
}

func tx(owner, date, amount string, kind core.Kind) core.Transaction {
	return core.Transaction{
		ID:          uuid.New(),
		OwnerKey:    owner,
		Amount:      decimal.RequireFromString(amount),
		Kind:        kind,
		Description: "test transaction",
		OccurredAt:  date,
		RecordedAt:  date,
	}
}

func TestBuild_MonthModeFiltersAndAggregates(t *testing.T) {
	store := &fakeStore{transactions: []core.Transaction{
		tx("owner-a", "2024-03-10", "100.00", core.KindExpense),
		tx("owner-a", "2024-03-12", "250.00", core.KindIncome),
		tx("owner-a", "2024-02-20", "999.00", core.KindExpense), // outside March
		tx("owner-b", "2024-03-11", "50.00", core.KindExpense),  // other owner
	}}
	svc := NewDashboardService(store, store)

	d, err := svc.Build(context.Background(), "owner-a", FilterSelection{Mode: core.ModeMonth}, testNow)
	require.NoError(t, err)

	require.NotNil(t, d.Window)
	assert.Len(t, d.Transactions, 2)
	assert.True(t, d.Metrics.TotalExpense.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, d.Metrics.TotalIncome.Equal(decimal.RequireFromString("250.00")))
	assert.True(t, d.Metrics.Balance.Equal(decimal.RequireFromString("150.00")))
	assert.Nil(t, d.Goal)
}

func TestBuild_UnresolvedSelectionReturnsEverything(t *testing.T) {
	store := &fakeStore{transactions: []core.Transaction{
		tx("owner-a", "2024-03-10", "100.00", core.KindExpense),
		tx("owner-a", "2023-01-01", "40.00", core.KindExpense),
	}}
	svc := NewDashboardService(store, store)

	// Custom mode without bounds cannot resolve; dashboard falls back to
	// the unfiltered history.
	d, err := svc.Build(context.Background(), "owner-a", FilterSelection{Mode: core.ModeCustom}, testNow)
	require.NoError(t, err)

	assert.Nil(t, d.Window)
	assert.Len(t, d.Transactions, 2)
}

func TestBuild_GoalSpendScopedToGoalPeriod(t *testing.T) {
	goal := &core.Goal{
		ID:           uuid.New(),
		OwnerKey:     "owner-a",
		TargetAmount: decimal.RequireFromString("500.00"),
		PeriodType:   core.PeriodMonth,
		Month:        core.MonthPeriod{Year: 2024, Month: time.March},
	}
	store := &fakeStore{
		goal: goal,
		transactions: []core.Transaction{
			tx("owner-a", "2024-03-01", "200.00", core.KindExpense),
			tx("owner-a", "2024-03-20", "100.00", core.KindExpense),
		},
	}
	svc := NewDashboardService(store, store)

	// Week view: the window only covers March 8..16, but the goal bar must
	// still reflect the whole of March.
	d, err := svc.Build(context.Background(), "owner-a", FilterSelection{Mode: core.ModeWeek}, testNow)
	require.NoError(t, err)

	require.NotNil(t, d.Goal)
	assert.True(t, d.Goal.Progress.Spent.Equal(decimal.RequireFromString("300.00")),
		"spent %s", d.Goal.Progress.Spent)
	assert.False(t, d.Goal.Progress.IsOverBudget)
}

func TestSaveMonthlyGoal_AssignsID(t *testing.T) {
	store := &fakeStore{}
	svc := NewDashboardService(store, store)

	err := svc.SaveMonthlyGoal(context.Background(), core.Goal{
		OwnerKey:     "owner-a",
		TargetAmount: decimal.RequireFromString("400.00"),
		PeriodType:   core.PeriodMonth,
		Month:        core.MonthPeriod{Year: 2024, Month: time.March},
	})
	require.NoError(t, err)

	require.Len(t, store.savedGoals, 1)
	assert.NotEqual(t, uuid.Nil, store.savedGoals[0].ID)
}
