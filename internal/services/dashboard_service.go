package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"saldo/internal/core"
)

// TransactionStore is the persistence the dashboard needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) error
	ListTransactions(ctx context.Context, ownerKey string) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, ownerKey string, id uuid.UUID) error
}

// GoalStore persists spending goals.
type GoalStore interface {
	GetMonthlyGoal(ctx context.Context, ownerKey string, period core.MonthPeriod) (*core.Goal, error)
	UpsertGoal(ctx context.Context, g core.Goal) error
}

// FilterSelection is the user's raw dashboard filter choice before window
// resolution.
type FilterSelection struct {
	Mode     core.FilterMode
	RefMonth *time.Time
	Custom   core.CustomRange
}

// GoalView pairs a goal with its computed progress.
type GoalView struct {
	Goal     core.Goal
	Progress core.GoalProgress
}

// Dashboard is the fully derived view for one owner and one filter
// selection. Transactions holds the windowed rows the metrics were
// computed from, so exporters can reuse them without re-filtering.
type Dashboard struct {
	Window         *core.TimeWindow
	Transactions   []core.Transaction
	Metrics        core.Metrics
	Categories     []core.CategoryGroup
	Establishments []core.EstablishmentGroup
	Days           []core.DayBucket
	Goal           *GoalView
}

// DashboardService derives the dashboard from stored transactions.
type DashboardService struct {
	transactions TransactionStore
	goals        GoalStore
}

func NewDashboardService(transactions TransactionStore, goals GoalStore) *DashboardService {
	return &DashboardService{
		transactions: transactions,
		goals:        goals,
	}
}

// Build loads the owner's transactions, resolves the filter window, and
// computes every derived metric. An unresolvable selection falls back to
// the full unfiltered history rather than failing the request.
func (s *DashboardService) Build(ctx context.Context, ownerKey string, sel FilterSelection, now time.Time) (*Dashboard, error) {
	all, err := s.transactions.ListTransactions(ctx, ownerKey)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	window := core.Resolve(sel.Mode, now, sel.RefMonth, sel.Custom)
	filtered := core.Filter(all, window)

	d := &Dashboard{
		Window:         window,
		Transactions:   filtered,
		Metrics:        core.Aggregate(filtered),
		Categories:     core.ByCategory(filtered),
		Establishments: core.ByEstablishment(filtered),
		Days:           core.ByDay(filtered),
	}

	goalView, err := s.goalView(ctx, ownerKey, all, now)
	if err != nil {
		return nil, err
	}
	d.Goal = goalView

	return d, nil
}

// goalView computes progress for the current month's goal. Spend is scoped
// to the goal's own period, not the dashboard window, so switching the
// dashboard to week view does not shrink the goal bar.
func (s *DashboardService) goalView(ctx context.Context, ownerKey string, all []core.Transaction, now time.Time) (*GoalView, error) {
	period := core.MonthPeriod{Year: now.Year(), Month: now.Month()}
	goal, err := s.goals.GetMonthlyGoal(ctx, ownerKey, period)
	if err != nil {
		return nil, fmt.Errorf("get monthly goal: %w", err)
	}
	if goal == nil {
		return nil, nil
	}

	spent := core.MonthlySpend(all, period)
	return &GoalView{
		Goal:     *goal,
		Progress: goal.Progress(&spent),
	}, nil
}

// SaveMonthlyGoal creates or replaces the owner's goal for the given month.
func (s *DashboardService) SaveMonthlyGoal(ctx context.Context, g core.Goal) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if err := s.goals.UpsertGoal(ctx, g); err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}
