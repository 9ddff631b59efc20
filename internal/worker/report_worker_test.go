package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/amqp"
	"saldo/internal/core"
	"saldo/internal/services"
	"saldo/internal/sheets/memory"
)

type stubStore struct {
	transactions []core.Transaction
}

func (s *stubStore) CreateTransaction(_ context.Context, t core.Transaction) error {
	s.transactions = append(s.transactions, t)
	return nil
}

func (s *stubStore) ListTransactions(_ context.Context, ownerKey string) ([]core.Transaction, error) {
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.OwnerKey == ownerKey {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubStore) DeleteTransaction(_ context.Context, _ string, _ uuid.UUID) error {
	return nil
}

func (s *stubStore) GetMonthlyGoal(_ context.Context, _ string, _ core.MonthPeriod) (*core.Goal, error) {
	return nil, nil
}

func (s *stubStore) UpsertGoal(_ context.Context, _ core.Goal) error {
	return nil
}

func TestHandleReportJob_DeliversRows(t *testing.T) {
	store := &stubStore{transactions: []core.Transaction{{
		ID:          uuid.New(),
		OwnerKey:    "5511999990000",
		Amount:      decimal.RequireFromString("42.50"),
		Kind:        core.KindExpense,
		Description: "groceries",
		OccurredAt:  "2024-03-10",
		RecordedAt:  "2024-03-10",
	}}}
	sink := memory.New()

	w := NewReportWorker(services.NewDashboardService(store, store), sink)
	w.now = func() time.Time {
		return time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	}

	msg := amqp.NewReportJobMessage("5511999990000", "Dana", string(core.ModeMonth))
	require.NoError(t, w.HandleReportJob(context.Background(), msg))

	rows := sink.Rows()
	// Title, summary, header, one transaction.
	require.Len(t, rows, 4)
	assert.Contains(t, rows[0][0], "Dana")
	assert.Equal(t, "2024-03-10", rows[3][0])
	assert.Equal(t, "42.50", rows[3][2])
}

func TestHandleReportJob_BadSelectionIsDroppedNotRequeued(t *testing.T) {
	store := &stubStore{}
	sink := memory.New()
	w := NewReportWorker(services.NewDashboardService(store, store), sink)

	msg := amqp.NewReportJobMessage("5511999990000", "Dana", "fortnight")
	require.NoError(t, w.HandleReportJob(context.Background(), msg))
	assert.Empty(t, sink.Rows())
}
