package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testPlan = Plan{
	Name:         "saldo-monthly",
	MonthlyPrice: decimal.RequireFromString("9.90"),
	TrialDays:    7,
	GraceDays:    3,
}

func TestEvaluate_TrialLifecycle(t *testing.T) {
	started := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	sub := Subscription{OwnerKey: "5511999990000", StartedAt: started}

	t.Run("inside trial", func(t *testing.T) {
		snap := Evaluate(sub, testPlan, started.AddDate(0, 0, 3))
		assert.Equal(t, StatusTrialing, snap.Status)
		assert.True(t, snap.HasAccess)
		assert.Equal(t, started.AddDate(0, 0, 7), snap.TrialEndsAt)
	})

	t.Run("trial over, never paid", func(t *testing.T) {
		snap := Evaluate(sub, testPlan, started.AddDate(0, 0, 8))
		assert.Equal(t, StatusExpired, snap.Status)
		assert.False(t, snap.HasAccess)
	})
}

func TestEvaluate_PaidLifecycle(t *testing.T) {
	started := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	sub := Subscription{
		OwnerKey:         "5511999990000",
		StartedAt:        started,
		CurrentPeriodEnd: &periodEnd,
	}

	cases := []struct {
		name       string
		now        time.Time
		wantStatus Status
		wantAccess bool
	}{
		{"mid period", periodEnd.AddDate(0, 0, -10), StatusActive, true},
		{"just before renewal", periodEnd.Add(-time.Second), StatusActive, true},
		{"inside grace window", periodEnd.AddDate(0, 0, 1), StatusPastDue, true},
		{"after grace window", periodEnd.AddDate(0, 0, 3), StatusExpired, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap := Evaluate(sub, testPlan, tc.now)
			assert.Equal(t, tc.wantStatus, snap.Status)
			assert.Equal(t, tc.wantAccess, snap.HasAccess)
		})
	}
}

func TestEvaluate_SnapshotCarriesPlan(t *testing.T) {
	sub := Subscription{OwnerKey: "x", StartedAt: time.Now()}
	snap := Evaluate(sub, testPlan, time.Now())
	assert.Equal(t, "saldo-monthly", snap.Plan)
	assert.True(t, snap.Price.Equal(decimal.RequireFromString("9.90")))
}
