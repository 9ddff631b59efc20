// Package billing evaluates the paywall state of an account. Checkout and
// payment processing live in an external collaborator; this package only
// derives the subscription status snapshot the dashboard gate needs.
package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusExpired  Status = "expired"
)

type (
	Status string

	// Plan is the single paid tier.
	Plan struct {
		Name         string
		MonthlyPrice decimal.Decimal
		TrialDays    int
		GraceDays    int
	}

	// Subscription is the billing state persisted per account.
	Subscription struct {
		OwnerKey         string
		StartedAt        time.Time  // account creation, trial anchor
		CurrentPeriodEnd *time.Time // nil while the account has never paid
	}

	// Snapshot is what the paywall check returns to the UI.
	Snapshot struct {
		Status       Status
		Plan         string
		Price        decimal.Decimal
		TrialEndsAt  time.Time
		PeriodEndsAt *time.Time
		HasAccess    bool
	}
)

// Evaluate derives the subscription status at the given instant. `now` is
// threaded explicitly so the evaluation is pure and testable, matching the
// rest of the time handling in this codebase.
//
// Rules: an account that never paid is trialing until StartedAt+TrialDays,
// then expired. A paid account is active until CurrentPeriodEnd, past_due
// through the grace window, and expired after that. Trialing, active and
// past_due all keep dashboard access; only expired hits the paywall.
func Evaluate(sub Subscription, plan Plan, now time.Time) Snapshot {
	trialEnd := sub.StartedAt.AddDate(0, 0, plan.TrialDays)

	snap := Snapshot{
		Plan:         plan.Name,
		Price:        plan.MonthlyPrice,
		TrialEndsAt:  trialEnd,
		PeriodEndsAt: sub.CurrentPeriodEnd,
	}

	if sub.CurrentPeriodEnd == nil {
		if now.Before(trialEnd) {
			snap.Status = StatusTrialing
			snap.HasAccess = true
		} else {
			snap.Status = StatusExpired
		}
		return snap
	}

	periodEnd := *sub.CurrentPeriodEnd
	graceEnd := periodEnd.AddDate(0, 0, plan.GraceDays)

	switch {
	case now.Before(periodEnd):
		snap.Status = StatusActive
		snap.HasAccess = true
	case now.Before(graceEnd):
		snap.Status = StatusPastDue
		snap.HasAccess = true
	default:
		snap.Status = StatusExpired
	}
	return snap
}
