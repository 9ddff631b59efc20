package core

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PeriodMonth PeriodType = "month"
	PeriodWeek  PeriodType = "week"
)

type (
	PeriodType string

	// MonthPeriod identifies the calendar month a goal is scoped to.
	MonthPeriod struct {
		Year  int
		Month time.Month
	}

	// WeekPeriod is a labeled Monday..Sunday date range.
	WeekPeriod struct {
		Label string
		Start string // DateLayout, Monday
		End   string // DateLayout, Sunday
	}

	// Goal is a spending target for one period. The store guarantees at
	// most one goal per (owner, period, period type); lookups here expect
	// zero or one match.
	Goal struct {
		ID           uuid.UUID
		OwnerKey     string
		TargetAmount decimal.Decimal
		PeriodType   PeriodType
		Month        MonthPeriod // set when PeriodType is PeriodMonth
		Week         WeekPeriod  // set when PeriodType is PeriodWeek
		SpentSoFar   decimal.Decimal
	}

	// GoalProgress is the derived state rendered by the dashboard.
	GoalProgress struct {
		Spent        decimal.Decimal
		Target       decimal.Decimal
		Percentage   decimal.Decimal // capped at 100
		IsOverBudget bool
		Excess       decimal.Decimal // spent beyond target, 0 when within
		Remaining    decimal.Decimal // target left to spend, 0 when over
	}
)

var (
	ErrInvalidTarget = errors.New("goal target must be positive")
	ErrInvalidPeriod = errors.New("invalid goal period")
)

var hundred = decimal.NewFromInt(100)

// Progress derives the goal state from the recorded spend, or from an
// explicit override computed from live transactions. The computation is
// pure and idempotent; it runs on every dashboard refresh.
//
// A zero target never divides: the percentage is defined as 0 so nothing
// downstream sees NaN or infinity. Zero-target goals are also rejected at
// creation, so this is a belt for data that predates validation.
func (g Goal) Progress(spentOverride *decimal.Decimal) GoalProgress {
	spent := g.SpentSoFar
	if spentOverride != nil {
		spent = *spentOverride
	}

	p := GoalProgress{
		Spent:     spent,
		Target:    g.TargetAmount,
		Excess:    decimal.Zero,
		Remaining: decimal.Zero,
	}

	if g.TargetAmount.IsPositive() {
		pct := spent.Mul(hundred).Div(g.TargetAmount).Round(2)
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		p.Percentage = pct
	} else {
		p.Percentage = decimal.Zero
	}

	if spent.GreaterThan(g.TargetAmount) {
		p.IsOverBudget = true
		p.Excess = spent.Sub(g.TargetAmount)
	} else {
		p.Remaining = g.TargetAmount.Sub(spent)
	}
	return p
}

// MonthlySpend sums the expenses whose effective date falls in the given
// month period. The goal's own period governs here, never the dashboard's
// currently selected window. Unparseable dates are skipped and reported.
func MonthlySpend(transactions []Transaction, period MonthPeriod) decimal.Decimal {
	spent := decimal.Zero
	for _, t := range transactions {
		if t.Kind != KindExpense {
			continue
		}
		eff, err := t.EffectiveDate()
		if err != nil {
			slog.Warn("Transaction excluded from goal spend: unparseable effective date",
				"transaction_id", t.ID, "error", err)
			continue
		}
		if eff.Year() == period.Year && eff.Month() == period.Month {
			spent = spent.Add(t.Amount)
		}
	}
	return spent
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.OwnerKey) == "" {
		return ErrEmptyOwnerKey
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	switch g.PeriodType {
	case PeriodMonth:
		if g.Month.Year < 1 || g.Month.Month < time.January || g.Month.Month > time.December {
			return ErrInvalidPeriod
		}
	case PeriodWeek:
		start, err := ParseDate(g.Week.Start)
		if err != nil {
			return ErrInvalidPeriod
		}
		end, err := ParseDate(g.Week.End)
		if err != nil {
			return ErrInvalidPeriod
		}
		if start.Weekday() != time.Monday || end.Weekday() != time.Sunday || end.Before(start) {
			return ErrInvalidPeriod
		}
	default:
		return ErrInvalidPeriod
	}
	return nil
}
