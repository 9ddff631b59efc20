package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// DateLayout is the timezone-naive business date format used everywhere
// a transaction date crosses the boundary into the core.
const DateLayout = "2006-01-02"

// Fallback labels applied when a transaction leaves a dimension empty.
const (
	UncategorizedLabel   = "uncategorized"
	NoEstablishmentLabel = "not informed"
)

type (
	Kind string

	// Transaction is an immutable financial record as read from the store.
	// The core never mutates transactions; it only derives values from them.
	Transaction struct {
		ID            uuid.UUID
		OwnerKey      string
		Amount        decimal.Decimal
		Kind          Kind
		Category      string
		Establishment string
		Description   string
		OccurredAt    string // business date (DateLayout), may be empty
		RecordedAt    string // insertion date (DateLayout)
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyOwnerKey    = errors.New("empty owner key")
	ErrEmptyDescription = errors.New("empty description")
)

// EffectiveDate returns the business-relevant date of the transaction,
// preferring OccurredAt over RecordedAt. Dates are parsed timezone-naive
// (UTC); RFC 3339 timestamps from the store are accepted and truncated
// to their calendar day.
func (t Transaction) EffectiveDate() (time.Time, error) {
	raw := t.OccurredAt
	if strings.TrimSpace(raw) == "" {
		raw = t.RecordedAt
	}
	return ParseDate(raw)
}

// ParseDate parses a timezone-naive business date.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}
	if d, err := time.ParseInLocation(DateLayout, raw, time.UTC); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		y, m, d := ts.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidDate
}

// CategoryLabel returns the category with the uncategorized fallback applied.
func (t Transaction) CategoryLabel() string {
	if strings.TrimSpace(t.Category) == "" {
		return UncategorizedLabel
	}
	return t.Category
}

// EstablishmentLabel returns the establishment with the fallback applied.
func (t Transaction) EstablishmentLabel() string {
	if strings.TrimSpace(t.Establishment) == "" {
		return NoEstablishmentLabel
	}
	return t.Establishment
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerKey) == "" {
		return ErrEmptyOwnerKey
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if _, err := ParseDate(t.RecordedAt); err != nil {
		return err
	}
	if strings.TrimSpace(t.OccurredAt) != "" {
		if _, err := ParseDate(t.OccurredAt); err != nil {
			return err
		}
	}
	return nil
}
