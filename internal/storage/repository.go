package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saldo/internal/core"

	_ "modernc.org/sqlite"
)

// Account is the billing-facing row for one owner. The auth collaborator
// creates accounts; this repository only reads and updates them.
type Account struct {
	OwnerKey         string
	Name             string
	StartedAt        time.Time
	CurrentPeriodEnd *time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateTransaction validates and persists one transaction.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, owner_key, amount, kind, category, establishment, description, occurred_at, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(), t.OwnerKey, t.Amount.String(), string(t.Kind),
		t.Category, t.Establishment, t.Description,
		nullIfEmpty(t.OccurredAt), t.RecordedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", t.ID,
		"owner_key", t.OwnerKey,
		"kind", t.Kind,
		"amount", t.Amount.String())
	return nil
}

// ListTransactions returns every live transaction for the owner, most
// recent business date first. Windowing happens in the core afterwards.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerKey string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_key, amount, kind, category, establishment, description,
		       COALESCE(occurred_at, ''), recorded_at
		FROM transactions
		WHERE owner_key = ? AND deleted_at IS NULL
		ORDER BY COALESCE(occurred_at, recorded_at) DESC, created_at DESC`,
		ownerKey)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t         core.Transaction
			id        string
			amount    string
			kind      string
		)
		if err := rows.Scan(&id, &t.OwnerKey, &amount, &kind, &t.Category,
			&t.Establishment, &t.Description, &t.OccurredAt, &t.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse transaction id %q: %w", id, err)
		}
		parsedAmount, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse transaction amount %q: %w", amount, err)
		}

		t.ID = parsedID
		t.Amount = parsedAmount
		t.Kind = core.Kind(kind)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// DeleteTransaction soft-deletes an owner's transaction. Deleting a row
// that does not exist (or belongs to someone else) is reported.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, ownerKey string, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = datetime('now')
		WHERE id = ? AND owner_key = ? AND deleted_at IS NULL`,
		id.String(), ownerKey)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetMonthlyGoal returns the owner's goal for a calendar month, or nil
// when none exists. Absence is a valid state, not an error.
func (r *SQLiteRepository) GetMonthlyGoal(ctx context.Context, ownerKey string, period core.MonthPeriod) (*core.Goal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_key, target_amount, spent_so_far
		FROM goals
		WHERE owner_key = ? AND period_type = ? AND period_year = ? AND period_month = ?`,
		ownerKey, string(core.PeriodMonth), period.Year, int(period.Month))

	var (
		id     string
		g      core.Goal
		target string
		spent  string
	)
	err := row.Scan(&id, &g.OwnerKey, &target, &spent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query monthly goal: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse goal id %q: %w", id, err)
	}
	parsedTarget, err := decimal.NewFromString(target)
	if err != nil {
		return nil, fmt.Errorf("parse goal target %q: %w", target, err)
	}
	parsedSpent, err := decimal.NewFromString(spent)
	if err != nil {
		return nil, fmt.Errorf("parse goal spent %q: %w", spent, err)
	}

	g.ID = parsedID
	g.TargetAmount = parsedTarget
	g.SpentSoFar = parsedSpent
	g.PeriodType = core.PeriodMonth
	g.Month = period
	return &g, nil
}

// UpsertGoal creates or replaces the goal for its period. The unique index
// on (owner, period type, period) enforces the one-goal-per-period rule.
func (r *SQLiteRepository) UpsertGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, owner_key, target_amount, period_type, period_year, period_month,
		                   week_label, week_start, week_end, spent_so_far)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_key, period_type, period_year, period_month, week_start)
		DO UPDATE SET target_amount = excluded.target_amount,
		              spent_so_far = excluded.spent_so_far,
		              week_label = excluded.week_label,
		              updated_at = datetime('now')`,
		g.ID.String(), g.OwnerKey, g.TargetAmount.String(), string(g.PeriodType),
		g.Month.Year, int(g.Month.Month),
		g.Week.Label, g.Week.Start, g.Week.End,
		g.SpentSoFar.String())
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved",
		"goal_id", g.ID,
		"owner_key", g.OwnerKey,
		"period_type", g.PeriodType,
		"target", g.TargetAmount.String())
	return nil
}

// GetAccount returns the billing row for one owner, or nil when the owner
// is unknown.
func (r *SQLiteRepository) GetAccount(ctx context.Context, ownerKey string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT owner_key, name, started_at, COALESCE(current_period_end, '')
		FROM accounts WHERE owner_key = ?`, ownerKey)

	a, err := scanAccount(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAccounts returns every account, for the admin panel.
func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT owner_key, name, started_at, COALESCE(current_period_end, '')
		FROM accounts ORDER BY started_at`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}
	return out, nil
}

// UpsertAccount creates or updates an account row. Exercised by the dev
// seed path and by tests; production accounts arrive via the auth
// collaborator writing to the same store.
func (r *SQLiteRepository) UpsertAccount(ctx context.Context, a Account) error {
	periodEnd := ""
	if a.CurrentPeriodEnd != nil {
		periodEnd = a.CurrentPeriodEnd.UTC().Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (owner_key, name, started_at, current_period_end)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner_key)
		DO UPDATE SET name = excluded.name,
		              current_period_end = excluded.current_period_end,
		              updated_at = datetime('now')`,
		a.OwnerKey, a.Name, a.StartedAt.UTC().Format(time.RFC3339), nullIfEmpty(periodEnd))
	if err != nil {
		return fmt.Errorf("upsert account: %w", err)
	}
	return nil
}

func scanAccount(scan func(dest ...any) error) (*Account, error) {
	var (
		a         Account
		startedAt string
		periodEnd string
	)
	if err := scan(&a.OwnerKey, &a.Name, &startedAt, &periodEnd); err != nil {
		return nil, err
	}

	parsedStart, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse account started_at %q: %w", startedAt, err)
	}
	a.StartedAt = parsedStart

	if periodEnd != "" {
		parsedEnd, err := time.Parse(time.RFC3339, periodEnd)
		if err != nil {
			return nil, fmt.Errorf("parse account period end %q: %w", periodEnd, err)
		}
		a.CurrentPeriodEnd = &parsedEnd
	}
	return &a, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
