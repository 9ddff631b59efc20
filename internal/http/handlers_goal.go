package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

type goalDetailJSON struct {
	ID       string   `json:"id"`
	Target   string   `json:"target"`
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Progress goalJSON `json:"progress"`
}

type saveGoalRequest struct {
	TargetAmount string `json:"target_amount"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
}

// handleGetGoal returns the owner's goal for the requested month (default
// the current one) with live progress. No goal is a 404, not an error.
func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	now := time.Now()

	period := core.MonthPeriod{Year: now.Year(), Month: now.Month()}
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid_goal", "year must be a number")
			return
		}
		period.Year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusUnprocessableEntity, "invalid_goal", "month must be 1..12")
			return
		}
		period.Month = time.Month(m)
	}

	goal, err := s.store.GetMonthlyGoal(r.Context(), claims.OwnerKey, period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Get goal failed",
			"owner_key", claims.OwnerKey, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to load goal")
		return
	}
	if goal == nil {
		writeError(w, http.StatusNotFound, "not_found", "no goal for this period")
		return
	}

	transactions, err := s.store.ListTransactions(r.Context(), claims.OwnerKey)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions for goal failed",
			"owner_key", claims.OwnerKey, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to load goal")
		return
	}

	spent := core.MonthlySpend(transactions, period)
	writeJSON(w, http.StatusOK, toGoalDetailJSON(*goal, goal.Progress(&spent)))
}

// handleSaveGoal creates or replaces the goal for a month. One goal per
// period; saving again overwrites the target.
func (s *Server) handleSaveGoal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	now := time.Now()

	var req saveGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_goal", "target_amount must be a decimal number")
		return
	}

	goal := core.Goal{
		OwnerKey:     claims.OwnerKey,
		TargetAmount: target,
		PeriodType:   core.PeriodMonth,
		Month:        core.MonthPeriod{Year: req.Year, Month: time.Month(req.Month)},
	}
	if req.Year == 0 && req.Month == 0 {
		goal.Month = core.MonthPeriod{Year: now.Year(), Month: now.Month()}
	}

	if err := goal.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_goal", err.Error())
		return
	}

	if err := s.dashboards.SaveMonthlyGoal(r.Context(), goal); err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_goal", err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Save goal failed",
			"owner_key", claims.OwnerKey, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to save goal")
		return
	}

	s.invalidateDashboards(claims.OwnerKey)
	writeJSON(w, http.StatusOK, map[string]any{
		"target": goal.TargetAmount.StringFixed(2),
		"year":   goal.Month.Year,
		"month":  int(goal.Month.Month),
	})
}

func toGoalDetailJSON(g core.Goal, p core.GoalProgress) goalDetailJSON {
	return goalDetailJSON{
		ID:     g.ID.String(),
		Target: g.TargetAmount.StringFixed(2),
		Year:   g.Month.Year,
		Month:  int(g.Month.Month),
		Progress: goalJSON{
			Target:       p.Target.StringFixed(2),
			Spent:        p.Spent.StringFixed(2),
			Percentage:   p.Percentage.StringFixed(2),
			IsOverBudget: p.IsOverBudget,
			Excess:       p.Excess.StringFixed(2),
			Remaining:    p.Remaining.StringFixed(2),
		},
	}
}
