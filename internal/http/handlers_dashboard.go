package http

import (
	"log/slog"
	"net/http"
	"time"

	"saldo/internal/core"
	"saldo/internal/services"
)

type windowJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type metricsJSON struct {
	TotalIncome  string `json:"total_income"`
	TotalExpense string `json:"total_expense"`
	Balance      string `json:"balance"`
	Count        int    `json:"count"`
}

type categoryJSON struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Percent  string `json:"percent"`
}

type establishmentJSON struct {
	Establishment string `json:"establishment"`
	Income        string `json:"income"`
	Expense       string `json:"expense"`
}

type dayJSON struct {
	Date    string `json:"date"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

type goalJSON struct {
	Target       string `json:"target"`
	Spent        string `json:"spent"`
	Percentage   string `json:"percentage"`
	IsOverBudget bool   `json:"is_over_budget"`
	Excess       string `json:"excess"`
	Remaining    string `json:"remaining"`
}

type dashboardResponse struct {
	Window         *windowJSON         `json:"window"`
	Metrics        metricsJSON         `json:"metrics"`
	Categories     []categoryJSON      `json:"categories"`
	Establishments []establishmentJSON `json:"establishments"`
	Days           []dayJSON           `json:"days"`
	Goal           *goalJSON           `json:"goal"`
	Transactions   []transactionJSON   `json:"transactions"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_filter", err.Error())
		return
	}

	key := selectionCacheKey(claims.OwnerKey, sel)
	if resp, found := s.dashboardCache.Get(key); found {
		slog.DebugContext(r.Context(), "Dashboard cache hit",
			"owner_key", claims.OwnerKey, "filter_mode", sel.Mode)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	d, err := s.dashboards.Build(r.Context(), claims.OwnerKey, sel, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard build failed",
			"owner_key", claims.OwnerKey, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to build dashboard")
		return
	}

	resp := toDashboardResponse(d)
	s.dashboardCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func toDashboardResponse(d *services.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Metrics: metricsJSON{
			TotalIncome:  d.Metrics.TotalIncome.StringFixed(2),
			TotalExpense: d.Metrics.TotalExpense.StringFixed(2),
			Balance:      d.Metrics.Balance.StringFixed(2),
			Count:        d.Metrics.Count,
		},
		Categories:     make([]categoryJSON, 0, len(d.Categories)),
		Establishments: make([]establishmentJSON, 0, len(d.Establishments)),
		Days:           make([]dayJSON, 0, len(d.Days)),
		Transactions:   make([]transactionJSON, 0, len(d.Transactions)),
	}

	if d.Window != nil {
		resp.Window = &windowJSON{
			Start: d.Window.Start.Format(time.RFC3339),
			End:   d.Window.End.Format(time.RFC3339),
		}
	}
	for _, c := range d.Categories {
		resp.Categories = append(resp.Categories, categoryJSON{
			Category: c.Category,
			Total:    c.Total.StringFixed(2),
			Percent:  c.Percent.StringFixed(2),
		})
	}
	for _, e := range d.Establishments {
		resp.Establishments = append(resp.Establishments, establishmentJSON{
			Establishment: e.Establishment,
			Income:        e.Income.StringFixed(2),
			Expense:       e.Expense.StringFixed(2),
		})
	}
	for _, day := range d.Days {
		resp.Days = append(resp.Days, dayJSON{
			Date:    day.Date.Format(core.DateLayout),
			Income:  day.Income.StringFixed(2),
			Expense: day.Expense.StringFixed(2),
			Balance: day.Balance.StringFixed(2),
		})
	}
	if d.Goal != nil {
		resp.Goal = &goalJSON{
			Target:       d.Goal.Progress.Target.StringFixed(2),
			Spent:        d.Goal.Progress.Spent.StringFixed(2),
			Percentage:   d.Goal.Progress.Percentage.StringFixed(2),
			IsOverBudget: d.Goal.Progress.IsOverBudget,
			Excess:       d.Goal.Progress.Excess.StringFixed(2),
			Remaining:    d.Goal.Progress.Remaining.StringFixed(2),
		}
	}
	for _, t := range d.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionJSON(t))
	}
	return resp
}
