package http

import (
	"log/slog"
	"net/http"
	"time"

	"saldo/internal/billing"
)

type subscriptionJSON struct {
	Status       string  `json:"status"`
	Plan         string  `json:"plan"`
	Price        string  `json:"price"`
	TrialEndsAt  string  `json:"trial_ends_at"`
	PeriodEndsAt *string `json:"period_ends_at"`
	HasAccess    bool    `json:"has_access"`
}

type accountJSON struct {
	OwnerKey  string `json:"owner_key"`
	Name      string `json:"name"`
	StartedAt string `json:"started_at"`
	Status    string `json:"status"`
}

// handleSubscription reports the caller's paywall state. Reachable for
// expired accounts, so the client can explain what happened.
func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	snap, err := s.subscriptionSnapshot(r.Context(), claims.OwnerKey, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Subscription snapshot failed",
			"owner_key", claims.OwnerKey, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "subscription check failed")
		return
	}

	writeJSON(w, http.StatusOK, toSubscriptionJSON(snap))
}

// handleListAccounts is the admin view over every account and its status.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List accounts failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to list accounts")
		return
	}

	now := time.Now()
	out := make([]accountJSON, 0, len(accounts))
	for _, a := range accounts {
		snap := billing.Evaluate(billing.Subscription{
			OwnerKey:         a.OwnerKey,
			StartedAt:        a.StartedAt,
			CurrentPeriodEnd: a.CurrentPeriodEnd,
		}, s.plan, now)
		out = append(out, accountJSON{
			OwnerKey:  a.OwnerKey,
			Name:      a.Name,
			StartedAt: a.StartedAt.Format(time.RFC3339),
			Status:    string(snap.Status),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": out})
}

func toSubscriptionJSON(snap billing.Snapshot) subscriptionJSON {
	out := subscriptionJSON{
		Status:      string(snap.Status),
		Plan:        snap.Plan,
		Price:       snap.Price.StringFixed(2),
		TrialEndsAt: snap.TrialEndsAt.Format(time.RFC3339),
		HasAccess:   snap.HasAccess,
	}
	if snap.PeriodEndsAt != nil {
		v := snap.PeriodEndsAt.Format(time.RFC3339)
		out.PeriodEndsAt = &v
	}
	return out
}
