package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"saldo/internal/auth"
	"saldo/internal/billing"
	"saldo/internal/storage"
)

type claimsKey struct{}

// claimsFrom returns the verified claims stored by withAuth.
func claimsFrom(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// withAuth verifies the bearer token and stashes its claims in the request
// context. Accounts are provisioned lazily on first authenticated request,
// which anchors the trial clock.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims, err := s.verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			slog.WarnContext(r.Context(), "Token rejected", "error", err)
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		if err := s.ensureAccount(r.Context(), claims); err != nil {
			slog.ErrorContext(r.Context(), "Account provisioning failed",
				"owner_key", claims.OwnerKey, "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "account lookup failed")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next(w, r.WithContext(ctx))
	}
}

// withAdmin requires an admin role on top of withAuth.
func (s *Server) withAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.withAuth(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims == nil || !claims.IsAdmin() {
			writeError(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}
		next(w, r)
	})
}

// withSubscription gates a handler behind the paywall: expired accounts get
// 402 and a pointer to the subscription endpoint.
func (s *Server) withSubscription(next http.HandlerFunc) http.HandlerFunc {
	return s.withAuth(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())

		snap, err := s.subscriptionSnapshot(r.Context(), claims.OwnerKey, time.Now())
		if err != nil {
			slog.ErrorContext(r.Context(), "Subscription check failed",
				"owner_key", claims.OwnerKey, "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "subscription check failed")
			return
		}

		if !snap.HasAccess {
			writeError(w, http.StatusPaymentRequired, "subscription_expired",
				"subscription expired, see /api/subscription")
			return
		}
		next(w, r)
	})
}

// ensureAccount creates the account row the first time an owner shows up.
func (s *Server) ensureAccount(ctx context.Context, claims *auth.Claims) error {
	account, err := s.store.GetAccount(ctx, claims.OwnerKey)
	if err != nil {
		return err
	}
	if account != nil {
		return nil
	}

	slog.InfoContext(ctx, "Provisioning account", "owner_key", claims.OwnerKey)
	return s.store.UpsertAccount(ctx, storage.Account{
		OwnerKey:  claims.OwnerKey,
		Name:      claims.Name,
		StartedAt: time.Now().UTC(),
	})
}

// subscriptionSnapshot evaluates the paywall state for an owner.
func (s *Server) subscriptionSnapshot(ctx context.Context, ownerKey string, now time.Time) (billing.Snapshot, error) {
	account, err := s.store.GetAccount(ctx, ownerKey)
	if err != nil {
		return billing.Snapshot{}, err
	}

	sub := billing.Subscription{OwnerKey: ownerKey, StartedAt: now}
	if account != nil {
		sub.StartedAt = account.StartedAt
		sub.CurrentPeriodEnd = account.CurrentPeriodEnd
	}
	return billing.Evaluate(sub, s.plan, now), nil
}
