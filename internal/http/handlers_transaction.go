package http

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"saldo/internal/core"
)

type transactionJSON struct {
	ID            string `json:"id"`
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	Category      string `json:"category,omitempty"`
	Establishment string `json:"establishment,omitempty"`
	Description   string `json:"description"`
	OccurredAt    string `json:"occurred_at,omitempty"`
	RecordedAt    string `json:"recorded_at"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:            t.ID.String(),
		Amount:        t.Amount.StringFixed(2),
		Kind:          string(t.Kind),
		Category:      t.Category,
		Establishment: t.Establishment,
		Description:   t.Description,
		OccurredAt:    t.OccurredAt,
		RecordedAt:    t.RecordedAt,
	}
}

type createTransactionRequest struct {
	Amount        string `json:"amount"`
	Kind          string `json:"kind"`
	Category      string `json:"category"`
	Establishment string `json:"establishment"`
	Description   string `json:"description"`
	OccurredAt    string `json:"occurred_at"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	transactions, err := s.store.ListTransactions(r.Context(), claims.OwnerKey)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed",
			"owner_key", claims.OwnerKey, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to list transactions")
		return
	}

	out := make([]transactionJSON, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionJSON(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_transaction", "amount must be a decimal number")
		return
	}

	t := core.Transaction{
		ID:            uuid.New(),
		OwnerKey:      claims.OwnerKey,
		Amount:        amount,
		Kind:          core.Kind(sanitizeInput(req.Kind)),
		Category:      sanitizeInput(req.Category),
		Establishment: sanitizeInput(req.Establishment),
		Description:   sanitizeInput(req.Description),
		OccurredAt:    sanitizeInput(req.OccurredAt),
		RecordedAt:    time.Now().UTC().Format(core.DateLayout),
	}

	if err := s.store.CreateTransaction(r.Context(), t); err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_transaction", err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create transaction failed",
			"owner_key", claims.OwnerKey, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to save transaction")
		return
	}

	s.invalidateDashboards(claims.OwnerKey)
	writeJSON(w, http.StatusCreated, toTransactionJSON(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_transaction", "id must be a UUID")
		return
	}

	if err := s.store.DeleteTransaction(r.Context(), claims.OwnerKey, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Delete transaction failed",
			"owner_key", claims.OwnerKey, "transaction_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to delete transaction")
		return
	}

	s.invalidateDashboards(claims.OwnerKey)
	w.WriteHeader(http.StatusNoContent)
}

// invalidateDashboards drops every cached dashboard snapshot for the owner.
func (s *Server) invalidateDashboards(ownerKey string) {
	removed := s.dashboardCache.DeletePrefix(ownerKey + "|")
	if removed > 0 {
		slog.Debug("Dashboard cache invalidated", "owner_key", ownerKey, "entries", removed)
	}
}

// isValidationError reports whether the error is one of the transaction
// or goal validation sentinels.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidKind) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrEmptyOwnerKey) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrInvalidTarget) ||
		errors.Is(err, core.ErrInvalidPeriod)
}
