package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"saldo/internal/core"
	"saldo/internal/importer"
)

// maxStatementSize bounds uploaded OFX statements.
const maxStatementSize = 5 << 20

// handleImportOFX ingests a bank statement. Rows the statement parser
// skips are not an error; rows the store rejects are counted and reported.
func (s *Server) handleImportOFX(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	body := http.MaxBytesReader(w, r.Body, maxStatementSize)
	defer body.Close()

	transactions, err := importer.ParseStatement(body, claims.OwnerKey, s.rules)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "statement exceeds size limit")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid_statement", err.Error())
		return
	}

	recordedAt := time.Now().UTC().Format(core.DateLayout)
	imported := 0
	rejected := 0
	for _, t := range transactions {
		t.RecordedAt = recordedAt
		if err := s.store.CreateTransaction(r.Context(), t); err != nil {
			rejected++
			slog.WarnContext(r.Context(), "Imported transaction rejected",
				"owner_key", claims.OwnerKey,
				"transaction_id", t.ID,
				"error", err)
			continue
		}
		imported++
	}

	if imported > 0 {
		s.invalidateDashboards(claims.OwnerKey)
	}

	slog.InfoContext(r.Context(), "Statement imported",
		"owner_key", claims.OwnerKey,
		"imported", imported,
		"rejected", rejected)
	writeJSON(w, http.StatusOK, map[string]any{
		"imported": imported,
		"rejected": rejected,
	})
}
