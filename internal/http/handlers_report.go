package http

import (
	"log/slog"
	"net/http"
	"time"

	"saldo/internal/services"
)

type shareReportRequest struct {
	Mode        string `json:"mode"`
	Month       string `json:"month"`
	Start       string `json:"start"`
	End         string `json:"end"`
	NotifyEmail string `json:"notify_email"`
}

// handleExportReport renders the report synchronously in the requested
// format and streams it back.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_filter", err.Error())
		return
	}

	format, ok := services.ParseReportFormat(r.URL.Query().Get("format"))
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid_format", "format must be text or csv")
		return
	}

	out, err := s.reports.Render(r.Context(), claims.OwnerKey, claims.Name, sel, format, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Report render failed",
			"owner_key", claims.OwnerKey, "report_format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to render report")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == services.FormatCSV {
		w.Header().Set("Content-Disposition", `attachment; filename="report.csv"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// handleShareReport enqueues the report for out-of-band delivery and
// returns the job id immediately.
func (s *Server) handleShareReport(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())

	var req shareReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "malformed JSON body")
		return
	}

	// Reuse the query-parameter parser by mapping the body onto a URL.
	q := r.URL.Query()
	q.Set("mode", req.Mode)
	q.Set("month", req.Month)
	q.Set("start", req.Start)
	q.Set("end", req.End)
	r.URL.RawQuery = q.Encode()

	sel, err := parseSelection(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_filter", err.Error())
		return
	}

	msg, err := s.reports.Share(r.Context(), claims.OwnerKey, claims.Name, sanitizeInput(req.NotifyEmail), sel)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report share failed",
			"owner_key", claims.OwnerKey, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to enqueue report")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"job_id": msg.JobID.String()})
}
