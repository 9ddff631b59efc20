package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saldo/internal/amqp"
	"saldo/internal/core"
	"saldo/internal/report"
)

// ReportFormat selects the export rendering.
type ReportFormat string

const (
	FormatText ReportFormat = "text"
	FormatCSV  ReportFormat = "csv"
)

// ParseReportFormat maps the wire value to a format. Empty defaults to text.
func ParseReportFormat(s string) (ReportFormat, bool) {
	switch s {
	case "", string(FormatText):
		return FormatText, true
	case string(FormatCSV):
		return FormatCSV, true
	default:
		return "", false
	}
}

// ContentType returns the HTTP content type for the format.
func (f ReportFormat) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// ReportPublisher enqueues share jobs for the worker.
type ReportPublisher interface {
	PublishReportJob(ctx context.Context, msg *amqp.ReportJobMessage) error
}

// ReportService renders exports synchronously and hands sharing off to the
// queue.
type ReportService struct {
	dashboards *DashboardService
	publisher  ReportPublisher
}

func NewReportService(dashboards *DashboardService, publisher ReportPublisher) *ReportService {
	return &ReportService{
		dashboards: dashboards,
		publisher:  publisher,
	}
}

// Render builds the owner's dashboard for the selection and renders it in
// the requested format.
func (s *ReportService) Render(ctx context.Context, ownerKey, userName string, sel FilterSelection, format ReportFormat, now time.Time) (string, error) {
	d, err := s.dashboards.Build(ctx, ownerKey, sel, now)
	if err != nil {
		return "", fmt.Errorf("build dashboard: %w", err)
	}

	if format == FormatCSV {
		out, err := report.DelimitedTable(d.Transactions)
		if err != nil {
			return "", fmt.Errorf("render csv report: %w", err)
		}
		return out, nil
	}

	label := PeriodLabel(sel, d.Window)
	return report.NarrativeText(d.Transactions, d.Metrics, userName, label, now), nil
}

// Share enqueues a report job so the worker can deliver it out of band.
// The HTTP request returns as soon as the job is accepted by the broker.
func (s *ReportService) Share(ctx context.Context, ownerKey, userName, notifyEmail string, sel FilterSelection) (*amqp.ReportJobMessage, error) {
	if s.publisher == nil {
		return nil, fmt.Errorf("report sharing is not configured")
	}

	msg := amqp.NewReportJobMessage(ownerKey, userName, string(sel.Mode))
	msg.NotifyEmail = notifyEmail
	if sel.RefMonth != nil {
		msg.RefMonth = sel.RefMonth.Format(core.DateLayout)
	}
	if sel.Custom.Start != nil {
		msg.CustomStart = sel.Custom.Start.Format(core.DateLayout)
	}
	if sel.Custom.End != nil {
		msg.CustomEnd = sel.Custom.End.Format(core.DateLayout)
	}

	if err := s.publisher.PublishReportJob(ctx, msg); err != nil {
		return nil, fmt.Errorf("publish report job: %w", err)
	}

	slog.InfoContext(ctx, "Report share accepted",
		"job_id", msg.JobID,
		"owner_key", ownerKey,
		"filter_mode", sel.Mode)
	return msg, nil
}

// PeriodLabel renders the human label for a selection, falling back to the
// resolved window bounds for custom ranges.
func PeriodLabel(sel FilterSelection, window *core.TimeWindow) string {
	switch sel.Mode {
	case core.ModeDay:
		return "today"
	case core.ModeWeek:
		return "last 7 days"
	case core.ModeMonth:
		return "this month"
	case core.ModeSpecificMonth:
		if sel.RefMonth != nil {
			return sel.RefMonth.Format("January 2006")
		}
		return "this month"
	case core.ModeCustom:
		if window != nil {
			return fmt.Sprintf("%s to %s",
				window.Start.Format(core.DateLayout),
				window.End.Format(core.DateLayout))
		}
		return "custom period"
	default:
		return "all time"
	}
}

// SelectionFromMessage reconstructs the filter selection a share job was
// created from.
func SelectionFromMessage(msg *amqp.ReportJobMessage) (FilterSelection, error) {
	mode, ok := core.ParseFilterMode(msg.FilterMode)
	if !ok {
		return FilterSelection{}, fmt.Errorf("unknown filter mode %q", msg.FilterMode)
	}

	sel := FilterSelection{Mode: mode}
	if msg.RefMonth != "" {
		t, err := time.Parse(core.DateLayout, msg.RefMonth)
		if err != nil {
			return FilterSelection{}, fmt.Errorf("parse ref month %q: %w", msg.RefMonth, err)
		}
		sel.RefMonth = &t
	}
	if msg.CustomStart != "" {
		t, err := time.Parse(core.DateLayout, msg.CustomStart)
		if err != nil {
			return FilterSelection{}, fmt.Errorf("parse custom start %q: %w", msg.CustomStart, err)
		}
		sel.Custom.Start = &t
	}
	if msg.CustomEnd != "" {
		t, err := time.Parse(core.DateLayout, msg.CustomEnd)
		if err != nil {
			return FilterSelection{}, fmt.Errorf("parse custom end %q: %w", msg.CustomEnd, err)
		}
		sel.Custom.End = &t
	}
	return sel, nil
}
