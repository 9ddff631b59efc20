// Package worker runs the out-of-band side of report sharing: it consumes
// report jobs from the queue, rebuilds the owner's dashboard and delivers
// the rendered report to the configured sink.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"saldo/internal/amqp"
	"saldo/internal/report"
	"saldo/internal/services"
	"saldo/internal/sheets"
)

type ReportWorker struct {
	dashboards *services.DashboardService
	sink       sheets.ReportSink
	now        func() time.Time
}

func NewReportWorker(dashboards *services.DashboardService, sink sheets.ReportSink) *ReportWorker {
	return &ReportWorker{
		dashboards: dashboards,
		sink:       sink,
		now:        time.Now,
	}
}

// HandleReportJob processes a single report job from the queue. Returning
// an error requeues the delivery, so only transient failures should bubble
// up; a job that can never succeed is logged and dropped.
func (w *ReportWorker) HandleReportJob(ctx context.Context, msg *amqp.ReportJobMessage) error {
	sel, err := services.SelectionFromMessage(msg)
	if err != nil {
		// A malformed selection will never parse on retry.
		slog.ErrorContext(ctx, "Dropping report job with bad selection",
			"job_id", msg.JobID,
			"error", err)
		return nil
	}

	now := w.now()
	d, err := w.dashboards.Build(ctx, msg.OwnerKey, sel, now)
	if err != nil {
		return fmt.Errorf("build dashboard for report: %w", err)
	}

	label := services.PeriodLabel(sel, d.Window)
	rows := report.SheetRows(d.Transactions, d.Metrics, msg.UserName, label, now)

	ref, err := w.sink.AppendReport(ctx, rows)
	if err != nil {
		return fmt.Errorf("deliver report: %w", err)
	}

	slog.InfoContext(ctx, "Report delivered",
		"job_id", msg.JobID,
		"owner_key", msg.OwnerKey,
		"sheets_ref", ref,
		"transactions", len(d.Transactions))

	if msg.NotifyEmail != "" {
		// Mail delivery happens in a separate notification pipeline; here
		// we only record the hand-off.
		slog.InfoContext(ctx, "Report notification requested",
			"job_id", msg.JobID,
			"notify_email", msg.NotifyEmail,
			"sheets_ref", ref)
	}
	return nil
}
