package sheets

import (
	"context"
)

// Ports for outbound report delivery adapters.
type (
	// ReportSink receives rendered report rows. Implementations return a
	// reference to where the rows landed (a sheet range, a memory key).
	ReportSink interface {
		AppendReport(ctx context.Context, rows [][]any) (ref string, err error)
	}
)
