package memory

import (
	"context"
	"fmt"
	"sync"

	ports "saldo/internal/sheets"
)

// Sink keeps appended report rows in memory. Used in tests and when no
// spreadsheet is configured.
type Sink struct {
	mu   sync.Mutex
	rows [][]any
}

var _ ports.ReportSink = (*Sink)(nil)

func New() *Sink {
	return &Sink{}
}

func (s *Sink) AppendReport(_ context.Context, rows [][]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := len(s.rows) + 1
	s.rows = append(s.rows, rows...)
	return fmt.Sprintf("memory!A%d:A%d", start, len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Sink) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	copy(out, s.rows)
	return out
}
