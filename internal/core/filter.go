package core

import "log/slog"

// Filter returns the transactions whose effective date falls inside the
// window, both bounds inclusive. A nil window means the selection could not
// be resolved and the input is returned unchanged (fail-open).
//
// Transactions whose effective date does not parse are excluded from a
// resolved window and reported as data-quality events; a single malformed
// record never aborts filtering of the rest. The input slice is not
// mutated and relative order is preserved.
func Filter(transactions []Transaction, window *TimeWindow) []Transaction {
	if window == nil {
		return transactions
	}

	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		eff, err := t.EffectiveDate()
		if err != nil {
			slog.Warn("Transaction excluded from filtered view: unparseable effective date",
				"transaction_id", t.ID,
				"occurred_at", t.OccurredAt,
				"recorded_at", t.RecordedAt,
				"error", err)
			continue
		}
		if eff.Before(window.Start) || eff.After(window.End) {
			continue
		}
		out = append(out, t)
	}
	return out
}
