package core

import "time"

const (
	ModeDay           FilterMode = "day"
	ModeWeek          FilterMode = "week"
	ModeMonth         FilterMode = "month"
	ModeSpecificMonth FilterMode = "specific_month"
	ModeCustom        FilterMode = "custom"
)

type (
	FilterMode string

	// TimeWindow is a concrete date range derived from a filter selection.
	// Both bounds are inclusive when matching effective dates; the extra
	// day of padding for Day/Week/Custom is baked in by Resolve.
	TimeWindow struct {
		Start time.Time
		End   time.Time
	}

	// CustomRange carries the explicit bounds of a custom filter. Either
	// bound may be missing, in which case the window is unresolvable.
	CustomRange struct {
		Start *time.Time
		End   *time.Time
	}
)

// ParseFilterMode maps a request parameter onto the closed mode enum.
func ParseFilterMode(s string) (FilterMode, bool) {
	switch FilterMode(s) {
	case ModeDay, ModeWeek, ModeMonth, ModeSpecificMonth, ModeCustom:
		return FilterMode(s), true
	}
	return "", false
}

// Resolve converts a filter selection into a concrete window. A nil result
// means the selection cannot be resolved; callers must treat that as
// "do not filter" and pass every record through, never as an empty view.
func Resolve(mode FilterMode, now time.Time, refMonth *time.Time, custom CustomRange) *TimeWindow {
	switch mode {
	case ModeDay:
		start := midnight(now)
		return &TimeWindow{Start: start, End: start.AddDate(0, 0, 1)}

	case ModeWeek:
		// Rolling seven days, not a calendar week. End lands on tomorrow
		// so that today's transactions are included.
		return &TimeWindow{Start: now.AddDate(0, 0, -7), End: now.AddDate(0, 0, 1)}

	case ModeMonth:
		w := monthWindow(now)
		return &w

	case ModeSpecificMonth:
		if refMonth == nil {
			w := monthWindow(now)
			return &w
		}
		// A reference month equal to the current calendar month means the
		// picker is stale: resolve with live current-month semantics.
		if refMonth.Year() == now.Year() && refMonth.Month() == now.Month() {
			w := monthWindow(now)
			return &w
		}
		w := monthWindow(*refMonth)
		return &w

	case ModeCustom:
		if custom.Start == nil || custom.End == nil {
			return nil
		}
		// Extend the end by a day so the selected end date is inclusive.
		return &TimeWindow{Start: *custom.Start, End: custom.End.AddDate(0, 0, 1)}
	}
	return nil
}

// monthWindow brackets the calendar month of t: first day at 00:00:00
// through the last day at 23:59:59.
func monthWindow(t time.Time) TimeWindow {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return TimeWindow{Start: start, End: end}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
