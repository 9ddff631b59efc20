package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"saldo/internal/core"
	"saldo/internal/services"
)

// monthLayout is the wire format for the specific-month filter parameter.
const monthLayout = "2006-01"

// parseSelection reads the dashboard filter from query parameters. Missing
// optional bounds are fine (the core falls open); malformed values are a
// client error.
func parseSelection(r *http.Request) (services.FilterSelection, error) {
	q := r.URL.Query()

	modeParam := strings.TrimSpace(q.Get("mode"))
	if modeParam == "" {
		modeParam = string(core.ModeMonth)
	}
	mode, ok := core.ParseFilterMode(modeParam)
	if !ok {
		return services.FilterSelection{}, fmt.Errorf("unknown filter mode %q", modeParam)
	}

	sel := services.FilterSelection{Mode: mode}

	if v := strings.TrimSpace(q.Get("month")); v != "" {
		t, err := parseMonthParam(v)
		if err != nil {
			return services.FilterSelection{}, err
		}
		sel.RefMonth = &t
	}
	if v := strings.TrimSpace(q.Get("start")); v != "" {
		t, err := time.Parse(core.DateLayout, v)
		if err != nil {
			return services.FilterSelection{}, fmt.Errorf("invalid start date %q, want YYYY-MM-DD", v)
		}
		sel.Custom.Start = &t
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		t, err := time.Parse(core.DateLayout, v)
		if err != nil {
			return services.FilterSelection{}, fmt.Errorf("invalid end date %q, want YYYY-MM-DD", v)
		}
		sel.Custom.End = &t
	}

	return sel, nil
}

// parseMonthParam accepts YYYY-MM or a full date within the month.
func parseMonthParam(v string) (time.Time, error) {
	if t, err := time.Parse(monthLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(core.DateLayout, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", v)
}

// selectionCacheKey builds the per-owner cache key for one filter choice.
func selectionCacheKey(ownerKey string, sel services.FilterSelection) string {
	var b strings.Builder
	b.WriteString(ownerKey)
	b.WriteByte('|')
	b.WriteString(string(sel.Mode))
	b.WriteByte('|')
	if sel.RefMonth != nil {
		b.WriteString(sel.RefMonth.Format(monthLayout))
	}
	b.WriteByte('|')
	if sel.Custom.Start != nil {
		b.WriteString(sel.Custom.Start.Format(core.DateLayout))
	}
	b.WriteByte('|')
	if sel.Custom.End != nil {
		b.WriteString(sel.Custom.End.Format(core.DateLayout))
	}
	return b.String()
}
