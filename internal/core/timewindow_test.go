package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func TestResolve_Day(t *testing.T) {
	w := Resolve(ModeDay, testNow, nil, CustomRange{})
	require.NotNil(t, w)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC), w.End)
}

func TestResolve_Week(t *testing.T) {
	w := Resolve(ModeWeek, testNow, nil, CustomRange{})
	require.NotNil(t, w)
	assert.Equal(t, testNow.AddDate(0, 0, -7), w.Start)
	assert.Equal(t, testNow.AddDate(0, 0, 1), w.End)
}

func TestResolve_Month(t *testing.T) {
	w := Resolve(ModeMonth, testNow, nil, CustomRange{})
	require.NotNil(t, w)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC), w.End)
	assert.True(t, w.Start.Before(testNow) && w.End.After(testNow), "month window must bracket now")
}

func TestResolve_Month_BracketsNowOnBoundaries(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
	}{
		{"first instant of month", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{"leap day", time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC)},
		{"last second of december", time.Date(2023, time.December, 31, 23, 59, 59, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := Resolve(ModeMonth, tc.now, nil, CustomRange{})
			require.NotNil(t, w)
			assert.False(t, tc.now.Before(w.Start), "start after now")
			assert.False(t, tc.now.After(w.End), "end before now")
			assert.Equal(t, tc.now.Month(), w.Start.Month())
			assert.Equal(t, tc.now.Month(), w.End.Month())
		})
	}
}

func TestResolve_SpecificMonth(t *testing.T) {
	t.Run("nil reference behaves like current month", func(t *testing.T) {
		got := Resolve(ModeSpecificMonth, testNow, nil, CustomRange{})
		want := Resolve(ModeMonth, testNow, nil, CustomRange{})
		assert.Equal(t, want, got)
	})

	t.Run("stale reference in current month normalizes to current month", func(t *testing.T) {
		// A reference from a previous visit, pointing at a different day of
		// the same month, must not narrow the default view.
		ref := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
		got := Resolve(ModeSpecificMonth, testNow, &ref, CustomRange{})
		want := Resolve(ModeMonth, testNow, nil, CustomRange{})
		assert.Equal(t, want, got)
	})

	t.Run("other month resolves that month", func(t *testing.T) {
		ref := time.Date(2023, time.November, 20, 0, 0, 0, 0, time.UTC)
		w := Resolve(ModeSpecificMonth, testNow, &ref, CustomRange{})
		require.NotNil(t, w)
		assert.Equal(t, time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC), w.Start)
		assert.Equal(t, time.Date(2023, time.November, 30, 23, 59, 59, 0, time.UTC), w.End)
	})
}

func TestResolve_Custom(t *testing.T) {
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC)

	t.Run("both bounds resolve with inclusive end", func(t *testing.T) {
		w := Resolve(ModeCustom, testNow, nil, CustomRange{Start: &start, End: &end})
		require.NotNil(t, w)
		assert.Equal(t, start, w.Start)
		assert.Equal(t, end.AddDate(0, 0, 1), w.End)
	})

	t.Run("missing end is unresolved", func(t *testing.T) {
		assert.Nil(t, Resolve(ModeCustom, testNow, nil, CustomRange{Start: &start}))
	})

	t.Run("missing start is unresolved", func(t *testing.T) {
		assert.Nil(t, Resolve(ModeCustom, testNow, nil, CustomRange{End: &end}))
	})
}

func TestResolve_UnknownModeIsUnresolved(t *testing.T) {
	assert.Nil(t, Resolve(FilterMode("fortnight"), testNow, nil, CustomRange{}))
}

func TestParseFilterMode(t *testing.T) {
	for _, valid := range []string{"day", "week", "month", "specific_month", "custom"} {
		mode, ok := ParseFilterMode(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, FilterMode(valid), mode)
	}
	_, ok := ParseFilterMode("quarter")
	assert.False(t, ok)
}
