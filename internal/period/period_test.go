package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthWindowHasNoBounds(t *testing.T) {
	month, ok := Lookup("current-month")
	require.True(t, ok)
	for m := 1; m <= 12; m++ {
		w := ResolveWidgetWindow(month, time.Date(2025, time.Month(m), 17, 0, 0, 0, 0, time.Local))
		require.Equal(t, ModeMonth, w.Mode)
		require.Equal(t, ComparePrevPeriod, w.Compare)
		require.Empty(t, w.From)
		require.Empty(t, w.To)
	}
}

func TestQuarterWindowBounds(t *testing.T) {
	quarter, _ := Lookup("current-quarter")
	cases := []struct {
		ref      time.Time
		from, to string
	}{
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2025-01-01", "2025-03-31"},
		{time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), "2025-01-01", "2025-03-31"},
		{time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), "2024-04-01", "2024-06-30"},
		{time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC), "2025-07-01", "2025-09-30"},
		{time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), "2025-10-01", "2025-12-31"},
	}
	for _, tc := range cases {
		w := ResolveWidgetWindow(quarter, tc.ref)
		require.Equal(t, ModeCustom, w.Mode)
		require.Equal(t, ComparePrevPeriod, w.Compare)
		require.Equal(t, tc.from, w.From, tc.ref.String())
		require.Equal(t, tc.to, w.To, tc.ref.String())
	}
}

func TestQuarterStartsOnQuarterMonth(t *testing.T) {
	quarter, _ := Lookup("current-quarter")
	ref := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i += 7 {
		day := ref.AddDate(0, 0, i)
		w := ResolveWidgetWindow(quarter, day)
		from, err := time.Parse("2006-01-02", w.From)
		require.NoError(t, err)
		to, err := time.Parse("2006-01-02", w.To)
		require.NoError(t, err)
		require.Equal(t, 1, from.Day())
		require.Zero(t, (int(from.Month())-1)%3)
		lastMonth := from.AddDate(0, 2, 0)
		require.Equal(t, lastMonth.Month(), to.Month())
		require.NotEqual(t, to.Month(), to.AddDate(0, 0, 1).Month())
	}
}

func TestYearWindow(t *testing.T) {
	year, _ := Lookup("current-year")
	w := ResolveWidgetWindow(year, time.Now())
	require.Equal(t, Window{Mode: ModeYear, Compare: CompareYoY}, w)
}

func TestRollingWindow(t *testing.T) {
	rolling, _ := Lookup("rolling-12m")
	w := ResolveWidgetWindow(rolling, time.Date(2025, 11, 11, 15, 0, 0, 0, time.UTC))
	require.Equal(t, Window{Mode: ModeCustom, From: "2024-11-12", To: "2025-11-11", Compare: ComparePrevPeriod}, w)

	w = ResolveWidgetWindow(rolling, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "2023-03-02", w.From)
	require.Equal(t, "2024-02-29", w.To)
}

func TestUnknownTypeFallsBackToRolling(t *testing.T) {
	w := ResolveWidgetWindow(Period{ID: "odd", Type: "fortnight"}, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "2024-02-01", w.From)
	require.Equal(t, "2025-01-31", w.To)
}

func TestCatalog(t *testing.T) {
	require.Equal(t, "current-month", Default().ID)
	list := Catalog()
	list[0].Label = "mutated"
	require.Equal(t, "Current Month", Default().Label)
	_, ok := Lookup("missing")
	require.False(t, ok)
}

func TestNowIsUTC(t *testing.T) {
	require.Equal(t, time.UTC, Now().Location())
}
