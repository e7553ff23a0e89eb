// Package period resolves dashboard period selections into request windows.
package period

import (
	"time"

	"github.com/odyssey-erp/execboard/internal/format"
)

// Type classifies a period selection.
type Type string

const (
	TypeMonth   Type = "month"
	TypeQuarter Type = "quarter"
	TypeYear    Type = "year"
	TypeRolling Type = "rolling"
)

// Mode is the server-side aggregation mode of a widget request.
type Mode string

const (
	ModeMonth  Mode = "month"
	ModeYear   Mode = "year"
	ModeCustom Mode = "custom"
)

// Compare selects the comparison baseline.
type Compare string

const (
	ComparePrevPeriod Compare = "prev_period"
	CompareYoY        Compare = "yoy"
)

// Period is an entry of the fixed period catalog.
type Period struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  Type   `json:"type"`
}

// Window is the concrete request window for a period. From and To are empty
// when the server infers the bounds.
type Window struct {
	Mode    Mode    `json:"mode"`
	From    string  `json:"from,omitempty"`
	To      string  `json:"to,omitempty"`
	Compare Compare `json:"compare"`
}

var catalog = []Period{
	{ID: "current-month", Label: "Current Month", Type: TypeMonth},
	{ID: "current-quarter", Label: "This Quarter", Type: TypeQuarter},
	{ID: "current-year", Label: "This Year", Type: TypeYear},
	{ID: "rolling-12m", Label: "Last 12 Months", Type: TypeRolling},
}

// Catalog returns a copy of the selectable periods.
func Catalog() []Period {
	out := make([]Period, len(catalog))
	copy(out, catalog)
	return out
}

// Now is the reference clock for window resolution and as-of dates. It is
// UTC so the server and the warmup worker derive identical request keys.
func Now() time.Time {
	return time.Now().UTC()
}

// Default returns the period selected at start-up.
func Default() Period {
	return catalog[0]
}

// Lookup finds a catalog period by id.
func Lookup(id string) (Period, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Period{}, false
}

// ResolveWidgetWindow maps a period onto a request window relative to ref.
// Only the calendar fields of ref are used; no timezone conversion happens.
func ResolveWidgetWindow(p Period, ref time.Time) Window {
	switch p.Type {
	case TypeMonth:
		return Window{Mode: ModeMonth, Compare: ComparePrevPeriod}
	case TypeQuarter:
		startMonth := (int(ref.Month())-1)/3*3 + 1
		start := time.Date(ref.Year(), time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(ref.Year(), time.Month(startMonth+3), 0, 0, 0, 0, 0, time.UTC)
		return Window{
			Mode:    ModeCustom,
			From:    format.Date(start),
			To:      format.Date(end),
			Compare: ComparePrevPeriod,
		}
	case TypeYear:
		return Window{Mode: ModeYear, Compare: CompareYoY}
	default:
		start := time.Date(ref.Year()-1, ref.Month(), ref.Day()+1, 0, 0, 0, 0, time.UTC)
		end := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
		return Window{
			Mode:    ModeCustom,
			From:    format.Date(start),
			To:      format.Date(end),
			Compare: ComparePrevPeriod,
		}
	}
}
