package dashboard

import (
	"strings"

	"github.com/odyssey-erp/execboard/internal/finapi"
	"github.com/odyssey-erp/execboard/internal/format"
)

const defaultCashTitle = "13-Week Outlook"

// CashWeekView is one rendered week of the outlook.
type CashWeekView struct {
	Label    string  `json:"label"`
	WeekEnd  string  `json:"weekEnd"`
	Kind     string  `json:"kind"`
	Value    float64 `json:"value"`
	Display  string  `json:"display"`
	Negative bool    `json:"negative"`
}

// CashOutlookView is the rendered 13-week projection card.
type CashOutlookView struct {
	Title          string         `json:"title"`
	AsOf           string         `json:"asOf"`
	Currency       string         `json:"currency"`
	Weeks          []CashWeekView `json:"weeks"`
	MinBalance     string         `json:"minBalance,omitempty"`
	WillBreachZero bool           `json:"willBreachZero"`
	HasSummary     bool           `json:"hasSummary"`
	Loading        bool           `json:"loading"`
	Error          string         `json:"error,omitempty"`
	Status         string         `json:"statusLabel"`
}

// BuildCashOutlookView renders the outlook. Without data the bundled weeks
// are shown; the currency falls back to the primary entity's base currency.
func BuildCashOutlookView(state WidgetState[finapi.CashOutlookResponse], primaryCcy string) CashOutlookView {
	view := CashOutlookView{
		Title:   defaultCashTitle,
		Loading: state.Loading,
		Error:   state.Error,
		Status:  StatusLabel(state.Loading, state.Error),
	}
	var weeks []finapi.CashOutlookWeek
	var summary []finapi.CashOutlookSummary
	currency := ""
	if d := state.Data; d != nil {
		weeks = d.Weeks
		summary = d.Summary
		currency = d.Currency
		view.AsOf = d.AsOf
		if d.Title != "" {
			view.Title = d.Title
		}
	} else {
		weeks = finapi.MockCashOutlook().Weeks
	}
	view.Currency = format.FirstCurrency(currency, primaryCcy)

	view.Weeks = make([]CashWeekView, 0, len(weeks))
	for _, w := range weeks {
		value := w.Value
		view.Weeks = append(view.Weeks, CashWeekView{
			Label:    w.Label,
			WeekEnd:  w.WeekEnd,
			Kind:     w.Kind,
			Value:    value,
			Display:  format.CurrencyCompact(&value, view.Currency),
			Negative: value <= 0,
		})
	}
	if len(summary) > 0 {
		view.HasSummary = true
		view.MinBalance = format.CurrencyCompact(summary[0].MinBalance13w, view.Currency)
		view.WillBreachZero = summary[0].WillBreachZero
	}
	return view
}

// HeadlineView is one rendered signal.
type HeadlineView struct {
	Code    string       `json:"code"`
	Level   string       `json:"level"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message"`
}

// HeadlinesView is the rendered signals card.
type HeadlinesView struct {
	Items   []HeadlineView `json:"items"`
	AsOf    string         `json:"asOf,omitempty"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
}

func headlineStatus(level string) HealthStatus {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "critical", "high", "error", "alert":
		return StatusCritical
	case "warning", "warn", "medium":
		return StatusWarning
	default:
		return StatusHealthy
	}
}

// BuildHeadlinesView renders the signal headlines.
func BuildHeadlinesView(state WidgetState[finapi.HeadlinesResponse]) HeadlinesView {
	view := HeadlinesView{
		Items:   []HeadlineView{},
		Loading: state.Loading,
		Error:   state.Error,
	}
	if state.Data == nil {
		return view
	}
	view.AsOf = state.Data.Filters.AsOfMonth
	for _, h := range state.Data.Headlines {
		view.Items = append(view.Items, HeadlineView{
			Code:    h.Code,
			Level:   h.Level,
			Status:  headlineStatus(h.Level),
			Message: h.Message,
		})
	}
	return view
}
