package finapi

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

type cashWeekPayload struct {
	WeekEnd                *string  `json:"week_end"`
	WeekStart              *string  `json:"week_start"`
	WeekIndex              *int     `json:"week_index"`
	MinBalance             *float64 `json:"min_balance"`
	EndingBalance          *float64 `json:"ending_balance"`
	EndingBalanceActual    *float64 `json:"ending_balance_actual"`
	EndingBalanceProjected *float64 `json:"ending_balance_projected"`
}

type cashSummaryPayload struct {
	CashAsOf       *float64 `json:"cash_asof"`
	MinBalance13w  *float64 `json:"min_balance_13w"`
	WillBreachZero *bool    `json:"will_breach_zero"`
}

type cashOutlookPayload struct {
	Weeks  []cashWeekPayload `json:"weeks"`
	Window *struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"window"`
	Filters *struct {
		AsOf      string  `json:"as_of"`
		Weeks     int     `json:"weeks"`
		EntityIDs []int64 `json:"entity_ids"`
		ReportCcy string  `json:"report_ccy"`
	} `json:"filters"`
	Summary  *cashSummaryPayload `json:"summary"`
	Title    *string             `json:"title"`
	Source   *string             `json:"source"`
	Currency *string             `json:"currency"`
}

const cashOutlookSource = "api_cash_outlook"

var cashOutlookResource = resource[CashOutlookResponse]{
	name:    "cash-13w",
	path:    "/cash-13w",
	failure: "Unable to load cash outlook data",
	mock:    MockCashOutlook,
}

// FetchCashOutlook loads and normalizes the 13-week cash outlook.
func (c *Client) FetchCashOutlook(ctx context.Context, entityIDs, reportCcy string) (CashOutlookResponse, error) {
	params := url.Values{}
	params.Set("entityIds", entityIDs)
	if reportCcy != "" {
		params.Set("reportCcy", reportCcy)
	}
	return fetchResource(ctx, c, cashOutlookResource, params, normalizeCashOutlook)
}

func normalizeCashOutlook(payload cashOutlookPayload) CashOutlookResponse {
	mock := MockCashOutlook()

	asOf := ""
	switch {
	case payload.Filters != nil && payload.Filters.AsOf != "":
		asOf = payload.Filters.AsOf
	case payload.Window != nil:
		asOf = payload.Window.To
	}

	out := CashOutlookResponse{
		AsOf:     asOf,
		Title:    mock.Title,
		Source:   cashOutlookSource,
		Currency: mock.Currency,
		Weeks:    make([]CashOutlookWeek, 0, len(payload.Weeks)),
		Summary:  []CashOutlookSummary{},
	}
	if payload.Title != nil {
		out.Title = *payload.Title
	}
	if payload.Source != nil {
		out.Source = *payload.Source
	}
	if payload.Currency != nil {
		out.Currency = *payload.Currency
	}
	if payload.Filters != nil {
		if payload.Filters.ReportCcy != "" {
			out.Currency = payload.Filters.ReportCcy
		}
		if len(payload.Filters.EntityIDs) > 0 {
			id := payload.Filters.EntityIDs[0]
			out.EntityID = &id
		}
	}
	for i, week := range payload.Weeks {
		out.Weeks = append(out.Weeks, normalizeCashWeek(week, i, asOf))
	}
	if s := payload.Summary; s != nil {
		out.Summary = append(out.Summary, CashOutlookSummary{
			CashAsOf:       s.CashAsOf,
			MinBalance13w:  s.MinBalance13w,
			WillBreachZero: s.WillBreachZero != nil && *s.WillBreachZero,
		})
	}
	return out
}

func normalizeCashWeek(week cashWeekPayload, index int, asOf string) CashOutlookWeek {
	actual := firstNonNil(week.EndingBalanceActual, week.EndingBalance, week.MinBalance)
	projected := week.EndingBalanceProjected
	labelIndex := index
	if week.WeekIndex != nil {
		labelIndex = *week.WeekIndex
	}
	value := 0.0
	if v := firstNonNil(actual, projected); v != nil {
		value = *v
	}
	out := CashOutlookWeek{
		Kind:      resolveWeekKind(week.WeekEnd, asOf, actual),
		Label:     fmt.Sprintf("W%d", labelIndex+1),
		Value:     value,
		WeekIndex: labelIndex,
		Actual:    actual,
		Projected: projected,
	}
	if week.WeekEnd != nil {
		out.WeekEnd = *week.WeekEnd
	}
	if week.WeekStart != nil {
		out.WeekStart = *week.WeekStart
	}
	return out
}

var weekDateLayouts = []string{"2006-01-02", time.RFC3339}

func resolveWeekKind(weekEnd *string, asOf string, actual *float64) string {
	if actual != nil {
		return WeekActual
	}
	if weekEnd == nil || *weekEnd == "" || asOf == "" {
		return WeekProjected
	}
	end, ok := parseWeekDate(*weekEnd)
	if !ok {
		return WeekProjected
	}
	ref, ok := parseWeekDate(asOf)
	if !ok {
		return WeekProjected
	}
	if !end.After(ref) {
		return WeekActual
	}
	return WeekProjected
}

func parseWeekDate(value string) (time.Time, bool) {
	for _, layout := range weekDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
