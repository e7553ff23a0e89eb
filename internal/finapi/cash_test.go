package finapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCashOutlook(t *testing.T) {
	raw := `{
		"title": "Cash 13w",
		"currency": "USD",
		"window": {"from": "2025-11-01", "to": "2025-11-20"},
		"filters": {"as_of": "2025-11-11", "entity_ids": [6, 4], "report_ccy": "EUR"},
		"summary": {"min_balance_13w": -1200, "will_breach_zero": true},
		"weeks": [
			{"week_end": "2025-11-09", "ending_balance": 5000},
			{"week_end": "2025-11-11", "min_balance": null},
			{"week_end": "2025-11-16", "ending_balance_projected": 3100, "week_index": 4},
			{"week_end": "bogus"}
		]
	}`
	var payload cashOutlookPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	out := normalizeCashOutlook(payload)
	require.Equal(t, "2025-11-11", out.AsOf)
	require.Equal(t, "Cash 13w", out.Title)
	require.Equal(t, "api_cash_outlook", out.Source)
	require.Equal(t, "EUR", out.Currency)
	require.NotNil(t, out.EntityID)
	require.Equal(t, int64(6), *out.EntityID)

	require.Len(t, out.Summary, 1)
	require.True(t, out.Summary[0].WillBreachZero)
	require.InDelta(t, -1200, *out.Summary[0].MinBalance13w, 0.001)

	require.Len(t, out.Weeks, 4)

	require.Equal(t, WeekActual, out.Weeks[0].Kind)
	require.Equal(t, "W1", out.Weeks[0].Label)
	require.InDelta(t, 5000, out.Weeks[0].Value, 0.001)

	// no balances but the week closed on the as-of date
	require.Equal(t, WeekActual, out.Weeks[1].Kind)
	require.Equal(t, "W2", out.Weeks[1].Label)
	require.Zero(t, out.Weeks[1].Value)

	require.Equal(t, WeekProjected, out.Weeks[2].Kind)
	require.Equal(t, "W5", out.Weeks[2].Label)
	require.Equal(t, 4, out.Weeks[2].WeekIndex)
	require.InDelta(t, 3100, out.Weeks[2].Value, 0.001)

	require.Equal(t, WeekProjected, out.Weeks[3].Kind)
}

func TestNormalizeCashOutlookDefaults(t *testing.T) {
	out := normalizeCashOutlook(cashOutlookPayload{})
	mock := MockCashOutlook()

	require.Empty(t, out.AsOf)
	require.Equal(t, mock.Title, out.Title)
	require.Equal(t, mock.Currency, out.Currency)
	require.Nil(t, out.EntityID)
	require.NotNil(t, out.Weeks)
	require.Empty(t, out.Weeks)
	require.NotNil(t, out.Summary)
	require.Empty(t, out.Summary)
}

func TestNormalizeCashOutlookUsesWindowEnd(t *testing.T) {
	var payload cashOutlookPayload
	require.NoError(t, json.Unmarshal([]byte(`{"window":{"to":"2025-12-01"},"currency":"GBP","weeks":[{"week_end":"2025-11-30"}]}`), &payload))

	out := normalizeCashOutlook(payload)
	require.Equal(t, "2025-12-01", out.AsOf)
	require.Equal(t, "GBP", out.Currency)
	require.Equal(t, WeekActual, out.Weeks[0].Kind)
}

func TestFetchCashOutlookNormalizes(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(`{"filters":{"as_of":"2025-11-11"},"weeks":[{"week_end":"2025-11-16","ending_balance_projected":100}]}`))
	}))
	defer srv.Close()

	client := New(Options{BaseURL: srv.URL})
	out, err := client.FetchCashOutlook(context.Background(), "4,6", "")
	require.NoError(t, err)
	require.Equal(t, []string{"4,6"}, query["entityIds"])
	require.NotContains(t, query, "reportCcy")
	require.Len(t, out.Weeks, 1)
	require.Equal(t, WeekProjected, out.Weeks[0].Kind)
}
