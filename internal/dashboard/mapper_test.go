package dashboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/execboard/internal/finapi"
)

func mustBase(t *testing.T, id string) SectionConfig {
	t.Helper()
	base, ok := BaseSection(id)
	require.True(t, ok, "missing base section %s", id)
	return base
}

func TestBuildARSectionFromMock(t *testing.T) {
	mock := finapi.MockARWidget()
	section := BuildARSection(mustBase(t, SectionAR), Idle(&mock))

	require.Equal(t, StatusWarning, section.Status)
	require.Equal(t, "AR overdue ratio 0,77%", section.StatusReason)
	require.Equal(t, "api_ar", section.Source)
	require.Len(t, section.KPIs, 2)

	require.Equal(t, "DSO", section.KPIs[0].Label)
	require.Equal(t, "197 days", section.KPIs[0].Value)
	require.Nil(t, section.KPIs[0].Change)
	require.Empty(t, section.KPIs[0].Trend)
	require.Equal(t, StatusWarning, section.KPIs[0].Status)

	require.Equal(t, "Open AR", section.KPIs[1].Label)
	require.Equal(t, "€356.9K", section.KPIs[1].Value)
	require.Nil(t, section.KPIs[1].Change)
}

func TestBuildAPSectionDeltas(t *testing.T) {
	mock := finapi.MockAPWidget()
	section := BuildAPSection(mustBase(t, SectionAP), Idle(&mock))

	require.Equal(t, StatusWarning, section.Status)
	require.Equal(t, "172 days", section.KPIs[0].Value)
	require.NotNil(t, section.KPIs[0].Change)
	require.InDelta(t, 5.5, *section.KPIs[0].Change, 1e-9)
	require.Equal(t, TrendUp, section.KPIs[0].Trend)

	require.Equal(t, "€233.6K", section.KPIs[1].Value)
	require.InDelta(t, 15.8, *section.KPIs[1].Change, 1e-9)
	require.Equal(t, TrendUp, section.KPIs[1].Trend)
}

func TestBuildWidgetSectionNegativeDelta(t *testing.T) {
	delta := -0.158
	value := 1234567.0
	data := finapi.ARWidgetResponse{
		Status: finapi.StatusCritical,
		Metrics: finapi.ARWidgetMetrics{
			OpenAR: finapi.AmountMetric{Value: &value, DeltaPct: &delta},
		},
		Filters: finapi.WidgetFilters{ReportCcy: "EUR"},
	}
	section := BuildARSection(mustBase(t, SectionAR), Idle(&data))

	require.Equal(t, StatusCritical, section.Status)
	require.Equal(t, "--", section.KPIs[0].Value)
	require.Equal(t, "€1.2M", section.KPIs[1].Value)
	require.InDelta(t, 15.8, *section.KPIs[1].Change, 1e-9)
	require.Equal(t, TrendDown, section.KPIs[1].Trend)
	// empty payload fields keep the template values
	require.Equal(t, "api_ar", section.Source)
	require.Empty(t, section.StatusReason)
}

func TestWidgetCurrencyFallsBackToUSD(t *testing.T) {
	value := 8200000.0
	data := finapi.APWidgetResponse{
		Status:  finapi.StatusOK,
		Metrics: finapi.APWidgetMetrics{OpenAP: finapi.AmountMetric{Value: &value}},
	}
	section := BuildAPSection(mustBase(t, SectionAP), Idle(&data))
	require.Equal(t, StatusHealthy, section.Status)
	require.Equal(t, "$8.2M", section.KPIs[1].Value)
}

func TestUnknownWidgetStatusKeepsBase(t *testing.T) {
	data := finapi.ARWidgetResponse{Status: "degraded"}
	base := mustBase(t, SectionAR)
	section := BuildARSection(base, Idle(&data))
	require.Equal(t, base.Status, section.Status)
}

func TestPlaceholderStates(t *testing.T) {
	base := mustBase(t, SectionLiquidity)

	loading := BuildPlaceholder(base, WidgetState[finapi.ARWidgetResponse]{Loading: true})
	for _, kpi := range loading.KPIs {
		require.Equal(t, "Loading...", kpi.Value)
		require.Nil(t, kpi.Change)
		require.Empty(t, kpi.Trend)
	}
	require.Equal(t, base.Status, loading.Status)

	settled := BuildPlaceholder(base, WidgetState[finapi.ARWidgetResponse]{})
	for _, kpi := range settled.KPIs {
		require.Equal(t, "--", kpi.Value)
	}

	failed := BuildPlaceholder(base, WidgetState[finapi.ARWidgetResponse]{Loading: true, Error: "boom"})
	require.Equal(t, StatusCritical, failed.Status)
	require.Equal(t, "boom", failed.StatusReason)
	require.Equal(t, "Loading...", failed.KPIs[0].Value)

	// the template is untouched
	require.Equal(t, "$24.3M", base.KPIs[0].Value)
	require.NotNil(t, base.KPIs[0].Change)
}

func TestMapperIsDeterministic(t *testing.T) {
	mock := finapi.MockAPWidget()
	state := Idle(&mock)
	base := mustBase(t, SectionAP)
	require.Equal(t, BuildAPSection(base, state), BuildAPSection(base, state))
}

func TestResolveTrend(t *testing.T) {
	zero, neg := 0.0, -0.1
	require.Equal(t, TrendUp, ResolveTrend(&zero))
	require.Equal(t, TrendDown, ResolveTrend(&neg))
	require.Empty(t, ResolveTrend(nil))
}

func TestStatusLabel(t *testing.T) {
	require.Equal(t, "Loading...", StatusLabel(true, "err"))
	require.Equal(t, "Error", StatusLabel(false, "err"))
	require.Equal(t, "Synced", StatusLabel(false, ""))
}

func TestWidgetStateTransitions(t *testing.T) {
	data := finapi.MockCashOutlook()
	state := Idle(&data)

	loading := state.Begin()
	require.True(t, loading.Loading)
	require.Same(t, state.Data, loading.Data)

	failed := loading.Fail("down", loading.Data)
	require.False(t, failed.Loading)
	require.True(t, failed.HasError())
	require.NotNil(t, failed.Data)

	ok := failed.Begin().Succeed(finapi.CashOutlookResponse{Title: "fresh"})
	require.False(t, ok.HasError())
	require.Equal(t, "fresh", ok.Data.Title)
}
