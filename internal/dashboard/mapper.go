package dashboard

import (
	"github.com/odyssey-erp/execboard/internal/finapi"
	"github.com/odyssey-erp/execboard/internal/format"
)

var widgetStatus = map[string]HealthStatus{
	finapi.StatusOK:       StatusHealthy,
	finapi.StatusWarning:  StatusWarning,
	finapi.StatusCritical: StatusCritical,
}

// translateWidgetStatus maps a widget status code, keeping fallback for
// unknown codes.
func translateWidgetStatus(code string, fallback HealthStatus) HealthStatus {
	if status, ok := widgetStatus[code]; ok {
		return status
	}
	return fallback
}

// ResolveTrend derives the trend from a signed delta. Nil yields no trend.
func ResolveTrend(delta *float64) Trend {
	if delta == nil {
		return ""
	}
	if *delta >= 0 {
		return TrendUp
	}
	return TrendDown
}

// BuildPlaceholder renders a section without data: loading or settled
// placeholders, with an error forcing critical status.
func BuildPlaceholder[T any](base SectionConfig, state WidgetState[T]) SectionConfig {
	out := base.Clone()
	if state.Error != "" {
		out.Status = StatusCritical
		out.StatusReason = state.Error
	}
	value := ValuePlaceholder
	if state.Loading {
		value = ValueLoading
	}
	for i := range out.KPIs {
		out.KPIs[i].Value = value
		out.KPIs[i].Change = nil
		out.KPIs[i].Trend = ""
	}
	return out
}

type widgetPayload struct {
	status       string
	statusReason string
	source       string
	reportCcy    string
	days         finapi.DayMetric
	amount       finapi.AmountMetric
}

// BuildARSection folds the receivables widget state into its section.
func BuildARSection(base SectionConfig, state WidgetState[finapi.ARWidgetResponse]) SectionConfig {
	if state.Data == nil {
		return BuildPlaceholder(base, state)
	}
	d := state.Data
	return buildWidgetSection(base, widgetPayload{
		status:       d.Status,
		statusReason: d.StatusReason,
		source:       d.Source,
		reportCcy:    d.Filters.ReportCcy,
		days:         d.Metrics.DSO,
		amount:       d.Metrics.OpenAR,
	}, "DSO", "Open AR")
}

// BuildAPSection folds the payables widget state into its section.
func BuildAPSection(base SectionConfig, state WidgetState[finapi.APWidgetResponse]) SectionConfig {
	if state.Data == nil {
		return BuildPlaceholder(base, state)
	}
	d := state.Data
	return buildWidgetSection(base, widgetPayload{
		status:       d.Status,
		statusReason: d.StatusReason,
		source:       d.Source,
		reportCcy:    d.Filters.ReportCcy,
		days:         d.Metrics.DPO,
		amount:       d.Metrics.OpenAP,
	}, "DPO", "Open AP")
}

func buildWidgetSection(base SectionConfig, p widgetPayload, daysLabel, amountLabel string) SectionConfig {
	out := base.Clone()
	out.Status = translateWidgetStatus(p.status, base.Status)
	if p.statusReason != "" {
		out.StatusReason = p.statusReason
	}
	if p.source != "" {
		out.Source = p.source
	}

	daysKPI := kpiAt(out.KPIs, 0, daysLabel)
	daysKPI.Value = format.Days(p.days.ValueDays)
	daysKPI.Change = format.DeltaPercent(p.days.DeltaPct)
	daysKPI.Trend = ResolveTrend(p.days.DeltaPct)

	amountKPI := kpiAt(out.KPIs, 1, amountLabel)
	amountKPI.Value = format.CurrencyCompact(p.amount.Value, format.FirstCurrency(p.amount.Currency, p.reportCcy))
	amountKPI.Change = format.DeltaPercent(p.amount.DeltaPct)
	amountKPI.Trend = ResolveTrend(p.amount.DeltaPct)

	out.KPIs = []KPI{daysKPI, amountKPI}
	return out
}

// kpiAt returns the template KPI at idx, or a bare one with the given label.
func kpiAt(kpis []KPI, idx int, label string) KPI {
	if idx < len(kpis) {
		return kpis[idx]
	}
	return KPI{Label: label, Value: ValuePlaceholder}
}
