package dashboard

import (
	"time"
)

// Section identifiers with bespoke mappings.
const (
	SectionLiquidity      = "liquidity"
	SectionAR             = "ar"
	SectionAP             = "ap"
	SectionProfitability  = "profitability"
	SectionWorkingCapital = "working-capital"
	SectionRevenue        = "revenue-health"
	SectionFXTreasury     = "fx-treasury"
	SectionTaxVAT         = "tax-vat"
	SectionBalanceSheet   = "balance-sheet"
	SectionConcentration  = "concentration-risk"
)

func floatPtr(v float64) *float64 { return &v }

var baseSections = []SectionConfig{
	{
		ID: SectionLiquidity, Name: "Liquidity", Icon: IconDroplets, Status: StatusHealthy,
		KPIs: []KPI{
			{Label: "Cash Position", Value: "$24.3M", Change: floatPtr(8.2), Trend: TrendUp},
			{Label: "Quick Ratio", Value: "2.4x", Change: floatPtr(0.3), Trend: TrendUp},
		},
		SparklineData: []float64{20, 21, 19, 22, 23, 22, 24},
	},
	{
		ID: SectionAR, Name: "Accounts Receivable", Icon: IconArrowDownToLine, Status: StatusWarning,
		KPIs: []KPI{
			{Label: "DSO", Value: ValuePlaceholder, Status: StatusWarning},
			{Label: "Open AR", Value: ValuePlaceholder},
		},
		SparklineData: []float64{7.8, 8.0, 7.9, 8.1, 8.3, 8.2, 8.2},
		Source:        "api_ar",
	},
	{
		ID: SectionAP, Name: "Accounts Payable", Icon: IconArrowUpToLine, Status: StatusHealthy,
		KPIs: []KPI{
			{Label: "DPO", Value: ValuePlaceholder},
			{Label: "Open AP", Value: ValuePlaceholder},
		},
		SparklineData: []float64{5.2, 5.0, 4.9, 4.8, 4.7, 4.6, 4.6},
		Source:        "api_ap",
	},
	{
		ID: SectionProfitability, Name: "Profitability", Icon: IconTrendingUp, Status: StatusHealthy,
		KPIs: []KPI{
			{Label: "Gross Margin", Value: "68%", Change: floatPtr(2.1), Trend: TrendUp},
			{Label: "EBITDA", Value: "$5.2M", Change: floatPtr(12.3), Trend: TrendUp},
		},
		SparklineData: []float64{4.5, 4.7, 4.9, 5.0, 5.1, 5.3, 5.2},
	},
	{
		ID: SectionWorkingCapital, Name: "Working Capital", Icon: IconRepeat, Status: StatusHealthy,
		KPIs: []KPI{
			{Label: "WC Days", Value: "28 days", Change: floatPtr(-3), Trend: TrendDown},
			{Label: "WC Amount", Value: "$6.8M", Change: floatPtr(4.2), Trend: TrendUp},
		},
		SparklineData: []float64{6.2, 6.4, 6.5, 6.6, 6.7, 6.9, 6.8},
	},
	{
		ID: SectionRevenue, Name: "Revenue Health", Icon: IconDollarSign, Status: StatusHealthy,
		KPIs: []KPI{
			{Label: "MRR", Value: "$3.2M", Change: floatPtr(6.8), Trend: TrendUp},
			{Label: "Churn Rate", Value: "2.1%", Change: floatPtr(-0.3), Trend: TrendDown},
		},
		SparklineData: []float64{2.8, 2.9, 3.0, 3.1, 3.1, 3.2, 3.2},
	},
	{
		ID: SectionFXTreasury, Name: "FX & Treasury", Icon: IconCoins, Status: StatusWarning,
		KPIs: []KPI{
			{Label: "FX Exposure", Value: "$12.4M", Change: floatPtr(8.5), Trend: TrendUp, Status: StatusWarning},
			{Label: "Hedged %", Value: "62%", Change: floatPtr(-3), Trend: TrendDown},
		},
		SparklineData: []float64{10, 11, 11.5, 12, 12.2, 12.5, 12.4},
	},
	{
		ID: SectionTaxVAT, Name: "Tax/VAT", Icon: IconFileText, Status: StatusHealthy,
		KPIs: []KPI{
			{Label: "ETR", Value: "24.5%", Change: floatPtr(0.2), Trend: TrendUp},
			{Label: "VAT Payable", Value: "$420K", Change: floatPtr(-2.1), Trend: TrendDown},
		},
		SparklineData: []float64{450, 440, 435, 430, 425, 422, 420},
	},
	{
		ID: SectionBalanceSheet, Name: "Balance Sheet & Covenants", Icon: IconScale, Status: StatusHealthy,
		KPIs: []KPI{
			{Label: "Debt/EBITDA", Value: "2.1x", Change: floatPtr(-0.2), Trend: TrendDown},
			{Label: "Interest Coverage", Value: "8.4x", Change: floatPtr(0.6), Trend: TrendUp},
		},
		SparklineData: []float64{7.5, 7.8, 8.0, 8.1, 8.3, 8.5, 8.4},
	},
	{
		ID: SectionConcentration, Name: "Concentration Risk", Icon: IconTarget, Status: StatusCritical,
		KPIs: []KPI{
			{Label: "Top 5 Customers", Value: "58%", Change: floatPtr(4.2), Trend: TrendUp, Status: StatusCritical},
			{Label: "Top Supplier", Value: "32%", Change: floatPtr(2.1), Trend: TrendUp, Status: StatusWarning},
		},
		SparklineData: []float64{40, 41, 43, 47, 52, 55, 58},
	},
}

// BaseSections returns deep copies of the section templates in display order.
func BaseSections() []SectionConfig {
	out := make([]SectionConfig, len(baseSections))
	for i, s := range baseSections {
		out[i] = s.Clone()
	}
	return out
}

// BaseSection returns the template with the given id.
func BaseSection(id string) (SectionConfig, bool) {
	for _, s := range baseSections {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return SectionConfig{}, false
}

type alertSeed struct {
	id          string
	severity    Severity
	title       string
	description string
	section     string
	age         time.Duration
	read        bool
}

var alertSeeds = []alertSeed{
	{"1", SeverityHigh, "Concentration Risk Threshold Exceeded", "Top 5 customers now represent 58% of revenue, exceeding policy limit of 55%", SectionConcentration, 30 * time.Minute, false},
	{"2", SeverityHigh, "DSO Increased Above Target", "DSO has risen to 42 days, 7 days above the 35-day target", SectionAR, 2 * time.Hour, false},
	{"3", SeverityHigh, "FX Exposure Hedge Ratio Below Target", "Hedged percentage dropped to 62%, below the 70% policy threshold", SectionFXTreasury, 4 * time.Hour, false},
	{"4", SeverityMedium, "Large Payment Due Next Week", "Supplier payment of $2.4M due Nov 14, ensure sufficient liquidity", SectionAP, 6 * time.Hour, true},
	{"5", SeverityMedium, "Overdue Invoices Increased", "15 invoices totaling $680K are now >60 days overdue", SectionAR, 12 * time.Hour, true},
	{"6", SeverityLow, "Churn Rate Improved", "Monthly churn decreased to 2.1%, down from 2.4% last month", SectionRevenue, 24 * time.Hour, true},
}

// SeedAlerts builds the initial alert feed with timestamps relative to now.
func SeedAlerts(now time.Time) []Alert {
	out := make([]Alert, 0, len(alertSeeds))
	for _, seed := range alertSeeds {
		out = append(out, Alert{
			ID:          seed.id,
			Severity:    seed.severity,
			Title:       seed.title,
			Description: seed.description,
			Section:     seed.section,
			Timestamp:   now.Add(-seed.age),
			IsRead:      seed.read,
		})
	}
	return out
}
