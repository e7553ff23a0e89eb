package finapi

import (
	"encoding/json"
	"strings"
)

// Status codes reported by widget endpoints.
const (
	StatusOK       = "ok"
	StatusWarning  = "warning"
	StatusCritical = "critical"
)

// WidgetFilters echoes the filters the API applied to a widget.
type WidgetFilters struct {
	To        string `json:"to"`
	From      string `json:"from"`
	Mode      string `json:"mode"`
	Compare   string `json:"compare"`
	EntityID  *int64 `json:"entity_id"`
	ReportCcy string `json:"report_ccy"`
}

// DayMetric is a day-count metric such as DSO or DPO.
type DayMetric struct {
	BetterIs  string   `json:"better_is"`
	DeltaPct  *float64 `json:"delta_pct"`
	ValueDays *float64 `json:"value_days"`
}

// AmountMetric is a currency amount metric such as open AR.
type AmountMetric struct {
	Value    *float64 `json:"value"`
	Currency string   `json:"currency"`
	DeltaPct *float64 `json:"delta_pct"`
}

// ARWidgetMetrics groups receivable metrics.
type ARWidgetMetrics struct {
	DSO    DayMetric    `json:"dso"`
	OpenAR AmountMetric `json:"open_ar"`
}

// ARWidgetResponse is the payload of GET /ar-widget.
type ARWidgetResponse struct {
	Title        string          `json:"title"`
	Source       string          `json:"source"`
	Status       string          `json:"status"`
	StatusReason string          `json:"status_reason"`
	Filters      WidgetFilters   `json:"filters"`
	Metrics      ARWidgetMetrics `json:"metrics"`
}

// APWidgetMetrics groups payable metrics.
type APWidgetMetrics struct {
	DPO    DayMetric    `json:"dpo"`
	OpenAP AmountMetric `json:"open_ap"`
}

// APWidgetResponse is the payload of GET /ap-widget.
type APWidgetResponse struct {
	Title        string          `json:"title"`
	Source       string          `json:"source"`
	Status       string          `json:"status"`
	StatusReason string          `json:"status_reason"`
	Filters      WidgetFilters   `json:"filters"`
	Metrics      APWidgetMetrics `json:"metrics"`
}

// Week kinds of the cash outlook.
const (
	WeekActual    = "actual"
	WeekProjected = "projected"
)

// CashOutlookWeek is one normalized week of the 13-week outlook.
type CashOutlookWeek struct {
	Kind      string   `json:"kind"`
	Label     string   `json:"label"`
	Value     float64  `json:"value"`
	WeekEnd   string   `json:"week_end"`
	WeekStart string   `json:"week_start,omitempty"`
	WeekIndex int      `json:"week_index"`
	Actual    *float64 `json:"actual,omitempty"`
	Projected *float64 `json:"projected,omitempty"`
}

// CashOutlookSummary carries the outlook headline numbers.
type CashOutlookSummary struct {
	CashAsOf       *float64 `json:"cash_asof"`
	MinBalance13w  *float64 `json:"min_balance_13w"`
	WillBreachZero bool     `json:"will_breach_zero"`
}

// CashOutlookResponse is the normalized 13-week cash outlook.
type CashOutlookResponse struct {
	AsOf     string               `json:"as_of"`
	Title    string               `json:"title"`
	Weeks    []CashOutlookWeek    `json:"weeks"`
	Source   string               `json:"source"`
	Summary  []CashOutlookSummary `json:"summary"`
	Currency string               `json:"currency"`
	EntityID *int64               `json:"entity_id"`
}

// BoardFilters echoes the board overview scope.
type BoardFilters struct {
	AsOf      string  `json:"as_of"`
	EntityIDs []int64 `json:"entity_ids"`
	ReportCcy string  `json:"report_ccy"`
	TopN      int     `json:"top_n,omitempty"`
	Months    int     `json:"months,omitempty"`
}

// RevenueYoYPoint is one month of year-over-year growth.
type RevenueYoYPoint struct {
	Month  string   `json:"month"`
	YoYPct *float64 `json:"yoy_pct"`
}

// RevenueYoY is the YoY growth series.
type RevenueYoY struct {
	Series  []RevenueYoYPoint `json:"series"`
	Filters BoardFilters      `json:"filters"`
}

// RevenueRunRate summarises revenue run rates.
type RevenueRunRate struct {
	QTD               *float64     `json:"qtd"`
	TTM               *float64     `json:"ttm"`
	YTD               *float64     `json:"ytd"`
	Filters           BoardFilters `json:"filters"`
	Currency          string       `json:"currency"`
	LatestMonth       *float64     `json:"latest_month"`
	RunRateAnnualized *float64     `json:"run_rate_annualized"`
}

// BoardRevenue is the revenue block of the board overview.
type BoardRevenue struct {
	YoY     *RevenueYoY     `json:"yoy,omitempty"`
	RunRate *RevenueRunRate `json:"run_rate,omitempty"`
	Status  string          `json:"status,omitempty"`
}

// TaxVATLatest is the latest VAT position.
type TaxVATLatest struct {
	Net    *float64 `json:"net"`
	Input  *float64 `json:"input"`
	Month  string   `json:"month"`
	Output *float64 `json:"output"`
}

// BoardTaxVAT is the tax block of the board overview.
type BoardTaxVAT struct {
	Latest  *TaxVATLatest `json:"latest"`
	Filters BoardFilters  `json:"filters"`
	Status  string        `json:"status,omitempty"`
}

// BoardLiquidity is the liquidity block of the board overview.
type BoardLiquidity struct {
	Cash       *float64 `json:"cash"`
	QuickRatio *float64 `json:"quick_ratio"`
	Status     string   `json:"status,omitempty"`
}

// FXEntry is the net exposure in one currency.
type FXEntry struct {
	Ccy string  `json:"ccy"`
	Net float64 `json:"net"`
}

// BoardFXTreasury is the FX block of the board overview.
type BoardFXTreasury struct {
	ByCcy    []FXEntry    `json:"by_ccy"`
	Filters  BoardFilters `json:"filters"`
	TotalNet *float64     `json:"total_net"`
	Status   string       `json:"status,omitempty"`
}

// ConcentrationEntry is one ranked counterparty.
type ConcentrationEntry struct {
	Amount     float64  `json:"amount"`
	SharePct   *float64 `json:"share_pct"`
	CustomerID *int64   `json:"customer_id,omitempty"`
	SupplierID *int64   `json:"supplier_id,omitempty"`
}

// ConcentrationShare is the remainder outside the ranked entries.
type ConcentrationShare struct {
	Amount   float64 `json:"amount"`
	SharePct float64 `json:"share_pct"`
}

// ConcentrationGroup ranks customers or suppliers. Aggregates keeps any extra
// numeric fields such as share_top5_pct that the API may precompute.
type ConcentrationGroup struct {
	Top        []ConcentrationEntry `json:"top"`
	Total      float64              `json:"total"`
	Others     ConcentrationShare   `json:"others"`
	Filters    BoardFilters         `json:"filters"`
	Currency   string               `json:"currency"`
	Aggregates map[string]float64   `json:"-"`
}

type concentrationGroupAlias ConcentrationGroup

// UnmarshalJSON decodes the known fields and collects share aggregates.
func (g *ConcentrationGroup) UnmarshalJSON(data []byte) error {
	var alias concentrationGroupAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if !strings.Contains(key, "share") || key == "share_pct" {
			continue
		}
		var n *float64
		if err := json.Unmarshal(value, &n); err != nil || n == nil {
			continue
		}
		if alias.Aggregates == nil {
			alias.Aggregates = make(map[string]float64)
		}
		alias.Aggregates[key] = *n
	}
	*g = ConcentrationGroup(alias)
	return nil
}

// MarshalJSON writes the aggregates back next to the known fields so that a
// stored payload decodes to the same group.
func (g ConcentrationGroup) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(concentrationGroupAlias(g))
	if err != nil {
		return nil, err
	}
	if len(g.Aggregates) == 0 {
		return known, nil
	}
	merged := make(map[string]any, len(g.Aggregates)+5)
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, value := range g.Aggregates {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// BoardConcentration is the concentration block of the board overview.
type BoardConcentration struct {
	Customers *ConcentrationGroup `json:"customers"`
	Suppliers *ConcentrationGroup `json:"suppliers"`
	Status    string              `json:"status,omitempty"`
}

// BoardProfitability is the profitability block of the board overview.
type BoardProfitability struct {
	EBITDATTM      *float64 `json:"ebitda_ttm"`
	GrossMarginPct *float64 `json:"gross_margin_pct"`
	EBITDAMargin   *float64 `json:"ebitda_margin,omitempty"`
	Status         string   `json:"status,omitempty"`
}

// BoardWorkingCapital is the working capital block of the board overview.
type BoardWorkingCapital struct {
	APOpen  *float64 `json:"ap_open"`
	AROpen  *float64 `json:"ar_open"`
	RevTTM  *float64 `json:"rev_ttm"`
	CCCDays *float64 `json:"ccc_days"`
	COGSTTM *float64 `json:"cogs_ttm"`
	DPODays *float64 `json:"dpo_days"`
	DSODays *float64 `json:"dso_days"`
	Amount  *float64 `json:"amount,omitempty"`
	Status  string   `json:"status,omitempty"`
}

// BoardBalanceSheet is the covenants block of the board overview.
type BoardBalanceSheet struct {
	NetDebt          *float64 `json:"net_debt"`
	DebtToEBITDA     *float64 `json:"debt_to_ebitda"`
	InterestCoverage *float64 `json:"interest_coverage"`
	Status           string   `json:"status,omitempty"`
}

// BoardOverviewResponse is the payload of GET /board-overview. Every domain
// block is optional.
type BoardOverviewResponse struct {
	Filters        BoardFilters         `json:"filters"`
	Revenue        *BoardRevenue        `json:"revenue,omitempty"`
	TaxVAT         *BoardTaxVAT         `json:"tax_vat,omitempty"`
	Liquidity      *BoardLiquidity      `json:"liquidity,omitempty"`
	FXTreasury     *BoardFXTreasury     `json:"fx_treasury,omitempty"`
	Concentration  *BoardConcentration  `json:"concentration,omitempty"`
	Profitability  *BoardProfitability  `json:"profitability,omitempty"`
	WorkingCapital *BoardWorkingCapital `json:"working_capital,omitempty"`
	BalanceSheet   *BoardBalanceSheet   `json:"balance_sheet_covenants,omitempty"`
}

// HeadlinesFilters echoes the scope of the signals endpoint.
type HeadlinesFilters struct {
	AsOfMonth string  `json:"asof_month"`
	EntityIDs []int64 `json:"entity_ids"`
	ReportCcy string  `json:"report_ccy"`
}

// HeadlinesSignals are the raw signals behind the headlines.
type HeadlinesSignals struct {
	OpenAP           *float64 `json:"open_ap"`
	OpenAR           *float64 `json:"open_ar"`
	Currency         string   `json:"currency"`
	DPODays          *float64 `json:"dpo_days"`
	DSODays          *float64 `json:"dso_days"`
	DPODelta         *float64 `json:"dpo_delta"`
	DSODelta         *float64 `json:"dso_delta"`
	RevYoYPct        *float64 `json:"rev_yoy_pct"`
	InterestCoverage *float64 `json:"interest_coverage"`
	LowCashNext13w   *float64 `json:"low_cash_next_13w"`
	NetDebtToEBITDA  *float64 `json:"net_debt_to_ebitda"`
}

// HeadlineEntry is one narrative signal.
type HeadlineEntry struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// HeadlinesResponse is the payload of GET /signals/headlines.
type HeadlinesResponse struct {
	Filters   HeadlinesFilters `json:"filters"`
	Signals   HeadlinesSignals `json:"signals"`
	Headlines []HeadlineEntry  `json:"headlines"`
}
