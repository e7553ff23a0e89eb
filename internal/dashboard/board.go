package dashboard

import (
	"math"
	"sort"
	"strings"

	"github.com/odyssey-erp/execboard/internal/finapi"
	"github.com/odyssey-erp/execboard/internal/format"
)

var boardStatus = map[string]HealthStatus{
	string(StatusHealthy):  StatusHealthy,
	string(StatusWarning):  StatusWarning,
	string(StatusCritical): StatusCritical,
}

// resolveBoardStatus reads a board section status case-insensitively. ok is
// false for empty or unknown values.
func resolveBoardStatus(status string) (HealthStatus, bool) {
	s, ok := boardStatus[strings.ToLower(strings.TrimSpace(status))]
	return s, ok
}

func boardStatusOr(status string, fallback HealthStatus) HealthStatus {
	if s, ok := resolveBoardStatus(status); ok {
		return s
	}
	return fallback
}

type boardMapper func(SectionConfig, *finapi.BoardOverviewResponse) SectionConfig

var boardMappers = map[string]boardMapper{
	SectionLiquidity:      mapLiquidity,
	SectionProfitability:  mapProfitability,
	SectionWorkingCapital: mapWorkingCapital,
	SectionRevenue:        mapRevenue,
	SectionFXTreasury:     mapFXTreasury,
	SectionTaxVAT:         mapTaxVAT,
	SectionBalanceSheet:   mapBalanceSheet,
	SectionConcentration:  mapConcentration,
}

// BuildBoardSections copies the templates and applies the board overview to
// every section it covers. A nil board returns plain copies.
func BuildBoardSections(bases []SectionConfig, board *finapi.BoardOverviewResponse) []SectionConfig {
	out := make([]SectionConfig, len(bases))
	for i, base := range bases {
		section := base.Clone()
		if board != nil {
			if mapper, ok := boardMappers[section.ID]; ok {
				section = mapper(section, board)
			}
		}
		out[i] = section
	}
	return out
}

// withValues replaces the first two KPI values, clearing stale change and
// trend fields.
func withValues(section SectionConfig, first, second string) []KPI {
	return []KPI{
		updateKPIValue(section.KPIs, 0, first),
		updateKPIValue(section.KPIs, 1, second),
	}
}

func updateKPIValue(kpis []KPI, idx int, value string) KPI {
	if idx >= len(kpis) {
		return KPI{Value: value}
	}
	kpi := kpis[idx]
	kpi.Value = value
	kpi.Change = nil
	kpi.Trend = ""
	return kpi
}

func mapLiquidity(section SectionConfig, board *finapi.BoardOverviewResponse) SectionConfig {
	l := board.Liquidity
	if l == nil {
		return section
	}
	ccy := format.FirstCurrency(board.Filters.ReportCcy)
	section.Status = boardStatusOr(l.Status, section.Status)
	section.KPIs = withValues(section,
		format.CurrencyCompact(l.Cash, ccy),
		format.Ratio(l.QuickRatio, "x"),
	)
	return section
}

func mapProfitability(section SectionConfig, board *finapi.BoardOverviewResponse) SectionConfig {
	p := board.Profitability
	if p == nil {
		return section
	}
	runRateCcy := ""
	if board.Revenue != nil && board.Revenue.RunRate != nil {
		runRateCcy = board.Revenue.RunRate.Currency
	}
	ccy := format.FirstCurrency(runRateCcy, board.Filters.ReportCcy)
	section.Status = boardStatusOr(p.Status, section.Status)
	section.KPIs = withValues(section,
		format.Percent(p.GrossMarginPct, true),
		format.CurrencyCompact(p.EBITDATTM, ccy),
	)
	return section
}

func mapWorkingCapital(section SectionConfig, board *finapi.BoardOverviewResponse) SectionConfig {
	wc := board.WorkingCapital
	if wc == nil {
		return section
	}
	ccy := format.FirstCurrency(board.Filters.ReportCcy)
	amount := wc.Amount
	if amount == nil {
		if wc.AROpen != nil && wc.APOpen != nil {
			net := *wc.AROpen - *wc.APOpen
			amount = &net
		} else {
			amount = wc.RevTTM
		}
	}
	days := wc.CCCDays
	if days == nil {
		days = wc.DSODays
	}
	section.Status = boardStatusOr(wc.Status, section.Status)
	section.KPIs = withValues(section,
		format.Days(days),
		format.CurrencyCompact(amount, ccy),
	)
	return section
}

func mapRevenue(section SectionConfig, board *finapi.BoardOverviewResponse) SectionConfig {
	r := board.Revenue
	if r == nil {
		return section
	}
	var (
		runRateCcy  string
		latestMonth *float64
		series      []finapi.RevenueYoYPoint
	)
	if r.RunRate != nil {
		runRateCcy = r.RunRate.Currency
		latestMonth = r.RunRate.LatestMonth
	}
	if r.YoY != nil {
		series = r.YoY.Series
	}
	ccy := format.FirstCurrency(runRateCcy, board.Filters.ReportCcy)

	section.Status = boardStatusOr(r.Status, section.Status)
	section.KPIs = withValues(section,
		format.CurrencyCompact(latestMonth, ccy),
		format.Percent(latestYoY(series), false),
	)
	if len(series) > 0 {
		spark := make([]float64, len(series))
		for i, point := range series {
			if point.YoYPct != nil {
				spark[i] = *point.YoYPct
			}
		}
		section.SparklineData = spark
	}
	return section
}

// latestYoY returns the most recent non-nil growth value.
func latestYoY(series []finapi.RevenueYoYPoint) *float64 {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i].YoYPct != nil {
			return series[i].YoYPct
		}
	}
	return nil
}

func mapFXTreasury(section SectionConfig, board *finapi.BoardOverviewResponse) SectionConfig {
	fx := board.FXTreasury
	if fx == nil {
		return section
	}
	ccy := format.FirstCurrency(fx.Filters.ReportCcy, board.Filters.ReportCcy)
	section.Status = boardStatusOr(fx.Status, section.Status)
	section.KPIs = withValues(section,
		format.CurrencyCompact(fx.TotalNet, ccy),
		topCurrencyShare(fx),
	)
	return section
}

// topCurrencyShare describes the largest absolute exposure as a share of the
// total, or as an amount when the total is zero or missing.
func topCurrencyShare(fx *finapi.BoardFXTreasury) string {
	if len(fx.ByCcy) == 0 {
		return ValuePlaceholder
	}
	entries := append([]finapi.FXEntry(nil), fx.ByCcy...)
	sort.SliceStable(entries, func(i, j int) bool {
		return math.Abs(entries[i].Net) > math.Abs(entries[j].Net)
	})
	top := entries[0]
	if fx.TotalNet == nil || *fx.TotalNet == 0 {
		net := top.Net
		return top.Ccy + " · " + format.CurrencyCompact(&net, top.Ccy)
	}
	share := math.Abs(top.Net) / math.Abs(*fx.TotalNet)
	return top.Ccy + " · " + format.Percent(&share, true)
}

func mapTaxVAT(section SectionConfig, board *finapi.BoardOverviewResponse) SectionConfig {
	tax := board.TaxVAT
	if tax == nil {
		return section
	}
	ccy := format.FirstCurrency(tax.Filters.ReportCcy, board.Filters.ReportCcy)
	latest := tax.Latest
	hasData := latest != nil &&
		(latest.Net != nil || latest.Input != nil || latest.Output != nil || latest.Month != "")

	if status, ok := resolveBoardStatus(tax.Status); ok && hasData {
		section.Status = status
	}
	if !hasData {
		section.HideStatus = true
	}

	var (
		net   *float64
		month string
	)
	if latest != nil {
		net = latest.Net
		month = latest.Month
	}
	section.KPIs = withValues(section,
		format.CurrencyCompact(net, ccy),
		format.MonthLabel(month),
	)
	return section
}

func mapBalanceSheet(section SectionConfig, board *finapi.BoardOverviewResponse) SectionConfig {
	bs := board.BalanceSheet
	if bs == nil {
		return section
	}
	section.Status = boardStatusOr(bs.Status, section.Status)
	section.KPIs = withValues(section,
		format.Ratio(bs.DebtToEBITDA, "x"),
		format.Ratio(bs.InterestCoverage, "x"),
	)
	return section
}
