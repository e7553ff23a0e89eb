package dashboard

import (
	"fmt"
	"math"

	"github.com/odyssey-erp/execboard/internal/finapi"
	"github.com/odyssey-erp/execboard/internal/format"
)

// Share is a concentration share. FromFraction is set when Value is a
// fraction in [0,1] rather than a precomputed percentage.
type Share struct {
	Value        *float64
	FromFraction bool
}

// shareKeys lists the aggregate field names probed before summing entries.
func shareKeys(count int) []string {
	return []string{
		fmt.Sprintf("share_top%d_pct", count),
		fmt.Sprintf("top%d_share_pct", count),
		"share_top_pct",
		"top_share_pct",
		"share_top1_pct",
		"top1_share_pct",
	}
}

// ConcentrationShare resolves the top-N share of a group: a precomputed
// aggregate when one matches, otherwise the sum of share_pct over the first
// count entries clamped to [0,1].
func ConcentrationShare(group *finapi.ConcentrationGroup, count int) Share {
	if group == nil {
		return Share{}
	}
	if count < 1 {
		count = 1
	}
	for _, key := range shareKeys(count) {
		if v, ok := group.Aggregates[key]; ok {
			value := v
			return Share{Value: &value}
		}
	}
	if len(group.Top) == 0 {
		return Share{FromFraction: true}
	}
	sum := 0.0
	for i, entry := range group.Top {
		if i >= count {
			break
		}
		if entry.SharePct != nil {
			sum += *entry.SharePct
		}
	}
	clamped := clampShare(sum)
	return Share{Value: &clamped, FromFraction: true}
}

func clampShare(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Min(1, math.Max(0, v))
}

// resolveTopCount prefers the requested top_n, then the number of entries.
func resolveTopCount(requested, entries int) int {
	if requested > 0 {
		return requested
	}
	if entries > 0 {
		return entries
	}
	return 1
}

func topCountLabel(fallback string, count int, plural, singular string) string {
	if count <= 1 {
		if fallback != "" {
			return fallback
		}
		return "Top " + singular
	}
	return fmt.Sprintf("Top %d %s", count, plural)
}

func concentrationKPI(kpis []KPI, idx int, group *finapi.ConcentrationGroup, plural, singular string) KPI {
	requested, entries := 0, 0
	if group != nil {
		requested = group.Filters.TopN
		entries = len(group.Top)
	}
	count := resolveTopCount(requested, entries)
	share := ConcentrationShare(group, count)

	kpi := updateKPIValue(kpis, idx, format.Percent(share.Value, share.FromFraction))
	kpi.Label = topCountLabel(kpi.Label, count, plural, singular)
	return kpi
}

func mapConcentration(section SectionConfig, board *finapi.BoardOverviewResponse) SectionConfig {
	c := board.Concentration
	if c == nil {
		return section
	}
	section.Status = boardStatusOr(c.Status, section.Status)
	section.KPIs = []KPI{
		concentrationKPI(section.KPIs, 0, c.Customers, "Customers", "Customer"),
		concentrationKPI(section.KPIs, 1, c.Suppliers, "Suppliers", "Supplier"),
	}
	return section
}
