package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/execboard/internal/finapi"
)

func decodeGroup(t *testing.T, raw string) *finapi.ConcentrationGroup {
	t.Helper()
	var group finapi.ConcentrationGroup
	require.NoError(t, json.Unmarshal([]byte(raw), &group))
	return &group
}

func TestConcentrationShareSumsTopEntries(t *testing.T) {
	group := decodeGroup(t, `{"top":[{"share_pct":0.3},{"share_pct":0.2},{"share_pct":0.1}],"total":100}`)

	share := ConcentrationShare(group, 2)
	require.True(t, share.FromFraction)
	require.NotNil(t, share.Value)
	require.InDelta(t, 0.5, *share.Value, 1e-9)
}

func TestConcentrationShareClamps(t *testing.T) {
	group := decodeGroup(t, `{"top":[{"share_pct":0.8},{"share_pct":0.7}]}`)
	share := ConcentrationShare(group, 2)
	require.InDelta(t, 1.0, *share.Value, 1e-9)

	negative := decodeGroup(t, `{"top":[{"share_pct":-0.4}]}`)
	share = ConcentrationShare(negative, 1)
	require.Zero(t, *share.Value)
}

func TestConcentrationSharePrefersAggregates(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		count int
		want  float64
	}{
		{"share_topN_pct", `{"share_top3_pct":61.5,"top_share_pct":10,"top":[{"share_pct":0.1}]}`, 3, 61.5},
		{"topN_share_pct", `{"top3_share_pct":44,"top":[{"share_pct":0.1}]}`, 3, 44},
		{"generic", `{"top_share_pct":12,"top":[{"share_pct":0.1}]}`, 4, 12},
		{"top1", `{"top1_share_pct":9,"top":[]}`, 2, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			share := ConcentrationShare(decodeGroup(t, tc.raw), tc.count)
			require.False(t, share.FromFraction)
			require.InDelta(t, tc.want, *share.Value, 1e-9)
		})
	}
}

func TestConcentrationShareEmpty(t *testing.T) {
	share := ConcentrationShare(nil, 3)
	require.Nil(t, share.Value)

	share = ConcentrationShare(decodeGroup(t, `{"top":[]}`), 3)
	require.Nil(t, share.Value)
	require.True(t, share.FromFraction)
}

func TestConcentrationGroupRoundTripKeepsAggregates(t *testing.T) {
	group := decodeGroup(t, `{"share_top5_pct":58,"top":[{"share_pct":0.3}],"total":10}`)
	raw, err := json.Marshal(group)
	require.NoError(t, err)

	again := decodeGroup(t, string(raw))
	require.Equal(t, group.Aggregates, again.Aggregates)
	require.InDelta(t, 58, again.Aggregates["share_top5_pct"], 1e-9)
}

func TestResolveTopCount(t *testing.T) {
	require.Equal(t, 5, resolveTopCount(5, 2))
	require.Equal(t, 2, resolveTopCount(0, 2))
	require.Equal(t, 1, resolveTopCount(0, 0))
}

func TestConcentrationLabels(t *testing.T) {
	board := decodeBoard(t, `{"concentration":{
		"customers":{"top":[{"share_pct":0.25},{"share_pct":0.15},{"share_pct":0.05}],"filters":{"top_n":2}},
		"suppliers":{"top":[{"share_pct":0.4}],"share_top1_pct":40}
	}}`)
	conc := sectionByID(t, BuildBoardSections(BaseSections(), board), SectionConcentration)

	require.Equal(t, "Top 2 Customers", conc.KPIs[0].Label)
	require.Equal(t, "40%", conc.KPIs[0].Value)
	require.Equal(t, "Top Supplier", conc.KPIs[1].Label)
	require.Equal(t, "40%", conc.KPIs[1].Value)
	require.Equal(t, StatusCritical, conc.Status)
}
