package assets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScheduleLinePredicates(t *testing.T) {
	line := ScheduleLine{ScheduleDate: day(2026, time.March, 31)}
	require.False(t, line.Posted())
	require.True(t, line.Due(day(2026, time.March, 31)))
	require.True(t, line.Due(day(2026, time.April, 1)))
	require.False(t, line.Due(day(2026, time.March, 30)))

	id := int64(9)
	line.JournalEntryID = &id
	require.True(t, line.Posted())
}

func TestAccumulatedDepreciation(t *testing.T) {
	a := Asset{GrossPurchaseAmount: 1000, CurrentValue: 400}
	require.InDelta(t, 600, a.AccumulatedDepreciation(), 0.001)
}

func TestRecomputeStatus(t *testing.T) {
	posted := int64(1)
	unposted := ScheduleLine{Amount: 100}
	postedLine := ScheduleLine{Amount: 100, JournalEntryID: &posted}

	cases := []struct {
		name  string
		asset Asset
		want  AssetStatus
	}{
		{
			name:  "draft wins over everything",
			asset: Asset{DocStatus: DocStatusDraft, CurrentValue: 0, Schedules: []ScheduleLine{postedLine}},
			want:  StatusDraft,
		},
		{
			name:  "cancelled docstatus",
			asset: Asset{DocStatus: DocStatusCancelled},
			want:  StatusCancelled,
		},
		{
			name:  "sold is sticky",
			asset: Asset{DocStatus: DocStatusSubmitted, Status: StatusSold, CurrentValue: 0},
			want:  StatusSold,
		},
		{
			name:  "scrap reference",
			asset: Asset{DocStatus: DocStatusSubmitted, ScrapEntryID: &posted, CurrentValue: 500, Schedules: []ScheduleLine{postedLine}},
			want:  StatusScrapped,
		},
		{
			name:  "no schedule stays submitted",
			asset: Asset{DocStatus: DocStatusSubmitted, CurrentValue: 1000},
			want:  StatusSubmitted,
		},
		{
			name:  "book value exhausted",
			asset: Asset{DocStatus: DocStatusSubmitted, CurrentValue: 0, Schedules: []ScheduleLine{postedLine}},
			want:  StatusFullyDepreciated,
		},
		{
			name:  "some lines posted",
			asset: Asset{DocStatus: DocStatusSubmitted, CurrentValue: 500, Schedules: []ScheduleLine{postedLine, unposted}},
			want:  StatusPartiallyDepreciated,
		},
		{
			name:  "nothing posted yet",
			asset: Asset{DocStatus: DocStatusSubmitted, CurrentValue: 1000, Schedules: []ScheduleLine{unposted}},
			want:  StatusSubmitted,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.asset.RecomputeStatus())
		})
	}
}
