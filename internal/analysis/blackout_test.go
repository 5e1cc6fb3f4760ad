package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgrid-sim/internal/sim"
)

func makeRows(n int) []sim.Row {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]sim.Row, n)
	for i := range rows {
		rows[i] = sim.Row{
			Index:      i,
			Time:       start.Add(time.Duration(i) * time.Hour),
			GridStable: true,
			BatterySOC: 0.5,
		}
	}
	return rows
}

func TestExtractBlackoutsFindsContiguousRuns(t *testing.T) {
	rows := makeRows(25)
	for _, i := range []int{5, 6, 7, 20} {
		rows[i].UnmetLoadKWh = 10
		rows[i].GridStable = false
	}
	rows[5].BatterySOC = 0.10
	rows[6].BatterySOC = 0.05
	rows[7].BatterySOC = 0.03

	events := ExtractBlackouts(rows)
	require.Len(t, events, 2)

	first := events[0]
	assert.Equal(t, 5, first.StartIndex)
	assert.Equal(t, 7, first.EndIndex)
	assert.Equal(t, 3, first.DurationTimesteps)
	assert.InDelta(t, 30, first.UnservedKWh, 1e-9)
	assert.Equal(t, rows[5].Time, first.StartTime)
	assert.Equal(t, rows[7].Time, first.EndTime)
	assert.InDelta(t, 0.03, first.MinSOC, 1e-9)
	assert.InDelta(t, (0.10+0.05+0.03)/3, first.AvgSOC, 1e-9)
	assert.InDelta(t, 1.0, first.GridDownFraction, 1e-9)

	second := events[1]
	assert.Equal(t, 20, second.StartIndex)
	assert.Equal(t, 20, second.EndIndex)
	assert.Equal(t, 1, second.DurationTimesteps)
	assert.InDelta(t, 10, second.UnservedKWh, 1e-9)
}

func TestExtractBlackoutsClosesRunAtSeriesEnd(t *testing.T) {
	rows := makeRows(10)
	rows[8].UnmetLoadKWh = 5
	rows[9].UnmetLoadKWh = 5

	events := ExtractBlackouts(rows)
	require.Len(t, events, 1)
	assert.Equal(t, 8, events[0].StartIndex)
	assert.Equal(t, 9, events[0].EndIndex)
	assert.Equal(t, 2, events[0].DurationTimesteps)
}

func TestExtractBlackoutsNoUnmetLoad(t *testing.T) {
	assert.Empty(t, ExtractBlackouts(makeRows(10)))
	assert.Empty(t, ExtractBlackouts(nil))
}
