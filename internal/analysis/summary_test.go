package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"microgrid-sim/internal/sim"
)

func TestSummarizeEmptySeries(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Timesteps)
	assert.Zero(t, s.TotalLoadKWh)
	assert.Zero(t, s.BlackoutCount)
}

func TestSummarizeTotals(t *testing.T) {
	rows := []sim.Row{
		{
			PVGenerationKWh: 100, LoadKWh: 60,
			PVToLoadKWh: 60, PVToBatteryKWh: 30, PVToGridKWh: 10,
			GridExportKWh:   10,
			SelfSufficiency: 1.0,
			GridStable:      true,
			SOCStart:        0.50, BatterySOC: 0.65,
		},
		{
			PVGenerationKWh: 0, LoadKWh: 50,
			BatteryToLoadKWh: 30, GridToLoadKWh: 20,
			GridImportKWh:   20,
			SelfSufficiency: 0.6,
			GridStable:      true,
			SOCStart:        0.65, BatterySOC: 0.50,
		},
		{
			PVGenerationKWh: 80, LoadKWh: 40,
			PVToLoadKWh: 40, PVToBatteryKWh: 20,
			// 20 kWh of surplus landed nowhere: grid down, battery full.
			UnmetLoadKWh:    0,
			SelfSufficiency: 1.0,
			GridStable:      false,
			SOCStart:        0.50, BatterySOC: 0.60,
		},
		{
			PVGenerationKWh: 0, LoadKWh: 30,
			BatteryToLoadKWh: 10, UnmetLoadKWh: 20,
			SelfSufficiency: 1.0 / 3.0,
			GridStable:      false,
			SOCStart:        0.60, BatterySOC: 0.55,
		},
	}

	s := Summarize(rows)

	assert.Equal(t, 4, s.Timesteps)
	assert.InDelta(t, 180, s.TotalPVGenerationKWh, 1e-9)
	assert.InDelta(t, 180, s.TotalLoadKWh, 1e-9)
	assert.InDelta(t, 20, s.TotalGridImportKWh, 1e-9)
	assert.InDelta(t, 10, s.TotalGridExportKWh, 1e-9)
	assert.InDelta(t, 10, s.NetGridKWh, 1e-9)

	assert.InDelta(t, (1.0+0.6+1.0+1.0/3.0)/4, s.MeanSelfSufficiency, 1e-9)

	assert.InDelta(t, 20, s.TotalUnmetLoadKWh, 1e-9)
	assert.Equal(t, 1, s.UnmetTimesteps)
	assert.Equal(t, 1, s.BlackoutCount)

	assert.InDelta(t, 20, s.CurtailedPVKWh, 1e-9)

	// sum(|dSOC|)/2 = (0.15 + 0.15 + 0.10 + 0.05)/2
	assert.InDelta(t, 0.225, s.BatteryCycles, 1e-9)
	assert.InDelta(t, 0.55, s.FinalSOC, 1e-9)

	assert.InDelta(t, 0.5, s.GridUptime, 1e-9)
}
