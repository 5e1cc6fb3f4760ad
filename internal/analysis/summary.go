package analysis

import (
	"math"

	"microgrid-sim/internal/sim"
)

// Summary aggregates a full result series into run-level figures.
type Summary struct {
	Timesteps int

	TotalPVGenerationKWh float64
	TotalLoadKWh         float64
	TotalGridImportKWh   float64
	TotalGridExportKWh   float64
	NetGridKWh           float64

	MeanSelfSufficiency float64

	TotalUnmetLoadKWh float64
	UnmetTimesteps    int
	BlackoutCount     int

	// CurtailedPVKWh is generation that landed in no flow: PV surplus that
	// the full battery could not absorb while the grid was down.
	CurtailedPVKWh float64

	// BatteryCycles is the equivalent full cycles over the run,
	// sum(|ΔSOC|)/2.
	BatteryCycles float64
	FinalSOC      float64

	GridUptime float64
}

func Summarize(rows []sim.Row) Summary {
	s := Summary{Timesteps: len(rows)}
	if len(rows) == 0 {
		return s
	}

	selfSum := 0.0
	stable := 0
	for _, r := range rows {
		s.TotalPVGenerationKWh += r.PVGenerationKWh
		s.TotalLoadKWh += r.LoadKWh
		s.TotalGridImportKWh += r.GridImportKWh
		s.TotalGridExportKWh += r.GridExportKWh
		s.TotalUnmetLoadKWh += r.UnmetLoadKWh
		if r.UnmetLoadKWh > 0 {
			s.UnmetTimesteps++
		}
		s.CurtailedPVKWh += r.PVGenerationKWh - r.PVToLoadKWh - r.PVToBatteryKWh - r.PVToGridKWh
		s.BatteryCycles += math.Abs(r.BatterySOC-r.SOCStart) / 2
		selfSum += r.SelfSufficiency
		if r.GridStable {
			stable++
		}
	}
	s.NetGridKWh = s.TotalGridImportKWh - s.TotalGridExportKWh
	s.MeanSelfSufficiency = selfSum / float64(len(rows))
	s.BlackoutCount = len(ExtractBlackouts(rows))
	s.FinalSOC = rows[len(rows)-1].BatterySOC
	s.GridUptime = float64(stable) / float64(len(rows))
	return s
}
