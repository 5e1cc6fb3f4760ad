package analysis

import (
	"fmt"

	"microgrid-sim/internal/model"
	"microgrid-sim/internal/reserve"
	"microgrid-sim/internal/sim"
)

// Variant is one PV/battery sizing to evaluate against a shared input
// series. Zero fields fall back to the base sizing.
type Variant struct {
	Name               string
	PVPeakKW           float64
	BatteryCapacityKWh float64
}

// CompareParams holds everything shared across variants. The policy may be
// shared because policies are stateless; each variant gets its own battery.
type CompareParams struct {
	Base Variant

	Efficiency        float64
	SelfDischargeRate float64
	InitialSOC        float64

	Policy reserve.Policy
	Run    sim.RunParams
}

// ComparisonRow is the outcome of one variant.
type ComparisonRow struct {
	Variant Variant
	Summary Summary
}

// CompareSizings replays the same timestep series across each sizing
// variant. Variants are independent runs with zero shared state, executed
// in order so the output lines up with the input slice.
func CompareSizings(steps []model.Timestep, variants []Variant, params CompareParams) ([]ComparisonRow, error) {
	engine := sim.New()
	out := make([]ComparisonRow, 0, len(variants))

	for _, v := range variants {
		merged := v
		if merged.PVPeakKW == 0 {
			merged.PVPeakKW = params.Base.PVPeakKW
		}
		if merged.BatteryCapacityKWh == 0 {
			merged.BatteryCapacityKWh = params.Base.BatteryCapacityKWh
		}

		pv, err := model.NewPVArray(merged.PVPeakKW)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Name, err)
		}
		batt, err := model.NewBattery(model.BatteryParams{
			CapacityKWh:       merged.BatteryCapacityKWh,
			Efficiency:        params.Efficiency,
			SelfDischargeRate: params.SelfDischargeRate,
		}, params.InitialSOC)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Name, err)
		}

		res, err := engine.Run(steps, pv, batt, params.Policy, params.Run)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", v.Name, err)
		}

		out = append(out, ComparisonRow{
			Variant: merged,
			Summary: Summarize(res.Rows),
		})
	}

	return out, nil
}
