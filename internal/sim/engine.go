package sim

import (
	"errors"
	"fmt"
	"time"

	"microgrid-sim/internal/model"
	"microgrid-sim/internal/reserve"
)

// ErrInvalidInput marks bad input series handed to the engine. Wrapped
// errors name the offending row.
var ErrInvalidInput = errors.New("invalid input")

// RunParams are the per-run knobs that are not part of the plant itself.
type RunParams struct {
	// TimestepHours scales each input row to energy. 1.0 means hourly rows.
	TimestepHours float64
	// StartDate anchors row 0 in calendar time; it drives the month seen by
	// the reserve policy. The run never consults the wall clock.
	StartDate time.Time
}

type Engine struct{}

func New() *Engine { return &Engine{} }

// Run executes a simulation over an ordered timestep series.
//
// Each step routes energy in a fixed merit order: PV feeds load first, PV
// surplus charges the battery, the battery covers remaining load down to the
// policy's reserve floor, the grid covers the rest if it is up, and leftover
// PV is exported if the grid is up (curtailed otherwise). Self-discharge is
// applied once per step regardless of dispatch outcome.
//
// The battery is the only cross-step state; it must be exclusively owned by
// this run. Output row i corresponds to input row i.
func (e *Engine) Run(steps []model.Timestep, pv model.PVArray, batt *model.Battery, pol reserve.Policy, params RunParams) (*Result, error) {
	if batt == nil {
		return nil, fmt.Errorf("battery is nil")
	}
	if pol == nil {
		return nil, fmt.Errorf("reserve policy is nil")
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no timesteps", ErrInvalidInput)
	}
	if params.TimestepHours <= 0 {
		return nil, fmt.Errorf("%w: TimestepHours must be > 0", model.ErrInvalidConfig)
	}
	if params.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: StartDate is required", model.ErrInvalidConfig)
	}
	// Whole-series validation up front: a bad row aborts the run before any
	// state has been touched, so there are never partial results.
	for i, st := range steps {
		if st.IrradianceWm2 < 0 {
			return nil, fmt.Errorf("%w: row %d: negative irradiance %g", ErrInvalidInput, i, st.IrradianceWm2)
		}
		if st.LoadKW < 0 {
			return nil, fmt.Errorf("%w: row %d: negative load %g", ErrInvalidInput, i, st.LoadKW)
		}
	}

	dtH := params.TimestepHours
	stepDur := time.Duration(dtH * float64(time.Hour))

	rows := make([]Row, 0, len(steps))
	for idx, st := range steps {
		at := params.StartDate.Add(time.Duration(idx) * stepDur)
		minSOC := pol.MinSOC(reserve.Context{
			Index:      idx,
			Month:      at.Month(),
			GridStable: st.GridStable,
		})

		socStart := batt.SOC()
		f := dispatchStep(batt, pv.GeneratePowerKW(st.IrradianceWm2)*dtH, st.LoadKW*dtH, st.GridStable, minSOC*batt.Params.CapacityKWh)
		batt.ApplySelfDischarge(dtH)

		gridImport := f.gridToLoad
		gridExport := f.pvToGrid + f.batteryToGrid
		selfSufficiency := 1.0
		if f.loadEnergy > 0 {
			selfSufficiency = (f.pvToLoad + f.batteryToLoad) / f.loadEnergy
		}

		rows = append(rows, Row{
			Index: idx,

			Time:  at,
			Month: at.Month(),

			GridStable: st.GridStable,

			PVGenerationKWh: f.pvGeneration,
			LoadKWh:         f.loadEnergy,

			PVToLoadKWh:      f.pvToLoad,
			PVToBatteryKWh:   f.pvToBattery,
			PVToGridKWh:      f.pvToGrid,
			BatteryToLoadKWh: f.batteryToLoad,
			GridToLoadKWh:    f.gridToLoad,
			BatteryToGridKWh: f.batteryToGrid,

			GridImportKWh:   gridImport,
			GridExportKWh:   gridExport,
			NetGridKWh:      gridImport - gridExport,
			SelfSufficiency: selfSufficiency,
			UnmetLoadKWh:    f.unmetLoad,

			ReserveMinSOC: minSOC,

			Action: model.ActionFromFlows(f.pvToBattery, f.batteryToLoad),

			SOCStart:         socStart,
			BatterySOC:       batt.SOC(),
			BatteryEnergyKWh: batt.State.EnergyKWh,
		})
	}

	return &Result{
		Rows:     rows,
		FinalSOC: batt.SOC(),
	}, nil
}

// flows holds the per-step energy accounting, all in kWh.
type flows struct {
	pvGeneration float64
	loadEnergy   float64

	pvToLoad      float64
	pvToBattery   float64
	pvToGrid      float64
	batteryToLoad float64
	gridToLoad    float64
	batteryToGrid float64

	unmetLoad float64
}

// dispatchStep runs the five-step merit order for one timestep, mutating the
// battery. minEnergyKWh is the reserve floor: load discharge stops exactly
// there, never below.
func dispatchStep(batt *model.Battery, pvEnergy, loadEnergy float64, gridStable bool, minEnergyKWh float64) flows {
	f := flows{
		pvGeneration: pvEnergy,
		loadEnergy:   loadEnergy,
	}

	// 1. PV feeds load first.
	f.pvToLoad = pvEnergy
	if f.pvToLoad > loadEnergy {
		f.pvToLoad = loadEnergy
	}
	remainingLoad := loadEnergy - f.pvToLoad
	remainingPV := pvEnergy - f.pvToLoad

	// 2. PV surplus charges the battery. The flow is source-side: what the
	// surplus gave up, not what landed in the store.
	if remainingPV > 0 {
		f.pvToBattery = batt.Charge(remainingPV)
		remainingPV -= f.pvToBattery
	}

	// 3. Battery covers remaining load, but only down to the reserve floor.
	if remainingLoad > 0 {
		availableAboveReserve := batt.State.EnergyKWh - minEnergyKWh
		if availableAboveReserve < 0 {
			availableAboveReserve = 0
		}
		maxDeliverable := availableAboveReserve * batt.Params.Efficiency
		request := remainingLoad
		if request > maxDeliverable {
			// Delivering exactly maxDeliverable drains the store by
			// maxDeliverable/efficiency, landing precisely on the floor.
			request = maxDeliverable
		}
		f.batteryToLoad = batt.Discharge(request)
		remainingLoad -= f.batteryToLoad
	}

	// 4. Grid covers the rest, if it is up. Otherwise the residual is the
	// blackout signal.
	if remainingLoad > 0 && gridStable {
		f.gridToLoad = remainingLoad
		remainingLoad = 0
	}

	// 5. Leftover PV is exported if the grid is up; curtailed otherwise.
	if remainingPV > 0 && gridStable {
		f.pvToGrid = remainingPV
		remainingPV = 0
	}

	f.unmetLoad = remainingLoad
	return f
}
