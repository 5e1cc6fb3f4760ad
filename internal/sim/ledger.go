package sim

import (
	"time"

	"microgrid-sim/internal/model"
)

// Row is one timestep of output. This is the primary artifact for "what
// happened" in a simulation: every energy flow for the step plus the battery
// state it left behind.
type Row struct {
	Index int

	Time  time.Time
	Month time.Month

	GridStable bool

	PVGenerationKWh float64
	LoadKWh         float64

	// The five active flows of the merit order, plus battery->grid, which is
	// always zero under the current policy set but kept as a named column.
	PVToLoadKWh      float64
	PVToBatteryKWh   float64
	PVToGridKWh      float64
	BatteryToLoadKWh float64
	GridToLoadKWh    float64
	BatteryToGridKWh float64

	GridImportKWh   float64
	GridExportKWh   float64
	NetGridKWh      float64
	SelfSufficiency float64
	UnmetLoadKWh    float64

	ReserveMinSOC float64

	Action model.Action

	SOCStart         float64
	BatterySOC       float64
	BatteryEnergyKWh float64
}

type Result struct {
	Rows     []Row
	FinalSOC float64
}
