package model

// Timestep is one input row to the dispatch engine: the irradiance and load
// observed over the step, and whether the grid connection was up.
//
// Rows are hourly by convention; the engine's timestep-hours multiplier
// scales energies for other resolutions.
type Timestep struct {
	IrradianceWm2 float64
	LoadKW        float64
	GridStable    bool
}
