package models

import "time"

// SimulateResponse represents the response from a simulation run.
type SimulateResponse struct {
	Status    string          `json:"status"`
	Summary   RunSummary      `json:"summary"`
	Blackouts []BlackoutEvent `json:"blackouts"`
	Rows      []ResultRow     `json:"rows,omitempty"`
}

// RunSummary contains aggregated simulation results.
type RunSummary struct {
	Timesteps int        `json:"timesteps"`
	Window    TimeWindow `json:"window"`

	TotalPVGenerationKWh float64 `json:"total_pv_generation_kwh"`
	TotalLoadKWh         float64 `json:"total_load_kwh"`
	TotalGridImportKWh   float64 `json:"total_grid_import_kwh"`
	TotalGridExportKWh   float64 `json:"total_grid_export_kwh"`
	NetGridKWh           float64 `json:"net_grid_kwh"`

	MeanSelfSufficiency float64 `json:"mean_self_sufficiency"`

	TotalUnmetLoadKWh float64 `json:"total_unmet_load_kwh"`
	UnmetTimesteps    int     `json:"unmet_timesteps"`
	BlackoutCount     int     `json:"blackout_count"`

	CurtailedPVKWh float64 `json:"curtailed_pv_kwh"`

	BatteryCycles float64 `json:"battery_cycles"`
	FinalSOC      float64 `json:"final_soc"`
	GridUptime    float64 `json:"grid_uptime"`
}

// TimeWindow represents a time range.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BlackoutEvent represents one contiguous run of unmet load.
type BlackoutEvent struct {
	StartIndex        int       `json:"start_index"`
	EndIndex          int       `json:"end_index"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	DurationTimesteps int       `json:"duration_timesteps"`
	UnservedKWh       float64   `json:"unserved_kwh"`
	MinSOC            float64   `json:"min_soc"`
	AvgSOC            float64   `json:"avg_soc"`
	GridDownFraction  float64   `json:"grid_down_fraction"`
}

// ResultRow represents one timestep in the simulation ledger.
type ResultRow struct {
	Index int       `json:"index"`
	Time  time.Time `json:"time"`
	Month int       `json:"month"`

	GridStable bool `json:"grid_stable"`

	PVGenerationKWh float64 `json:"pv_generation_kwh"`
	LoadKWh         float64 `json:"load_kwh"`

	PVToLoadKWh      float64 `json:"pv_to_load_kwh"`
	PVToBatteryKWh   float64 `json:"pv_to_battery_kwh"`
	PVToGridKWh      float64 `json:"pv_to_grid_kwh"`
	BatteryToLoadKWh float64 `json:"battery_to_load_kwh"`
	GridToLoadKWh    float64 `json:"grid_to_load_kwh"`
	BatteryToGridKWh float64 `json:"battery_to_grid_kwh"`

	GridImportKWh   float64 `json:"grid_import_kwh"`
	GridExportKWh   float64 `json:"grid_export_kwh"`
	NetGridKWh      float64 `json:"net_grid_kwh"`
	SelfSufficiency float64 `json:"self_sufficiency"`
	UnmetLoadKWh    float64 `json:"unmet_load_kwh"`

	ReserveMinSOC float64 `json:"reserve_min_soc"`

	Action string `json:"action"` // "CHARGING", "DISCHARGING", "IDLE"

	SOCStart         float64 `json:"soc_start"`
	BatterySOC       float64 `json:"battery_soc"`
	BatteryEnergyKWh float64 `json:"battery_energy_kwh"`
}

// CompareResponse represents the response from a sizing comparison.
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variant.
type ComparisonResult struct {
	Name               string     `json:"name"`
	PVPeakKW           float64    `json:"pv_peak_kw"`
	BatteryCapacityKWh float64    `json:"battery_capacity_kwh"`
	Summary            RunSummary `json:"summary"`
}

// SystemInfo represents information about a system preset.
type SystemInfo struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	File  string      `json:"file"`
	Specs SystemSpecs `json:"specs"`
}

// SystemSpecs contains the headline sizing of a preset.
type SystemSpecs struct {
	PVPeakKW           float64 `json:"pv_peak_kw"`
	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`
}

// PolicyInfo represents information about a reserve policy.
type PolicyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a policy parameter.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "string", "list"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
