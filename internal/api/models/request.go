package models

// SimulateRequest represents the request body for running a simulation.
// Exactly one of Input or Sample supplies the timestep series.
type SimulateRequest struct {
	Input   *InputSeries    `json:"input,omitempty"`
	Sample  *SampleSpec     `json:"sample,omitempty"`
	Config  SimConfig       `json:"config" binding:"required"`
	Options SimulateOptions `json:"options,omitempty"`
}

// InputSeries carries the three aligned input columns inline.
type InputSeries struct {
	IrradianceWm2 []float64 `json:"irradiance_w_m2" binding:"required"`
	LoadKW        []float64 `json:"load_kw" binding:"required"`
	GridStable    []bool    `json:"grid_stable" binding:"required"`
}

// SampleSpec asks the server to generate a synthetic series instead.
type SampleSpec struct {
	Days            int   `json:"days"`
	Seed            int64 `json:"seed"`
	SeasonalOutages bool  `json:"seasonal_outages,omitempty"`
}

// SimConfig contains system, reserve and run configuration.
type SimConfig struct {
	SystemFile string        `json:"system_file,omitempty"`
	System     SystemConfig  `json:"system,omitempty"`
	Reserve    ReserveConfig `json:"reserve,omitempty"`
	Run        RunConfig     `json:"run,omitempty"`
}

// SystemConfig defines the plant parameters.
type SystemConfig struct {
	Name                     string  `json:"name,omitempty"`
	PVPeakKW                 float64 `json:"pv_peak_kw"`
	BatteryCapacityKWh       float64 `json:"battery_capacity_kwh"`
	BatteryEfficiency        float64 `json:"battery_efficiency,omitempty"`
	BatterySelfDischargeRate float64 `json:"battery_self_discharge_rate,omitempty"`
	InitialSOC               float64 `json:"initial_soc,omitempty"`
}

// ReserveConfig defines the reserve policy and its parameters.
type ReserveConfig struct {
	Name   string                 `json:"name,omitempty"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// RunConfig defines run-level parameters.
type RunConfig struct {
	TimestepHours float64 `json:"timestep_hours,omitempty"`
	StartDate     string  `json:"start_date,omitempty"` // YYYY-MM-DD
}

// SimulateOptions contains optional simulation parameters.
type SimulateOptions struct {
	LimitTimesteps int  `json:"limit_timesteps,omitempty"` // 0 = all
	IncludeRows    bool `json:"include_rows,omitempty"`    // default: false
}

// CompareRequest represents a request to compare sizing variants over the
// same input series.
type CompareRequest struct {
	Input      *InputSeries  `json:"input,omitempty"`
	Sample     *SampleSpec   `json:"sample,omitempty"`
	BaseConfig SimConfig     `json:"base_config" binding:"required"`
	Variants   []VariantSpec `json:"variants" binding:"required"`
}

// VariantSpec defines one sizing variation to test.
type VariantSpec struct {
	Name               string  `json:"name" binding:"required"`
	PVPeakKW           float64 `json:"pv_peak_kw,omitempty"`
	BatteryCapacityKWh float64 `json:"battery_capacity_kwh,omitempty"`
}
