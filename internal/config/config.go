package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"microgrid-sim/internal/model"
	"microgrid-sim/internal/reserve"
	"microgrid-sim/internal/sim"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load system parameters from a separate YAML (e.g.
	// examples/systems/*.yaml). If both SystemFile and System are provided,
	// System overrides SystemFile.
	SystemFile string        `yaml:"system_file"`
	System     SystemConfig  `yaml:"system"`
	Reserve    ReserveConfig `yaml:"reserve"`
	Run        RunConfig     `yaml:"run"`
}

type SystemConfig struct {
	Name                     string  `yaml:"name"`
	PVPeakKW                 float64 `yaml:"pv_peak_kw"`
	BatteryCapacityKWh       float64 `yaml:"battery_capacity_kwh"`
	BatteryEfficiency        float64 `yaml:"battery_efficiency"`
	BatterySelfDischargeRate float64 `yaml:"battery_self_discharge_rate"`
	InitialSOC               float64 `yaml:"initial_soc"`
}

type ReserveConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

type RunConfig struct {
	TimestepHours float64 `yaml:"timestep_hours"`
	StartDate     string  `yaml:"start_date"` // YYYY-MM-DD
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not default or validate
// it. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	// If system_file is set, load it and merge in any explicit overrides
	// from c.System.
	if c.SystemFile != "" {
		systemPath := c.SystemFile
		if !filepath.IsAbs(systemPath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, but fall back to the provided path (relative
			// to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), systemPath)
			if _, err := os.Stat(cand); err == nil {
				systemPath = cand
			}
		}
		loaded, err := loadSystemFile(systemPath)
		if err != nil {
			return nil, err
		}
		c.System = MergeSystem(loaded, c.System)
	}
	return &c, nil
}

// ApplyDefaults fills the optional knobs. Note: zero is a legitimate
// self-discharge rate in theory, but our configs either omit the field or
// use non-zero values, so zero means "defaulted" here.
func (c *Config) ApplyDefaults() {
	if c.System.BatteryEfficiency == 0 {
		c.System.BatteryEfficiency = 0.95
	}
	if c.System.BatterySelfDischargeRate == 0 {
		c.System.BatterySelfDischargeRate = 0.0001
	}
	if c.System.InitialSOC == 0 {
		c.System.InitialSOC = 0.5
	}
	if c.Reserve.Name == "" {
		c.Reserve.Name = "none"
	}
	if c.Run.TimestepHours == 0 {
		c.Run.TimestepHours = 1.0
	}
	if c.Run.StartDate == "" {
		c.Run.StartDate = "2024-01-01"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	// Validate system params by constructing the models.
	if _, err := model.NewPVArray(c.System.PVPeakKW); err != nil {
		return fmt.Errorf("system config invalid: %w", err)
	}
	if _, err := c.System.NewBattery(); err != nil {
		return fmt.Errorf("system config invalid: %w", err)
	}
	if _, err := BuildPolicy(c.Reserve); err != nil {
		return fmt.Errorf("reserve config invalid: %w", err)
	}
	if _, err := c.Run.ToRunParams(); err != nil {
		return fmt.Errorf("run config invalid: %w", err)
	}
	return nil
}

func (s SystemConfig) ToBatteryParams() model.BatteryParams {
	return model.BatteryParams{
		CapacityKWh:       s.BatteryCapacityKWh,
		Efficiency:        s.BatteryEfficiency,
		SelfDischargeRate: s.BatterySelfDischargeRate,
	}
}

func (s SystemConfig) NewBattery() (*model.Battery, error) {
	return model.NewBattery(s.ToBatteryParams(), s.InitialSOC)
}

func (r RunConfig) ToRunParams() (sim.RunParams, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return sim.RunParams{}, fmt.Errorf("start_date %q: expected YYYY-MM-DD", r.StartDate)
	}
	if r.TimestepHours <= 0 {
		return sim.RunParams{}, fmt.Errorf("timestep_hours must be > 0")
	}
	return sim.RunParams{
		TimestepHours: r.TimestepHours,
		StartDate:     start,
	}, nil
}

// BuildPolicy constructs the named reserve policy from its loose params.
func BuildPolicy(r ReserveConfig) (reserve.Policy, error) {
	switch r.Name {
	case "", "none":
		return reserve.NonePolicy{}, nil
	case "seasonal":
		months, err := monthsParam(r.Params, "winter_months")
		if err != nil {
			return nil, err
		}
		return reserve.NewSeasonalPolicy(reserve.SeasonalParams{
			WinterMonths: months,
			WinterMinSOC: numParam(r.Params, "winter_min_soc", 0),
			OutageMinSOC: numParam(r.Params, "outage_min_soc", 0),
		})
	default:
		return nil, fmt.Errorf("unsupported reserve policy: %q", r.Name)
	}
}

type systemFileWrapper struct {
	System SystemConfig `yaml:"system"`
}

func loadSystemFile(path string) (SystemConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SystemConfig{}, err
	}
	var w systemFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return SystemConfig{}, err
	}
	return w.System, nil
}

// MergeSystem overlays non-zero fields from override onto base. This is used
// when loading a system preset and then applying overrides from the config
// or request.
func MergeSystem(base, override SystemConfig) SystemConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.PVPeakKW != 0 {
		out.PVPeakKW = override.PVPeakKW
	}
	if override.BatteryCapacityKWh != 0 {
		out.BatteryCapacityKWh = override.BatteryCapacityKWh
	}
	if override.BatteryEfficiency != 0 {
		out.BatteryEfficiency = override.BatteryEfficiency
	}
	if override.BatterySelfDischargeRate != 0 {
		out.BatterySelfDischargeRate = override.BatterySelfDischargeRate
	}
	if override.InitialSOC != 0 {
		out.InitialSOC = override.InitialSOC
	}
	return out
}

func numParam(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case int:
			return float64(x)
		}
	}
	return def
}

func monthsParam(m map[string]any, key string) ([]time.Month, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list of month numbers", key)
	}
	out := make([]time.Month, 0, len(list))
	for _, item := range list {
		switch x := item.(type) {
		case int:
			out = append(out, time.Month(x))
		case float64:
			out = append(out, time.Month(int(x)))
		default:
			return nil, fmt.Errorf("%s: expected month numbers, got %T", key, item)
		}
	}
	return out, nil
}
