package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgrid-sim/internal/reserve"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
system:
  pv_peak_kw: 100
  battery_capacity_kwh: 200
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.95, cfg.System.BatteryEfficiency, 1e-9)
	assert.InDelta(t, 0.0001, cfg.System.BatterySelfDischargeRate, 1e-9)
	assert.InDelta(t, 0.5, cfg.System.InitialSOC, 1e-9)
	assert.Equal(t, "none", cfg.Reserve.Name)
	assert.InDelta(t, 1.0, cfg.Run.TimestepHours, 1e-9)
	assert.Equal(t, "2024-01-01", cfg.Run.StartDate)
}

func TestLoadMergesSystemFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plant.yaml", `
system:
  name: Test Plant
  pv_peak_kw: 100
  battery_capacity_kwh: 200
  battery_efficiency: 0.92
`)
	// Override just the array size; everything else comes from the preset.
	path := writeFile(t, dir, "config.yaml", `
system_file: plant.yaml
system:
  pv_peak_kw: 150
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Test Plant", cfg.System.Name)
	assert.InDelta(t, 150, cfg.System.PVPeakKW, 1e-9)
	assert.InDelta(t, 200, cfg.System.BatteryCapacityKWh, 1e-9)
	assert.InDelta(t, 0.92, cfg.System.BatteryEfficiency, 1e-9)
}

func TestLoadRejectsInvalidSystem(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
system:
  pv_peak_kw: 100
  battery_capacity_kwh: -50
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "system config invalid")
}

func TestLoadMissingSystemFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
system_file: does-not-exist.yaml
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestBuildPolicySeasonalFromParams(t *testing.T) {
	pol, err := BuildPolicy(ReserveConfig{
		Name: "seasonal",
		Params: map[string]any{
			"winter_months":  []any{12, 1, 2},
			"winter_min_soc": 0.3,
			"outage_min_soc": 0.1,
		},
	})
	require.NoError(t, err)
	require.Equal(t, "seasonal", pol.Name())

	assert.InDelta(t, 0.3, pol.MinSOC(reserve.Context{Month: time.December, GridStable: true}), 1e-9)
	assert.InDelta(t, 0.1, pol.MinSOC(reserve.Context{Month: time.December, GridStable: false}), 1e-9)
	assert.Zero(t, pol.MinSOC(reserve.Context{Month: time.July, GridStable: true}))
}

func TestBuildPolicyDefaultsToNone(t *testing.T) {
	pol, err := BuildPolicy(ReserveConfig{})
	require.NoError(t, err)
	assert.Equal(t, "none", pol.Name())
}

func TestBuildPolicyUnknownName(t *testing.T) {
	_, err := BuildPolicy(ReserveConfig{Name: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported reserve policy")
}

func TestBuildPolicyRejectsBadMonthsList(t *testing.T) {
	_, err := BuildPolicy(ReserveConfig{
		Name: "seasonal",
		Params: map[string]any{
			"winter_months": "december",
		},
	})
	require.Error(t, err)
}

func TestRunConfigToRunParams(t *testing.T) {
	rp, err := RunConfig{TimestepHours: 0.5, StartDate: "2024-06-15"}.ToRunParams()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rp.TimestepHours, 1e-9)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), rp.StartDate)

	_, err = RunConfig{TimestepHours: 1.0, StartDate: "15/06/2024"}.ToRunParams()
	require.Error(t, err)

	_, err = RunConfig{TimestepHours: 0, StartDate: "2024-06-15"}.ToRunParams()
	require.Error(t, err)
}

func TestMergeSystemOverlaysNonZeroFields(t *testing.T) {
	base := SystemConfig{
		Name:               "Base",
		PVPeakKW:           100,
		BatteryCapacityKWh: 200,
		BatteryEfficiency:  0.95,
		InitialSOC:         0.5,
	}
	merged := MergeSystem(base, SystemConfig{BatteryCapacityKWh: 400})

	assert.Equal(t, "Base", merged.Name)
	assert.InDelta(t, 100, merged.PVPeakKW, 1e-9)
	assert.InDelta(t, 400, merged.BatteryCapacityKWh, 1e-9)
	assert.InDelta(t, 0.95, merged.BatteryEfficiency, 1e-9)
}
