package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgrid-sim/internal/api/models"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewSimulateHandler()
	router.POST("/simulate", h.RunSimulation)
	router.POST("/simulate/compare", h.CompareSimulations)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func testConfig() models.SimConfig {
	return models.SimConfig{
		System: models.SystemConfig{
			PVPeakKW:           100,
			BatteryCapacityKWh: 200,
		},
		Run: models.RunConfig{
			TimestepHours: 1.0,
			StartDate:     "2024-01-01",
		},
	}
}

func TestRunSimulationWithInlineInput(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/simulate", models.SimulateRequest{
		Input: &models.InputSeries{
			IrradianceWm2: []float64{0, 500, 1000, 0},
			LoadKW:        []float64{40, 50, 60, 40},
			GridStable:    []bool{true, true, true, true},
		},
		Config:  testConfig(),
		Options: models.SimulateOptions{IncludeRows: true},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 4, resp.Summary.Timesteps)
	assert.Len(t, resp.Rows, 4)
	assert.Empty(t, resp.Blackouts)
	assert.InDelta(t, 150, resp.Summary.TotalPVGenerationKWh, 1e-6)
}

func TestRunSimulationWithSampleInput(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/simulate", models.SimulateRequest{
		Sample: &models.SampleSpec{Days: 2, Seed: 7},
		Config: testConfig(),
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 48, resp.Summary.Timesteps)
	assert.Empty(t, resp.Rows, "rows are omitted unless requested")
}

func TestRunSimulationLimitTimesteps(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/simulate", models.SimulateRequest{
		Sample:  &models.SampleSpec{Days: 7, Seed: 1},
		Config:  testConfig(),
		Options: models.SimulateOptions{LimitTimesteps: 24},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 24, resp.Summary.Timesteps)
}

func TestRunSimulationRejectsBothInputAndSample(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/simulate", models.SimulateRequest{
		Input: &models.InputSeries{
			IrradianceWm2: []float64{0},
			LoadKW:        []float64{40},
			GridStable:    []bool{true},
		},
		Sample: &models.SampleSpec{Days: 1},
		Config: testConfig(),
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestRunSimulationRejectsMismatchedColumns(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/simulate", models.SimulateRequest{
		Input: &models.InputSeries{
			IrradianceWm2: []float64{0, 500},
			LoadKW:        []float64{40},
			GridStable:    []bool{true, true},
		},
		Config: testConfig(),
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}

func TestRunSimulationRejectsInvalidConfig(t *testing.T) {
	router := newTestRouter()

	cfg := testConfig()
	cfg.System.BatteryCapacityKWh = -50

	w := postJSON(t, router, "/simulate", models.SimulateRequest{
		Sample: &models.SampleSpec{Days: 1},
		Config: cfg,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
}

func TestRunSimulationReportsBlackouts(t *testing.T) {
	router := newTestRouter()

	// No sun, no grid, a battery that runs dry midway through hour two.
	cfg := testConfig()
	cfg.System.PVPeakKW = 10
	cfg.System.BatteryCapacityKWh = 100
	cfg.System.BatteryEfficiency = 1.0
	cfg.System.InitialSOC = 1.0

	w := postJSON(t, router, "/simulate", models.SimulateRequest{
		Input: &models.InputSeries{
			IrradianceWm2: []float64{0, 0, 0, 0},
			LoadKW:        []float64{40, 40, 40, 40},
			GridStable:    []bool{false, false, false, false},
		},
		Config: cfg,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.SimulateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Blackouts, 1)
	assert.Equal(t, 2, resp.Blackouts[0].StartIndex)
	assert.Equal(t, 3, resp.Blackouts[0].EndIndex)
	assert.InDelta(t, 60, resp.Summary.TotalUnmetLoadKWh, 0.1)
}

func TestCompareSimulations(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/simulate/compare", models.CompareRequest{
		Sample:     &models.SampleSpec{Days: 3, Seed: 1},
		BaseConfig: testConfig(),
		Variants: []models.VariantSpec{
			{Name: "Base"},
			{Name: "Double PV", PVPeakKW: 200},
		},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comparison, 2)
	assert.Equal(t, "Base", resp.Comparison[0].Name)
	assert.InDelta(t, 100, resp.Comparison[0].PVPeakKW, 1e-9)
	assert.Equal(t, "Double PV", resp.Comparison[1].Name)
	assert.InDelta(t, 200, resp.Comparison[1].PVPeakKW, 1e-9)
	assert.InDelta(t, 200, resp.Comparison[1].BatteryCapacityKWh, 1e-9)
}
