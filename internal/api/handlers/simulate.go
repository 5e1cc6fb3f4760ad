package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"microgrid-sim/internal/analysis"
	"microgrid-sim/internal/api/models"
	"microgrid-sim/internal/config"
	"microgrid-sim/internal/data"
	"microgrid-sim/internal/model"
	"microgrid-sim/internal/sim"

	"github.com/gin-gonic/gin"
)

// SimulateHandler handles simulation-related requests
type SimulateHandler struct{}

// NewSimulateHandler creates a new simulate handler
func NewSimulateHandler() *SimulateHandler {
	return &SimulateHandler{}
}

// RunSimulation handles POST /api/v1/simulate
func (h *SimulateHandler) RunSimulation(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	steps, err := resolveInput(req.Input, req.Sample)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_INPUT",
				Message: err.Error(),
			},
		})
		return
	}

	// Apply timestep limit if specified
	if req.Options.LimitTimesteps > 0 && req.Options.LimitTimesteps < len(steps) {
		steps = steps[:req.Options.LimitTimesteps]
	}

	cfg, err := buildConfig(req.Config)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	result, err := runSimulation(steps, cfg)
	if err != nil {
		status := http.StatusInternalServerError
		code := "SIMULATION_ERROR"
		if errors.Is(err, sim.ErrInvalidInput) {
			status = http.StatusBadRequest
			code = "INVALID_INPUT"
		} else if errors.Is(err, model.ErrInvalidConfig) {
			status = http.StatusBadRequest
			code = "INVALID_CONFIG"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    code,
				Message: err.Error(),
			},
		})
		return
	}

	response := models.SimulateResponse{
		Status:    "completed",
		Summary:   buildSummary(result.Rows),
		Blackouts: convertBlackouts(analysis.ExtractBlackouts(result.Rows)),
	}
	if req.Options.IncludeRows {
		response.Rows = convertRows(result.Rows)
	}
	c.JSON(http.StatusOK, response)
}

// CompareSimulations handles POST /api/v1/simulate/compare
func (h *SimulateHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	steps, err := resolveInput(req.Input, req.Sample)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_INPUT",
				Message: err.Error(),
			},
		})
		return
	}

	cfg, err := buildConfig(req.BaseConfig)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	policy, err := config.BuildPolicy(cfg.Reserve)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}
	runParams, err := cfg.Run.ToRunParams()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_CONFIG",
				Message: err.Error(),
			},
		})
		return
	}

	variants := make([]analysis.Variant, len(req.Variants))
	for i, v := range req.Variants {
		variants[i] = analysis.Variant{
			Name:               v.Name,
			PVPeakKW:           v.PVPeakKW,
			BatteryCapacityKWh: v.BatteryCapacityKWh,
		}
	}

	rows, err := analysis.CompareSizings(steps, variants, analysis.CompareParams{
		Base: analysis.Variant{
			PVPeakKW:           cfg.System.PVPeakKW,
			BatteryCapacityKWh: cfg.System.BatteryCapacityKWh,
		},
		Efficiency:        cfg.System.BatteryEfficiency,
		SelfDischargeRate: cfg.System.BatterySelfDischargeRate,
		InitialSOC:        cfg.System.InitialSOC,
		Policy:            policy,
		Run:               runParams,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "COMPARE_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	comparison := make([]models.ComparisonResult, len(rows))
	for i, r := range rows {
		comparison[i] = models.ComparisonResult{
			Name:               r.Variant.Name,
			PVPeakKW:           r.Variant.PVPeakKW,
			BatteryCapacityKWh: r.Variant.BatteryCapacityKWh,
			Summary:            summaryPayload(r.Summary, models.TimeWindow{}),
		}
	}
	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

// Helper methods

func resolveInput(input *models.InputSeries, sample *models.SampleSpec) ([]model.Timestep, error) {
	switch {
	case input != nil && sample != nil:
		return nil, fmt.Errorf("provide either input or sample, not both")
	case input != nil:
		n := len(input.IrradianceWm2)
		if len(input.LoadKW) != n || len(input.GridStable) != n {
			return nil, fmt.Errorf("%w: input columns have mismatched lengths: irradiance=%d load=%d grid=%d",
				sim.ErrInvalidInput, n, len(input.LoadKW), len(input.GridStable))
		}
		steps := make([]model.Timestep, n)
		for i := 0; i < n; i++ {
			steps[i] = model.Timestep{
				IrradianceWm2: input.IrradianceWm2[i],
				LoadKW:        input.LoadKW[i],
				GridStable:    input.GridStable[i],
			}
		}
		return steps, nil
	case sample != nil:
		days := sample.Days
		if days <= 0 {
			days = 7
		}
		steps := data.GenerateSampleData(data.GenerateParams{
			Days:          days,
			SamplesPerDay: 24,
			Seed:          sample.Seed,
		})
		if sample.SeasonalOutages {
			params := data.ModerateSeasonalOutages()
			params.Seed = sample.Seed
			grid := data.GenerateSeasonalOutages(defaultStartDate(), len(steps), params)
			for i := range steps {
				steps[i].GridStable = grid[i]
			}
		}
		return steps, nil
	default:
		return nil, fmt.Errorf("either input or sample is required")
	}
}

func buildConfig(req models.SimConfig) (*config.Config, error) {
	cfg := &config.Config{
		SystemFile: req.SystemFile,
		System: config.SystemConfig{
			Name:                     req.System.Name,
			PVPeakKW:                 req.System.PVPeakKW,
			BatteryCapacityKWh:       req.System.BatteryCapacityKWh,
			BatteryEfficiency:        req.System.BatteryEfficiency,
			BatterySelfDischargeRate: req.System.BatterySelfDischargeRate,
			InitialSOC:               req.System.InitialSOC,
		},
		Reserve: config.ReserveConfig{
			Name:   req.Reserve.Name,
			Params: req.Reserve.Params,
		},
		Run: config.RunConfig{
			TimestepHours: req.Run.TimestepHours,
			StartDate:     req.Run.StartDate,
		},
	}

	// If system_file is set, load it and merge request overrides onto it.
	// Files are looked up in the systems directory by bare name.
	if cfg.SystemFile != "" {
		systemPath := filepath.Join(SystemDir(), cfg.SystemFile+".yaml")
		loaded, err := config.LoadUnchecked(systemPath)
		if err == nil {
			cfg.System = config.MergeSystem(loaded.System, cfg.System)
		} else {
			log.Printf("SimulateHandler: failed to load system file %s: %v", systemPath, err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(steps []model.Timestep, cfg *config.Config) (*sim.Result, error) {
	pv, err := model.NewPVArray(cfg.System.PVPeakKW)
	if err != nil {
		return nil, err
	}
	batt, err := cfg.System.NewBattery()
	if err != nil {
		return nil, err
	}
	policy, err := config.BuildPolicy(cfg.Reserve)
	if err != nil {
		return nil, err
	}
	runParams, err := cfg.Run.ToRunParams()
	if err != nil {
		return nil, err
	}
	return sim.New().Run(steps, pv, batt, policy, runParams)
}

func buildSummary(rows []sim.Row) models.RunSummary {
	window := models.TimeWindow{}
	if len(rows) > 0 {
		window.Start = rows[0].Time
		window.End = rows[len(rows)-1].Time
	}
	return summaryPayload(analysis.Summarize(rows), window)
}

func summaryPayload(s analysis.Summary, window models.TimeWindow) models.RunSummary {
	return models.RunSummary{
		Timesteps:            s.Timesteps,
		Window:               window,
		TotalPVGenerationKWh: s.TotalPVGenerationKWh,
		TotalLoadKWh:         s.TotalLoadKWh,
		TotalGridImportKWh:   s.TotalGridImportKWh,
		TotalGridExportKWh:   s.TotalGridExportKWh,
		NetGridKWh:           s.NetGridKWh,
		MeanSelfSufficiency:  s.MeanSelfSufficiency,
		TotalUnmetLoadKWh:    s.TotalUnmetLoadKWh,
		UnmetTimesteps:       s.UnmetTimesteps,
		BlackoutCount:        s.BlackoutCount,
		CurtailedPVKWh:       s.CurtailedPVKWh,
		BatteryCycles:        s.BatteryCycles,
		FinalSOC:             s.FinalSOC,
		GridUptime:           s.GridUptime,
	}
}

func convertBlackouts(events []analysis.BlackoutEvent) []models.BlackoutEvent {
	out := make([]models.BlackoutEvent, len(events))
	for i, ev := range events {
		out[i] = models.BlackoutEvent{
			StartIndex:        ev.StartIndex,
			EndIndex:          ev.EndIndex,
			StartTime:         ev.StartTime,
			EndTime:           ev.EndTime,
			DurationTimesteps: ev.DurationTimesteps,
			UnservedKWh:       ev.UnservedKWh,
			MinSOC:            ev.MinSOC,
			AvgSOC:            ev.AvgSOC,
			GridDownFraction:  ev.GridDownFraction,
		}
	}
	return out
}

func convertRows(rows []sim.Row) []models.ResultRow {
	out := make([]models.ResultRow, len(rows))
	for i, r := range rows {
		out[i] = models.ResultRow{
			Index:            r.Index,
			Time:             r.Time,
			Month:            int(r.Month),
			GridStable:       r.GridStable,
			PVGenerationKWh:  r.PVGenerationKWh,
			LoadKWh:          r.LoadKWh,
			PVToLoadKWh:      r.PVToLoadKWh,
			PVToBatteryKWh:   r.PVToBatteryKWh,
			PVToGridKWh:      r.PVToGridKWh,
			BatteryToLoadKWh: r.BatteryToLoadKWh,
			GridToLoadKWh:    r.GridToLoadKWh,
			BatteryToGridKWh: r.BatteryToGridKWh,
			GridImportKWh:    r.GridImportKWh,
			GridExportKWh:    r.GridExportKWh,
			NetGridKWh:       r.NetGridKWh,
			SelfSufficiency:  r.SelfSufficiency,
			UnmetLoadKWh:     r.UnmetLoadKWh,
			ReserveMinSOC:    r.ReserveMinSOC,
			Action:           string(r.Action),
			SOCStart:         r.SOCStart,
			BatterySOC:       r.BatterySOC,
			BatteryEnergyKWh: r.BatteryEnergyKWh,
		}
	}
	return out
}

func defaultStartDate() (t time.Time) {
	t, _ = time.Parse("2006-01-02", "2024-01-01")
	return t
}
