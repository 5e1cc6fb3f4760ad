package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"microgrid-sim/internal/analysis"
	"microgrid-sim/internal/config"
	"microgrid-sim/internal/data"
	"microgrid-sim/internal/model"
	"microgrid-sim/internal/sim"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	case "gendata":
		cmdGendata(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --out output/simulation_results.csv")
	fmt.Println("  cli compare --config examples/config.yaml --variants 'Small=50:100,Medium=100:200'")
	fmt.Println("  cli gendata --days 7 --out input_data")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate reads the three input CSVs, runs the dispatch simulation and writes a results CSV")
	fmt.Println("  - compare replays the same inputs across PV/battery sizing variants (name=pv_kw:battery_kwh)")
	fmt.Println("  - gendata writes synthetic solar_irradiation/load_consumption/grid_stability CSVs")
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	irrPath := fs.String("irradiance", "input_data/solar_irradiation.csv", "Path to solar irradiance CSV")
	loadPath := fs.String("load", "input_data/load_consumption.csv", "Path to load consumption CSV")
	gridPath := fs.String("grid", "input_data/grid_stability.csv", "Path to grid stability CSV")
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "output/simulation_results.csv", "Output CSV path")
	n := fs.Int("n", 0, "Optional: limit to first N timesteps (0=all)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	steps, err := data.LoadInputs(*irrPath, *loadPath, *gridPath)
	if err != nil {
		panic(err)
	}
	if *n > 0 && *n < len(steps) {
		steps = steps[:*n]
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	pv, err := model.NewPVArray(cfg.System.PVPeakKW)
	if err != nil {
		panic(err)
	}
	batt, err := cfg.System.NewBattery()
	if err != nil {
		panic(err)
	}
	policy, err := config.BuildPolicy(cfg.Reserve)
	if err != nil {
		panic(err)
	}
	runParams, err := cfg.Run.ToRunParams()
	if err != nil {
		panic(err)
	}

	engine := sim.New()
	res, err := engine.Run(steps, pv, batt, policy, runParams)
	if err != nil {
		panic(err)
	}

	// ensure output dir exists
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		panic(err)
	}
	if err := sim.WriteResultsCSV(*outPath, res.Rows); err != nil {
		panic(err)
	}

	summary := analysis.Summarize(res.Rows)
	blackouts := analysis.ExtractBlackouts(res.Rows)

	fmt.Printf("Wrote %d rows to %s\n\n", len(res.Rows), *outPath)
	fmt.Printf("Total PV generation:     %10.2f kWh\n", summary.TotalPVGenerationKWh)
	fmt.Printf("Total load consumption:  %10.2f kWh\n", summary.TotalLoadKWh)
	fmt.Printf("Total grid import:       %10.2f kWh\n", summary.TotalGridImportKWh)
	fmt.Printf("Total grid export:       %10.2f kWh\n", summary.TotalGridExportKWh)
	fmt.Printf("Net grid energy:         %10.2f kWh\n", summary.NetGridKWh)
	fmt.Printf("Curtailed PV:            %10.2f kWh\n", summary.CurtailedPVKWh)
	fmt.Printf("Average self-sufficiency: %9.2f %%\n", summary.MeanSelfSufficiency*100)
	fmt.Printf("Total unmet load:        %10.2f kWh\n", summary.TotalUnmetLoadKWh)
	fmt.Printf("Battery cycles:          %10.2f\n", summary.BatteryCycles)
	fmt.Printf("Final battery SOC:       %10.2f %%\n", summary.FinalSOC*100)
	fmt.Printf("Grid uptime:             %10.2f %%\n", summary.GridUptime*100)

	if len(blackouts) > 0 {
		fmt.Printf("\nBlackout events: %d\n", len(blackouts))
		for _, ev := range blackouts {
			fmt.Printf("  steps %d-%d (%s to %s): %d steps, %.2f kWh unserved, min SOC %.1f%%, grid down %.0f%%\n",
				ev.StartIndex, ev.EndIndex,
				ev.StartTime.Format("2006-01-02 15:04"), ev.EndTime.Format("2006-01-02 15:04"),
				ev.DurationTimesteps, ev.UnservedKWh, ev.MinSOC*100, ev.GridDownFraction*100)
		}
	} else {
		fmt.Println("\nNo blackout events.")
	}
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	irrPath := fs.String("irradiance", "input_data/solar_irradiation.csv", "Path to solar irradiance CSV")
	loadPath := fs.String("load", "input_data/load_consumption.csv", "Path to load consumption CSV")
	gridPath := fs.String("grid", "input_data/grid_stability.csv", "Path to grid stability CSV")
	cfgPath := fs.String("config", "", "Path to YAML config")
	variantsFlag := fs.String("variants", "Small=50:100,Medium=100:200,Large=150:300,Very Large=200:400",
		"Comma-separated sizing variants, name=pv_peak_kw:battery_capacity_kwh")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	steps, err := data.LoadInputs(*irrPath, *loadPath, *gridPath)
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	policy, err := config.BuildPolicy(cfg.Reserve)
	if err != nil {
		panic(err)
	}
	runParams, err := cfg.Run.ToRunParams()
	if err != nil {
		panic(err)
	}

	variants, err := parseVariants(*variantsFlag)
	if err != nil {
		panic(err)
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
		panic(err)
	}

	fmt.Printf("%-16s %-10s %-14s %-12s %-14s %-12s %-10s\n",
		"variant", "pv_kw", "battery_kwh", "self_suff%", "net_grid_kwh", "unmet_kwh", "blackouts")
	for _, r := range rows {
		fmt.Printf("%-16s %-10.0f %-14.0f %-12.2f %-14.2f %-12.2f %-10d\n",
			r.Variant.Name,
			r.Variant.PVPeakKW,
			r.Variant.BatteryCapacityKWh,
			r.Summary.MeanSelfSufficiency*100,
			r.Summary.NetGridKWh,
			r.Summary.TotalUnmetLoadKWh,
			r.Summary.BlackoutCount,
		)
	}
}

func cmdGendata(args []string) {
	fs := flag.NewFlagSet("gendata", flag.ExitOnError)
	days := fs.Int("days", 7, "Number of days of hourly samples")
	seed := fs.Int64("seed", 42, "Random seed for reproducibility")
	outDir := fs.String("out", "input_data", "Output directory for the three input CSVs")
	seasonal := fs.Bool("seasonal-outages", false, "Overlay a seasonal (winter-heavy) outage profile instead of random hourly dropouts")
	startDate := fs.String("start-date", "2024-01-01", "Calendar anchor for seasonal outage placement (YYYY-MM-DD)")
	_ = fs.Parse(args)

	steps := data.GenerateSampleData(data.GenerateParams{
		Days:          *days,
		SamplesPerDay: 24,
		Seed:          *seed,
	})

	if *seasonal {
		start, err := time.Parse("2006-01-02", *startDate)
		if err != nil {
			panic(err)
		}
		params := data.ModerateSeasonalOutages()
		params.Seed = *seed
		grid := data.GenerateSeasonalOutages(start, len(steps), params)
		outages := 0
		for i := range steps {
			steps[i].GridStable = grid[i]
			if !grid[i] {
				outages++
			}
		}
		fmt.Printf("Seasonal outage profile: %d of %d hours down (%.2f%%)\n",
			outages, len(steps), float64(outages)/float64(len(steps))*100)
	}

	if err := data.WriteInputCSVs(*outDir, steps); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d hourly samples to %s\n", len(steps), *outDir)
	fmt.Println("  - solar_irradiation.csv")
	fmt.Println("  - load_consumption.csv")
	fmt.Println("  - grid_stability.csv")
}

// parseVariants parses "name=pv_kw:battery_kwh" entries.
func parseVariants(s string) ([]analysis.Variant, error) {
	parts := strings.Split(s, ",")
	out := make([]analysis.Variant, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name, sizing, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid variant %q, expected name=pv_kw:battery_kwh", p)
		}
		pvStr, battStr, ok := strings.Cut(sizing, ":")
		if !ok {
			return nil, fmt.Errorf("invalid variant sizing %q, expected pv_kw:battery_kwh", sizing)
		}
		pvKW, err := strconv.ParseFloat(strings.TrimSpace(pvStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid PV size in %q", p)
		}
		battKWh, err := strconv.ParseFloat(strings.TrimSpace(battStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid battery size in %q", p)
		}
		out = append(out, analysis.Variant{
			Name:               strings.TrimSpace(name),
			PVPeakKW:           pvKW,
			BatteryCapacityKWh: battKWh,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no variants given")
	}
	return out, nil
}
