package data

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"microgrid-sim/internal/model"
)

// GenerateParams controls synthetic input generation. The seed makes runs
// reproducible.
type GenerateParams struct {
	Days          int
	SamplesPerDay int
	Seed          int64
}

// GenerateSampleData builds a synthetic timestep series: a sinusoidal solar
// day with cloud noise, a base load with morning and evening peaks, and a
// grid that is up ~95% of hours at random.
func GenerateSampleData(params GenerateParams) []model.Timestep {
	rng := rand.New(rand.NewSource(params.Seed))
	n := params.Days * params.SamplesPerDay
	steps := make([]model.Timestep, 0, n)

	for day := 0; day < params.Days; day++ {
		for hour := 0; hour < params.SamplesPerDay; hour++ {
			steps = append(steps, model.Timestep{
				IrradianceWm2: sampleIrradiance(rng, hour),
				LoadKW:        sampleLoad(rng, hour),
				GridStable:    rng.Float64() < 0.95,
			})
		}
	}
	return steps
}

// sampleIrradiance models a clear-sky bell between 06:00 and 20:00 peaking
// around 800 W/m², with gaussian cloud noise.
func sampleIrradiance(rng *rand.Rand, hour int) float64 {
	if hour < 6 || hour >= 20 {
		return 0
	}
	base := 800 * math.Sin(math.Pi*float64(hour-6)/14)
	v := base + rng.NormFloat64()*50
	if v < 0 {
		v = 0
	}
	return v
}

// sampleLoad models a 50 kW base load with a morning peak (06-09) and a
// larger evening peak (17-22), floored at 10 kW.
func sampleLoad(rng *rand.Rand, hour int) float64 {
	base := 50.0
	peak := 0.0
	switch {
	case hour >= 6 && hour < 9:
		peak = 30 * (1 + math.Sin(math.Pi*float64(hour-6)/3))
	case hour >= 17 && hour < 22:
		peak = 40 * (1 + math.Sin(math.Pi*float64(hour-17)/5))
	}
	v := base + peak + rng.NormFloat64()*5
	if v < 10 {
		v = 10
	}
	return v
}

// SeasonalOutageParams shapes a year of grid availability with heavier
// outages in winter.
type SeasonalOutageParams struct {
	WinterMonths []time.Month

	SummerLongOutages  int
	SummerLongMinHours int
	SummerLongMaxHours int

	SummerShortOutages  int
	SummerShortMinHours int
	SummerShortMaxHours int

	WinterLongOutages  int
	WinterLongMinHours int
	WinterLongMaxHours int

	WinterShortOutages  int
	WinterShortMinHours int
	WinterShortMaxHours int

	Seed int64
}

// ModerateSeasonalOutages is the default severity profile.
func ModerateSeasonalOutages() SeasonalOutageParams {
	return SeasonalOutageParams{
		WinterMonths:        []time.Month{time.December, time.January, time.February},
		SummerLongOutages:   2,
		SummerLongMinHours:  12,
		SummerLongMaxHours:  48,
		SummerShortOutages:  5,
		SummerShortMinHours: 1,
		SummerShortMaxHours: 6,
		WinterLongOutages:   6,
		WinterLongMinHours:  24,
		WinterLongMaxHours:  96,
		WinterShortOutages:  15,
		WinterShortMinHours: 2,
		WinterShortMaxHours: 12,
		Seed:                42,
	}
}

// GenerateSeasonalOutages returns hour-by-hour grid availability for `hours`
// hourly steps starting at startDate. Outage windows are placed at random
// within the winter and summer hour sets, winter drawing from the heavier
// budget.
func GenerateSeasonalOutages(startDate time.Time, hours int, params SeasonalOutageParams) []bool {
	rng := rand.New(rand.NewSource(params.Seed))

	winter := make(map[time.Month]bool, len(params.WinterMonths))
	for _, m := range params.WinterMonths {
		winter[m] = true
	}

	var winterHours, summerHours []int
	for i := 0; i < hours; i++ {
		if winter[startDate.Add(time.Duration(i) * time.Hour).Month()] {
			winterHours = append(winterHours, i)
		} else {
			summerHours = append(summerHours, i)
		}
	}

	grid := make([]bool, hours)
	for i := range grid {
		grid[i] = true
	}

	placeOutages(rng, grid, summerHours, params.SummerLongOutages, params.SummerLongMinHours, params.SummerLongMaxHours)
	placeOutages(rng, grid, summerHours, params.SummerShortOutages, params.SummerShortMinHours, params.SummerShortMaxHours)
	placeOutages(rng, grid, winterHours, params.WinterLongOutages, params.WinterLongMinHours, params.WinterLongMaxHours)
	placeOutages(rng, grid, winterHours, params.WinterShortOutages, params.WinterShortMinHours, params.WinterShortMaxHours)

	return grid
}

func placeOutages(rng *rand.Rand, grid []bool, eligible []int, count, minHours, maxHours int) {
	if len(eligible) <= maxHours || maxHours < minHours {
		return
	}
	for n := 0; n < count; n++ {
		start := eligible[rng.Intn(len(eligible)-maxHours)]
		duration := minHours + rng.Intn(maxHours-minHours+1)
		for i := start; i < start+duration && i < len(grid); i++ {
			grid[i] = false
		}
	}
}

// WriteInputCSVs writes the series as the three input files the loader
// expects: solar_irradiation.csv, load_consumption.csv, grid_stability.csv.
func WriteInputCSVs(dir string, steps []model.Timestep) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	write := func(name, column string, value func(int) string) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		defer f.Close()

		w := csv.NewWriter(f)
		defer w.Flush()

		if err := w.Write([]string{"hour", column}); err != nil {
			return err
		}
		for i := range steps {
			if err := w.Write([]string{strconv.Itoa(i), value(i)}); err != nil {
				return err
			}
		}
		return w.Error()
	}

	if err := write("solar_irradiation.csv", "irradiation_w_m2", func(i int) string {
		return strconv.FormatFloat(steps[i].IrradianceWm2, 'f', 2, 64)
	}); err != nil {
		return fmt.Errorf("write irradiance: %w", err)
	}
	if err := write("load_consumption.csv", "load_kw", func(i int) string {
		return strconv.FormatFloat(steps[i].LoadKW, 'f', 2, 64)
	}); err != nil {
		return fmt.Errorf("write load: %w", err)
	}
	if err := write("grid_stability.csv", "grid_stable", func(i int) string {
		return strconv.FormatBool(steps[i].GridStable)
	}); err != nil {
		return fmt.Errorf("write grid stability: %w", err)
	}
	return nil
}
