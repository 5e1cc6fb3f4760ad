package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"microgrid-sim/internal/model"
	"microgrid-sim/internal/sim"
)

// LoadInputs reads the three aligned input CSVs (solar irradiance, load,
// grid stability) and combines them into one timestep series. The files
// must be row-aligned and equal length; mismatches and malformed or
// negative values are input errors naming the file and row.
func LoadInputs(irradiancePath, loadPath, gridPath string) ([]model.Timestep, error) {
	irradiance, err := readFloatColumn(irradiancePath, "irradiation_w_m2")
	if err != nil {
		return nil, err
	}
	load, err := readFloatColumn(loadPath, "load_kw")
	if err != nil {
		return nil, err
	}
	gridStable, err := readBoolColumn(gridPath, "grid_stable")
	if err != nil {
		return nil, err
	}

	if len(load) != len(irradiance) || len(gridStable) != len(irradiance) {
		return nil, fmt.Errorf("%w: input files have mismatched lengths: %s=%d %s=%d %s=%d",
			sim.ErrInvalidInput, irradiancePath, len(irradiance), loadPath, len(load), gridPath, len(gridStable))
	}

	steps := make([]model.Timestep, len(irradiance))
	for i := range steps {
		if irradiance[i] < 0 {
			return nil, fmt.Errorf("%w: %s row %d: negative irradiance %g", sim.ErrInvalidInput, irradiancePath, i, irradiance[i])
		}
		if load[i] < 0 {
			return nil, fmt.Errorf("%w: %s row %d: negative load %g", sim.ErrInvalidInput, loadPath, i, load[i])
		}
		steps[i] = model.Timestep{
			IrradianceWm2: irradiance[i],
			LoadKW:        load[i],
			GridStable:    gridStable[i],
		}
	}
	return steps, nil
}

func readColumn(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", sim.ErrInvalidInput, path)
	}

	col := -1
	for i, name := range records[0] {
		if strings.TrimSpace(name) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: %s: missing column %q", sim.ErrInvalidInput, path, column)
	}

	out := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, strings.TrimSpace(rec[col]))
	}
	return out, nil
}

func readFloatColumn(path, column string) ([]float64, error) {
	raw, err := readColumn(path, column)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: bad %s value %q", sim.ErrInvalidInput, path, i, column, s)
		}
		out[i] = v
	}
	return out, nil
}

func readBoolColumn(path, column string) ([]bool, error) {
	raw, err := readColumn(path, column)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(raw))
	for i, s := range raw {
		// Accept Python-style True/False alongside true/false/1/0.
		switch strings.ToLower(s) {
		case "true", "1":
			out[i] = true
		case "false", "0":
			out[i] = false
		default:
			return nil, fmt.Errorf("%w: %s row %d: bad %s value %q", sim.ErrInvalidInput, path, i, column, s)
		}
	}
	return out, nil
}
