package sim

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

func WriteResultsCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"time",
		"month",
		"grid_stable",
		"pv_generation_kwh",
		"load_kwh",
		"pv_to_load_kwh",
		"pv_to_battery_kwh",
		"pv_to_grid_kwh",
		"battery_to_load_kwh",
		"grid_to_load_kwh",
		"battery_to_grid_kwh",
		"grid_import_kwh",
		"grid_export_kwh",
		"net_grid_kwh",
		"self_sufficiency",
		"unmet_load_kwh",
		"reserve_min_soc",
		"action",
		"soc_start",
		"battery_soc",
		"battery_energy_kwh",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			strconv.Itoa(r.Index),
			fmtTime(r.Time),
			strconv.Itoa(int(r.Month)),
			strconv.FormatBool(r.GridStable),
			fmtFloat(r.PVGenerationKWh),
			fmtFloat(r.LoadKWh),
			fmtFloat(r.PVToLoadKWh),
			fmtFloat(r.PVToBatteryKWh),
			fmtFloat(r.PVToGridKWh),
			fmtFloat(r.BatteryToLoadKWh),
			fmtFloat(r.GridToLoadKWh),
			fmtFloat(r.BatteryToGridKWh),
			fmtFloat(r.GridImportKWh),
			fmtFloat(r.GridExportKWh),
			fmtFloat(r.NetGridKWh),
			fmtFloat(r.SelfSufficiency),
			fmtFloat(r.UnmetLoadKWh),
			fmtFloat(r.ReserveMinSOC),
			string(r.Action),
			fmtFloat(r.SOCStart),
			fmtFloat(r.BatterySOC),
			fmtFloat(r.BatteryEnergyKWh),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
