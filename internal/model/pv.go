package model

import "fmt"

// PVArray is a stateless photovoltaic generator rated at standard test
// conditions (1000 W/m²).
type PVArray struct {
	PeakPowerKW float64
}

func NewPVArray(peakPowerKW float64) (PVArray, error) {
	if peakPowerKW < 0 {
		return PVArray{}, fmt.Errorf("%w: PeakPowerKW must be >= 0", ErrInvalidConfig)
	}
	return PVArray{PeakPowerKW: peakPowerKW}, nil
}

// GeneratePowerKW returns the instantaneous output for the given irradiance.
func (p PVArray) GeneratePowerKW(irradianceWm2 float64) float64 {
	return (irradianceWm2 / 1000.0) * p.PeakPowerKW
}
