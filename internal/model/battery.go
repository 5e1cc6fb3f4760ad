package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig marks construction-time parameter errors. Wrapped errors
// name the offending parameter.
var ErrInvalidConfig = errors.New("invalid configuration")

// BatteryParams defines the physical parameters of the battery.
// Units:
// - CapacityKWh: kWh
// - Efficiency: 0..1, applied symmetrically on charge and discharge
// - SelfDischargeRate: fraction of stored energy lost per hour
type BatteryParams struct {
	CapacityKWh       float64
	Efficiency        float64
	SelfDischargeRate float64
}

// BatteryState captures mutable state. EnergyKWh is the only value that
// changes across timesteps.
type BatteryState struct {
	EnergyKWh float64
}

// Battery is a convenience wrapper bundling params + state.
type Battery struct {
	Params BatteryParams
	State  BatteryState
}

func NewBattery(params BatteryParams, initialSOC float64) (*Battery, error) {
	if initialSOC < 0 || initialSOC > 1 {
		return nil, fmt.Errorf("%w: initial SOC must be in [0, 1]", ErrInvalidConfig)
	}
	b := &Battery{
		Params: params,
		State:  BatteryState{EnergyKWh: initialSOC * params.CapacityKWh},
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Battery) Validate() error {
	p := b.Params
	if p.CapacityKWh <= 0 {
		return fmt.Errorf("%w: CapacityKWh must be > 0", ErrInvalidConfig)
	}
	if p.Efficiency <= 0 || p.Efficiency > 1 {
		return fmt.Errorf("%w: Efficiency must be in (0, 1]", ErrInvalidConfig)
	}
	if p.SelfDischargeRate < 0 {
		return fmt.Errorf("%w: SelfDischargeRate must be >= 0", ErrInvalidConfig)
	}
	if b.State.EnergyKWh < 0 || b.State.EnergyKWh > p.CapacityKWh {
		return fmt.Errorf("%w: stored energy must be within [0, CapacityKWh]", ErrInvalidConfig)
	}
	return nil
}

// Charge stores energy drawn from a source, enforcing the capacity bound.
//
// requestedKWh is the source-side energy on offer; the amount that lands in
// the store is actual * Efficiency. Returns the source-side energy accepted,
// so the caller can decrement its surplus by exactly what the battery
// consumed. A request <= 0 is a no-op returning 0.
func (b *Battery) Charge(requestedKWh float64) float64 {
	if requestedKWh <= 0 {
		return 0
	}
	// Headroom in source-side terms: the pre-efficiency energy that, once
	// the loss is applied, exactly fills the battery.
	headroom := (b.Params.CapacityKWh - b.State.EnergyKWh) / b.Params.Efficiency
	actual := requestedKWh
	if actual > headroom {
		actual = headroom
	}
	if actual < 0 {
		actual = 0
	}
	b.State.EnergyKWh += actual * b.Params.Efficiency
	if b.State.EnergyKWh > b.Params.CapacityKWh {
		b.State.EnergyKWh = b.Params.CapacityKWh
	}
	return actual
}

// Discharge delivers energy to a sink, enforcing the empty bound.
//
// requestedKWh is the sink-side energy wanted; the store drains by
// actual / Efficiency to yield exactly `actual` at the terminals. Returns
// the sink-side energy delivered. A request <= 0 is a no-op returning 0.
func (b *Battery) Discharge(requestedKWh float64) float64 {
	if requestedKWh <= 0 {
		return 0
	}
	available := b.State.EnergyKWh * b.Params.Efficiency
	actual := requestedKWh
	if actual > available {
		actual = available
	}
	b.State.EnergyKWh -= actual / b.Params.Efficiency
	if b.State.EnergyKWh < 0 {
		b.State.EnergyKWh = 0
	}
	return actual
}

// ApplySelfDischarge decays the stored energy for one timestep. Must run
// exactly once per step, after all charge/discharge activity.
func (b *Battery) ApplySelfDischarge(timestepHours float64) {
	b.State.EnergyKWh *= 1 - b.Params.SelfDischargeRate*timestepHours
	if b.State.EnergyKWh < 0 {
		b.State.EnergyKWh = 0
	}
}

// SOC returns the state of charge as a fraction [0,1].
func (b *Battery) SOC() float64 {
	return b.State.EnergyKWh / b.Params.CapacityKWh
}
