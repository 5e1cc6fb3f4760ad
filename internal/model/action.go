package model

// Action is a human-friendly operating mode for a timestep.
// Keep these values stable; they are intended for CSV output.
type Action string

const (
	ActionCharging    Action = "CHARGING"
	ActionIdle        Action = "IDLE"
	ActionDischarging Action = "DISCHARGING"
)

// ActionFromFlows labels the step by the battery's net activity: charging
// when more energy entered the store than left it, discharging for the
// reverse, idle otherwise.
func ActionFromFlows(chargedKWh, dischargedKWh float64) Action {
	switch {
	case chargedKWh > dischargedKWh:
		return ActionCharging
	case dischargedKWh > chargedKWh:
		return ActionDischarging
	default:
		return ActionIdle
	}
}
