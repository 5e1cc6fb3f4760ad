package reserve

import (
	"fmt"
	"time"

	"microgrid-sim/internal/model"
)

// SeasonalParams configures a winter reserve with an outage override:
// - During WinterMonths, while the grid is up, keep WinterMinSOC in reserve
//   so a mid-winter outage starts from a charged battery.
// - While the grid is down, the floor drops to OutageMinSOC, releasing the
//   winter reserve to carry the load through the outage. The default of 0
//   lets the battery drain completely before load goes unmet.
type SeasonalParams struct {
	WinterMonths []time.Month
	WinterMinSOC float64
	OutageMinSOC float64
}

type SeasonalPolicy struct {
	Params SeasonalParams

	winter map[time.Month]bool
}

func NewSeasonalPolicy(params SeasonalParams) (*SeasonalPolicy, error) {
	if params.WinterMinSOC < 0 || params.WinterMinSOC > 1 {
		return nil, fmt.Errorf("%w: WinterMinSOC must be in [0, 1]", model.ErrInvalidConfig)
	}
	if params.OutageMinSOC < 0 || params.OutageMinSOC > 1 {
		return nil, fmt.Errorf("%w: OutageMinSOC must be in [0, 1]", model.ErrInvalidConfig)
	}
	winter := make(map[time.Month]bool, len(params.WinterMonths))
	for _, m := range params.WinterMonths {
		if m < time.January || m > time.December {
			return nil, fmt.Errorf("%w: winter month %d outside 1-12", model.ErrInvalidConfig, m)
		}
		winter[m] = true
	}
	return &SeasonalPolicy{Params: params, winter: winter}, nil
}

func (s *SeasonalPolicy) Name() string { return "seasonal" }

func (s *SeasonalPolicy) MinSOC(ctx Context) float64 {
	if !ctx.GridStable {
		return s.Params.OutageMinSOC
	}
	if s.winter[ctx.Month] {
		return s.Params.WinterMinSOC
	}
	return 0
}
