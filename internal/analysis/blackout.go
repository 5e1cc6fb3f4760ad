package analysis

import (
	"time"

	"microgrid-sim/internal/sim"
)

// BlackoutEvent summarises one maximal contiguous run of timesteps with
// unmet load. Derived from a finished result series; recomputing it never
// mutates the results.
type BlackoutEvent struct {
	StartIndex int
	EndIndex   int // inclusive
	StartTime  time.Time
	EndTime    time.Time

	DurationTimesteps int
	UnservedKWh       float64

	MinSOC float64
	AvgSOC float64

	// GridDownFraction is the share of the run during which the grid was
	// down. Unmet load with the grid up cannot occur under the current
	// merit order, so this is normally 1.0.
	GridDownFraction float64
}

// ExtractBlackouts scans the result series once, opening an event when
// UnmetLoadKWh goes positive and closing it when it returns to zero (or at
// series end).
func ExtractBlackouts(rows []sim.Row) []BlackoutEvent {
	var events []BlackoutEvent
	open := -1
	for i, r := range rows {
		if r.UnmetLoadKWh > 0 {
			if open < 0 {
				open = i
			}
			continue
		}
		if open >= 0 {
			events = append(events, summariseRun(rows[open:i], open))
			open = -1
		}
	}
	if open >= 0 {
		events = append(events, summariseRun(rows[open:], open))
	}
	return events
}

func summariseRun(run []sim.Row, startIndex int) BlackoutEvent {
	ev := BlackoutEvent{
		StartIndex:        startIndex,
		EndIndex:          startIndex + len(run) - 1,
		StartTime:         run[0].Time,
		EndTime:           run[len(run)-1].Time,
		DurationTimesteps: len(run),
		MinSOC:            run[0].BatterySOC,
	}
	socSum := 0.0
	gridDown := 0
	for _, r := range run {
		ev.UnservedKWh += r.UnmetLoadKWh
		socSum += r.BatterySOC
		if r.BatterySOC < ev.MinSOC {
			ev.MinSOC = r.BatterySOC
		}
		if !r.GridStable {
			gridDown++
		}
	}
	ev.AvgSOC = socSum / float64(len(run))
	ev.GridDownFraction = float64(gridDown) / float64(len(run))
	return ev
}
