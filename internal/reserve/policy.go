package reserve

import "time"

// Context carries the per-timestep facts a policy may consult.
type Context struct {
	Index      int
	Month      time.Month
	GridStable bool
}

// Policy computes, for one timestep, the minimum state of charge that load
// dispatch must not draw the battery below. Implementations are pure
// functions of the Context; they hold no cross-step state.
type Policy interface {
	Name() string
	MinSOC(ctx Context) float64
}
