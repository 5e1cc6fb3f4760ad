package reserve

// NonePolicy applies no reserve floor: the battery may be drained to empty
// for load at any time.
type NonePolicy struct{}

func (NonePolicy) Name() string { return "none" }

func (NonePolicy) MinSOC(Context) float64 { return 0 }
