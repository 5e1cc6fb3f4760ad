package reserve

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microgrid-sim/internal/model"
)

func newWinterPolicy(t *testing.T) *SeasonalPolicy {
	t.Helper()
	p, err := NewSeasonalPolicy(SeasonalParams{
		WinterMonths: []time.Month{time.December, time.January, time.February},
		WinterMinSOC: 0.30,
		OutageMinSOC: 0.10,
	})
	require.NoError(t, err)
	return p
}

func TestSeasonalOutageFloorWinsOverWinter(t *testing.T) {
	p := newWinterPolicy(t)

	// Grid down in a winter month: the outage floor applies, not the winter
	// reserve.
	got := p.MinSOC(Context{Month: time.January, GridStable: false})
	assert.InDelta(t, 0.10, got, 1e-9)

	// Grid down outside winter as well.
	got = p.MinSOC(Context{Month: time.July, GridStable: false})
	assert.InDelta(t, 0.10, got, 1e-9)
}

func TestSeasonalWinterFloorWhileGridUp(t *testing.T) {
	p := newWinterPolicy(t)

	for _, m := range []time.Month{time.December, time.January, time.February} {
		got := p.MinSOC(Context{Month: m, GridStable: true})
		assert.InDelta(t, 0.30, got, 1e-9, "month %s", m)
	}
}

func TestSeasonalNoFloorOutsideWinter(t *testing.T) {
	p := newWinterPolicy(t)

	for _, m := range []time.Month{time.March, time.June, time.September, time.November} {
		assert.Zero(t, p.MinSOC(Context{Month: m, GridStable: true}), "month %s", m)
	}
}

func TestSeasonalParamValidation(t *testing.T) {
	tests := []struct {
		name   string
		params SeasonalParams
	}{
		{"winter SOC above one", SeasonalParams{WinterMinSOC: 1.2}},
		{"winter SOC negative", SeasonalParams{WinterMinSOC: -0.1}},
		{"outage SOC above one", SeasonalParams{OutageMinSOC: 1.5}},
		{"outage SOC negative", SeasonalParams{OutageMinSOC: -0.5}},
		{"month zero", SeasonalParams{WinterMonths: []time.Month{0}}},
		{"month thirteen", SeasonalParams{WinterMonths: []time.Month{13}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSeasonalPolicy(tt.params)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrInvalidConfig))
		})
	}
}

func TestNonePolicyNeverReserves(t *testing.T) {
	p := NonePolicy{}
	assert.Equal(t, "none", p.Name())
	assert.Zero(t, p.MinSOC(Context{Month: time.January, GridStable: true}))
	assert.Zero(t, p.MinSOC(Context{Month: time.January, GridStable: false}))
}
