package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionFromFlows(t *testing.T) {
	assert.Equal(t, ActionCharging, ActionFromFlows(10, 0))
	assert.Equal(t, ActionDischarging, ActionFromFlows(0, 10))
	assert.Equal(t, ActionIdle, ActionFromFlows(0, 0))
	assert.Equal(t, ActionIdle, ActionFromFlows(5, 5))
}
