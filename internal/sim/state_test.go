// File: internal/sim/state_test.go
package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "Susceptible", Susceptible.String())
	assert.Equal(t, "Infected", Infected.String())
	assert.Equal(t, "Resistant", Resistant.String())
	assert.Equal(t, "Dead", Dead.String())
	assert.Equal(t, "Unknown", State(42).String())
}
