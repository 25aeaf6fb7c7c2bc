// File: internal/sim/agent_test.go
package sim

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestAgentMovementGuard(t *testing.T) {
	t.Run("non-movable agent never moves", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(1)
		a := &Agent{ID: 0, State: Susceptible, Movable: false}
		g.Place(a, Position{X: 2, Y: 2})

		for i := 0; i < 20; i++ {
			a.Tick(rng, g)
		}
		assert.Equal(t, Position{X: 2, Y: 2}, a.Pos)
	})

	t.Run("dead agent never moves", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(1)
		a := &Agent{ID: 0, State: Dead, Movable: true}
		g.Place(a, Position{X: 2, Y: 2})

		for i := 0; i < 20; i++ {
			a.Tick(rng, g)
		}
		assert.Equal(t, Position{X: 2, Y: 2}, a.Pos)
	})

	t.Run("movable agent steps to a Moore neighbor", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(3)
		a := &Agent{ID: 0, State: Susceptible, Movable: true}
		g.Place(a, Position{X: 2, Y: 2})

		for i := 0; i < 50; i++ {
			before := a.Pos
			candidates := g.NeighborPositions(before)
			a.Tick(rng, g)
			assert.NotEqual(t, before, a.Pos, "the candidate set excludes the center")
			assert.Contains(t, candidates, a.Pos)
			require.Len(t, g.CellContents(a.Pos), 1, "grid occupancy stays consistent")
		}
	})
}

func TestAgentInfectsNeighbors(t *testing.T) {
	// Two forced neighbors, spread chance 1.0: infection is deterministic.
	g := NewGrid(5, 5)
	rng := newTestRNG(7)

	infected := &Agent{ID: 0, State: Infected, Behavior: Behavior{
		SpreadChance:         1.0,
		MinInfectionDuration: 5,
	}}
	susceptible := &Agent{ID: 1, State: Susceptible}
	g.Place(infected, Position{X: 1, Y: 1})
	g.Place(susceptible, Position{X: 1, Y: 2})

	infected.Tick(rng, g)
	susceptible.Tick(rng, g)

	assert.Equal(t, Infected, infected.State)
	assert.Equal(t, Infected, susceptible.State)
	assert.Equal(t, 1, infected.InfectedEta)
	assert.Equal(t, 1, susceptible.InfectedEta, "the newly infected neighbor already progresses this tick")
}

func TestAgentSpreadChanceZero(t *testing.T) {
	g := NewGrid(5, 5)
	rng := newTestRNG(7)

	infected := &Agent{ID: 0, State: Infected, Behavior: Behavior{MinInfectionDuration: 5}}
	susceptible := &Agent{ID: 1, State: Susceptible}
	g.Place(infected, Position{X: 1, Y: 1})
	g.Place(susceptible, Position{X: 1, Y: 2})

	for i := 0; i < 50; i++ {
		infected.Tick(rng, g)
	}
	assert.Equal(t, Susceptible, susceptible.State)
}

func TestAgentCheckIn(t *testing.T) {
	t.Run("recovers to susceptible when resistance roll fails", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(11)
		a := &Agent{ID: 0, State: Infected, Behavior: Behavior{
			CheckFrequency:       1.0,
			RecoveryChance:       1.0,
			GainResistanceChance: 0.0,
			MinInfectionDuration: 0,
		}}
		g.Place(a, Position{X: 2, Y: 2})

		a.Tick(rng, g)
		assert.Equal(t, Susceptible, a.State)
		assert.Equal(t, 1, a.InfectedEta)
	})

	t.Run("recovers to resistant when resistance roll succeeds", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(11)
		a := &Agent{ID: 0, State: Infected, Behavior: Behavior{
			CheckFrequency:       1.0,
			RecoveryChance:       1.0,
			GainResistanceChance: 1.0,
			MinInfectionDuration: 0,
		}}
		g.Place(a, Position{X: 2, Y: 2})

		a.Tick(rng, g)
		assert.Equal(t, Resistant, a.State)
	})

	t.Run("no recovery attempt before minimum duration", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(11)
		a := &Agent{ID: 0, State: Infected, Behavior: Behavior{
			CheckFrequency:       1.0,
			RecoveryChance:       1.0,
			GainResistanceChance: 1.0,
			MinInfectionDuration: 3,
		}}
		g.Place(a, Position{X: 2, Y: 2})

		// Recovery needs eta strictly greater than the minimum duration.
		for i := 0; i < 3; i++ {
			a.Tick(rng, g)
			assert.Equal(t, Infected, a.State, "tick %d: still within minimum duration", i+1)
		}
		a.Tick(rng, g)
		assert.Equal(t, Resistant, a.State)
		assert.Equal(t, 4, a.InfectedEta)
	})

	t.Run("failed recovery stays infected", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(11)
		a := &Agent{ID: 0, State: Infected, Behavior: Behavior{
			CheckFrequency:       1.0,
			RecoveryChance:       0.0,
			MinInfectionDuration: 0,
		}}
		g.Place(a, Position{X: 2, Y: 2})

		for i := 0; i < 20; i++ {
			a.Tick(rng, g)
		}
		assert.Equal(t, Infected, a.State)
		assert.Equal(t, 20, a.InfectedEta)
	})
}

func TestAgentSurvival(t *testing.T) {
	t.Run("zero death chance never kills", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(13)
		a := &Agent{ID: 0, State: Infected, Behavior: Behavior{MinInfectionDuration: 100}}
		g.Place(a, Position{X: 2, Y: 2})

		for i := 0; i < 200; i++ {
			a.Tick(rng, g)
		}
		assert.Equal(t, Infected, a.State)
		assert.Equal(t, 200, a.InfectedEta)
	})

	t.Run("death chance one kills with the halved probability", func(t *testing.T) {
		// With DeathChance=1 the second draw always kills, so each tick is a
		// coin flip on the first draw. 200 ticks without dying is 2^-200.
		g := NewGrid(5, 5)
		rng := newTestRNG(13)
		a := &Agent{ID: 0, State: Infected, Behavior: Behavior{
			DeathChance:          1.0,
			MinInfectionDuration: 100,
		}}
		g.Place(a, Position{X: 2, Y: 2})

		for i := 0; i < 200 && a.State != Dead; i++ {
			a.Tick(rng, g)
		}
		require.Equal(t, Dead, a.State)
	})

	t.Run("dead is absorbing", func(t *testing.T) {
		g := NewGrid(5, 5)
		rng := newTestRNG(13)
		a := &Agent{ID: 0, State: Dead, Movable: true, Behavior: Behavior{
			CheckFrequency: 1.0,
			RecoveryChance: 1.0,
		}}
		g.Place(a, Position{X: 2, Y: 2})

		for i := 0; i < 50; i++ {
			a.Tick(rng, g)
		}
		assert.Equal(t, Dead, a.State)
		assert.Equal(t, 0, a.InfectedEta)
		assert.Equal(t, Position{X: 2, Y: 2}, a.Pos)
	})

	t.Run("dying skips spreading in the same tick", func(t *testing.T) {
		// DeathChance=1 halves to a coin flip per tick; once the agent dies,
		// any infection of the neighbor must have happened on an earlier,
		// surviving tick. With the neighbor re-set each tick we can observe
		// the dying tick directly.
		g := NewGrid(5, 5)
		rng := newTestRNG(17)
		a := &Agent{ID: 0, State: Infected, Behavior: Behavior{
			DeathChance:          1.0,
			SpreadChance:         1.0,
			MinInfectionDuration: 100,
		}}
		neighbor := &Agent{ID: 1, State: Susceptible}
		g.Place(a, Position{X: 2, Y: 2})
		g.Place(neighbor, Position{X: 2, Y: 3})

		for i := 0; i < 200 && a.State != Dead; i++ {
			neighbor.State = Susceptible
			a.Tick(rng, g)
		}
		require.Equal(t, Dead, a.State)
		assert.Equal(t, Susceptible, neighbor.State, "the dying tick must not spread")
	})
}
