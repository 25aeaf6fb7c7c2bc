// File: internal/sim/agent.go
package sim

import "math/rand/v2"

// Behavior holds the immutable per-agent stochastic parameters, copied from
// the run configuration when the agent is created.
type Behavior struct {
	SpreadChance         float64
	CheckFrequency       float64
	RecoveryChance       float64
	GainResistanceChance float64
	DeathChance          float64
	MinInfectionDuration int
}

// Agent is one member of the population. Agents are created once at model
// initialization and never destroyed; a dead agent stays resident on the
// grid and in the schedule, it just no longer does anything.
type Agent struct {
	ID      int
	State   State
	Pos     Position
	Movable bool

	// InfectedEta counts ticks spent infected. It accumulates over the
	// agent's whole lifetime and is never reset.
	InfectedEta int

	Behavior

	resident bool
}

// Tick advances the agent by one simulation step: movement first, then the
// infection state machine. All probabilistic draws consume the shared rng in
// a fixed order so that seeded runs replay identically.
func (a *Agent) Tick(rng *rand.Rand, g *Grid) {
	a.move(rng, g)
	if a.State != Infected {
		return
	}
	a.InfectedEta++
	if !a.survive(rng) {
		// Death ends the tick; no spreading, no check-in.
		return
	}
	a.infectNeighbors(rng, g)
	a.checkSituation(rng)
}

// move relocates a movable, living agent to a uniformly chosen Moore
// neighbor cell. The candidate set excludes the current cell, so a move
// always changes position.
func (a *Agent) move(rng *rand.Rand, g *Grid) {
	if !a.Movable || a.State == Dead {
		return
	}
	steps := g.NeighborPositions(a.Pos)
	if len(steps) == 0 {
		// Single-cell grid: nowhere to go.
		return
	}
	g.Move(a, steps[rng.IntN(len(steps))])
}

// survive rolls the per-tick survival check. Two independent draws gate the
// transition, so the effective per-tick death probability is DeathChance/2,
// not DeathChance. The halving is intentional.
func (a *Agent) survive(rng *rand.Rand) bool {
	if rng.Float64() <= 0.5 && rng.Float64() < a.DeathChance {
		a.State = Dead
		return false
	}
	return true
}

// infectNeighbors attempts to infect every currently susceptible Moore
// neighbor. Transitions apply in place, so an agent activated later in the
// same tick already sees them.
func (a *Agent) infectNeighbors(rng *rand.Rand, g *Grid) {
	for _, n := range g.Neighbors(a.Pos, false) {
		if n.State != Susceptible {
			continue
		}
		if rng.Float64() < a.SpreadChance {
			n.State = Infected
		}
	}
}

// checkSituation is the periodic check-in: with probability CheckFrequency
// the agent evaluates whether to clear its infection. Recovery is only
// possible once the infection has outlasted MinInfectionDuration, and a
// successful recovery immediately rolls for permanent resistance.
func (a *Agent) checkSituation(rng *rand.Rand) {
	if rng.Float64() >= a.CheckFrequency {
		return
	}
	if a.InfectedEta <= a.MinInfectionDuration {
		return
	}
	if rng.Float64() < a.RecoveryChance {
		a.State = Susceptible
		if rng.Float64() < a.GainResistanceChance {
			a.State = Resistant
		}
	} else {
		// Failed recovery: the agent stays infected.
		a.State = Infected
	}
}
