// File: internal/sim/scheduler.go
package sim

import "math/rand/v2"

// RandomActivation holds the full agent set and activates every agent exactly
// once per step, in a freshly shuffled order each time. The population is
// fixed after initialization: Step never adds or removes agents, and dead
// agents remain scheduled (their tick is a near no-op).
type RandomActivation struct {
	rng    *rand.Rand
	agents []*Agent
}

// NewRandomActivation creates a scheduler drawing its shuffle order from the
// given shared random source.
func NewRandomActivation(rng *rand.Rand) *RandomActivation {
	return &RandomActivation{rng: rng}
}

// Add registers an agent with the scheduler.
func (s *RandomActivation) Add(a *Agent) {
	s.agents = append(s.agents, a)
}

// Len returns the number of scheduled agents.
func (s *RandomActivation) Len() int { return len(s.agents) }

// Agents returns the scheduled agents in registration order. The slice is
// the scheduler's own storage; callers must not mutate it.
func (s *RandomActivation) Agents() []*Agent { return s.agents }

// Step executes one simulation tick: a fresh permutation of the agent set is
// drawn from the shared rng and every agent is ticked once in that order.
func (s *RandomActivation) Step(g *Grid) {
	for _, i := range s.rng.Perm(len(s.agents)) {
		s.agents[i].Tick(s.rng, g)
	}
}
