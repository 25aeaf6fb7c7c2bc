// File: internal/sim/model.go
package sim

import (
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/pabslabs/pabsim/internal/config"
)

// AgentView is the read-only per-agent projection exposed to renderers.
type AgentView struct {
	ID      int
	Pos     Position
	State   State
	Movable bool
}

// Model owns the grid, the scheduler, the shared random source and the
// metrics series, and advances the whole simulation tick by tick. The
// entire model is single-threaded: a tick runs to completion before the
// next metrics snapshot, and nothing here is safe for concurrent use.
type Model struct {
	cfg      config.SimConfig
	logger   *zap.Logger
	rng      *rand.Rand
	grid     *Grid
	schedule *RandomActivation
	agents   []*Agent
	metrics  *Collector
	ticks    int
}

// New validates the configuration and builds a fully initialized model:
// agents created and placed, outbreak seeded, and the tick-0 metrics
// baseline recorded. Configuration errors are fatal and returned as-is.
func New(cfg config.SimConfig, logger *zap.Logger) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

	m := &Model{
		cfg:      cfg,
		logger:   logger,
		rng:      rng,
		grid:     NewGrid(cfg.Width, cfg.Height),
		schedule: NewRandomActivation(rng),
		metrics:  NewCollector(),
	}

	outbreak := math.Min(cfg.InitialOutbreakFraction, 1.0)
	behavior := Behavior{
		SpreadChance:         cfg.SpreadChance,
		CheckFrequency:       cfg.CheckFrequency,
		RecoveryChance:       cfg.RecoveryChance,
		GainResistanceChance: cfg.GainResistanceChance,
		DeathChance:          cfg.DeathChance,
		MinInfectionDuration: cfg.MinInfectionDuration,
	}

	for i := 0; i < cfg.AgentCount; i++ {
		state := Susceptible
		if rng.Float64() <= outbreak {
			state = Infected
		}
		// Mobility is drawn independently of infection status; every agent
		// starts immobile until its mover roll says otherwise.
		a := &Agent{ID: i, State: state, Behavior: behavior}
		if rng.Float64() < cfg.MoversFraction {
			a.Movable = true
		}
		m.schedule.Add(a)
		m.agents = append(m.agents, a)

		pos := Position{X: rng.IntN(cfg.Width), Y: rng.IntN(cfg.Height)}
		m.grid.Place(a, pos)
	}

	// Tick-0 baseline, recorded before any Step.
	m.metrics.Append(m.Counts())

	logger.Info("model initialized",
		zap.Int64("seed", seed),
		zap.Int("agents", cfg.AgentCount),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("initial_infected", m.Counts().Infected),
	)
	return m, nil
}

// Step advances the simulation by one tick and appends a metrics snapshot.
func (m *Model) Step() {
	m.schedule.Step(m.grid)
	m.ticks++
	m.metrics.Append(m.Counts())
}

// Run calls Step exactly n times, sequentially.
func (m *Model) Run(n int) {
	for i := 0; i < n; i++ {
		m.Step()
	}
}

// Ticks returns the number of steps taken so far.
func (m *Model) Ticks() int { return m.ticks }

// Grid returns the model's grid.
func (m *Model) Grid() *Grid { return m.grid }

// Metrics returns the per-tick metrics series.
func (m *Model) Metrics() *Collector { return m.metrics }

// Counts tallies the current aggregate state counts.
func (m *Model) Counts() Counts {
	var c Counts
	for _, a := range m.agents {
		switch a.State {
		case Susceptible:
			c.Susceptible++
		case Infected:
			c.Infected++
		case Resistant:
			c.Resistant++
		case Dead:
			c.Dead++
		}
	}
	return c
}

// ResistantSusceptibleRatio reports resistant/susceptible. A population with
// zero susceptible agents is not an error; the ratio is +Inf by definition.
func (m *Model) ResistantSusceptibleRatio() float64 {
	c := m.Counts()
	if c.Susceptible == 0 {
		return math.Inf(1)
	}
	return float64(c.Resistant) / float64(c.Susceptible)
}

// Snapshot returns the read-only per-agent projection for external
// renderers: id, position, state and mobility for every agent.
func (m *Model) Snapshot() []AgentView {
	out := make([]AgentView, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, AgentView{ID: a.ID, Pos: a.Pos, State: a.State, Movable: a.Movable})
	}
	return out
}
