// File: internal/sim/state.go
package sim

// State is the epidemiological compartment an agent occupies. Exactly one
// state holds per agent at any time.
type State int

const (
	Susceptible State = iota
	Infected
	Resistant
	Dead
)

// String returns the metric-facing name of the state.
func (s State) String() string {
	switch s {
	case Susceptible:
		return "Susceptible"
	case Infected:
		return "Infected"
	case Resistant:
		return "Resistant"
	case Dead:
		return "Dead"
	default:
		return "Unknown"
	}
}
