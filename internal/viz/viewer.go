// File: internal/viz/viewer.go
package viz

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pabslabs/pabsim/internal/sim"
)

// Portrayal styles, matching the report palette: red infected, green
// susceptible, blue resistant, gray dead.
var (
	styleDefault     = tcell.StyleDefault
	styleInfected    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSusceptible = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleResistant   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleDead        = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Viewer steps a model on a fixed interval and draws the grid into a
// terminal screen. Controls: space pauses, q or ESC quits.
type Viewer struct {
	screen   tcell.Screen
	model    *sim.Model
	interval time.Duration
}

// New allocates a real terminal screen and wraps it in a viewer.
func New(model *sim.Model, interval time.Duration) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return NewWithScreen(model, interval, screen), nil
}

// NewWithScreen wraps an already initialized screen. Used by tests with a
// tcell simulation screen.
func NewWithScreen(model *sim.Model, interval time.Duration, screen tcell.Screen) *Viewer {
	return &Viewer{screen: screen, model: model, interval: interval}
}

// Run drives the view loop until the user quits or the context is canceled.
// The model is stepped at most maxTicks times; after that the final state
// stays on screen until quit.
func (v *Viewer) Run(ctx context.Context, maxTicks int) error {
	defer v.screen.Fini()

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				// Screen finalized.
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	paused := false
	v.Draw(paused)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					return nil
				case ev.Rune() == 'q':
					return nil
				case ev.Rune() == ' ':
					paused = !paused
					v.Draw(paused)
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
		case <-ticker.C:
			if !paused && v.model.Ticks() < maxTicks {
				v.model.Step()
				v.Draw(paused)
			}
		}
	}
}

// Draw renders the status line and the grid once.
func (v *Viewer) Draw(paused bool) {
	v.screen.Clear()

	counts := v.model.Counts()
	status := fmt.Sprintf("tick %d  I:%d S:%d R:%d D:%d  R/S:%s",
		v.model.Ticks(), counts.Infected, counts.Susceptible, counts.Resistant, counts.Dead,
		formatRatio(v.model.ResistantSusceptibleRatio()))
	if paused {
		status += "  [paused]"
	}
	drawText(v.screen, 0, 0, styleDefault, status)

	// One rune per cell; the dominant occupant decides the cell's color.
	type cellView struct {
		state sim.State
		rank  int
	}
	cells := make(map[sim.Position]cellView)
	for _, a := range v.model.Snapshot() {
		r := stateRank(a.State)
		if prev, ok := cells[a.Pos]; ok && prev.rank >= r {
			continue
		}
		cells[a.Pos] = cellView{state: a.State, rank: r}
	}
	for pos, cv := range cells {
		v.screen.SetContent(pos.X, pos.Y+1, '█', nil, stateStyle(cv.state))
	}

	v.screen.Show()
}

func formatRatio(r float64) string {
	if math.IsInf(r, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", r)
}

// stateRank mirrors the portrayal layering: dead draws over infected, which
// draws over resistant and susceptible.
func stateRank(s sim.State) int {
	switch s {
	case sim.Dead:
		return 3
	case sim.Infected:
		return 2
	case sim.Resistant:
		return 1
	default:
		return 0
	}
}

func stateStyle(s sim.State) tcell.Style {
	switch s {
	case sim.Infected:
		return styleInfected
	case sim.Resistant:
		return styleResistant
	case sim.Dead:
		return styleDead
	default:
		return styleSusceptible
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
