// File: internal/report/chart.go
package report

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pabslabs/pabsim/internal/sim"
)

// Epidemic-curve palette, one color per compartment. Matches the portrayal
// used by the grid animation and terminal viewer.
var (
	colorInfected    = chart.ColorRed
	colorSusceptible = chart.ColorGreen
	colorResistant   = chart.ColorBlue
	colorDead        = drawing.Color{R: 0, G: 0, B: 0, A: 255}
)

// WriteChart renders the per-tick metric series as a PNG epidemic curve with
// one line per aggregate count. The X axis is the tick number, entry 0 being
// the post-initialization baseline.
func WriteChart(series []sim.Counts, path string) error {
	if len(series) < 2 {
		return fmt.Errorf("chart needs at least two snapshots, got %d", len(series))
	}

	ticks := make([]float64, len(series))
	infected := make([]float64, len(series))
	susceptible := make([]float64, len(series))
	resistant := make([]float64, len(series))
	dead := make([]float64, len(series))
	for i, c := range series {
		ticks[i] = float64(i)
		infected[i] = float64(c.Infected)
		susceptible[i] = float64(c.Susceptible)
		resistant[i] = float64(c.Resistant)
		dead[i] = float64(c.Dead)
	}

	graph := chart.Chart{
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			Name: "Tick",
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(len(series) - 1)},
		},
		YAxis: chart.YAxis{
			Name: "Agents",
		},
		Series: []chart.Series{
			line("Infected", ticks, infected, colorInfected),
			line("Susceptible", ticks, susceptible, colorSusceptible),
			line("Resistant", ticks, resistant, colorResistant),
			line("Dead", ticks, dead, colorDead),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func line(name string, xs, ys []float64, color drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 2.0,
		},
	}
}
