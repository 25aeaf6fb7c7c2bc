// File: internal/report/chart_test.go
package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pabslabs/pabsim/internal/sim"
)

func TestWriteChart(t *testing.T) {
	series := []sim.Counts{
		{Susceptible: 95, Infected: 5},
		{Susceptible: 80, Infected: 20},
		{Susceptible: 60, Infected: 35, Dead: 5},
		{Susceptible: 50, Infected: 30, Resistant: 12, Dead: 8},
	}
	path := filepath.Join(t.TempDir(), "curve.png")

	require.NoError(t, WriteChart(series, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0), "chart file must not be empty")
}

func TestWriteChartRejectsShortSeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.png")

	err := WriteChart([]sim.Counts{{Susceptible: 1}}, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least two snapshots")
}
