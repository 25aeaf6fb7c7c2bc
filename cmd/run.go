// File: cmd/run.go
package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pabslabs/pabsim/internal/config"
	"github.com/pabslabs/pabsim/internal/observability"
	"github.com/pabslabs/pabsim/internal/report"
	"github.com/pabslabs/pabsim/internal/sim"
)

// newRunCmd creates and configures the `run` command: a headless simulation
// run with optional chart and animation outputs.
func newRunCmd() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs the simulation headless for a fixed number of ticks",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind override flags to their viper keys so CLI flags take
			// precedence over config file and environment values.
			bindings := map[string]string{
				"sim.agent_count":               "agents",
				"sim.width":                     "width",
				"sim.height":                    "height",
				"sim.initial_outbreak_fraction": "outbreak",
				"sim.movers_fraction":           "movers",
				"sim.seed":                      "seed",
			}
			for key, flag := range bindings {
				if cmd.Flags().Changed(flag) {
					if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
						return err
					}
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()

			cfg, err := config.NewConfigFromViper(viper.GetViper())
			if err != nil {
				return err
			}

			ticks, _ := cmd.Flags().GetInt("ticks")
			if ticks <= 0 {
				return fmt.Errorf("ticks must be a positive integer")
			}
			chartPath, _ := cmd.Flags().GetString("chart")
			animationPath, _ := cmd.Flags().GetString("animation")

			runID := uuid.New().String()
			logger.Info("Starting simulation run",
				zap.String("runID", runID),
				zap.Int("ticks", ticks),
				zap.Int("agents", cfg.Sim.AgentCount),
				zap.Int("width", cfg.Sim.Width),
				zap.Int("height", cfg.Sim.Height),
			)

			model, err := sim.New(cfg.Sim, logger.Named("model"))
			if err != nil {
				return fmt.Errorf("failed to initialize model: %w", err)
			}

			// The animation replays every tick, so per-tick snapshots are
			// retained only when requested.
			var history [][]sim.AgentView
			if animationPath != "" {
				history = append(history, model.Snapshot())
			}

			started := time.Now()
			for i := 0; i < ticks; i++ {
				model.Step()
				if animationPath != "" {
					history = append(history, model.Snapshot())
				}
			}
			logger.Info("Simulation run complete",
				zap.String("runID", runID),
				zap.Duration("elapsed", time.Since(started)),
				zap.Int("infected", model.Counts().Infected),
				zap.Int("dead", model.Counts().Dead),
			)

			// Render outputs in parallel; the engine itself stays serial.
			var group errgroup.Group
			if chartPath != "" {
				group.Go(func() error {
					return report.WriteChart(model.Metrics().Series(), chartPath)
				})
			}
			if animationPath != "" {
				group.Go(func() error {
					return writeAnimation(animationPath, cfg, history)
				})
			}
			if err := group.Wait(); err != nil {
				return fmt.Errorf("failed to render outputs: %w", err)
			}
			if chartPath != "" {
				logger.Info("Chart written", zap.String("path", chartPath))
			}
			if animationPath != "" {
				logger.Info("Animation written", zap.String("path", animationPath))
			}

			fmt.Printf("\nRun Complete. Run ID: %s\n%s\n", runID, summarize(model))
			return nil
		},
	}

	runCmd.Flags().IntP("ticks", "n", 100, "Number of simulation ticks to run.")
	runCmd.Flags().String("chart", "", "Output path for the epidemic-curve PNG. If unset, no chart is generated.")
	runCmd.Flags().String("animation", "", "Output path for the grid animation (MJPEG AVI). If unset, no animation is generated.")

	// Simulation override flags.
	runCmd.Flags().IntP("agents", "a", 0, "Number of agents. (Overrides config/env)")
	runCmd.Flags().Int("width", 0, "Grid width. (Overrides config/env)")
	runCmd.Flags().Int("height", 0, "Grid height. (Overrides config/env)")
	runCmd.Flags().Float64("outbreak", 0, "Initial outbreak fraction. (Overrides config/env)")
	runCmd.Flags().Float64("movers", 0, "Movers fraction. (Overrides config/env)")
	runCmd.Flags().Int64("seed", 0, "Random seed; 0 derives one from the clock. (Overrides config/env)")

	return runCmd
}

// writeAnimation replays the retained per-tick snapshots into an MJPEG file.
func writeAnimation(path string, cfg *config.Config, history [][]sim.AgentView) error {
	animator, err := report.NewAnimator(path, cfg.Sim.Width, cfg.Sim.Height, cfg.Report.CellSize, cfg.Report.FrameRate)
	if err != nil {
		return err
	}
	for _, frame := range history {
		if err := animator.AddFrame(frame); err != nil {
			animator.Close()
			return err
		}
	}
	return animator.Close()
}

// summarize renders the end-of-run text block: ratio, infected remaining,
// total dead and total survived.
func summarize(m *sim.Model) string {
	counts := m.Counts()
	ratio := m.ResistantSusceptibleRatio()
	ratioText := "inf"
	if !math.IsInf(ratio, 1) {
		ratioText = fmt.Sprintf("%.2f", ratio)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resistant/Susceptible Ratio: %s\n", ratioText)
	fmt.Fprintf(&b, "Infected Remaining: %d\n", counts.Infected)
	fmt.Fprintf(&b, "Total deads: %d\n", counts.Dead)
	fmt.Fprintf(&b, "Total survived: %d", counts.Infected+counts.Susceptible+counts.Resistant)
	return b.String()
}
