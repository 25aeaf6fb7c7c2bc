// File: cmd/watch.go
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pabslabs/pabsim/internal/config"
	"github.com/pabslabs/pabsim/internal/observability"
	"github.com/pabslabs/pabsim/internal/sim"
	"github.com/pabslabs/pabsim/internal/viz"
)

// newWatchCmd creates the `watch` command: a live terminal view of the
// simulation, stepping on a fixed interval.
func newWatchCmd() *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Runs the simulation with a live terminal view of the grid",
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
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval <= 0 {
				return fmt.Errorf("interval must be a positive duration")
			}

			model, err := sim.New(cfg.Sim, logger.Named("model"))
			if err != nil {
				return fmt.Errorf("failed to initialize model: %w", err)
			}

			viewer, err := viz.New(model, interval)
			if err != nil {
				return err
			}
			if err := viewer.Run(cmd.Context(), ticks); err != nil {
				return fmt.Errorf("viewer stopped: %w", err)
			}

			logger.Info("Watch session finished", zap.Int("ticks", model.Ticks()))
			fmt.Println(summarize(model))
			return nil
		},
	}

	watchCmd.Flags().IntP("ticks", "n", 500, "Maximum number of ticks to step.")
	watchCmd.Flags().DurationP("interval", "i", 100*time.Millisecond, "Delay between ticks.")

	return watchCmd
}
