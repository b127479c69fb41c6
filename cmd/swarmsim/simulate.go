package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"swarmsim/internal/config"
	"swarmsim/internal/logging"
	"swarmsim/internal/scenario"
	"swarmsim/internal/sim"
	"swarmsim/internal/world"
)

var (
	simPrintOnly    bool
	simColor        bool
	simConfigPath   string
	simScenarioPath string
	simTerrainPath  string
	simTick         time.Duration
	simLogFile      string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time swarm simulator",
	Long:  "simulate starts a battlespace run emitting per-tick telemetry, engagement, and swarm event logs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New()

		cfg, err := config.Load(simConfigPath)
		if err != nil {
			return err
		}

		var terrain *world.TerrainGrid
		if simTerrainPath != "" {
			terrain, err = world.LoadTerrainFile(simTerrainPath)
			if err != nil {
				return err
			}
		}

		var scn *scenario.Scenario
		if simScenarioPath != "" {
			scn, err = scenario.Load(simScenarioPath)
			if err != nil {
				return err
			}
		}

		writers, cleanup, err := newWriters(simPrintOnly, simColor, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		stepper, err := sim.NewStepper(cfg, terrain, scn, writers, tickInterval)
		if err != nil {
			return err
		}
		if err := stepper.Start(); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), log))
		defer cancel()

		done := make(chan struct{})
		go func() {
			stepper.Run(ctx)
			close(done)
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigs:
			cancel()
			<-done
		case <-done:
		}

		log.Info("simulation stopped",
			"run_id", stepper.RunID(),
			"steps", stepper.StepCount(),
			"reason", string(stepper.CompletionReason()))
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simColor, "color", false, "Render a styled terminal view instead of JSON lines")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simScenarioPath, "scenario", "", "Path to scenario YAML with fixed placements")
	simulateCmd.Flags().StringVar(&simTerrainPath, "terrain", "", "Path to terrain grid YAML")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Simulation tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export telemetry/engagement logs (JSONL)")
}
