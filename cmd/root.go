package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/pooling-sim/pooling-sim/sim"
)

var (
	// CLI flags for the simulation run
	seed                int64   // Seed for all random streams
	horizonSeconds      float64 // Total simulated time (in seconds)
	meanInterArrival    float64 // Mean batch inter-arrival time (in seconds)
	logLevel            string  // Log verbosity level
	enableFailures      bool    // Run background failure/repair processes
	mtbfSeconds         float64 // Mean time between failures (in seconds)
	mttrSeconds         float64 // Mean time to repair (in seconds)
	repairBlocksAcquire bool    // Under-repair devices stop granting slots
	deviceConfigPath    string  // Optional YAML file with per-stage unit counts
	devicePreset        string  // Named preset within the YAML file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "pooling-sim",
	Short: "Discrete-event simulator for the platelet pooling line",
}

// runCmd executes one simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pooling line simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		cfg.Seed = seed
		cfg.HorizonSeconds = horizonSeconds
		cfg.MeanInterArrivalSeconds = meanInterArrival
		cfg.EnableFailures = enableFailures
		cfg.MTBFSeconds = mtbfSeconds
		cfg.MTTRSeconds = mttrSeconds
		cfg.RepairBlocksAcquire = repairBlocksAcquire

		if deviceConfigPath != "" {
			counts, err := GetDeviceConfig(deviceConfigPath, devicePreset)
			if err != nil {
				logrus.Fatalf("unable to read device config: %v", err)
			}
			if counts != nil {
				cfg.DeviceCounts = counts
			}
		}

		logrus.Infof("Starting simulation: horizon=%.0fs, arrival mean=%.0fs, seed=%d",
			cfg.HorizonSeconds, cfg.MeanInterArrivalSeconds, cfg.Seed)

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}
		s.Run()
		s.Snapshot().Print()

		logrus.Info("Simulation complete.")
	},
}

func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic replay")
	runCmd.Flags().Float64Var(&horizonSeconds, "horizon", 28800, "Simulated duration in seconds")
	runCmd.Flags().Float64Var(&meanInterArrival, "arrival-mean", 300, "Mean batch inter-arrival time in seconds")
	runCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&enableFailures, "failures", false, "Enable device failure/repair processes")
	runCmd.Flags().Float64Var(&mtbfSeconds, "mtbf", 14400, "Mean time between failures in seconds")
	runCmd.Flags().Float64Var(&mttrSeconds, "mttr", 1800, "Mean time to repair in seconds")
	runCmd.Flags().BoolVar(&repairBlocksAcquire, "repair-blocks-acquire", false,
		"Devices under repair stop granting slots (reference behavior keeps granting)")
	runCmd.Flags().StringVar(&deviceConfigPath, "device-config", "", "YAML file with per-stage device counts")
	runCmd.Flags().StringVar(&devicePreset, "device-preset", "default", "Preset name within the device config file")

	rootCmd.AddCommand(runCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
