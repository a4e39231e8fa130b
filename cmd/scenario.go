package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pooling-sim/pooling-sim/sim/scenario"
)

var scenarioFile string // Path to an exported scenario JSON

// scenarioCmd runs the analytical what-if calculator without discrete-event
// execution
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Calculate what-if outcomes with the analytical engine",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		engine := scenario.NewEngine()
		id := engine.BaselineID()

		if scenarioFile != "" {
			data, err := os.ReadFile(scenarioFile)
			if err != nil {
				logrus.Fatalf("unable to read scenario file: %v", err)
			}
			imported, err := engine.Import(data)
			if err != nil {
				logrus.Fatalf("unable to import scenario: %v", err)
			}
			id = imported.ID
		}

		outcome, err := engine.Calculate(id)
		if err != nil {
			logrus.Fatalf("calculation failed: %v", err)
		}
		out, _ := json.MarshalIndent(outcome, "", "  ")
		fmt.Println(string(out))
	},
}

func init() {
	scenarioCmd.Flags().StringVar(&scenarioFile, "file", "",
		"Scenario JSON to calculate (defaults to the baseline)")
	scenarioCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(scenarioCmd)
}
