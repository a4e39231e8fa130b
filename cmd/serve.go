package cmd

import (
	"math/rand"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pooling-sim/pooling-sim/api"
	sim "github.com/pooling-sim/pooling-sim/sim"
	"github.com/pooling-sim/pooling-sim/sim/scenario"
)

var (
	listenAddr string // Address for the API server
	staffCount int    // Technicians on the roster
	shiftHours int    // Shift length in hours
)

// serveCmd exposes the scenario engine and on-demand runs over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the capacity-planning REST API",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		roster := sim.NewStaffRoster(staffCount, shiftHours, rand.New(rand.NewSource(seed)))
		server := api.NewServer(scenario.NewEngine(), roster)

		logrus.Infof("Serving API on %s", listenAddr)
		if err := http.ListenAndServe(listenAddr, server.Router()); err != nil {
			logrus.Fatalf("server error: %v", err)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "Listen address for the API server")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the staff roster skill mix")
	serveCmd.Flags().IntVar(&staffCount, "staff", 3, "Number of technicians on the roster")
	serveCmd.Flags().IntVar(&shiftHours, "shift-hours", 8, "Shift length in hours")

	rootCmd.AddCommand(serveCmd)
}
