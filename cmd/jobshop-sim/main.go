package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "jobshop-sim",
	Short: "Discrete-event job-shop simulator with predictive maintenance",
	Long: `jobshop-sim runs a tick-driven simulation of jobs routed through a fleet
of machine classes, re-planned by an Improved Hungarian Assignment scheduler
and protected by a predictive-maintenance preemption hook. Events, machine
status, and telemetry are published to a pluggable bus.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
}

// Commands are defined in separate files:
// - runCmd in run.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
