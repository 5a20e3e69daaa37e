package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "raptor",
	Short:        "RAPTOR transit journey planner",
	Long:         "Plans earliest-arrival transit journeys over a GTFS static feed",
	SilenceUsage: true,
}

var (
	serviceID           string
	maxTransfers        int
	departureTime       string
	defaultTransferSecs int64
	verbose             bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&serviceID, "service", "s", "", "restrict to one GTFS service id (default: all trips)")
	rootCmd.PersistentFlags().IntVarP(&maxTransfers, "max-transfers", "k", 6, "maximum number of trip boardings")
	rootCmd.PersistentFlags().StringVarP(&departureTime, "depart-at", "t", "08:00:00", "departure time, HH:MM:SS")
	rootCmd.PersistentFlags().Int64Var(&defaultTransferSecs, "default-transfer-time", 300, "walking transfer time (seconds) when the feed doesn't specify one")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log feed construction progress")
	rootCmd.AddCommand(planCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	if !verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
