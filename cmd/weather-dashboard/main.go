package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weather-dashboard",
	Short: "Weather dashboard backend",
	Long: `weather-dashboard tracks a list of cities and their current weather,
shows curated cities on a map around the user's location and serves both
over a JSON API.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
