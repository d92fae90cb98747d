package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/mapview"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print current weather for a curated city set",
	Long: `Fetch current weather for the curated cities of a country, or the default
global set when no country is given. Cities whose lookup fails are skipped.`,
	Args: cobra.NoArgs,
	RunE: runCurrent,
}

var (
	currentCountry string
	currentUnit    string
)

func init() {
	currentCmd.Flags().StringVarP(&currentCountry, "country", "c", "", "ISO 3166 alpha-2 country code of the curated set")
	currentCmd.Flags().StringVarP(&currentUnit, "unit", "u", string(units.Metric), "display unit: metric or imperial")
	rootCmd.AddCommand(currentCmd)
}

func runCurrent(cmd *cobra.Command, args []string) error {
	unit, err := units.ParseUnit(currentUnit)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cl, err := newClients(cfg, metrics.Noop{}, cfg.NewLogger())
	if err != nil {
		return err
	}

	cities := cl.cities.DefaultCities()
	if currentCountry != "" {
		cities = cl.cities.Lookup(currentCountry)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.HTTPTimeout)
	defer cancel()

	snaps := weather.CurrentBulk(ctx, cl.weather, weather.CoordinatesOf(cities))
	if len(snaps) == 0 {
		return fmt.Errorf("no weather available for %d cities", len(cities))
	}
	printCurrent(cmd.OutOrStdout(), snaps, unit)
	if skipped := len(cities) - len(snaps); skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d cities skipped\n", skipped, len(cities))
	}
	return nil
}

func printCurrent(out io.Writer, snaps []weather.Snapshot, unit units.Unit) {
	for _, s := range snaps {
		label := s.Name
		if label == "" {
			label = mapview.FormatCoordinates(s.Coord.Lat, s.Coord.Lon)
		}
		desc := ""
		if c, ok := s.Primary(); ok {
			desc = c.Description
		}
		fmt.Fprintf(out, "%-24s %6s  %s\n", label, units.Format(s.Main.Temp, unit), strings.TrimSpace(desc))
	}
}
