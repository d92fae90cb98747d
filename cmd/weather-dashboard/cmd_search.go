package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/units"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var searchCmd = &cobra.Command{
	Use:   "search <city>",
	Short: "Look up a city and print its current weather",
	Long: `Geocode a city name and print its current weather. With --by-name the
weather provider resolves the name itself.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchCountry string
	searchUnit    string
	searchByName  bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchCountry, "country", "c", "", "ISO 3166 alpha-2 country code to narrow the search")
	searchCmd.Flags().StringVarP(&searchUnit, "unit", "u", string(units.Metric), "display unit: metric or imperial")
	searchCmd.Flags().BoolVar(&searchByName, "by-name", false, "let the weather provider resolve the city name")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	unit, err := units.ParseUnit(searchUnit)
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

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*cfg.HTTPTimeout)
	defer cancel()

	query := strings.Join(args, " ")
	var snap weather.Snapshot
	if searchByName {
		q := query
		if searchCountry != "" {
			q += "," + strings.ToUpper(searchCountry)
		}
		snap, err = cl.weather.CurrentByName(ctx, q)
	} else {
		snap, err = lookupByGeocoding(ctx, cl, query)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s, %s\n", snap.Name, snap.Country)
	fmt.Fprintf(out, "  %s (%s), feels like %s\n",
		units.Format(snap.Main.Temp, unit), units.Describe(snap.Main.Temp), units.Format(snap.Main.FeelsLike, unit))
	if c, ok := snap.Primary(); ok {
		fmt.Fprintf(out, "  %s\n", c.Description)
	}
	fmt.Fprintf(out, "  wind %.1f %s %s, humidity %.0f%%\n",
		units.ConvertSpeed(snap.Wind.Speed, unit), units.SpeedLabel(unit), weather.WindDirection(snap.Wind.Deg), snap.Main.Humidity)
	return nil
}

func lookupByGeocoding(ctx context.Context, cl *clients, query string) (weather.Snapshot, error) {
	places, err := cl.geocoder.Forward(ctx, query, strings.ToUpper(searchCountry))
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("search %q: %w", query, err)
	}
	if len(places) == 0 {
		return weather.Snapshot{}, fmt.Errorf("no city found for %q", query)
	}
	p := places[0]

	snap, err := cl.weather.Current(ctx, weather.Coordinates{Lat: p.Lat, Lon: p.Lon})
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("fetch weather for %s: %w", p.Name, err)
	}
	if snap.Name == "" {
		snap.Name = p.Name
	}
	if snap.Country == "" {
		snap.Country = p.Country
	}
	return snap, nil
}
