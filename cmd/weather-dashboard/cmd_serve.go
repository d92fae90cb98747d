package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/mapview"
	"github.com/i474232898/weather-dashboard/internal/metrics"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long:  `Start the HTTP API serving the dashboard and map stores.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := cfg.NewLogger()

	var rec metrics.Recorder = metrics.Noop{}
	var prom *metrics.Prometheus
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheus()
		rec = prom
	}

	cl, err := newClients(cfg, rec, log)
	if err != nil {
		return err
	}

	kv, err := store.NewFileKV(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("open state dir: %w", err)
	}

	dash := dashboard.New(dashboard.Deps{
		Weather:   cl.weather,
		Geocoder:  cl.geocoder,
		Persister: dashboard.NewKVPersister(kv, cfg.StateKey),
		Logger:    log,
		Metrics:   rec,
	})
	maps := mapview.New(mapview.Deps{
		Weather:       cl.weather,
		Geocoder:      cl.geocoder,
		Cities:        cl.cities,
		LocateTimeout: cfg.GeolocationTimeout,
		Logger:        log,
		Metrics:       rec,
	})

	initCtx, cancelInit := context.WithTimeout(cmd.Context(), 2*cfg.HTTPTimeout)
	maps.Init(initCtx)
	if cfg.RefreshInterval <= 0 {
		dash.RefreshWeatherData(initCtx)
	}
	cancelInit()

	sched := scheduler.New(dash, cfg.RefreshInterval, 2*cfg.HTTPTimeout, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp("weather-dashboard", cfg.HTTPTimeout)
	app.Use(logger.New())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// event streams end as soon as shutdown starts
	opts := httpapi.Options{Dashboard: dash, Map: maps, OpTimeout: 2 * cfg.HTTPTimeout, Streams: ctx}
	if prom != nil {
		opts.Metrics = prom.Handler()
	}
	httpapi.RegisterRoutes(app, opts)

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("http server listening")
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	dash.Wait()
	return nil
}
