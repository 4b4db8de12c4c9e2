package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/larkery/tank-model/service"
	"github.com/larkery/tank-model/tank"
)

var (
	// CLI flags for the tank daemon
	configPath     string        // Optional YAML tank configuration file
	snapshotPath   string        // State snapshot file, restored on startup ("" disables persistence)
	listenAddr     string        // HTTP listen address
	updateInterval time.Duration // Model tick cadence
	logLevel       string        // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "tank-model",
	Short: "Thermal simulator for a stratified hot-water storage tank",
}

// runCmd starts the tank daemon: the periodic model tick and the HTTP API
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tank simulation daemon",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := LoadTankConfig(configPath)
		tk, err := tank.New(cfg)
		if err != nil {
			logrus.Fatalf("Constructing tank: %v", err)
		}
		logrus.Infof("Starting %d-layer %.0f L tank, heaters at layers %v, thermostat %.1f",
			cfg.Layers, cfg.VolumeLiters, cfg.HeaterLayers(), cfg.Thermostat)

		metrics := service.NewMetrics()
		svc := service.New(tk, service.Config{
			UseTemperature: cfg.UseTemperature,
			SnapshotPath:   snapshotPath,
		}, metrics)

		if snapshotPath != "" {
			if snap, err := tank.LoadSnapshot(snapshotPath); err != nil {
				logrus.Infof("No snapshot restored (%v), starting from inlet temperature", err)
			} else if err := svc.RestoreSnapshot(snap); err != nil {
				logrus.Fatalf("Restoring snapshot: %v", err)
			} else {
				logrus.Infof("Restored %d layers from %s (last update %s)",
					len(snap.Temperatures), snapshotPath, snap.LastUpdate.Format(time.RFC3339))
			}
		}
		// catch up across any downtime since the snapshot was taken
		if err := svc.Tick(); err != nil {
			logrus.Fatalf("Initial tick: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := &http.Server{
			Addr:    listenAddr,
			Handler: service.Handler(service.NewRouter(svc, metrics)),
		}
		go func() {
			logrus.Infof("HTTP API listening on %s", listenAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logrus.Fatalf("HTTP server: %v", err)
			}
		}()

		svc.Run(ctx, updateInterval)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.Warnf("HTTP shutdown: %v", err)
		}
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Tank configuration YAML file (defaults used when empty)")
	runCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Snapshot file for state persistence across restarts")
	runCmd.Flags().StringVar(&listenAddr, "listen", ":8095", "HTTP listen address")
	runCmd.Flags().DurationVar(&updateInterval, "update-interval", 120*time.Second, "Model tick cadence")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
