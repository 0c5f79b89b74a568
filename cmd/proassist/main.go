package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/crownemmanuel/proassist/internal/broadcast"
	"github.com/crownemmanuel/proassist/internal/config"
	"github.com/crownemmanuel/proassist/internal/control"
	"github.com/crownemmanuel/proassist/internal/logging"
	"github.com/crownemmanuel/proassist/internal/relay"
	"github.com/crownemmanuel/proassist/internal/store"
)

func main() {
	root := &cobra.Command{
		Use:   "proassist",
		Short: "Live presentation synchronization hub",
	}
	root.AddCommand(serveCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var port, syncPort int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the presentation hub and the sync relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real env vars win either way.
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				log.Fatalf("Failed to load config: %v", err)
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("sync-port") {
				cfg.SyncPort = syncPort
			}

			logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
			slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "sync_port", cfg.SyncPort)

			return run(cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "presentation hub port (overrides PORT)")
	cmd.Flags().IntVar(&syncPort, "sync-port", 0, "sync relay port (overrides SYNC_PORT)")
	return cmd
}

func run(cfg *config.Config) error {
	clock := clockwork.NewRealClock()

	st := store.New(clock)
	hub := broadcast.NewHub("presentation", cfg.HubCapacity)
	controller := control.NewController(cfg, st, hub, clock)
	controller.SetAPIEnabled(cfg.APIEnabled)

	url, err := controller.Start(cfg.Port)
	if err != nil {
		slog.Error("Failed to start presentation hub", "error", err)
		return err
	}
	slog.Info("Presentation hub ready", "url", url)

	syncRelay := relay.New(clock, cfg.HubCapacity)
	syncURL, err := syncRelay.Start(cfg.SyncPort)
	if err != nil {
		slog.Error("Failed to start sync relay", "error", err)
		if stopErr := controller.Stop(); stopErr != nil {
			slog.Error("Failed to stop presentation hub", "error", stopErr)
		}
		return err
	}
	slog.Info("Sync relay ready", "url", syncURL)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutdown signal received, cleaning up...")
	if err := syncRelay.Stop(); err != nil {
		slog.Error("Sync relay stop error", "error", err)
	}
	if err := controller.Stop(); err != nil {
		slog.Error("Presentation hub stop error", "error", err)
	}
	return nil
}
