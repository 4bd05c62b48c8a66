package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/flatroutes-dev/flatroutes/internal/dev"
	"github.com/flatroutes-dev/flatroutes/pkg/flatroutes"
)

func devCmd() *cobra.Command {
	var (
		port      int
		host      string
		routesDir string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server.

The dev server watches the routes directory, recompiles the
manifest on every change, and serves it over HTTP:

  GET /manifest          current manifest as JSON
  GET /manifest/stream   manifest plus deferred statistics
  GET /routes            human-readable route tree
  GET /metrics           Prometheus metrics
  GET /ws                WebSocket feed of manifest updates

Examples:
  flatroutes dev
  flatroutes dev --port=8080
  flatroutes dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host, routesDir, verbose)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from flatroutes.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from flatroutes.json)")
	cmd.Flags().StringVarP(&routesDir, "routes", "r", "", "Routes directory (default from flatroutes.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func runDev(port int, host, routesDir string, verbose bool) error {
	cfg, err := loadConfig(routesDir)
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	printBanner()
	fmt.Println("  dev")
	fmt.Println()
	info("watching %s", cfg.RoutesPath())
	info("serving  %s", cfg.DevURL())
	fmt.Println()

	server := dev.NewServer(dev.ServerOptions{
		Config:  cfg,
		Logger:  logger,
		Metrics: dev.NewMetrics(),
		OnCompile: func(manifest flatroutes.RouteManifest, err error) {
			if err != nil {
				errorMsg("compile failed: %s", err)
				return
			}
			success("compiled %d routes", len(manifest))
		},
	})

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n\n  Shutting down...")
		cancel()
		server.Stop()
	}()

	return server.Start(ctx)
}
