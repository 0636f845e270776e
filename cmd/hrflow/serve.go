package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/peoplehub/hrflow"
	"github.com/peoplehub/hrflow/internal/config"
	httpadapter "github.com/peoplehub/hrflow/pkg/adapters/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Starts the workflow engine behind a JSON API over HTTP, with Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading configuration: %v\n", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}

		svc, registry, cleanup, err := buildService(cfg)
		if err != nil {
			fmt.Printf("Error initializing hrflow: %v\n", err)
			os.Exit(1)
		}
		defer cleanup()

		handler := httpadapter.NewHandler(svc,
			httpadapter.WithLogger(slog.Default()),
			httpadapter.WithMetrics(registry),
		)

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: handler,
		}

		sweepCtx, stopSweep := context.WithCancel(context.Background())
		defer stopSweep()
		if cfg.SessionIdleTTL > 0 {
			go sweepIdleSessions(sweepCtx, svc, cfg.SessionIdleTTL, cfg.SweepInterval)
		}

		serverErrors := make(chan error, 1)
		go func() {
			fmt.Printf("Starting HRFlow Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("HRFlow Server stopped gracefully")
		}
	},
}

// sweepIdleSessions periodically evicts conversations idle beyond the
// TTL.
func sweepIdleSessions(ctx context.Context, svc *hrflow.Service, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted, err := svc.SweepIdle(ctx, maxAge)
			if err != nil {
				slog.Warn("idle session sweep failed", "error", err)
				continue
			}
			if len(evicted) > 0 {
				slog.Info("evicted idle sessions", "count", len(evicted))
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
