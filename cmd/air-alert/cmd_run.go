package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-air-alerts/internal/api"
	"github.com/mr1hm/go-air-alerts/internal/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run notification cycles until interrupted",
	Long: `Run executes a notification cycle, sleeps for CYCLE_INTERVAL and repeats.
Each cycle waits for both extracts to appear. A malformed extract stops the
process with a non-zero exit code.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var srv *http.Server
	if cfg.Server.Enabled {
		gin.SetMode(gin.ReleaseMode)
		srv = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: api.NewRouter(a.tracker, cfg.Server.RateLimit),
		}

		go func() {
			slog.Info("server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logging.Fatalf("server error: %v", err)
			}
		}()
	}

	runErr := a.runner.Run(ctx)

	slog.Info("shutting down...")

	if srv != nil {
		// Streams only end once the tracker closes their channels.
		a.tracker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	slog.Info("shutdown complete")
	return nil
}
