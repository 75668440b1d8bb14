package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice-insights-backend/logger"
	"invoice-insights-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. When AUTO_SEED is true and the invoice table is
empty the demo dataset is loaded first. The payment alert scheduler runs
alongside the server when Twilio is configured.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if a.cfg.AutoSeed {
		seeded, err := a.seeder.SeedIfEmpty(ctx)
		if err != nil {
			a.log.Error("auto-seed failed", logger.FieldError, err)
		} else if seeded {
			a.log.Info("empty database seeded with demo data")
		}
	}

	if a.alerts.Enabled() {
		scheduler, err := a.alerts.StartScheduler(a.cfg.AlertCron)
		if err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	r := routes.SetupRouter(routes.Deps{
		Config:    a.cfg,
		DB:        a.db,
		Log:       a.log,
		Analytics: a.analytics,
		Chat:      a.chat,
		Seeder:    a.seeder,
		Alerts:    a.alerts,
	})
	printRoutes(a.log, r)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func printRoutes(log *logger.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		log.Debug("route", logger.FieldMethod, route.Method, logger.FieldPath, route.Path)
	}
}
