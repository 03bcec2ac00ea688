package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-payroll/internal/attendance"
	"github.com/frahmantamala/hr-payroll/internal/auth"
	"github.com/frahmantamala/hr-payroll/internal/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/cron"
	"github.com/frahmantamala/hr-payroll/internal/payroll"
	"github.com/frahmantamala/hr-payroll/internal/transport"
	"github.com/frahmantamala/hr-payroll/internal/transport/rest"
	"github.com/frahmantamala/hr-payroll/internal/transport/swagger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	cfg := mustLoadConfig()
	if cfg.Security.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "security.jwt_secret is required to serve the API")
		os.Exit(1)
	}

	deps, err := initializeDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	openAPIPath := cfg.Server.OpenAPIPath
	if _, err := swagger.LoadSpec(context.Background(), openAPIPath); err != nil {
		lg.Warn("openapi spec not served", "path", openAPIPath, "error", err)
		openAPIPath = ""
	}

	router := setupRoutes(deps, openAPIPath)

	var scheduler *cron.Scheduler
	if cfg.Scheduler.Enabled {
		job, err := contractSweepJob(deps)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to configure scheduler: %v\n", err)
			os.Exit(1)
		}
		scheduler = cron.NewScheduler(lg)
		scheduler.AddJob(job)
		scheduler.Start()
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("Server failed to start", "error", err)
			exitCode = 1
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error("Server shutdown error", "error", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
	deps.Close(ctx)

	lg.Info("Server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func setupRoutes(deps *Dependencies, openAPIPath string) *chi.Mux {
	cfg := deps.Config
	base := transport.NewBaseHandler(deps.Logger)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterConfig{
		DB:              deps.SQL,
		Driver:          cfg.Database.Driver,
		Tokens:          auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, 0),
		AdminPermission: cfg.Security.AdminPermission,
		OpenAPIPath:     openAPIPath,
		Logger:          deps.Logger,
	}, rest.Handlers{
		Attendance: attendance.NewHandler(base, deps.Attendance),
		Payroll:    payroll.NewHandler(base, deps.Payroll),
		Contract:   contract.NewHandler(base, deps.Contracts),
	})
	return router
}
