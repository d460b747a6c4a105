package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"employee-api/internal/employee/handler"
	"employee-api/internal/employee/models"
	"employee-api/internal/employee/service"
	"employee-api/internal/employee/store"
	"employee-api/internal/platform/config"
	"employee-api/internal/platform/database"
	"employee-api/internal/platform/httpserver"
	"employee-api/internal/platform/logger"
	"employee-api/internal/platform/metrics"
	"employee-api/internal/platform/tracing"
	httptransport "employee-api/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()
	cmd := &cobra.Command{
		Use:           "employee-api",
		Short:         "Employee directory HTTP service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.AddCommand(serve, newMigrateCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the employees schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			log.Info("schema migrated", "driver", cfg.Database.Driver)
			return nil
		},
	}
}

// serve wires dependencies and runs the server until ctx is cancelled.
func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	m := metrics.New()
	employees := service.New(
		store.New(db.Gorm, store.WithTxTimeout(cfg.Database.TxTimeout)),
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithQueryExecutor(models.MechanismSpec, store.NewSpecQuery(db.Gorm)),
		service.WithQueryExecutor(models.MechanismTemplate, store.NewTemplateQuery(db.Gorm)),
		service.WithQueryExecutor(models.MechanismNative, store.NewNativeQuery(db.SQL)),
	)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:         log,
		Metrics:        m,
		RequestTimeout: cfg.RequestTimeout,
		Health:         db.Health,
	}, handler.New(employees, log))

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting employee-api", "addr", cfg.Addr, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return shutdownTracing(shutdownCtx)
	})
	return g.Wait()
}
