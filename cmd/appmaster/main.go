package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nemanja-m/amstatus/internal/appmaster/api/grpc"
	"github.com/nemanja-m/amstatus/internal/appmaster/api/rest"
	"github.com/nemanja-m/amstatus/internal/appmaster/service"
	"github.com/nemanja-m/amstatus/internal/appmaster/storage"
	"github.com/nemanja-m/amstatus/internal/shared/config"
	"github.com/nemanja-m/amstatus/internal/shared/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.LoadAppMaster(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	startedOn := time.Now()

	registry := storage.NewInMemoryJobRegistry(logger)
	if cfg.Model.Snapshot != "" {
		n, err := storage.LoadSnapshot(cfg.Model.Snapshot, registry)
		if err != nil {
			logger.Fatal("Failed to load job snapshot", "path", cfg.Model.Snapshot, "error", err)
		}
		logger.Info("Loaded job snapshot", "path", cfg.Model.Snapshot, "jobs", n)
	}

	api := rest.NewAPI(
		service.NewResolver(registry, logger),
		service.NewAccessGuard(cfg.Auth.RequireAuthentication),
		service.NewMutationService(registry, logger),
		storage.NewFileConfLoader(cfg.Model.StagingDir),
		rest.AppDescriptor{
			ID:        cfg.App.ID,
			Name:      cfg.App.Name,
			User:      cfg.App.User,
			StartedOn: startedOn,
		},
		logger,
	)
	httpServer := rest.NewServer(cfg.REST, cfg.Auth, api, logger)
	grpcServer := grpc.NewServer(cfg.GRPC, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		registry.RunDispatcher(ctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting REST API server", "addr", cfg.REST.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return grpcServer.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down servers")
		grpcServer.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	grpcServer.SetServing(true)

	if err := g.Wait(); err != nil {
		logger.Fatal("Server error", "error", err)
	}
	logger.Info("Servers stopped")
}
