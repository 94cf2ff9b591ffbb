package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/sync/errgroup"

	httpserver "github.com/yungbote/udl-lesson-backend/internal/http"
	"github.com/yungbote/udl-lesson-backend/internal/observability"
	"github.com/yungbote/udl-lesson-backend/internal/platform/logger"
)

const Version = "3.0"

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Services Services
	Server   *httpserver.Server

	closeArtifacts func() error
	otelShutdown   func(context.Context) error
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// Option adjusts the loaded configuration before anything is wired.
type Option func(*Config)

// New wires everything the lesson service needs without serving yet.
func New(ctx context.Context, log *logger.Logger, opts ...Option) (*App, error) {
	LoadEnvFile(log)
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)
	for _, opt := range opts {
		opt(&cfg)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     Version,
	})

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = otelShutdown(ctx)
		return nil, err
	}
	store, closeArtifacts, err := resolveArtifactStore(ctx, log, cfg)
	if err != nil {
		_ = clients.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}
	services, err := wireServices(log, cfg, clients, store)
	if err != nil {
		_ = closeArtifacts()
		_ = clients.Close()
		_ = otelShutdown(ctx)
		return nil, err
	}
	handlers := wireHandlers(log, cfg, services)
	server := wireServer(log, cfg, handlers)

	return &App{
		Log:            log,
		Cfg:            cfg,
		Clients:        clients,
		Services:       services,
		Server:         server,
		closeArtifacts: closeArtifacts,
		otelShutdown:   otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	addr := net.JoinHostPort("", a.Cfg.Port)
	g.Go(func() error {
		a.Log.Info("Starting server", "addr", addr, "environment", a.Cfg.Environment)
		return a.Server.Run(addr)
	})
	if a.Services.Catalog != nil {
		g.Go(func() error {
			if err := a.Services.Catalog.Watch(gctx); err != nil {
				a.Log.Warn("Catalog watcher stopped", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Cfg.ShutdownTimeout)
		defer cancel()
		a.Log.Info("Shutting down server")
		return a.Server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if err := a.Clients.Close(); err != nil {
		a.Log.Warn("Failed to close session store", "error", err)
	}
	if a.closeArtifacts != nil {
		if err := a.closeArtifacts(); err != nil {
			a.Log.Warn("Failed to close artifact store", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("Failed to flush traces", "error", err)
		}
	}
	a.Log.Sync()
}
