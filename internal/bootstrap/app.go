package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/posrelay/internal/auth"
	"github.com/osse101/posrelay/internal/catalog"
	"github.com/osse101/posrelay/internal/config"
	"github.com/osse101/posrelay/internal/customer"
	"github.com/osse101/posrelay/internal/handler"
	"github.com/osse101/posrelay/internal/relay"
	"github.com/osse101/posrelay/internal/sales"
	"github.com/osse101/posrelay/internal/server"
	"github.com/osse101/posrelay/internal/sse"
	"github.com/osse101/posrelay/internal/stores"
)

// App is the fully wired relay service
type App struct {
	Server     *server.Server
	Relay      *relay.Hub
	Events     *sse.Hub
	Catalog    *catalog.Service
	Sales      *sales.Service
	Stores     *stores.Service
	deadLetter *sales.FileDeadLetter
	repos      *Repositories
}

// Build opens persistence, wires services, hubs and event subscribers, seeds
// defaults and returns an App ready to Run. Hubs are started here so the
// router can be exercised before the listener is up.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	repos, err := InitializeRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus, deadLetter, err := InitializeEventSystem(cfg)
	if err != nil {
		repos.DB.Close()
		return nil, err
	}

	tokens := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	catalogSvc := catalog.NewService(repos.Catalog, bus, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)
	var dl sales.DeadLetter
	if deadLetter != nil {
		dl = deadLetter
	}
	salesSvc := sales.NewService(repos.Sales, bus, dl)
	storeSvc := stores.NewService(repos.Stores, 0)
	customerSvc := customer.NewService(repos.Customers)
	authSvc := auth.NewService(cfg.MasterHash, cfg.AdminHash, tokens)

	relayHub := relay.NewHub(catalogSvc, tokens, relay.Options{AllowedOrigins: cfg.CORSOrigins})
	events := sse.NewHub()
	RegisterEventHandlers(EventHandlerDependencies{EventBus: bus, Relay: relayHub, Events: events})

	app := &App{
		Relay:      relayHub,
		Events:     events,
		Catalog:    catalogSvc,
		Sales:      salesSvc,
		Stores:     storeSvc,
		deadLetter: deadLetter,
		repos:      repos,
	}

	if err := SeedDefaults(ctx, cfg, catalogSvc, storeSvc); err != nil {
		app.closeStorage()
		return nil, err
	}

	relayHub.Start()
	events.Start()

	app.Server = server.NewServer(server.Options{
		Port: cfg.Port,
		Info: handler.ServerInfo{
			IP:        handler.DetectLocalIP(),
			Port:      cfg.Port,
			PublicURL: cfg.PublicURL,
		},
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		CORSOrigins: cfg.CORSOrigins,
	}, server.Services{
		Catalog:   catalogSvc,
		Sales:     salesSvc,
		Stores:    storeSvc,
		Customers: customerSvc,
		Auth:      authSvc,
		Tokens:    tokens,
		Relay:     relayHub,
		Events:    events,
		DBPool:    repos.DB,
	})

	return app, nil
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// every component within ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info(LogMsgShutdownSignal)
	case err, ok := <-errCh:
		if ok {
			slog.Error(LogMsgServerFailed, "error", err)
			runErr = err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	a.Shutdown(shutdownCtx)
	return runErr
}

// Shutdown releases every component
func (a *App) Shutdown(ctx context.Context) {
	c := ShutdownComponents{
		Server: a.Server,
		Relay:  a.Relay,
		Events: a.Events,
		DB:     a.repos.DB,
	}
	if a.deadLetter != nil {
		c.DeadLetter = a.deadLetter
	}
	GracefulShutdown(ctx, c)
}

// Handler exposes the router, mainly for tests
func (a *App) Handler() http.Handler {
	return a.Server.Handler()
}

func (a *App) closeStorage() {
	if a.deadLetter != nil {
		_ = a.deadLetter.Close()
	}
	a.repos.DB.Close()
}

// RunServer sets up logging, builds the App and serves until ctx is done
func RunServer(ctx context.Context, cfg *config.Config) error {
	logCloser := SetupLogger(cfg)
	defer logCloser.Close()

	app, err := Build(ctx, cfg)
	if err != nil {
		slog.Error(LogMsgServerFailed, "error", err)
		return err
	}
	slog.Info(LogMsgServerListening, "port", cfg.Port)
	return app.Run(ctx)
}
