// Package server wires the control panel together: configuration, logging,
// storage, services and the HTTP and gRPC front ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/controlpanel/internal/logging"
	"github.com/dmitrijs2005/controlpanel/internal/server/auth"
	"github.com/dmitrijs2005/controlpanel/internal/server/config"
	"github.com/dmitrijs2005/controlpanel/internal/server/fitness"
	"github.com/dmitrijs2005/controlpanel/internal/server/httpapi"
	"github.com/dmitrijs2005/controlpanel/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/controlpanel/internal/server/services"

	gs "github.com/dmitrijs2005/controlpanel/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	http        *httpapi.Server
	grpc        *gs.GRPCServer
}

// openStore is a seam for tests.
var openStore = repomanager.Open

// NewApp validates c, connects to storage, applies migrations and builds
// both servers. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	codec, err := auth.NewTokenCodec([]byte(c.SecretKey), c.Algorithm, c.AccessTokenTTL())
	if err != nil {
		return nil, err
	}

	rm, err := openStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	as := services.NewAuthService(rm, auth.NewHasher(c.BcryptCost), codec, auth.DefaultPolicy(), logger)
	ws := services.NewWidgetService(rm)
	hs := services.NewHealthService(rm, fitness.NewStub(c.FitnessUsername, c.FitnessPassword), logger)

	api := httpapi.New(as, ws, hs, httpapi.NewMetrics(), logger, httpapi.Options{
		AppName:        c.AppName,
		Environment:    c.Environment,
		APIBaseURL:     c.APIBaseURL,
		RequestTimeout: c.RequestTimeout,
		AllowedOrigins: c.CORSAllowedOrigins,
	})

	app := &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		http:        httpapi.NewServer(c.HTTPAddr, api.Handler(), logger),
	}
	if c.GRPCAddr != "" {
		app.grpc = gs.NewGRPCServer(c.GRPCAddr, logger, as)
	}
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives, ctx is cancelled or one of
// the servers fails. A failing server stops the other.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)
	app.initSignalHandler(cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "server stopped", "server", name, "error", err.Error())
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	start("http", app.http.Run)
	if app.grpc != nil {
		start("grpc", app.grpc.Run)
	}

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}

func (app *App) Close() error {
	return app.repomanager.Close()
}
