package app

import (
	"context"
	"fmt"

	dockerCli "github.com/docker/docker/client"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cargobay/cargobay/internal/builder"
	"github.com/cargobay/cargobay/internal/config"
	"github.com/cargobay/cargobay/internal/docker"
	"github.com/cargobay/cargobay/internal/engine"
	"github.com/cargobay/cargobay/internal/registry"
	"github.com/cargobay/cargobay/internal/server"
	"github.com/cargobay/cargobay/internal/store"
	"github.com/cargobay/cargobay/internal/vm"
)

type App struct {
	dockerClient *dockerCli.Client
	store        *store.Store
	engine       *engine.Engine
	server       *server.Server
	logger       zerolog.Logger
}

// New creates a new App by wiring up all dependencies.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	// Docker CLI
	dockerClient, err := docker.NewClient(&cfg.Docker)
	if err != nil {
		return nil, err
	}
	provider := docker.NewProvider(dockerClient, &cfg.Docker, logger)

	// Local VM store
	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VM store: %w", err)
	}
	vms := vm.NewManager(st, logger)

	// Remote registries and git-based image builds
	reg := registry.NewClient(&cfg.Registry, logger)
	bld := builder.New(dockerClient, logger)

	// Engine and API surface
	eng := engine.New(provider, &cfg.App, logger)
	handler := server.NewHandler(provider, eng, reg, bld, vms, logger)
	srv := server.New(&cfg.Server, handler, logger)

	return &App{
		dockerClient: dockerClient,
		store:        st,
		engine:       eng,
		server:       srv,
		logger:       logger,
	}, nil
}

// Run starts the grouping engine and the API server, returning once
// either stops.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Msg("Application starting")
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.engine.Run(ctx)
	})
	g.Go(func() error {
		return a.server.Run(ctx)
	})
	return g.Wait()
}

func (a *App) Close() error {
	var firstErr error
	if a.dockerClient != nil {
		if err := a.dockerClient.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close docker client: %w", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close VM store: %w", err)
		}
	}
	return firstErr
}
