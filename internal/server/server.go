// Package server is the HTTP surface the desktop frontend talks to,
// one route per console operation.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/cargobay/cargobay/internal/config"
)

type Server struct {
	logger zerolog.Logger
	cfg    *config.ServerConfig
	app    *fiber.App
}

func New(cfg *config.ServerConfig, handler *Handler, logger zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	registerRoutes(app, handler)
	return &Server{
		logger: logger,
		cfg:    cfg,
		app:    app,
	}
}

func registerRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	containers := v1.Group("/containers")
	containers.Get("/", h.ListContainers)
	containers.Post("/", h.RunContainer)
	containers.Post("/:id/start", h.StartContainer)
	containers.Post("/:id/stop", h.StopContainer)
	containers.Delete("/:id", h.RemoveContainer)
	containers.Get("/:id/login-cmd", h.ContainerLoginCommand)

	images := v1.Group("/images")
	images.Get("/search", h.SearchImages)
	images.Get("/tags", h.ListImageTags)
	images.Post("/load", h.LoadImage)
	images.Post("/push", h.PushImage)
	images.Post("/pack", h.PackImage)
	images.Post("/build", h.BuildImage)

	vms := v1.Group("/vms")
	vms.Get("/", h.ListVMs)
	vms.Post("/", h.CreateVM)
	vms.Post("/:id/start", h.StartVM)
	vms.Post("/:id/stop", h.StopVM)
	vms.Delete("/:id", h.DeleteVM)
	vms.Get("/login-cmd", h.VMLoginCommand)
	vms.Get("/:id/mounts", h.ListVMMounts)
	vms.Post("/:id/mounts", h.AddVMMount)
	vms.Delete("/:id/mounts/:tag", h.RemoveVMMount)
}

// Run serves until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("API server listening")
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info().Msg("API server shutting down")
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			s.logger.Error().Err(err).Msg("Error during API server shutdown")
		}
		return ctx.Err()
	}
}
