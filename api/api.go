package api

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/zakopshq/zakops/api/mcp"
)

// Server is the stub deal service.
type Server struct {
	config Config
	store  *Store
	logger *slog.Logger
	app    *fiber.App

	sessionMu sync.Mutex
	sessions  map[string]*sessionLog
}

// NewServer creates a stub server around the given store. The store is
// injected so tests and the MCP layer can share it.
func NewServer(config Config, store *Store, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		store:    store,
		logger:   logger,
		app:      app,
		sessions: make(map[string]*sessionLog),
	}

	app.Get("/ping", s.handlePing)

	app.Get("/deals", s.handleListDeals)
	app.Get("/deals/:id", s.handleGetDeal)
	app.Post("/deals/:id/transition", s.handleTransitionDeal)
	app.Delete("/deals/:id", s.handleDeleteDeal)

	app.Get("/quarantine", s.handleListQuarantine)
	app.Post("/quarantine/:id/approve", s.handleApproveQuarantine)
	app.Post("/quarantine/:id/reject", s.handleRejectQuarantine)

	app.Get("/onboarding", s.handleOnboarding)
	app.Post("/onboarding/:id/complete", s.handleCompleteOnboardingStep)

	app.Get("/search", s.handleSearch)

	app.Post("/chat/stream", s.handleChatStream)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Pipeline: store,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Run seeds the store, optionally starts the fixtures watcher, and serves
// until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	fixtures := SeedFixtures()
	if s.config.FixturesPath != "" {
		loaded, err := LoadFixtures(s.config.FixturesPath)
		if err != nil {
			return err
		}
		fixtures = loaded
	}
	s.store.Load(fixtures)

	if s.config.Watch && s.config.FixturesPath != "" {
		go func() {
			if err := watchFixtures(ctx, s.config.FixturesPath, s.store, s.logger); err != nil && ctx.Err() == nil {
				s.logger.Error("fixtures watcher stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			s.logger.Error("shutdown failed", "error", err)
		}
	}()

	s.logger.Info("starting stub deal service",
		"listen", s.config.ListenAddr,
		"fixtures", s.config.FixturesPath,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
