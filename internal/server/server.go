// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the
// dependency chain is assembled:
//
//	sqlite.DB → stores → services → handlers → routes
//
// Each layer only receives what it needs: services get repository
// interfaces (not the concrete sqlite stores), handlers get services
// (not repositories), and main.go just calls New + Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/handler"
	"github.com/sakif/blog-api/internal/middleware"
	sqliteRepo "github.com/sakif/blog-api/internal/repository/sqlite"
	"github.com/sakif/blog-api/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port   int
	DBPath string
}

// Server owns the router and the database connection. The DB is closed
// during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with its full dependency graph wired.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// ROUTE STRUCTURE:
//
//	POST   /api/login               → verify credentials, issue token
//	POST   /api/register            → create account
//	-- everything below requires a valid access token --
//	GET    /api/me                  → acting user's profile
//	POST   /api/posts               → create post
//	GET    /api/posts               → list posts (newest first)
//	GET    /api/posts/{id}          → post with comments
//	POST   /api/posts/{id}/comments → comment on a post
//	DELETE /api/posts/{id}          → delete own post
func (s *Server) setupRoutes() {
	// Global middleware, in execution order.
	s.router.Use(chimiddleware.RealIP)    // extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // recovers from panics, returns 500
	s.router.Use(middleware.Logger(s.logger))

	// Wire the dependency chain.
	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.db.Users(), passwords, s.logger)
	postService := service.NewPostService(s.db.Posts(), s.db.Comments(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		// Public: the only two endpoints reachable without a token.
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/register", authHandler.HandleRegister)

		// Authenticated: the identity resolver runs before every handler
		// in this group and binds the acting user to the request context.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(authService))

			r.Get("/me", authHandler.HandleMe)

			r.Post("/posts", postHandler.HandleCreate)
			r.Get("/posts", postHandler.HandleList)
			r.Get("/posts/{id}", postHandler.HandleGet)
			r.Post("/posts/{id}/comments", postHandler.HandleCreateComment)
			r.Delete("/posts/{id}", postHandler.HandleDelete)
		})
	})
}

// Handler returns the root http.Handler — used by tests to exercise the
// full middleware-and-routing stack without a listening socket.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Callers that never reach Start (tests)
// use this directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
