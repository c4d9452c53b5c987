package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tech-selector/internal/config"
	"tech-selector/internal/handler"
	"tech-selector/internal/middleware"
	"tech-selector/internal/service"
	"tech-selector/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server holds the Gin engine and the HTTP listener settings.
type Server struct {
	router          *gin.Engine
	addr            string
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewServer wires middleware and routes.
func NewServer(cfg *config.Config, evaluator *service.Evaluator, sessions *session.Manager, logger *zap.Logger) *Server {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(
		middleware.Logger(logger),
		gin.Recovery(),
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.Session(sessions, cfg.Session.CookieName),
	)

	handler.NewHandler(evaluator, sessions, logger).RegisterRoutes(router)

	return &Server{
		router:          router,
		addr:            fmt.Sprintf(":%s", cfg.Server.Port),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		logger:          logger,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting", zap.String("address", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server exited")
	return nil
}
