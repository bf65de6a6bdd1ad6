package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/praxislegal/lexia/internal/config"
	"github.com/praxislegal/lexia/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with lifecycle management. The write timeout
// comes from DraftWriteTimeout so the streaming endpoint is not cut off;
// the draft handler still sets its own per-request deadline.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

func NewServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *Server {
	writeTimeout := cfg.WriteTimeout
	if cfg.DraftWriteTimeout > writeTimeout {
		writeTimeout = cfg.DraftWriteTimeout
	}
	return &Server{
		logger: logger,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
