// Package server exposes the prediction service over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/win-predictor/internal/metrics"
	"github.com/yourusername/win-predictor/internal/models"
	"github.com/yourusername/win-predictor/internal/predictor"
)

const maxBodyBytes = 1 << 20

// Predictor is the prediction service behind the HTTP routes.
type Predictor interface {
	Health() predictor.Health
	Predict(ctx context.Context, raw map[string]any) (*predictor.Response, error)
	History(ctx context.Context, limit int) ([]*models.PredictionRecord, error)
	Teams() []string
	Cities() []string
}

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Config holds the configuration for the API server.
type Config struct {
	ServiceName    string
	Version        string
	Address        string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	MetricsPath    string
	Logger         *logrus.Logger
	DB             DatabasePinger
}

// Server is the HTTP front of the prediction service.
type Server struct {
	cfg       Config
	predictor Predictor
	handler   http.Handler
	logger    *logrus.Logger

	mu     sync.Mutex
	server *http.Server
}

// New creates a server and registers its routes. An empty MetricsPath
// disables the Prometheus endpoint.
func New(cfg Config, p Predictor) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 5 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = 60 * time.Second
	}

	s := &Server{cfg: cfg, predictor: p, logger: cfg.Logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", instrument("/health", s.handleHealth))
	mux.HandleFunc("/live", instrument("/live", s.handleLive))
	mux.HandleFunc("/ready", instrument("/ready", s.handleReady))
	mux.HandleFunc("/predict", instrument("/predict", s.handlePredict))
	mux.HandleFunc("/teams", instrument("/teams", s.handleTeams))
	mux.HandleFunc("/cities", instrument("/cities", s.handleCities))
	mux.HandleFunc("/history", instrument("/history", s.handleHistory))
	if cfg.MetricsPath != "" {
		mux.Handle(cfg.MetricsPath, metrics.Handler())
	}

	s.handler = cors(cfg.AllowedOrigins, mux)
	return s
}

// Handler returns the root handler, including CORS.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the server in the background and shuts it down when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	srv := s.server
	s.mu.Unlock()

	go func() {
		s.logger.WithFields(logrus.Fields{
			"address": s.cfg.Address,
			"service": s.cfg.ServiceName,
			"version": s.cfg.Version,
		}).Info("API server starting")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("API server shutdown failed")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}

	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
