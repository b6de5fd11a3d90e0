// Package server implements the JobTrack HTTP API: per-user CRUD over
// applications, events and problems, authenticated with bearer tokens.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/manav03panchal/jobtrack/internal/auth"
	"github.com/manav03panchal/jobtrack/internal/logging"
	"github.com/manav03panchal/jobtrack/internal/model"
)

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = ":8080"

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 5 * time.Second

// Config configures the API server.
type Config struct {
	Addr      string
	JWTSecret string
	// CORSOrigins lists the allowed browser origins. Empty allows any origin.
	CORSOrigins []string
}

// Server is the JobTrack API.
type Server struct {
	cfg    Config
	engine *gin.Engine
}

// New builds the router over repos.
func New(cfg Config, repos Repositories) (*Server, error) {
	validator, err := auth.NewValidator(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	if !logging.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(), cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/health", health)

	api := r.Group("/", Authenticate(validator))
	(&resource[*model.Application, model.ApplicationPatch]{
		kind:    "application",
		repo:    repos.Applications,
		newItem: func() *model.Application { return &model.Application{Status: model.StatusApplied} },
	}).register(api, model.PathApplications)
	(&resource[*model.Event, model.EventPatch]{
		kind:    "event",
		repo:    repos.Events,
		newItem: func() *model.Event { return &model.Event{ActionItems: []model.ActionItem{}} },
	}).register(api, model.PathEvents)
	(&resource[*model.Problem, model.ProblemPatch]{
		kind:    "problem",
		repo:    repos.Problems,
		newItem: func() *model.Problem { return &model.Problem{Difficulty: model.DifficultyMedium} },
	}).register(api, model.PathProblems)

	return &Server{cfg: cfg, engine: r}, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader}

	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("api server listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logging.Info("api server shutting down")
	return srv.Shutdown(shutdownCtx)
}
