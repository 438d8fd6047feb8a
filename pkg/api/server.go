// Package api provides the HTTP surface for the illustrated chapter
// pipeline: ingesting works, reporting per-chapter status, and health.
package api

import (
	"context"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novelenchant/enchant/pkg/config"
	"github.com/novelenchant/enchant/pkg/database"
	"github.com/novelenchant/enchant/pkg/docparse"
	"github.com/novelenchant/enchant/pkg/repo"
	"github.com/novelenchant/enchant/pkg/scheduler"
)

// Server is the HTTP API server.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server

	cfg       *config.Config
	dbClient  *database.Client
	repo      *repo.Repo
	scheduler *scheduler.Scheduler
	parser    docparse.Parser
}

// NewServer wires a gin engine with the ingest, status and health routes.
func NewServer(cfg *config.Config, dbClient *database.Client, rpo *repo.Repo, sched *scheduler.Scheduler) *Server {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery())
	e.Use(requestLogger())
	e.Use(securityHeaders())
	e.MaxMultipartMemory = int64(cfg.Env.MaxUploadSizeBytes)

	s := &Server{
		engine:    e,
		cfg:       cfg,
		dbClient:  dbClient,
		repo:      rpo,
		scheduler: sched,
		parser:    docparse.PlainTextParser{},
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthHandler)

	v1 := s.engine.Group("/api/v1")
	v1.POST("/works", s.submitWorkHandler)
	v1.GET("/works/:id/status", s.workStatusHandler)
}

// Start starts the HTTP server on the given address (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener.
// Used by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.engine}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
