// Package api exposes the dataset exploration pipeline as a JSON API.
package api

import (
	"log"
	"net/http"

	"degview/internal/config"
	"degview/internal/errors"
	"degview/internal/session"
	"degview/internal/table"

	"github.com/gin-gonic/gin"
)

// Server wires the gin engine to the session store and load cache.
type Server struct {
	engine *gin.Engine
	store  *session.Store
	cache  *table.LoadCache
	cfg    *config.Config
}

// NewServer builds the API server and registers its routes.
func NewServer(cfg *config.Config, store *session.Store, cache *table.LoadCache) *Server {
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		engine: gin.New(),
		store:  store,
		cache:  cache,
		cfg:    cfg,
	}

	s.engine.Use(gin.Logger(), gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.engine.Group("/api/v1")

	v1.POST("/datasets", s.handleUpload)
	v1.GET("/datasets/:id", s.handleSummary)
	v1.DELETE("/datasets/:id", s.handleDelete)
	v1.GET("/datasets/:id/preview", s.handlePreview)
	v1.GET("/datasets/:id/contrasts", s.handleContrasts)
	v1.PUT("/datasets/:id/gene-column", s.handleSetGeneColumn)
	v1.GET("/datasets/:id/contrasts/:contrast/deg", s.handleDeg)
	v1.GET("/datasets/:id/contrasts/:contrast/deg.csv", s.handleDegCSV)
	v1.GET("/datasets/:id/genes", s.handleGenes)
	v1.GET("/datasets/:id/genes/:gene", s.handleGeneDetail)

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler exposes the engine for tests and for mounting.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start runs the HTTP server.
func (s *Server) Start(addr string) error {
	log.Printf("[API] Listening on %s", addr)
	return s.engine.Run(addr)
}

// respondError maps AppError codes to HTTP statuses. Load failures are 422:
// the upload was received but could not become a table.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)

	status := http.StatusInternalServerError
	switch {
	case code == errors.CodeNotFound:
		status = http.StatusNotFound
	case code == errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.IsLoadError(err):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Printf("[API] Internal error: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
