// Package httpapi exposes document generation over HTTP.
//
// Routes:
//
//	POST /v1/agencies/:agency/documents/contract   lease record   -> PDF
//	POST /v1/agencies/:agency/documents/receipt    payment record -> PDF
//	POST /v1/agencies/:agency/documents/mandate    landlord record -> PDF
//	POST /v1/documents/stamp                       PDF -> PDF marked DUPLICATA
//	GET  /v1/templates                             template list
//	GET  /v1/templates/:name                       template text
//	GET  /healthz
//
// Records are JSON or YAML bodies decoded with documents.DecodeRecord.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lvillar/immodoc/doctpl"
	"github.com/lvillar/immodoc/documents"
)

// Server is the HTTP front end of an Engine.
type Server struct {
	engine    *documents.Engine
	templates doctpl.Catalog
	logger    *zap.Logger
	maxBody   int64
	router    *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMaxBody limits request bodies to n bytes. The default is 10 MB.
func WithMaxBody(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// New creates a server for engine. templates backs the template routes.
func New(engine *documents.Engine, templates doctpl.Catalog, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		templates: templates,
		logger:    zap.NewNop(),
		maxBody:   10 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(s.logger))
	r.GET("/healthz", s.health)

	v1 := r.Group("/v1")
	docs := v1.Group("/agencies/:agency/documents")
	docs.POST("/contract", s.contract)
	docs.POST("/receipt", s.receipt)
	docs.POST("/mandate", s.mandate)
	v1.POST("/documents/stamp", s.stamp)
	v1.GET("/templates", s.listTemplates)
	v1.GET("/templates/:name", s.showTemplate)

	s.router = r
	return s
}

// Handler returns the HTTP handler of s.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi: shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, success(gin.H{"status": "ok"}))
}
