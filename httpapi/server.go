// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finmcp/finmcp"
)

// Server is the REST front for the service.
type Server struct {
	service *finmcp.Service
	logger  *slog.Logger
	engine  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates an HTTP server over the given service.
func NewServer(service *finmcp.Service, opts ...Option) (*Server, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		service: service,
		logger:  slog.Default(),
		engine:  gin.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Request logs go through slog, not gin's own writer.
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLog)
	s.engine.Use(corsAnyOrigin)

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/providers", s.getProviders)
	api.POST("/recommend", s.postRecommend)
	api.GET("/docs/:provider", s.getDoc)
	api.GET("/docs/:provider/*path", s.getDoc)
	api.GET("/search", s.getSearch)
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("http request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start))
}

// corsAnyOrigin opens the API to any origin. The server carries no
// credentials or per-user state, so the permissive policy is safe.
func corsAnyOrigin(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until the context is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.ListenAndServe()
	}()

	s.logger.Info("http server listening", "addr", addr)

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	<-errc

	s.logger.Info("http server stopped")
	return nil
}
