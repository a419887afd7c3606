// Package gin serves the DataSage web form and JSON API using gin.
package gin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/datasage"
	"github.com/gin-gonic/gin"
)

// Agent is the part of [datasage.Agent] the server uses.
type Agent interface {
	Ask(ctx context.Context, s *datasage.Session, act datasage.Action) (datasage.Result, error)
	Run(ctx context.Context, s *datasage.Session, act datasage.Action, w io.Writer) (datasage.Result, error)
}

// LoadFunc parses an uploaded file into a dataset. name is the file name
// as sent by the client and selects the format.
type LoadFunc func(name string, r io.Reader) (datasage.Dataset, error)

// DefaultMaxUpload bounds multipart uploads held in memory.
const DefaultMaxUpload = 32 << 20

// Server handles web requests. Every request builds its own Session, so
// only the Agent and Load are shared between goroutines.
type Server struct {
	agent  Agent
	load   LoadFunc
	logger *slog.Logger
	engine *gin.Engine
}

// NewServer creates a Server with its routes registered.
func NewServer(agent Agent, load LoadFunc, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{agent: agent, load: load, logger: logger}

	r := gin.New()
	r.MaxMultipartMemory = DefaultMaxUpload
	r.Use(gin.Recovery(), requestLogger(logger))
	r.GET("/", s.handleIndex)
	r.GET("/healthz", s.handleHealth)
	api := r.Group("/api")
	{
		api.POST("/summary", s.handleSummary)
		api.POST("/query", s.handleQuery)
		api.POST("/ask", s.handleAsk)
	}
	s.engine = r
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.Last().Error())
		}
		logger.Log(c.Request.Context(), level, "request", attrs...)
	}
}
