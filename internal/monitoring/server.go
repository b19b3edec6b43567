package monitoring

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Server exposes /health, /status and /metrics for a running evolution
type Server struct {
	addr    string
	health  *HealthChecker
	metrics *Metrics
	srv     *http.Server
}

// NewServer creates a status server listening on addr
func NewServer(addr string, health *HealthChecker, metrics *Metrics) *Server {
	s := &Server{addr: addr, health: health, metrics: metrics}
	s.srv = &http.Server{Addr: addr, Handler: s.Router()}
	return s
}

// Router builds the gin engine
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		health := s.health.Health()
		code := http.StatusOK
		if health.Status == "starting" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, health)
	})
	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.health.Status())
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutCtx)
}
