// Package keepalive serves the liveness and Prometheus endpoints that hosting
// platforms poll to keep the bot's process up.
package keepalive

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"karaoke-bot/internal/version"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActiveCounter reports the number of live karaoke sessions.
type ActiveCounter interface {
	Active() int
}

// NewRouter builds the HTTP handler: "/" for liveness, "/healthz" for a JSON
// status and "/metrics" for Prometheus.
func NewRouter(sessions ActiveCounter, startedAt time.Time) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "OK, bot is alive")
	})
	r.HEAD("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"app":      version.String(),
			"sessions": sessions.Active(),
			"uptime":   time.Since(startedAt).Round(time.Second).String(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// Run serves handler on addr until ctx is cancelled.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Keepalive server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("keepalive server: %w", err)
	case <-ctx.Done():
		log.Println("[INFO] Shutting down keepalive server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
