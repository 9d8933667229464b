// Package api exposes the optimizer over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/piwi3910/FleetPack/internal/metrics"
	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Config holds the HTTP server settings.
type Config struct {
	Address     string
	RateLimit   float64 // requests per second per client, 0 = unlimited
	RateBurst   int
	Defaults    model.Settings // starting point for every request
	PresetsPath string         // custom presets file, may not exist
	Limits      Limits
}

// ConfigFromApp derives the server configuration from the application config.
func ConfigFromApp(app model.AppConfig, presetsPath string) Config {
	defaults := model.DefaultSettings()
	app.ApplyToSettings(&defaults)
	return Config{
		Address:     app.ServerAddress,
		RateLimit:   app.RateLimit,
		RateBurst:   app.RateBurst,
		Defaults:    defaults,
		PresetsPath: presetsPath,
		Limits:      DefaultLimits(),
	}
}

// Server serves optimization requests.
type Server struct {
	config  Config
	log     zerolog.Logger
	router  *gin.Engine
	limiter *rateLimiter
}

// NewServer builds the router and registers the metrics collectors.
func NewServer(config Config, logger zerolog.Logger) *Server {
	metrics.RegisterDefault()

	server := &Server{config: config, log: logger}
	if config.RateLimit > 0 {
		burst := config.RateBurst
		if burst < 1 {
			burst = 1
		}
		server.limiter = newRateLimiter(rate.Limit(config.RateLimit), burst)
	}
	server.setupRouter()
	return server
}

func (server *Server) setupRouter() {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(server.log))
	router.Use(prometheusMiddleware())

	router.GET("/healthz", server.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/v1")
	if server.limiter != nil {
		v1.Use(server.limiter.middleware())
	}
	if server.config.Limits.MaxBodyBytes > 0 {
		v1.Use(bodyLimit(server.config.Limits.MaxBodyBytes))
	}
	v1.POST("/optimize", server.optimize)
	v1.POST("/compare", server.compare)

	server.router = router
}

// Handler returns the HTTP handler, mainly for tests.
func (server *Server) Handler() http.Handler {
	return server.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (server *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              server.config.Address,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		server.log.Info().Str("address", server.config.Address).Msg("HTTP server listening")
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

	server.log.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (server *Server) healthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func errorResponse(err error) ErrorResponse {
	return ErrorResponse{Error: err.Error()}
}
