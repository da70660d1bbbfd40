package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/config"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/chat"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/dashboard"
	"github.com/02loveslollipop/Shizuku-weather-dashboard/services/dashboard/internal/render"
)

// WeatherClient is the upstream API used by the stateless JSON routes.
type WeatherClient interface {
	dashboard.ForecastSource
	chat.CurrentSource
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Controller *dashboard.Controller
	Weather    WeatherClient
	Now        func() time.Time
}

// Server bundles router and dependencies for the dashboard page and the JSON API.
type Server struct {
	cfg        config.Config
	controller *dashboard.Controller
	weather    WeatherClient
	now        func() time.Time
	engine     *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, deps Deps) *Server {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())
	engine.Use(requestLogger())
	engine.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	engine.SetHTMLTemplate(template.Must(render.Templates()))

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	server := &Server{
		cfg:        cfg,
		controller: deps.Controller,
		weather:    deps.Weather,
		now:        now,
		engine:     engine,
	}
	server.registerRoutes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.GET("/", s.handleDashboard)
	s.engine.POST("/search", s.handleSearch)
	s.engine.POST("/unit", s.handleUnit)
	s.engine.POST("/locate", s.handleLocate)

	s.registerV1Routes()
}
