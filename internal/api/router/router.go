package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"ytaudiobot/internal/api/handlers"
	"ytaudiobot/internal/api/middleware"
	"ytaudiobot/internal/config"
)

// Router serves the health endpoints used by the hosting platform.
type Router struct {
	engine *gin.Engine
	server *http.Server
	config *config.Config
}

func NewRouter(cfg *config.Config, healthHandler *handlers.HealthHandler) *Router {
	if cfg.Server.Host == "0.0.0.0" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware())

	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Readiness)
	engine.GET("/live", healthHandler.Liveness)

	return &Router{
		engine: engine,
		config: cfg,
	}
}

func (r *Router) Start() error {
	r.server = &http.Server{
		Addr:    r.config.Server.Host + ":" + r.config.Server.Port,
		Handler: r.engine,
	}

	if err := r.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (r *Router) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}
