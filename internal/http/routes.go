package http

import (
	"time"

	"prize_wheel/internal/config"
	"prize_wheel/internal/http/handlers"
	"prize_wheel/internal/http/middleware"
	"prize_wheel/internal/repository"
	"prize_wheel/internal/service"
	"prize_wheel/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the wheel API, the widget socket and the probes
func RegisterRoutes(r *gin.Engine, wheel *service.WheelService, hub *ws.Hub, store repository.StateStore, cfg *config.Config, version string) {
	h := handlers.NewHandler(wheel)
	healthHandler := handlers.NewHealthHandler(wheel, store, version)

	apiRateLimit := cfg.APIRateLimit
	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second

	// Spin rate limiter middleware (per wallet, not per IP), shared by both prefixes
	spinRL := middleware.SpinRateLimit(cfg.SpinRateLimit, time.Duration(cfg.SpinRateWindow)*time.Second)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, spinRL)

	// Legacy /api routes (same handlers, kept for older widgets)
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, spinRL)

	// WebSocket for wheel widgets
	r.GET("/ws", ws.HandleWS(hub, cfg.AllowedOrigin))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, spinRL gin.HandlerFunc) {
	wheel := api.Group("/wheel")
	{
		wheel.GET("/info", h.WheelInfo)
		wheel.GET("/recent", h.RecentWins)
		wheel.GET("/render", h.Render)
		wheel.POST("/eligibility", middleware.JWT(), h.Eligibility)
		wheel.POST("/spin", middleware.JWT(), spinRL, h.Spin)
		wheel.POST("/reset", middleware.JWT(), h.Reset)
	}
}
