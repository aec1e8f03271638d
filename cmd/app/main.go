package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prize_wheel/internal/config"
	"prize_wheel/internal/db"
	httpServer "prize_wheel/internal/http"
	"prize_wheel/internal/http/middleware"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/loop"
	"prize_wheel/internal/service"
	"prize_wheel/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	catalogue, err := config.LoadCatalogue(cfg.CataloguePath)
	if err != nil {
		logger.Fatal("invalid catalogue", "path", cfg.CataloguePath, "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		middleware.SetRedisClient(rdb)
	}

	store, err := db.OpenStore(ctx, cfg, rdb)
	if err != nil {
		logger.Fatal("failed to open store", "driver", cfg.StoreDriver, "error", err)
	}
	defer store.Close()

	// the log is loaded before the loop starts, so this runs single-threaded
	wins := service.NewRecentWins(store, cfg.StorageKey)
	wins.Load(ctx)
	logger.Info("recent wins loaded", "driver", cfg.StoreDriver, "entries", wins.Len())

	engine := loop.New(nil)
	wheel := service.NewWheelService(ctx, engine, catalogue, wins, cfg.Session(), nil)
	go engine.Run(ctx, cfg.FrameInterval)

	hub := ws.NewHub(wheel, cfg.WSMaxPerWallet)

	r := gin.Default()

	// CORS for production (widget embedded on a different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, wheel, hub, store, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "segments", catalogue.Len(), "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	hub.CloseAll()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// stop the engine after the last request has been answered
	cancel()
	// the redis store shares this client and leaves closing it to us
	if rdb != nil {
		_ = rdb.Close()
	}
	logger.Info("server exited")
}
