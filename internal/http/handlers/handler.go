package handlers

import (
	"context"
	"errors"
	"net/http"

	"prize_wheel/internal/http/middleware"
	"prize_wheel/internal/loop"
	"prize_wheel/internal/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Wheel *service.WheelService
}

func NewHandler(wheel *service.WheelService) *Handler {
	return &Handler{Wheel: wheel}
}

// getWallet извлекает wallet из контекста Gin
func getWallet(c *gin.Context) (string, bool) {
	wallet := middleware.Wallet(c)
	return wallet, wallet != ""
}

// writeServiceError maps engine errors to the status codes clients expect
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownSession), errors.Is(err, service.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled), errors.Is(err, loop.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "wheel engine busy"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
