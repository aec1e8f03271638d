package middleware

import (
	"errors"
	"net/http"
	"strings"

	"prize_wheel/internal/service"

	"github.com/gin-gonic/gin"
)

const walletKey = "wallet"

// JWT requires "Authorization: Bearer <token>" and stores the token's wallet on the context
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		wallet, err := service.ParseJWT(strings.TrimSpace(token))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(walletKey, wallet)
		c.Next()
	}
}

// Wallet returns the wallet stored by JWT, or ""
func Wallet(c *gin.Context) string {
	return c.GetString(walletKey)
}
