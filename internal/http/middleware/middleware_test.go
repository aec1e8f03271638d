package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prize_wheel/internal/service"

	"github.com/gin-gonic/gin"
)

func withoutRedis(t *testing.T) {
	t.Helper()
	prev := redisClient
	redisClient = nil
	t.Cleanup(func() { redisClient = prev })
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMemoryWindow(t *testing.T) {
	m := newMemoryWindow(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 3; i++ {
		if got := m.incr("a", now); got != i {
			t.Fatalf("hit %d counted %d", i, got)
		}
	}
	if got := m.incr("b", now); got != 1 {
		t.Fatalf("keys not independent: %d", got)
	}
	if got := m.incr("a", now.Add(time.Minute)); got != 1 {
		t.Fatalf("window did not reset: %d", got)
	}
}

func TestRateLimitFallsBackToMemory(t *testing.T) {
	withoutRedis(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/test", RedisRateLimit(2, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		if w := do(r, http.MethodGet, "/test", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, w.Code)
		}
	}
	if w := do(r, http.MethodGet, "/test", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", w.Code)
	}
}

func TestJWTMiddleware(t *testing.T) {
	service.InitJWT("middleware-secret")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/me", JWT(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"wallet": Wallet(c)})
	})

	if w := do(r, http.MethodGet, "/me", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/me", "garbage"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: got %d", w.Code)
	}

	token, _ := service.GenerateJWT("WalletAAAA1111")
	w := do(r, http.MethodGet, "/me", token)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token: got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"wallet":"WalletAAAA1111"}` {
		t.Fatalf("body = %s", body)
	}
}

func TestSpinRateLimitPerWallet(t *testing.T) {
	withoutRedis(t)
	service.InitJWT("middleware-secret")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/spin", JWT(), SpinRateLimit(1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	a, _ := service.GenerateJWT("WalletAAAA1111")
	b, _ := service.GenerateJWT("WalletBBBB2222")

	if w := do(r, http.MethodPost, "/spin", a); w.Code != http.StatusNoContent {
		t.Fatalf("first spin: got %d", w.Code)
	}
	w := do(r, http.MethodPost, "/spin", a)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second spin: got %d", w.Code)
	}
	if w.Header().Get("X-SpinRateLimit-Remaining") != "0" {
		t.Fatalf("remaining header = %q", w.Header().Get("X-SpinRateLimit-Remaining"))
	}
	if w := do(r, http.MethodPost, "/spin", b); w.Code != http.StatusNoContent {
		t.Fatalf("other wallet limited: got %d", w.Code)
	}
}
