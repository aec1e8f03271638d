package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"prize_wheel/internal/domain"
	"prize_wheel/internal/game"
	"prize_wheel/internal/http/middleware"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/loop"
	"prize_wheel/internal/render"
	"prize_wheel/internal/repository"
	"prize_wheel/internal/service"

	"github.com/gin-gonic/gin"
)

const walletA = "WalletAAAA1111"

func newTestWheel(t *testing.T) *service.WheelService {
	t.Helper()
	logger.InitWriter(io.Discard, "error", false)
	service.InitJWT("handlers-secret")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cat, err := game.NewCatalogue([]game.Segment{
		{Label: "Sticker", Weight: 1},
		{Label: "Nothing", Weight: 3, Kind: game.KindNothing},
	})
	if err != nil {
		t.Fatalf("catalogue: %v", err)
	}
	cfg := service.DefaultSessionConfig()
	cfg.SpinDuration = 100 * time.Millisecond

	l := loop.New(nil)
	wheel := service.NewWheelService(ctx, l, cat, service.NewRecentWins(repository.NewMemoryStore(), ""), cfg, game.FixedSource(0.1))
	go l.Run(ctx, 5*time.Millisecond)
	return wheel
}

func newRouter(wheel *service.WheelService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(wheel)
	r := gin.New()
	r.GET("/wheel/info", h.WheelInfo)
	r.GET("/wheel/recent", h.RecentWins)
	r.GET("/wheel/render", h.Render)
	r.POST("/wheel/eligibility", middleware.JWT(), h.Eligibility)
	r.POST("/wheel/spin", middleware.JWT(), h.Spin)
	r.POST("/wheel/reset", middleware.JWT(), h.Reset)
	return r
}

func request(t *testing.T, r http.Handler, method, path, wallet string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if wallet != "" {
		token, err := service.GenerateJWT(wallet)
		if err != nil {
			t.Fatalf("GenerateJWT: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func openSession(t *testing.T, wheel *service.WheelService, wallet string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	snap, err := wheel.Open(ctx, wallet, nil, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return snap.SessionID
}

func TestWheelInfo(t *testing.T) {
	r := newRouter(newTestWheel(t))
	w := request(t, r, http.MethodGet, "/wheel/info", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}

	var resp struct {
		Segments    []WheelSegmentInfo `json:"segments"`
		TotalWeight float64            `json:"total_weight"`
		SpinMs      int64              `json:"spin_duration_ms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Segments) != 2 || resp.TotalWeight != 4 || resp.SpinMs != 100 {
		t.Fatalf("unexpected info: %+v", resp)
	}
	if resp.Segments[0].Share != "0.25" || resp.Segments[1].Share != "0.75" {
		t.Fatalf("shares = %s, %s", resp.Segments[0].Share, resp.Segments[1].Share)
	}
	if resp.Segments[1].Kind != "nothing" {
		t.Fatalf("kind = %q", resp.Segments[1].Kind)
	}
	if resp.Segments[0].Color != render.SegmentColor(0, 2, true).Hex() {
		t.Fatalf("color = %q", resp.Segments[0].Color)
	}
}

func TestRender(t *testing.T) {
	r := newRouter(newTestWheel(t))

	w := request(t, r, http.MethodGet, "/wheel/render?size=200&active=false", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp struct {
		Width    int              `json:"width"`
		Commands []render.Command `json:"commands"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Width != 200 || len(resp.Commands) == 0 || resp.Commands[0].Op != render.OpClear {
		t.Fatalf("unexpected render: width=%d commands=%d", resp.Width, len(resp.Commands))
	}
	for _, cmd := range resp.Commands {
		if cmd.Op == render.OpWedge && *cmd.Color != render.Inactive {
			t.Fatalf("inactive wheel drew color %s", cmd.Color.Hex())
		}
	}

	for _, q := range []string{"?size=0", "?size=5000", "?rotation=abc"} {
		if w := request(t, r, http.MethodGet, "/wheel/render"+q, "", nil); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: got %d", q, w.Code)
		}
	}
}

func TestSpinFlow(t *testing.T) {
	wheel := newTestWheel(t)
	r := newRouter(wheel)
	id := openSession(t, wheel, walletA)

	if w := request(t, r, http.MethodPost, "/wheel/spin", "", map[string]string{"session_id": id}); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got %d", w.Code)
	}
	if w := request(t, r, http.MethodPost, "/wheel/spin", walletA, map[string]string{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing session id: got %d", w.Code)
	}

	var spin SpinResponse
	w := request(t, r, http.MethodPost, "/wheel/spin", walletA, map[string]string{"session_id": id})
	if err := json.Unmarshal(w.Body.Bytes(), &spin); err != nil || w.Code != http.StatusOK {
		t.Fatalf("spin: %d %s", w.Code, w.Body.String())
	}
	if spin.Started {
		t.Fatalf("spin started behind a closed gate")
	}

	w = request(t, r, http.MethodPost, "/wheel/eligibility", walletA, map[string]string{"session_id": id})
	if w.Code != http.StatusOK {
		t.Fatalf("eligibility: %d", w.Code)
	}

	w = request(t, r, http.MethodPost, "/wheel/spin", walletA, map[string]string{"session_id": id})
	_ = json.Unmarshal(w.Body.Bytes(), &spin)
	if !spin.Started || spin.State.Phase != domain.PhaseSpinning || spin.State.CanSpin {
		t.Fatalf("spin after eligibility: %+v", spin)
	}

	// wait for the resolution on the loop
	deadline := time.Now().Add(3 * time.Second)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		snap, err := wheel.Snapshot(ctx, walletA, id)
		cancel()
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if snap.Phase == domain.PhaseResolved {
			if snap.Result == nil || snap.Result.Label != "Sticker" || !snap.Claimable {
				t.Fatalf("resolved snapshot: %+v", snap)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("spin never resolved")
		}
		time.Sleep(20 * time.Millisecond)
	}

	var reset struct {
		Cleared bool                   `json:"cleared"`
		State   domain.SessionSnapshot `json:"state"`
	}
	w = request(t, r, http.MethodPost, "/wheel/reset", walletA, map[string]string{"session_id": id})
	if err := json.Unmarshal(w.Body.Bytes(), &reset); err != nil || w.Code != http.StatusOK {
		t.Fatalf("reset: %d %s", w.Code, w.Body.String())
	}
	if !reset.Cleared || reset.State.Result != nil || reset.State.Phase != domain.PhaseIdle {
		t.Fatalf("reset state: %+v", reset)
	}

	w = request(t, r, http.MethodGet, "/wheel/recent", "", nil)
	if w.Body.String() != `{"recent_wins":[{"walletShort":"Wall...1111","prize":"Sticker"}]}` {
		t.Fatalf("recent = %s", w.Body.String())
	}
}

func TestSessionOwnership(t *testing.T) {
	wheel := newTestWheel(t)
	r := newRouter(wheel)
	id := openSession(t, wheel, walletA)

	if w := request(t, r, http.MethodPost, "/wheel/spin", "WalletBBBB2222", map[string]string{"session_id": id}); w.Code != http.StatusNotFound {
		t.Fatalf("foreign session: got %d", w.Code)
	}
	if w := request(t, r, http.MethodPost, "/wheel/eligibility", "WalletBBBB2222", nil); w.Code != http.StatusNotFound {
		t.Fatalf("wallet without sessions: got %d", w.Code)
	}
	if w := request(t, r, http.MethodPost, "/wheel/eligibility", walletA, nil); w.Code != http.StatusOK {
		t.Fatalf("all sessions of the wallet: got %d", w.Code)
	}
}

func TestWriteServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrUnknownSession, http.StatusNotFound},
		{service.ErrNoSession, http.StatusNotFound},
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{loop.ErrStopped, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		writeServiceError(c, tc.err)
		if w.Code != tc.want {
			t.Fatalf("%v: got %d want %d", tc.err, w.Code, tc.want)
		}
	}
}
