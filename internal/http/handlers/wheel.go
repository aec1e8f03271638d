package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"prize_wheel/internal/domain"
	"prize_wheel/internal/render"

	"github.com/gin-gonic/gin"
)

const engineTimeout = 2 * time.Second

// WheelSegmentInfo is one row of /wheel/info
type WheelSegmentInfo struct {
	Index  int     `json:"index"`
	Label  string  `json:"label"`
	Kind   string  `json:"kind"`
	Weight float64 `json:"weight"`
	Share  string  `json:"share"`
	Color  string  `json:"color"`
}

// SessionRequest addresses one wheel session of the caller
type SessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// EligibilityRequest optionally narrows the signal to one session
type EligibilityRequest struct {
	SessionID string `json:"session_id"`
}

// SpinResponse reports whether the spin started and the session afterwards
type SpinResponse struct {
	Started bool                   `json:"started"`
	State   domain.SessionSnapshot `json:"state"`
}

// WheelInfo returns the catalogue with exact shares for the frontend
func (h *Handler) WheelInfo(c *gin.Context) {
	cat := h.Wheel.Catalogue()
	shares := cat.Shares(4)

	segments := make([]WheelSegmentInfo, cat.Len())
	for i, seg := range cat.Segments() {
		segments[i] = WheelSegmentInfo{
			Index:  i,
			Label:  seg.Label,
			Kind:   seg.Kind.String(),
			Weight: seg.Weight,
			Share:  shares[i].String(),
			Color:  render.SegmentColor(i, cat.Len(), true).Hex(),
		}
	}

	cfg := h.Wheel.Config()
	c.JSON(http.StatusOK, gin.H{
		"segments":         segments,
		"total_weight":     cat.Total(),
		"spin_duration_ms": cfg.SpinDuration.Milliseconds(),
		"extra_turns":      cfg.ExtraTurns,
	})
}

// RecentWins returns the shared recent winners log, newest first
func (h *Handler) RecentWins(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), engineTimeout)
	defer cancel()

	wins, err := h.Wheel.RecentWins(ctx)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent_wins": wins})
}

// Eligibility is the external "payment confirmed" signal: it opens the spin
// gate of the caller's wheels
func (h *Handler) Eligibility(c *gin.Context) {
	wallet, ok := getWallet(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req EligibilityRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), engineTimeout)
	defer cancel()

	snaps, err := h.Wheel.OpenGate(ctx, wallet, req.SessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": snaps})
}

// Spin requests a spin on one of the caller's wheels. A closed gate or a spin
// in flight is not an error: started is false and nothing changes.
func (h *Handler) Spin(c *gin.Context) {
	wallet, ok := getWallet(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), engineTimeout)
	defer cancel()

	snap, started, err := h.Wheel.Spin(ctx, wallet, req.SessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SpinResponse{Started: started, State: snap})
}

// Reset is the "play again" action
func (h *Handler) Reset(c *gin.Context) {
	wallet, ok := getWallet(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), engineTimeout)
	defer cancel()

	snap, cleared, err := h.Wheel.Reset(ctx, wallet, req.SessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared, "state": snap})
}

// Render returns the draw commands of the wheel at a given rotation, for
// canvases that do not hold a socket open
func (h *Handler) Render(c *gin.Context) {
	rotation, err := strconv.ParseFloat(c.DefaultQuery("rotation", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rotation"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "600"))
	if err != nil || size <= 0 || size > 4096 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}
	active := c.DefaultQuery("active", "true") != "false"

	rec := render.NewRecorder(size, size)
	render.DrawWheel(rec, h.Wheel.Catalogue(), rotation, active)
	c.JSON(http.StatusOK, gin.H{"width": size, "height": size, "commands": rec.Commands()})
}
