package ws

import (
	"context"
	"errors"
	"sync"

	"prize_wheel/internal/domain"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/service"
)

var (
	ErrTooManySessions = errors.New("too many open wheels for this wallet")
	errClientGone      = errors.New("client disconnected")
)

// Hub tracks connected widgets and binds each one to a wheel session
type Hub struct {
	Wheel *service.WheelService

	mu           sync.RWMutex
	clients      map[*Client]string // client -> session id
	perWallet    map[string]int
	maxPerWallet int
}

// NewHub creates a hub. maxPerWallet <= 0 means unlimited.
func NewHub(wheel *service.WheelService, maxPerWallet int) *Hub {
	return &Hub{
		Wheel:        wheel,
		clients:      make(map[*Client]string),
		perWallet:    make(map[string]int),
		maxPerWallet: maxPerWallet,
	}
}

// Attach opens a session for c with c as its observer
func (h *Hub) Attach(ctx context.Context, c *Client) (domain.SessionSnapshot, error) {
	h.mu.Lock()
	if h.maxPerWallet > 0 && h.perWallet[c.Wallet] >= h.maxPerWallet {
		h.mu.Unlock()
		return domain.SessionSnapshot{}, ErrTooManySessions
	}
	// reserve the slot before the loop call so parallel dials cannot overshoot
	h.perWallet[c.Wallet]++
	h.mu.Unlock()

	snap, err := h.Wheel.Open(ctx, c.Wallet, c.recorder, c)
	if err != nil {
		h.release(c.Wallet)
		return domain.SessionSnapshot{}, err
	}

	h.mu.Lock()
	select {
	case <-c.Done:
		h.mu.Unlock()
		h.release(c.Wallet)
		h.Wheel.Close(snap.SessionID)
		return domain.SessionSnapshot{}, errClientGone
	default:
	}
	c.SessionID = snap.SessionID
	h.clients[c] = snap.SessionID
	h.mu.Unlock()

	logger.Info("ws client attached", "session", snap.SessionID, "wallet", domain.ShortenWallet(c.Wallet))
	return snap, nil
}

// Detach closes the client's session. Safe to call more than once.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	id, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()
	if !ok {
		return
	}

	h.release(c.Wallet)
	h.Wheel.Close(id)
	logger.Info("ws client detached", "session", id, "wallet", domain.ShortenWallet(c.Wallet))
}

func (h *Hub) release(wallet string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.perWallet[wallet] <= 1 {
		delete(h.perWallet, wallet)
		return
	}
	h.perWallet[wallet]--
}

// Count returns the number of attached clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll disconnects every client, used on shutdown
func (h *Hub) CloseAll() {
	h.mu.RLock()
	list := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.RUnlock()

	for _, c := range list {
		c.stop()
	}
}
