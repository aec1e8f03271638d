package middleware

import (
	"sync"
	"time"
)

type windowInfo struct {
	start time.Time
	count int64
}

// memoryWindow is the in-process fixed-window counter used when Redis is
// not configured or not answering
type memoryWindow struct {
	mu      sync.Mutex
	window  time.Duration
	clients map[string]*windowInfo
}

func newMemoryWindow(window time.Duration) *memoryWindow {
	return &memoryWindow{window: window, clients: make(map[string]*windowInfo)}
}

// incr counts a hit for key and returns the count inside the current window
func (m *memoryWindow) incr(key string, now time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ci, ok := m.clients[key]
	if !ok || now.Sub(ci.start) >= m.window {
		if len(m.clients) > 10000 {
			m.prune(now)
		}
		m.clients[key] = &windowInfo{start: now, count: 1}
		return 1
	}
	ci.count++
	return ci.count
}

func (m *memoryWindow) prune(now time.Time) {
	for k, ci := range m.clients {
		if now.Sub(ci.start) >= m.window {
			delete(m.clients, k)
		}
	}
}
