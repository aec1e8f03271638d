package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"prize_wheel/internal/domain"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/metrics"
	"prize_wheel/internal/repository"
)

// DefaultStorageKey is the fixed identifier the recent winners record lives under
const DefaultStorageKey = "recentWins"

const storeTimeout = 3 * time.Second

// RecentWins is the bounded newest-first log of winners. It is owned by the
// engine loop and is not safe for concurrent use.
type RecentWins struct {
	store   repository.StateStore
	key     string
	entries []domain.RecentWin
}

// NewRecentWins creates an empty log persisted to store under key
func NewRecentWins(store repository.StateStore, key string) *RecentWins {
	if key == "" {
		key = DefaultStorageKey
	}
	return &RecentWins{store: store, key: key}
}

// Load replaces the in-memory log with the persisted record. A missing or
// unreadable record leaves the log empty; Load never fails the caller.
func (r *RecentWins) Load(ctx context.Context) {
	r.entries = nil

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	b, err := r.store.Load(ctx, r.key)
	if errors.Is(err, repository.ErrNotFound) {
		return
	}
	if err != nil {
		metrics.StoreErrors.WithLabelValues("load").Inc()
		logger.Warn("recent wins load failed, starting empty", "key", r.key, "error", err)
		return
	}

	var entries []domain.RecentWin
	if err := json.Unmarshal(b, &entries); err != nil {
		metrics.StoreErrors.WithLabelValues("decode").Inc()
		logger.Warn("recent wins record corrupt, starting empty", "key", r.key, "error", err)
		return
	}
	if len(entries) > domain.RecentWinsLimit {
		entries = entries[:domain.RecentWinsLimit]
	}
	r.entries = entries
}

// Record prepends entry, evicts past the limit and persists synchronously
func (r *RecentWins) Record(ctx context.Context, entry domain.RecentWin) {
	updated := make([]domain.RecentWin, 0, domain.RecentWinsLimit)
	updated = append(updated, entry)
	updated = append(updated, r.entries...)
	if len(updated) > domain.RecentWinsLimit {
		updated = updated[:domain.RecentWinsLimit]
	}
	r.entries = updated
	r.Persist(ctx)
}

// Persist overwrites the stored record with the current log. Failures are
// logged and counted; the in-memory log stays authoritative.
func (r *RecentWins) Persist(ctx context.Context) {
	entries := r.entries
	if entries == nil {
		entries = []domain.RecentWin{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		logger.Error("recent wins encode failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()
	if err := r.store.Save(ctx, r.key, b); err != nil {
		metrics.StoreErrors.WithLabelValues("save").Inc()
		logger.Warn("recent wins persist failed", "key", r.key, "error", err)
	}
}

// Entries returns a copy of the log, newest first
func (r *RecentWins) Entries() []domain.RecentWin {
	cp := make([]domain.RecentWin, len(r.entries))
	copy(cp, r.entries)
	return cp
}

// Len returns the number of entries
func (r *RecentWins) Len() int {
	return len(r.entries)
}
