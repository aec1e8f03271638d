package service

import (
	"context"
	"errors"

	"prize_wheel/internal/domain"
	"prize_wheel/internal/game"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/loop"
	"prize_wheel/internal/metrics"
	"prize_wheel/internal/render"

	"github.com/google/uuid"
)

var (
	ErrUnknownSession = errors.New("unknown session")
	ErrNoSession      = errors.New("no open session for wallet")
)

// WheelService owns every wheel session of the process. Sessions live on the
// engine loop; the exported methods taking a context are safe from any
// goroutine, the rest must run on the loop.
type WheelService struct {
	ctx      context.Context
	loop     *loop.Loop
	cat      *game.Catalogue
	wins     *RecentWins
	cfg      SessionConfig
	rng      game.RandomSource
	sessions map[string]*Session
}

// NewWheelService creates the service. A nil rng uses crypto/rand.
func NewWheelService(ctx context.Context, l *loop.Loop, cat *game.Catalogue, wins *RecentWins, cfg SessionConfig, rng game.RandomSource) *WheelService {
	if rng == nil {
		rng = game.CryptoSource{}
	}
	return &WheelService{
		ctx:      logger.NewContext(ctx, "component", "wheel"),
		loop:     l,
		cat:      cat,
		wins:     wins,
		cfg:      cfg,
		rng:      rng,
		sessions: make(map[string]*Session),
	}
}

func (w *WheelService) Loop() *loop.Loop           { return w.loop }
func (w *WheelService) Catalogue() *game.Catalogue { return w.cat }
func (w *WheelService) Config() SessionConfig      { return w.cfg }

// OpenSession creates a session on the loop thread
func (w *WheelService) OpenSession(wallet string, surface render.Surface, obs Observer) *Session {
	s := NewSession(w.ctx, w.loop, w.cat, w.wins, SessionOptions{
		ID:       uuid.New().String(),
		Wallet:   wallet,
		Surface:  surface,
		Observer: obs,
		Random:   w.rng,
		Config:   w.cfg,
	})
	s.onRecorded = w.broadcastWins
	w.sessions[s.id] = s
	metrics.SessionsActive.Inc()
	s.log.Debug("wheel session opened", "wallet", domain.ShortenWallet(wallet))
	return s
}

// CloseSession drops a session on the loop thread
func (w *WheelService) CloseSession(id string) {
	s, ok := w.sessions[id]
	if !ok {
		return
	}
	s.Close()
	delete(w.sessions, id)
	metrics.SessionsActive.Dec()
	s.log.Debug("wheel session closed")
}

// Session looks a session up on the loop thread
func (w *WheelService) Session(id string) (*Session, bool) {
	s, ok := w.sessions[id]
	return s, ok
}

// SessionsFor returns the sessions bound to wallet, on the loop thread
func (w *WheelService) SessionsFor(wallet string) []*Session {
	var out []*Session
	for _, s := range w.sessions {
		if s.wallet == wallet {
			out = append(out, s)
		}
	}
	return out
}

// recent wins are shared, so every open widget is told when the log changes
func (w *WheelService) broadcastWins() {
	for _, s := range w.sessions {
		s.observer.StateChanged(s)
	}
}

// resolve picks the wallet's sessions: one by id, or all of them when id is empty
func (w *WheelService) resolve(wallet, id string) ([]*Session, error) {
	if id != "" {
		s, ok := w.sessions[id]
		if !ok || s.wallet != wallet {
			return nil, ErrUnknownSession
		}
		return []*Session{s}, nil
	}
	list := w.SessionsFor(wallet)
	if len(list) == 0 {
		return nil, ErrNoSession
	}
	return list, nil
}

// Open creates a session from outside the loop and returns its snapshot
func (w *WheelService) Open(ctx context.Context, wallet string, surface render.Surface, obs Observer) (domain.SessionSnapshot, error) {
	var snap domain.SessionSnapshot
	err := w.loop.Call(ctx, func() {
		snap = w.OpenSession(wallet, surface, obs).Snapshot()
	})
	return snap, err
}

// Close drops a session from outside the loop without waiting
func (w *WheelService) Close(id string) {
	w.loop.Post(func() { w.CloseSession(id) })
}

// OpenGate delivers the eligibility signal to the wallet's sessions
func (w *WheelService) OpenGate(ctx context.Context, wallet, sessionID string) ([]domain.SessionSnapshot, error) {
	var (
		snaps []domain.SessionSnapshot
		opErr error
	)
	err := w.loop.Call(ctx, func() {
		list, err := w.resolve(wallet, sessionID)
		if err != nil {
			opErr = err
			return
		}
		for _, s := range list {
			s.SetSpinGate(true)
			snaps = append(snaps, s.Snapshot())
		}
	})
	if err != nil {
		return nil, err
	}
	return snaps, opErr
}

// Spin requests a spin on one session. started is false when the request was ignored.
func (w *WheelService) Spin(ctx context.Context, wallet, sessionID string) (snap domain.SessionSnapshot, started bool, err error) {
	err = w.onSession(ctx, wallet, sessionID, func(s *Session) {
		started = s.RequestSpin()
		snap = s.Snapshot()
	})
	return snap, started, err
}

// Reset clears a resolved result on one session
func (w *WheelService) Reset(ctx context.Context, wallet, sessionID string) (snap domain.SessionSnapshot, cleared bool, err error) {
	err = w.onSession(ctx, wallet, sessionID, func(s *Session) {
		cleared = s.Reset()
		snap = s.Snapshot()
	})
	return snap, cleared, err
}

// Snapshot reads one session
func (w *WheelService) Snapshot(ctx context.Context, wallet, sessionID string) (snap domain.SessionSnapshot, err error) {
	err = w.onSession(ctx, wallet, sessionID, func(s *Session) {
		snap = s.Snapshot()
	})
	return snap, err
}

// RecentWins reads the shared log
func (w *WheelService) RecentWins(ctx context.Context) ([]domain.RecentWin, error) {
	var out []domain.RecentWin
	err := w.loop.Call(ctx, func() {
		out = w.wins.Entries()
	})
	return out, err
}

// Ping reports whether the loop is processing tasks
func (w *WheelService) Ping(ctx context.Context) error {
	return w.loop.Call(ctx, func() {})
}

func (w *WheelService) onSession(ctx context.Context, wallet, sessionID string, fn func(*Session)) error {
	if sessionID == "" {
		return ErrUnknownSession
	}
	var opErr error
	err := w.loop.Call(ctx, func() {
		list, err := w.resolve(wallet, sessionID)
		if err != nil {
			opErr = err
			return
		}
		fn(list[0])
	})
	if err != nil {
		return err
	}
	return opErr
}
