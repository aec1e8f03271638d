package service

import (
	"context"
	"log/slog"
	"time"

	"prize_wheel/internal/anim"
	"prize_wheel/internal/domain"
	"prize_wheel/internal/game"
	"prize_wheel/internal/logger"
	"prize_wheel/internal/loop"
	"prize_wheel/internal/metrics"
	"prize_wheel/internal/render"
)

// SessionConfig holds the timing of a wheel session
type SessionConfig struct {
	SpinDuration        time.Duration
	ExtraTurns          int
	CelebrationDuration time.Duration
	LossDuration        time.Duration
	FreeSpinClearDelay  time.Duration
	FreeSpinRearmDelay  time.Duration
	RetryClearDelay     time.Duration
}

// DefaultSessionConfig returns the stock timings
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SpinDuration:        4 * time.Second,
		ExtraTurns:          game.DefaultExtraTurns,
		CelebrationDuration: 2 * time.Second,
		LossDuration:        2500 * time.Millisecond,
		FreeSpinClearDelay:  time.Second,
		FreeSpinRearmDelay:  time.Second,
		RetryClearDelay:     2 * time.Second,
	}
}

// Observer receives session events. Calls happen on the loop thread and must not block.
type Observer interface {
	Frame(s *Session, orientation float64)
	SpinResolved(s *Session, out domain.SpinOutcome)
	StateChanged(s *Session)
}

// NopObserver ignores every event
type NopObserver struct{}

func (NopObserver) Frame(*Session, float64)                   {}
func (NopObserver) SpinResolved(*Session, domain.SpinOutcome) {}
func (NopObserver) StateChanged(*Session)                     {}

// Session is one wheel widget: orientation, spin gate, displayed result and
// transient effects. Every method must be called on the loop thread.
type Session struct {
	id       string
	wallet   string
	ctx      context.Context
	loop     *loop.Loop
	cat      *game.Catalogue
	rng      game.RandomSource
	wins     *RecentWins
	surface  render.Surface
	observer Observer
	cfg      SessionConfig
	log      *slog.Logger

	// set by the owning service to fan recent-wins changes out
	onRecorded func()

	orientation float64
	canSpin     bool
	phase       domain.Phase
	result      *game.Outcome
	resultSpin  uint64
	effects     domain.Effects
	// spin that raised each effect, so a stale timer cannot clear a newer one
	celebrationSpin uint64
	lossSpin        uint64
	spinSeq         uint64
	animation       *anim.Animation

	timers map[*loop.Timer]struct{}
	closed bool
}

// SessionOptions configures NewSession
type SessionOptions struct {
	ID       string
	Wallet   string
	Surface  render.Surface
	Observer Observer
	Random   game.RandomSource
	Config   SessionConfig
}

// NewSession creates an idle session with the gate closed at orientation 0
func NewSession(ctx context.Context, l *loop.Loop, cat *game.Catalogue, wins *RecentWins, opts SessionOptions) *Session {
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	rng := opts.Random
	if rng == nil {
		rng = game.CryptoSource{}
	}
	s := &Session{
		id:       opts.ID,
		wallet:   opts.Wallet,
		ctx:      ctx,
		loop:     l,
		cat:      cat,
		rng:      rng,
		wins:     wins,
		surface:  opts.Surface,
		observer: obs,
		cfg:      opts.Config,
		log:      logger.WithContext(ctx).With("session", opts.ID),
		phase:    domain.PhaseIdle,
		timers:   make(map[*loop.Timer]struct{}),
	}
	s.redraw()
	return s
}

func (s *Session) ID() string              { return s.id }
func (s *Session) Wallet() string          { return s.wallet }
func (s *Session) Orientation() float64    { return s.orientation }
func (s *Session) CanSpin() bool           { return s.canSpin }
func (s *Session) Phase() domain.Phase     { return s.phase }
func (s *Session) Effects() domain.Effects { return s.effects }
func (s *Session) SpinCount() uint64       { return s.spinSeq }

// Result returns the displayed outcome, if any
func (s *Session) Result() (game.Outcome, bool) {
	if s.result == nil {
		return game.Outcome{}, false
	}
	return *s.result, true
}

// SetIdentity binds the wallet used for recent-winner entries. Empty clears it.
func (s *Session) SetIdentity(wallet string) {
	s.wallet = wallet
}

// SetSpinGate is the external eligibility signal
func (s *Session) SetSpinGate(open bool) {
	if s.closed {
		return
	}
	if open && !s.canSpin {
		metrics.GateOpened.WithLabelValues("external").Inc()
	}
	s.canSpin = open
	s.redraw()
	s.observer.StateChanged(s)
}

// RequestSpin starts a spin. It is a no-op returning false while the gate is
// closed or another spin is in flight.
func (s *Session) RequestSpin() bool {
	if s.closed {
		return false
	}
	if s.phase == domain.PhaseSpinning {
		metrics.SpinRejected.WithLabelValues("in_flight").Inc()
		return false
	}
	if !s.canSpin {
		metrics.SpinRejected.WithLabelValues("gate_closed").Inc()
		return false
	}

	// the gate closes before the first frame can be scheduled
	s.canSpin = false
	s.phase = domain.PhaseSpinning
	s.result = nil
	s.effects = domain.Effects{}
	s.spinSeq++
	spinID := s.spinSeq

	idx := s.cat.Select(s.rng)
	plan := game.PlanRotation(s.orientation, idx, s.cat.Len(), s.cfg.ExtraTurns)

	s.log.Debug("spin started",
		"spin", spinID, "index", idx,
		"from", s.orientation, "target", plan.Target, "delta", plan.Delta)

	s.animation = anim.Run(s.loop, s.orientation, plan.Target, s.cfg.SpinDuration,
		s.onFrame,
		func() { s.resolve(spinID, idx) },
	)
	s.observer.StateChanged(s)
	return true
}

// Reset is the external "play again" action: it clears a resolved result
func (s *Session) Reset() bool {
	if s.closed || s.phase != domain.PhaseResolved {
		return false
	}
	s.result = nil
	s.phase = domain.PhaseIdle
	s.redraw()
	s.observer.StateChanged(s)
	return true
}

// Close stops pending timers and detaches the session from its observer
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	s.observer = NopObserver{}
}

// Snapshot returns a read-only view of the session
func (s *Session) Snapshot() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{
		SessionID:   s.id,
		Phase:       s.phase,
		Orientation: s.orientation,
		CanSpin:     s.canSpin,
		Spinning:    s.phase == domain.PhaseSpinning,
		SpinCount:   s.spinSeq,
		Effects:     s.effects,
		RecentWins:  s.wins.Entries(),
	}
	if s.result != nil {
		out := *s.result
		snap.Result = &out
		snap.Claimable = out.Kind.Claimable()
	}
	return snap
}

func (s *Session) onFrame(orientation float64) {
	if s.closed {
		return
	}
	s.orientation = orientation
	s.redraw()
	s.observer.Frame(s, orientation)
}

func (s *Session) resolve(spinID uint64, idx int) {
	if s.closed || spinID != s.spinSeq || s.phase != domain.PhaseSpinning {
		return
	}

	if landed := game.SegmentUnderPointer(s.orientation, s.cat.Len()); landed != idx {
		s.log.Error("wheel landed off target", "spin", spinID, "want", idx, "landed", landed)
	}

	out := s.cat.Outcome(idx)
	s.phase = domain.PhaseResolved
	s.result = &out
	s.resultSpin = spinID
	metrics.Spins.WithLabelValues(out.Kind.String()).Inc()

	s.log.Info("spin resolved", "spin", spinID, "label", out.Label, "kind", out.Kind.String())
	s.observer.SpinResolved(s, domain.SpinOutcome{SpinID: spinID, Outcome: out})

	switch out.Kind {
	case game.KindFreeSpin:
		s.after(s.cfg.FreeSpinClearDelay, func() { s.clearResult(spinID) })
		s.after(s.cfg.FreeSpinRearmDelay, s.rearm)
	case game.KindNothing:
		s.effects.Loss = true
		s.lossSpin = spinID
		s.after(s.cfg.LossDuration, func() {
			if s.lossSpin == spinID && s.effects.Loss {
				s.effects.Loss = false
				s.observer.StateChanged(s)
			}
		})
	case game.KindRetry:
		s.after(s.cfg.RetryClearDelay, func() { s.clearResult(spinID) })
	default:
		s.effects.Celebration = true
		s.celebrationSpin = spinID
		s.after(s.cfg.CelebrationDuration, func() {
			if s.celebrationSpin == spinID && s.effects.Celebration {
				s.effects.Celebration = false
				s.observer.StateChanged(s)
			}
		})
	}

	if out.Kind.Recorded() {
		s.recordWin(out)
	}
	s.redraw()
	s.observer.StateChanged(s)
}

func (s *Session) recordWin(out game.Outcome) {
	if s.wallet == "" {
		s.log.Debug("no identity at resolution, skipping recent wins")
		return
	}
	s.wins.Record(s.ctx, domain.RecentWin{
		WalletShort: domain.ShortenWallet(s.wallet),
		Prize:       out.Label,
	})
	if s.onRecorded != nil {
		s.onRecorded()
	}
}

// clearResult drops the displayed result of spinID if it is still showing
func (s *Session) clearResult(spinID uint64) {
	if s.phase != domain.PhaseResolved || s.resultSpin != spinID {
		return
	}
	s.result = nil
	s.phase = domain.PhaseIdle
	s.redraw()
	s.observer.StateChanged(s)
}

func (s *Session) rearm() {
	s.canSpin = true
	metrics.GateOpened.WithLabelValues("free_spin").Inc()
	s.redraw()
	s.observer.StateChanged(s)
}

func (s *Session) after(d time.Duration, fn func()) {
	var t *loop.Timer
	t = s.loop.AfterFunc(d, func() {
		delete(s.timers, t)
		if s.closed {
			return
		}
		fn()
	})
	s.timers[t] = struct{}{}
}

// active decides the wheel palette: gray only while idle behind a closed gate
func (s *Session) active() bool {
	return s.canSpin || s.phase != domain.PhaseIdle
}

// Redraw paints the current state again, e.g. after the surface was resized
func (s *Session) Redraw() {
	s.redraw()
}

func (s *Session) redraw() {
	if s.surface == nil {
		return
	}
	render.DrawWheel(s.surface, s.cat, s.orientation, s.active())
}
