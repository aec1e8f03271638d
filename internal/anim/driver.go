package anim

import (
	"time"

	"prize_wheel/internal/loop"
)

// FrameScheduler hands out rendering opportunities. *loop.Loop implements it.
type FrameScheduler interface {
	RequestFrame(fn loop.FrameFunc)
}

// Animation interpolates a value from From to To over Duration, easing out.
// The start timestamp is taken from the first frame it receives.
type Animation struct {
	From     float64
	To       float64
	Duration time.Duration

	sched      FrameScheduler
	onFrame    func(value float64)
	onComplete func()

	started   bool
	startedAt time.Time
	frames    int
	done      bool
}

// Run starts an animation and requests its first frame. onFrame runs once per
// frame; onComplete runs exactly once, right after the frame that reached the
// target, and no further frames are requested after it.
func Run(sched FrameScheduler, from, to float64, d time.Duration, onFrame func(float64), onComplete func()) *Animation {
	a := &Animation{
		From:       from,
		To:         to,
		Duration:   d,
		sched:      sched,
		onFrame:    onFrame,
		onComplete: onComplete,
	}
	sched.RequestFrame(a.frame)
	return a
}

// Progress returns linear progress in [0,1] at now
func (a *Animation) Progress(now time.Time) float64 {
	if !a.started {
		return 0
	}
	if a.Duration <= 0 {
		return 1
	}
	return clamp01(float64(now.Sub(a.startedAt)) / float64(a.Duration))
}

// Value returns the eased value at now
func (a *Animation) Value(now time.Time) float64 {
	if a.done {
		return a.To
	}
	return Lerp(a.From, a.To, EaseOutCubic(a.Progress(now)))
}

// Done reports whether the completion callback has fired
func (a *Animation) Done() bool {
	return a.done
}

// Frames returns how many frames were rendered
func (a *Animation) Frames() int {
	return a.frames
}

// Tick is the frame callback. Calls after completion are ignored, so a frame
// source that delivers late or duplicate callbacks cannot complete twice.
func (a *Animation) Tick(now time.Time) {
	a.frame(now)
}

func (a *Animation) frame(now time.Time) {
	if a.done {
		return
	}
	if !a.started {
		a.started = true
		a.startedAt = now
	}

	p := a.Progress(now)
	value := a.To
	if p < 1 {
		value = Lerp(a.From, a.To, EaseOutCubic(p))
	}

	a.frames++
	if a.onFrame != nil {
		a.onFrame(value)
	}

	if p < 1 {
		a.sched.RequestFrame(a.frame)
		return
	}

	a.done = true
	if a.onComplete != nil {
		a.onComplete()
	}
}
