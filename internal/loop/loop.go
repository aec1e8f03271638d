package loop

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"prize_wheel/internal/logger"
)

// ErrStopped is returned by Call once Run has returned
var ErrStopped = errors.New("loop stopped")

// claim states of a task queued by Call
const (
	taskQueued int32 = iota
	taskRunning
	taskAbandoned
)

// FrameFunc receives the time of the step that runs it
type FrameFunc func(now time.Time)

// Loop is the single logical thread every engine mutation runs on. Frame
// callbacks, one-shot timers and posted tasks all execute inside Step, so
// code running on the loop needs no locking.
type Loop struct {
	clock Clock

	frames  []FrameFunc
	timers  timerQueue
	timerID uint64

	tasks    chan func()
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates a loop reading time from clock
func New(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Loop{
		clock: clock,
		tasks:   make(chan func(), 1024),
		stopped: make(chan struct{}),
	}
}

// Clock returns the loop's time source
func (l *Loop) Clock() Clock {
	return l.clock
}

// Now returns the loop's current time
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// RequestFrame schedules fn for the next step. Loop thread only.
func (l *Loop) RequestFrame(fn FrameFunc) {
	l.frames = append(l.frames, fn)
}

// PendingFrames returns the number of frame callbacks waiting for a step
func (l *Loop) PendingFrames() int {
	return len(l.frames)
}

// AfterFunc schedules fn to run once, d after now. Loop thread only.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	l.timerID++
	t := &Timer{
		loop:     l,
		id:       l.timerID,
		deadline: l.clock.Now().Add(d),
		fn:       fn,
		index:    -1,
	}
	heap.Push(&l.timers, t)
	return t
}

// PendingTimers returns the number of timers that have not fired or been stopped
func (l *Loop) PendingTimers() int {
	return l.timers.Len()
}

// Post enqueues fn to run on the loop thread. Safe from any goroutine. Once
// Run has returned the task is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.stopped:
		logger.Debug("loop stopped, dropping posted task")
	}
}

// Call runs fn on the loop thread and waits for it. When ctx ends first, fn
// either never runs and ctx.Err() is returned, or it had already started and
// Call waits for it and returns nil.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	var state atomic.Int32
	done := make(chan struct{})
	task := func() {
		if !state.CompareAndSwap(taskQueued, taskRunning) {
			return
		}
		fn()
		close(done)
	}

	select {
	case l.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopped:
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ctx.Err()
		}
	case <-l.stopped:
		if state.CompareAndSwap(taskQueued, taskAbandoned) {
			return ErrStopped
		}
	}
	// fn is already running
	<-done
	return nil
}

// Done is closed when Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.stopped
}

// Step runs posted tasks, then due timers in deadline order, then the frame
// callbacks requested before this step began.
func (l *Loop) Step() {
	l.drainTasks()

	now := l.clock.Now()
	for l.timers.Len() > 0 && !l.timers[0].deadline.After(now) {
		t := heap.Pop(&l.timers).(*Timer)
		t.fired = true
		t.fn()
	}

	if len(l.frames) == 0 {
		return
	}
	frames := l.frames
	l.frames = nil
	for _, fn := range frames {
		fn(now)
	}
}

func (l *Loop) drainTasks() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}

// Run drives Step on a ticker until ctx is done. Posted tasks run as soon as
// they arrive instead of waiting for the next tick.
func (l *Loop) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer l.stopOnce.Do(func() { close(l.stopped) })

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.Step()
		}
	}
}
