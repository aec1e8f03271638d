package loop

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"prize_wheel/internal/logger"
)

func init() {
	logger.InitWriter(io.Discard, "error", false)
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtualClock(t *testing.T) {
	c := NewVirtualClock(epoch)
	if !c.Now().Equal(epoch) {
		t.Fatalf("Now = %v; want %v", c.Now(), epoch)
	}

	c.Advance(90 * time.Minute)
	if want := epoch.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Fatalf("after Advance Now = %v; want %v", c.Now(), want)
	}

	next := epoch.Add(24 * time.Hour)
	c.Set(next)
	if !c.Now().Equal(next) {
		t.Fatalf("after Set Now = %v; want %v", c.Now(), next)
	}
}

func TestTimersFireInDeadlineOrder(t *testing.T) {
	clock := NewVirtualClock(epoch)
	l := New(clock)

	var order []string
	l.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	l.AfterFunc(1*time.Second, func() { order = append(order, "a") })
	l.AfterFunc(2*time.Second, func() { order = append(order, "c") })

	clock.Advance(999 * time.Millisecond)
	l.Step()
	if len(order) != 0 {
		t.Fatalf("timers fired early: %v", order)
	}

	clock.Advance(time.Millisecond)
	l.Step()
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("after 1s got %v; want [a]", order)
	}

	clock.Advance(time.Second)
	l.Step()
	if len(order) != 3 || order[1] != "b" || order[2] != "c" {
		t.Fatalf("after 2s got %v; want [a b c]", order)
	}
	if l.PendingTimers() != 0 {
		t.Fatalf("pending timers = %d", l.PendingTimers())
	}
}

func TestTimerStop(t *testing.T) {
	clock := NewVirtualClock(epoch)
	l := New(clock)

	fired := 0
	keep := l.AfterFunc(time.Second, func() { fired++ })
	drop := l.AfterFunc(time.Second, func() { fired += 10 })

	if !drop.Stop() {
		t.Fatalf("Stop on pending timer returned false")
	}
	if drop.Stop() {
		t.Fatalf("second Stop returned true")
	}

	clock.Advance(time.Second)
	l.Step()
	if fired != 1 {
		t.Fatalf("fired = %d; want 1", fired)
	}
	if keep.Stop() {
		t.Fatalf("Stop after firing returned true")
	}
}

func TestFramesRequestedDuringStepRunNextStep(t *testing.T) {
	clock := NewVirtualClock(epoch)
	l := New(clock)

	runs := 0
	var frame FrameFunc
	frame = func(now time.Time) {
		runs++
		if runs < 3 {
			l.RequestFrame(frame)
		}
	}
	l.RequestFrame(frame)

	for i := 1; i <= 5; i++ {
		l.Step()
		want := i
		if want > 3 {
			want = 3
		}
		if runs != want {
			t.Fatalf("step %d: runs = %d; want %d", i, runs, want)
		}
	}
	if l.PendingFrames() != 0 {
		t.Fatalf("pending frames = %d", l.PendingFrames())
	}
}

func TestFrameReceivesStepTime(t *testing.T) {
	clock := NewVirtualClock(epoch)
	l := New(clock)

	var got time.Time
	l.RequestFrame(func(now time.Time) { got = now })
	clock.Advance(16 * time.Millisecond)
	l.Step()

	if want := epoch.Add(16 * time.Millisecond); !got.Equal(want) {
		t.Fatalf("frame time = %v; want %v", got, want)
	}
}

func TestPostRunsOnStep(t *testing.T) {
	l := New(NewVirtualClock(epoch))

	ran := make(chan struct{})
	go l.Post(func() { close(ran) })

	deadline := time.After(2 * time.Second)
	for {
		l.Step()
		select {
		case <-ran:
			return
		case <-deadline:
			t.Fatalf("posted task never ran")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}

func TestRunAndCall(t *testing.T) {
	l := New(SystemClock{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx, 5*time.Millisecond)

	counter := 0
	for i := 0; i < 10; i++ {
		if err := l.Call(ctx, func() { counter++ }); err != nil {
			t.Fatalf("Call: %v", err)
		}
	}
	if counter != 10 {
		t.Fatalf("counter = %d; want 10", counter)
	}

	fired := make(chan struct{})
	if err := l.Call(ctx, func() {
		l.AfterFunc(10*time.Millisecond, func() { close(fired) })
	}); err != nil {
		t.Fatalf("Call: %v", err)
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("timer never fired under Run")
	}
}

func TestCallRespectsContext(t *testing.T) {
	l := New(NewVirtualClock(epoch))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// nobody drives the loop
	if err := l.Call(ctx, func() {}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestCallTimedOutTaskNeverRuns(t *testing.T) {
	l := New(NewVirtualClock(epoch))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	ran := false
	if err := l.Call(ctx, func() { ran = true }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Call err = %v; want DeadlineExceeded", err)
	}

	// the queued task comes up after the caller gave up
	l.Step()
	if ran {
		t.Fatalf("task ran after Call reported a timeout")
	}
}

func TestCallWaitsForStartedTask(t *testing.T) {
	l := New(NewVirtualClock(epoch))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	go func() {
		for len(l.tasks) == 0 {
			time.Sleep(time.Millisecond)
		}
		l.Step()
	}()

	result := 0
	err := l.Call(ctx, func() {
		// outlive the caller's deadline
		time.Sleep(60 * time.Millisecond)
		result = 42
	})
	if err != nil {
		t.Fatalf("Call err = %v; a started task must be reported", err)
	}
	if result != 42 {
		t.Fatalf("result = %d", result)
	}
}

func TestPostAfterRunReturns(t *testing.T) {
	l := New(SystemClock{})
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx, time.Millisecond)
	cancel()

	select {
	case <-l.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}

	var posted atomic.Int32
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for i := 0; i < 3000; i++ {
			l.Post(func() {})
			posted.Add(1)
		}
	}()
	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("Post blocked after %d tasks on a stopped loop", posted.Load())
	}

	if err := l.Call(context.Background(), func() {}); !errors.Is(err, ErrStopped) {
		t.Fatalf("Call on stopped loop err = %v; want ErrStopped", err)
	}
}
