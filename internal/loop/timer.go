package loop

import (
	"container/heap"
	"time"
)

// Timer is a one-shot task scheduled with Loop.AfterFunc
type Timer struct {
	loop     *Loop
	id       uint64
	deadline time.Time
	fn       func()
	index    int
	fired    bool
}

// Stop cancels the timer. It reports false if the timer already fired or was stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.fired || t.index < 0 {
		return false
	}
	heap.Remove(&t.loop.timers, t.index)
	return true
}

// Deadline returns when the timer fires
func (t *Timer) Deadline() time.Time {
	return t.deadline
}

// timerQueue orders timers by deadline, then by scheduling order
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].id < q[j].id
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
