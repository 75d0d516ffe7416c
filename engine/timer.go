package engine

import (
	"sync"
	"time"
)

// Scheduler schedules one-shot callbacks on the UI thread's event loop.
// The returned cancel is idempotent: cancelling an already-fired or
// already-cancelled timer is a no-op.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// ClockScheduler is the real Scheduler: time.AfterFunc with the callback
// marshaled through Dispatch (the Fyne backend passes fyne.Do).
type ClockScheduler struct {
	Dispatch func(func())
}

func (s ClockScheduler) After(d time.Duration, fn func()) func() {
	dispatch := s.Dispatch
	if dispatch == nil {
		dispatch = func(f func()) { f() }
	}

	var mu sync.Mutex
	done := false

	t := time.AfterFunc(d, func() {
		dispatch(func() {
			mu.Lock()
			if done {
				mu.Unlock()
				return
			}
			done = true
			mu.Unlock()
			fn()
		})
	})
	return func() {
		mu.Lock()
		if done {
			mu.Unlock()
			return
		}
		done = true
		mu.Unlock()
		t.Stop()
	}
}

// ManualScheduler queues callbacks and fires them on demand. Test use.
type ManualScheduler struct {
	pending []*manualTimer
}

type manualTimer struct {
	d     time.Duration
	fn    func()
	fired bool
	dead  bool
}

func (s *ManualScheduler) After(d time.Duration, fn func()) func() {
	t := &manualTimer{d: d, fn: fn}
	s.pending = append(s.pending, t)
	return func() { t.dead = true }
}

// Fire runs every pending timer with a delay at or under d.
func (s *ManualScheduler) Fire(d time.Duration) {
	for _, t := range s.pending {
		if t.fired || t.dead || t.d > d {
			continue
		}
		t.fired = true
		t.fn()
	}
}

// Pending counts timers that have neither fired nor been cancelled.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.fired && !t.dead {
			n++
		}
	}
	return n
}
