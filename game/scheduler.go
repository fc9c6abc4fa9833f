package game

import (
	"sync"
	"time"
)

// Task is a handle on a scheduled callback. Cancel is idempotent and never
// blocks waiting for a running callback.
type Task interface {
	Cancel()
}

// Scheduler runs periodic and one-shot callbacks for sessions.
type Scheduler interface {
	Now() time.Time
	Every(d time.Duration, fn func()) Task
	After(d time.Duration, fn func()) Task
}

// ClockScheduler schedules callbacks on the wall clock.
type ClockScheduler struct{}

// NewClockScheduler returns a scheduler backed by time.Ticker and time.AfterFunc.
func NewClockScheduler() *ClockScheduler {
	return &ClockScheduler{}
}

func (*ClockScheduler) Now() time.Time { return time.Now() }

// Every calls fn every d until the task is cancelled.
func (*ClockScheduler) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{stop: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return t
}

// After calls fn once after d unless the task is cancelled first.
func (*ClockScheduler) After(d time.Duration, fn func()) Task {
	return &timerTask{timer: time.AfterFunc(d, fn)}
}

// EveryFrom calls fn once after first and then every d, until cancelled.
// It resumes a periodic timer that had already run part of its interval.
func EveryFrom(s Scheduler, first, d time.Duration, fn func()) Task {
	if first >= d {
		return s.Every(d, fn)
	}
	first = max(first, 0)

	t := &phasedTask{}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = s.After(first, func() {
		fn()
		t.mu.Lock()
		defer t.mu.Unlock()
		if !t.cancelled {
			t.current = s.Every(d, fn)
		}
	})
	return t
}

// phasedTask is a one-shot that hands over to a periodic task once it fires.
type phasedTask struct {
	mu        sync.Mutex
	current   Task
	cancelled bool
}

func (t *phasedTask) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelled = true
	t.current.Cancel()
}

type tickerTask struct {
	stop chan struct{}
	once sync.Once
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.stop) })
}

type timerTask struct {
	timer *time.Timer
}

func (t *timerTask) Cancel() {
	t.timer.Stop()
}
