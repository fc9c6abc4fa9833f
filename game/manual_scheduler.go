package game

import (
	"sync"
	"time"
)

// ManualScheduler is a virtual clock. Callbacks only run inside Advance, on the
// caller's goroutine, in due-time order. It drives tests and scripted replays.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	s         *ManualScheduler
	seq       int
	due       time.Time
	period    time.Duration
	fn        func()
	cancelled bool
}

// NewManualScheduler starts the virtual clock at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

func (s *ManualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualScheduler) Every(d time.Duration, fn func()) Task {
	return s.add(d, d, fn)
}

func (s *ManualScheduler) After(d time.Duration, fn func()) Task {
	return s.add(d, 0, fn)
}

func (s *ManualScheduler) add(d, period time.Duration, fn func()) *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{s: s, seq: s.seq, due: s.now.Add(d), period: period, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

func (t *manualTask) Cancel() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.cancelled = true
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	for {
		next := s.nextDue(target)
		if next == nil {
			break
		}
		s.now = next.due
		if next.period > 0 {
			next.due = next.due.Add(next.period)
		} else {
			next.cancelled = true
		}
		s.mu.Unlock()
		next.fn()
		s.mu.Lock()
	}
	s.now = target
	s.compact()
	s.mu.Unlock()
}

// Pending counts the live tasks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compact()
	return len(s.tasks)
}

func (s *ManualScheduler) nextDue(target time.Time) *manualTask {
	var next *manualTask
	for _, t := range s.tasks {
		if t.cancelled || t.due.After(target) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (s *ManualScheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}
