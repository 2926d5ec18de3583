package library

import (
	"sync"
	"time"
)

// Scheduler coalesces bursts of writes into a single deferred flush.
// Schedule cancels and rearms the pending flush; Flush runs it
// immediately. The flush function always observes the latest in-memory
// state at fire time, so rapid successive mutations collapse into one
// write.
type Scheduler struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

// NewScheduler returns a Scheduler that runs fn after delay of
// inactivity.
func NewScheduler(delay time.Duration, fn func()) *Scheduler {
	return &Scheduler{
		delay: delay,
		fn:    fn,
	}
}

// Schedule arms the deferred flush, cancelling any pending one.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		s.timer = nil
		s.mu.Unlock()

		s.fn()
	})
}

// Flush cancels any pending deferred write and runs the flush function
// synchronously.
func (s *Scheduler) Flush() {
	s.mu.Lock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.mu.Unlock()

	s.fn()
}

// Pending reports whether a deferred flush is armed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.timer != nil
}
