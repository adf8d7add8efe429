// Package poller provides the recurring-refresh machinery for the dashboard
// feeds: a per-feed sequence guard that keeps responses in request-issue
// order, and a cancellable fixed-interval scheduler so a torn-down view
// never leaves an orphaned timer polling the backend.
package poller

import (
	"sync"
	"time"
)

// Feed guards one independent data feed. Every outbound request takes a
// sequence number from Begin; when its response arrives, Accept reports
// whether it is still the most recently initiated request. Responses
// overtaken by a newer request are discarded, never applied.
type Feed struct {
	mu     sync.Mutex
	issued uint64
}

// Begin registers a new outbound request and returns its sequence number.
func (f *Feed) Begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	return f.issued
}

// Accept reports whether the response for seq may be applied. Only the
// latest-initiated request's response is ever accepted.
func (f *Feed) Accept(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return seq == f.issued
}

// Discard invalidates every outstanding request for the feed. Used when the
// owning surface closes so a late response cannot mutate its state.
func (f *Feed) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
}

// Scheduler drives the background refresh cycle. Start arms a fixed-interval
// ticker; Wait blocks until the next tick or until Stop. Both Start and
// Stop are idempotent, and a Scheduler can be restarted after stopping
// (login → logout → login reuses the same instance).
type Scheduler struct {
	interval time.Duration

	mu      sync.Mutex
	running bool
	ticker  *time.Ticker
	stop    chan struct{}
}

// NewScheduler creates a stopped scheduler with the given interval.
func NewScheduler(interval time.Duration) *Scheduler {
	return &Scheduler{interval: interval}
}

// Start arms the ticker. No-op when already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.ticker = time.NewTicker(s.interval)
	s.stop = make(chan struct{})
	s.running = true
}

// Stop disarms the ticker and releases every blocked Wait. No-op when
// already stopped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.ticker.Stop()
	close(s.stop)
	s.running = false
}

// Running reports whether the scheduler is armed.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Wait blocks until the next tick, returning true, or until the scheduler
// is stopped, returning false. Calling Wait on a stopped scheduler returns
// false immediately.
func (s *Scheduler) Wait() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return false
	}
	tick := s.ticker.C
	stop := s.stop
	s.mu.Unlock()

	select {
	case <-tick:
		return true
	case <-stop:
		return false
	}
}
