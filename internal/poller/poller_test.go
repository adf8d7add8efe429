package poller

import (
	"testing"
	"time"
)

func TestFeedDiscardsOvertakenResponse(t *testing.T) {
	var f Feed

	first := f.Begin()
	second := f.Begin()

	// Out-of-order arrival: the second (latest) response lands first.
	if !f.Accept(second) {
		t.Fatal("latest-initiated response must be accepted")
	}
	if f.Accept(first) {
		t.Fatal("overtaken response must be discarded")
	}
}

func TestFeedInOrder(t *testing.T) {
	var f Feed
	s1 := f.Begin()
	if !f.Accept(s1) {
		t.Fatal("sole outstanding response must be accepted")
	}
	s2 := f.Begin()
	if !f.Accept(s2) {
		t.Fatal("next cycle's response must be accepted")
	}
}

func TestFeedDiscard(t *testing.T) {
	var f Feed
	seq := f.Begin()
	f.Discard()
	if f.Accept(seq) {
		t.Fatal("response arriving after Discard must be ignored")
	}
}

func TestSchedulerTicks(t *testing.T) {
	s := NewScheduler(5 * time.Millisecond)
	s.Start()
	defer s.Stop()

	done := make(chan bool, 1)
	go func() { done <- s.Wait() }()

	select {
	case fired := <-done:
		if !fired {
			t.Fatal("Wait returned false while running")
		}
	case <-time.After(time.Second):
		t.Fatal("Wait never fired")
	}
}

func TestSchedulerStopReleasesWait(t *testing.T) {
	s := NewScheduler(time.Hour)
	s.Start()

	done := make(chan bool, 1)
	go func() { done <- s.Wait() }()

	// Give Wait a chance to block on the ticker.
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	select {
	case fired := <-done:
		if fired {
			t.Fatal("Wait should report stopped, not a tick")
		}
	case <-time.After(time.Second):
		t.Fatal("Stop did not release Wait")
	}

	if s.Wait() {
		t.Fatal("Wait on a stopped scheduler must return false immediately")
	}
	if s.Running() {
		t.Fatal("Running() should be false after Stop")
	}
}

func TestSchedulerRestart(t *testing.T) {
	s := NewScheduler(5 * time.Millisecond)
	s.Start()
	s.Stop()
	s.Start()
	defer s.Stop()

	done := make(chan bool, 1)
	go func() { done <- s.Wait() }()
	select {
	case fired := <-done:
		if !fired {
			t.Fatal("restarted scheduler should tick")
		}
	case <-time.After(time.Second):
		t.Fatal("restarted scheduler never ticked")
	}
}

func TestSchedulerIdempotentStartStop(t *testing.T) {
	s := NewScheduler(time.Hour)
	s.Start()
	s.Start()
	s.Stop()
	s.Stop() // must not panic on double close
}
