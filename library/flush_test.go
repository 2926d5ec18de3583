package library

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerCoalesces(t *testing.T) {
	var fires atomic.Int32

	s := NewScheduler(time.Hour, func() {
		fires.Add(1)
	})

	for i := 0; i < 5; i++ {
		s.Schedule()
	}

	if !s.Pending() {
		t.Fatal("a flush should be pending after Schedule")
	}

	s.Flush()

	if got := fires.Load(); got != 1 {
		t.Errorf("flushes = %d, want 1", got)
	}

	if s.Pending() {
		t.Error("no flush should be pending after Flush")
	}
}

func TestSchedulerFiresAfterDelay(t *testing.T) {
	var fires atomic.Int32

	s := NewScheduler(10*time.Millisecond, func() {
		fires.Add(1)
	})

	s.Schedule()

	deadline := time.Now().Add(2 * time.Second)

	for fires.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("scheduled flush never fired")
		}

		time.Sleep(5 * time.Millisecond)
	}

	if s.Pending() {
		t.Error("no flush should be pending after it fired")
	}
}

func TestFlushWithoutSchedule(t *testing.T) {
	var fires atomic.Int32

	s := NewScheduler(time.Hour, func() {
		fires.Add(1)
	})

	s.Flush()

	if got := fires.Load(); got != 1 {
		t.Errorf("flushes = %d, want 1", got)
	}
}
