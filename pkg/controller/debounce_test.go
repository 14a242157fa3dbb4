package controller

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerLastScheduledWins(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var first, second int32
	d.Schedule(func() { atomic.AddInt32(&first, 1) })
	d.Schedule(func() { atomic.AddInt32(&second, 1) })

	time.Sleep(120 * time.Millisecond)

	if atomic.LoadInt32(&first) != 0 {
		t.Error("expected the superseded function never to fire")
	}
	if atomic.LoadInt32(&second) != 1 {
		t.Errorf("expected the last function to fire once, fired %d times", second)
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired int32
	d.Schedule(func() { atomic.AddInt32(&fired, 1) })
	d.Cancel()

	time.Sleep(120 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("expected cancelled function never to fire")
	}
}

func TestDebouncerFlush(t *testing.T) {
	d := NewDebouncer(time.Hour)

	done := make(chan struct{})
	d.Schedule(func() { close(done) })
	d.Flush()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Flush to fire the pending function immediately")
	}
}

func TestDebouncerScheduleAfterCancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired int32
	d.Schedule(func() { atomic.AddInt32(&fired, 1) })
	d.Cancel()
	d.Schedule(func() { atomic.AddInt32(&fired, 1) })

	time.Sleep(120 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("expected exactly one firing after re-schedule, got %d", fired)
	}
}
