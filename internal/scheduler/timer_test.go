package scheduler

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSimpleTimerScheduleAfter(t *testing.T) {
	st := NewSimpleTimer()
	defer st.Stop()

	fired := make(chan struct{})
	id := st.ScheduleAfter(10*time.Millisecond, func() { close(fired) })
	if id == "" {
		t.Fatal("expected a timer id")
	}
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	if st.Active() != 0 {
		t.Errorf("expected no active timers after firing, got %d", st.Active())
	}
}

func TestSimpleTimerCancel(t *testing.T) {
	st := NewSimpleTimer()
	defer st.Stop()

	var fired atomic.Bool
	id := st.ScheduleAfter(20*time.Millisecond, func() { fired.Store(true) })
	st.Cancel(id)

	time.Sleep(50 * time.Millisecond)
	if fired.Load() {
		t.Error("cancelled timer fired")
	}
	if st.Active() != 0 {
		t.Errorf("expected no active timers after cancel, got %d", st.Active())
	}

	// Cancelling unknown or empty ids is a no-op.
	st.Cancel("")
	st.Cancel("no-such-timer")
}

func TestSimpleTimerStopCancelsAll(t *testing.T) {
	st := NewSimpleTimer()

	var fired atomic.Int32
	for i := 0; i < 3; i++ {
		st.ScheduleAfter(20*time.Millisecond, func() { fired.Add(1) })
	}
	if st.Active() != 3 {
		t.Fatalf("expected 3 active timers, got %d", st.Active())
	}
	st.Stop()

	time.Sleep(50 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("expected no timers to fire after Stop, %d fired", got)
	}
	if st.Active() != 0 {
		t.Errorf("expected no active timers after Stop, got %d", st.Active())
	}
}
