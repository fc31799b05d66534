package ethermac

import (
	"testing"
	"time"
)

func TestSimClockOrdersEventsByTimeThenSchedulingOrder(t *testing.T) {
	clock := NewSimClock()
	var order []string

	clock.AfterFunc(Time(10*time.Millisecond), func() { order = append(order, "b-first") })
	clock.AfterFunc(Time(10*time.Millisecond), func() { order = append(order, "b-second") })
	clock.AfterFunc(Time(5*time.Millisecond), func() { order = append(order, "a") })

	clock.Run()

	want := []string{"a", "b-first", "b-second"}
	if len(order) != len(want) {
		t.Fatalf("fired %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("fired %v, want %v", order, want)
		}
	}
}

func TestSimClockCancelSkipsTheEvent(t *testing.T) {
	clock := NewSimClock()
	fired := false
	cancel := clock.AfterFunc(Time(time.Millisecond), func() { fired = true })
	cancel()
	clock.Run()
	if fired {
		t.Fatalf("a cancelled event fired anyway")
	}
}

func TestSimClockRunUntilStopsAtDeadline(t *testing.T) {
	clock := NewSimClock()
	var fired []Time
	clock.AfterFunc(Time(5*time.Millisecond), func() { fired = append(fired, clock.Now()) })
	clock.AfterFunc(Time(15*time.Millisecond), func() { fired = append(fired, clock.Now()) })

	clock.RunUntil(Time(10 * time.Millisecond))
	if len(fired) != 1 {
		t.Fatalf("RunUntil(10ms) ran %d events, want 1", len(fired))
	}
	if clock.Pending() != 1 {
		t.Fatalf("RunUntil(10ms) left %d events pending, want 1", clock.Pending())
	}

	clock.RunUntil(Time(20 * time.Millisecond))
	if len(fired) != 2 {
		t.Fatalf("RunUntil(20ms) ran %d events total, want 2", len(fired))
	}
}

func TestTimerSlotsRejectsDoubleSchedule(t *testing.T) {
	clock := NewSimClock()
	slots := newTimerSlots(clock)
	slots.schedule(TimerEndTx, Time(time.Millisecond), func() {})

	defer func() {
		r := recover()
		me, ok := r.(*ModelError)
		if !ok {
			t.Fatalf("scheduling an already-outstanding timer panicked with %T, want *ModelError", r)
		}
		if me.Reason != ReasonTimerWrongState {
			t.Fatalf("panic reason = %q, want %q", me.Reason, ReasonTimerWrongState)
		}
	}()
	slots.schedule(TimerEndTx, Time(2*time.Millisecond), func() {})
}

func TestTimerSlotsReschedule(t *testing.T) {
	clock := NewSimClock()
	slots := newTimerSlots(clock)
	var fired string
	slots.schedule(TimerEndTx, Time(time.Millisecond), func() { fired = "first" })
	slots.reschedule(TimerEndTx, Time(2*time.Millisecond), func() { fired = "second" })
	clock.Run()
	if fired != "second" {
		t.Fatalf("fired = %q, want %q (reschedule must cancel the previous expiry)", fired, "second")
	}
}

func TestTimerSlotsCancelIsIdempotent(t *testing.T) {
	clock := NewSimClock()
	slots := newTimerSlots(clock)
	slots.cancel(TimerEndTx)
	slots.schedule(TimerEndTx, Time(time.Millisecond), func() {})
	slots.cancel(TimerEndTx)
	slots.cancel(TimerEndTx)
	if slots.scheduled(TimerEndTx) {
		t.Fatalf("scheduled() = true after cancel")
	}
}
