package ethermac

import "testing"

func expectModelError(t *testing.T, reason string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		me, ok := r.(*ModelError)
		if !ok {
			t.Fatalf("panic = %#v, want *ModelError", r)
		}
		if me.Reason != reason {
			t.Fatalf("panic reason = %q, want %q", me.Reason, reason)
		}
	}()
	fn()
}

func TestNewMACRejectsHalfDuplexOnFullDuplexOnlyChannel(t *testing.T) {
	expectModelError(t, ReasonDuplexMismatch, func() {
		NewMAC(Config{
			LocalMAC: addr(1), FullDuplex: false, Channel: TenGigabitFullDuplexOnly,
			Clock: NewSimClock(), Queue: &fifoTestQueue{}, Out: &recordingOut{}, Upper: &recordingUpper{},
		})
	})
}

func TestSubmitRejectsSelfAddressedFrame(t *testing.T) {
	h := newHarness(addr(1), false, TenMegabit)
	expectModelError(t, ReasonSelfAddressed, func() {
		h.mac.Submit(&Frame{Header: Header{Dest: addr(1)}})
	})
}

func TestSubmitRejectsOversizedFrame(t *testing.T) {
	h := newHarness(addr(1), false, TenMegabit)
	expectModelError(t, ReasonOversizedPacket, func() {
		h.mac.Submit(&Frame{Header: Header{Dest: addr(2)}, Data: make([]byte, MaxEthernetFrameBytes+1)})
	})
}

func TestSubmitWhileDisconnectedDropsImmediately(t *testing.T) {
	h := newHarness(addr(1), false, TenMegabit)
	h.mac.OnLinkChange(false)
	h.mac.Submit(&Frame{Header: Header{Dest: addr(2)}, Data: []byte("x")})

	if got, want := h.mac.Counters().DropsInterfaceDown, uint64(1); got != want {
		t.Fatalf("DropsInterfaceDown = %d, want %d", got, want)
	}
	if len(h.observer.drops) != 1 || h.observer.drops[0].Reason != DropInterfaceDown {
		t.Fatalf("observer drops = %+v, want one DropInterfaceDown", h.observer.drops)
	}
}

func TestIdleTransmitSingleStation(t *testing.T) {
	h := newHarness(addr(1), false, TenMegabit)
	h.mac.Submit(&Frame{Header: Header{Dest: addr(2)}, Data: []byte("hello")})
	if h.mac.txState != TxTransmitting {
		t.Fatalf("tx_state right after Submit = %v, want TRANSMITTING", h.mac.txState)
	}
	h.mac.checkInvariants()

	h.clock.Run()

	if got, want := h.mac.Counters().FramesSent, uint64(1); got != want {
		t.Fatalf("FramesSent = %d, want %d", got, want)
	}
	if h.mac.txState != TxIdle {
		t.Fatalf("tx_state after the run drains = %v, want IDLE", h.mac.txState)
	}
	if h.mac.rxState != RxIdle {
		t.Fatalf("rx_state after an uncontested send = %v, want RX_IDLE", h.mac.rxState)
	}
	h.mac.checkInvariants()

	// Two signal events: the start and the end of the one transmission.
	if len(h.out.sent) != 2 {
		t.Fatalf("signals sent = %d, want 2 (start, end)", len(h.out.sent))
	}
	if h.out.sent[0].Event != SignalStart || h.out.sent[1].Event != SignalEnd {
		t.Fatalf("signal events = %v, %v, want Start then End", h.out.sent[0].Event, h.out.sent[1].Event)
	}
}

func TestOnLinkChangeDownDropsInFlightFrameAndCancelsTimers(t *testing.T) {
	h := newHarness(addr(1), false, TenMegabit)
	h.mac.Submit(&Frame{Header: Header{Dest: addr(2)}, Data: []byte("x")})
	if h.mac.txState != TxTransmitting {
		t.Fatalf("setup: tx_state = %v, want TRANSMITTING", h.mac.txState)
	}

	h.mac.OnLinkChange(false)

	if h.mac.txState != TxIdle {
		t.Fatalf("tx_state after link down = %v, want IDLE", h.mac.txState)
	}
	if h.mac.Counters().DropsInterfaceDown != 1 {
		t.Fatalf("DropsInterfaceDown = %d, want 1", h.mac.Counters().DropsInterfaceDown)
	}
	h.mac.checkInvariants()
}

func TestOnLinkChangeUpResumesQueuedFrame(t *testing.T) {
	h := newHarness(addr(1), false, TenMegabit)
	h.mac.OnLinkChange(false)
	h.queue.Enqueue(&Frame{Header: Header{Dest: addr(2)}, Data: []byte("x")})

	h.mac.OnLinkChange(true)
	if h.mac.txState != TxTransmitting {
		t.Fatalf("tx_state after reconnecting with a queued frame = %v, want TRANSMITTING", h.mac.txState)
	}
}

func TestCheckInvariantsCatchesExcessiveBackoffCount(t *testing.T) {
	h := newHarness(addr(1), false, TenMegabit)
	h.mac.backoffCount = MaxAttempts + 1
	expectModelError(t, "INVARIANT_4_VIOLATED", func() {
		h.mac.checkInvariants()
	})
}
