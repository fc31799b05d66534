package ethermac

//
// Collision Arbiter
//

// calculateRxStatus recomputes rxState from the current activity on the
// wire and, in half-duplex mode, detects Tx∩Rx overlap and triggers a jam.
// It is invoked after every event that could change what is "active" on
// the wire: a signal start/update/end, and the end of the IFG period, so
// that a reception begun during the just-completed IFG is detected here.
func (m *MAC) calculateRxStatus() {
	active := m.activeReceptionID != noOrigPacketID
	old := m.rxState

	if m.mode {
		// Full-duplex: invariant 5 guarantees RX_COLLISION is unreachable.
		if active {
			m.rxState = RxReceiving
		} else {
			m.rxState = RxIdle
		}
	} else {
		txOnWire := m.txOnWire()
		switch {
		case active && txOnWire:
			wasCollision := m.rxState == RxCollision
			m.rxState = RxCollision
			if !wasCollision {
				m.counters.Collisions++
				m.observer.OnCollision(true)
				m.abortTransmissionAndAppendJam()
			}
		case !active && !txOnWire:
			m.rxState = RxIdle
			if old == RxCollision {
				m.observer.OnCollision(false)
			}
		case active && !txOnWire:
			// Rx only, not already colliding.
			if m.rxState != RxCollision {
				m.rxState = RxReceiving
			}
		default:
			// txOnWire only: our own transmission, nobody else on the wire.
			m.rxState = RxIdle
			if old == RxCollision {
				m.observer.OnCollision(false)
			}
		}
	}

	if old == RxIdle && m.rxState != RxIdle {
		m.channelBusySince = m.now()
	}
}
