package ethermac

//
// Rx Engine
//

// HandleSignalEvent is the Signal Adapter: the single entry
// point through which a signal's start, update, and end events from the
// wire reach this MAC. It is the dual of [MAC.Submit] on the transmit side.
func (m *MAC) HandleSignalEvent(sig *Signal) {
	if sig.FullDuplex != m.mode {
		fatal(ReasonDuplexMismatch, "peer's duplex claim does not match local mode")
	}

	if !m.connected {
		if sig.IsReceptionEnd() {
			m.dropFrame(sig.Frame, DropInterfaceDown)
		}
		return
	}

	if !m.mode {
		propagation := m.now().Sub(sig.SendingTime)
		if propagation >= m.channel.MaxPropagationDelay {
			fatal(ReasonPropagationExceeded, "observed propagation delay exceeds channel's cable-length bound")
		}
	}

	if sig.OrigPacketID == noOrigPacketID {
		if m.activeReceptionID != noOrigPacketID {
			fatal(ReasonMixedReception, "reception start while another reception is already active")
		}
		m.activeReceptionID = sig.ID
		m.activeReceptionStart = m.now()
		m.calculateRxStatus()
		return
	}

	if m.activeReceptionID == noOrigPacketID {
		// A start was missed; adopt this id. active_reception_start is set
		// to now rather than the signal's true start, so the duration check
		// in handleEndRx will (correctly) flag this reception as bit-errored
		// once it ends.
		m.activeReceptionID = sig.OrigPacketID
		m.activeReceptionStart = m.now()
	} else if m.activeReceptionID != sig.OrigPacketID {
		fatal(ReasonMixedReception, "update/end correlates to an id other than the active reception")
	}

	m.calculateRxStatus()
	if sig.IsReceptionEnd() {
		m.handleEndRx(sig)
	}
}

// handleEndRx runs when a reception's end event arrives: it accounts the
// elapsed time, detects partial receptions via the duration mismatch, and
// hands complete frames off to frameReceptionComplete.
func (m *MAC) handleEndRx(sig *Signal) {
	m.activeReceptionID = noOrigPacketID
	elapsedBusy := m.now().Sub(m.channelBusySince)

	switch m.rxState {
	case RxReceiving:
		actual := m.now().Sub(m.activeReceptionStart)
		if actual != sig.Duration {
			sig.BitError = true
			if sig.Frame != nil {
				sig.Frame.BitError = true
			}
		}
		m.frameReceptionComplete(sig)
		m.counters.SuccessfulTime += elapsedBusy
	case RxCollision:
		m.counters.CollisionTime += elapsedBusy
	case RxReconnect:
		// Discarded: this reception began before the link last came up.
	}

	m.calculateRxStatus()
	if !m.mode && m.txState == TxIdle {
		m.scheduleEndIfg()
	}
}

// frameReceptionComplete decapsulates a fully-received, non-errored signal
// and routes its frame: dropped for a bit error or codec failure, dropped
// for a foreign destination outside promiscuous mode, absorbed by the PAUSE
// Handler, or delivered to the upper layer.
func (m *MAC) frameReceptionComplete(sig *Signal) {
	if sig.Payload == SignalPayloadFilledIfg || sig.Frame == nil {
		return
	}
	frame := sig.Frame

	if sig.BitError || frame.BitError {
		m.dropFrame(frame, DropIncorrectlyReceived)
		return
	}
	if err := m.codec.VerifyAndStrip(frame); err != nil {
		m.dropFrame(frame, DropIncorrectlyReceived)
		return
	}

	isLocal := frame.Header.Dest == m.localMAC
	isBroadcast := frame.Header.Dest == BroadcastMAC
	if !isLocal && !isBroadcast && !m.promiscuity.Promiscuous() {
		m.dropFrame(frame, DropNotAddressedToUs)
		return
	}

	if frame.Header.IsPauseFrame() {
		m.counters.PauseFramesReceived++
		m.observer.OnPacketReceivedFromLower(frame)
		m.handlePauseFrame(frame)
		return
	}

	m.counters.FramesReceived++
	m.counters.BytesReceived += uint64(frame.WireLength() + 4)
	if !isLocal && !isBroadcast {
		m.counters.FramesObservedPromiscuous++
	}
	m.observer.OnPacketReceivedFromLower(frame)
	m.upper.Deliver(frame)
}
