package ethermac

//
// Tx Engine
//

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// burstEpoch anchors virtual [Time] to a real time.Time so a [rate.Limiter]
// (which only knows about time.Time) can gate the burst byte budget.
var burstEpoch = time.Unix(0, 0)

func asWallTime(t Time) time.Time {
	return burstEpoch.Add(time.Duration(t))
}

// Submit accepts a frame from the upper layer. It pads and checksums the
// frame, enqueues it, and starts transmission immediately if the Tx Engine
// is idle and the medium is available.
func (m *MAC) Submit(frame *Frame) {
	if frame.Header.Dest == m.localMAC {
		fatal(ReasonSelfAddressed, "submitted frame addressed to local MAC")
	}
	if len(frame.Data) > MaxEthernetFrameBytes {
		fatal(ReasonOversizedPacket, "payload exceeds MaxEthernetFrameBytes")
	}
	if !m.connected {
		m.dropFrame(frame, DropInterfaceDown)
		return
	}
	if frame.Header.Src.IsZero() {
		frame.Header.Src = m.localMAC
	}
	frame.PadTo(MinEthernetFrameBytes)
	frame.ComputeFCS()
	m.queue.Enqueue(frame)

	if m.txState == TxIdle && (m.mode || m.rxState == RxIdle) {
		if m.currentTxFrame == nil {
			if f, ok := m.queue.Dequeue(); ok {
				m.currentTxFrame = f
			}
		}
		if m.currentTxFrame != nil {
			m.startFrameTransmission()
		}
	}
}

// startFrameTransmission wraps m.currentTxFrame in a signal, puts it on the
// wire, and transitions Tx to TRANSMITTING.
func (m *MAC) startFrameTransmission() {
	frame := m.currentTxFrame
	midBurst := m.framesSentInBurst > 0

	var minLength int
	if m.mode {
		minLength = MinEthernetFrameBytesWithFCS
	} else {
		minLength = m.channel.HalfDuplexFrameMinBytesFor(midBurst)
	}
	actualBytes := frame.WireLength() + 4
	extension := ExtensionBytes(minLength, actualBytes)
	duration := signalDuration(actualBytes, extension, m.channel.BitRate)

	sig := &Signal{
		ID:           m.newSignalID(),
		OrigPacketID: noOrigPacketID,
		Event:        SignalStart,
		Payload:      SignalPayloadData,
		Frame:        frame,
		FullDuplex:   m.mode,
		BitRate:      m.channel.BitRate,
		Duration:     duration,
		SendingTime:  m.now(),
	}
	frame.ID = sig.ID
	dup := *sig
	m.currentTxSignal = &dup
	m.txSendingTime = m.now()
	m.out.Send(sig)
	m.observer.OnPacketSentToLower(frame)

	m.timers.schedule(TimerEndTx, m.now().Add(duration), m.handleEndTx)

	m.txState = TxTransmitting
	if !m.mode {
		m.channelBusySince = m.now()
	}
	m.calculateRxStatus()
}

// handleEndTx is the endTx timer's expiry handler. It emits the signal's
// end event and branches on what was on the wire when the timer fired.
func (m *MAC) handleEndTx() {
	sig := m.currentTxSignal
	if sig == nil {
		fatal(ReasonNoCurrentTxSignal, "endTx fired with no current_tx_signal")
	}
	finish := *sig
	finish.Event = SignalEnd
	finish.OrigPacketID = sig.ID
	finish.Duration = m.now().Sub(m.txSendingTime)
	m.out.Send(&finish)
	if sig.Frame != nil {
		m.observer.OnPacketSentFinished(sig.Frame)
	}

	prevState := m.txState
	m.currentTxSignal = nil

	switch prevState {
	case TxSendIFG:
		m.beginSendFrames()
	case TxJamming:
		m.handleEndJamming()
	case TxTransmitting:
		m.handleSuccessfulTx()
	default:
		fatal(ReasonTimerWrongState, "endTx fired while tx_state="+prevState.String())
	}
}

// handleSuccessfulTx runs after an uncontested transmission finishes: it
// updates counters, serves a pending PAUSE if one arrived mid-transmission,
// otherwise either continues a burst or moves on to the ordinary IFG wait.
func (m *MAC) handleSuccessfulTx() {
	frame := m.currentTxFrame
	m.counters.FramesSent++
	m.counters.BytesSent += uint64(frame.WireLength() + 4)
	if frame.Header.IsPauseFrame() {
		m.counters.PauseFramesSent++
	}

	if !m.mode {
		m.counters.SuccessfulTime += m.now().Sub(m.channelBusySince)
	}
	if m.channel.BurstingEnabled && !m.mode {
		n := frame.WireLength() + 4
		if m.framesSentInBurst == 0 && m.channel.MaxBytesInBurst > 0 {
			m.burstLimiter = rate.NewLimiter(0, m.channel.MaxBytesInBurst)
			m.burstLimiter.AllowN(asWallTime(m.now()), n)
		}
		m.framesSentInBurst++
		m.bytesSentInBurst += n
	}

	m.currentTxFrame = nil
	m.lastTxFinishTime = m.now()
	m.backoffCount = 0

	if m.pendingPauseUnits > 0 {
		units := m.pendingPauseUnits
		m.pendingPauseUnits = 0
		m.schedulePause(units)
		return
	}

	if m.tryBeginBurst() {
		return
	}
	m.resetBurstCounters()
	m.scheduleEndIfg()
}

// tryBeginBurst attempts to keep the wire busy with a filled IFG and the
// next queued frame instead of idling. It
// reports whether a burst continuation was started.
func (m *MAC) tryBeginBurst() bool {
	if m.mode || !m.channel.BurstingEnabled || m.framesSentInBurst == 0 {
		return false
	}
	if m.currentTxFrame == nil {
		f, ok := m.queue.Dequeue()
		if !ok {
			return false
		}
		m.currentTxFrame = f
	}
	if m.channel.MaxFramesInBurst > 0 && m.framesSentInBurst >= m.channel.MaxFramesInBurst {
		return false
	}
	n := m.currentTxFrame.WireLength() + 4
	if m.channel.MaxBytesInBurst > 0 && m.burstLimiter != nil {
		if !m.burstLimiter.AllowN(asWallTime(m.now()), n) {
			return false
		}
	}
	m.sendFilledIfg()
	return true
}

// sendFilledIfg keeps the wire busy for one IFG period with no frame on it,
// then hands off to beginSendFrames when it ends.
func (m *MAC) sendFilledIfg() {
	d := bitsToDuration(InterframeGapBits, m.channel.BitRate)
	sig := &Signal{
		ID:           m.newSignalID(),
		OrigPacketID: noOrigPacketID,
		Event:        SignalStart,
		Payload:      SignalPayloadFilledIfg,
		FullDuplex:   m.mode,
		BitRate:      m.channel.BitRate,
		Duration:     d,
		SendingTime:  m.now(),
	}
	dup := *sig
	m.currentTxSignal = &dup
	m.txSendingTime = m.now()
	m.out.Send(sig)

	m.timers.schedule(TimerEndTx, m.now().Add(d), m.handleEndTx)
	m.txState = TxSendIFG
	m.channelBusySince = m.now()
}

// resetBurstCounters clears the burst's frame/byte budget.
func (m *MAC) resetBurstCounters() {
	m.framesSentInBurst = 0
	m.bytesSentInBurst = 0
	m.burstLimiter = nil
}

// scheduleEndIfg transitions Tx to WAIT_IFG and arms the endIfg timer for
// one interframe-gap period from now.
func (m *MAC) scheduleEndIfg() {
	m.txState = TxWaitIFG
	d := bitsToDuration(InterframeGapBits, m.channel.BitRate)
	m.timers.schedule(TimerEndIFG, m.now().Add(d), m.handleEndIfg)
}

// handleEndIfg is the endIfg timer's expiry handler.
func (m *MAC) handleEndIfg() {
	if m.txState != TxWaitIFG {
		fatal(ReasonTimerWrongState, "endIfg fired while tx_state="+m.txState.String())
	}
	m.calculateRxStatus()
	m.beginSendFrames()
}

// beginSendFrames pops the queue if no frame is already held, then starts
// transmission or goes idle. A just-finished
// filled-IFG reuses this same handoff.
func (m *MAC) beginSendFrames() {
	if m.currentTxFrame == nil {
		if f, ok := m.queue.Dequeue(); ok {
			m.currentTxFrame = f
		}
	}
	if m.currentTxFrame != nil {
		m.startFrameTransmission()
	} else {
		m.txState = TxIdle
	}
}

// tryBeginSendFrame resumes transmission of an already-held frame if the
// medium allows it, otherwise parks in IDLE to wait for a trigger (handle
// end of reception, a later endIfg).
func (m *MAC) tryBeginSendFrame() {
	if m.currentTxFrame != nil && (m.mode || m.rxState == RxIdle) {
		m.startFrameTransmission()
	} else {
		m.txState = TxIdle
	}
}

// handleEndBackoff is the endBackoff timer's expiry handler.
func (m *MAC) handleEndBackoff() {
	if m.txState != TxBackoff {
		fatal(ReasonTimerWrongState, "endBackoff fired while tx_state="+m.txState.String())
	}
	if m.rxState == RxIdle {
		m.scheduleEndIfg()
	} else {
		m.txState = TxIdle
	}
}

// schedulePause arms the endPause timer for units PAUSE-units from now and
// transitions Tx to PAUSE.
func (m *MAC) schedulePause(units int) {
	d := bitsToDuration(units*PauseUnitBits, m.channel.BitRate)
	m.timers.schedule(TimerEndPause, m.now().Add(d), m.handleEndPause)
	m.txState = TxPause
}

// handleEndPause is the endPause timer's expiry handler.
func (m *MAC) handleEndPause() {
	if m.txState != TxPause {
		fatal(ReasonTimerWrongState, "endPause fired while tx_state="+m.txState.String())
	}
	switch {
	case m.mode:
		m.beginSendFrames()
	case m.rxState == RxIdle:
		m.scheduleEndIfg()
	default:
		m.txState = TxIdle
	}
}

// abortTransmissionAndAppendJam truncates the in-flight transmission to the
// fraction actually sent, appends JamSignalBytes, and reschedules endTx.
func (m *MAC) abortTransmissionAndAppendJam() {
	sig := m.currentTxSignal
	if sig == nil {
		fatal(ReasonNoCurrentTxSignal, "collision detected with no current_tx_signal")
	}

	elapsed := m.now().Sub(m.txSendingTime)
	fraction := float64(elapsed) / float64(sig.Duration)
	switch {
	case fraction > 1:
		fraction = 1
	case fraction < 0:
		fraction = 0
	}

	oldBits := sig.Duration.Seconds()*sig.BitRate - PreambleAndSFDBits
	truncatedBits := int(math.Ceil(oldBits * fraction))

	if sig.Frame != nil {
		frameBits := 8 * (sig.Frame.WireLength() + 4)
		if truncatedBits < frameBits {
			// The wire only ever carried the truncated, bit-errored bytes;
			// clone before trimming so the next retransmission attempt (which
			// still holds m.currentTxFrame, the same pointer sig.Frame
			// started as) resends the original frame intact.
			truncated := *sig.Frame
			truncated.Padded = append([]byte(nil), sig.Frame.Padded...)
			trimFramePayload(&truncated, truncatedBits/8)
			truncated.BitError = true
			sig.Frame = &truncated
		}
	}

	newBits := truncatedBits + JamSignalBytes*8
	newDuration := bitsToDuration(newBits, sig.BitRate) + bitsToDuration(PreambleAndSFDBits, sig.BitRate)

	update := *sig
	update.Event = SignalUpdate
	update.OrigPacketID = sig.ID
	update.Payload = SignalPayloadJam
	update.BitError = true
	update.Duration = newDuration
	m.out.Send(&update)

	sig.Payload = SignalPayloadJam
	sig.BitError = true
	sig.Duration = newDuration

	finishAt := m.txSendingTime.Add(newDuration)
	m.timers.reschedule(TimerEndTx, finishAt, m.handleEndTx)

	m.txState = TxJamming
}

// trimFramePayload shortens f's padded payload so the frame's on-wire
// length (header + payload) does not exceed truncatedBytes.
func trimFramePayload(f *Frame, truncatedBytes int) {
	payloadBytes := truncatedBytes - HeaderBytes
	if payloadBytes < 0 {
		payloadBytes = 0
	}
	if payloadBytes < len(f.Padded) {
		f.Padded = f.Padded[:payloadBytes]
	}
}

// handleEndJamming runs when a jammed transmission's (extended) endTx timer
// fires: it draws the next backoff, or drops the frame once MaxAttempts is
// exceeded.
func (m *MAC) handleEndJamming() {
	m.backoffCount++
	if m.backoffCount > MaxAttempts {
		dropped := m.currentTxFrame
		m.currentTxFrame = nil
		m.backoffCount = 0
		m.resetBurstCounters()
		m.dropFrame(dropped, DropRetryLimitReached)
		if f, ok := m.queue.Dequeue(); ok {
			m.currentTxFrame = f
		}
		m.tryBeginSendFrame()
		return
	}

	rangeLimit := 1 << m.backoffCount
	if m.backoffCount >= BackoffRangeLimit {
		rangeLimit = BackoffRangeMax
	}
	k := m.rng.Intn(rangeLimit)
	m.observer.OnBackoffSlotsGenerated(k)
	m.counters.Backoffs++
	if m.logger != nil {
		m.logger.Debugf("backoff attempt %d: drew %d slots from range [0,%d)", m.backoffCount, k, rangeLimit)
	}

	d := time.Duration(k) * m.channel.SlotTime()
	m.timers.schedule(TimerEndBackoff, m.now().Add(d), m.handleEndBackoff)
	m.txState = TxBackoff
}

// dropFrame records a drop (counter + observer notification), the single
// chokepoint every drop path in the Tx and Rx engines funnels through.
func (m *MAC) dropFrame(frame *Frame, reason DropReason) {
	m.counters.recordDrop(reason)
	m.observer.OnPacketDropped(DropSignal{Reason: reason, Frame: frame})
	if m.logger != nil {
		m.logger.Warnf("dropped frame to %s: %s", frame.Header.Dest, reason)
	}
}

// OnLinkChange notifies the MAC of a link up/down transition. Going down
// cancels all timers and burst state and drops any frame mid-transmission;
// coming back up resumes from IDLE/RX_IDLE and, if frames are queued,
// starts sending immediately.
func (m *MAC) OnLinkChange(connected bool) {
	if connected == m.connected {
		return
	}
	m.connected = connected
	if m.logger != nil {
		m.logger.Infof("link %s", map[bool]string{true: "up", false: "down"}[connected])
	}

	if !connected {
		m.timers.cancelAll()
		m.resetBurstCounters()
		m.activeReceptionID = noOrigPacketID
		if m.currentTxFrame != nil {
			dropped := m.currentTxFrame
			m.currentTxFrame = nil
			m.currentTxSignal = nil
			m.backoffCount = 0
			m.dropFrame(dropped, DropInterfaceDown)
		}
		m.txState = TxIdle
		m.rxState = RxIdle
		return
	}

	m.txState = TxIdle
	m.rxState = RxIdle
	if m.currentTxFrame == nil {
		if f, ok := m.queue.Dequeue(); ok {
			m.currentTxFrame = f
		}
	}
	if m.currentTxFrame != nil && (m.mode || m.rxState == RxIdle) {
		m.startFrameTransmission()
	}
}
