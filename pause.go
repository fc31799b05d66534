package ethermac

//
// PAUSE Handler
//

import "encoding/binary"

// parsePauseUnits reads the 16-bit pauseTime field from a PAUSE control
// frame's payload: 2-byte opcode, 2-byte pauseTime, the rest padding.
func parsePauseUnits(frame *Frame) int {
	if len(frame.Data) < 4 {
		return 0
	}
	return int(binary.BigEndian.Uint16(frame.Data[2:4]))
}

// NewPauseFrame builds an outbound IEEE 802.3x PAUSE control frame
// requesting units PAUSE-units from the peer at dest. Sending it is
// otherwise an ordinary [MAC.Submit].
func NewPauseFrame(dest MACAddress, units uint16) *Frame {
	data := make([]byte, 4)
	binary.BigEndian.PutUint16(data[0:2], PauseOpcode)
	binary.BigEndian.PutUint16(data[2:4], units)
	return &Frame{
		Header: Header{Dest: dest, TypeOrLength: PauseEtherType},
		Data:   data,
	}
}

// handlePauseFrame applies a received PAUSE request to the local Tx Engine:
// schedule a new pause if idle, extend/cut short an already-running one,
// or simply remember the request for when the current transmission
// finishes.
func (m *MAC) handlePauseFrame(frame *Frame) {
	n := parsePauseUnits(frame)
	switch {
	case m.txState == TxIdle:
		if n > 0 {
			m.schedulePause(n)
		}
	case m.txState == TxPause:
		m.timers.cancel(TimerEndPause)
		if n > 0 {
			d := bitsToDuration(n*PauseUnitBits, m.channel.BitRate)
			m.timers.schedule(TimerEndPause, m.now().Add(d), m.handleEndPause)
		}
	default:
		m.pendingPauseUnits = n
	}
}
