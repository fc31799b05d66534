package ethermac

//
// MAC context
//

import (
	"math/rand"

	"golang.org/x/time/rate"
)

// TxState is the transmit state machine's state.
type TxState int

const (
	TxIdle TxState = iota
	TxWaitIFG
	TxSendIFG
	TxTransmitting
	TxJamming
	TxBackoff
	TxPause
)

func (s TxState) String() string {
	switch s {
	case TxIdle:
		return "IDLE"
	case TxWaitIFG:
		return "WAIT_IFG"
	case TxSendIFG:
		return "SEND_IFG"
	case TxTransmitting:
		return "TRANSMITTING"
	case TxJamming:
		return "JAMMING"
	case TxBackoff:
		return "BACKOFF"
	case TxPause:
		return "PAUSE"
	default:
		return "UNKNOWN"
	}
}

// RxState is the receive state machine's state.
type RxState int

const (
	RxIdle RxState = iota
	RxReceiving
	RxCollision
	RxReconnect
)

func (s RxState) String() string {
	switch s {
	case RxIdle:
		return "RX_IDLE"
	case RxReceiving:
		return "RECEIVING"
	case RxCollision:
		return "RX_COLLISION"
	case RxReconnect:
		return "RX_RECONNECT"
	default:
		return "UNKNOWN"
	}
}

// TxQueue is the FIFO of outbound packets.
type TxQueue interface {
	// Enqueue appends frame to the back of the queue.
	Enqueue(frame *Frame)

	// Dequeue pops the frame at the front of the queue, or (nil, false) if
	// empty.
	Dequeue() (*Frame, bool)

	// Len reports the number of queued frames.
	Len() int
}

// PhysicalOut is the single serialized out-gate to the physical medium.
type PhysicalOut interface {
	// Send emits a signal event onto the wire.
	Send(sig *Signal)
}

// UpperLayer receives frames decapsulated by the Rx Engine.
type UpperLayer interface {
	// Deliver hands a successfully-received, non-control frame upward.
	Deliver(frame *Frame)
}

// PromiscuityPolicy decides whether a non-matching destination should still
// be accepted.
type PromiscuityPolicy interface {
	Promiscuous() bool
}

// Codec is the Frame Codec external collaborator:
// verifying CRC/length bounds on reception. Frames here carry no
// preamble/SFD bytes, so nothing is stripped. The
// "codec" subpackage provides a gopacket-backed implementation for byte
// exact wire interop; [NewMAC] defaults to a lightweight built-in one.
type Codec interface {
	// VerifyAndStrip checks frame's length bounds and FCS. On success it
	// leaves frame ready for delivery; on failure the caller drops the
	// frame with DropIncorrectlyReceived.
	VerifyAndStrip(frame *Frame) error
}

// staticPromiscuity is a [PromiscuityPolicy] that never changes.
type staticPromiscuity bool

func (p staticPromiscuity) Promiscuous() bool { return bool(p) }

// UniformIntGenerator supplies the uniform integer draws the backoff
// algorithm needs. *rand.Rand satisfies this.
type UniformIntGenerator interface {
	// Intn returns a uniform pseudo-random int in [0,n).
	Intn(n int) int
}

var _ UniformIntGenerator = (*rand.Rand)(nil)

// Config carries everything [NewMAC] needs to construct a MAC instance.
type Config struct {
	// LocalMAC is this interface's own address.
	LocalMAC MACAddress

	// FullDuplex selects full-duplex mode. Immutable after construction.
	FullDuplex bool

	// Channel is the channel descriptor (bitrate class) this MAC runs over.
	Channel ChannelDescriptor

	// Clock is the virtual clock & timer service.
	Clock Clock

	// Logger receives diagnostic output. Optional: nil disables logging.
	Logger Logger

	// Queue is the Tx Queue collaborator. Required.
	Queue TxQueue

	// Out is the physical out-gate collaborator. Required.
	Out PhysicalOut

	// Upper receives decapsulated frames. Required.
	Upper UpperLayer

	// RNG supplies uniform backoff draws. Defaults to a *rand.Rand with
	// the fixed seed 1 if nil.
	RNG UniformIntGenerator

	// Promiscuous, if true, accepts frames not addressed to LocalMAC.
	Promiscuous bool

	// Observer, if set, receives the runtime signals emitted during a run.
	// Defaults to a no-op observer.
	Observer Observer

	// Codec verifies/strips received frames. Defaults to a minimal built-in
	// CRC/length check; package codec's gopacket-backed implementation can
	// be substituted for exact wire-byte interop.
	Codec Codec
}

// MAC is a single instance of the Ethernet MAC sublayer state machine.
type MAC struct {
	mode        bool // true == full-duplex; immutable after init
	channel     ChannelDescriptor
	clock       Clock
	logger      Logger
	queue       TxQueue
	out         PhysicalOut
	upper       UpperLayer
	rng         UniformIntGenerator
	promiscuity PromiscuityPolicy
	observer    Observer
	codec       Codec
	localMAC    MACAddress

	connected bool

	txState TxState
	rxState RxState

	currentTxFrame  *Frame
	currentTxSignal *Signal
	txSendingTime   Time

	backoffCount int

	framesSentInBurst int
	bytesSentInBurst  int
	burstLimiter      *rate.Limiter

	pendingPauseUnits int

	timers *timerSlots

	activeReceptionID    int64
	activeReceptionStart Time

	channelBusySince Time

	lastTxFinishTime Time

	nextSignalID int64

	counters Counters
}

// NewMAC constructs a MAC instance. A half-duplex MAC over a
// full-duplex-only channel descriptor (≥10 Gb/s) is rejected at
// construction rather than deferred to the first signal.
func NewMAC(cfg Config) *MAC {
	if cfg.Channel.FullDuplexOnly && !cfg.FullDuplex {
		fatal(ReasonDuplexMismatch, "channel "+cfg.Channel.Name+" supports full-duplex only")
	}
	rng := cfg.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	promiscuity := PromiscuityPolicy(staticPromiscuity(cfg.Promiscuous))
	observer := cfg.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	codec := cfg.Codec
	if codec == nil {
		codec = defaultCodec{}
	}
	m := &MAC{
		mode:                 cfg.FullDuplex,
		channel:              cfg.Channel,
		clock:                cfg.Clock,
		logger:               cfg.Logger,
		queue:                cfg.Queue,
		out:                  cfg.Out,
		upper:                cfg.Upper,
		rng:                  rng,
		promiscuity:          promiscuity,
		observer:             observer,
		codec:                codec,
		localMAC:             cfg.LocalMAC,
		connected:            true,
		txState:              TxIdle,
		rxState:              RxIdle,
		activeReceptionID:    noOrigPacketID,
		activeReceptionStart: 0,
	}
	m.timers = newTimerSlots(cfg.Clock)
	return m
}

// IsFullDuplex reports the MAC's (immutable) duplex mode.
func (m *MAC) IsFullDuplex() bool { return m.mode }

// Connected reports whether the interface is administratively/physically up.
func (m *MAC) Connected() bool { return m.connected }

// Counters returns a snapshot of the MAC's statistics counters.
func (m *MAC) Counters() Counters { return m.counters }

// now is shorthand for the virtual clock's current time.
func (m *MAC) now() Time { return m.clock.Now() }

// newSignalID allocates a fresh signal identity, unique per MAC instance.
func (m *MAC) newSignalID() int64 {
	m.nextSignalID++
	return m.nextSignalID
}

// txOnWire reports whether the Tx Engine currently occupies the wire
// (SEND_IFG, TRANSMITTING, or JAMMING).
func (m *MAC) txOnWire() bool {
	return m.txState == TxSendIFG || m.txState == TxTransmitting || m.txState == TxJamming
}

// checkInvariants asserts the state machine's invariants 1-6 at a
// quiescent point. Tests call this after driving scenarios; it is cheap
// enough to also call from assertion-heavy code paths.
func (m *MAC) checkInvariants() {
	// Invariant 2: current_tx_signal non-null iff tx_state is one of the
	// on-wire states.
	onWire := m.txState == TxSendIFG || m.txState == TxTransmitting || m.txState == TxJamming
	if onWire != (m.currentTxSignal != nil) {
		fatal("INVARIANT_2_VIOLATED", "tx_state="+m.txState.String())
	}

	// Invariant 3: current_tx_frame is non-null whenever a frame is
	// mid-transmission or mid-backoff. Only this direction is checked: a
	// frame may also be held while IDLE, WAIT_IFG or PAUSE.
	owned := onWire || m.txState == TxBackoff
	if owned && m.currentTxFrame == nil {
		fatal("INVARIANT_3_VIOLATED", "tx_state="+m.txState.String())
	}

	// Invariant 4: backoff_count <= MAX_ATTEMPTS.
	if m.backoffCount > MaxAttempts {
		fatal("INVARIANT_4_VIOLATED", "backoff_count exceeds MAX_ATTEMPTS")
	}

	// Invariant 5: full-duplex never enters a collision state.
	if m.mode && m.rxState == RxCollision {
		fatal("INVARIANT_5_VIOLATED", "full-duplex MAC entered RX_COLLISION")
	}

	// Invariant 1: half-duplex must not be simultaneously transmitting and
	// receiving without the arbiter having resolved it to RX_COLLISION.
	if !m.mode && onWire && m.rxState == RxReceiving {
		fatal("INVARIANT_1_VIOLATED", "tx on-wire while rx receiving without collision")
	}

	// Invariant 6: when disconnected, no timers, no burst counters, no
	// active reception.
	if !m.connected {
		for k := TimerKind(0); k < numTimerKinds; k++ {
			if m.timers.scheduled(k) {
				fatal("INVARIANT_6_VIOLATED", "timer scheduled while disconnected")
			}
		}
		if m.framesSentInBurst != 0 || m.bytesSentInBurst != 0 {
			fatal("INVARIANT_6_VIOLATED", "burst counters nonzero while disconnected")
		}
		if m.activeReceptionID != noOrigPacketID {
			fatal("INVARIANT_6_VIOLATED", "active reception while disconnected")
		}
	}
}
