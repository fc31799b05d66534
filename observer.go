package ethermac

//
// Runtime signals
//

// Observer receives the scalar signals emitted during a run, in addition to
// the shutdown counters in [Counters]: collision edges, generated backoff
// slot counts, per-frame send/receive/drop notifications. A MAC with no
// configured Observer simply does not emit these (nil-safe no-op).
type Observer interface {
	// OnCollision fires on every collision edge: active=true when the
	// arbiter first detects a collision, active=false when the channel
	// returns to idle after one.
	OnCollision(active bool)

	// OnBackoffSlotsGenerated fires whenever the backoff algorithm draws a
	// slot count k.
	OnBackoffSlotsGenerated(k int)

	// OnPacketSentToLower fires once per data-frame "send" event; filled-IFG
	// signals carry no frame and are not reported. Sends and
	// finishes balance 1:1; observers can use this plus
	// OnPacketSentFinished to verify that.
	OnPacketSentToLower(frame *Frame)

	// OnPacketSentFinished fires once per "finishTx" event.
	OnPacketSentFinished(frame *Frame)

	// OnPacketReceivedFromLower fires once a frame has been successfully
	// decapsulated and accepted (delivered upward or absorbed by the PAUSE
	// Handler).
	OnPacketReceivedFromLower(frame *Frame)

	// OnPacketDropped fires once per dropped frame, alongside the drop
	// counter increment.
	OnPacketDropped(drop DropSignal)
}

// nopObserver implements Observer with no-ops, used when Config.Observer is
// left nil.
type nopObserver struct{}

func (nopObserver) OnCollision(active bool)               {}
func (nopObserver) OnBackoffSlotsGenerated(k int)          {}
func (nopObserver) OnPacketSentToLower(frame *Frame)       {}
func (nopObserver) OnPacketSentFinished(frame *Frame)      {}
func (nopObserver) OnPacketReceivedFromLower(frame *Frame) {}
func (nopObserver) OnPacketDropped(drop DropSignal)        {}

var _ Observer = nopObserver{}
