package ethermac

import "math/rand"

// fifoTestQueue is the simplest usable TxQueue, shared by every test in this
// package.
type fifoTestQueue struct {
	frames []*Frame
}

func (q *fifoTestQueue) Enqueue(f *Frame) { q.frames = append(q.frames, f) }

func (q *fifoTestQueue) Dequeue() (*Frame, bool) {
	if len(q.frames) == 0 {
		return nil, false
	}
	f := q.frames[0]
	q.frames = q.frames[1:]
	return f, true
}

func (q *fifoTestQueue) Len() int { return len(q.frames) }

// recordingOut is a [PhysicalOut] that just remembers every signal it was
// asked to send, for assertions.
type recordingOut struct {
	sent []*Signal
}

func (o *recordingOut) Send(sig *Signal) {
	cp := *sig
	o.sent = append(o.sent, &cp)
}

func (o *recordingOut) reset() { o.sent = nil }

// recordingUpper is an [UpperLayer] that remembers every delivered frame.
type recordingUpper struct {
	delivered []*Frame
}

func (u *recordingUpper) Deliver(f *Frame) { u.delivered = append(u.delivered, f) }

// recordingObserver is an [Observer] that remembers every drop and collision
// edge, for assertions.
type recordingObserver struct {
	drops      []DropSignal
	collisions []bool
	backoffs   []int
}

func (o *recordingObserver) OnCollision(active bool)          { o.collisions = append(o.collisions, active) }
func (o *recordingObserver) OnBackoffSlotsGenerated(k int)    { o.backoffs = append(o.backoffs, k) }
func (o *recordingObserver) OnPacketSentToLower(*Frame)       {}
func (o *recordingObserver) OnPacketSentFinished(*Frame)      {}
func (o *recordingObserver) OnPacketReceivedFromLower(*Frame) {}
func (o *recordingObserver) OnPacketDropped(drop DropSignal)  { o.drops = append(o.drops, drop) }

var _ Observer = (*recordingObserver)(nil)

// fixedRNG is a [UniformIntGenerator] that always returns the same draw,
// used to pin down otherwise-random backoff scenarios.
type fixedRNG struct{ n int }

func (r fixedRNG) Intn(int) int { return r.n }

// testHarness bundles one MAC with its collaborators, wired against a
// shared [SimClock], for scenario tests.
type testHarness struct {
	clock    *SimClock
	out      *recordingOut
	upper    *recordingUpper
	queue    *fifoTestQueue
	observer *recordingObserver
	mac      *MAC
}

func newHarness(local MACAddress, fullDuplex bool, channel ChannelDescriptor) *testHarness {
	h := &testHarness{
		clock:    NewSimClock(),
		out:      &recordingOut{},
		upper:    &recordingUpper{},
		queue:    &fifoTestQueue{},
		observer: &recordingObserver{},
	}
	h.mac = NewMAC(Config{
		LocalMAC:   local,
		FullDuplex: fullDuplex,
		Channel:    channel,
		Clock:      h.clock,
		Queue:      h.queue,
		Out:        h.out,
		Upper:      h.upper,
		RNG:        rand.New(rand.NewSource(1)),
		Observer:   h.observer,
	})
	return h
}

func addr(last byte) MACAddress {
	return MACAddress{0x02, 0, 0, 0, 0, last}
}
