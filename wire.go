package ethermac

//
// Collision-domain wire: a propagation-delay queue between MAC endpoints,
// driven by the virtual [Clock] rather than a wall-clock ticker+goroutine.
//

import "time"

// wireEndpoint is one MAC attached to a [Wire].
type wireEndpoint struct {
	mac   *MAC
	delay time.Duration
}

// Wire is a shared physical medium connecting two or more MAC instances:
// every signal one endpoint sends is delivered to every other endpoint
// after that endpoint's propagation delay. It is the reference
// [PhysicalOut] collaborator a host topology wires into each MAC's Config.
type Wire struct {
	clock     Clock
	endpoints []*wireEndpoint
}

// NewWire creates a [Wire] driven by clock. Every MAC attached to it must
// share the same clock so "now" stays consistent across the collision
// domain.
func NewWire(clock Clock) *Wire {
	return &Wire{clock: clock}
}

// NewEndpoint reserves a slot on the wire with the given one-way
// propagation delay and returns the [PhysicalOut] to put in that station's
// Config.Out, plus an [Endpoint] handle to [Endpoint.Bind] once the MAC
// itself has been constructed (Config.Out must be set before [NewMAC]
// returns the MAC that Bind needs).
func (w *Wire) NewEndpoint(propagationDelay time.Duration) (PhysicalOut, *Endpoint) {
	ep := &wireEndpoint{delay: propagationDelay}
	w.endpoints = append(w.endpoints, ep)
	return &wireTap{wire: w, origin: ep}, &Endpoint{ep: ep}
}

// Endpoint binds a constructed MAC to its reserved wire slot.
type Endpoint struct {
	ep *wireEndpoint
}

// Bind associates mac with e's reserved slot. Must be called exactly once,
// before the wire carries any traffic.
func (e *Endpoint) Bind(mac *MAC) {
	e.ep.mac = mac
}

// wireTap is the per-endpoint [PhysicalOut]: it fans a sent signal out to
// every other endpoint, each delayed by its own propagation delay.
type wireTap struct {
	wire   *Wire
	origin *wireEndpoint
}

// Send implements PhysicalOut.
func (t *wireTap) Send(sig *Signal) {
	for _, ep := range t.wire.endpoints {
		if ep == t.origin {
			continue
		}
		cp := *sig
		dest := ep
		t.wire.clock.AfterFunc(t.wire.clock.Now().Add(dest.delay), func() {
			dest.mac.HandleSignalEvent(&cp)
		})
	}
}
