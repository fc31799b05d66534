package ethermac

//
// Built-in [Codec]
//

import "errors"

var (
	errFrameLengthOutOfBounds = errors.New("ethermac: frame length out of bounds")
	errFCSMismatch            = errors.New("ethermac: FCS mismatch")
)

// defaultCodec is the [Codec] [NewMAC] installs when Config.Codec is nil: a
// minimal CRC/length check with no byte-level wire serialization. Package
// codec's gopacket-backed implementation is the heavier alternative for
// callers that need exact wire bytes (e.g. a pcap-backed demo).
type defaultCodec struct{}

func (defaultCodec) VerifyAndStrip(frame *Frame) error {
	total := frame.WireLength() + 4
	if total < MinEthernetFrameBytesWithFCS || total > HeaderBytes+MaxEthernetFrameBytes+4 {
		return errFrameLengthOutOfBounds
	}
	want := frame.FCS
	frame.ComputeFCS()
	if frame.FCS != want {
		frame.FCS = want
		return errFCSMismatch
	}
	return nil
}

var _ Codec = defaultCodec{}
