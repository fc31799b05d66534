package ethermac

//
// Frame data model
//

import (
	"fmt"
	"hash/crc32"
)

// MACAddress is a 6-byte Ethernet MAC address.
type MACAddress [MACAddressBytes]byte

// String renders the address in colon-hex notation.
func (a MACAddress) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// IsZero reports whether the address is unspecified (all-zero), the
// sentinel the Tx Engine uses to mean "fill in the local source MAC".
func (a MACAddress) IsZero() bool {
	return a == MACAddress{}
}

// BroadcastMAC is the all-ones broadcast destination address.
var BroadcastMAC = MACAddress{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Header is the 14-byte Ethernet MAC header: 6-byte dest,
// 6-byte src, 2-byte typeOrLength.
type Header struct {
	// Dest is the destination MAC address.
	Dest MACAddress

	// Src is the source MAC address. May be the zero value on submission,
	// in which case the Tx Engine fills it in with the local MAC.
	Src MACAddress

	// TypeOrLength is the raw 16-bit field. Per EthernetHeaderSerializer.cc,
	// values < LengthTypeBoundary (0x0600) are a length, values >= it are
	// an EtherType.
	TypeOrLength uint16
}

// EtherType returns the EtherType and true if TypeOrLength encodes a type
// rather than a length.
func (h Header) EtherType() (uint16, bool) {
	if h.TypeOrLength >= LengthTypeBoundary {
		return h.TypeOrLength, true
	}
	return 0, false
}

// Length returns the length and true if TypeOrLength encodes a length
// rather than an EtherType.
func (h Header) Length() (uint16, bool) {
	if h.TypeOrLength < LengthTypeBoundary {
		return h.TypeOrLength, true
	}
	return 0, false
}

// Frame is an in-flight Ethernet frame. Every in-flight frame
// carries a source MAC (filled in by the MAC if unspecified), destination
// MAC, EtherType, a bit-error flag, and an opaque identity used to
// correlate signal start/update/end events.
type Frame struct {
	// ID is the opaque identity correlating this frame's signal events.
	// It is only meaningful once the frame has been wrapped in a [Signal].
	ID int64

	// Header is the MAC header.
	Header Header

	// Data is the frame payload, excluding header, padding, and FCS.
	Data []byte

	// Padded is the payload plus any padding added to reach the minimum
	// on-wire frame size. Populated by [Frame.PadTo].
	Padded []byte

	// FCS is the 32-bit frame check sequence computed over header+Padded.
	FCS uint32

	// BitError marks the frame as corrupted, either because the Collision
	// Arbiter jammed it or because a reception was missed/partial.
	BitError bool
}

// DataLength returns the length of the unpadded payload.
func (f *Frame) DataLength() int {
	return len(f.Data)
}

// HeaderBytes is the fixed size of Header on the wire.
const HeaderBytes = 2*MACAddressBytes + 2

// WireLength returns the on-wire length of the frame excluding FCS and
// preamble: header + padded payload.
func (f *Frame) WireLength() int {
	return HeaderBytes + len(f.Padded)
}

// PadTo pads f.Data into f.Padded so the frame (header+payload) reaches at
// least minBytes. The Tx Engine pads every frame to MinEthernetFrameBytes;
// a half-duplex or burst floor above that is met by carrier extension
// ([ExtensionBytes]), not by padding.
func (f *Frame) PadTo(minBytes int) {
	need := minBytes - HeaderBytes
	if need <= len(f.Data) {
		f.Padded = f.Data
		return
	}
	padded := make([]byte, need)
	copy(padded, f.Data)
	f.Padded = padded
}

// ExtensionBytes returns how many carrier-extension bytes must be appended
// beyond the padded frame to reach minWireBytes. Gigabit
// half-duplex extends the signal, not the frame itself, so this is kept
// separate from [Frame.PadTo].
func ExtensionBytes(minWireBytes, frameDataLen int) int {
	ext := minWireBytes - frameDataLen
	if ext < 0 {
		return 0
	}
	return ext
}

// ComputeFCS recomputes f.FCS over the header and padded payload. Byte-level
// wire serialization is the Frame Codec's concern (package codec); this is
// the frame's own logical checksum field, computed the same way regardless
// of collaborator.
func (f *Frame) ComputeFCS() {
	buf := make([]byte, 0, HeaderBytes+len(f.Padded))
	buf = append(buf, f.Header.Dest[:]...)
	buf = append(buf, f.Header.Src[:]...)
	buf = append(buf, byte(f.Header.TypeOrLength>>8), byte(f.Header.TypeOrLength))
	buf = append(buf, f.Padded...)
	f.FCS = crc32.ChecksumIEEE(buf)
}

// IsPauseFrame reports whether h identifies an IEEE 802.3x PAUSE frame.
func (h Header) IsPauseFrame() bool {
	t, ok := h.EtherType()
	return ok && t == PauseEtherType
}
