package codec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/obrienkd/ethermac"
	"github.com/obrienkd/ethermac/codec"
)

func TestWireCodecRoundTrip(t *testing.T) {
	frame := &ethermac.Frame{
		Header: ethermac.Header{
			Dest:         ethermac.MACAddress{0x02, 0, 0, 0, 0, 2},
			Src:          ethermac.MACAddress{0x02, 0, 0, 0, 0, 1},
			TypeOrLength: 0x0800,
		},
		Data: []byte("payload"),
	}
	frame.PadTo(ethermac.MinEthernetFrameBytes)
	frame.ComputeFCS()

	if err := (codec.WireCodec{}).VerifyAndStrip(frame); err != nil {
		t.Fatalf("VerifyAndStrip() on a well-formed frame: %v", err)
	}
}

func TestWireCodecEncodeDecode(t *testing.T) {
	frame := &ethermac.Frame{
		Header: ethermac.Header{
			Dest:         ethermac.MACAddress{0x02, 0, 0, 0, 0, 2},
			Src:          ethermac.MACAddress{0x02, 0, 0, 0, 0, 1},
			TypeOrLength: 0x0800,
		},
		Data: []byte("payload"),
	}
	frame.PadTo(ethermac.MinEthernetFrameBytes)
	frame.ComputeFCS()

	raw, err := codec.Encode(frame)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	decoded, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(frame.Header, decoded.Header); diff != "" {
		t.Fatalf("Header mismatch (-want +got):\n%s", diff)
	}
	if decoded.FCS != frame.FCS {
		t.Fatalf("decoded.FCS = %d, want %d", decoded.FCS, frame.FCS)
	}
}

func TestWireCodecDetectsFCSMismatch(t *testing.T) {
	frame := &ethermac.Frame{
		Header: ethermac.Header{Dest: ethermac.MACAddress{0x02, 0, 0, 0, 0, 2}, Src: ethermac.MACAddress{0x02, 0, 0, 0, 0, 1}},
		Data:   []byte("x"),
	}
	frame.PadTo(ethermac.MinEthernetFrameBytes)
	frame.ComputeFCS()
	frame.FCS ^= 0xffffffff

	if err := (codec.WireCodec{}).VerifyAndStrip(frame); err == nil {
		t.Fatalf("VerifyAndStrip() did not catch a corrupted FCS")
	}
}
