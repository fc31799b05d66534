package ethermac

import "testing"

func TestDefaultCodecRejectsUndersizedFrame(t *testing.T) {
	f := &Frame{Header: Header{Dest: addr(2), Src: addr(1)}}
	f.Padded = []byte{1, 2} // far short of MinEthernetFrameBytes
	f.ComputeFCS()

	if err := (defaultCodec{}).VerifyAndStrip(f); err != errFrameLengthOutOfBounds {
		t.Fatalf("VerifyAndStrip() = %v, want %v", err, errFrameLengthOutOfBounds)
	}
}

func TestDefaultCodecRejectsOversizedFrame(t *testing.T) {
	f := &Frame{Header: Header{Dest: addr(2), Src: addr(1)}}
	f.Padded = make([]byte, MaxEthernetFrameBytes+1)
	f.ComputeFCS()

	if err := (defaultCodec{}).VerifyAndStrip(f); err != errFrameLengthOutOfBounds {
		t.Fatalf("VerifyAndStrip() = %v, want %v", err, errFrameLengthOutOfBounds)
	}
}

func TestDefaultCodecDetectsFCSMismatch(t *testing.T) {
	f := &Frame{Header: Header{Dest: addr(2), Src: addr(1)}}
	f.PadTo(MinEthernetFrameBytes)
	f.ComputeFCS()
	f.FCS ^= 1

	if err := (defaultCodec{}).VerifyAndStrip(f); err != errFCSMismatch {
		t.Fatalf("VerifyAndStrip() = %v, want %v", err, errFCSMismatch)
	}
}
