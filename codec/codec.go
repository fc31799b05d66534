// Package codec is the Frame Codec external collaborator:
// byte-level serialization/deserialization of an [ethermac.Frame]'s header
// and payload, for callers that need exact wire bytes (a pcap-style dump,
// an interop test against another implementation). [ethermac.NewMAC]
// defaults to a lighter built-in codec; WireCodec is the opt-in
// gopacket-backed alternative satisfying the same [ethermac.Codec]
// interface.
package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"

	"github.com/obrienkd/ethermac"
)

// WireCodec is a gopacket-backed [ethermac.Codec].
type WireCodec struct{}

var _ ethermac.Codec = WireCodec{}

// VerifyAndStrip serializes frame to wire bytes, parses them back with
// gopacket, and checks the round trip and FCS agree.
func (WireCodec) VerifyAndStrip(frame *ethermac.Frame) error {
	raw, err := Encode(frame)
	if err != nil {
		return fmt.Errorf("codec: encode: %w", err)
	}
	decoded, err := Decode(raw)
	if err != nil {
		return errors.Wrap(err, "codec: decode")
	}
	if decoded.Header.Dest != frame.Header.Dest || decoded.Header.Src != frame.Header.Src {
		return fmt.Errorf("codec: header mismatch after round trip")
	}
	want := frame.FCS
	frame.ComputeFCS()
	if frame.FCS != want {
		frame.FCS = want
		return fmt.Errorf("codec: FCS mismatch")
	}
	return nil
}

// Encode serializes frame's header, padded payload, and FCS into wire bytes
// using gopacket/layers' Ethernet layer.
func Encode(frame *ethermac.Frame) ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       frame.Header.Src[:],
		DstMAC:       frame.Header.Dest[:],
		EthernetType: layers.EthernetType(frame.Header.TypeOrLength),
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: false}
	if err := gopacket.SerializeLayers(buf, opts, eth, gopacket.Payload(frame.Padded)); err != nil {
		return nil, err
	}
	out := append([]byte(nil), buf.Bytes()...)
	fcs := make([]byte, 4)
	binary.BigEndian.PutUint32(fcs, frame.FCS)
	return append(out, fcs...), nil
}

// Decode parses raw wire bytes produced by [Encode] back into an
// [ethermac.Frame]. Data and Padded are identical since the original
// unpadded length is not recoverable from the wire.
func Decode(raw []byte) (*ethermac.Frame, error) {
	if len(raw) < ethermac.HeaderBytes+4 {
		return nil, fmt.Errorf("codec: frame shorter than header+FCS")
	}
	fcs := binary.BigEndian.Uint32(raw[len(raw)-4:])
	body := raw[:len(raw)-4]

	ethLayer := &layers.Ethernet{}
	if err := ethLayer.DecodeFromBytes(body, gopacket.NilDecodeFeedback); err != nil {
		return nil, err
	}
	typeOrLength := uint16(ethLayer.EthernetType)
	if ethLayer.EthernetType == layers.EthernetTypeLLC {
		typeOrLength = ethLayer.Length
	}

	var dest, src ethermac.MACAddress
	copy(dest[:], ethLayer.DstMAC)
	copy(src[:], ethLayer.SrcMAC)
	payload := append([]byte(nil), ethLayer.Payload...)

	return &ethermac.Frame{
		Header: ethermac.Header{Dest: dest, Src: src, TypeOrLength: typeOrLength},
		Data:   payload,
		Padded: payload,
		FCS:    fcs,
	}, nil
}
