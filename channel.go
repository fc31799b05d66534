package ethermac

//
// Channel Descriptor
//

import "time"

// ChannelDescriptor describes the bitrate class of the collision domain a
// MAC is attached to: bitrate, slot time, minimum frame sizes, maximum
// propagation delay, and burst limits.
type ChannelDescriptor struct {
	// Name is a human-readable label (for logging only).
	Name string

	// BitRate is the channel bitrate in bits per second.
	BitRate float64

	// SlotTimeBits is the backoff quantum, in bit-times.
	SlotTimeBits int

	// HalfDuplexFrameMinBytes is the minimum on-wire frame size (header +
	// payload + FCS) outside of a burst, in half-duplex mode.
	// Unused in full-duplex mode, where MinEthernetFrameBytesWithFCS always
	// applies.
	HalfDuplexFrameMinBytes int

	// BurstingEnabled reports whether frame bursting (half-duplex Gigabit)
	// is available on this channel.
	BurstingEnabled bool

	// FrameInBurstMinBytes is the minimum on-wire frame size while
	// mid-burst. Meaningful only when BurstingEnabled.
	FrameInBurstMinBytes int

	// MaxBytesInBurst caps the bytes sent since a burst began.
	MaxBytesInBurst int

	// MaxFramesInBurst caps the frames sent since a burst began. Zero means
	// unbounded-by-count (still bounded by MaxBytesInBurst).
	MaxFramesInBurst int

	// MaxPropagationDelay is the cable-length bound: a half-duplex signal
	// whose observed propagation reaches or exceeds this is a fatal
	// misconfiguration.
	MaxPropagationDelay time.Duration

	// FullDuplexOnly is true for channels (≥10 Gb/s) where half-duplex is a
	// fatal configuration error.
	FullDuplexOnly bool
}

// SlotTime returns the backoff quantum as a [time.Duration].
func (c *ChannelDescriptor) SlotTime() time.Duration {
	return bitsToDuration(c.SlotTimeBits, c.BitRate)
}

// bitsToDuration converts a bit count to a duration at the given bitrate.
func bitsToDuration(bits int, bitRate float64) time.Duration {
	return time.Duration(float64(bits) / bitRate * float64(time.Second))
}

// HalfDuplexFrameMinBytesFor returns the minimum on-wire frame size for the
// current transmission, given whether a burst is in progress.
func (c *ChannelDescriptor) HalfDuplexFrameMinBytesFor(midBurst bool) int {
	if midBurst && c.BurstingEnabled {
		return c.FrameInBurstMinBytes
	}
	return c.HalfDuplexFrameMinBytes
}

// Predefined rate classes.

// TenMegabit is the 10 Mb/s half-duplex-capable channel: slot time 512
// bit-times, no bursting.
var TenMegabit = ChannelDescriptor{
	Name:                    "10Mb/s",
	BitRate:                 10e6,
	SlotTimeBits:            512,
	HalfDuplexFrameMinBytes: 64,
	BurstingEnabled:         false,
	MaxPropagationDelay:     2500 * time.Microsecond,
}

// HundredMegabit is the 100 Mb/s half-duplex-capable channel: slot time 512
// bit-times, no bursting.
var HundredMegabit = ChannelDescriptor{
	Name:                    "100Mb/s",
	BitRate:                 100e6,
	SlotTimeBits:            512,
	HalfDuplexFrameMinBytes: 64,
	BurstingEnabled:         false,
	MaxPropagationDelay:     250 * time.Microsecond,
}

// GigabitHalfDuplex is the 1 Gb/s half-duplex channel with carrier
// extension and frame bursting.
var GigabitHalfDuplex = ChannelDescriptor{
	Name:                    "1Gb/s-HD",
	BitRate:                 1e9,
	SlotTimeBits:            4096,
	HalfDuplexFrameMinBytes: 520,
	BurstingEnabled:         true,
	FrameInBurstMinBytes:    64,
	MaxBytesInBurst:         8192,
	MaxFramesInBurst:        0,
	MaxPropagationDelay:     25 * time.Microsecond,
}

// TenGigabitFullDuplexOnly models ≥10 Gb/s channels: half-duplex operation
// over them is a fatal configuration error.
var TenGigabitFullDuplexOnly = ChannelDescriptor{
	Name:           "10Gb/s+",
	BitRate:        10e9,
	FullDuplexOnly: true,
}
