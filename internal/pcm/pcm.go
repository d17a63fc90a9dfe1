// Package pcm decodes raw 16-bit PCM sample buffers whose byte order
// is not reliably declared by the source.
package pcm

import "math"

// ByteOrder identifies how each 16-bit sample is laid out in a buffer.
type ByteOrder int

const (
	// LittleEndian stores the low byte of each sample first.
	LittleEndian ByteOrder = iota
	// BigEndian stores the high byte of each sample first.
	BigEndian
)

// String returns a human-readable name for logging.
func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

const (
	// maxProbeSamples caps how many non-zero samples ResolveByteOrder scans.
	maxProbeSamples = 5000

	// dominanceRatio is the margin by which one interpretation's mean
	// absolute value must exceed the other's before the lower one wins.
	// A wrong byte order scrambles speech into noise-like, higher-magnitude
	// values, so the quieter interpretation is the plausible one.
	dominanceRatio = 1.5
)

// ResolveByteOrder inspects a raw 16-bit PCM buffer and decides which
// byte order it most plausibly uses. It scans sample positions from the
// start of the buffer, skipping all-zero samples (silence), until the
// buffer ends or maxProbeSamples non-zero samples have been seen, and
// compares the mean absolute value under each interpretation.
// Ambiguous or silent buffers fall back to little-endian, which is what
// the upstream provider documents but does not reliably honor.
func ResolveByteOrder(raw []byte) ByteOrder {
	var sumLE, sumBE float64
	count := 0

	for i := 0; i+1 < len(raw) && count < maxProbeSamples; i += 2 {
		lo, hi := raw[i], raw[i+1]
		if lo == 0 && hi == 0 {
			continue
		}
		le := int16(uint16(lo) | uint16(hi)<<8)
		be := int16(uint16(hi) | uint16(lo)<<8)
		sumLE += math.Abs(float64(le))
		sumBE += math.Abs(float64(be))
		count++
	}

	if count == 0 {
		return LittleEndian
	}

	mavLE := sumLE / float64(count)
	mavBE := sumBE / float64(count)

	if mavBE > mavLE*dominanceRatio {
		return LittleEndian
	}
	if mavLE > mavBE*dominanceRatio {
		return BigEndian
	}
	return LittleEndian
}

// SampleCount returns the number of complete 16-bit samples in raw.
// A trailing odd byte is ignored.
func SampleCount(raw []byte) int {
	return len(raw) / 2
}

// Sample decodes the i'th 16-bit sample under the given byte order and
// returns it as a float in [-1.0, 1.0). The caller must ensure
// i < SampleCount(raw).
func Sample(raw []byte, i int, order ByteOrder) float64 {
	lo, hi := raw[2*i], raw[2*i+1]
	if order == BigEndian {
		lo, hi = hi, lo
	}
	return float64(int16(uint16(lo)|uint16(hi)<<8)) / 32768.0
}
