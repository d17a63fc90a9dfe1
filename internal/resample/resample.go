// Package resample converts mono 16-bit PCM buffers to a different
// sample rate using linear interpolation.
package resample

import (
	"errors"
	"math"

	"github.com/voxcut/voxcut-go/internal/pcm"
)

var (
	// ErrNoSamples is returned when the buffer holds no complete sample.
	ErrNoSamples = errors.New("no decodable samples in buffer")
	// ErrInvalidRate is returned when a sample rate is zero or negative.
	ErrInvalidRate = errors.New("sample rate must be positive")
)

// Resample decodes raw 16-bit PCM under the given byte order and
// converts it from sourceRate to targetRate using linear interpolation.
// It returns the resampled amplitudes in [-1.0, 1.0] together with the
// peak absolute amplitude observed across the output.
//
// Linear interpolation is a deliberate simplification: for the usual
// 24 kHz to 48 kHz upsample of speech it is transparent enough, and it
// keeps the pipeline allocation-light and branch-free. A trailing odd
// byte in the buffer is dropped.
func Resample(raw []byte, order pcm.ByteOrder, sourceRate, targetRate int) ([]float64, float64, error) {
	if sourceRate <= 0 || targetRate <= 0 {
		return nil, 0, ErrInvalidRate
	}

	srcCount := pcm.SampleCount(raw)
	if srcCount == 0 {
		return nil, 0, ErrNoSamples
	}

	ratio := float64(targetRate) / float64(sourceRate)
	targetCount := srcCount * targetRate / sourceRate

	out := make([]float64, targetCount)
	peak := 0.0

	for i := 0; i < targetCount; i++ {
		pos := float64(i) / ratio
		idx := int(pos)
		frac := pos - float64(idx)

		s0 := pcm.Sample(raw, idx, order)
		next := idx + 1
		if next >= srcCount {
			next = srcCount - 1
		}
		s1 := pcm.Sample(raw, next, order)

		s := s0 + (s1-s0)*frac
		out[i] = s

		if a := math.Abs(s); a > peak {
			peak = a
		}
	}

	return out, peak, nil
}
