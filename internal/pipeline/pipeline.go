// Package pipeline turns raw TTS PCM payloads into 48 kHz stereo WAV
// clips. The four stages run in one pass over the buffer: byte-order
// resolution, linear resampling, peak normalization with boundary
// fades, and WAV container encoding.
//
// The pipeline is a pure transform: it performs no I/O, holds no shared
// state, and allocates fresh intermediate buffers per invocation, so
// concurrent invocations need no coordination.
package pipeline

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/voxcut/voxcut-go/internal/gain"
	"github.com/voxcut/voxcut-go/internal/pcm"
	"github.com/voxcut/voxcut-go/internal/resample"
	"github.com/voxcut/voxcut-go/internal/wav"
)

const (
	// TargetSampleRate is the fixed output rate of every clip.
	TargetSampleRate = wav.OutputSampleRate

	// DefaultSourceRate is assumed when the provider supplies no usable
	// sample rate hint.
	DefaultSourceRate = 24000

	// DefaultVolume is the multiplier used when the caller supplies none.
	DefaultVolume = 1.0
)

// ErrEmptyPayload is returned when the payload holds no decodable
// 16-bit samples. No partial output is ever produced.
var ErrEmptyPayload = errors.New("empty audio payload")

// Options carries the per-invocation hints supplied alongside a payload.
type Options struct {
	// SourceRate is the sample rate hint for the raw payload.
	// Zero or negative means DefaultSourceRate.
	SourceRate int

	// Volume is the caller-supplied loudness multiplier.
	// Zero or negative means DefaultVolume.
	Volume float64
}

// Process runs the full pipeline over one raw 16-bit PCM payload and
// returns a complete stereo WAV file at TargetSampleRate.
func Process(raw []byte, opts Options) ([]byte, error) {
	sourceRate := opts.SourceRate
	if sourceRate <= 0 {
		sourceRate = DefaultSourceRate
	}
	volume := opts.Volume
	if volume <= 0 {
		volume = DefaultVolume
	}

	order := pcm.ResolveByteOrder(raw)

	samples, peak, err := resample.Resample(raw, order, sourceRate, TargetSampleRate)
	if err != nil {
		if errors.Is(err, resample.ErrNoSamples) {
			return nil, ErrEmptyPayload
		}
		return nil, err
	}

	plan := gain.ComputePlan(peak, volume, TargetSampleRate)
	gain.Apply(samples, plan)

	return wav.EncodeStereo(samples, TargetSampleRate), nil
}

// ProcessBase64 decodes a base64-encoded payload (the transport
// encoding used by the TTS provider) and processes it.
func ProcessBase64(payload string, opts Options) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return Process(raw, opts)
}
