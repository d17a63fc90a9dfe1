// Package tts synthesizes speech through a remote generative speech API
// and exposes the raw PCM payloads it returns. The provider's declared
// format metadata is unreliable: the sample rate is only hinted at in a
// MIME-type parameter and the byte order is not declared at all, so the
// payloads handed out here go through the post-processing pipeline
// before anything downstream touches them.
package tts

import (
	"context"
	"mime"
	"strconv"
)

// DefaultRate is assumed when the provider's MIME type carries no
// usable rate parameter.
const DefaultRate = 24000

// SynthesizeRequest contains parameters for speech synthesis.
type SynthesizeRequest struct {
	Text  string
	Voice string
}

// AudioResult represents one synthesized speech payload.
type AudioResult struct {
	// Data contains the raw 16-bit PCM bytes, already base64-decoded.
	Data []byte
	// MimeType is the provider's declared payload type,
	// e.g. "audio/L16;codec=pcm;rate=24000".
	MimeType string
	// SampleRate is the rate hint parsed from MimeType
	// (DefaultRate when absent or unparseable).
	SampleRate int
}

// Provider is the interface for speech synthesis backends.
type Provider interface {
	// Synthesize converts text to raw PCM audio.
	Synthesize(ctx context.Context, req SynthesizeRequest) (*AudioResult, error)
	// Name returns the provider identifier.
	Name() string
}

// RateFromMime extracts the sample rate parameter from a provider MIME
// type such as "audio/L16;codec=pcm;rate=24000". It returns DefaultRate
// when the parameter is absent, unparseable, or not positive.
func RateFromMime(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return DefaultRate
	}
	if v, ok := params["rate"]; ok {
		if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
			return rate
		}
	}
	return DefaultRate
}
