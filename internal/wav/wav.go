// Package wav provides utilities for WAV audio file handling.
package wav

import "math"

// WAV format constants.
const (
	// HeaderSize is the size of a standard WAV file header in bytes.
	HeaderSize = 44

	// FormatPCM is the audio format code for uncompressed PCM.
	FormatPCM = 1
)

// Output format constants for finished clips.
const (
	// OutputSampleRate is the fixed sample rate of every encoded clip (48 kHz).
	OutputSampleRate = 48000

	// OutputChannels is the channel count of every encoded clip (stereo).
	OutputChannels = 2

	// OutputBitsPerSample is the bit depth of every encoded clip (16-bit).
	OutputBitsPerSample = 16
)

// EncodeStereo serializes mono float amplitudes in [-1.0, 1.0] as an
// interleaved stereo 16-bit PCM WAV file. Each input sample is
// duplicated to both channels and quantized as round(s * 32767),
// clamped to the int16 range. The result is exactly
// HeaderSize + len(samples)*4 bytes.
func EncodeStereo(samples []float64, sampleRate int) []byte {
	pcm := make([]byte, len(samples)*OutputChannels*2)

	for i, s := range samples {
		v := int(math.Round(s * 32767))
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		u := uint16(int16(v))

		off := i * 4
		PutLE16(pcm[off:off+2], u)   // left
		PutLE16(pcm[off+2:off+4], u) // right
	}

	return WrapRawPCM(pcm, sampleRate, OutputChannels, OutputBitsPerSample)
}

// WrapRawPCM adds a WAV header to raw PCM data.
// Parameters:
//   - pcm: raw PCM audio data bytes
//   - sampleRate: samples per second (e.g., 24000, 44100, 48000)
//   - channels: number of audio channels (1=mono, 2=stereo)
//   - bitsPerSample: bit depth per sample (typically 16)
//
// Returns a complete WAV file as a byte slice.
func WrapRawPCM(pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	dataSize := len(pcm)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	// WAV header is 44 bytes
	header := make([]byte, HeaderSize)

	// RIFF header
	copy(header[0:4], "RIFF")
	PutLE32(header[4:8], uint32(36+dataSize))
	copy(header[8:12], "WAVE")

	// fmt subchunk
	copy(header[12:16], "fmt ")
	PutLE32(header[16:20], 16) // subchunk size
	PutLE16(header[20:22], FormatPCM)
	PutLE16(header[22:24], uint16(channels))
	PutLE32(header[24:28], uint32(sampleRate))
	PutLE32(header[28:32], uint32(byteRate))
	PutLE16(header[32:34], uint16(blockAlign))
	PutLE16(header[34:36], uint16(bitsPerSample))

	// data subchunk
	copy(header[36:40], "data")
	PutLE32(header[40:44], uint32(dataSize))

	return append(header, pcm...)
}

// PutLE16 writes a uint16 value in little-endian format to a byte slice.
func PutLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// PutLE32 writes a uint32 value in little-endian format to a byte slice.
func PutLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// CreateMinimal creates a minimal valid WAV file with the specified number
// of samples. This is useful for testing. The samples are initialized to
// silence (zero).
func CreateMinimal(numSamples, sampleRate, channels, bitsPerSample int) []byte {
	bytesPerSample := bitsPerSample / 8
	dataSize := numSamples * channels * bytesPerSample

	// Create silent PCM data
	pcm := make([]byte, dataSize)

	return WrapRawPCM(pcm, sampleRate, channels, bitsPerSample)
}
