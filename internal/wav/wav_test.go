package wav

import (
	"bytes"
	"testing"
)

func TestConstants(t *testing.T) {
	// Verify WAV constants
	if HeaderSize != 44 {
		t.Errorf("HeaderSize = %d, want 44", HeaderSize)
	}
	if FormatPCM != 1 {
		t.Errorf("FormatPCM = %d, want 1", FormatPCM)
	}

	// Verify output format constants
	if OutputSampleRate != 48000 {
		t.Errorf("OutputSampleRate = %d, want 48000", OutputSampleRate)
	}
	if OutputChannels != 2 {
		t.Errorf("OutputChannels = %d, want 2", OutputChannels)
	}
	if OutputBitsPerSample != 16 {
		t.Errorf("OutputBitsPerSample = %d, want 16", OutputBitsPerSample)
	}
}

func TestPutLE16(t *testing.T) {
	tests := []struct {
		name   string
		value  uint16
		expect []byte
	}{
		{"zero", 0, []byte{0x00, 0x00}},
		{"one", 1, []byte{0x01, 0x00}},
		{"256", 256, []byte{0x00, 0x01}},
		{"max", 0xFFFF, []byte{0xFF, 0xFF}},
		{"mixed", 0x1234, []byte{0x34, 0x12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, 2)
			PutLE16(b, tt.value)
			if !bytes.Equal(b, tt.expect) {
				t.Errorf("PutLE16(%d) = %v, want %v", tt.value, b, tt.expect)
			}
		})
	}
}

func TestPutLE32(t *testing.T) {
	tests := []struct {
		name   string
		value  uint32
		expect []byte
	}{
		{"zero", 0, []byte{0x00, 0x00, 0x00, 0x00}},
		{"one", 1, []byte{0x01, 0x00, 0x00, 0x00}},
		{"256", 256, []byte{0x00, 0x01, 0x00, 0x00}},
		{"max", 0xFFFFFFFF, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{"mixed", 0x12345678, []byte{0x78, 0x56, 0x34, 0x12}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, 4)
			PutLE32(b, tt.value)
			if !bytes.Equal(b, tt.expect) {
				t.Errorf("PutLE32(%d) = %v, want %v", tt.value, b, tt.expect)
			}
		})
	}
}

func TestWrapRawPCM(t *testing.T) {
	pcmData := []byte{0x01, 0x02, 0x03, 0x04}
	wavData := WrapRawPCM(pcmData, 24000, 1, 16)

	// Check total size
	if len(wavData) != HeaderSize+len(pcmData) {
		t.Errorf("expected %d bytes, got %d", HeaderSize+len(pcmData), len(wavData))
	}

	// Check chunk markers
	if !bytes.Equal(wavData[0:4], []byte("RIFF")) {
		t.Errorf("missing RIFF header")
	}
	if !bytes.Equal(wavData[8:12], []byte("WAVE")) {
		t.Errorf("missing WAVE format")
	}
	if !bytes.Equal(wavData[12:16], []byte("fmt ")) {
		t.Errorf("missing fmt chunk")
	}
	if !bytes.Equal(wavData[36:40], []byte("data")) {
		t.Errorf("missing data chunk")
	}

	// Check file size (should be 36 + data size)
	fileSize := readLE32(wavData[4:8])
	if fileSize != uint32(36+len(pcmData)) {
		t.Errorf("file size = %d, want %d", fileSize, 36+len(pcmData))
	}

	// Check data size
	dataSize := readLE32(wavData[40:44])
	if dataSize != uint32(len(pcmData)) {
		t.Errorf("data size = %d, want %d", dataSize, len(pcmData))
	}

	// Check sample rate
	sampleRate := readLE32(wavData[24:28])
	if sampleRate != 24000 {
		t.Errorf("sample rate = %d, want 24000", sampleRate)
	}

	// Check PCM data is appended unchanged
	if !bytes.Equal(wavData[HeaderSize:], pcmData) {
		t.Errorf("PCM payload was altered")
	}
}

func TestEncodeStereo_Layout(t *testing.T) {
	samples := []float64{0, 0.5, -0.5}
	wavData := EncodeStereo(samples, OutputSampleRate)

	// Exactly 44 + N*4 bytes
	wantLen := HeaderSize + len(samples)*4
	if len(wavData) != wantLen {
		t.Fatalf("encoded length = %d, want %d", len(wavData), wantLen)
	}

	// Header fields for 48kHz stereo 16-bit
	if channels := readLE16(wavData[22:24]); channels != 2 {
		t.Errorf("channels = %d, want 2", channels)
	}
	if rate := readLE32(wavData[24:28]); rate != 48000 {
		t.Errorf("sample rate = %d, want 48000", rate)
	}
	if byteRate := readLE32(wavData[28:32]); byteRate != 48000*4 {
		t.Errorf("byte rate = %d, want %d", byteRate, 48000*4)
	}
	if blockAlign := readLE16(wavData[32:34]); blockAlign != 4 {
		t.Errorf("block align = %d, want 4", blockAlign)
	}
	if dataSize := readLE32(wavData[40:44]); dataSize != uint32(len(samples)*4) {
		t.Errorf("data size = %d, want %d", dataSize, len(samples)*4)
	}
}

func TestEncodeStereo_DuplicatesChannels(t *testing.T) {
	wavData := EncodeStereo([]float64{0.5}, OutputSampleRate)

	left := int16(readLE16(wavData[44:46]))
	right := int16(readLE16(wavData[46:48]))

	if left != right {
		t.Errorf("left = %d, right = %d, want identical channels", left, right)
	}
	if left != 16384 { // round(0.5 * 32767)
		t.Errorf("left = %d, want 16384", left)
	}
}

func TestEncodeStereo_ClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		sample float64
		want   int16
	}{
		{"positive overflow", 1.5, 32767},
		{"negative overflow", -1.5, -32768},
		{"full scale", 1.0, 32767},
		{"negative full scale", -1.0, -32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wavData := EncodeStereo([]float64{tt.sample}, OutputSampleRate)
			got := int16(readLE16(wavData[44:46]))
			if got != tt.want {
				t.Errorf("quantized sample = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEncodeStereo_Empty(t *testing.T) {
	wavData := EncodeStereo(nil, OutputSampleRate)
	if len(wavData) != HeaderSize {
		t.Errorf("encoded length = %d, want %d", len(wavData), HeaderSize)
	}
	if dataSize := readLE32(wavData[40:44]); dataSize != 0 {
		t.Errorf("data size = %d, want 0", dataSize)
	}
}

func TestCreateMinimal(t *testing.T) {
	wavData := CreateMinimal(100, OutputSampleRate, OutputChannels, OutputBitsPerSample)

	wantLen := HeaderSize + 100*OutputChannels*2
	if len(wavData) != wantLen {
		t.Errorf("length = %d, want %d", len(wavData), wantLen)
	}
	for i := HeaderSize; i < len(wavData); i++ {
		if wavData[i] != 0 {
			t.Fatalf("byte %d = %d, want silence", i, wavData[i])
		}
	}
}

func readLE16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

func readLE32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
