package tts

import "testing"

func TestRateFromMime(t *testing.T) {
	tests := []struct {
		name string
		mime string
		want int
	}{
		{"typical provider type", "audio/L16;codec=pcm;rate=24000", 24000},
		{"rate only", "audio/L16;rate=16000", 16000},
		{"spaces around params", "audio/L16; codec=pcm; rate=44100", 44100},
		{"uppercase param name", "audio/L16;RATE=22050", 22050},
		{"no rate param", "audio/L16;codec=pcm", DefaultRate},
		{"no params", "audio/wav", DefaultRate},
		{"empty", "", DefaultRate},
		{"garbage", ";;;", DefaultRate},
		{"non-numeric rate", "audio/L16;rate=fast", DefaultRate},
		{"zero rate", "audio/L16;rate=0", DefaultRate},
		{"negative rate", "audio/L16;rate=-24000", DefaultRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RateFromMime(tt.mime); got != tt.want {
				t.Errorf("RateFromMime(%q) = %d, want %d", tt.mime, got, tt.want)
			}
		})
	}
}
