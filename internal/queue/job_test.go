package queue

import (
	"testing"
	"time"
)

func TestNewRenderJob(t *testing.T) {
	job := NewRenderJob("a line of dialogue", "narrator", 0.8, false, time.Minute, "cut-42")

	if job.ID == "" {
		t.Error("job ID is empty")
	}
	if job.Text != "a line of dialogue" {
		t.Errorf("Text = %q", job.Text)
	}
	if job.Voice != "narrator" {
		t.Errorf("Voice = %q", job.Voice)
	}
	if job.Volume != 0.8 {
		t.Errorf("Volume = %v, want 0.8", job.Volume)
	}
	if job.DedupeKey != "cut-42" {
		t.Errorf("DedupeKey = %q", job.DedupeKey)
	}
	if job.ExpiresAt.IsZero() {
		t.Error("ExpiresAt not set despite TTL")
	}
}

func TestNewRenderJob_UniqueIDs(t *testing.T) {
	a := NewRenderJob("x", "", 1, false, 0, "")
	b := NewRenderJob("x", "", 1, false, 0, "")
	if a.ID == b.ID {
		t.Errorf("two jobs share ID %q", a.ID)
	}
}

func TestRenderJob_IsExpired(t *testing.T) {
	tests := []struct {
		name string
		ttl  time.Duration
		want bool
	}{
		{"no TTL never expires", 0, false},
		{"long TTL not expired", time.Hour, false},
		{"negative TTL expired", -time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewRenderJob("x", "", 1, false, tt.ttl, "")
			// NewRenderJob only sets ExpiresAt for positive TTLs
			if tt.ttl < 0 {
				job.ExpiresAt = time.Now().Add(tt.ttl)
			}
			if got := job.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
