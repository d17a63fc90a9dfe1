package queue

import (
	"time"

	"github.com/google/uuid"
)

// RenderJob represents one script cut whose speech audio is to be
// synthesized and post-processed.
type RenderJob struct {
	ID        string
	Text      string
	Voice     string
	Volume    float64
	Interrupt bool
	TTL       time.Duration
	DedupeKey string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewRenderJob creates a new render job with a unique ID.
func NewRenderJob(text, voice string, volume float64, interrupt bool, ttl time.Duration, dedupeKey string) *RenderJob {
	now := time.Now()
	job := &RenderJob{
		ID:        uuid.New().String(),
		Text:      text,
		Voice:     voice,
		Volume:    volume,
		Interrupt: interrupt,
		TTL:       ttl,
		DedupeKey: dedupeKey,
		CreatedAt: now,
	}

	if ttl > 0 {
		job.ExpiresAt = now.Add(ttl)
	}

	return job
}

// IsExpired returns true if the job has passed its TTL.
func (j *RenderJob) IsExpired() bool {
	if j.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(j.ExpiresAt)
}
