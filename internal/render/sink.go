package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/voxcut/voxcut-go/internal/queue"
)

// DirSink writes finished clips into a directory, one WAV per job.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink writing into dir, creating it if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create clip directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Deliver writes the clip as <job id>.wav.
func (s *DirSink) Deliver(ctx context.Context, job *queue.RenderJob, wavData []byte) error {
	path := filepath.Join(s.dir, job.ID+".wav")
	if err := os.WriteFile(path, wavData, 0o644); err != nil {
		return fmt.Errorf("write clip: %w", err)
	}
	return nil
}
