// Package render executes render jobs: it synthesizes speech for a
// script cut, runs the audio post-processing pipeline, and delivers
// the finished WAV clip to a sink.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/voxcut/voxcut-go/internal/metrics"
	"github.com/voxcut/voxcut-go/internal/pipeline"
	"github.com/voxcut/voxcut-go/internal/queue"
	"github.com/voxcut/voxcut-go/internal/tts"
)

// ErrNoProvider is returned when no speech provider is available.
var ErrNoProvider = errors.New("no speech provider available")

// Sink receives finished clips. Implementations persist or forward the
// WAV; the handler never touches a clip again after delivery.
type Sink interface {
	Deliver(ctx context.Context, job *queue.RenderJob, wavData []byte) error
}

// Handler processes render jobs using a speech provider and the
// post-processing pipeline.
type Handler struct {
	providers *tts.Registry
	sink      Sink
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewHandler creates a new render handler. The metrics argument may be nil.
func NewHandler(providers *tts.Registry, sink Sink, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		providers: providers,
		sink:      sink,
		logger:    logger,
		metrics:   m,
	}
}

// Handle processes a single render job.
// This is the function passed to queue.SetRenderHandler.
func (h *Handler) Handle(ctx context.Context, job *queue.RenderJob) error {
	h.logger.Info("rendering cut",
		"job_id", job.ID,
		"text_length", len(job.Text),
		"voice", job.Voice,
	)

	provider, err := h.providers.Default()
	if err != nil {
		return ErrNoProvider
	}

	if h.metrics != nil {
		h.metrics.SynthesisRequests.Inc()
	}

	result, err := provider.Synthesize(ctx, tts.SynthesizeRequest{
		Text:  job.Text,
		Voice: job.Voice,
	})
	if err != nil {
		if h.metrics != nil {
			if errors.Is(err, tts.ErrContentBlocked) {
				h.metrics.SynthesisBlocked.Inc()
			} else {
				h.metrics.SynthesisFailures.Inc()
			}
		}
		// Wrapping keeps the policy-vs-transport distinction visible
		// to whoever decides on a retry.
		return fmt.Errorf("synthesize cut: %w", err)
	}

	h.logger.Debug("payload received",
		"job_id", job.ID,
		"payload_bytes", len(result.Data),
		"mime_type", result.MimeType,
		"rate_hint", result.SampleRate,
	)

	start := time.Now()
	wavData, err := pipeline.Process(result.Data, pipeline.Options{
		SourceRate: result.SampleRate,
		Volume:     job.Volume,
	})
	if err != nil {
		return fmt.Errorf("post-process cut: %w", err)
	}

	if h.metrics != nil {
		h.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
		h.metrics.ClipBytes.Observe(float64(len(wavData)))
	}

	if err := h.sink.Deliver(ctx, job, wavData); err != nil {
		return fmt.Errorf("deliver clip: %w", err)
	}

	h.logger.Debug("clip delivered", "job_id", job.ID, "clip_bytes", len(wavData))
	return nil
}
