package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/voxcut/voxcut-go/internal/pipeline"
	"github.com/voxcut/voxcut-go/internal/queue"
	"github.com/voxcut/voxcut-go/internal/tts"
)

// RenderRequest represents the request body for /v1/render.
type RenderRequest struct {
	Text      string  `json:"text"`
	Voice     string  `json:"voice,omitempty"`
	Volume    float64 `json:"volume,omitempty"`
	Interrupt bool    `json:"interrupt,omitempty"`
	TTLMS     int     `json:"ttl_ms,omitempty"`
	DedupeKey string  `json:"dedupe_key,omitempty"`
}

// RenderResponse represents the response body for /v1/render.
type RenderResponse struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// ProcessRequest represents the request body for /v1/process.
// Audio carries the raw PCM payload base64-encoded, exactly as the
// speech provider returns it.
type ProcessRequest struct {
	Audio          string  `json:"audio"`
	MimeType       string  `json:"mime_type,omitempty"`
	SampleRateHint int     `json:"sample_rate_hint,omitempty"`
	Volume         float64 `json:"volume,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the response body for /v1/healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleHealthz handles GET /v1/healthz requests.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// handleRender handles POST /v1/render requests.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("failed to decode render request", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "invalid JSON body"})
		return
	}

	// Validate text is present
	if req.Text == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "text is required"})
		return
	}

	// Validate text length
	if len(req.Text) > s.cfg.MaxTextLength {
		s.logger.Warn("text exceeds max length", "length", len(req.Text), "max", s.cfg.MaxTextLength)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "text exceeds maximum length"})
		return
	}

	// Validate TTL if provided
	if req.TTLMS < 0 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "ttl_ms must be non-negative"})
		return
	}

	// Validate volume if provided
	if req.Volume < 0 || req.Volume > 4 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(ErrorResponse{Error: "volume must be in (0, 4]"})
		return
	}

	// Use defaults where not provided
	voice := req.Voice
	if voice == "" {
		voice = s.cfg.DefaultVoice
	}
	volume := req.Volume
	if volume == 0 {
		volume = s.cfg.DefaultVolume
	}

	// Convert TTL from milliseconds to duration
	var ttl time.Duration
	if req.TTLMS > 0 {
		ttl = time.Duration(req.TTLMS) * time.Millisecond
	} else if s.cfg.DefaultTTL > 0 {
		ttl = s.cfg.DefaultTTL
	}

	// Handle interrupt: cancel current render and clear queue
	if req.Interrupt && s.queue != nil {
		s.queue.Interrupt()
	}

	// Create and enqueue the job
	job := queue.NewRenderJob(req.Text, voice, volume, req.Interrupt, ttl, req.DedupeKey)

	if s.queue != nil {
		if err := s.queue.Enqueue(job); err != nil {
			if errors.Is(err, queue.ErrQueueFull) {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "queue is full"})
				return
			}
			if errors.Is(err, queue.ErrDuplicateJob) {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "duplicate job"})
				return
			}
			s.logger.Error("failed to enqueue job", "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "failed to enqueue job"})
			return
		}
	}

	s.logger.Info("render request enqueued",
		"job_id", job.ID,
		"text_length", len(req.Text),
		"voice", voice,
		"volume", volume,
		"interrupt", req.Interrupt,
		"ttl_ms", req.TTLMS,
		"dedupe_key", req.DedupeKey,
	)

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(RenderResponse{
		JobID:   job.ID,
		Message: "job enqueued",
	})
}

// handleProcess handles POST /v1/process requests: it runs the audio
// post-processing pipeline synchronously over a base64 PCM payload and
// responds with the finished WAV.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Warn("failed to decode process request", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Audio == "" {
		writeJSONError(w, http.StatusBadRequest, "audio is required")
		return
	}
	if req.Volume < 0 || req.Volume > 4 {
		writeJSONError(w, http.StatusBadRequest, "volume must be in (0, 4]")
		return
	}

	sourceRate := req.SampleRateHint
	if sourceRate <= 0 && req.MimeType != "" {
		sourceRate = tts.RateFromMime(req.MimeType)
	}

	volume := req.Volume
	if volume == 0 {
		volume = s.cfg.DefaultVolume
	}

	wavData, err := pipeline.ProcessBase64(req.Audio, pipeline.Options{
		SourceRate: sourceRate,
		Volume:     volume,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyPayload) {
			writeJSONError(w, http.StatusBadRequest, "audio payload holds no samples")
			return
		}
		s.logger.Warn("failed to process payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid audio payload")
		return
	}

	s.logger.Debug("payload processed",
		"payload_chars", len(req.Audio),
		"clip_bytes", len(wavData),
		"source_rate", sourceRate,
	)

	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(len(wavData)))
	w.Write(wavData)
}

// writeJSONError writes a JSON error response with the given status.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg})
}
