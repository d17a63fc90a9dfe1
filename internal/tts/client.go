package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrContentBlocked is returned when the provider refuses the text
	// on safety-policy grounds. Callers must surface this distinctly
	// from transport failures; it is not retryable.
	ErrContentBlocked = errors.New("content blocked by provider policy")
	// ErrTransport is returned when the speech request fails in transit.
	ErrTransport = errors.New("speech transport failure")
	// ErrNoAudio is returned when the provider responds without audio data.
	ErrNoAudio = errors.New("provider returned no audio")
	// ErrNoEndpoint is returned when no speech endpoint is configured.
	ErrNoEndpoint = errors.New("no speech endpoint configured")
)

// ClientConfig holds configuration for the remote speech client.
type ClientConfig struct {
	// Endpoint is the synthesis URL of the speech API.
	Endpoint string
	// APIKey authenticates requests. Empty disables the auth header.
	APIKey string
	// Model selects the provider-side speech model.
	Model string
	// DefaultVoice is used when a request names no voice.
	DefaultVoice string
	// Timeout bounds each synthesis request. Zero means 30s.
	Timeout time.Duration
}

// Client implements Provider against a remote HTTP speech API.
// It performs no retries: transport failures are reported to the
// caller, which owns the retry policy.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a remote speech client.
func NewClient(cfg ClientConfig, logger *slog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return "remote"
}

type synthesizeBody struct {
	Model string `json:"model,omitempty"`
	Input string `json:"input"`
	Voice string `json:"voice,omitempty"`
}

type synthesizeResponse struct {
	Audio struct {
		Data     string `json:"data"`
		MimeType string `json:"mime_type"`
	} `json:"audio"`
	BlockReason string `json:"block_reason,omitempty"`
}

// Synthesize requests speech for the given text and returns the raw
// PCM payload with its rate hint.
func (c *Client) Synthesize(ctx context.Context, req SynthesizeRequest) (*AudioResult, error) {
	if req.Text == "" {
		return nil, errors.New("empty text")
	}

	voice := req.Voice
	if voice == "" || voice == "default" {
		voice = c.cfg.DefaultVoice
	}

	body, err := json.Marshal(synthesizeBody{
		Model: c.cfg.Model,
		Input: req.Text,
		Voice: voice,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.logger.Debug("requesting synthesis",
		"voice", voice,
		"text_length", len(req.Text),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	// Policy refusals arrive as a 422 or as block_reason in a 200 body.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, fmt.Errorf("%w: %s", ErrContentBlocked, strings.TrimSpace(string(respBody)))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var parsed synthesizeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid response body", ErrTransport)
	}

	if parsed.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", ErrContentBlocked, parsed.BlockReason)
	}
	if parsed.Audio.Data == "" {
		return nil, ErrNoAudio
	}

	raw, err := base64.StdEncoding.DecodeString(parsed.Audio.Data)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrNoAudio
	}

	rate := RateFromMime(parsed.Audio.MimeType)

	c.logger.Debug("synthesis complete",
		"payload_bytes", len(raw),
		"mime_type", parsed.Audio.MimeType,
		"sample_rate", rate,
	)

	return &AudioResult{
		Data:       raw,
		MimeType:   parsed.Audio.MimeType,
		SampleRate: rate,
	}, nil
}
