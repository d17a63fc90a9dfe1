// Package submit reads storyboard cut lines and submits them to the
// render API as speech jobs.
package submit

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RenderRequest represents the request body for POST /v1/render.
type RenderRequest struct {
	Text      string  `json:"text"`
	Voice     string  `json:"voice,omitempty"`
	Volume    float64 `json:"volume,omitempty"`
	Interrupt bool    `json:"interrupt,omitempty"`
	TTLMS     int     `json:"ttl_ms,omitempty"`
	DedupeKey string  `json:"dedupe_key,omitempty"`
}

const (
	maxSubmitAttempts = 3
	initialBackoff    = time.Second
)

// Client submits script cut lines to the render API.
type Client struct {
	cfg        *Config
	logger     *slog.Logger
	httpClient *http.Client
	dedupeMap  map[string]time.Time
	dedupeMu   sync.Mutex
}

// NewClient creates a new submission client.
func NewClient(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		dedupeMap: make(map[string]time.Time),
	}
}

// Run reads cut lines from r and submits each one as a render job.
// Blank lines and lines starting with '#' are skipped. It returns the
// number of jobs submitted and the first fatal error encountered.
func (c *Client) Run(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	submitted := 0
	lineNo := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return submitted, ctx.Err()
		default:
		}

		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if c.handleLine(ctx, line, lineNo) {
			submitted++
		}
	}

	if err := scanner.Err(); err != nil {
		return submitted, fmt.Errorf("scanner error: %w", err)
	}

	return submitted, nil
}

// handleLine formats, dedupes and submits a single cut line. It reports
// whether a job was actually submitted.
func (c *Client) handleLine(ctx context.Context, line string, lineNo int) bool {
	text := c.FormatText(line)
	if text == "" {
		c.logger.Debug("skipping empty line", "line", lineNo)
		return false
	}

	dedupeKey := c.generateDedupeKey(text)
	if c.cfg.DedupeWindow > 0 {
		if c.isDuplicate(dedupeKey) {
			c.logger.Debug("skipping duplicate line", "line", lineNo, "dedupe_key", dedupeKey)
			return false
		}
		c.recordDedupeKey(dedupeKey)
	}

	if err := c.submit(ctx, text, dedupeKey); err != nil {
		c.logger.Error("failed to submit cut line",
			"error", err,
			"line", lineNo,
			"text_length", len(text),
		)
		return false
	}

	c.logger.Info("cut line submitted",
		"line", lineNo,
		"text_length", len(text),
		"dedupe_key", dedupeKey,
	)
	return true
}

// FormatText applies the optional prefix and enforces max length.
func (c *Client) FormatText(line string) string {
	var parts []string

	if c.cfg.Prefix != "" {
		parts = append(parts, c.cfg.Prefix)
	}

	if line != "" {
		parts = append(parts, line)
	}

	text := strings.Join(parts, ": ")

	// Enforce max length
	if len(text) > c.cfg.MaxTextLength {
		text = text[:c.cfg.MaxTextLength]
	}

	return text
}

// submit sends the text to the render API, retrying transient failures
// with exponential backoff. A 409 means a duplicate job already sits in
// the service queue and is treated as success.
func (c *Client) submit(ctx context.Context, text, dedupeKey string) error {
	backoff := initialBackoff

	var lastErr error
	for attempt := 1; attempt <= maxSubmitAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		status, err := c.postRender(ctx, text, dedupeKey)
		if err == nil {
			return nil
		}
		lastErr = err

		// Client errors will not improve on retry
		if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
			return err
		}

		c.logger.Warn("submit attempt failed, retrying",
			"attempt", attempt,
			"error", err,
			"backoff", backoff,
		)
	}

	return lastErr
}

// postRender performs one POST /v1/render call. It returns the HTTP
// status code when a response was received, 0 otherwise.
func (c *Client) postRender(ctx context.Context, text, dedupeKey string) (int, error) {
	url := fmt.Sprintf("%s/v1/render", strings.TrimSuffix(c.cfg.APIURL, "/"))

	renderReq := RenderRequest{
		Text:      text,
		Voice:     c.cfg.Voice,
		Volume:    c.cfg.Volume,
		Interrupt: c.cfg.Interrupt,
		TTLMS:     c.cfg.TTLMS,
		DedupeKey: dedupeKey,
	}

	body, err := json.Marshal(renderReq)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		c.logger.Debug("job already queued", "dedupe_key", dedupeKey)
		return resp.StatusCode, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return resp.StatusCode, nil
}

// generateDedupeKey creates a hash-based dedupe key from the text.
func (c *Client) generateDedupeKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:8])
}

// isDuplicate checks if a dedupe key has been seen within the dedupe window.
func (c *Client) isDuplicate(key string) bool {
	c.dedupeMu.Lock()
	defer c.dedupeMu.Unlock()

	if seenAt, ok := c.dedupeMap[key]; ok {
		if time.Since(seenAt) < c.cfg.DedupeWindow {
			return true
		}
	}
	return false
}

// recordDedupeKey records a dedupe key with the current timestamp.
func (c *Client) recordDedupeKey(key string) {
	c.dedupeMu.Lock()
	defer c.dedupeMu.Unlock()
	c.dedupeMap[key] = time.Now()
}
