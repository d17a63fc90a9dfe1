package submit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFormatText(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		line string
		want string
	}{
		{
			name: "plain line",
			cfg:  &Config{MaxTextLength: 1000},
			line: "The hero turns to face the storm.",
			want: "The hero turns to face the storm.",
		},
		{
			name: "with prefix",
			cfg:  &Config{Prefix: "SCENE 4", MaxTextLength: 1000},
			line: "The hero turns to face the storm.",
			want: "SCENE 4: The hero turns to face the storm.",
		},
		{
			name: "prefix only",
			cfg:  &Config{Prefix: "SCENE 4", MaxTextLength: 1000},
			line: "",
			want: "SCENE 4",
		},
		{
			name: "truncate at max length",
			cfg:  &Config{MaxTextLength: 10},
			line: "This line is far too long for the configured limit",
			want: "This line ",
		},
		{
			name: "empty line",
			cfg:  &Config{MaxTextLength: 1000},
			line: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.cfg, newTestLogger())
			got := client.FormatText(tt.line)
			if got != tt.want {
				t.Errorf("FormatText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateDedupeKey(t *testing.T) {
	client := NewClient(&Config{MaxTextLength: 1000}, newTestLogger())

	key := client.generateDedupeKey("a line")
	if len(key) != 16 {
		t.Errorf("key length = %d, want 16 hex chars", len(key))
	}
	if key != client.generateDedupeKey("a line") {
		t.Error("same text produced different keys")
	}
	if key == client.generateDedupeKey("another line") {
		t.Error("different text produced identical keys")
	}
}

func TestDeduplication(t *testing.T) {
	cfg := &Config{
		APIURL:        "http://localhost:8080",
		MaxTextLength: 1000,
		DedupeWindow:  100 * time.Millisecond,
	}
	client := NewClient(cfg, newTestLogger())

	key := client.generateDedupeKey("test line")
	if client.isDuplicate(key) {
		t.Error("unseen key reported as duplicate")
	}

	client.recordDedupeKey(key)
	if !client.isDuplicate(key) {
		t.Error("recorded key not reported as duplicate")
	}

	time.Sleep(150 * time.Millisecond)
	if client.isDuplicate(key) {
		t.Error("key still duplicate after window expired")
	}
}

// recordingServer captures render requests for assertions.
type recordingServer struct {
	mu       sync.Mutex
	requests []RenderRequest
	headers  []http.Header
	status   int
}

func (rs *recordingServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RenderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		rs.mu.Lock()
		rs.requests = append(rs.requests, req)
		rs.headers = append(rs.headers, r.Header.Clone())
		status := rs.status
		rs.mu.Unlock()
		if status == 0 {
			status = http.StatusAccepted
		}
		w.WriteHeader(status)
	}
}

func (rs *recordingServer) count() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.requests)
}

func TestRun_SubmitsLines(t *testing.T) {
	rs := &recordingServer{}
	srv := httptest.NewServer(rs.handler(t))
	defer srv.Close()

	cfg := &Config{
		APIURL:        srv.URL,
		BearerToken:   "secret",
		Voice:         "narrator",
		Volume:        0.8,
		TTLMS:         5000,
		MaxTextLength: 1000,
	}
	client := NewClient(cfg, newTestLogger())

	script := "First cut line.\n\n# a comment\nSecond cut line.\n"
	submitted, err := client.Run(context.Background(), strings.NewReader(script))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if submitted != 2 {
		t.Errorf("submitted = %d, want 2", submitted)
	}
	if rs.count() != 2 {
		t.Fatalf("server received %d requests, want 2", rs.count())
	}

	req := rs.requests[0]
	if req.Text != "First cut line." {
		t.Errorf("text = %q, want %q", req.Text, "First cut line.")
	}
	if req.Voice != "narrator" {
		t.Errorf("voice = %q, want narrator", req.Voice)
	}
	if req.Volume != 0.8 {
		t.Errorf("volume = %v, want 0.8", req.Volume)
	}
	if req.TTLMS != 5000 {
		t.Errorf("ttl_ms = %d, want 5000", req.TTLMS)
	}
	if req.DedupeKey == "" {
		t.Error("dedupe_key is empty")
	}
	if got := rs.headers[0].Get("Authorization"); got != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", got)
	}
}

func TestRun_SkipsDuplicateLines(t *testing.T) {
	rs := &recordingServer{}
	srv := httptest.NewServer(rs.handler(t))
	defer srv.Close()

	cfg := &Config{
		APIURL:        srv.URL,
		MaxTextLength: 1000,
		DedupeWindow:  time.Minute,
	}
	client := NewClient(cfg, newTestLogger())

	script := "Same line.\nSame line.\nDifferent line.\n"
	submitted, err := client.Run(context.Background(), strings.NewReader(script))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if submitted != 2 {
		t.Errorf("submitted = %d, want 2", submitted)
	}
}

func TestRun_DedupeDisabled(t *testing.T) {
	rs := &recordingServer{}
	srv := httptest.NewServer(rs.handler(t))
	defer srv.Close()

	cfg := &Config{APIURL: srv.URL, MaxTextLength: 1000}
	client := NewClient(cfg, newTestLogger())

	script := "Same line.\nSame line.\n"
	submitted, err := client.Run(context.Background(), strings.NewReader(script))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if submitted != 2 {
		t.Errorf("submitted = %d, want 2 with dedupe disabled", submitted)
	}
}

func TestSubmit_ConflictIsSuccess(t *testing.T) {
	rs := &recordingServer{status: http.StatusConflict}
	srv := httptest.NewServer(rs.handler(t))
	defer srv.Close()

	cfg := &Config{APIURL: srv.URL, MaxTextLength: 1000}
	client := NewClient(cfg, newTestLogger())

	if err := client.submit(context.Background(), "a line", "abc123"); err != nil {
		t.Errorf("submit() error on 409: %v", err)
	}
	if rs.count() != 1 {
		t.Errorf("server received %d requests, want 1", rs.count())
	}
}

func TestSubmit_ClientErrorNotRetried(t *testing.T) {
	rs := &recordingServer{status: http.StatusBadRequest}
	srv := httptest.NewServer(rs.handler(t))
	defer srv.Close()

	cfg := &Config{APIURL: srv.URL, MaxTextLength: 1000}
	client := NewClient(cfg, newTestLogger())

	if err := client.submit(context.Background(), "a line", "abc123"); err == nil {
		t.Error("submit() returned nil for 400 response")
	}
	if rs.count() != 1 {
		t.Errorf("server received %d requests, want 1 (no retries on 4xx)", rs.count())
	}
}

func TestSubmit_ContextCancelledDuringBackoff(t *testing.T) {
	rs := &recordingServer{status: http.StatusInternalServerError}
	srv := httptest.NewServer(rs.handler(t))
	defer srv.Close()

	cfg := &Config{APIURL: srv.URL, MaxTextLength: 1000}
	client := NewClient(cfg, newTestLogger())

	// The timeout expires during the first retry backoff.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := client.submit(ctx, "a line", "abc123")
	if err == nil {
		t.Fatal("submit() returned nil with expired context")
	}
	if rs.count() != 1 {
		t.Errorf("server received %d requests, want 1", rs.count())
	}
}
