package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/readcoach-ai/readcoach/internal/analysis"
	"github.com/readcoach-ai/readcoach/internal/api"
	"github.com/readcoach-ai/readcoach/internal/observe"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *api.Server {
	t.Helper()
	metrics, err := observe.NewMetrics(sdkmetric.NewMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return api.New(":0", analysis.New(), metrics)
}

func postAnalyze(t *testing.T, srv *api.Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestAnalyze_PerfectReading(t *testing.T) {
	srv := newTestServer(t)

	rec := postAnalyze(t, srv, map[string]any{
		"reference_text": "The cat sat.",
		"transcription": map[string]any{
			"text": "the cat sat",
			"words": []map[string]any{
				{"word": "the", "start": 0.0, "end": 0.5, "confidence": 1.0},
				{"word": "cat", "start": 0.5, "end": 1.0, "confidence": 1.0},
				{"word": "sat", "start": 1.0, "end": 1.5, "confidence": 1.0},
			},
			"duration_seconds": 1.5,
		},
		"audio_duration_ms": 1500,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID            string `json:"id"`
		OverallScore  int    `json:"overall_score"`
		Accuracy      int    `json:"accuracy"`
		WordsExpected int    `json:"words_expected"`
		Matches       []struct {
			Status      string `json:"status"`
			TimestampMs int64  `json:"timestamp_ms"`
		} `json:"matches"`
		Feedback struct {
			Summary string   `json:"summary"`
			Tips    []string `json:"tips"`
		} `json:"feedback"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.ID == "" {
		t.Error("ID is empty, want a generated UUID")
	}
	if resp.OverallScore != 100 || resp.Accuracy != 100 {
		t.Errorf("OverallScore = %d, Accuracy = %d, want 100/100", resp.OverallScore, resp.Accuracy)
	}
	if resp.WordsExpected != 3 || len(resp.Matches) != 3 {
		t.Fatalf("WordsExpected = %d, Matches = %d, want 3/3", resp.WordsExpected, len(resp.Matches))
	}
	for i, m := range resp.Matches {
		if m.Status != "correct" {
			t.Errorf("Matches[%d].Status = %q, want correct", i, m.Status)
		}
	}
	if resp.Matches[1].TimestampMs != 500 {
		t.Errorf("Matches[1].TimestampMs = %d, want 500", resp.Matches[1].TimestampMs)
	}
	if resp.Feedback.Summary == "" {
		t.Error("Feedback.Summary is empty")
	}
	if resp.Feedback.Tips == nil {
		t.Error("Feedback.Tips is null, want an empty array")
	}
}

func TestAnalyze_MissingReferenceText(t *testing.T) {
	srv := newTestServer(t)

	rec := postAnalyze(t, srv, map[string]any{
		"transcription": map[string]any{"text": "hello"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyze_EmptyTranscription(t *testing.T) {
	srv := newTestServer(t)

	rec := postAnalyze(t, srv, map[string]any{
		"reference_text":    "The cat sat.",
		"transcription":     map[string]any{"text": ""},
		"audio_duration_ms": 1000,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
}

func TestAnalyze_MissingAudioDuration(t *testing.T) {
	srv := newTestServer(t)

	// The recording length is measured by the caller, not inferred from the
	// transcription; leaving it out is a client error.
	rec := postAnalyze(t, srv, map[string]any{
		"reference_text": "The cat sat.",
		"transcription": map[string]any{
			"text":             "the cat sat",
			"duration_seconds": 1.5,
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !strings.Contains(body.Error, "audio_duration_ms") {
		t.Errorf("error = %q, want it to name audio_duration_ms", body.Error)
	}
}

func TestAnalyze_MalformedBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyze_TextOnlyFallback(t *testing.T) {
	srv := newTestServer(t)

	rec := postAnalyze(t, srv, map[string]any{
		"reference_text": "one two three",
		"transcription": map[string]any{
			"text":             "one two three",
			"duration_seconds": 3.0,
		},
		"audio_duration_ms": 3000,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Accuracy    int `json:"accuracy"`
		WordsSpoken int `json:"words_spoken"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Accuracy != 100 || resp.WordsSpoken != 3 {
		t.Errorf("Accuracy = %d, WordsSpoken = %d, want 100/3", resp.Accuracy, resp.WordsSpoken)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", rec.Code)
	}
}
