package asr_test

import (
	"strings"
	"testing"
	"time"

	"github.com/readcoach-ai/readcoach/pkg/asr"
)

func TestParseVerboseJSON_TopLevelWords(t *testing.T) {
	t.Parallel()

	in := `{
		"text": "The cat sat.",
		"language": "en",
		"duration": 1.5,
		"words": [
			{"word": "The", "start": 0.0, "end": 0.4, "probability": 0.98},
			{"word": "cat", "start": 0.4, "end": 0.9, "probability": 0.95},
			{"word": "sat.", "start": 0.9, "end": 1.5, "probability": 0.99}
		]
	}`
	tr, err := asr.ParseVerboseJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseVerboseJSON: %v", err)
	}

	if tr.Text != "The cat sat." || tr.Language != "en" {
		t.Errorf("Text = %q, Language = %q", tr.Text, tr.Language)
	}
	if tr.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v, want 1.5s", tr.Duration)
	}
	if len(tr.Words) != 3 {
		t.Fatalf("Words = %d, want 3", len(tr.Words))
	}
	if tr.Words[1].Text != "cat" || tr.Words[1].Start != 400*time.Millisecond || tr.Words[1].End != 900*time.Millisecond {
		t.Errorf("Words[1] = %+v", tr.Words[1])
	}
	if tr.Words[0].Confidence != 0.98 {
		t.Errorf("Words[0].Confidence = %v, want 0.98", tr.Words[0].Confidence)
	}
}

func TestParseVerboseJSON_SegmentWords(t *testing.T) {
	t.Parallel()

	in := `{
		"text": "one two three",
		"duration": 3.0,
		"segments": [
			{"words": [
				{"word": "one", "start": 0.0, "end": 1.0, "probability": 0.9},
				{"word": "two", "start": 1.0, "end": 2.0, "probability": 0.9}
			]},
			{"words": [
				{"word": "three", "start": 2.0, "end": 3.0, "probability": 0.9}
			]}
		]
	}`
	tr, err := asr.ParseVerboseJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseVerboseJSON: %v", err)
	}

	if len(tr.Words) != 3 {
		t.Fatalf("Words = %d, want segments concatenated into 3", len(tr.Words))
	}
	if tr.Words[2].Text != "three" || tr.Words[2].Start != 2*time.Second {
		t.Errorf("Words[2] = %+v", tr.Words[2])
	}
}

func TestParseVerboseJSON_TopLevelWinsOverSegments(t *testing.T) {
	t.Parallel()

	in := `{
		"text": "hello",
		"words": [{"word": "hello", "start": 0.0, "end": 0.5, "probability": 1.0}],
		"segments": [{"words": [{"word": "ignored", "start": 0.0, "end": 0.5}]}]
	}`
	tr, err := asr.ParseVerboseJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseVerboseJSON: %v", err)
	}
	if len(tr.Words) != 1 || tr.Words[0].Text != "hello" {
		t.Errorf("Words = %+v, want only the top-level word", tr.Words)
	}
}

func TestParseVerboseJSON_NoWords(t *testing.T) {
	t.Parallel()

	tr, err := asr.ParseVerboseJSON(strings.NewReader(`{"text": "hello there", "duration": 2.0}`))
	if err != nil {
		t.Fatalf("ParseVerboseJSON: %v", err)
	}
	if len(tr.Words) != 0 {
		t.Errorf("Words = %+v, want empty", tr.Words)
	}
	if tr.Text != "hello there" {
		t.Errorf("Text = %q", tr.Text)
	}
}

func TestParseVerboseJSON_InvalidJSON(t *testing.T) {
	t.Parallel()

	if _, err := asr.ParseVerboseJSON(strings.NewReader("{broken")); err == nil {
		t.Fatal("want decode error for malformed input")
	}
}

func TestDurationFromSeconds_RoundsToMillisecond(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want time.Duration
	}{
		{0, 0},
		{1.2999999, 1300 * time.Millisecond},
		{0.0004, 0},
		{0.0005, 1 * time.Millisecond},
		{2.5, 2500 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := asr.DurationFromSeconds(tc.in); got != tc.want {
			t.Errorf("DurationFromSeconds(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
