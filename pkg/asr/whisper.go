package asr

import (
	"encoding/json"
	"fmt"
	"io"
)

// verboseResult mirrors the whisper "verbose_json" response format. Word
// timestamps appear either at the top level (word-granularity requests) or
// nested inside segments (whisper.cpp and older servers).
type verboseResult struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`

	Words    []verboseWord `json:"words"`
	Segments []struct {
		Words []verboseWord `json:"words"`
	} `json:"segments"`
}

type verboseWord struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// ParseVerboseJSON decodes a whisper-style verbose_json transcription from r
// into a [Transcription]. Top-level words take precedence; when absent, the
// per-segment word lists are concatenated in order.
func ParseVerboseJSON(r io.Reader) (*Transcription, error) {
	var raw verboseResult
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("asr: decode verbose_json: %w", err)
	}

	words := raw.Words
	if len(words) == 0 {
		for _, seg := range raw.Segments {
			words = append(words, seg.Words...)
		}
	}

	t := &Transcription{
		Text:     raw.Text,
		Language: raw.Language,
		Duration: DurationFromSeconds(raw.Duration),
		Words:    make([]Word, 0, len(words)),
	}
	for _, w := range words {
		t.Words = append(t.Words, Word{
			Text:       w.Word,
			Start:      DurationFromSeconds(w.Start),
			End:        DurationFromSeconds(w.End),
			Confidence: w.Probability,
		})
	}
	return t, nil
}
