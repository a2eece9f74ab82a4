// Package asr defines the boundary types for transcriptions produced by an
// upstream automatic-speech-recognition service. The engine never runs ASR
// itself; it consumes these types as-is.
//
// ASR providers report word timestamps in seconds. This package is the only
// place where seconds exist: [DurationFromSeconds] converts them once, at the
// boundary, and everything downstream speaks [time.Duration].
package asr

import (
	"math"
	"time"
)

// Transcription is a complete ASR result for one recording.
type Transcription struct {
	// Text is the full transcribed text as reported by the provider.
	Text string

	// Words contains the time-ordered, non-overlapping word sequence.
	// May be empty for providers that do not emit word-level timestamps.
	Words []Word

	// Language is the BCP-47 language tag reported by the provider (e.g. "en").
	Language string

	// Duration is the length of the transcribed audio.
	Duration time.Duration
}

// Word is a single transcribed word with its timing and optional confidence.
type Word struct {
	// Text is the word as transcribed, including any original casing and
	// punctuation the provider attached to it.
	Text string

	// Start and End bound the word within the recording. End is never
	// before Start in a well-formed transcription.
	Start time.Duration
	End   time.Duration

	// Confidence is the provider's confidence in this word (0.0–1.0).
	// Zero means the provider did not report confidence.
	Confidence float64
}

// DurationFromSeconds converts a provider timestamp in seconds to a
// [time.Duration], rounding to the nearest millisecond. ASR timestamps have
// at most millisecond precision; rounding avoids float artifacts like
// 1.2999999s.
func DurationFromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s*1000)) * time.Millisecond
}

// Seconds converts d back to the provider's unit for wire output.
func Seconds(d time.Duration) float64 {
	return d.Seconds()
}
