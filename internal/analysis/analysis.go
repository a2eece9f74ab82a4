// Package analysis implements the reading-articulation alignment and scoring
// engine: given a reference text a learner was asked to read aloud and a
// time-stamped ASR transcription of what was actually spoken, it aligns the
// two word sequences, classifies every divergence, detects pacing problems,
// and produces normalized articulation and fluency scores plus a deduplicated
// practice list.
//
// The pipeline is a composition of pure stages:
//
//	Tokenize → Align → {score, extractProblemWords} ← DetectHesitations
//
// The [Analyzer] holds only configuration and no mutable state, so a single
// instance is safe for concurrent use; independent [Analyzer.Analyze] calls
// may run fully in parallel.
package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/readcoach-ai/readcoach/pkg/asr"
)

// Error taxonomy. Failures are detected eagerly, before any alignment work
// begins; no partial [Result] is ever returned.
var (
	// ErrInvalidInput marks an empty reference text, a transcription with
	// neither words nor text, or a non-positive audio duration.
	ErrInvalidInput = errors.New("analysis: invalid input")

	// ErrMalformedTranscription marks a transcribed word with impossible
	// timing (negative timestamps, or end before start).
	ErrMalformedTranscription = errors.New("analysis: malformed transcription")
)

// Defaults for all tunables. Each can be overridden per [Analyzer] via the
// corresponding option.
const (
	// DefaultFuzzyThreshold is the maximum edit distance at which a spoken
	// word still counts as a correct rendition of the reference word.
	DefaultFuzzyThreshold = 2

	// DefaultConfidence is assumed for words whose ASR confidence is absent.
	DefaultConfidence = 0.9

	// DefaultPauseMultiplier scales the mean inter-word gap to obtain the
	// long-pause threshold.
	DefaultPauseMultiplier = 1.5

	// DefaultMinPause is the floor of the long-pause threshold, so that fast
	// readers are not penalised for ordinary breathing gaps.
	DefaultMinPause = 500 * time.Millisecond
)

// defaultFillerWords is the built-in filler set. "you know" is a two-word
// entry and is matched against adjacent token pairs.
var defaultFillerWords = []string{
	"um", "uh", "er", "ah", "hmm", "like", "you know", "so", "well", "actually",
}

// Option is a functional option for configuring an [Analyzer].
type Option func(*Analyzer)

// WithFuzzyThreshold sets the maximum Levenshtein distance treated as a
// correct match. Default: 2.
func WithFuzzyThreshold(n int) Option {
	return func(a *Analyzer) { a.fuzzyThreshold = n }
}

// WithDefaultConfidence sets the confidence assumed for words the ASR
// provider reported without one. Default: 0.9.
func WithDefaultConfidence(c float64) Option {
	return func(a *Analyzer) { a.defaultConfidence = c }
}

// WithPauseMultiplier sets the factor applied to the mean inter-word gap when
// deriving the long-pause threshold. Default: 1.5.
func WithPauseMultiplier(m float64) Option {
	return func(a *Analyzer) { a.pauseMultiplier = m }
}

// WithMinPause sets the floor of the long-pause threshold. Default: 500ms.
func WithMinPause(d time.Duration) Option {
	return func(a *Analyzer) { a.minPause = d }
}

// WithFillerWords replaces the built-in filler-word set. Entries are
// normalized; multi-word entries are matched against adjacent token pairs.
func WithFillerWords(words []string) Option {
	return func(a *Analyzer) { a.fillers = newFillerSet(words) }
}

// Analyzer runs the full analysis pipeline. It is read-only after
// construction and safe for concurrent use.
type Analyzer struct {
	fuzzyThreshold    int
	defaultConfidence float64
	pauseMultiplier   float64
	minPause          time.Duration
	fillers           fillerSet
}

// New returns an [Analyzer] with the documented defaults, adjusted by opts.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		fuzzyThreshold:    DefaultFuzzyThreshold,
		defaultConfidence: DefaultConfidence,
		pauseMultiplier:   DefaultPauseMultiplier,
		minPause:          DefaultMinPause,
		fillers:           newFillerSet(defaultFillerWords),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze is a convenience wrapper equivalent to New().Analyze(...).
func Analyze(referenceText string, t asr.Transcription, audioDuration time.Duration) (*Result, error) {
	return New().Analyze(referenceText, t, audioDuration)
}

// Analyze aligns t against referenceText and returns the complete [Result].
//
// audioDuration is the recording length as measured by the caller; it is
// validated independently of the transcription's own duration because the two
// come from different collaborators.
//
// When t carries no word timestamps but does carry text, words are
// synthesized evenly across audioDuration at the default confidence. When
// neither is present the call fails with [ErrInvalidInput].
func (a *Analyzer) Analyze(referenceText string, t asr.Transcription, audioDuration time.Duration) (*Result, error) {
	expected := Tokenize(referenceText)
	if err := a.validate(expected, t, audioDuration); err != nil {
		return nil, err
	}

	words := t.Words
	if len(words) == 0 {
		words = synthesizeWords(t.Text, audioDuration, a.defaultConfidence)
	}
	words = a.fillConfidence(words)

	matches := a.Align(expected, words)
	hesitations := a.DetectHesitations(words)
	scores := a.score(matches, hesitations, words)
	problems := a.extractProblemWords(matches, hesitations, indexSentences(referenceText))

	return &Result{
		ArticulationScore: scores.articulation,
		FluencyScore:      scores.fluency,
		OverallScore:      scores.overall,
		Matches:           matches,
		Hesitations:       hesitations,
		ProblemWords:      problems,
		WordsExpected:     len(expected),
		WordsSpoken:       len(words),
		Accuracy:          scores.accuracy,
	}, nil
}

// validate applies the full error taxonomy before any alignment work.
func (a *Analyzer) validate(expected []string, t asr.Transcription, audioDuration time.Duration) error {
	if len(expected) == 0 {
		return fmt.Errorf("%w: reference text is empty", ErrInvalidInput)
	}
	if audioDuration <= 0 {
		return fmt.Errorf("%w: audio duration %v is not positive", ErrInvalidInput, audioDuration)
	}
	if len(t.Words) == 0 && strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: transcription has neither words nor text", ErrInvalidInput)
	}
	for i, w := range t.Words {
		if w.Start < 0 || w.End < 0 {
			return fmt.Errorf("%w: word %d %q has a negative timestamp", ErrMalformedTranscription, i, w.Text)
		}
		if w.End < w.Start {
			return fmt.Errorf("%w: word %d %q ends (%v) before it starts (%v)",
				ErrMalformedTranscription, i, w.Text, w.End, w.Start)
		}
	}
	return nil
}

// fillConfidence returns a copy of words with absent confidences replaced by
// the configured default. The input slice is never mutated — the engine holds
// no references to caller data after Analyze returns.
func (a *Analyzer) fillConfidence(words []asr.Word) []asr.Word {
	out := make([]asr.Word, len(words))
	copy(out, words)
	for i := range out {
		if out[i].Confidence == 0 {
			out[i].Confidence = a.defaultConfidence
		}
	}
	return out
}

// synthesizeWords is the fallback for transcriptions that carry text but no
// word timestamps: the text's tokens are spread evenly across the recording.
func synthesizeWords(text string, audioDuration time.Duration, confidence float64) []asr.Word {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	slot := audioDuration / time.Duration(len(fields))
	words := make([]asr.Word, len(fields))
	for i, f := range fields {
		words[i] = asr.Word{
			Text:       f,
			Start:      time.Duration(i) * slot,
			End:        time.Duration(i+1) * slot,
			Confidence: confidence,
		}
	}
	return words
}
