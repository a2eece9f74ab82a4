package analysis

import "time"

// MatchStatus classifies how a single reference word was handled by the
// reader.
type MatchStatus string

const (
	// StatusCorrect means the spoken word matched the reference word,
	// exactly or within the fuzzy edit-distance threshold.
	StatusCorrect MatchStatus = "correct"

	// StatusSkipped means no spoken word could be matched to the reference
	// word.
	StatusSkipped MatchStatus = "skipped"

	// StatusRepeated means the reader re-spoke the previous reference word
	// where this one was expected.
	StatusRepeated MatchStatus = "repeated"

	// StatusMispronounced means a spoken word was close enough to be an
	// attempt at the reference word but diverged beyond the fuzzy threshold.
	StatusMispronounced MatchStatus = "mispronounced"
)

// MatchRecord is the aligner's verdict for one reference word. Exactly one
// MatchRecord exists per reference token, in reference order.
type MatchRecord struct {
	// ExpectedIndex is the position of the word in the tokenized reference.
	ExpectedIndex int

	// ExpectedWord is the normalized reference word.
	ExpectedWord string

	// SpokenWord is the normalized word the reader actually said. Empty when
	// Status is [StatusSkipped].
	SpokenWord string

	// SpokenIndex is the position of SpokenWord in the transcription, or -1
	// when Status is [StatusSkipped].
	SpokenIndex int

	// Timestamp is the start time of the spoken word within the recording.
	// Zero when Status is [StatusSkipped].
	Timestamp time.Duration

	// Status classifies the match.
	Status MatchStatus

	// Confidence is the ASR confidence of the spoken word, or 0 for skipped
	// words.
	Confidence float64
}

// HesitationKind classifies a hesitation event.
type HesitationKind string

const (
	// KindLongPause is an inter-word silence exceeding the adaptive pause
	// threshold.
	KindLongPause HesitationKind = "long_pause"

	// KindRepeatedWord is an immediate repetition of the previous spoken
	// word, independent of the reference text.
	KindRepeatedWord HesitationKind = "repeated_word"

	// KindFillerWord is a word from the configured filler set ("um", "uh", …).
	KindFillerWord HesitationKind = "filler_word"
)

// HesitationEvent is one disfluency found in the transcription. Hesitation
// detection looks only at the spoken sequence, never at the reference.
type HesitationEvent struct {
	// Timestamp locates the event: the end of the word preceding a long
	// pause, or the start of the offending word otherwise.
	Timestamp time.Duration

	// Duration is the pause length for [KindLongPause]; zero otherwise.
	Duration time.Duration

	// Kind classifies the event.
	Kind HesitationKind

	// Word is the normalized word involved. Empty for [KindLongPause].
	Word string

	// Context is the surrounding spoken words (two on each side) joined by
	// spaces, as transcribed.
	Context string
}

// IssueType labels why a word landed on the practice list.
type IssueType string

const (
	IssueSkipped       IssueType = "skipped"
	IssueRepeated      IssueType = "repeated"
	IssueMispronounced IssueType = "mispronounced"
	IssueHesitated     IssueType = "hesitated"
)

// ProblemWord is one entry of the deduplicated practice list. At most one
// entry exists per (Word, Issue) pair; the first occurrence wins.
type ProblemWord struct {
	// Word is the normalized word needing practice.
	Word string

	// Issue is why the word was flagged.
	Issue IssueType

	// TimestampMs is where the problem occurred, in milliseconds from the
	// start of the recording. Zero when no timing is available (e.g. a
	// skipped word was never spoken).
	TimestampMs int64

	// Context is the reference sentence containing the word, or the
	// surrounding spoken words for hesitation-derived entries.
	Context string

	// Suggestion is a short practice tip for this issue.
	Suggestion string
}

// Result is the complete outcome of one analysis. All scores are integers in
// [0, 100]. Result is a plain value with no retained engine state; callers
// own it outright.
type Result struct {
	// ArticulationScore measures clarity and completeness relative to the
	// reference text.
	ArticulationScore int

	// FluencyScore measures pacing and smoothness, independent of word-level
	// correctness.
	FluencyScore int

	// OverallScore is the weighted combination of the two:
	// round(0.6·articulation + 0.4·fluency).
	OverallScore int

	// Matches holds one record per reference word, in reference order.
	Matches []MatchRecord

	// Hesitations holds all detected disfluencies.
	Hesitations []HesitationEvent

	// ProblemWords is the deduplicated practice list.
	ProblemWords []ProblemWord

	// WordsExpected is the number of reference tokens.
	WordsExpected int

	// WordsSpoken is the number of transcribed words.
	WordsSpoken int

	// Accuracy is round(correct / expected · 100).
	Accuracy int
}
