package analysis

import (
	"strings"
	"time"

	"github.com/readcoach-ai/readcoach/pkg/asr"
)

// fillerSet holds normalized filler words, split into single tokens and
// multi-word phrases so both can be tested cheaply per position.
type fillerSet struct {
	single  map[string]struct{}
	bigrams map[string]struct{}
}

func newFillerSet(words []string) fillerSet {
	fs := fillerSet{
		single:  make(map[string]struct{}, len(words)),
		bigrams: make(map[string]struct{}),
	}
	for _, w := range words {
		tokens := Tokenize(w)
		switch len(tokens) {
		case 0:
		case 1:
			fs.single[tokens[0]] = struct{}{}
		default:
			fs.bigrams[strings.Join(tokens, " ")] = struct{}{}
		}
	}
	return fs
}

// DetectHesitations finds disfluencies in the spoken sequence alone; the
// reference text plays no part here. Three independent passes emit, in order:
// long pauses, filler words, and immediate repeats.
//
// The long-pause threshold adapts to the reader: it is the mean positive
// inter-word gap scaled by the pause multiplier, floored at the configured
// minimum so a naturally quick reader is not flagged for ordinary breaths.
//
// An immediate repeat here compares adjacent spoken words; it is independent
// of the aligner's [StatusRepeated], which compares against the reference.
func (a *Analyzer) DetectHesitations(words []asr.Word) []HesitationEvent {
	if len(words) == 0 {
		return nil
	}

	spoken := make([]string, len(words))
	for i, w := range words {
		spoken[i] = Normalize(w.Text)
	}

	var events []HesitationEvent

	// Pass 1: long pauses.
	threshold := a.longPauseThreshold(words)
	for k := 1; k < len(words); k++ {
		gap := words[k].Start - words[k-1].End
		if gap >= threshold {
			events = append(events, HesitationEvent{
				Timestamp: words[k-1].End,
				Duration:  gap,
				Kind:      KindLongPause,
				Context:   contextAround(words, k),
			})
		}
	}

	// Pass 2: filler words and filler phrases.
	for k := range words {
		word := spoken[k]
		if _, ok := a.fillers.single[word]; ok {
			events = append(events, HesitationEvent{
				Timestamp: words[k].Start,
				Kind:      KindFillerWord,
				Word:      word,
				Context:   contextAround(words, k),
			})
			continue
		}
		if k > 0 {
			pair := spoken[k-1] + " " + word
			if _, ok := a.fillers.bigrams[pair]; ok {
				events = append(events, HesitationEvent{
					Timestamp: words[k-1].Start,
					Kind:      KindFillerWord,
					Word:      pair,
					Context:   contextAround(words, k),
				})
			}
		}
	}

	// Pass 3: immediate repeats.
	for k := 1; k < len(words); k++ {
		if spoken[k] != "" && spoken[k] == spoken[k-1] {
			events = append(events, HesitationEvent{
				Timestamp: words[k].Start,
				Kind:      KindRepeatedWord,
				Word:      spoken[k],
				Context:   contextAround(words, k),
			})
		}
	}

	return events
}

// longPauseThreshold returns max(meanPositiveGap × multiplier, minPause).
// Only positive gaps contribute to the mean; overlapping or back-to-back
// words say nothing about pausing behaviour.
func (a *Analyzer) longPauseThreshold(words []asr.Word) time.Duration {
	var total time.Duration
	var n int
	for k := 1; k < len(words); k++ {
		if gap := words[k].Start - words[k-1].End; gap > 0 {
			total += gap
			n++
		}
	}
	var avg time.Duration
	if n > 0 {
		avg = total / time.Duration(n)
	}
	threshold := time.Duration(float64(avg) * a.pauseMultiplier)
	if threshold < a.minPause {
		threshold = a.minPause
	}
	return threshold
}

// contextAround joins the transcribed words two on each side of position k,
// as spoken (no normalization), for human-readable event context.
func contextAround(words []asr.Word, k int) string {
	lo := max(0, k-2)
	hi := min(len(words), k+3)
	parts := make([]string, 0, hi-lo)
	for _, w := range words[lo:hi] {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}
