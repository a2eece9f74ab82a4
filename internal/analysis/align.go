package analysis

import (
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"github.com/readcoach-ai/readcoach/pkg/asr"
)

// EditDistance returns the Levenshtein distance between a and b: the minimum
// number of single-character inserts, deletes, and substitutions needed to
// transform one into the other.
func EditDistance(a, b string) int {
	return matchr.Levenshtein(a, b)
}

// Align walks the normalized reference tokens against the transcribed word
// sequence and emits exactly one [MatchRecord] per reference token, in
// reference order.
//
// The alignment is a greedy single forward pass, O(n+m): two pointers advance
// monotonically over the reference and the transcription, and neither ever
// backtracks. For each reference word the aligner tries, in order:
//
//  1. Exact match on the normalized forms.
//  2. Fuzzy match within the configured edit-distance threshold.
//  3. One-step lookahead: when the next spoken word matches instead, the
//     current spoken word is treated as an insertion and consumed silently.
//  4. Repetition of the previous reference word.
//  5. Moderate divergence (edit distance up to half the word length),
//     classified as a mispronunciation.
//  6. Otherwise the reference word is marked skipped and the spoken word is
//     left for the next reference word to claim.
//
// Greedy tie-breaking follows exactly this order; the aligner deliberately
// trades global optimality for linear time on short passages.
func (a *Analyzer) Align(expected []string, words []asr.Word) []MatchRecord {
	matches := make([]MatchRecord, 0, len(expected))

	// Normalize every spoken word once up front.
	spoken := make([]string, len(words))
	for j, w := range words {
		spoken[j] = Normalize(w.Text)
	}

	j := 0
	for i := 0; i < len(expected); {
		// Transcript exhausted: everything left was never spoken.
		if j >= len(words) {
			matches = append(matches, skippedRecord(i, expected[i]))
			i++
			continue
		}

		// Exact or fuzzy match.
		if a.isMatch(expected[i], spoken[j]) {
			matches = append(matches, a.spokenRecord(i, expected[i], StatusCorrect, words[j], spoken[j], j))
			i++
			j++
			continue
		}

		// Lookahead: the current spoken word is an insertion (a filler, a
		// false start) if the one after it matches the reference word.
		if j+1 < len(words) && a.isMatch(expected[i], spoken[j+1]) {
			j++
			continue
		}

		// The reader re-said the previous reference word.
		if i > 0 && spoken[j] == expected[i-1] {
			matches = append(matches, a.spokenRecord(i, expected[i], StatusRepeated, words[j], spoken[j], j))
			i++
			j++
			continue
		}

		// Close enough to be an attempt at the word, too far to be correct.
		// The bound counts runes, not bytes, so accented words are not given
		// extra slack.
		if d := EditDistance(expected[i], spoken[j]); d > a.fuzzyThreshold && float64(d) <= float64(utf8.RuneCountInString(expected[i]))/2 {
			matches = append(matches, a.spokenRecord(i, expected[i], StatusMispronounced, words[j], spoken[j], j))
			i++
			j++
			continue
		}

		// No relation: the reference word was skipped. The spoken word stays
		// put and is re-evaluated against the next reference word.
		matches = append(matches, skippedRecord(i, expected[i]))
		i++
	}

	return matches
}

// isMatch reports whether a normalized spoken word counts as a correct
// rendition of the reference word.
func (a *Analyzer) isMatch(expected, spoken string) bool {
	if expected == spoken {
		return true
	}
	return EditDistance(expected, spoken) <= a.fuzzyThreshold
}

func (a *Analyzer) spokenRecord(i int, expected string, status MatchStatus, w asr.Word, spoken string, j int) MatchRecord {
	return MatchRecord{
		ExpectedIndex: i,
		ExpectedWord:  expected,
		SpokenWord:    spoken,
		SpokenIndex:   j,
		Timestamp:     w.Start,
		Status:        status,
		Confidence:    w.Confidence,
	}
}

func skippedRecord(i int, expected string) MatchRecord {
	return MatchRecord{
		ExpectedIndex: i,
		ExpectedWord:  expected,
		SpokenIndex:   -1,
		Status:        StatusSkipped,
		Confidence:    0,
	}
}
