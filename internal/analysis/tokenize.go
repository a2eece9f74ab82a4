package analysis

import (
	"strings"
	"unicode/utf8"
)

// punctuation is the fixed set of characters stripped during normalization.
// Apostrophes are stripped too, so "don't" normalizes to "dont" on both the
// reference and the spoken side.
const punctuation = ".,!?;:\"'`()[]{}<>«»—–-…/\\"

// Normalize lowercases s, strips punctuation, and trims whitespace.
// Normalizing an all-punctuation token yields the empty string.
func Normalize(s string) string {
	lower := strings.ToLower(s)
	stripped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, lower)
	return strings.TrimSpace(stripped)
}

// Tokenize splits text on whitespace and normalizes each token, dropping
// tokens that normalize to nothing. Empty input yields an empty sequence.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := Normalize(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// sentenceIndex maps reference token positions back to the original sentence
// they came from, so problem words can be reported with readable context.
type sentenceIndex struct {
	sentences []string
	// tokenSentence[i] is the index into sentences for reference token i.
	tokenSentence []int
}

// indexSentences splits text into sentences on terminal punctuation and
// records which sentence each reference token belongs to. It walks the same
// whitespace fields [Tokenize] does, so the token order matches exactly: a
// terminator inside a field (as in "3.5") never splits it, and a sentence
// ends only at a field whose trailing punctuation carries a terminator.
func indexSentences(text string) sentenceIndex {
	var idx sentenceIndex
	var fields []string
	var tokens int

	flush := func() {
		if len(fields) == 0 {
			return
		}
		n := len(idx.sentences)
		idx.sentences = append(idx.sentences, strings.Join(fields, " "))
		for i := 0; i < tokens; i++ {
			idx.tokenSentence = append(idx.tokenSentence, n)
		}
		fields, tokens = nil, 0
	}

	for _, f := range strings.Fields(text) {
		fields = append(fields, f)
		if Normalize(f) != "" {
			tokens++
		}
		if endsSentence(f) {
			flush()
		}
	}
	flush()
	return idx
}

// endsSentence reports whether a field closes a sentence: one of '.', '!',
// '?' appears in its trailing punctuation run. "3.5" and "U.S.A" do not end
// one; "pages." and `escaped!"` do.
func endsSentence(field string) bool {
	for i := len(field); i > 0; {
		r, size := utf8.DecodeLastRuneInString(field[:i])
		if !strings.ContainsRune(punctuation, r) {
			return false
		}
		if r == '.' || r == '!' || r == '?' {
			return true
		}
		i -= size
	}
	return false
}

// sentenceFor returns the sentence containing reference token i, or the empty
// string when i is out of range.
func (s sentenceIndex) sentenceFor(i int) string {
	if i < 0 || i >= len(s.tokenSentence) {
		return ""
	}
	return s.sentences[s.tokenSentence[i]]
}
