package analysis

import "fmt"

// issueForKind maps hesitation kinds to practice-list issue types. Long
// pauses are not tied to a word and never produce a problem entry.
var issueForKind = map[HesitationKind]IssueType{
	KindRepeatedWord: IssueRepeated,
	KindFillerWord:   IssueHesitated,
}

// issueForStatus maps non-correct match statuses to issue types.
var issueForStatus = map[MatchStatus]IssueType{
	StatusSkipped:       IssueSkipped,
	StatusRepeated:      IssueRepeated,
	StatusMispronounced: IssueMispronounced,
}

// extractProblemWords derives the deduplicated practice list from the
// aligner's divergences and the hesitation events. Match-derived entries come
// first, then hesitation-derived ones; within that order the first occurrence
// of each (word, issue) pair wins.
func (a *Analyzer) extractProblemWords(matches []MatchRecord, hesitations []HesitationEvent, sentences sentenceIndex) []ProblemWord {
	type key struct {
		word  string
		issue IssueType
	}
	seen := make(map[key]struct{})
	problems := []ProblemWord{}

	add := func(p ProblemWord) {
		k := key{word: p.Word, issue: p.Issue}
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		problems = append(problems, p)
	}

	for _, m := range matches {
		issue, ok := issueForStatus[m.Status]
		if !ok {
			continue
		}
		add(ProblemWord{
			Word:        m.ExpectedWord,
			Issue:       issue,
			TimestampMs: m.Timestamp.Milliseconds(),
			Context:     sentences.sentenceFor(m.ExpectedIndex),
			Suggestion:  suggestionFor(issue, m.ExpectedWord),
		})
	}

	for _, h := range hesitations {
		issue, ok := issueForKind[h.Kind]
		if !ok || h.Word == "" {
			continue
		}
		add(ProblemWord{
			Word:        h.Word,
			Issue:       issue,
			TimestampMs: h.Timestamp.Milliseconds(),
			Context:     h.Context,
			Suggestion:  suggestionFor(issue, h.Word),
		})
	}

	return problems
}

// suggestionFor returns the practice tip template for an issue, filled in
// with the word.
func suggestionFor(issue IssueType, word string) string {
	switch issue {
	case IssueSkipped:
		return fmt.Sprintf("Slow down and make sure to read %q — it was skipped.", word)
	case IssueMispronounced:
		return fmt.Sprintf("Practice saying %q slowly, one syllable at a time.", word)
	case IssueRepeated:
		return fmt.Sprintf("Take a breath and move past %q instead of re-reading it.", word)
	case IssueHesitated:
		return fmt.Sprintf("Try a silent pause instead of saying %q.", word)
	default:
		return fmt.Sprintf("Practice the word %q.", word)
	}
}
