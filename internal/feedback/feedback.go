// Package feedback turns an [analysis.Result] into short, user-facing
// practice messages. It is a stateless lookup table over the result's
// aggregate classifications — it never re-examines the transcript and shares
// no state with the engine, so any ordering of calls is safe.
package feedback

import (
	"fmt"

	"github.com/readcoach-ai/readcoach/internal/analysis"
)

// Messages is the rendered feedback for one analysis.
type Messages struct {
	// Summary is a one-line assessment based on the overall score band.
	Summary string

	// Tips lists at most one practice tip per issue type found, in a fixed
	// order, plus a pacing tip when long pauses were detected.
	Tips []string
}

// scoreBands maps the lower bound of each overall-score band to its summary.
// Bands are checked from highest to lowest.
var scoreBands = []struct {
	min     int
	summary string
}{
	{90, "Excellent reading! Your words were clear and your pace was steady."},
	{75, "Good job! A little more practice and this passage will be smooth."},
	{60, "Solid effort. Focus on the practice words below and try again."},
	{40, "Keep going — read the passage once more, a bit slower this time."},
	{0, "This passage is tricky. Try reading it sentence by sentence."},
}

// issueTips maps each issue type to its tip template. The %d is the count of
// distinct words with that issue.
var issueTips = map[analysis.IssueType]string{
	analysis.IssueSkipped:       "You skipped %d word(s). Follow the text with your finger to keep your place.",
	analysis.IssueMispronounced: "%d word(s) came out differently than written. Sound them out before re-reading.",
	analysis.IssueRepeated:      "You repeated %d word(s). Trust your first read and keep moving forward.",
	analysis.IssueHesitated:     "Filler words crept in %d time(s). A silent pause sounds better than \"um\".",
}

// tipOrder fixes the order tips appear in, so feedback is stable for the
// same result.
var tipOrder = []analysis.IssueType{
	analysis.IssueMispronounced,
	analysis.IssueSkipped,
	analysis.IssueRepeated,
	analysis.IssueHesitated,
}

// Build renders the feedback messages for res.
func Build(res *analysis.Result) Messages {
	msg := Messages{Summary: summaryFor(res.OverallScore)}

	counts := make(map[analysis.IssueType]int)
	for _, p := range res.ProblemWords {
		counts[p.Issue]++
	}
	for _, issue := range tipOrder {
		if n := counts[issue]; n > 0 {
			msg.Tips = append(msg.Tips, fmt.Sprintf(issueTips[issue], n))
		}
	}

	var longPauses int
	for _, h := range res.Hesitations {
		if h.Kind == analysis.KindLongPause {
			longPauses++
		}
	}
	if longPauses > 0 {
		msg.Tips = append(msg.Tips, fmt.Sprintf(
			"There were %d long pause(s). Take a breath at punctuation, not mid-sentence.", longPauses))
	}

	return msg
}

func summaryFor(overall int) string {
	for _, band := range scoreBands {
		if overall >= band.min {
			return band.summary
		}
	}
	return scoreBands[len(scoreBands)-1].summary
}
