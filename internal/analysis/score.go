package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/readcoach-ai/readcoach/pkg/asr"
)

// scores bundles the four integer outputs of the scoring stage.
type scores struct {
	articulation int
	fluency      int
	overall      int
	accuracy     int
}

// score turns match records, hesitation events, and word timings into the
// final normalized scores. Every sub-term is clamped to [0, 100] before
// weighting, and the weighted sums are rounded to integers.
func (a *Analyzer) score(matches []MatchRecord, hesitations []HesitationEvent, words []asr.Word) scores {
	articulation := a.articulationScore(matches)
	fluency := a.fluencyScore(hesitations, words)
	return scores{
		articulation: articulation,
		fluency:      fluency,
		overall:      int(math.Round(0.6*float64(articulation) + 0.4*float64(fluency))),
		accuracy:     accuracy(matches),
	}
}

// articulationScore weighs correctness (40%), completion (30%), and ASR
// confidence of the words that were actually spoken (30%).
//
// Completion counts every match that was at least attempted: anything not
// skipped and not mispronounced. When no match carries a spoken word at all,
// confidence falls back to the configured default rather than dragging the
// score to zero.
func (a *Analyzer) articulationScore(matches []MatchRecord) int {
	total := len(matches)
	if total == 0 {
		return 0
	}

	var correct, completed int
	var confSum float64
	var confN int
	for _, m := range matches {
		if m.Status == StatusCorrect {
			correct++
		}
		if m.Status != StatusSkipped && m.Status != StatusMispronounced {
			completed++
		}
		if m.SpokenIndex >= 0 {
			confSum += m.Confidence
			confN++
		}
	}

	avgConf := a.defaultConfidence
	if confN > 0 {
		avgConf = confSum / float64(confN)
	}

	score := 0.4*clamp(float64(correct)/float64(total)*100) +
		0.3*clamp(float64(completed)/float64(total)*100) +
		0.3*clamp(avgConf*100)
	return int(math.Round(clamp(score)))
}

// fluencyScore weighs pacing consistency (40%), long pauses (30%), and
// overall hesitation density (30%).
func (a *Analyzer) fluencyScore(hesitations []HesitationEvent, words []asr.Word) int {
	wordCount := len(words)
	if wordCount == 0 {
		return 0
	}

	var longPauses int
	for _, h := range hesitations {
		if h.Kind == KindLongPause {
			longPauses++
		}
	}

	consistency := consistencyScore(words)
	pause := clamp(100 - float64(longPauses)/math.Max(1, float64(wordCount)/10)*100)
	hesitation := clamp(100 - float64(len(hesitations))/float64(wordCount)*500)

	score := 0.4*consistency + 0.3*pause + 0.3*hesitation
	return int(math.Round(clamp(score)))
}

// consistencyScore penalises erratic word durations: the coefficient of
// variation of per-word duration, scaled by 50 and subtracted from 100.
// Fewer than two words, or degenerate zero-length words, count as perfectly
// consistent — there is nothing to vary.
func consistencyScore(words []asr.Word) float64 {
	if len(words) < 2 {
		return 100
	}
	durations := make([]float64, len(words))
	for i, w := range words {
		durations[i] = (w.End - w.Start).Seconds()
	}
	mean := stat.Mean(durations, nil)
	if mean <= 0 {
		return 100
	}
	sd := stat.StdDev(durations, nil)
	return clamp(100 - sd/mean*50)
}

// accuracy is the share of reference words read correctly, as a rounded
// percentage.
func accuracy(matches []MatchRecord) int {
	if len(matches) == 0 {
		return 0
	}
	var correct int
	for _, m := range matches {
		if m.Status == StatusCorrect {
			correct++
		}
	}
	return int(math.Round(float64(correct) / float64(len(matches)) * 100))
}

// clamp restricts v to [0, 100].
func clamp(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
