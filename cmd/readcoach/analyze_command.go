package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/readcoach-ai/readcoach/internal/analysis"
	"github.com/readcoach-ai/readcoach/internal/feedback"
	"github.com/readcoach-ai/readcoach/pkg/asr"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		referencePath  string
		transcriptPath string
		durationSecs   float64
		fuzzyThreshold int
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one recording against its reference text",
		Long: `Analyze aligns a Whisper verbose_json transcription against the reference
text the reader was given and prints scores, hesitations, and a practice list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, err := os.ReadFile(referencePath)
			if err != nil {
				return fmt.Errorf("read reference text: %w", err)
			}

			f, err := os.Open(transcriptPath)
			if err != nil {
				return fmt.Errorf("open transcript: %w", err)
			}
			defer f.Close()

			transcription, err := asr.ParseVerboseJSON(f)
			if err != nil {
				return fmt.Errorf("parse transcript: %w", err)
			}

			audioDuration := transcription.Duration
			if durationSecs > 0 {
				audioDuration = asr.DurationFromSeconds(durationSecs)
			}

			analyzer := analysis.New(analysis.WithFuzzyThreshold(fuzzyThreshold))
			res, err := analyzer.Analyze(string(reference), *transcription, audioDuration)
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}
			msg := feedback.Build(res)

			if jsonOutput {
				return writeResultJSON(cmd, res, msg)
			}
			writeResultTables(cmd, res, msg)
			return nil
		},
	}

	cmd.Flags().StringVarP(&referencePath, "reference", "r", "", "Path to the reference text file")
	cmd.Flags().StringVarP(&transcriptPath, "transcript", "t", "", "Path to the Whisper verbose_json transcript")
	cmd.Flags().Float64Var(&durationSecs, "duration", 0, "Recording length in seconds (defaults to the transcript duration)")
	cmd.Flags().IntVar(&fuzzyThreshold, "fuzzy-threshold", analysis.DefaultFuzzyThreshold, "Maximum edit distance still counted as correct")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the full result as JSON")
	_ = cmd.MarkFlagRequired("reference")
	_ = cmd.MarkFlagRequired("transcript")

	return cmd
}

// resultJSON is the CLI's JSON output shape. Durations are integer
// milliseconds, matching the HTTP API.
type resultJSON struct {
	ArticulationScore int              `json:"articulation_score"`
	FluencyScore      int              `json:"fluency_score"`
	OverallScore      int              `json:"overall_score"`
	Accuracy          int              `json:"accuracy"`
	WordsExpected     int              `json:"words_expected"`
	WordsSpoken       int              `json:"words_spoken"`
	Hesitations       []hesitationJSON `json:"hesitations"`
	ProblemWords      []problemJSON    `json:"problem_words"`
	Summary           string           `json:"summary"`
	Tips              []string         `json:"tips"`
}

type hesitationJSON struct {
	TimestampMs int64  `json:"timestamp_ms"`
	DurationMs  int64  `json:"duration_ms"`
	Kind        string `json:"kind"`
	Word        string `json:"word,omitempty"`
	Context     string `json:"context,omitempty"`
}

type problemJSON struct {
	Word        string `json:"word"`
	Issue       string `json:"issue"`
	TimestampMs int64  `json:"timestamp_ms"`
	Context     string `json:"context,omitempty"`
	Suggestion  string `json:"suggestion,omitempty"`
}

func writeResultJSON(cmd *cobra.Command, res *analysis.Result, msg feedback.Messages) error {
	out := resultJSON{
		ArticulationScore: res.ArticulationScore,
		FluencyScore:      res.FluencyScore,
		OverallScore:      res.OverallScore,
		Accuracy:          res.Accuracy,
		WordsExpected:     res.WordsExpected,
		WordsSpoken:       res.WordsSpoken,
		Hesitations:       []hesitationJSON{},
		ProblemWords:      []problemJSON{},
		Summary:           msg.Summary,
		Tips:              msg.Tips,
	}
	if out.Tips == nil {
		out.Tips = []string{}
	}
	for _, h := range res.Hesitations {
		out.Hesitations = append(out.Hesitations, hesitationJSON{
			TimestampMs: h.Timestamp.Milliseconds(),
			DurationMs:  h.Duration.Milliseconds(),
			Kind:        string(h.Kind),
			Word:        h.Word,
			Context:     h.Context,
		})
	}
	for _, p := range res.ProblemWords {
		out.ProblemWords = append(out.ProblemWords, problemJSON{
			Word:        p.Word,
			Issue:       string(p.Issue),
			TimestampMs: p.TimestampMs,
			Context:     p.Context,
			Suggestion:  p.Suggestion,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeResultTables(cmd *cobra.Command, res *analysis.Result, msg feedback.Messages) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, renderTable(
		[]string{"Score", "Value"},
		[][]string{
			{"Overall", strconv.Itoa(res.OverallScore)},
			{"Articulation", strconv.Itoa(res.ArticulationScore)},
			{"Fluency", strconv.Itoa(res.FluencyScore)},
			{"Accuracy", strconv.Itoa(res.Accuracy)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))
	fmt.Fprintf(out, "Words: %d expected, %d spoken, %d hesitation(s)\n\n",
		res.WordsExpected, res.WordsSpoken, len(res.Hesitations))

	if len(res.ProblemWords) > 0 {
		rows := make([][]string, 0, len(res.ProblemWords))
		for _, p := range res.ProblemWords {
			rows = append(rows, []string{
				p.Word,
				string(p.Issue),
				formatTimestamp(p.TimestampMs),
				p.Context,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Word", "Issue", "At", "Context"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		))
	}

	fmt.Fprintln(out, msg.Summary)
	for _, tip := range msg.Tips {
		fmt.Fprintln(out, "  - "+tip)
	}
}

// formatTimestamp renders a millisecond offset as m:ss.mmm, or "-" when no
// timing is available.
func formatTimestamp(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	d := time.Duration(ms) * time.Millisecond
	mins := int(d.Minutes())
	rest := d - time.Duration(mins)*time.Minute
	return fmt.Sprintf("%d:%06.3f", mins, rest.Seconds())
}
