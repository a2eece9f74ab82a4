package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/readcoach-ai/readcoach/internal/analysis"
	"github.com/readcoach-ai/readcoach/internal/feedback"
	"github.com/readcoach-ai/readcoach/pkg/asr"
)

// analyzeRequest is the wire form of one analysis call. All durations cross
// the wire as integer milliseconds except word timings, which mirror the ASR
// output in seconds.
type analyzeRequest struct {
	// ReferenceText is the passage the reader was asked to read.
	ReferenceText string `json:"reference_text" binding:"required"`

	// Transcription is the ASR output for the recording.
	Transcription transcriptionDTO `json:"transcription" binding:"required"`

	// AudioDurationMs is the total recording length as measured by the
	// caller. It is validated independently of the transcription's own
	// duration because the two come from different collaborators.
	AudioDurationMs int64 `json:"audio_duration_ms"`
}

type transcriptionDTO struct {
	Text            string    `json:"text"`
	Words           []wordDTO `json:"words"`
	Language        string    `json:"language"`
	DurationSeconds float64   `json:"duration_seconds"`
}

type wordDTO struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
}

// analyzeResponse is the wire form of an [analysis.Result].
type analyzeResponse struct {
	ID                string           `json:"id"`
	ArticulationScore int              `json:"articulation_score"`
	FluencyScore      int              `json:"fluency_score"`
	OverallScore      int              `json:"overall_score"`
	Accuracy          int              `json:"accuracy"`
	WordsExpected     int              `json:"words_expected"`
	WordsSpoken       int              `json:"words_spoken"`
	Matches           []matchDTO       `json:"matches"`
	Hesitations       []hesitationDTO  `json:"hesitations"`
	ProblemWords      []problemWordDTO `json:"problem_words"`
	Feedback          feedbackDTO      `json:"feedback"`
}

type matchDTO struct {
	ExpectedIndex int     `json:"expected_index"`
	ExpectedWord  string  `json:"expected_word"`
	SpokenWord    string  `json:"spoken_word,omitempty"`
	SpokenIndex   int     `json:"spoken_index"`
	TimestampMs   int64   `json:"timestamp_ms"`
	Status        string  `json:"status"`
	Confidence    float64 `json:"confidence"`
}

type hesitationDTO struct {
	TimestampMs int64  `json:"timestamp_ms"`
	DurationMs  int64  `json:"duration_ms"`
	Kind        string `json:"kind"`
	Word        string `json:"word,omitempty"`
	Context     string `json:"context,omitempty"`
}

type problemWordDTO struct {
	Word        string `json:"word"`
	Issue       string `json:"issue"`
	TimestampMs int64  `json:"timestamp_ms"`
	Context     string `json:"context,omitempty"`
	Suggestion  string `json:"suggestion,omitempty"`
}

type feedbackDTO struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.AudioDurationMs <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio_duration_ms must be a positive integer"})
		return
	}

	ctx := c.Request.Context()
	s.metrics.InFlight.Add(ctx, 1)
	defer s.metrics.InFlight.Add(ctx, -1)

	start := time.Now()
	res, err := s.analyzer.Analyze(req.ReferenceText, req.transcription(), req.audioDuration())
	if err != nil {
		status, msg := "error", "analysis failed"
		code := http.StatusInternalServerError
		if errors.Is(err, analysis.ErrInvalidInput) || errors.Is(err, analysis.ErrMalformedTranscription) {
			status, msg = "invalid", err.Error()
			code = http.StatusBadRequest
		} else {
			slog.Error("analysis failed", "error", err)
		}
		s.metrics.RecordAnalysis(ctx, time.Since(start), status, 0, 0)
		c.JSON(code, gin.H{"error": msg})
		return
	}
	s.metrics.RecordAnalysis(ctx, time.Since(start), "ok", res.OverallScore, len(res.ProblemWords))

	c.JSON(http.StatusOK, toResponse(res, feedback.Build(res)))
}

func (r *analyzeRequest) transcription() asr.Transcription {
	t := asr.Transcription{
		Text:     r.Transcription.Text,
		Language: r.Transcription.Language,
		Duration: asr.DurationFromSeconds(r.Transcription.DurationSeconds),
	}
	for _, w := range r.Transcription.Words {
		t.Words = append(t.Words, asr.Word{
			Text:       w.Word,
			Start:      asr.DurationFromSeconds(w.Start),
			End:        asr.DurationFromSeconds(w.End),
			Confidence: w.Confidence,
		})
	}
	return t
}

func (r *analyzeRequest) audioDuration() time.Duration {
	return time.Duration(r.AudioDurationMs) * time.Millisecond
}

func toResponse(res *analysis.Result, msg feedback.Messages) analyzeResponse {
	out := analyzeResponse{
		ID:                uuid.NewString(),
		ArticulationScore: res.ArticulationScore,
		FluencyScore:      res.FluencyScore,
		OverallScore:      res.OverallScore,
		Accuracy:          res.Accuracy,
		WordsExpected:     res.WordsExpected,
		WordsSpoken:       res.WordsSpoken,
		Matches:           make([]matchDTO, 0, len(res.Matches)),
		Hesitations:       make([]hesitationDTO, 0, len(res.Hesitations)),
		ProblemWords:      make([]problemWordDTO, 0, len(res.ProblemWords)),
		Feedback:          feedbackDTO{Summary: msg.Summary, Tips: msg.Tips},
	}
	if out.Feedback.Tips == nil {
		out.Feedback.Tips = []string{}
	}

	for _, m := range res.Matches {
		out.Matches = append(out.Matches, matchDTO{
			ExpectedIndex: m.ExpectedIndex,
			ExpectedWord:  m.ExpectedWord,
			SpokenWord:    m.SpokenWord,
			SpokenIndex:   m.SpokenIndex,
			TimestampMs:   m.Timestamp.Milliseconds(),
			Status:        string(m.Status),
			Confidence:    m.Confidence,
		})
	}
	for _, h := range res.Hesitations {
		out.Hesitations = append(out.Hesitations, hesitationDTO{
			TimestampMs: h.Timestamp.Milliseconds(),
			DurationMs:  h.Duration.Milliseconds(),
			Kind:        string(h.Kind),
			Word:        h.Word,
			Context:     h.Context,
		})
	}
	for _, p := range res.ProblemWords {
		out.ProblemWords = append(out.ProblemWords, problemWordDTO{
			Word:        p.Word,
			Issue:       string(p.Issue),
			TimestampMs: p.TimestampMs,
			Context:     p.Context,
			Suggestion:  p.Suggestion,
		})
	}
	return out
}
