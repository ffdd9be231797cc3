// Package transcript provides the transcript extraction boundary: raw answer
// audio in, industry-aware text plus acoustic timing features out.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/schemas"
	"github.com/jonathan/interview-coach/internal/types"
)

// Result is the output of transcript extraction for one recording.
type Result struct {
	Text        string             `json:"transcript"`
	DurationMS  int64              `json:"duration_ms"`
	WordTimings []types.WordTiming `json:"word_timings"`
	Pauses      []types.Pause      `json:"pauses"`
}

// Extractor turns raw audio into transcript text and timing features.
type Extractor interface {
	Extract(ctx context.Context, audio []byte, mimeType string, industry types.Industry) (*Result, error)
}

// ExtractionError reports a failed or rejected extraction.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transcript extraction failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("transcript extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// GeminiExtractor implements Extractor with a multimodal model call.
type GeminiExtractor struct {
	client llm.Client
}

// NewGeminiExtractor creates an extractor backed by the given LLM client.
func NewGeminiExtractor(client llm.Client) *GeminiExtractor {
	return &GeminiExtractor{client: client}
}

// Extract transcribes the audio and returns word/pause timing metadata.
func (e *GeminiExtractor) Extract(ctx context.Context, audio []byte, mimeType string, industry types.Industry) (*Result, error) {
	if len(audio) < minAudioBytes {
		return nil, &ExtractionError{Message: fmt.Sprintf("audio too small: %d bytes", len(audio))}
	}

	template := prompts.MustGet("analysis.json", "transcribe-audio")
	prompt := prompts.Format(template, map[string]string{
		"Industry": string(industry),
	})

	payload, err := e.client.GenerateJSONWithAudio(ctx, prompt, audio, mimeType, llm.TierStandard)
	if err != nil {
		return nil, &ExtractionError{Message: "model call failed", Cause: err}
	}

	if err := schemas.Validate(schemas.Transcript, []byte(payload)); err != nil {
		return nil, &ExtractionError{Message: "malformed transcription payload", Cause: err}
	}

	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, &ExtractionError{Message: "failed to decode transcription payload", Cause: err}
	}

	if err := CheckQuality(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

const (
	minAudioBytes  = 1000
	minWords       = 3
	minDurationMS  = 1000
	maxTimingDrift = 0.5 // timings may cover no less than half the words
)

// CheckQuality rejects transcriptions too thin to score meaningfully.
func CheckQuality(result *Result) error {
	wordCount := len(strings.Fields(result.Text))
	if wordCount < minWords {
		return &ExtractionError{Message: fmt.Sprintf("transcript has %d words, need at least %d", wordCount, minWords)}
	}
	if result.DurationMS < minDurationMS {
		return &ExtractionError{Message: fmt.Sprintf("recording is %dms, too short to analyze", result.DurationMS)}
	}
	if float64(len(result.WordTimings)) < float64(wordCount)*maxTimingDrift {
		return &ExtractionError{
			Message: fmt.Sprintf("word timings cover %d of %d words", len(result.WordTimings), wordCount),
		}
	}
	for _, timing := range result.WordTimings {
		if timing.EndMS < timing.StartMS {
			return &ExtractionError{Message: fmt.Sprintf("word %q ends before it starts", timing.Word)}
		}
		if timing.EndMS > result.DurationMS {
			return &ExtractionError{Message: fmt.Sprintf("word %q timed past the end of the recording", timing.Word)}
		}
	}
	return nil
}

// Features converts an extraction result into answer audio metadata.
func (r *Result) Features(ref string) *types.AudioFeatures {
	return &types.AudioFeatures{
		Ref:         ref,
		WordTimings: r.WordTimings,
		Pauses:      r.Pauses,
	}
}
