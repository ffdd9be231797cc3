package transcript

import (
	"context"
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

// AudioSource resolves an answer's audio ref into raw bytes plus a MIME
// type.
type AudioSource interface {
	Load(ctx context.Context, ref string) (data []byte, mimeType string, err error)
}

// NeedsExtraction reports whether an answer arrived as a bare recording:
// it carries an audio ref but is missing the transcript or the word
// timings the analyzers need.
func NeedsExtraction(answer *types.Answer) bool {
	if answer == nil || answer.Audio == nil || answer.Audio.Ref == "" {
		return false
	}
	return strings.TrimSpace(answer.Transcript) == "" || len(answer.Audio.WordTimings) == 0
}

// Filler transcribes answers submitted as bare recordings and fills in the
// fields the extraction produced. Fields the caller already supplied are
// kept as-is.
type Filler struct {
	extractor Extractor
	source    AudioSource
}

// NewFiller creates a Filler over the given extractor and audio source.
func NewFiller(extractor Extractor, source AudioSource) *Filler {
	return &Filler{extractor: extractor, source: source}
}

// Fill transcribes the answer's recording when transcript or timing data
// is missing. Answers that arrive fully described are left untouched.
func (f *Filler) Fill(ctx context.Context, answer *types.Answer) error {
	if !NeedsExtraction(answer) {
		return nil
	}

	audio, mimeType, err := f.source.Load(ctx, answer.Audio.Ref)
	if err != nil {
		return &ExtractionError{Message: "cannot load recording " + answer.Audio.Ref, Cause: err}
	}

	result, err := f.extractor.Extract(ctx, audio, mimeType, answer.Industry)
	if err != nil {
		return err
	}

	if strings.TrimSpace(answer.Transcript) == "" {
		answer.Transcript = result.Text
	}
	if len(answer.Audio.WordTimings) == 0 {
		answer.Audio.WordTimings = result.WordTimings
	}
	if len(answer.Audio.Pauses) == 0 {
		answer.Audio.Pauses = result.Pauses
	}
	if answer.DurationMS == 0 {
		answer.DurationMS = result.DurationMS
	}
	return nil
}
