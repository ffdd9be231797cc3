// Package delivery scores how an interview answer was spoken: pace, filler
// words, clarity, confidence and tone, independent of content correctness.
package delivery

import (
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

// fillerWords are the single-token hesitation markers counted against
// delivery, matching the speech coaching rubric.
var fillerWords = map[string]bool{
	"um":        true,
	"uh":        true,
	"er":        true,
	"ah":        true,
	"hmm":       true,
	"like":      true,
	"basically": true,
	"actually":  true,
}

// PaceWPM computes speaking pace in words per minute from audio timing
// metadata. The word count comes from the timed words, not the transcript,
// so a missing or partial recording cannot inflate the pace.
func PaceWPM(timings []types.WordTiming, durationMS int64) float64 {
	if len(timings) == 0 || durationMS <= 0 {
		return 0
	}
	return float64(len(timings)) / (float64(durationMS) / 60_000.0)
}

// FillerRate computes filler words per 100 spoken words from the timed word
// stream. The two-token marker "you know" counts as one filler.
func FillerRate(timings []types.WordTiming) float64 {
	if len(timings) == 0 {
		return 0
	}

	fillers := 0
	for i, timing := range timings {
		word := normalizeWord(timing.Word)
		if fillerWords[word] {
			fillers++
			continue
		}
		if word == "you" && i+1 < len(timings) && normalizeWord(timings[i+1].Word) == "know" {
			fillers++
		}
	}
	return float64(fillers) / float64(len(timings)) * 100.0
}

// PauseRatio reports the fraction of the recording spent in silence gaps.
func PauseRatio(pauses []types.Pause, durationMS int64) float64 {
	if durationMS <= 0 {
		return 0
	}
	var silent int64
	for _, pause := range pauses {
		if pause.EndMS > pause.StartMS {
			silent += pause.EndMS - pause.StartMS
		}
	}
	ratio := float64(silent) / float64(durationMS)
	if ratio > 1 {
		return 1
	}
	return ratio
}

func normalizeWord(word string) string {
	return strings.Trim(strings.ToLower(word), ".,!?;:'\"")
}
