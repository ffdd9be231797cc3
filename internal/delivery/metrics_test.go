package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-coach/internal/types"
)

func timingsFor(words ...string) []types.WordTiming {
	timings := make([]types.WordTiming, len(words))
	for i, word := range words {
		start := int64(i) * 400
		timings[i] = types.WordTiming{Word: word, StartMS: start, EndMS: start + 300}
	}
	return timings
}

func TestPaceWPM(t *testing.T) {
	tests := []struct {
		name       string
		words      int
		durationMS int64
		expected   float64
	}{
		{name: "150 words in one minute", words: 150, durationMS: 60_000, expected: 150},
		{name: "75 words in 30 seconds", words: 75, durationMS: 30_000, expected: 150},
		{name: "40 words in 20 seconds", words: 40, durationMS: 20_000, expected: 120},
		{name: "no words", words: 0, durationMS: 60_000, expected: 0},
		{name: "zero duration", words: 50, durationMS: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words := make([]string, tt.words)
			for i := range words {
				words[i] = "word"
			}
			assert.InDelta(t, tt.expected, PaceWPM(timingsFor(words...), tt.durationMS), 0.001)
		})
	}
}

func TestFillerRate(t *testing.T) {
	tests := []struct {
		name     string
		words    []string
		expected float64
	}{
		{
			name:     "no fillers",
			words:    []string{"the", "situation", "was", "an", "outage"},
			expected: 0,
		},
		{
			name:     "one um in ten words",
			words:    []string{"um", "the", "situation", "was", "an", "outage", "at", "two", "in", "morning"},
			expected: 10,
		},
		{
			name:     "punctuation and case ignored",
			words:    []string{"Um,", "the", "plan", "worked"},
			expected: 25,
		},
		{
			name:     "you know counts once",
			words:    []string{"you", "know", "the", "plan"},
			expected: 25,
		},
		{
			name:     "you alone is not a filler",
			words:    []string{"you", "lead", "the", "plan"},
			expected: 0,
		},
		{
			name:     "empty input",
			words:    nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, FillerRate(timingsFor(tt.words...)), 0.001)
		})
	}
}

func TestPauseRatio(t *testing.T) {
	pauses := []types.Pause{
		{StartMS: 1000, EndMS: 2000},
		{StartMS: 5000, EndMS: 5500},
	}
	assert.InDelta(t, 0.15, PauseRatio(pauses, 10_000), 0.001)
	assert.Equal(t, 0.0, PauseRatio(nil, 10_000))
	assert.Equal(t, 0.0, PauseRatio(pauses, 0))
	assert.Equal(t, 1.0, PauseRatio([]types.Pause{{StartMS: 0, EndMS: 20_000}}, 10_000), "ratio is capped")
}
