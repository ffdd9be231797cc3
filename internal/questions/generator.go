// Package questions generates behavioral practice questions targeted at a
// role profile and one competency at a time.
package questions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/jobs"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// Question is one generated practice question.
type Question struct {
	ID         string              `json:"id"`
	Text       string              `json:"text"`
	Competency types.CompetencyTag `json:"competency"`
	Industry   types.Industry      `json:"industry"`
	STARHint   string              `json:"star_hint"`
}

// Generator produces practice questions from a role profile.
type Generator struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewGenerator creates a question generator.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client, tier: llm.TierStandard}
}

type questionPayload struct {
	Question   string `json:"question"`
	Competency string `json:"competency"`
	STARHint   string `json:"star_hint"`
}

// Generate produces one question assessing the given competency for the
// role. The returned question always carries the requested competency; a
// model that answers for a different one is rejected.
func (g *Generator) Generate(ctx context.Context, job *jobs.JobInfo, competency types.CompetencyTag) (*Question, error) {
	if !competency.IsValid() {
		return nil, fmt.Errorf("unknown competency %q", competency)
	}

	template, err := prompts.Get("questions.json", "generate-question")
	if err != nil {
		return nil, fmt.Errorf("loading question prompt: %w", err)
	}
	prompt := prompts.Format(template, map[string]string{
		"Industry":   string(job.Industry),
		"JobTitle":   job.Title,
		"Skills":     strings.Join(job.Skills, ", "),
		"Competency": string(competency),
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, g.tier)
	if err != nil {
		return nil, fmt.Errorf("generating question: %w", err)
	}

	var payload questionPayload
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parsing generated question: %w", err)
	}
	if strings.TrimSpace(payload.Question) == "" {
		return nil, fmt.Errorf("model returned an empty question")
	}
	if got := types.CompetencyTag(payload.Competency); got != competency {
		return nil, fmt.Errorf("model answered for competency %q, requested %q", got, competency)
	}

	return &Question{
		ID:         uuid.New().String(),
		Text:       strings.TrimSpace(payload.Question),
		Competency: competency,
		Industry:   job.Industry,
		STARHint:   strings.TrimSpace(payload.STARHint),
	}, nil
}

// GenerateSet produces one question per competency in the role profile,
// in the profile's order. The first failure aborts the set.
func (g *Generator) GenerateSet(ctx context.Context, job *jobs.JobInfo) ([]*Question, error) {
	if len(job.Competencies) == 0 {
		return nil, fmt.Errorf("role profile lists no competencies")
	}

	set := make([]*Question, 0, len(job.Competencies))
	for _, competency := range job.Competencies {
		question, err := g.Generate(ctx, job, competency)
		if err != nil {
			return nil, fmt.Errorf("generating question for %s: %w", competency, err)
		}
		set = append(set, question)
	}
	return set, nil
}
