// Package jobs turns raw job postings into the structured role profile the
// question generator and analyzers coach against.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/types"
)

// JobInfo is the structured profile extracted from one posting.
type JobInfo struct {
	Title           string                `json:"title"`
	Industry        types.Industry        `json:"industry"`
	Skills          []string              `json:"skills"`
	Technologies    []string              `json:"technologies"`
	ExperienceLevel string                `json:"experience_level"`
	Competencies    []types.CompetencyTag `json:"competencies"`
}

// UnknownIndustryError marks a posting that matched none of the supported
// industries. Such postings are rejected rather than coached with a
// guessed default style.
type UnknownIndustryError struct {
	Title string
}

func (e *UnknownIndustryError) Error() string {
	return fmt.Sprintf("posting %q matches no supported industry", e.Title)
}

// Analyzer extracts a JobInfo from posting text. Keyword heuristics decide
// the industry and backstop the competency list; the model fills in skills
// and the experience level.
type Analyzer struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewAnalyzer creates a job posting analyzer.
func NewAnalyzer(client llm.Client, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{client: client, tier: llm.TierLite, logger: logger}
}

type parsedPosting struct {
	Title           string   `json:"title"`
	Skills          []string `json:"skills"`
	Technologies    []string `json:"technologies"`
	ExperienceLevel string   `json:"experience_level"`
	Competencies    []string `json:"competencies"`
}

// Analyze parses one posting. The industry always comes from the keyword
// tables; a model failure degrades to the heuristic-only profile rather
// than failing the call.
func (a *Analyzer) Analyze(ctx context.Context, posting string) (*JobInfo, error) {
	if strings.TrimSpace(posting) == "" {
		return nil, fmt.Errorf("job posting text is empty")
	}

	parsed := a.parseWithModel(ctx, posting)

	industry, err := DetectIndustry(parsed.Title, posting)
	if err != nil {
		return nil, err
	}

	info := &JobInfo{
		Title:           parsed.Title,
		Industry:        industry,
		Skills:          parsed.Skills,
		Technologies:    parsed.Technologies,
		ExperienceLevel: parsed.ExperienceLevel,
		Competencies:    validCompetencies(parsed.Competencies),
	}

	if len(info.Technologies) == 0 {
		info.Technologies = detectTechnologies(posting)
	}
	if info.ExperienceLevel == "" {
		info.ExperienceLevel = detectExperience(posting)
	}
	if len(info.Competencies) == 0 {
		info.Competencies = detectCompetencies(posting)
	}
	if len(info.Competencies) == 0 {
		// Every role is coached on at least the problem-solving core.
		info.Competencies = []types.CompetencyTag{
			types.CompetencyProblemSolving,
			types.CompetencyTechnicalExpertise,
			types.CompetencyAnalyticalThinking,
		}
	}

	return info, nil
}

// parseWithModel asks the model for a structured parse. Any failure logs a
// warning and returns an empty parse for the heuristics to fill.
func (a *Analyzer) parseWithModel(ctx context.Context, posting string) parsedPosting {
	var parsed parsedPosting

	template, err := prompts.Get("jobs.json", "parse-job-info")
	if err != nil {
		a.logger.Warn("job parsing prompt unavailable, falling back to heuristics", zap.Error(err))
		return parsed
	}
	prompt := prompts.Format(template, map[string]string{"JobText": posting})

	raw, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		a.logger.Warn("model parse of job posting failed, falling back to heuristics", zap.Error(err))
		return parsed
	}

	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &parsed); err != nil {
		a.logger.Warn("model returned malformed job parse, falling back to heuristics", zap.Error(err))
		return parsedPosting{}
	}
	return parsed
}

// validCompetencies keeps only recognized, deduplicated competency tags,
// capped at the configured maximum.
func validCompetencies(raw []string) []types.CompetencyTag {
	seen := make(map[types.CompetencyTag]bool, len(raw))
	var tags []types.CompetencyTag
	for _, value := range raw {
		tag := types.CompetencyTag(strings.ToLower(strings.TrimSpace(value)))
		if !tag.IsValid() || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == maxCompetencies {
			break
		}
	}
	return tags
}
