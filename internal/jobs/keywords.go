package jobs

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/interview-coach/internal/types"
)

// industryKeywords scores a posting against each supported industry.
// Title matches weigh three times as much as body matches.
var industryKeywords = map[types.Industry][]string{
	types.IndustryTechnology: {
		"software", "engineer", "developer", "programming", "coding", "tech", "it",
		"data", "machine learning", "ai", "cloud", "devops", "frontend", "backend",
		"full stack", "mobile", "web", "api", "database", "python", "java", "javascript",
	},
	types.IndustryHealthcare: {
		"medical", "healthcare", "hospital", "clinical", "patient", "nurse", "doctor",
		"physician", "therapy", "pharmaceutical", "biotech", "medical device", "health",
		"treatment", "diagnosis", "care", "medicine", "surgery", "emergency",
	},
	types.IndustryFinance: {
		"financial", "banking", "investment", "trading", "finance", "analyst", "portfolio",
		"risk", "compliance", "audit", "accounting", "fintech", "insurance", "credit",
		"wealth", "capital", "markets", "securities", "derivatives", "treasury",
	},
	types.IndustryConsulting: {
		"consulting", "consultant", "advisory", "strategy", "management", "business",
		"analysis", "transformation", "optimization", "process", "client", "engagement",
		"project", "stakeholder", "solution", "recommendation", "implementation",
	},
	types.IndustryMarketing: {
		"marketing", "digital", "campaign", "brand", "advertising", "content", "social media",
		"seo", "sem", "analytics", "conversion", "engagement", "customer", "acquisition",
		"retention", "growth", "creative", "design", "copywriting", "communications",
	},
}

// competencyKeywords maps posting vocabulary onto the core competencies.
var competencyKeywords = map[types.CompetencyTag][]string{
	types.CompetencyProblemSolving:       {"problem", "solve", "troubleshoot", "debug", "resolve", "solution"},
	types.CompetencyTechnicalExpertise:   {"technical", "development", "programming", "coding", "engineering"},
	types.CompetencyProjectManagement:    {"project", "manage", "timeline", "deadline", "coordinate", "plan"},
	types.CompetencyAnalyticalThinking:   {"analyze", "data", "insight", "research", "evaluate", "assess"},
	types.CompetencyAttentionToDetail:    {"detail", "quality", "accuracy", "precision", "thorough", "careful"},
	types.CompetencyWrittenCommunication: {"communication", "document", "write", "report", "present"},
	types.CompetencyLeadership:           {"lead", "manage", "mentor", "guide", "direct", "supervise"},
	types.CompetencyTeamwork:             {"team", "collaborate", "cooperation", "work with others"},
}

// knownTechnologies is matched on word boundaries against the posting text.
var knownTechnologies = []string{
	"Python", "Java", "JavaScript", "React", "Node.js", "AWS", "Docker",
	"Kubernetes", "SQL", "NoSQL", "MongoDB", "PostgreSQL", "Git", "Linux",
	"Django", "Flask", "FastAPI", "Angular", "Vue", "TypeScript", "Go",
	"Rust", "C++", "C#", "Ruby", "PHP", "Swift", "Kotlin", "Azure", "GCP",
}

const (
	titleMatchWeight = 3
	bodyMatchWeight  = 1
	maxCompetencies  = 5
)

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
	regexp.MustCompile(`(?i)experience[:\s]*(\d+)\+?\s*years?`),
	regexp.MustCompile(`(?i)minimum\s*(?:of\s*)?(\d+)\+?\s*years?`),
}

// DetectIndustry scores the title and body against the industry keyword
// tables and returns the best match. When no keyword matches at all the
// posting is rejected instead of coached with a guessed default.
func DetectIndustry(title, body string) (types.Industry, error) {
	titleLower := strings.ToLower(title)
	bodyLower := strings.ToLower(body)

	best := types.Industry("")
	bestScore := 0
	for _, industry := range types.SupportedIndustries {
		score := 0
		for _, keyword := range industryKeywords[industry] {
			if strings.Contains(titleLower, keyword) {
				score += titleMatchWeight
			}
			if strings.Contains(bodyLower, keyword) {
				score += bodyMatchWeight
			}
		}
		if score > bestScore {
			best = industry
			bestScore = score
		}
	}

	if bestScore == 0 {
		return "", &UnknownIndustryError{Title: title}
	}
	return best, nil
}

// detectCompetencies ranks the core competencies by keyword frequency in
// the posting and returns the top matches in canonical order.
func detectCompetencies(body string) []types.CompetencyTag {
	bodyLower := strings.ToLower(body)

	type scored struct {
		tag   types.CompetencyTag
		score int
	}
	var hits []scored
	for _, tag := range types.CoreCompetencies {
		score := 0
		for _, keyword := range competencyKeywords[tag] {
			score += strings.Count(bodyLower, keyword)
		}
		if score > 0 {
			hits = append(hits, scored{tag: tag, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > maxCompetencies {
		hits = hits[:maxCompetencies]
	}

	tags := make([]types.CompetencyTag, 0, len(hits))
	for _, tag := range types.CoreCompetencies {
		for _, hit := range hits {
			if hit.tag == tag {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// detectTechnologies returns the known technologies named in the posting,
// matched on word boundaries and preserving canonical spelling.
func detectTechnologies(body string) []string {
	var found []string
	for _, tech := range knownTechnologies {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(tech) + `\b`)
		if pattern.MatchString(body) {
			found = append(found, tech)
		}
	}
	return found
}

// detectExperience extracts a "N+ years" experience requirement, or an
// empty string when the posting does not state one.
func detectExperience(body string) string {
	for _, pattern := range experiencePatterns {
		if match := pattern.FindStringSubmatch(body); match != nil {
			return match[1] + "+ years"
		}
	}
	return ""
}
