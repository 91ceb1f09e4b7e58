package analyzer

import (
	"regexp"
	"strings"

	"jobtrail/internal/domain/job"
)

// PlaceholderHighlight stands in for the matched-skill list when no
// specific technical overlap was identified.
const PlaceholderHighlight = "Matching Interests"

// Skill is one vocabulary entry: a lowercase detection keyword and the
// canonical display label.
type Skill struct {
	Keyword string
	Label   string
}

// SkillMatch is the heuristic comparison of a job text against the
// vocabulary and the user's declared skills.
type SkillMatch struct {
	Detected []string
	Matched  []string
	Missing  []string
	Tier     string
}

// MatchSkills tests each vocabulary keyword as a word-bounded,
// case-insensitive occurrence in text, then partitions the detected
// labels into matched and missing against the user's declared skills.
// userSkills must already be lowercased and trimmed.
func MatchSkills(text string, vocab []Skill, userSkills []string) SkillMatch {
	declared := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		if s != "" {
			declared[s] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(vocab))
	res := SkillMatch{
		Detected: make([]string, 0),
		Matched:  make([]string, 0),
		Missing:  make([]string, 0),
	}

	for _, sk := range vocab {
		keyword := strings.TrimSpace(sk.Keyword)
		if keyword == "" || sk.Label == "" {
			continue
		}
		if _, dup := seen[sk.Label]; dup {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
		if err != nil {
			continue
		}
		if !re.MatchString(text) {
			continue
		}

		seen[sk.Label] = struct{}{}
		res.Detected = append(res.Detected, sk.Label)
		if _, ok := declared[strings.ToLower(sk.Label)]; ok {
			res.Matched = append(res.Matched, sk.Label)
		} else {
			res.Missing = append(res.Missing, sk.Label)
		}
	}

	res.Tier = TierFor(len(res.Matched), len(res.Detected))
	return res
}

// TierFor maps matched/detected counts onto the qualitative match tier:
// >=60% High, >=30% Medium, otherwise Low. No detected skills means Low.
func TierFor(matched, detected int) string {
	if detected <= 0 {
		return job.TierLow
	}
	pct := float64(matched) / float64(detected) * 100
	switch {
	case pct >= 60:
		return job.TierHigh
	case pct >= 30:
		return job.TierMedium
	default:
		return job.TierLow
	}
}

// Highlights returns the matched labels, substituting the placeholder when
// nothing matched.
func (m SkillMatch) Highlights() []string {
	if len(m.Matched) == 0 {
		return []string{PlaceholderHighlight}
	}
	return m.Matched
}
