package models

import "strings"

// ResumeProfile holds the features extracted from a résumé or a manual entry.
type ResumeProfile struct {
	RawText           string   `json:"raw_text"`
	Skills            []string `json:"skills"`
	Education         []string `json:"education"`
	YearsOfExperience int      `json:"years_of_experience"`
	Summary           string   `json:"summary,omitempty"`
	QualityLabel      string   `json:"quality_label,omitempty"`
}

// SkillSet returns the lower-cased, trimmed profile skills as a set.
func (p ResumeProfile) SkillSet() map[string]struct{} {
	out := make(map[string]struct{}, len(p.Skills))
	for _, skill := range p.Skills {
		if skill = strings.ToLower(strings.TrimSpace(skill)); skill != "" {
			out[skill] = struct{}{}
		}
	}
	return out
}
