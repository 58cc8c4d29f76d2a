package models

import (
	"strings"
	"time"
)

// JobPosting is the normalized posting produced by a source and persisted
// in the job store. ApplicationLink is the natural key.
type JobPosting struct {
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	SkillsRequired  []string  `json:"skills_required,omitempty"`
	ApplicationLink string    `json:"application_link"`
	PostedDate      time.Time `json:"posted_date"`
	Source          string    `json:"source"`
}

// DateLayout is the calendar-date layout used for persisted posting dates.
const DateLayout = "2006-01-02"

// Day truncates t to a UTC calendar date.
func Day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizedSkills returns the lower-cased, trimmed, de-duplicated skill set.
func (j JobPosting) NormalizedSkills() map[string]struct{} {
	out := make(map[string]struct{}, len(j.SkillsRequired))
	for _, skill := range j.SkillsRequired {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		out[skill] = struct{}{}
	}
	return out
}
