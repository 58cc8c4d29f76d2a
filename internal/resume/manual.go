package resume

import (
	"fmt"
	"strings"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/skills"
)

// ManualEntry is a résumé typed in field by field instead of uploaded.
type ManualEntry struct {
	JobTitle          string
	Industry          string
	Summary           string
	Skills            []string
	Education         []string
	YearsOfExperience int
}

// FromManual cleans a manual entry and renders the searchable text used for matching.
func FromManual(entry ManualEntry) models.ResumeProfile {
	entry.Skills = cleanSkills(entry.Skills)

	var education []string
	for _, edu := range entry.Education {
		if edu = strings.TrimSpace(edu); edu != "" {
			education = append(education, edu)
		}
	}
	entry.Education = education

	if entry.YearsOfExperience < 0 {
		entry.YearsOfExperience = 0
	}
	entry.Summary = strings.TrimSpace(entry.Summary)

	return models.ResumeProfile{
		RawText:           GenerateText(entry),
		Skills:            skills.Normalize(entry.Skills),
		Education:         education,
		YearsOfExperience: entry.YearsOfExperience,
		Summary:           entry.Summary,
	}
}

// GenerateText renders the entry as labelled sections separated by blank lines.
// Skills keep their entry order.
func GenerateText(entry ManualEntry) string {
	var sections []string
	if title := strings.TrimSpace(entry.JobTitle); title != "" {
		sections = append(sections, "Current Role: "+title)
	}
	if industry := strings.TrimSpace(entry.Industry); industry != "" {
		sections = append(sections, "Industry: "+industry)
	}
	if entry.Summary != "" {
		sections = append(sections, "Professional Summary: "+entry.Summary)
	}
	if len(entry.Skills) > 0 {
		sections = append(sections, "Skills: "+strings.Join(entry.Skills, ", "))
	}
	if len(entry.Education) > 0 {
		sections = append(sections, "Education: "+strings.Join(entry.Education, "; "))
	}
	if entry.YearsOfExperience > 0 {
		sections = append(sections, fmt.Sprintf("Years of Experience: %d", entry.YearsOfExperience))
	}
	return strings.Join(sections, "\n\n")
}

func cleanSkills(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}
