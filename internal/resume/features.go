// Package resume extracts features from résumés and grades their quality.
package resume

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/skills"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	noise      = regexp.MustCompile(`[^\w\s.,;:()+#/-]`)

	degreePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(B\.?S\.?|Bachelor of Science|Bachelor'?s?)\b`),
		regexp.MustCompile(`(?i)\b(B\.?A\.?|Bachelor of Arts)\b`),
		regexp.MustCompile(`(?i)\b(M\.?S\.?|Master of Science|Master'?s?)\b`),
		regexp.MustCompile(`(?i)\b(M\.?B\.?A\.?|Master of Business Administration)\b`),
		regexp.MustCompile(`(?i)\b(Ph\.?D\.?|Doctor of Philosophy|Doctorate)\b`),
	}

	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s+years?\s+(?:of\s+)?experience`),
		regexp.MustCompile(`(?i)experience\s+(?:of\s+)?(\d+)\+?\s+years?`),
	}
)

// Preprocess lower-cases text, collapses whitespace and drops stray symbols.
func Preprocess(text string) string {
	text = strings.ToLower(text)
	text = whitespace.ReplaceAllString(text, " ")
	text = noise.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// FromText builds a profile from extracted résumé text.
func FromText(text string) models.ResumeProfile {
	clean := Preprocess(text)
	return models.ResumeProfile{
		RawText:           clean,
		Skills:            skills.Normalize(skills.Detect(clean)),
		Education:         ExtractEducation(clean),
		YearsOfExperience: ExtractYears(clean),
	}
}

// ExtractEducation returns the degree mentions found in text, in pattern order.
func ExtractEducation(text string) []string {
	var out []string
	for _, re := range degreePatterns {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			out = append(out, match[1])
		}
	}
	return out
}

// ExtractYears returns the largest "N years of experience" figure of the
// first phrasing that appears in text, or 0.
func ExtractYears(text string) int {
	for _, re := range experiencePatterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}
		best := 0
		for _, match := range matches {
			if years, err := strconv.Atoi(match[1]); err == nil && years > best {
				best = years
			}
		}
		return best
	}
	return 0
}
