package resume

import (
	"strings"

	"github.com/jimezsa/fithire/internal/models"
)

const (
	LabelExcellent = "excellent"
	LabelVeryGood  = "very good"
	LabelGood      = "good"
	LabelPoor      = "poor"
)

var advancedDegrees = []string{"master", "phd", "ph.d", "doctor", "mba"}

// Quality is the graded result of a résumé review.
type Quality struct {
	Points int    `json:"points"`
	Label  string `json:"label"`
}

// Evaluate grades a profile on skills, education, experience and detail.
func Evaluate(profile models.ResumeProfile) Quality {
	points := skillPoints(len(profile.Skills)) +
		educationPoints(profile.Education) +
		experiencePoints(profile.YearsOfExperience) +
		detailPoints(profile)
	return Quality{Points: points, Label: label(points)}
}

// WithQuality returns a copy of profile carrying its quality label.
func WithQuality(profile models.ResumeProfile) models.ResumeProfile {
	profile.QualityLabel = Evaluate(profile).Label
	return profile
}

func skillPoints(count int) int {
	switch {
	case count >= 10:
		return 3
	case count >= 6:
		return 2
	case count >= 3:
		return 1
	}
	return 0
}

func educationPoints(education []string) int {
	if len(education) == 0 {
		return 0
	}
	for _, entry := range education {
		entry = strings.ToLower(entry)
		for _, degree := range advancedDegrees {
			if strings.Contains(entry, degree) {
				return 2
			}
		}
	}
	return 1
}

func experiencePoints(years int) int {
	switch {
	case years >= 5:
		return 3
	case years >= 3:
		return 2
	case years >= 1:
		return 1
	}
	return 0
}

// detailPoints rewards narrative length: the summary of a manual entry, or
// the full text of an uploaded document.
func detailPoints(profile models.ResumeProfile) int {
	if profile.Summary != "" {
		switch n := len(profile.Summary); {
		case n >= 300:
			return 2
		case n >= 150:
			return 1
		}
		return 0
	}
	switch n := len(profile.RawText); {
	case n >= 2000:
		return 2
	case n >= 1000:
		return 1
	}
	return 0
}

func label(points int) string {
	switch {
	case points >= 8:
		return LabelExcellent
	case points >= 6:
		return LabelVeryGood
	case points >= 3:
		return LabelGood
	}
	return LabelPoor
}
