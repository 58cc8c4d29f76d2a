package ingest

import (
	"time"

	"github.com/jimezsa/fithire/internal/models"
)

// Dedupe keeps the first posting for each application link. Postings without
// a link are dropped.
func Dedupe(jobs []models.JobPosting) []models.JobPosting {
	seen := make(map[string]struct{}, len(jobs))
	out := make([]models.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if job.ApplicationLink == "" {
			continue
		}
		if _, ok := seen[job.ApplicationLink]; ok {
			continue
		}
		seen[job.ApplicationLink] = struct{}{}
		out = append(out, job)
	}
	return out
}

// FilterRecent dates undated postings today and keeps those posted on or
// after today minus lookback.
func FilterRecent(jobs []models.JobPosting, today time.Time, lookback time.Duration) []models.JobPosting {
	today = models.Day(today)
	cutoff := models.Day(today.Add(-lookback))
	out := make([]models.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		if job.PostedDate.IsZero() {
			job.PostedDate = today
		}
		if models.Day(job.PostedDate).Before(cutoff) {
			continue
		}
		out = append(out, job)
	}
	return out
}
