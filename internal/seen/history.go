// Package seen tracks postings a user has already been shown so repeated
// match runs can hide them.
package seen

import (
	"strings"

	"github.com/jimezsa/fithire/internal/models"
)

const keySeparator = "::"

// FilterStats captures what Filter skipped.
type FilterStats struct {
	Total   int
	Seen    int
	Invalid int
	Unseen  int
}

// Normalize lower-cases and collapses whitespace.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key builds the normalized title+company key for a posting. The same role
// is often listed by several sources under different links, so the link is
// not part of the key.
func Key(job models.JobPosting) (string, bool) {
	title := Normalize(job.Title)
	company := Normalize(job.Company)
	if title == "" || company == "" {
		return "", false
	}
	return title + keySeparator + company, true
}

// History is an ordered set of postings keyed by Key.
type History struct {
	jobs []models.JobPosting
	keys map[string]struct{}
}

func NewHistory(jobs []models.JobPosting) *History {
	h := &History{keys: make(map[string]struct{}, len(jobs))}
	h.Add(jobs...)
	return h
}

// Seen reports whether an equivalent posting is already recorded.
func (h *History) Seen(job models.JobPosting) bool {
	key, ok := Key(job)
	if !ok {
		return false
	}
	_, exists := h.keys[key]
	return exists
}

// Filter drops results already in the history, keeping order. Results
// without a usable key are kept and counted as invalid.
func (h *History) Filter(results []models.MatchResult) ([]models.MatchResult, FilterStats) {
	stats := FilterStats{Total: len(results)}
	out := make([]models.MatchResult, 0, len(results))
	for _, r := range results {
		if _, ok := Key(r.JobPosting); !ok {
			stats.Invalid++
			out = append(out, r)
			continue
		}
		if h.Seen(r.JobPosting) {
			stats.Seen++
			continue
		}
		out = append(out, r)
	}
	stats.Unseen = len(out)
	return out, stats
}

// Add records postings not yet present and returns how many were added.
// Postings without a usable key are ignored.
func (h *History) Add(jobs ...models.JobPosting) int {
	added := 0
	for _, job := range jobs {
		key, ok := Key(job)
		if !ok {
			continue
		}
		if _, exists := h.keys[key]; exists {
			continue
		}
		h.keys[key] = struct{}{}
		h.jobs = append(h.jobs, job)
		added++
	}
	return added
}

// Jobs returns the recorded postings in insertion order.
func (h *History) Jobs() []models.JobPosting {
	return h.jobs
}

func (h *History) Len() int {
	return len(h.jobs)
}
