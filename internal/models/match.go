package models

// MatchResult pairs a stored posting with its relevance score in [0, 100].
type MatchResult struct {
	JobPosting
	Score float64 `json:"score"`
}
