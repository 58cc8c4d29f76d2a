package match

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/store"
	"github.com/rs/zerolog"
)

// DefaultTopN is used when FindMatches is called with a non-positive topN.
const DefaultTopN = 10

const (
	textWeight  = 0.7
	skillWeight = 0.3
)

// Engine scores every stored posting against a résumé on each request.
type Engine struct {
	store  store.Store
	logger zerolog.Logger
}

func NewEngine(st store.Store, logger zerolog.Logger) *Engine {
	return &Engine{store: st, logger: logger}
}

// FindMatches returns at most topN postings ordered by descending score.
// Only a store read failure is reported as an error; an empty store or a
// corpus without usable terms yields an empty result.
func (e *Engine) FindMatches(ctx context.Context, resumeText string, profile models.ResumeProfile, topN int) ([]models.MatchResult, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}

	jobs, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	if len(jobs) == 0 {
		e.logger.Warn().Msg("no jobs in store")
		return []models.MatchResult{}, nil
	}

	results, ok := Rank(resumeText, profile, jobs)
	if !ok {
		e.logger.Debug().Int("jobs", len(jobs)).Msg("empty vocabulary, nothing to rank")
		return []models.MatchResult{}, nil
	}
	e.logger.Debug().Int("jobs", len(jobs)).Int("top", topN).Msg("ranked jobs")

	if len(results) > topN {
		results = results[:topN]
	}
	return results, nil
}

// Rank scores jobs against the résumé and sorts them by descending score,
// keeping the input order among equal scores. ok is false when neither the
// résumé nor any description contains a usable term.
func Rank(resumeText string, profile models.ResumeProfile, jobs []models.JobPosting) ([]models.MatchResult, bool) {
	corpus := make([]string, 0, len(jobs)+1)
	corpus = append(corpus, resumeText)
	for _, job := range jobs {
		corpus = append(corpus, job.Description)
	}

	vectors, ok := vectorize(corpus)
	if !ok {
		return nil, false
	}

	resumeSkills := profile.SkillSet()
	results := make([]models.MatchResult, len(jobs))
	for i, job := range jobs {
		score := cosine(vectors[0], vectors[i+1])
		if len(resumeSkills) > 0 {
			if jobSkills := job.NormalizedSkills(); len(jobSkills) > 0 {
				score = textWeight*score + skillWeight*overlap(resumeSkills, jobSkills)
			}
		}
		results[i] = models.MatchResult{JobPosting: job, Score: percent(score)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, true
}

// overlap is the share of the job's skills that the résumé covers.
func overlap(resume, job map[string]struct{}) float64 {
	hits := 0
	for skill := range job {
		if _, ok := resume[skill]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(job))
}

// percent converts a [0,1] score to a percentage with one decimal.
func percent(score float64) float64 {
	p := math.Round(score*1000) / 10
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
