package match

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/store"
	"github.com/rs/zerolog"
)

type memoryStore struct {
	jobs []models.JobPosting
	err  error
}

func (m *memoryStore) Insert(_ context.Context, job models.JobPosting) (bool, error) {
	m.jobs = append(m.jobs, job)
	return true, nil
}

func (m *memoryStore) ListAll(context.Context) ([]models.JobPosting, error) {
	return m.jobs, m.err
}

func (m *memoryStore) ListFiltered(context.Context, store.Filter) ([]models.JobPosting, error) {
	return m.jobs, m.err
}

func (m *memoryStore) Count(context.Context) (int, error) { return len(m.jobs), m.err }

func (m *memoryStore) Close() error { return nil }

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "ascii", in: "The Python developer, and a SQL-expert in Go!", want: []string{"python", "developer", "sql", "expert"}},
		{name: "accented", in: "Développeur Java für Größe", want: []string{"développeur", "java", "für", "größe"}},
		{name: "single letters dropped", in: "C R Ü 42", want: []string{"42"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.in)
			if strings.Join(got, "|") != strings.Join(tc.want, "|") {
				t.Fatalf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestVectorizeNormalizes(t *testing.T) {
	vectors, ok := vectorize([]string{"python sql python", "java spring"})
	if !ok {
		t.Fatalf("expected vocabulary")
	}
	for i, vec := range vectors {
		var norm float64
		for _, w := range vec {
			norm += w * w
		}
		if math.Abs(norm-1) > 1e-9 {
			t.Fatalf("vector %d norm = %v, want 1", i, norm)
		}
	}
	if got := cosine(vectors[0], vectors[0]); math.Abs(got-1) > 1e-9 {
		t.Fatalf("self cosine = %v, want 1", got)
	}
	if got := cosine(vectors[0], vectors[1]); got != 0 {
		t.Fatalf("disjoint cosine = %v, want 0", got)
	}
}

func TestVectorizeEmptyVocabulary(t *testing.T) {
	if _, ok := vectorize([]string{"the and of", "a"}); ok {
		t.Fatalf("expected empty vocabulary")
	}
}

func TestFindMatchesRanksRelevantPostingFirst(t *testing.T) {
	st := &memoryStore{jobs: []models.JobPosting{
		{Title: "Designer", Description: "graphic design with photoshop and illustrator", SkillsRequired: []string{"photoshop"}, ApplicationLink: "b"},
		{Title: "Data Engineer", Description: "python sql data pipelines", SkillsRequired: []string{"python", "sql"}, ApplicationLink: "a"},
	}}
	engine := NewEngine(st, zerolog.Nop())
	profile := models.ResumeProfile{Skills: []string{"python", "sql"}}

	results, err := engine.FindMatches(context.Background(), "python sql developer", profile, 10)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].ApplicationLink != "a" {
		t.Fatalf("expected posting a first, got %s", results[0].ApplicationLink)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("scores not descending: %v, %v", results[0].Score, results[1].Score)
	}
	if results[1].Score != 0 {
		t.Fatalf("unrelated posting score = %v, want 0", results[1].Score)
	}
}

func TestFindMatchesContract(t *testing.T) {
	descriptions := []string{
		"python backend services", "sql reporting analyst", "java spring microservices",
		"python data science pandas", "react frontend", "go kubernetes platform",
	}
	st := &memoryStore{}
	for i, desc := range descriptions {
		st.jobs = append(st.jobs, models.JobPosting{Description: desc, ApplicationLink: string(rune('a' + i))})
	}
	engine := NewEngine(st, zerolog.Nop())

	results, err := engine.FindMatches(context.Background(), "python sql pandas", models.ResumeProfile{}, 4)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	for i, r := range results {
		if r.Score < 0 || r.Score > 100 {
			t.Fatalf("score %v out of range", r.Score)
		}
		if i > 0 && r.Score > results[i-1].Score {
			t.Fatalf("scores increase at %d: %v > %v", i, r.Score, results[i-1].Score)
		}
	}
}

func TestSkillBoostRequiresDeclaredSkills(t *testing.T) {
	jobs := []models.JobPosting{
		{Description: "python work", ApplicationLink: "declared", SkillsRequired: []string{"Python "}},
		{Description: "python work", ApplicationLink: "undeclared"},
	}
	profile := models.ResumeProfile{Skills: []string{" PYTHON"}}

	withSkills, ok := Rank("python work", profile, jobs)
	if !ok {
		t.Fatalf("expected ranking")
	}
	plain, _ := Rank("python work", models.ResumeProfile{}, jobs)

	byLink := func(results []models.MatchResult) map[string]float64 {
		out := map[string]float64{}
		for _, r := range results {
			out[r.ApplicationLink] = r.Score
		}
		return out
	}
	boosted := byLink(withSkills)
	base := byLink(plain)

	if boosted["undeclared"] != base["undeclared"] {
		t.Fatalf("posting without skills changed score: %v vs %v", boosted["undeclared"], base["undeclared"])
	}
	if boosted["declared"] != 100 {
		t.Fatalf("identical text with full skill overlap = %v, want 100", boosted["declared"])
	}
}

func TestRankKeepsInsertionOrderOnTies(t *testing.T) {
	jobs := []models.JobPosting{
		{Description: "python", ApplicationLink: "first"},
		{Description: "python", ApplicationLink: "second"},
		{Description: "python", ApplicationLink: "third"},
	}
	results, _ := Rank("python", models.ResumeProfile{}, jobs)
	for i, want := range []string{"first", "second", "third"} {
		if results[i].ApplicationLink != want {
			t.Fatalf("results[%d] = %s, want %s", i, results[i].ApplicationLink, want)
		}
	}
}

func TestFindMatchesEmptyStore(t *testing.T) {
	engine := NewEngine(&memoryStore{}, zerolog.Nop())
	results, err := engine.FindMatches(context.Background(), "python", models.ResumeProfile{}, 0)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", results)
	}
}

func TestFindMatchesDefaultsTopN(t *testing.T) {
	st := &memoryStore{}
	for i := 0; i < 15; i++ {
		st.jobs = append(st.jobs, models.JobPosting{Description: "python role", ApplicationLink: string(rune('a' + i))})
	}
	results, err := NewEngine(st, zerolog.Nop()).FindMatches(context.Background(), "python", models.ResumeProfile{}, 0)
	if err != nil {
		t.Fatalf("FindMatches() error = %v", err)
	}
	if len(results) != DefaultTopN {
		t.Fatalf("len(results) = %d, want %d", len(results), DefaultTopN)
	}
}

func TestFindMatchesPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := NewEngine(&memoryStore{err: boom}, zerolog.Nop()).FindMatches(context.Background(), "python", models.ResumeProfile{}, 5)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestPercentRounding(t *testing.T) {
	cases := map[float64]float64{0.12345: 12.3, 0.9999: 100, 1.2: 100, -0.1: 0, 0.5: 50}
	for in, want := range cases {
		if got := percent(in); got != want {
			t.Fatalf("percent(%v) = %v, want %v", in, got, want)
		}
	}
}
