package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/fithire/internal/config"
	"github.com/jimezsa/fithire/internal/export"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/seen"
	"github.com/jimezsa/fithire/internal/store"
	"github.com/rs/zerolog"
)

func testContext(t *testing.T, out io.Writer, jobs ...models.JobPosting) *Context {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("FITHIRE_CONFIG_DIR", dir)

	cfg := config.DefaultConfig()
	cfg.Database = filepath.Join(dir, "jobs.db")

	st, err := store.OpenSQLite(cfg.Database)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	for _, job := range jobs {
		if _, err := st.Insert(context.Background(), job); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	return &Context{
		Out:        out,
		Err:        io.Discard,
		Config:     cfg,
		ConfigDir:  dir,
		Logger:     zerolog.Nop(),
		JSONOutput: true,
	}
}

func storedJobs() []models.JobPosting {
	posted := time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC)
	return []models.JobPosting{
		{Title: "Designer", Company: "Beta", Description: "graphic design with photoshop and illustrator", SkillsRequired: []string{"photoshop"}, ApplicationLink: "https://example.com/b", Source: "indeed", PostedDate: posted.AddDate(0, 0, -10)},
		{Title: "Data Engineer", Company: "Acme", Description: "python sql data pipelines", SkillsRequired: []string{"python", "sql"}, ApplicationLink: "https://example.com/a", Source: "linkedin", PostedDate: posted},
	}
}

func TestResolveFormat(t *testing.T) {
	cases := []struct {
		name string
		ctx  *Context
		opts OutputOptions
		want export.Format
	}{
		{name: "json flag wins", ctx: &Context{Out: io.Discard, JSONOutput: true}, opts: OutputOptions{Format: "md"}, want: export.FormatJSON},
		{name: "plain flag", ctx: &Context{Out: io.Discard, PlainText: true}, want: export.FormatTSV},
		{name: "explicit format", ctx: &Context{Out: io.Discard}, opts: OutputOptions{Format: "md"}, want: export.FormatMarkdown},
		{name: "file defaults to csv", ctx: &Context{Out: io.Discard}, opts: OutputOptions{Output: "jobs.csv"}, want: export.FormatCSV},
		{name: "pipe defaults to csv", ctx: &Context{Out: &bytes.Buffer{}}, want: export.FormatCSV},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveFormat(tc.ctx, tc.opts)
			if err != nil {
				t.Fatalf("resolveFormat() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("resolveFormat() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProfileFlags(t *testing.T) {
	text, profile, err := ProfileFlags{Title: "Data Engineer", Skills: "Python, SQL", Education: "BSc Computer Science; ", Years: 4}.profile()
	if err != nil {
		t.Fatalf("profile() error = %v", err)
	}
	if !strings.Contains(text, "Data Engineer") || text != profile.RawText {
		t.Fatalf("unexpected generated text: %q", text)
	}
	if len(profile.Education) != 1 || profile.YearsOfExperience != 4 || profile.QualityLabel == "" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, _, err := (ProfileFlags{}).profile(); err == nil {
		t.Fatalf("expected error without resume or manual flags")
	}

	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("Senior engineer with python and docker. 6 years of experience."), 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	if _, _, err := (ProfileFlags{Resume: path, Skills: "go"}).profile(); err == nil {
		t.Fatalf("expected error when mixing file and manual flags")
	}
	_, profile, err = ProfileFlags{Resume: path}.profile()
	if err != nil {
		t.Fatalf("profile() from file error = %v", err)
	}
	if profile.YearsOfExperience != 6 {
		t.Fatalf("years = %d, want 6", profile.YearsOfExperience)
	}

	odt := filepath.Join(t.TempDir(), "resume.odt")
	if err := os.WriteFile(odt, []byte("x"), 0o600); err != nil {
		t.Fatalf("write odt: %v", err)
	}
	if _, _, err := (ProfileFlags{Resume: odt}).profile(); err == nil || !strings.Contains(err.Error(), ".docx") {
		t.Fatalf("expected unsupported format error listing formats, got %v", err)
	}
}

func TestMatchRanksStoredJobs(t *testing.T) {
	var buf bytes.Buffer
	ctx := testContext(t, &buf, storedJobs()...)

	cmd := &MatchCmd{ProfileFlags: ProfileFlags{Title: "Data Engineer", Skills: "python,sql"}, Top: 5}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var results []models.MatchResult
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Title != "Data Engineer" || results[0].Score <= results[1].Score {
		t.Fatalf("unexpected ranking: %+v", results)
	}
}

func TestMatchSeenHistory(t *testing.T) {
	var buf bytes.Buffer
	ctx := testContext(t, &buf, storedJobs()...)
	seenPath := filepath.Join(t.TempDir(), "seen.json")

	cmd := &MatchCmd{ProfileFlags: ProfileFlags{Skills: "python"}, Seen: seenPath, SeenUpdate: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	history, err := seen.Load(seenPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if history.Len() != 2 {
		t.Fatalf("history len = %d, want 2", history.Len())
	}

	buf.Reset()
	cmd = &MatchCmd{ProfileFlags: ProfileFlags{Skills: "python"}, Seen: seenPath, NewOnly: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() (new only) error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected no unseen matches, got %s", buf.String())
	}

	if err := (&MatchCmd{ProfileFlags: ProfileFlags{Skills: "go"}, NewOnly: true}).Run(ctx); err == nil {
		t.Fatalf("expected --new-only without --seen to fail")
	}
}

func TestJobsFilter(t *testing.T) {
	now := time.Date(2024, 3, 20, 15, 0, 0, 0, time.UTC)

	filter, err := (&JobsCmd{Source: " WWR ", Days: 7}).filter(now)
	if err != nil {
		t.Fatalf("filter() error = %v", err)
	}
	if filter.Source != "weworkremotely" || !filter.Since.Equal(time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected filter: %+v", filter)
	}

	if _, err := (&JobsCmd{Since: "03/01/2024"}).filter(now); err == nil {
		t.Fatalf("expected invalid --since error")
	}
	if _, err := (&JobsCmd{Since: "2024-03-01", Days: 3}).filter(now); err == nil {
		t.Fatalf("expected error for --since with --days")
	}
}

func TestJobsListsAndCounts(t *testing.T) {
	var buf bytes.Buffer
	ctx := testContext(t, &buf, storedJobs()...)

	if err := (&JobsCmd{Source: "linkedin"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	var jobs []models.JobPosting
	if err := json.Unmarshal(buf.Bytes(), &jobs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Company != "Acme" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}

	buf.Reset()
	if err := (&JobsCmd{Count: true}).Run(ctx); err != nil {
		t.Fatalf("Run() count error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "2" {
		t.Fatalf("count = %q, want 2", buf.String())
	}
}

func TestSearchFlagsFallBackToConfig(t *testing.T) {
	cfg := config.Config{Keywords: "go developer", Country: "uk", MaxResults: 40}
	params := SearchFlags{Location: "London", Max: 0}.params(cfg)
	if params.Keywords != "go developer" || params.Location != "London" || params.Country != "uk" || params.MaxResults != 40 {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func TestProxyCheckTarget(t *testing.T) {
	got, err := (&ProxyCheckCmd{Source: "stepstone.de"}).target()
	if err != nil || got != "https://www.stepstone.de" {
		t.Fatalf("target() = %q, %v", got, err)
	}
	if _, err := (&ProxyCheckCmd{Source: "monster"}).target(); err == nil {
		t.Fatalf("expected unknown source error")
	}
}
