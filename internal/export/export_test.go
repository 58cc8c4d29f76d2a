package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/fithire/internal/models"
)

func sampleResults() []models.MatchResult {
	return []models.MatchResult{
		{
			JobPosting: models.JobPosting{
				Title:           "Data Engineer",
				Company:         "Acme",
				Location:        "Remote",
				ApplicationLink: "https://www.example.com/jobs/1",
				SkillsRequired:  []string{"python", "sql"},
				PostedDate:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
				Source:          "linkedin",
				Description:     "pipelines, \"quoted\"",
			},
			Score: 87.5,
		},
		{
			JobPosting: models.JobPosting{Title: "Designer", Company: "Beta", Source: "sample"},
			Score:      0,
		},
	}
}

func TestWriteMatchesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatches(&buf, sampleResults(), FormatCSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteMatches() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "score" {
		t.Fatalf("expected score column first, got %v", records[0])
	}
	row := records[1]
	if row[0] != "87.5" || row[2] != "Data Engineer" || row[6] != "python, sql" || row[7] != "2024-05-01" {
		t.Fatalf("unexpected row: %v", row)
	}
	if row[8] != `pipelines, "quoted"` {
		t.Fatalf("description not round-tripped: %q", row[8])
	}
	if records[2][7] != "" {
		t.Fatalf("expected empty posted date, got %q", records[2][7])
	}
}

func TestWriteJobsTSVHasNoScore(t *testing.T) {
	var buf bytes.Buffer
	jobs := []models.JobPosting{sampleResults()[0].JobPosting}
	if err := WriteJobs(&buf, jobs, FormatTSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	header := strings.SplitN(buf.String(), "\n", 2)[0]
	if strings.Contains(header, "score") || !strings.HasPrefix(header, "source\ttitle") {
		t.Fatalf("unexpected header: %q", header)
	}
}

func TestWriteMatchesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatches(&buf, nil, FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("WriteMatches() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}

	buf.Reset()
	if err := WriteMatches(&buf, sampleResults(), FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("WriteMatches() error = %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded[0]["score"].(float64) != 87.5 || decoded[0]["application_link"] != "https://www.example.com/jobs/1" {
		t.Fatalf("unexpected json: %v", decoded[0])
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatches(&buf, sampleResults()[:1], FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("WriteMatches() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"- **Data Engineer** (Acme) 87.5%", "Source: linkedin", "[Open listing](<https://www.example.com/jobs/1>)", "Skills: python, sql"} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteJobs(&buf, nil, FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No results." {
		t.Fatalf("unexpected empty markdown: %q", buf.String())
	}
}

func TestTableHyperlinks(t *testing.T) {
	var buf bytes.Buffer
	opts := WriteOptions{Hyperlinks: true, LinkStyle: LinkStyleShort}
	if err := WriteMatches(&buf, sampleResults()[:1], FormatTable, opts); err != nil {
		t.Fatalf("WriteMatches() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b]8;;https://www.example.com/jobs/1") {
		t.Fatalf("expected OSC 8 hyperlink, got %q", out)
	}
	if !strings.Contains(out, "example.com/jobs/1") {
		t.Fatalf("expected short label, got %q", out)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("Markdown"); err != nil || f != FormatMarkdown {
		t.Fatalf("ParseFormat(Markdown) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
