package scraper

import (
	"testing"

	"github.com/jimezsa/fithire/internal/models"
)

func TestStepstoneParseCard_ExtractsTeaserSnippet(t *testing.T) {
	html := `
<article>
  <h2>Platform Engineer</h2>
  <div>Example GmbH</div>
  <div>Munich, Bavaria, Germany</div>
  <p data-at="job-item-teaser">Build distributed backend services.</p>
  <time>vor 2 Tagen</time>
</article>`

	doc := mustDoc(t, html)
	card := doc.Find("article").First()
	company, location, snippet, posted, remote := stepstoneParseCard(card, "Platform Engineer")

	if company != "Example GmbH" {
		t.Fatalf("unexpected company: %q", company)
	}
	if location != "Munich, Bavaria, Germany" {
		t.Fatalf("unexpected location: %q", location)
	}
	if snippet != "Build distributed backend services." {
		t.Fatalf("unexpected snippet: %q", snippet)
	}
	if posted != "vor 2 Tagen" {
		t.Fatalf("unexpected posted: %q", posted)
	}
	if remote {
		t.Fatalf("expected remote false")
	}
}

func TestStepstoneParseCard_DoesNotUseLocationAsSnippet(t *testing.T) {
	html := `
<article>
  <h2>Platform Engineer</h2>
  <div>Example GmbH</div>
  <div>Munich, Bavaria, Germany</div>
  <div data-testid="job-item-teaser">Munich, Bavaria, Germany</div>
</article>`

	doc := mustDoc(t, html)
	card := doc.Find("article").First()
	_, _, snippet, _, _ := stepstoneParseCard(card, "Platform Engineer")

	if snippet != "" {
		t.Fatalf("expected empty snippet, got %q", snippet)
	}
}

func TestParseStepstoneJobCards(t *testing.T) {
	html := `
<article>
  <a href="/stellenangebote--Go-Entwickler-Berlin-Acme--123.html">Go Entwickler</a>
  <div>Acme GmbH</div>
  <div>Berlin</div>
  <span>Teilweise Home-Office</span>
  <time>vor 3 Tagen</time>
</article>`

	doc := mustDoc(t, html)
	jobs := parseStepstoneJobs(doc, testNow)
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	job := jobs[0]
	if job.ApplicationLink != "https://www.stepstone.de/stellenangebote--Go-Entwickler-Berlin-Acme--123.html" {
		t.Fatalf("unexpected link: %q", job.ApplicationLink)
	}
	if job.Company != "Acme GmbH" || job.Location != "Berlin" {
		t.Fatalf("unexpected card fields: %+v", job)
	}
	if job.PostedDate.Format(models.DateLayout) != "2024-03-17" {
		t.Fatalf("unexpected posted date: %v", job.PostedDate)
	}
}

func TestBuildStepstoneURL(t *testing.T) {
	params := models.SearchParams{Keywords: "Data Engineer", Location: "München"}
	if got := buildStepstoneURL(params, 1); got != "https://www.stepstone.de/jobs/data-engineer/in-m%C3%BCnchen" {
		t.Fatalf("unexpected first page url: %s", got)
	}
	if got := buildStepstoneURL(params, 3); got != "https://www.stepstone.de/jobs/data-engineer/in-m%C3%BCnchen?page=3" {
		t.Fatalf("unexpected page url: %s", got)
	}
}

func TestParseStepstoneDescription(t *testing.T) {
	html := `<div data-at="jobad-description">Build APIs for enterprise integrations.</div>`
	doc := mustDoc(t, html)

	got := parseStepstoneDescription(doc)
	if got != "Build APIs for enterprise integrations." {
		t.Fatalf("unexpected description: %q", got)
	}
}

func TestParseStepstoneDescription_FallsBackToJSONLD(t *testing.T) {
	html := `
<script type="application/ld+json">
{
  "@context": "http://schema.org",
  "@type": "JobPosting",
  "title": "Platform Engineer",
  "hiringOrganization": {"name": "Example GmbH"},
  "url": "https://www.stepstone.de/stellenangebote--platform-engineer-example",
  "description": "Design and operate resilient services."
}
</script>`
	doc := mustDoc(t, html)

	got := parseStepstoneDescription(doc)
	if got != "Design and operate resilient services." {
		t.Fatalf("unexpected description: %q", got)
	}
}
