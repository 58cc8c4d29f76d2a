package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
)

var stepstoneHeaders = map[string]string{
	"accept-language": "de-DE,de;q=0.9,en-US;q=0.8,en;q=0.7",
}

type Stepstone struct {
	session *network.Session
	now     func() time.Time
}

func NewStepstone(session *network.Session) *Stepstone {
	return &Stepstone{session: session, now: time.Now}
}

func (s *Stepstone) Name() string {
	return SiteStepstone
}

func (s *Stepstone) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	limit := resultLimit(params)
	now := s.now()

	var jobs []models.JobPosting
	for page := 1; !reachedLimit(jobs, limit); page++ {
		doc, err := fetchDocument(ctx, s.session, buildStepstoneURL(params, page), stepstoneHeaders)
		if err != nil {
			return s.describe(ctx, limitJobs(jobs, limit)), fmt.Errorf("stepstone: %w", err)
		}

		pageJobs := parseStepstoneJobs(doc, now)
		before := len(jobs)
		jobs = dedupeJobs(append(jobs, pageJobs...))
		if len(jobs) == before {
			break
		}
	}

	jobs = s.describe(ctx, limitJobs(jobs, limit))
	if err := ctx.Err(); err != nil {
		return jobs, fmt.Errorf("stepstone: %w", err)
	}
	return jobs, nil
}

func (s *Stepstone) describe(ctx context.Context, jobs []models.JobPosting) []models.JobPosting {
	for i := range jobs {
		if ctx.Err() != nil {
			break
		}
		doc, err := fetchDocument(ctx, s.session, jobs[i].ApplicationLink, stepstoneHeaders)
		if err != nil {
			continue
		}
		if desc := parseStepstoneDescription(doc); desc != "" {
			jobs[i].Description = desc
		}
	}
	return finalize(jobs)
}

func buildStepstoneURL(params models.SearchParams, page int) string {
	base := "https://www.stepstone.de/jobs"
	query := stepstoneSlug(params.Keywords)
	if query == "" {
		query = strings.ToLower(strings.TrimSpace(params.Keywords))
	}
	path := fmt.Sprintf("%s/%s", base, url.PathEscape(query))
	if params.Location != "" {
		if location := stepstoneSlug(params.Location); location != "" {
			path = fmt.Sprintf("%s/in-%s", path, url.PathEscape(location))
		}
	}
	if page > 1 {
		return fmt.Sprintf("%s?page=%d", path, page)
	}
	return path
}

func stepstoneSlug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	var b strings.Builder
	lastDash := false
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func parseStepstoneJobs(doc *goquery.Document, now time.Time) []models.JobPosting {
	jobs := parseJSONLDJobs(doc, SiteStepstone)
	jobs = append(jobs, parseStepstoneJobCards(doc, now)...)
	return dedupeJobs(jobs)
}

func parseStepstoneJobCards(doc *goquery.Document, now time.Time) []models.JobPosting {
	var jobs []models.JobPosting
	seen := map[string]struct{}{}

	doc.Find("a[href*='stellenangebote--']").Each(func(_ int, s *goquery.Selection) {
		link := absoluteURL("https://www.stepstone.de", strings.TrimSpace(s.AttrOr("href", "")))
		if link == "" {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}

		title := cleanText(s.Text())
		if title == "" {
			return
		}

		company, location, snippet, posted, remote := stepstoneParseCard(stepstoneCardForAnchor(s), title)
		if remote && location == "" {
			location = "Remote"
		}

		jobs = append(jobs, models.JobPosting{
			Source:          SiteStepstone,
			Title:           title,
			Company:         company,
			Location:        location,
			Description:     snippet,
			ApplicationLink: link,
			PostedDate:      postedDate(posted, now),
		})
		seen[link] = struct{}{}
	})

	return jobs
}

func stepstoneCardForAnchor(s *goquery.Selection) *goquery.Selection {
	for _, tag := range []string{"article", "li", "section", "div"} {
		if card := s.Closest(tag); card.Length() > 0 {
			return card
		}
	}
	return s.Parent()
}

// stepstoneParseCard splits a result card into company, location, teaser
// snippet, posted text and whether it advertises remote work.
func stepstoneParseCard(card *goquery.Selection, title string) (string, string, string, string, bool) {
	if card == nil || card.Length() == 0 {
		return "", "", "", "", false
	}

	posted := stepstonePostedText(card)
	lines := stepstoneCardLines(card, title)

	remote := false
	for _, line := range lines {
		if stepstoneIsRemoteLine(line) {
			remote = true
			break
		}
	}

	candidates := make([]string, 0, len(lines))
	for _, line := range lines {
		if stepstoneIsNoiseLine(line) || stepstoneIsRemoteLine(line) || stepstoneIsPostedLine(line) {
			continue
		}
		candidates = append(candidates, line)
	}

	var company, location, snippet string
	if len(candidates) > 0 {
		company = candidates[0]
	}
	if len(candidates) > 1 {
		location = candidates[1]
	}

	teaser := cleanText(card.Find("[data-at='job-item-teaser'], [data-testid='job-item-teaser']").First().Text())
	if teaser != "" && teaser != company && teaser != location {
		snippet = teaser
	}
	if snippet == "" && len(candidates) > 2 {
		for _, line := range candidates[2:] {
			if len(line) >= 30 {
				snippet = line
				break
			}
		}
		if snippet == "" {
			snippet = candidates[2]
		}
	}

	if posted == "" {
		for _, line := range lines {
			if stepstoneIsPostedLine(line) {
				posted = line
				break
			}
		}
	}

	return company, location, snippet, posted, remote
}

func stepstoneCardLines(card *goquery.Selection, title string) []string {
	parts := strings.Split(card.Text(), "\n")
	out := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, part := range parts {
		line := cleanText(part)
		if line == "" || line == title {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

func stepstonePostedText(card *goquery.Selection) string {
	t := card.Find("time").First()
	if value := cleanText(t.AttrOr("datetime", "")); value != "" {
		return value
	}
	return cleanText(t.Text())
}

func stepstoneIsRemoteLine(line string) bool {
	value := strings.ToLower(line)
	return strings.Contains(value, "home-office") ||
		strings.Contains(value, "homeoffice") ||
		strings.Contains(value, "remote")
}

func stepstoneIsPostedLine(line string) bool {
	value := strings.ToLower(line)
	if strings.HasPrefix(value, "vor ") {
		return true
	}
	return value == "heute" || value == "gestern"
}

func stepstoneIsNoiseLine(line string) bool {
	value := strings.ToLower(line)
	switch value {
	case "gehalt", "mehr", "neu", "top-job":
		return true
	}
	return strings.Contains(value, "gehalt anzeigen") ||
		strings.Contains(value, "schnelle bewerbung") ||
		strings.Contains(value, "anschreiben nicht erforderlich")
}

// parseStepstoneDescription reads the job ad body, falling back to the
// posting's JSON-LD description.
func parseStepstoneDescription(doc *goquery.Document) string {
	if desc := cleanText(blockText(doc.Find("[data-at='jobad-description']").First())); desc != "" {
		return desc
	}
	for _, job := range parseJSONLDJobs(doc, SiteStepstone) {
		if job.Description != "" {
			return job.Description
		}
	}
	return ""
}
