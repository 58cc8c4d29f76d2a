package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
)

const indeedPageSize = 10

type Indeed struct {
	session *network.Session
	now     func() time.Time
}

func NewIndeed(session *network.Session) *Indeed {
	return &Indeed{session: session, now: time.Now}
}

func (i *Indeed) Name() string {
	return SiteIndeed
}

func (i *Indeed) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	limit := resultLimit(params)
	base := baseIndeedURL(params.Country)
	now := i.now()

	var jobs []models.JobPosting
	var keys []string
	for start := 0; !reachedLimit(jobs, limit); start += indeedPageSize {
		doc, err := fetchDocument(ctx, i.session, buildIndeedURL(params, start), nil)
		if err != nil {
			jobs, keys = trimIndeed(jobs, keys, limit)
			return i.describe(ctx, base, jobs, keys), fmt.Errorf("indeed: %w", err)
		}
		page, pageKeys := parseIndeedJobs(doc, base, now)
		added := 0
		for n, job := range page {
			if containsLink(jobs, job.ApplicationLink) {
				continue
			}
			jobs = append(jobs, job)
			keys = append(keys, pageKeys[n])
			added++
		}
		if added == 0 || len(page) < indeedPageSize {
			break
		}
	}

	jobs, keys = trimIndeed(jobs, keys, limit)
	jobs = i.describe(ctx, base, jobs, keys)
	if err := ctx.Err(); err != nil {
		return jobs, fmt.Errorf("indeed: %w", err)
	}
	return jobs, nil
}

func (i *Indeed) describe(ctx context.Context, base string, jobs []models.JobPosting, keys []string) []models.JobPosting {
	for n := range jobs {
		if ctx.Err() != nil {
			break
		}
		if keys[n] == "" {
			continue
		}
		doc, err := fetchDocument(ctx, i.session, indeedDetailURL(base, keys[n]), nil)
		if err != nil {
			continue
		}
		if desc := cleanText(blockText(doc.Find("#jobDescriptionText").First())); desc != "" {
			jobs[n].Description = desc
		}
	}
	return finalize(jobs)
}

func trimIndeed(jobs []models.JobPosting, keys []string, limit int) ([]models.JobPosting, []string) {
	if limit > 0 && len(jobs) > limit {
		return jobs[:limit], keys[:limit]
	}
	return jobs, keys
}

func containsLink(jobs []models.JobPosting, link string) bool {
	for _, job := range jobs {
		if job.ApplicationLink == link {
			return true
		}
	}
	return false
}

func buildIndeedURL(params models.SearchParams, start int) string {
	values := url.Values{}
	values.Set("q", params.Keywords)
	if params.Location != "" {
		values.Set("l", params.Location)
	}
	if start > 0 {
		values.Set("start", fmt.Sprintf("%d", start))
	}
	return fmt.Sprintf("%s/jobs?%s", baseIndeedURL(params.Country), values.Encode())
}

func baseIndeedURL(country string) string {
	country = strings.TrimSpace(strings.ToLower(country))
	switch country {
	case "", "usa", "us":
		return "https://www.indeed.com"
	case "uk", "gb":
		return "https://uk.indeed.com"
	}
	return fmt.Sprintf("https://%s.indeed.com", country)
}

func indeedDetailURL(base string, key string) string {
	return base + "/viewjob?jk=" + url.QueryEscape(key)
}

// parseIndeedJobs returns the result cards of a search page along with their
// job keys; a card without a key gets "".
func parseIndeedJobs(doc *goquery.Document, base string, now time.Time) ([]models.JobPosting, []string) {
	var jobs []models.JobPosting
	var keys []string

	doc.Find("div.job_seen_beacon, a.tapItem").Each(func(_ int, s *goquery.Selection) {
		anchor := s
		if !s.Is("a") {
			anchor = s.Find("h2.jobTitle a, a.jcs-JobTitle").First()
		}

		title := cleanText(s.Find("h2.jobTitle span").First().Text())
		link := absoluteURL(base, anchor.AttrOr("href", ""))
		if title == "" || link == "" {
			return
		}
		if containsLink(jobs, link) {
			return
		}

		key := anchor.AttrOr("data-jk", "")
		if key == "" {
			if parsed, err := url.Parse(link); err == nil {
				key = parsed.Query().Get("jk")
			}
		}

		jobs = append(jobs, models.JobPosting{
			Source:          SiteIndeed,
			Title:           title,
			Company:         cleanText(s.Find("span.companyName, [data-testid='company-name']").First().Text()),
			Location:        cleanText(s.Find("div.companyLocation, [data-testid='text-location']").First().Text()),
			Description:     cleanText(s.Find("div.job-snippet").Text()),
			ApplicationLink: link,
			PostedDate:      postedDate(s.Find("span.date").First().Text(), now),
		})
		keys = append(keys, key)
	})

	return jobs, keys
}
