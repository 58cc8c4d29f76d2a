package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
)

type Glassdoor struct {
	session *network.Session
	now     func() time.Time
}

func NewGlassdoor(session *network.Session) *Glassdoor {
	return &Glassdoor{session: session, now: time.Now}
}

func (g *Glassdoor) Name() string {
	return SiteGlassdoor
}

func (g *Glassdoor) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	doc, err := fetchDocument(ctx, g.session, buildGlassdoorURL(params), nil)
	if err != nil {
		return nil, fmt.Errorf("glassdoor: %w", err)
	}

	jobs := parseJSONLDJobs(doc, SiteGlassdoor)
	jobs = append(jobs, parseGlassdoorJobs(doc, g.now())...)
	jobs = dedupeJobs(jobs)
	return finalize(limitJobs(jobs, resultLimit(params))), nil
}

func buildGlassdoorURL(params models.SearchParams) string {
	values := url.Values{}
	values.Set("sc.keyword", params.Keywords)
	if params.Location != "" {
		values.Set("locKeyword", params.Location)
	}
	return fmt.Sprintf("https://www.glassdoor.com/Job/jobs.htm?%s", values.Encode())
}

func parseGlassdoorJobs(doc *goquery.Document, now time.Time) []models.JobPosting {
	var jobs []models.JobPosting

	doc.Find(".react-job-listing, [data-test='jobListing']").Each(func(_ int, s *goquery.Selection) {
		title := cleanText(s.Find(".jobLink").First().Text())
		if title == "" {
			title = cleanText(s.Find("[data-test='job-title']").First().Text())
		}

		company := cleanText(s.Find(".jobEmployerName").First().Text())
		if company == "" {
			company = cleanText(s.Find("[data-test='employer-name']").First().Text())
		}

		location := cleanText(s.Find(".jobLocation").First().Text())
		if location == "" {
			location = cleanText(s.Find("[data-test='emp-location']").First().Text())
		}

		link := s.Find("a.jobLink, a[data-test='job-title']").First().AttrOr("href", "")
		link = absoluteURL("https://www.glassdoor.com", link)
		if title == "" || link == "" {
			return
		}

		age := cleanText(s.Find("[data-test='job-age']").First().Text())
		posted := glassdoorAge(age, now)
		if posted.IsZero() {
			posted = postedDate(age, now)
		}

		jobs = append(jobs, models.JobPosting{
			Source:          SiteGlassdoor,
			Title:           title,
			Company:         company,
			Location:        location,
			Description:     cleanText(s.Find("[data-test='descSnippet'], .jobDescriptionContent").First().Text()),
			ApplicationLink: link,
			PostedDate:      posted,
		})
	})

	return jobs
}

var glassdoorAgePattern = regexp.MustCompile(`^(\d+)\s*([dh])\+?$`)

// glassdoorAge reads the compact "24h" and "30d+" listing ages.
func glassdoorAge(value string, now time.Time) time.Time {
	m := glassdoorAgePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(value)))
	if m == nil {
		return time.Time{}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}
	}
	if m[2] == "h" {
		return models.Day(now.Add(-time.Duration(n) * time.Hour))
	}
	return models.Day(now.AddDate(0, 0, -n))
}
