package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
)

const (
	linkedInSearchURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	linkedInDetailAPI = "https://www.linkedin.com/jobs-guest/jobs/api/jobPosting/"
	linkedInPageSize  = 25
)

var linkedInIDPattern = regexp.MustCompile(`(\d{6,})/?$`)

// LinkedIn reads the public guest job search, one page of cards at a time,
// and fills each card's description from the guest posting endpoint.
type LinkedIn struct {
	session *network.Session
	now     func() time.Time
}

func NewLinkedIn(session *network.Session) *LinkedIn {
	return &LinkedIn{session: session, now: time.Now}
}

func (l *LinkedIn) Name() string {
	return SiteLinkedIn
}

func (l *LinkedIn) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	limit := resultLimit(params)
	now := l.now()

	var jobs []models.JobPosting
	for start := 0; !reachedLimit(jobs, limit); start += linkedInPageSize {
		doc, err := fetchDocument(ctx, l.session, buildLinkedInURL(params, start), nil)
		if err != nil {
			return l.describe(ctx, limitJobs(dedupeJobs(jobs), limit)), fmt.Errorf("linkedin: %w", err)
		}
		page := parseLinkedInJobs(doc, now)
		if len(page) == 0 {
			break
		}
		before := len(jobs)
		jobs = dedupeJobs(append(jobs, page...))
		if len(jobs) == before || len(page) < linkedInPageSize {
			break
		}
	}

	jobs = l.describe(ctx, limitJobs(jobs, limit))
	if err := ctx.Err(); err != nil {
		return jobs, fmt.Errorf("linkedin: %w", err)
	}
	return jobs, nil
}

// describe replaces card snippets with full descriptions where the detail
// page can be fetched. Cards whose detail fetch fails are kept as they are.
func (l *LinkedIn) describe(ctx context.Context, jobs []models.JobPosting) []models.JobPosting {
	for i := range jobs {
		if ctx.Err() != nil {
			break
		}
		detail := linkedInDetailURL(jobs[i].ApplicationLink)
		if detail == "" {
			continue
		}
		doc, err := fetchDocument(ctx, l.session, detail, nil)
		if err != nil {
			continue
		}
		if desc := parseLinkedInDescription(doc); desc != "" {
			jobs[i].Description = desc
		}
	}
	return finalize(jobs)
}

func buildLinkedInURL(params models.SearchParams, start int) string {
	values := url.Values{}
	values.Set("keywords", params.Keywords)
	if params.Location != "" {
		values.Set("location", params.Location)
	}
	values.Set("start", fmt.Sprintf("%d", start))
	return linkedInSearchURL + "?" + values.Encode()
}

func parseLinkedInJobs(doc *goquery.Document, now time.Time) []models.JobPosting {
	var jobs []models.JobPosting

	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		title := cleanText(s.Find(".base-search-card__title").First().Text())
		link := s.Find("a.base-card__full-link").First().AttrOr("href", "")
		if title == "" || link == "" {
			return
		}
		link = strings.SplitN(absoluteURL("https://www.linkedin.com", link), "?", 2)[0]

		posted := s.Find("time").First()
		date := postedDate(posted.AttrOr("datetime", ""), now)
		if date.IsZero() {
			date = postedDate(posted.Text(), now)
		}

		jobs = append(jobs, models.JobPosting{
			Source:          SiteLinkedIn,
			Title:           title,
			Company:         cleanText(s.Find(".base-search-card__subtitle").First().Text()),
			Location:        cleanText(s.Find(".job-search-card__location").First().Text()),
			Description:     cleanText(s.Find(".job-search-card__snippet").First().Text()),
			ApplicationLink: link,
			PostedDate:      date,
		})
	})

	return jobs
}

// linkedInDetailURL maps a job view link to the guest posting endpoint, or
// returns "" when the link carries no job id.
func linkedInDetailURL(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return ""
	}
	m := linkedInIDPattern.FindStringSubmatch(parsed.Path)
	if m == nil {
		return ""
	}
	return linkedInDetailAPI + m[1]
}

func parseLinkedInDescription(doc *goquery.Document) string {
	markup := doc.Find(".show-more-less-html__markup").First()
	if markup.Length() == 0 {
		markup = doc.Find(".description__text").First()
	}
	return cleanText(blockText(markup))
}
