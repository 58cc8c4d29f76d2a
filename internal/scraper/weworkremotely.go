package scraper

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
)

const weWorkRemotelyFeed = "https://weworkremotely.com/remote-jobs.rss"

// WeWorkRemotely reads the site-wide RSS feed and filters it by keyword.
type WeWorkRemotely struct {
	session *network.Session
}

func NewWeWorkRemotely(session *network.Session) *WeWorkRemotely {
	return &WeWorkRemotely{session: session}
}

func (w *WeWorkRemotely) Name() string {
	return SiteWeWorkRemotely
}

type rssFeed struct {
	Items []rssItem `xml:"channel>item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Region      string `xml:"region"`
	Description string `xml:"description"`
}

func (w *WeWorkRemotely) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	body, err := w.session.Get(ctx, weWorkRemotelyFeed, map[string]string{
		"accept": "application/rss+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return nil, fmt.Errorf("weworkremotely: %w", err)
	}
	jobs, err := parseWeWorkRemotelyFeed(body, params.Keywords)
	if err != nil {
		return nil, fmt.Errorf("weworkremotely: %w", err)
	}
	return finalize(limitJobs(dedupeJobs(jobs), resultLimit(params))), nil
}

func parseWeWorkRemotelyFeed(body []byte, keywords string) ([]models.JobPosting, error) {
	var feed rssFeed
	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.Strict = false
	if err := decoder.Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	var jobs []models.JobPosting
	for _, item := range feed.Items {
		company, title := splitWeWorkRemotelyTitle(cleanText(item.Title))
		description := htmlText(item.Description)
		if !matchesKeywords(title+" "+description, keywords) {
			continue
		}

		location := cleanText(item.Region)
		if location == "" {
			location = "Remote"
		}

		job := models.JobPosting{
			Source:          SiteWeWorkRemotely,
			Title:           title,
			Company:         company,
			Location:        location,
			Description:     description,
			ApplicationLink: strings.TrimSpace(item.Link),
		}
		if ts, err := parsePostedAt(item.PubDate); err == nil {
			job.PostedDate = models.Day(ts)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// splitWeWorkRemotelyTitle splits "Company: Title" item titles.
func splitWeWorkRemotelyTitle(value string) (company string, title string) {
	if before, after, ok := strings.Cut(value, ":"); ok {
		return strings.TrimSpace(before), strings.TrimSpace(after)
	}
	return "", value
}
