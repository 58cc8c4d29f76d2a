package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
)

const remoteOKAPI = "https://remoteok.com/api"

// RemoteOK reads the public remoteok.com feed. The feed has no search, so
// postings are filtered by keyword locally.
type RemoteOK struct {
	session *network.Session
}

func NewRemoteOK(session *network.Session) *RemoteOK {
	return &RemoteOK{session: session}
}

func (r *RemoteOK) Name() string {
	return SiteRemoteOK
}

type remoteOKJob struct {
	Slug        string   `json:"slug"`
	Position    string   `json:"position"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	URL         string   `json:"url"`
	ApplyURL    string   `json:"apply_url"`
	Tags        []string `json:"tags"`
}

func (r *RemoteOK) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	var raw []json.RawMessage
	if err := fetchJSON(ctx, r.session, remoteOKAPI, &raw); err != nil {
		return nil, fmt.Errorf("remoteok: %w", err)
	}
	jobs := parseRemoteOKJobs(raw, params.Keywords)
	return finalize(limitJobs(dedupeJobs(jobs), resultLimit(params))), nil
}

// parseRemoteOKJobs decodes the feed entries. The first entry is a legal
// notice and entries that do not decode as postings are skipped.
func parseRemoteOKJobs(raw []json.RawMessage, keywords string) []models.JobPosting {
	var jobs []models.JobPosting
	for i, item := range raw {
		if i == 0 {
			continue
		}
		var entry remoteOKJob
		if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		if entry.Position == "" {
			continue
		}

		description := htmlText(entry.Description)
		haystack := entry.Position + " " + strings.Join(entry.Tags, " ") + " " + description
		if !matchesKeywords(haystack, keywords) {
			continue
		}

		link := entry.URL
		if link == "" && entry.Slug != "" {
			link = "https://remoteok.com/remote-jobs/" + entry.Slug
		}
		location := cleanText(entry.Location)
		if location == "" {
			location = "Remote"
		}

		job := models.JobPosting{
			Source:          SiteRemoteOK,
			Title:           cleanText(entry.Position),
			Company:         cleanText(entry.Company),
			Location:        location,
			Description:     description,
			ApplicationLink: link,
			SkillsRequired:  entry.Tags,
		}
		if ts, err := parsePostedAt(entry.Date); err == nil {
			job.PostedDate = models.Day(ts)
		}
		jobs = append(jobs, job)
	}
	return jobs
}
