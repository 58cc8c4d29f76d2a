package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
)

const (
	adzunaAPI      = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	adzunaMaxPages = 3
)

// Adzuna queries the Adzuna search API. It needs application credentials;
// without them the source yields nothing.
type Adzuna struct {
	session *network.Session
	appID   string
	appKey  string
}

func NewAdzuna(session *network.Session, appID string, appKey string) *Adzuna {
	return &Adzuna{session: session, appID: appID, appKey: appKey}
}

func (a *Adzuna) Name() string {
	return SiteAdzuna
}

type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RedirectURL string `json:"redirect_url"`
	Created     string `json:"created"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

func (a *Adzuna) Search(ctx context.Context, params models.SearchParams) ([]models.JobPosting, error) {
	if a.appID == "" || a.appKey == "" {
		return nil, nil
	}

	limit := resultLimit(params)
	var jobs []models.JobPosting
	for page := 1; page <= adzunaMaxPages && !reachedLimit(jobs, limit); page++ {
		var resp adzunaResponse
		if err := fetchJSON(ctx, a.session, a.searchURL(params, page), &resp); err != nil {
			return finalize(limitJobs(jobs, limit)), fmt.Errorf("adzuna: %w", err)
		}
		if len(resp.Results) == 0 {
			break
		}
		jobs = dedupeJobs(append(jobs, parseAdzunaJobs(resp)...))
		if len(resp.Results) < adzunaPageSize {
			break
		}
	}
	return finalize(limitJobs(jobs, limit)), nil
}

func (a *Adzuna) searchURL(params models.SearchParams, page int) string {
	values := url.Values{}
	values.Set("app_id", a.appID)
	values.Set("app_key", a.appKey)
	values.Set("results_per_page", fmt.Sprintf("%d", adzunaPageSize))
	values.Set("content-type", "application/json")
	if params.Keywords != "" {
		values.Set("what", params.Keywords)
	}
	if params.Location != "" {
		values.Set("where", params.Location)
	}
	return fmt.Sprintf("%s/%s/search/%d?%s", adzunaAPI, adzunaCountry(params.Country), page, values.Encode())
}

func adzunaCountry(country string) string {
	country = strings.ToLower(strings.TrimSpace(country))
	switch country {
	case "", "usa":
		return "us"
	case "uk":
		return "gb"
	}
	return country
}

func parseAdzunaJobs(resp adzunaResponse) []models.JobPosting {
	jobs := make([]models.JobPosting, 0, len(resp.Results))
	for _, item := range resp.Results {
		job := models.JobPosting{
			Source:          SiteAdzuna,
			Title:           htmlText(item.Title),
			Company:         cleanText(item.Company.DisplayName),
			Location:        cleanText(item.Location.DisplayName),
			Description:     htmlText(item.Description),
			ApplicationLink: strings.TrimSpace(item.RedirectURL),
		}
		if ts, err := parsePostedAt(item.Created); err == nil {
			job.PostedDate = models.Day(ts)
		}
		jobs = append(jobs, job)
	}
	return jobs
}
