package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
	"github.com/jimezsa/fithire/internal/skills"
)

func fetchDocument(ctx context.Context, session *network.Session, target string, headers map[string]string) (*goquery.Document, error) {
	body, err := session.Get(ctx, target, applyHeaders(headers))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}
	return doc, nil
}

func fetchJSON(ctx context.Context, session *network.Session, target string, out any) error {
	body, err := session.Get(ctx, target, map[string]string{"accept": "application/json"})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}

func applyHeaders(headers map[string]string) map[string]string {
	out := map[string]string{
		"accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"accept-language": "en-US,en;q=0.9",
	}
	for key, value := range headers {
		out[key] = value
	}
	return out
}

func cleanText(value string) string {
	value = html.UnescapeString(value)
	return strings.Join(strings.Fields(value), " ")
}

// htmlText flattens an HTML fragment to whitespace-normalized text.
func htmlText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return cleanText(fragment)
	}
	return cleanText(blockText(doc.Selection))
}

// blockText returns the text of s with block elements separated by spaces.
func blockText(s *goquery.Selection) string {
	s.Find("br, p, li, div, h1, h2, h3, h4, tr").Each(func(_ int, el *goquery.Selection) {
		el.AppendHtml(" ")
	})
	return s.Text()
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func parsePostedAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05",
		time.RFC1123Z,
		time.RFC1123,
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %s", value)
}

var (
	agePattern   = regexp.MustCompile(`(\d+)\+?\s*(minute|min|hour|hr|stunde|day|tag|week|woche|month|monat)`)
	justPosted   = []string{"just posted", "today", "heute", "gerade", "just now", "moments ago"}
	postedOneDay = []string{"yesterday", "gestern"}
)

// parseRelativeAge turns listing ages such as "3 days ago", "30+ days ago",
// "vor 2 Tagen" or "heute" into a date relative to now.
func parseRelativeAge(value string, now time.Time) (time.Time, bool) {
	value = strings.ToLower(cleanText(value))
	if value == "" {
		return time.Time{}, false
	}
	for _, word := range postedOneDay {
		if strings.Contains(value, word) {
			return now.AddDate(0, 0, -1), true
		}
	}
	if m := agePattern.FindStringSubmatch(value); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		switch m[2] {
		case "minute", "min":
			return now.Add(-time.Duration(n) * time.Minute), true
		case "hour", "hr", "stunde":
			return now.Add(-time.Duration(n) * time.Hour), true
		case "day", "tag":
			return now.AddDate(0, 0, -n), true
		case "week", "woche":
			return now.AddDate(0, 0, -7*n), true
		case "month", "monat":
			return now.AddDate(0, -n, 0), true
		}
	}
	for _, word := range justPosted {
		if strings.Contains(value, word) {
			return now, true
		}
	}
	return time.Time{}, false
}

// postedDate resolves absolute or relative date text; unknown values give the zero time.
func postedDate(value string, now time.Time) time.Time {
	if ts, err := parsePostedAt(value); err == nil {
		return models.Day(ts)
	}
	if ts, ok := parseRelativeAge(value, now); ok {
		return models.Day(ts)
	}
	return time.Time{}
}

func parseJSONLDJobs(doc *goquery.Document, site string) []models.JobPosting {
	var jobs []models.JobPosting
	seen := map[string]struct{}{}

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}

		for _, job := range extractJobsFromJSONLD(data, site) {
			key := job.ApplicationLink
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			jobs = append(jobs, job)
		}
	})

	return jobs
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func extractJobsFromJSONLD(data any, site string) []models.JobPosting {
	var jobs []models.JobPosting

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			jobs = append(jobs, extractJobsFromJSONLD(item, site)...)
		}
	case map[string]any:
		if typ := strings.ToLower(stringValue(value["@type"], value["type"])); typ != "" {
			switch typ {
			case "jobposting":
				jobs = append(jobs, jobFromJobPosting(value, site))
				return jobs
			case "itemlist":
				jobs = append(jobs, jobsFromItemList(value, site)...)
			}
		}
		if graph, ok := value["@graph"]; ok {
			jobs = append(jobs, extractJobsFromJSONLD(graph, site)...)
		}
		if main, ok := value["mainEntity"]; ok {
			jobs = append(jobs, extractJobsFromJSONLD(main, site)...)
		}
	}

	return jobs
}

func jobsFromItemList(value map[string]any, site string) []models.JobPosting {
	items, ok := value["itemListElement"]
	if !ok {
		return nil
	}

	var jobs []models.JobPosting
	switch list := items.(type) {
	case []any:
		for _, item := range list {
			jobs = append(jobs, extractJobsFromJSONLD(item, site)...)
		}
	case map[string]any:
		jobs = append(jobs, extractJobsFromJSONLD(list, site)...)
	}
	return jobs
}

func jobFromJobPosting(value map[string]any, site string) models.JobPosting {
	job := models.JobPosting{Source: site}
	job.Title = stringValue(value["title"], value["name"])
	job.Company = stringValue(mapValue(value["hiringOrganization"], "name"))
	job.ApplicationLink = stringValue(value["url"], value["@id"])
	if raw := stringValue(value["datePosted"]); raw != "" {
		if ts, err := parsePostedAt(raw); err == nil {
			job.PostedDate = models.Day(ts)
		}
	}
	job.Location = locationFromJSONLD(value["jobLocation"])
	job.Description = htmlText(stringValue(value["description"]))
	job.SkillsRequired = skillsFromJSONLD(value["skills"])
	return job
}

func skillsFromJSONLD(value any) []string {
	switch v := value.(type) {
	case string:
		return splitList(v)
	case []any:
		var out []string
		for _, item := range v {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func locationFromJSONLD(value any) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case []any:
		var parts []string
		for _, item := range v {
			loc := locationFromJSONLD(item)
			if loc != "" {
				parts = append(parts, loc)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		address := v["address"]
		if addressMap, ok := address.(map[string]any); ok {
			return joinAddress(addressMap)
		}
		return joinAddress(v)
	case string:
		return v
	}

	return ""
}

func joinAddress(value map[string]any) string {
	parts := []string{
		stringValue(value["addressLocality"]),
		stringValue(value["addressRegion"]),
		stringValue(value["addressCountry"]),
	}
	var cleaned []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cleaned = append(cleaned, part)
	}
	return strings.Join(cleaned, ", ")
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case json.Number:
			return v.String()
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// finalize fills in detected skills and drops postings without a title or link.
func finalize(jobs []models.JobPosting) []models.JobPosting {
	out := jobs[:0]
	for _, job := range jobs {
		if job.Title == "" || job.ApplicationLink == "" {
			continue
		}
		if len(job.SkillsRequired) == 0 {
			job.SkillsRequired = skills.Detect(job.Title + " " + job.Description)
		}
		out = append(out, job)
	}
	return out
}

func dedupeJobs(jobs []models.JobPosting) []models.JobPosting {
	seen := map[string]struct{}{}
	out := make([]models.JobPosting, 0, len(jobs))
	for _, job := range jobs {
		key := job.ApplicationLink
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, job)
	}
	return out
}

func limitJobs(jobs []models.JobPosting, limit int) []models.JobPosting {
	if limit <= 0 || len(jobs) <= limit {
		return jobs
	}
	return jobs[:limit]
}

func reachedLimit(jobs []models.JobPosting, limit int) bool {
	return limit > 0 && len(jobs) >= limit
}

// defaultMaxResults caps a source's results when the search sets no limit.
const defaultMaxResults = 50

func resultLimit(params models.SearchParams) int {
	if params.MaxResults > 0 {
		return params.MaxResults
	}
	return defaultMaxResults
}

// matchesKeywords reports whether every keyword term occurs in text.
// Feeds without server-side search are filtered with it.
func matchesKeywords(text string, keywords string) bool {
	text = strings.ToLower(text)
	for _, term := range strings.Fields(strings.ToLower(keywords)) {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}
