package scraper

import (
	"context"
	"testing"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/rs/zerolog"
)

type namedScraper string

func (n namedScraper) Name() string { return string(n) }

func (n namedScraper) Search(context.Context, models.SearchParams) ([]models.JobPosting, error) {
	return nil, nil
}

func fakeRegistry() map[string]Scraper {
	registry := map[string]Scraper{}
	for _, site := range Sites {
		registry[site] = namedScraper(site)
	}
	return registry
}

func names(scrapers []Scraper) []string {
	out := make([]string, 0, len(scrapers))
	for _, sc := range scrapers {
		out = append(out, sc.Name())
	}
	return out
}

func TestSelectKeepsRegistrationOrder(t *testing.T) {
	cases := []struct {
		requested []string
		want      []string
	}{
		{nil, Sites},
		{[]string{"all"}, Sites},
		{[]string{"adzuna", " LinkedIn ", "wwr"}, []string{SiteLinkedIn, SiteWeWorkRemotely, SiteAdzuna}},
		{[]string{"stepstone.de", "www.indeed"}, []string{SiteIndeed, SiteStepstone}},
	}

	for _, tc := range cases {
		got, err := Select(fakeRegistry(), tc.requested)
		if err != nil {
			t.Fatalf("Select(%v) error = %v", tc.requested, err)
		}
		gotNames := names(got)
		if len(gotNames) != len(tc.want) {
			t.Fatalf("Select(%v) = %v, want %v", tc.requested, gotNames, tc.want)
		}
		for i := range tc.want {
			if gotNames[i] != tc.want[i] {
				t.Fatalf("Select(%v) = %v, want %v", tc.requested, gotNames, tc.want)
			}
		}
	}
}

func TestSelectRejectsUnknownSite(t *testing.T) {
	if _, err := Select(fakeRegistry(), []string{"monster"}); err == nil {
		t.Fatalf("expected error for unknown site")
	}
}

func TestRegistryBuildsEverySite(t *testing.T) {
	registry, err := Registry(models.ScraperConfig{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Registry() error = %v", err)
	}
	for _, site := range Sites {
		sc, ok := registry[site]
		if !ok {
			t.Fatalf("missing scraper for %s", site)
		}
		if sc.Name() != site {
			t.Fatalf("scraper name = %q, want %q", sc.Name(), site)
		}
	}
}
