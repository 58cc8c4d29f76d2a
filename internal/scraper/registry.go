package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/network"
	"github.com/rs/zerolog"
)

const (
	SiteLinkedIn       = "linkedin"
	SiteIndeed         = "indeed"
	SiteGlassdoor      = "glassdoor"
	SiteStepstone      = "stepstone"
	SiteRemoteOK       = "remoteok"
	SiteWeWorkRemotely = "weworkremotely"
	SiteAdzuna         = "adzuna"
)

// Sites lists every source in registration order.
var Sites = []string{
	SiteLinkedIn,
	SiteIndeed,
	SiteGlassdoor,
	SiteStepstone,
	SiteRemoteOK,
	SiteWeWorkRemotely,
	SiteAdzuna,
}

// Registry builds one scraper per known site, each with its own client and session.
func Registry(cfg models.ScraperConfig, logger zerolog.Logger) (map[string]Scraper, error) {
	var rotator *network.Rotator
	if len(cfg.Proxies) > 0 {
		var err error
		rotator, err = network.NewRotator(cfg.Proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
		logger.Debug().Int("proxies", rotator.Available()).Msg("proxy rotation enabled")
	}

	makeSession := func(site string) (*network.Session, error) {
		client, err := network.NewClient(rotator, cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", site, err)
		}
		retry := network.DefaultRetryPolicy()
		if cfg.RetryBase > 0 {
			retry.BaseDelay = cfg.RetryBase
		}
		return network.NewSession(client, network.SessionOptions{
			UserAgent: cfg.UserAgent,
			MinDelay:  cfg.MinDelay,
			Timeout:   cfg.RequestTimeout,
			Retry:     retry,
			Logger:    logger.With().Str("source", site).Logger(),
		}), nil
	}

	registry := make(map[string]Scraper, len(Sites))
	for _, site := range Sites {
		session, err := makeSession(site)
		if err != nil {
			return nil, err
		}
		switch site {
		case SiteLinkedIn:
			registry[site] = NewLinkedIn(session)
		case SiteIndeed:
			registry[site] = NewIndeed(session)
		case SiteGlassdoor:
			registry[site] = NewGlassdoor(session)
		case SiteStepstone:
			registry[site] = NewStepstone(session)
		case SiteRemoteOK:
			registry[site] = NewRemoteOK(session)
		case SiteWeWorkRemotely:
			registry[site] = NewWeWorkRemotely(session)
		case SiteAdzuna:
			registry[site] = NewAdzuna(session, cfg.AdzunaAppID, cfg.AdzunaAppKey)
		}
	}
	return registry, nil
}

// Select returns the requested scrapers in registration order. An empty
// request or "all" selects every site.
func Select(registry map[string]Scraper, requested []string) ([]Scraper, error) {
	names := expandAliases(NormalizeSites(requested))
	want := map[string]struct{}{}
	all := len(names) == 0
	for _, name := range names {
		if name == "all" {
			all = true
			continue
		}
		if _, ok := registry[name]; !ok {
			return nil, fmt.Errorf("unknown site: %s", name)
		}
		want[name] = struct{}{}
	}

	selected := make([]Scraper, 0, len(registry))
	for _, site := range Sites {
		sc, ok := registry[site]
		if !ok {
			continue
		}
		if _, requested := want[site]; all || requested {
			selected = append(selected, sc)
		}
	}
	return selected, nil
}

func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		site = strings.TrimPrefix(site, "www.")
		out = append(out, site)
	}
	return out
}

func expandAliases(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		switch site {
		case "stepstone.de", "stepstone-de":
			out = append(out, SiteStepstone)
		case "wwr", "weworkremotely.com":
			out = append(out, SiteWeWorkRemotely)
		case "remoteok.com", "remote-ok":
			out = append(out, SiteRemoteOK)
		default:
			out = append(out, site)
		}
	}
	return out
}

// Canonical maps a user supplied site name or alias to its registry name.
// Unknown names are returned normalized but otherwise unchanged.
func Canonical(site string) string {
	sites := expandAliases(NormalizeSites([]string{site}))
	if len(sites) == 0 {
		return ""
	}
	return sites[0]
}
