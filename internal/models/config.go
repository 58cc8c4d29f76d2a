package models

import "time"

// ScraperConfig contains runtime options shared by scrapers.
type ScraperConfig struct {
	Proxies        []string
	UserAgent      string
	RequestTimeout time.Duration
	MinDelay       time.Duration
	RetryBase      time.Duration
	AdzunaAppID    string
	AdzunaAppKey   string
}
