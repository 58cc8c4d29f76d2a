package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jimezsa/fithire/internal/models"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName          = "fithire"
	ConfigFileName   = "config.json"
	ProxiesFileName  = "proxies.txt"
	DatabaseFileName = "jobs.db"
)

// Config holds refresh, matching and storage settings. Every field can be
// overridden by a FITHIRE_* environment variable.
type Config struct {
	Keywords              string   `json:"keywords"`
	Location              string   `json:"location"`
	Country               string   `json:"country"`
	MaxResults            int      `json:"max_results"`
	LookbackDays          int      `json:"lookback_days"`
	Sources               []string `json:"sources"`
	SourceTimeoutSeconds  int      `json:"source_timeout_seconds"`
	RequestTimeoutSeconds int      `json:"request_timeout_seconds"`
	RequestDelayMS        int      `json:"request_delay_ms"`
	RetryBaseMS           int      `json:"retry_base_ms"`
	UserAgent             string   `json:"user_agent,omitempty"`
	Database              string   `json:"database,omitempty"`
	RedisURL              string   `json:"redis_url,omitempty"`
	Schedule              string   `json:"schedule"`
	TopN                  int      `json:"top_n"`
	AdzunaAppID           string   `json:"adzuna_app_id,omitempty"`
	AdzunaAppKey          string   `json:"adzuna_app_key,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Keywords:              envString("FITHIRE_KEYWORDS", "software engineer"),
		Location:              envString("FITHIRE_LOCATION", ""),
		Country:               envString("FITHIRE_COUNTRY", "usa"),
		MaxResults:            envInt("FITHIRE_MAX_RESULTS", 50),
		LookbackDays:          envInt("FITHIRE_LOOKBACK_DAYS", 15),
		Sources:               splitCSV(envString("FITHIRE_SOURCES", "all")),
		SourceTimeoutSeconds:  envInt("FITHIRE_SOURCE_TIMEOUT_SECONDS", 120),
		RequestTimeoutSeconds: envInt("FITHIRE_REQUEST_TIMEOUT_SECONDS", 30),
		RequestDelayMS:        envInt("FITHIRE_REQUEST_DELAY_MS", 1000),
		RetryBaseMS:           envInt("FITHIRE_RETRY_BASE_MS", 1000),
		UserAgent:             envString("FITHIRE_USER_AGENT", ""),
		Database:              envString("FITHIRE_DATABASE", ""),
		RedisURL:              envString("FITHIRE_REDIS_URL", ""),
		Schedule:              envString("FITHIRE_SCHEDULE", "@every 6h"),
		TopN:                  envInt("FITHIRE_TOP_N", 10),
		AdzunaAppID:           envString("ADZUNA_APP_ID", ""),
		AdzunaAppKey:          envString("ADZUNA_APP_KEY", ""),
	}
}

// ConfigDir returns FITHIRE_CONFIG_DIR or <user config dir>/fithire.
func ConfigDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("FITHIRE_CONFIG_DIR")); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := json5.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)

	return cfg, nil
}

// applyEnv lets environment variables win over values read from the file.
func applyEnv(cfg *Config) {
	overrides := DefaultConfig()
	set := func(key string) bool { return strings.TrimSpace(os.Getenv(key)) != "" }

	if set("FITHIRE_KEYWORDS") {
		cfg.Keywords = overrides.Keywords
	}
	if set("FITHIRE_LOCATION") {
		cfg.Location = overrides.Location
	}
	if set("FITHIRE_COUNTRY") {
		cfg.Country = overrides.Country
	}
	if set("FITHIRE_MAX_RESULTS") {
		cfg.MaxResults = overrides.MaxResults
	}
	if set("FITHIRE_LOOKBACK_DAYS") {
		cfg.LookbackDays = overrides.LookbackDays
	}
	if set("FITHIRE_SOURCES") {
		cfg.Sources = overrides.Sources
	}
	if set("FITHIRE_DATABASE") {
		cfg.Database = overrides.Database
	}
	if set("FITHIRE_REDIS_URL") {
		cfg.RedisURL = overrides.RedisURL
	}
	if set("FITHIRE_SCHEDULE") {
		cfg.Schedule = overrides.Schedule
	}
	if set("FITHIRE_TOP_N") {
		cfg.TopN = overrides.TopN
	}
	if set("ADZUNA_APP_ID") {
		cfg.AdzunaAppID = overrides.AdzunaAppID
	}
	if set("ADZUNA_APP_KEY") {
		cfg.AdzunaAppKey = overrides.AdzunaAppKey
	}
}

// DatabaseDSN returns the configured store DSN, defaulting to a SQLite file
// in the config directory.
func (c Config) DatabaseDSN() (string, error) {
	if strings.TrimSpace(c.Database) != "" {
		return c.Database, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, DatabaseFileName), nil
}

func (c Config) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

func (c Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSeconds) * time.Second
}

// Scraper returns the network settings shared by every source.
func (c Config) Scraper(proxies []string) models.ScraperConfig {
	return models.ScraperConfig{
		Proxies:        proxies,
		UserAgent:      c.UserAgent,
		RequestTimeout: time.Duration(c.RequestTimeoutSeconds) * time.Second,
		MinDelay:       time.Duration(c.RequestDelayMS) * time.Millisecond,
		RetryBase:      time.Duration(c.RetryBaseMS) * time.Millisecond,
		AdzunaAppID:    c.AdzunaAppID,
		AdzunaAppKey:   c.AdzunaAppKey,
	}
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	var created []string

	dir, err := ConfigDir()
	if err != nil {
		return created, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := strings.TrimSpace(os.Getenv("FITHIRE_PROXIES")); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

// SplitCSV splits a comma-separated list, dropping empty entries.
func SplitCSV(value string) []string {
	return splitCSV(value)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
