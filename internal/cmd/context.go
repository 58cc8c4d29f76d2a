package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jimezsa/fithire/internal/config"
	"github.com/jimezsa/fithire/internal/ingest"
	"github.com/jimezsa/fithire/internal/lock"
	"github.com/jimezsa/fithire/internal/scraper"
	"github.com/jimezsa/fithire/internal/store"
	"github.com/jimezsa/fithire/internal/ui"
	"github.com/rs/zerolog"
)

type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode
}

// OpenStore opens the configured job store.
func (c *Context) OpenStore(ctx context.Context) (store.Store, error) {
	dsn, err := c.Config.DatabaseDSN()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}
	c.Logger.Debug().Str("dsn", dsn).Msg("job store opened")
	return st, nil
}

// Locker returns a Redis lock when redis_url is set so several processes
// share one refresh at a time. The returned close func is never nil.
func (c *Context) Locker(ctx context.Context) (lock.Locker, func(), error) {
	if c.Config.RedisURL == "" {
		return lock.NewLocal(), func() {}, nil
	}
	client, err := lock.Connect(ctx, c.Config.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return lock.NewRedis(client), func() { _ = client.Close() }, nil
}

// Scrapers builds the selected sources. Empty sources fall back to config.
func (c *Context) Scrapers(sources []string, proxyFlag string) ([]scraper.Scraper, error) {
	proxies, err := config.LoadProxies(proxyFlag)
	if err != nil {
		return nil, err
	}
	registry, err := scraper.Registry(c.Config.Scraper(proxies), c.Logger)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		sources = c.Config.Sources
	}
	return scraper.Select(registry, sources)
}

// Orchestrator wires store, sources and lock into an ingest.Orchestrator.
func (c *Context) Orchestrator(st store.Store, scrapers []scraper.Scraper, locker lock.Locker) *ingest.Orchestrator {
	return ingest.New(st, scrapers, ingest.Options{
		Lookback:      c.Config.Lookback(),
		SourceTimeout: c.Config.SourceTimeout(),
		Locker:        locker,
		Logger:        c.Logger,
		Now:           time.Now,
	})
}
