package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/fithire/internal/config"
	"github.com/jimezsa/fithire/internal/network"
	"github.com/jimezsa/fithire/internal/scraper"
	"golang.org/x/sync/errgroup"
)

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Validate proxies against a job source."`
}

type ProxyCheckCmd struct {
	Source      string `help:"Source whose search page is requested." default:"linkedin"`
	Target      string `help:"Explicit target URL; overrides --source."`
	Timeout     int    `help:"Timeout in seconds." default:"15"`
	Concurrency int    `help:"Proxies checked at once." default:"4"`
	Proxies     string `help:"Comma-separated proxy URLs (default: configured proxies)."`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

var proxyCheckTargets = map[string]string{
	scraper.SiteLinkedIn:       "https://www.linkedin.com/jobs",
	scraper.SiteIndeed:         "https://www.indeed.com",
	scraper.SiteGlassdoor:      "https://www.glassdoor.com/Job/index.htm",
	scraper.SiteStepstone:      "https://www.stepstone.de",
	scraper.SiteRemoteOK:       "https://remoteok.com",
	scraper.SiteWeWorkRemotely: "https://weworkremotely.com",
	scraper.SiteAdzuna:         "https://www.adzuna.com",
}

func (p *ProxyCheckCmd) target() (string, error) {
	if strings.TrimSpace(p.Target) != "" {
		return strings.TrimSpace(p.Target), nil
	}
	target, ok := proxyCheckTargets[scraper.Canonical(p.Source)]
	if !ok {
		return "", fmt.Errorf("unknown source: %s", p.Source)
	}
	return target, nil
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	target, err := p.target()
	if err != nil {
		return err
	}
	proxies, err := config.LoadProxies(p.Proxies)
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		return fmt.Errorf("no proxies configured")
	}

	runCtx, cancel := signalContext()
	defer cancel()

	timeout := time.Duration(p.Timeout) * time.Second
	results := make([]ProxyCheckResult, len(proxies))
	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(max(p.Concurrency, 1))
	for i, proxy := range proxies {
		g.Go(func() error {
			results[i] = checkProxy(gctx, proxy, target, timeout)
			ctx.Logger.Debug().Str("proxy", proxy).Str("status", results[i].Status).Msg("proxy checked")
			return nil
		})
	}
	_ = g.Wait()

	return writeProxyResults(ctx, results)
}

func checkProxy(ctx context.Context, proxy, target string, timeout time.Duration) ProxyCheckResult {
	result := ProxyCheckResult{Proxy: proxy, Status: "error"}
	rotator, err := network.NewRotator([]string{proxy}, 5*time.Minute)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	client, err := network.NewClient(rotator, timeout)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := fhttp.NewRequestWithContext(reqCtx, fhttp.MethodGet, target, nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("User-Agent", network.DefaultUserAgent)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	_ = resp.Body.Close()

	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status = strconv.Itoa(resp.StatusCode)
	return result
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, strconv.FormatInt(res.LatencyMS, 10), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
