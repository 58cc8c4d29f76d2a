package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/fithire/internal/config"
	"github.com/jimezsa/fithire/internal/ingest"
	"github.com/jimezsa/fithire/internal/models"
)

type RefreshCmd struct {
	SearchFlags
}

// SearchFlags override the configured search used by refresh and serve.
type SearchFlags struct {
	Keywords string `help:"Search keywords." short:"k"`
	Location string `help:"Job location."`
	Country  string `help:"Country code (Indeed/Adzuna)."`
	Max      int    `help:"Maximum results per source."`
	Sources  string `help:"Comma-separated list of sources (default: config)."`
	Proxies  string `help:"Comma-separated proxy URLs."`
}

func (f SearchFlags) params(cfg config.Config) models.SearchParams {
	return models.SearchParams{
		Keywords:   firstNonEmpty(f.Keywords, cfg.Keywords),
		Location:   firstNonEmpty(f.Location, cfg.Location),
		Country:    firstNonEmpty(f.Country, cfg.Country),
		MaxResults: defaultInt(f.Max, cfg.MaxResults),
	}
}

func (r *RefreshCmd) Run(ctx *Context) error {
	runCtx, cancel := signalContext()
	defer cancel()

	scrapers, err := ctx.Scrapers(config.SplitCSV(r.Sources), r.Proxies)
	if err != nil {
		return err
	}
	st, err := ctx.OpenStore(runCtx)
	if err != nil {
		return err
	}
	defer st.Close()

	locker, closeLocker, err := ctx.Locker(runCtx)
	if err != nil {
		return err
	}
	defer closeLocker()

	params := r.params(ctx.Config)
	ctx.Logger.Debug().Str("keywords", params.Keywords).Str("location", params.Location).Int("max", params.MaxResults).Msg("refresh")

	stop := startIndicator(ctx, "Refreshing")
	report, err := ctx.Orchestrator(st, scrapers, locker).Refresh(runCtx, params)
	if stop != nil {
		stop()
	}
	if err != nil {
		return err
	}
	return writeReport(ctx, report)
}

func writeReport(ctx *Context, report ingest.Report) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if ctx.PlainText {
		for _, src := range report.Sources {
			fmt.Fprintf(ctx.Out, "%s\t%d\t%s\n", src.Source, src.Count, src.Error)
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "source\tjobs\tduration\terror")
	for _, src := range report.Sources {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", src.Source, src.Count, src.Duration.Round(time.Millisecond), src.Error)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if ctx.UI == nil {
		return nil
	}
	var failed []string
	for _, src := range report.Sources {
		if src.Error != "" {
			failed = append(failed, src.Source)
		}
	}
	if len(failed) > 0 {
		ctx.UI.Warnf("Sources with errors: %s", strings.Join(failed, ", "))
	}
	if report.Fallback {
		ctx.UI.Warnf("No recent postings found; stored sample jobs instead.")
	}
	ctx.UI.Successf("Fetched %d, unique %d, recent %d, inserted %d, already stored %d",
		report.Fetched, report.Unique, report.Recent, report.Inserted, report.Duplicates)
	return nil
}
