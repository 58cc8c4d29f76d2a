package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/jimezsa/fithire/internal/export"
	"github.com/jimezsa/fithire/internal/models"
	"github.com/jimezsa/fithire/internal/scraper"
	"github.com/jimezsa/fithire/internal/store"
)

type JobsCmd struct {
	OutputOptions
	Source string `help:"Only postings from this source."`
	Since  string `help:"Only postings dated on or after this day (YYYY-MM-DD)."`
	Days   int    `help:"Only postings from the last N days."`
	Count  bool   `help:"Print the number of stored postings and exit."`
}

func (j *JobsCmd) filter(now time.Time) (store.Filter, error) {
	var filter store.Filter
	filter.Source = scraper.Canonical(j.Source)
	if j.Since != "" && j.Days > 0 {
		return filter, fmt.Errorf("use --since or --days, not both")
	}
	if j.Since != "" {
		since, err := time.Parse(models.DateLayout, strings.TrimSpace(j.Since))
		if err != nil {
			return filter, fmt.Errorf("invalid --since %q: want YYYY-MM-DD", j.Since)
		}
		filter.Since = since
	}
	if j.Days > 0 {
		filter.Since = models.Day(now).AddDate(0, 0, -j.Days)
	}
	return filter, nil
}

func (j *JobsCmd) Run(ctx *Context) error {
	filter, err := j.filter(time.Now())
	if err != nil {
		return err
	}

	runCtx, cancel := signalContext()
	defer cancel()

	st, err := ctx.OpenStore(runCtx)
	if err != nil {
		return err
	}
	defer st.Close()

	if j.Count {
		count, err := st.Count(runCtx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.Out, count)
		return err
	}

	jobs, err := st.ListFiltered(runCtx, filter)
	if err != nil {
		return err
	}

	format, err := resolveFormat(ctx, j.OutputOptions)
	if err != nil {
		return err
	}
	w, closeFn, err := openOutput(ctx, j.OutputOptions)
	if err != nil {
		return err
	}
	if err := export.WriteJobs(w, jobs, format, writeOptions(ctx, w, j.OutputOptions)); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}
