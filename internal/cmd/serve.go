package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jimezsa/fithire/internal/config"
	"github.com/jimezsa/fithire/internal/scheduler"
)

type ServeCmd struct {
	SearchFlags
	Schedule string `help:"Cron spec or @every interval (default: config schedule)."`
}

func (s *ServeCmd) Run(ctx *Context) error {
	runCtx, cancel := signalContext()
	defer cancel()

	scrapers, err := ctx.Scrapers(config.SplitCSV(s.Sources), s.Proxies)
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

	spec := firstNonEmpty(s.Schedule, ctx.Config.Schedule)
	sched := scheduler.New(ctx.Orchestrator(st, scrapers, locker), s.params(ctx.Config), spec, ctx.Logger)
	if err := sched.Start(runCtx); err != nil {
		return err
	}
	if ctx.UI != nil {
		ctx.UI.Infof("Refreshing %d sources on %q; press Ctrl+C to stop.", len(scrapers), spec)
	}

	<-runCtx.Done()
	sched.Stop()
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
