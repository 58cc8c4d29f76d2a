package cmd

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Color   string `help:"Color output: auto, always, never." enum:"auto,always,never" default:"auto"`
	JSON    bool   `help:"JSON output to stdout; disables colors."`
	Plain   bool   `help:"TSV output to stdout; disables colors."`
	Verbose bool   `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `help:"Print version."`

	Version  VersionCmd  `cmd:"" help:"Print version."`
	Config   ConfigCmd   `cmd:"" help:"Manage configuration."`
	Refresh  RefreshCmd  `cmd:"" help:"Fetch recent postings from every source into the job store."`
	Match    MatchCmd    `cmd:"" help:"Rank stored postings against a resume."`
	Evaluate EvaluateCmd `cmd:"" help:"Grade a resume without matching."`
	Jobs     JobsCmd     `cmd:"" help:"List stored postings."`
	Serve    ServeCmd    `cmd:"" help:"Refresh the job store on a schedule."`
	Proxies  ProxiesCmd  `cmd:"" help:"Proxy utilities."`
}

func NewCLI() *CLI {
	return &CLI{}
}
