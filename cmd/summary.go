package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/arlet/taxfolio"
	"github.com/arlet/taxfolio/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "wealth and bucket summary at a date" }
func (*summaryCmd) Usage() string {
	return `tfa summary [-d <date>]

  Replays the whole ledger up to the given date and displays the wealth,
  account and category summary.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", taxfolio.Today().String(), "Valuation date")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := taxfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	l, _, err := LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	a, err := taxfolio.AnalyseDated(l, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analysing ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(a))
	return subcommands.ExitSuccess
}
