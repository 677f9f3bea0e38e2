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

type gainsCmd struct {
	date string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "per-asset capital gains ledgers" }
func (*gainsCmd) Usage() string {
	return `tfa gains [-d <date>]

  Displays the capital ledger of every priced asset: lot movements,
  disposals with their allowed cost, and the closing position.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", taxfolio.Today().String(), "Valuation date")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.CapitalGainsMarkdown(a))
	return subcommands.ExitSuccess
}
