package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arlet/taxfolio"
	"github.com/google/subcommands"
)

type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch current quotes from the configured feeds" }
func (*fetchCmd) Usage() string {
	return `tfa fetch

  Fetches the current quote of every [feed.Account] configured in the
  settings file and records it in the price store under today's date.
  Failing feeds do not prevent the others from updating.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, settings, err := LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	feeds := settings.Feeds()
	if len(feeds) == 0 {
		fmt.Fprintln(os.Stderr, "no feeds configured")
		return subcommands.ExitFailure
	}

	fetchErr := taxfolio.FetchPrices(l, feeds)
	// Quotes that did arrive are worth keeping even when some feeds failed.
	if err := writeFile(*pricesFile, func(w io.Writer) error {
		return taxfolio.ExportPrices(w, l.Prices())
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", *pricesFile, err)
		return subcommands.ExitFailure
	}
	if fetchErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", fetchErr)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully updated %s\n", *pricesFile)
	return subcommands.ExitSuccess
}
