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

type statementCmd struct {
	account string
	start   string
	end     string
}

func (*statementCmd) Name() string     { return "statement" }
func (*statementCmd) Synopsis() string { return "statement of one account over a period" }
func (*statementCmd) Usage() string {
	return `tfa statement -a <account> -s <date> [-d <date>]

  Replays the events touching one account and displays them with the
  closing balance.
`
}

func (c *statementCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to report on")
	f.StringVar(&c.start, "s", "", "Start date of the statement period")
	f.StringVar(&c.end, "d", taxfolio.Today().String(), "End date of the statement period")
}

func (c *statementCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" || c.start == "" {
		fmt.Fprintln(os.Stderr, "-a and -s are required")
		return subcommands.ExitUsageError
	}
	from, err := taxfolio.ParseDate(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := taxfolio.ParseDate(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

	l, _, err := LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	account := l.Account(c.account)
	if account == nil {
		fmt.Fprintf(os.Stderr, "unknown account %q\n", c.account)
		return subcommands.ExitFailure
	}
	a, err := taxfolio.AnalyseStatement(l, account, from, to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analysing statement: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.StatementMarkdown(a, account, from, to))
	return subcommands.ExitSuccess
}
