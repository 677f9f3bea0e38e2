package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/arlet/taxfolio"
	"github.com/arlet/taxfolio/renderer"
	"github.com/google/subcommands"
)

type taxCmd struct{}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "tax liability for one or more fiscal years" }
func (*taxCmd) Usage() string {
	return `tfa tax <year> [<year>...]

  Computes the tax liability for the given fiscal years (named by their
  ending calendar year). Years are analysed in order so that holdings and
  balances carry forward from one year to the next; every year needs a
  [year.YYYY] section in the settings file.

Usage Examples:
# The 2024-2025 fiscal year.
$ tfa tax 2025

# A run of years, carrying positions forward.
$ tfa tax 2023 2024 2025
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {}

func (c *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one fiscal year is required")
		return subcommands.ExitUsageError
	}
	var years []int
	for _, arg := range f.Args() {
		y, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing year %q: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		years = append(years, y)
	}
	sort.Ints(years)

	l, settings, err := LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	var reports []string
	var previous *taxfolio.Analysis
	for _, year := range years {
		table, ok := settings.Year(year)
		if !ok {
			fmt.Fprintf(os.Stderr, "no [year.%d] section in %s\n", year, *settingsFile)
			return subcommands.ExitFailure
		}
		a, err := taxfolio.AnalyseYear(l, table, previous)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error analysing year %d: %v\n", year, err)
			return subcommands.ExitFailure
		}
		a.CalculateTax()
		reports = append(reports, renderer.TaxMarkdown(a))
		previous = a
	}
	printMarkdown(strings.Join(reports, "\n---\n\n"))
	return subcommands.ExitSuccess
}
