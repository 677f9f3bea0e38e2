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

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge prices, rates or dilutions into the store" }
func (*importCmd) Usage() string {
	return `tfa import <prices|rates|dilutions> <file>

  Validates the given import file and merges its entries into the matching
  store file. The import is all-or-nothing: one offending entry rejects the
  whole file.

Usage Examples:
# Merge a broker price export.
$ tfa import prices march-quotes.jsonl
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "a kind (prices, rates or dilutions) and a file are required")
		return subcommands.ExitUsageError
	}
	kind, path := f.Arg(0), f.Arg(1)

	in, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", path, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	l, _, err := LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	var store string
	var write func(io.Writer) error
	switch kind {
	case "prices":
		list, err := taxfolio.ImportPrices(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing prices: %v\n", err)
			return subcommands.ExitFailure
		}
		merged := l.Prices()
		for _, account := range list.Accounts() {
			for day, p := range list.History(account) {
				merged.Add(account, day, p)
			}
		}
		store = *pricesFile
		write = func(w io.Writer) error { return taxfolio.ExportPrices(w, merged) }
	case "rates":
		list, err := taxfolio.ImportRates(in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing rates: %v\n", err)
			return subcommands.ExitFailure
		}
		merged := l.Rates()
		for _, account := range list.Accounts() {
			for day, r := range list.History(account) {
				merged.Add(account, day, r)
			}
		}
		store = *ratesFile
		write = func(w io.Writer) error { return taxfolio.ExportRates(w, merged) }
	case "dilutions":
		d, err := taxfolio.ImportDilutions(in, l)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing dilutions: %v\n", err)
			return subcommands.ExitFailure
		}
		merged := l.Dilutions()
		for ev := range d.All() {
			if err := merged.RecordImport(ev.Account, ev.Date, ev.Factor.String()); err != nil {
				fmt.Fprintf(os.Stderr, "Error merging dilutions: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		store = *dilutionsFile
		write = func(w io.Writer) error { return taxfolio.ExportDilutions(w, merged) }
	default:
		fmt.Fprintf(os.Stderr, "unknown import kind %q\n", kind)
		return subcommands.ExitUsageError
	}

	if err := writeFile(store, write); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", store, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully merged %s into %s\n", kind, store)
	return subcommands.ExitSuccess
}
