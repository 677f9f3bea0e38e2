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

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger files into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tfa fmt

  Validates and formats the ledger and store files. Events are sorted by
  date, account records come first, and every file is rewritten in the
  canonical JSONL form.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	l, _, err := LoadLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	files := []struct {
		path  string
		write func(io.Writer) error
	}{
		{*ledgerFile, func(w io.Writer) error { return taxfolio.EncodeLedger(w, l) }},
		{*pricesFile, func(w io.Writer) error { return taxfolio.ExportPrices(w, l.Prices()) }},
		{*ratesFile, func(w io.Writer) error { return taxfolio.ExportRates(w, l.Rates()) }},
		{*dilutionsFile, func(w io.Writer) error { return taxfolio.ExportDilutions(w, l.Dilutions()) }},
	}
	for _, file := range files {
		if err := writeFile(file.path, file.write); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting %q: %v\n", file.path, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Formatted %q\n", file.path)
	}
	return subcommands.ExitSuccess
}
