// Package cmd implements the CLI application to analyse a personal ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/arlet/taxfolio"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&summaryCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&taxCmd{}, "reports")
	c.Register(&statementCmd{}, "reports")

	c.Register(&importCmd{}, "data")
	c.Register(&fetchCmd{}, "data")
	c.Register(&fmtCmd{}, "data")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var settingsFile = flag.String("settings", "settings.ini", "Path to the settings file (INI format)")
var ledgerFile = flag.String("ledger", "ledger.jsonl", "Path to the ledger file with accounts and events (JSONL format)")
var pricesFile = flag.String("prices", "prices.jsonl", "Path to the price history file (JSONL format)")
var ratesFile = flag.String("rates", "rates.jsonl", "Path to the interest-rate history file (JSONL format)")
var dilutionsFile = flag.String("dilutions", "dilutions.jsonl", "Path to the dilution-factor file (JSONL format)")

// LoadLedger loads the settings and the full ledger: accounts, events, and
// the optional price, rate and dilution files. Missing optional files are
// skipped with a warning.
func LoadLedger() (*taxfolio.Ledger, *taxfolio.Settings, error) {
	settings, err := taxfolio.LoadSettings(*settingsFile)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(*ledgerFile)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open ledger %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	l, err := taxfolio.DecodeLedger(f, settings.Currency)
	if err != nil {
		return nil, nil, err
	}
	l.BirthDate = settings.BirthDate
	if settings.TaxMan != "" {
		taxman := l.Account(settings.TaxMan)
		if taxman == nil {
			return nil, nil, fmt.Errorf("settings taxman %q is not a ledger account", settings.TaxMan)
		}
		l.TaxMan = taxman
	}

	if err := loadOptional(*pricesFile, func(r io.Reader) error {
		list, err := taxfolio.ImportPrices(r)
		if err == nil {
			l.SetPrices(list)
		}
		return err
	}); err != nil {
		return nil, nil, err
	}
	if err := loadOptional(*ratesFile, func(r io.Reader) error {
		list, err := taxfolio.ImportRates(r)
		if err == nil {
			l.SetRates(list)
		}
		return err
	}); err != nil {
		return nil, nil, err
	}
	if err := loadOptional(*dilutionsFile, func(r io.Reader) error {
		d, err := taxfolio.ImportDilutions(r, l)
		if err == nil {
			l.SetDilutions(d)
		}
		return err
	}); err != nil {
		return nil, nil, err
	}
	return l, settings, nil
}

func loadOptional(path string, load func(io.Reader) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning, %q does not exist, skipping", path)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	if err := load(f); err != nil {
		return fmt.Errorf("cannot load %q: %w", path, err)
	}
	return nil
}

// writeFile replaces the file at path with whatever write produces.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when rendering fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
