package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/arlet/taxfolio/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: answers and exits when the shell is asking.
	completion().Complete("tfa")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	files := predict.Files("*")
	dates := predict.Nothing
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"settings":  files,
			"ledger":    files,
			"prices":    files,
			"rates":     files,
			"dilutions": files,
		},
		Sub: map[string]*complete.Command{
			"summary":   {Flags: map[string]complete.Predictor{"d": dates}},
			"gains":     {Flags: map[string]complete.Predictor{"d": dates}},
			"tax":       {},
			"statement": {Flags: map[string]complete.Predictor{"a": predict.Nothing, "s": dates, "d": dates}},
			"import":    {Args: files},
			"fetch":     {},
			"fmt":       {},
			"topic":     {Args: predict.Set{"readme", "ledger", "capital", "tax", "*"}},
		},
	}
}
