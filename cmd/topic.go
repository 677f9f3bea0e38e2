package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/arlet/taxfolio/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "print a documentation topic" }
func (*topicCmd) Usage() string {
	return `topic [<name> ...]:
  Print documentation topics, the readme by default. Use '*' for everything.
`
}
func (*topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	requested := f.Args()
	if len(requested) == 0 {
		requested = []string{"readme"}
	}
	doc, err := docs.GetMany(requested...)
	if err != nil {
		names, nerr := docs.Names()
		if nerr == nil {
			fmt.Printf("Error: %v\nAvailable topics: %s\n", err, strings.Join(names, ", "))
		} else {
			fmt.Printf("Error: %v\n", err)
		}
		return subcommands.ExitUsageError
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
