package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hmdy/moneybook"
	"github.com/hmdy/moneybook/renderer"
)

type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display net worth, assets, debt and available credit" }
func (*summaryCmd) Usage() string {
	return `mbk summary [-d <date>]

  Displays the aggregate view of the whole book: net worth across all
  accounts, total assets, total debt, and available credit.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Day to stamp the summary with (defaults to today).")
}

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	day, err := moneybook.ParseDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.SummaryMarkdown(renderer.NewSummary(day, book.Ledger)))
	return subcommands.ExitSuccess
}
