package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/hmdy/moneybook"
)

type transferCmd struct {
	from  string
	to    string
	date  string
	notes string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "move money between two accounts" }
func (*transferCmd) Usage() string {
	return `mbk transfer -from <account> -to <account> [-d <date>] [-notes <notes>] <amount>

  Moves an amount between two accounts as a pair of linked transactions.
  Either both legs are recorded or neither is.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Source account.")
	f.StringVar(&c.to, "to", "", "Target account.")
	f.StringVar(&c.date, "d", "0d", "Transfer date (defaults to today).")
	f.StringVar(&c.notes, "notes", "", "Free-form notes.")
}

func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.from == "" || c.to == "" {
		fmt.Fprintln(os.Stderr, "transfer requires -from, -to and exactly one amount")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	from, err := findAccount(book, c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	to, err := findAccount(book, c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	day, err := moneybook.ParseDate(c.date)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	amount, err := moneybook.ParseMoney(f.Arg(0), book.Currency())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	if _, _, err := book.Ledger.AddTransfer(amount, from.ID, to.ID, day, c.notes); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fromAfter, _ := book.Ledger.Account(from.ID)
	toAfter, _ := book.Ledger.Account(to.ID)
	fmt.Printf("Transferred %s from %q (%s) to %q (%s)\n",
		amount, from.Name, fromAfter.CurrentBalance, to.Name, toAfter.CurrentBalance)
	return subcommands.ExitSuccess
}
