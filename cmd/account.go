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

// findAccount resolves a user-supplied account reference, by id first and by
// name second.
func findAccount(book *moneybook.Book, ref string) (moneybook.Account, error) {
	if a, err := book.Ledger.Account(ref); err == nil {
		return a, nil
	}
	for _, a := range book.Ledger.Accounts() {
		if a.Name == ref {
			return a, nil
		}
	}
	return moneybook.Account{}, fmt.Errorf("no account named %q", ref)
}

type newAccountCmd struct {
	typ      string
	starting string
}

func (*newAccountCmd) Name() string     { return "new-account" }
func (*newAccountCmd) Synopsis() string { return "create a new account in the book" }
func (*newAccountCmd) Usage() string {
	return `mbk new-account [-type <type>] [-starting <amount>] <name>

  Creates an account. Liability-like accounts (credit, loan) record their
  starting balance as money owed: opening a credit card with -starting 100
  starts it at -100.
`
}

func (c *newAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.typ, "type", "checking", "Account type (checking, savings, cash, credit, loan).")
	f.StringVar(&c.starting, "starting", "0", "Starting balance, as a positive magnitude.")
}

func (c *newAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "new-account takes exactly one account name")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	typ, err := moneybook.ParseAccountType(c.typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	starting, err := moneybook.ParseMoney(c.starting, book.Currency())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	a := book.Ledger.CreateAccount(f.Arg(0), starting, typ)
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created %s account %q with balance %s\n", a.Type, a.Name, a.CurrentBalance)
	return subcommands.ExitSuccess
}

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list accounts and their balances" }
func (*accountsCmd) Usage() string {
	return `mbk accounts

  Lists every account with its current balance.
`
}
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (*accountsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Accounts(book.Ledger.Accounts()))
	return subcommands.ExitSuccess
}

type delAccountCmd struct{}

func (*delAccountCmd) Name() string     { return "del-account" }
func (*delAccountCmd) Synopsis() string { return "delete an account and its transactions" }
func (*delAccountCmd) Usage() string {
	return `mbk del-account <account>

  Deletes an account with all its transactions. Transfer legs in other
  accounts linked to the deleted ones are removed as well, and every touched
  balance is recomputed.
`
}
func (*delAccountCmd) SetFlags(*flag.FlagSet) {}

func (*delAccountCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "del-account takes exactly one account")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a, err := findAccount(book, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := book.Ledger.DeleteAccount(a.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted account %q\n", a.Name)
	return subcommands.ExitSuccess
}
