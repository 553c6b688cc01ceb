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

type txCmd struct {
	account  string
	typ      string
	date     string
	payee    string
	category string
	notes    string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "record an income or expense transaction" }
func (*txCmd) Usage() string {
	return `mbk tx -a <account> [-type income|expense] [-d <date>] [-payee <payee>] [-c <category>] [-notes <notes>] <amount>

  Records a transaction. The amount is always a positive magnitude; the type
  decides the direction of money. Transfers have their own command, so both
  legs stay linked.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account receiving the transaction.")
	f.StringVar(&c.typ, "type", "expense", "Transaction type (income, expense).")
	f.StringVar(&c.date, "d", "0d", "Transaction date (defaults to today).")
	f.StringVar(&c.payee, "payee", "", "Payee.")
	f.StringVar(&c.category, "c", "", "Category.")
	f.StringVar(&c.notes, "notes", "", "Free-form notes.")
}

func (c *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "tx takes exactly one amount")
		return subcommands.ExitUsageError
	}
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "tx requires -a <account>")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	a, err := findAccount(book, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	typ, err := moneybook.ParseTxType(c.typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
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

	var tx moneybook.Transaction
	switch typ {
	case moneybook.Income:
		tx = moneybook.NewIncome(a.ID, amount, day, c.payee, c.category, c.notes)
	case moneybook.Expense:
		tx = moneybook.NewExpense(a.ID, amount, day, c.payee, c.category, c.notes)
	default:
		fmt.Fprintln(os.Stderr, "use the transfer command to move money between accounts")
		return subcommands.ExitUsageError
	}
	if err := book.Ledger.AddTransaction(tx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	balance, _ := book.Ledger.Account(a.ID)
	fmt.Printf("%s. New balance of %q: %s\n", renderer.Transaction(tx), a.Name, balance.CurrentBalance)
	return subcommands.ExitSuccess
}

type txsCmd struct {
	account string
	start   string
	end     string
}

func (*txsCmd) Name() string     { return "txs" }
func (*txsCmd) Synopsis() string { return "list an account's transactions" }
func (*txsCmd) Usage() string {
	return `mbk txs -a <account> [-s <start_date>] [-d <end_date>]

  Lists an account's transactions, optionally restricted to a date range.
`
}

func (c *txsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account to list.")
	f.StringVar(&c.start, "s", "", "Start of the date range (inclusive).")
	f.StringVar(&c.end, "d", "", "End of the date range (inclusive).")
}

func (c *txsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "txs requires -a <account>")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a, err := findAccount(book, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var window moneybook.Range
	if c.start != "" {
		if window.From, err = moneybook.ParseDate(c.start); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}
	if c.end != "" {
		if window.To, err = moneybook.ParseDate(c.end); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}

	txs, err := book.Ledger.Transactions(a.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	var kept []moneybook.Transaction
	for _, tx := range txs {
		if window.Contains(tx.Date) {
			kept = append(kept, tx)
		}
	}
	printMarkdown(renderer.Transactions(kept))
	return subcommands.ExitSuccess
}

type delTxCmd struct {
	account string
}

func (*delTxCmd) Name() string     { return "del-tx" }
func (*delTxCmd) Synopsis() string { return "delete a transaction" }
func (*delTxCmd) Usage() string {
	return `mbk del-tx -a <account> <transaction-id>

  Deletes a transaction. Deleting one leg of a transfer deletes the linked
  leg in the other account too.
`
}

func (c *delTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account owning the transaction.")
}

func (c *delTxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.account == "" {
		fmt.Fprintln(os.Stderr, "del-tx requires -a <account> and exactly one transaction id")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	a, err := findAccount(book, c.account)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := book.Ledger.DeleteTransaction(f.Arg(0), a.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted transaction %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}
