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

// findRecurring resolves a user-supplied recurring payment reference, by id
// first and by name second.
func findRecurring(book *moneybook.Book, ref string) (moneybook.RecurringPayment, error) {
	if p, err := book.Registry.Payment(ref); err == nil {
		return p, nil
	}
	for _, p := range book.Registry.Payments() {
		if p.Name == ref {
			return p, nil
		}
	}
	return moneybook.RecurringPayment{}, fmt.Errorf("no recurring payment named %q", ref)
}

type addRecurringCmd struct {
	account   string
	typ       string
	frequency string
	due       string
	payee     string
	category  string
	notes     string
	paused    bool
}

func (*addRecurringCmd) Name() string     { return "add-recurring" }
func (*addRecurringCmd) Synopsis() string { return "define a recurring payment" }
func (*addRecurringCmd) Usage() string {
	return `mbk add-recurring -a <account> -due <date> [-f <frequency>] [-type income|expense] [-payee <payee>] [-c <category>] [-notes <notes>] [-paused] <name> <amount>

  Defines a recurring payment: a template transaction plus a schedule. Due
  payments are materialized into the ledger by the process and watch
  commands, at most once per day per definition. A definition anchored on a
  day of month keeps it across months, clamping at shorter ones.
`
}

func (c *addRecurringCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account the payment posts to.")
	f.StringVar(&c.typ, "type", "expense", "Transaction type (income, expense).")
	f.StringVar(&c.frequency, "f", "monthly", "Frequency (daily, weekly, biweekly, monthly, quarterly, yearly).")
	f.StringVar(&c.due, "due", "", "First due date.")
	f.StringVar(&c.payee, "payee", "", "Payee (defaults to the payment name).")
	f.StringVar(&c.category, "c", "", "Category.")
	f.StringVar(&c.notes, "notes", "", "Free-form notes.")
	f.BoolVar(&c.paused, "paused", false, "Create the definition inactive.")
}

func (c *addRecurringCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "add-recurring takes exactly a name and an amount")
		return subcommands.ExitUsageError
	}
	if c.account == "" || c.due == "" {
		fmt.Fprintln(os.Stderr, "add-recurring requires -a <account> and -due <date>")
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
	frequency, err := moneybook.ParseFrequency(c.frequency)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	due, err := moneybook.ParseDate(c.due)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	amount, err := moneybook.ParseMoney(f.Arg(1), book.Currency())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	p, err := book.Registry.Add(moneybook.RecurringPayment{
		Name:        f.Arg(0),
		Amount:      amount,
		Category:    c.category,
		AccountID:   a.ID,
		Payee:       c.payee,
		Notes:       c.notes,
		Type:        typ,
		Frequency:   frequency,
		NextDueDate: due,
		Active:      !c.paused,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %s recurring payment %q (%s), next due %s\n", p.Frequency, p.Name, p.Amount, p.NextDueDate)
	return subcommands.ExitSuccess
}

type recurringsCmd struct {
	account string
}

func (*recurringsCmd) Name() string     { return "recurrings" }
func (*recurringsCmd) Synopsis() string { return "list recurring payment definitions" }
func (*recurringsCmd) Usage() string {
	return `mbk recurrings [-a <account>]

  Lists recurring payment definitions, active or not.
`
}

func (c *recurringsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Restrict to one account's definitions.")
}

func (c *recurringsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	payments := book.Registry.Payments()
	if c.account != "" {
		a, err := findAccount(book, c.account)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		payments = book.Registry.PaymentsForAccount(a.ID)
	}
	printMarkdown(renderer.RecurringPayments(payments))
	return subcommands.ExitSuccess
}

type toggleRecurringCmd struct{}

func (*toggleRecurringCmd) Name() string     { return "toggle-recurring" }
func (*toggleRecurringCmd) Synopsis() string { return "pause or resume a recurring payment" }
func (*toggleRecurringCmd) Usage() string {
	return `mbk toggle-recurring <payment>

  Flips a definition between active and paused. Paused definitions are never
  materialized, but their schedule is kept, so resuming one that fell due
  while paused makes it due immediately.
`
}
func (*toggleRecurringCmd) SetFlags(*flag.FlagSet) {}

func (*toggleRecurringCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "toggle-recurring takes exactly one payment")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	p, err := findRecurring(book, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	active, err := book.Registry.ToggleActive(p.ID)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	state := "paused"
	if active {
		state = "active"
	}
	fmt.Printf("Recurring payment %q is now %s\n", p.Name, state)
	return subcommands.ExitSuccess
}

type delRecurringCmd struct{}

func (*delRecurringCmd) Name() string     { return "del-recurring" }
func (*delRecurringCmd) Synopsis() string { return "delete a recurring payment definition" }
func (*delRecurringCmd) Usage() string {
	return `mbk del-recurring <payment>

  Deletes a definition. Transactions it already materialized stay in the
  ledger.
`
}
func (*delRecurringCmd) SetFlags(*flag.FlagSet) {}

func (*delRecurringCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "del-recurring takes exactly one payment")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	p, err := findRecurring(book, f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := book.Registry.Delete(p.ID); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted recurring payment %q\n", p.Name)
	return subcommands.ExitSuccess
}
