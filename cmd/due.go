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

type dueCmd struct {
	date string
}

func (*dueCmd) Name() string     { return "due" }
func (*dueCmd) Synopsis() string { return "list recurring payments currently due" }
func (*dueCmd) Usage() string {
	return `mbk due [-d <date>]

  Lists the active recurring payments due on or before a day, without
  processing them.
`
}

func (c *dueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Day to check against (defaults to today).")
}

func (c *dueCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.DuePayments(day, book.Registry.DuePayments(day)))
	return subcommands.ExitSuccess
}

type remindCmd struct {
	date string
	lead int
}

func (*remindCmd) Name() string     { return "remind" }
func (*remindCmd) Synopsis() string { return "announce recurring payments falling due soon" }
func (*remindCmd) Usage() string {
	return `mbk remind [-d <date>] [-lead <days>]

  Prints one reminder per active recurring payment falling due within the
  lead window. Payments already due are the due and process commands'
  business, not a reminder.
`
}

func (c *remindCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Day to check against (defaults to today).")
	f.IntVar(&c.lead, "lead", 0, "Days of lead (defaults to the configured reminder_lead_days).")
}

func (c *remindCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	scheduler := newScheduler(cfg, book)
	if c.lead > 0 {
		scheduler.SetReminderLeadDays(c.lead)
	}
	scheduler.ScheduleUpcomingReminders(day)
	return subcommands.ExitSuccess
}
