package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/hmdy/moneybook"
)

type processCmd struct {
	date string
}

func (*processCmd) Name() string     { return "process" }
func (*processCmd) Synopsis() string { return "materialize due recurring payments into the ledger" }
func (*processCmd) Usage() string {
	return `mbk process [-d <date>]

  Materializes every due recurring payment into a ledger transaction.
  Running it twice on the same day is a no-op the second time, so it is safe
  to invoke from any trigger, as often as wanted. A definition several
  cycles overdue catches up one cycle per run.
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Day to process as (defaults to today).")
}

func (c *processCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	created := newScheduler(cfg, book).CheckAndProcessDuePayments(day)
	if len(created) == 0 {
		fmt.Printf("Nothing to process on %s\n", day)
		return subcommands.ExitSuccess
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type watchCmd struct {
	every time.Duration
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "process due recurring payments periodically" }
func (*watchCmd) Usage() string {
	return `mbk watch [-every <duration>]

  Runs the processing loop until interrupted, waking up at the given
  interval. Each wake-up is the same idempotent check as the process
  command; an interval shorter than a day only makes payments post sooner
  on their due day, never twice.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.every, "every", 0, "Wake-up interval (defaults to the configured watch_interval).")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()
	book, err := LoadBook(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	every := c.every
	if every == 0 {
		if every, err = time.ParseDuration(cfg.WatchInterval); err != nil {
			fmt.Fprintf(os.Stderr, "invalid watch_interval %q: %v\n", cfg.WatchInterval, err)
			return subcommands.ExitUsageError
		}
	}

	scheduler := newScheduler(cfg, book)
	scheduler.SetNotificationSink(savingSink{cfg: cfg, book: book})
	log := Logger()
	log.Info().Stringer("every", every).Str("book", book.Name()).Msg("watching recurring payments")
	scheduler.Run(ctx, every)
	return subcommands.ExitSuccess
}

// savingSink persists the book after every batch that created transactions,
// on top of printing it.
type savingSink struct {
	cfg  Config
	book *moneybook.Book
}

func (s savingSink) PaymentsProcessed(day moneybook.Date, created []moneybook.Transaction) {
	consoleSink{}.PaymentsProcessed(day, created)
	if err := SaveBook(s.cfg, s.book); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

func (s savingSink) UpcomingPayment(p moneybook.RecurringPayment, daysUntilDue int) {
	consoleSink{}.UpcomingPayment(p, daysUntilDue)
}
