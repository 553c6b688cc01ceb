// Package cmd implements the CLI application driving a money book.
//
// The commands here are the host side of the core: they load a book, invoke
// the library, save the book back, and render results. The scheduler's
// triggers (manual `process`, periodic `watch`) all converge on the same
// idempotent entry point.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hmdy/moneybook"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&newAccountCmd{}, "accounts")
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&delAccountCmd{}, "accounts")

	c.Register(&txCmd{}, "transactions")
	c.Register(&txsCmd{}, "transactions")
	c.Register(&delTxCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&importCmd{}, "transactions")

	c.Register(&addRecurringCmd{}, "recurring")
	c.Register(&recurringsCmd{}, "recurring")
	c.Register(&toggleRecurringCmd{}, "recurring")
	c.Register(&delRecurringCmd{}, "recurring")
	c.Register(&dueCmd{}, "recurring")
	c.Register(&processCmd{}, "recurring")
	c.Register(&watchCmd{}, "recurring")
	c.Register(&remindCmd{}, "recurring")

	c.Register(&summaryCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	dirFlag    = flag.String("dir", "", "Directory holding the book files (default \".\", or MBK_DIR).")
	bookFlag   = flag.String("book", "", "Book to operate on. Defaults to the only book if one exists.")
	configFlag = flag.String("config", "", "Path to the config file (default <dir>/mbk.yaml).")
)

// Config is the host configuration; the core itself takes none.
type Config struct {
	Dir              string `yaml:"dir"`
	Book             string `yaml:"book"`
	Currency         string `yaml:"currency"`
	ReminderLeadDays int    `yaml:"reminder_lead_days"`
	WatchInterval    string `yaml:"watch_interval"`
}

// LoadConfig resolves the host configuration: built-in defaults, then the
// YAML config file, then environment variables, then command line flags.
func LoadConfig() Config {
	cfg := Config{
		Dir:              ".",
		Currency:         "USD",
		ReminderLeadDays: moneybook.DefaultReminderLeadDays,
		WatchInterval:    "1h",
	}

	if dir := os.Getenv("MBK_DIR"); dir != "" {
		cfg.Dir = dir
	}

	path := *configFlag
	if path == "" {
		path = filepath.Join(cfg.Dir, "mbk.yaml")
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: ignoring invalid config %q: %v\n", path, err)
		}
	}

	if book := os.Getenv("MBK_BOOK"); book != "" {
		cfg.Book = book
	}
	if *dirFlag != "" {
		cfg.Dir = *dirFlag
	}
	if *bookFlag != "" {
		cfg.Book = *bookFlag
	}
	return cfg
}

// Logger returns the host diagnostics logger.
func Logger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger()
}

// LoadBook loads the configured book, or an empty one on first use.
func LoadBook(cfg Config) (*moneybook.Book, error) {
	return moneybook.FindBook(cfg.Dir, cfg.Book, cfg.Currency)
}

// SaveBook persists the book back to its file. Persistence is write-behind:
// it happens after the core operations completed, never on their path.
func SaveBook(cfg Config, book *moneybook.Book) error {
	return moneybook.SaveBook(cfg.Dir, book)
}

// newScheduler builds a configured scheduler around a book, wired to the
// console sink and the host logger.
func newScheduler(cfg Config, book *moneybook.Book) *moneybook.Scheduler {
	s := moneybook.NewScheduler()
	s.Configure(book.Ledger, book.Registry)
	s.SetNotificationSink(consoleSink{})
	s.SetLogger(Logger())
	if cfg.ReminderLeadDays > 0 {
		s.SetReminderLeadDays(cfg.ReminderLeadDays)
	}
	return s
}

// consoleSink is the host's notification collaborator: it prints.
type consoleSink struct{}

func (consoleSink) PaymentsProcessed(day moneybook.Date, created []moneybook.Transaction) {
	fmt.Printf("Processed %d recurring payment(s) on %s:\n", len(created), day)
	for _, tx := range created {
		fmt.Printf("  %s %s (%s)\n", tx.Payee, tx.Amount, tx.Type)
	}
}

func (consoleSink) UpcomingPayment(p moneybook.RecurringPayment, daysUntilDue int) {
	noun := "days"
	if daysUntilDue == 1 {
		noun = "day"
	}
	fmt.Printf("Upcoming: %s (%s) due in %d %s on %s\n", p.Name, p.Amount, daysUntilDue, noun, p.NextDueDate)
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the terminal renderer is unavailable.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
