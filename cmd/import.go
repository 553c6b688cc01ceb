package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"

	"github.com/hmdy/moneybook"
	"github.com/hmdy/moneybook/renderer"
)

type importCmd struct {
	account string
	mapping string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a bank-export JSON file" }
func (*importCmd) Usage() string {
	return `mbk import -a <account> -m <mapping.yaml> <export.json>

  Imports transactions from a bank-export JSON document into an account. The
  mapping file describes where to find each transaction field, as jsonpath
  expressions:

    items: $.transactions
    date: $.bookingDate
    amount: $.amount
    payee: $.counterparty
    dateLayout: "02/01/2006"

  Negative exported amounts become expenses, positive ones income.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "Account receiving the imported transactions.")
	f.StringVar(&c.mapping, "m", "", "Mapping file (YAML).")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.account == "" || c.mapping == "" {
		fmt.Fprintln(os.Stderr, "import requires -a <account>, -m <mapping.yaml> and exactly one export file")
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

	mappingData, err := os.ReadFile(c.mapping)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	var mapping moneybook.ImportMapping
	if err := yaml.Unmarshal(mappingData, &mapping); err != nil {
		fmt.Fprintf(os.Stderr, "invalid mapping file %q: %v\n", c.mapping, err)
		return subcommands.ExitFailure
	}

	export, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer export.Close()

	txs, err := moneybook.ImportTransactions(export, mapping, a.ID, book.Currency())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, tx := range txs {
		if err := book.Ledger.AddTransaction(tx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	if err := SaveBook(cfg, book); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d transaction(s) into %q\n", len(txs), a.Name)
	printMarkdown(renderer.Transactions(txs))
	return subcommands.ExitSuccess
}
