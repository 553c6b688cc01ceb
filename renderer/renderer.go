// Package renderer turns moneybook snapshots into markdown reports.
//
// It is a pure presentation collaborator: every function maps core values to
// a markdown string and nothing here mutates or imports back into the core.
package renderer

import (
	"fmt"
	"strings"

	"github.com/hmdy/moneybook"
)

// Accounts renders the account list with balances as a markdown table.
func Accounts(accounts []moneybook.Account) string {
	if len(accounts) == 0 {
		return "No accounts yet.\n"
	}
	var b strings.Builder
	b.WriteString("# Accounts\n\n")
	b.WriteString("| Account | Type | Balance |\n")
	b.WriteString("|---|---|---:|\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", a.Name, a.Type, a.CurrentBalance)
	}
	return b.String()
}

// Transaction renders a single transaction to a one-line string.
func Transaction(tx moneybook.Transaction) string {
	switch {
	case tx.Type == moneybook.Transfer && tx.IsTransferSource:
		return fmt.Sprintf("Transferred %s to %s", tx.Amount, tx.Payee)
	case tx.Type == moneybook.Transfer:
		return fmt.Sprintf("Received %s from %s", tx.Amount, tx.Payee)
	case tx.Type == moneybook.Expense:
		return fmt.Sprintf("Spent %s at %s", tx.Amount, tx.Payee)
	default:
		return fmt.Sprintf("Received %s from %s", tx.Amount, tx.Payee)
	}
}

// Transactions renders a transaction list as a markdown table.
func Transactions(txs []moneybook.Transaction) string {
	if len(txs) == 0 {
		return "No transactions.\n"
	}
	var b strings.Builder
	b.WriteString("# Transactions\n\n")
	b.WriteString("| Date | Type | Payee | Category | Amount |\n")
	b.WriteString("|---|---|---|---|---:|\n")
	for _, tx := range txs {
		amount := tx.Amount
		if tx.Type == moneybook.Expense || (tx.Type == moneybook.Transfer && tx.IsTransferSource) {
			amount = amount.Neg()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", tx.Date, tx.Type, tx.Payee, tx.Category, amount.SignedString())
	}
	return b.String()
}

// DuePayments renders the recurring payments due as of a given day.
func DuePayments(day moneybook.Date, due []moneybook.RecurringPayment) string {
	if len(due) == 0 {
		return fmt.Sprintf("Nothing due as of %s.\n", day)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Due payments as of %s\n\n", day)
	b.WriteString("| Payment | Frequency | Due | Amount |\n")
	b.WriteString("|---|---|---|---:|\n")
	for _, p := range due {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", p.Name, p.Frequency, p.NextDueDate, p.Amount)
	}
	return b.String()
}

// RecurringPayments renders all definitions, active or not.
func RecurringPayments(payments []moneybook.RecurringPayment) string {
	if len(payments) == 0 {
		return "No recurring payments.\n"
	}
	var b strings.Builder
	b.WriteString("# Recurring payments\n\n")
	b.WriteString("| Payment | Frequency | Next due | Last processed | Amount | Active |\n")
	b.WriteString("|---|---|---|---|---:|---|\n")
	for _, p := range payments {
		last := "never"
		if !p.LastProcessedDate.IsZero() {
			last = p.LastProcessedDate.String()
		}
		active := "no"
		if p.Active {
			active = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n", p.Name, p.Frequency, p.NextDueDate, last, p.Amount, active)
	}
	return b.String()
}

// Summary is the aggregate view over a whole ledger.
type Summary struct {
	Day             moneybook.Date
	NetWorth        moneybook.Money
	TotalAssets     moneybook.Money
	TotalDebt       moneybook.Money
	AvailableCredit moneybook.Money
}

// NewSummary folds a ledger into its aggregate view.
func NewSummary(day moneybook.Date, ledger *moneybook.Ledger) Summary {
	return Summary{
		Day:             day,
		NetWorth:        ledger.NetWorth(),
		TotalAssets:     ledger.TotalAssets(),
		TotalDebt:       ledger.TotalDebt(),
		AvailableCredit: ledger.AvailableCredit(),
	}
}

// SummaryMarkdown renders the aggregate view.
func SummaryMarkdown(s Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Summary on %s\n\n", s.Day)
	b.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Net worth | %s |\n", s.NetWorth)
	fmt.Fprintf(&b, "| Total assets | %s |\n", s.TotalAssets)
	fmt.Fprintf(&b, "| Total debt | %s |\n", s.TotalDebt)
	fmt.Fprintf(&b, "| Available credit | %s |\n", s.AvailableCredit)
	return b.String()
}
