package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/hmdy/moneybook"
)

// parseTable parses markdown and returns the number of header and body rows of
// its first table, making sure the output is well-formed markdown and not just
// pipe-looking text.
func parseTable(t *testing.T, md string) (headers, rows int) {
	t.Helper()
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	doc := parser.Parse(text.NewReader([]byte(md)))

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *east.TableHeader:
			headers++
		case *east.TableRow:
			rows++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return headers, rows
}

func usd(v float64) moneybook.Money { return moneybook.M(v, "USD") }

func TestAccounts(t *testing.T) {
	l := moneybook.NewLedger()
	l.CreateAccount("Checking", usd(1000), moneybook.Asset)
	l.CreateAccount("Card", usd(300), moneybook.Liability)

	out := Accounts(l.Accounts())
	headers, rows := parseTable(t, out)
	if headers != 1 || rows != 2 {
		t.Errorf("got %d headers and %d rows, want 1 and 2:\n%s", headers, rows, out)
	}
	if !strings.Contains(out, "-$300.00") {
		t.Errorf("liability balance missing from output:\n%s", out)
	}

	if got := Accounts(nil); !strings.Contains(got, "No accounts") {
		t.Errorf("empty list = %q", got)
	}
}

func TestTransactions(t *testing.T) {
	l := moneybook.NewLedger()
	a := l.CreateAccount("Checking", usd(1000), moneybook.Asset)
	b := l.CreateAccount("Savings", usd(0), moneybook.Asset)
	day := moneybook.NewDate(2025, time.June, 2)

	if err := l.AddTransaction(moneybook.NewIncome(a.ID, usd(2500), day, "Employer", "salary", "")); err != nil {
		t.Fatal(err)
	}
	if err := l.AddTransaction(moneybook.NewExpense(a.ID, usd(42.50), day, "Grocer", "food", "")); err != nil {
		t.Fatal(err)
	}
	if _, _, err := l.AddTransfer(usd(100), a.ID, b.ID, day, ""); err != nil {
		t.Fatal(err)
	}

	txs, err := l.Transactions(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	out := Transactions(txs)
	headers, rows := parseTable(t, out)
	if headers != 1 || rows != 3 {
		t.Errorf("got %d headers and %d rows, want 1 and 3:\n%s", headers, rows, out)
	}
	// Expenses and outgoing transfers render signed negative.
	if !strings.Contains(out, "-$42.50") || !strings.Contains(out, "-$100.00") {
		t.Errorf("signed amounts missing:\n%s", out)
	}
	if !strings.Contains(out, "+$2,500.00") {
		t.Errorf("income sign missing:\n%s", out)
	}
}

func TestTransactionOneLiner(t *testing.T) {
	day := moneybook.NewDate(2025, time.June, 2)
	tests := []struct {
		tx   moneybook.Transaction
		want string
	}{
		{moneybook.NewIncome("a", usd(10), day, "Employer", "", ""), "Received $10.00 from Employer"},
		{moneybook.NewExpense("a", usd(10), day, "Grocer", "", ""), "Spent $10.00 at Grocer"},
	}
	for _, tt := range tests {
		if got := Transaction(tt.tx); got != tt.want {
			t.Errorf("Transaction = %q, want %q", got, tt.want)
		}
	}
}

func TestDueAndRecurringPayments(t *testing.T) {
	day := moneybook.NewDate(2025, time.June, 15)
	p := moneybook.RecurringPayment{
		Name:        "Netflix",
		Amount:      usd(15.99),
		AccountID:   "a",
		Type:        moneybook.Expense,
		Frequency:   moneybook.Monthly,
		NextDueDate: day,
		Active:      true,
	}

	out := DuePayments(day, []moneybook.RecurringPayment{p})
	if headers, rows := parseTable(t, out); headers != 1 || rows != 1 {
		t.Errorf("due table: %d headers %d rows:\n%s", headers, rows, out)
	}
	if got := DuePayments(day, nil); !strings.Contains(got, "Nothing due") {
		t.Errorf("empty due list = %q", got)
	}

	out = RecurringPayments([]moneybook.RecurringPayment{p})
	if headers, rows := parseTable(t, out); headers != 1 || rows != 1 {
		t.Errorf("recurring table: %d headers %d rows:\n%s", headers, rows, out)
	}
	if !strings.Contains(out, "never") {
		t.Errorf("never-processed payment should say so:\n%s", out)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	l := moneybook.NewLedger()
	l.CreateAccount("Checking", usd(1000), moneybook.Asset)
	l.CreateAccount("Card", usd(300), moneybook.Liability)

	s := NewSummary(moneybook.NewDate(2025, time.June, 15), l)
	if !s.NetWorth.Equal(usd(700)) {
		t.Errorf("NetWorth = %s, want $700.00", s.NetWorth)
	}
	if !s.TotalAssets.Equal(usd(1000)) || !s.TotalDebt.Equal(usd(300)) {
		t.Errorf("assets %s debt %s", s.TotalAssets, s.TotalDebt)
	}

	out := SummaryMarkdown(s)
	if headers, rows := parseTable(t, out); headers+rows < 4 {
		t.Errorf("summary table too small:\n%s", out)
	}
	if !strings.Contains(out, "2025-06-15") {
		t.Errorf("summary day missing:\n%s", out)
	}
}
