package moneybook

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestImportTransactions(t *testing.T) {
	export := `{
	  "meta": {"bank": "acme"},
	  "transactions": [
	    {"bookingDate": "02/06/2025", "value": -12.50, "counterparty": "Bakery"},
	    {"bookingDate": "03/06/2025", "value": "2500.00", "counterparty": "Employer"}
	  ]
	}`
	mapping := ImportMapping{
		Items:      "$.transactions",
		Date:       "$.bookingDate",
		Amount:     "$.value",
		Payee:      "$.counterparty",
		DateLayout: "02/01/2006",
	}

	txs, err := ImportTransactions(strings.NewReader(export), mapping, "acc", "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("imported %d transactions, want 2", len(txs))
	}

	// Negative export amounts become expenses with a positive magnitude.
	if txs[0].Type != Expense || !txs[0].Amount.Equal(M(12.50, "EUR")) {
		t.Errorf("first = %v %s", txs[0].Type, txs[0].Amount)
	}
	if txs[0].Date != NewDate(2025, time.June, 2) || txs[0].Payee != "Bakery" {
		t.Errorf("first = %+v", txs[0])
	}

	// Numeric strings parse too.
	if txs[1].Type != Income || !txs[1].Amount.Equal(M(2500, "EUR")) {
		t.Errorf("second = %v %s", txs[1].Type, txs[1].Amount)
	}

	// Imported transactions go through the normal submission path.
	l := NewLedger()
	a := l.CreateAccount("Checking", M(0, "EUR"), Asset)
	for i := range txs {
		txs[i].AccountID = a.ID
		if err := l.AddTransaction(txs[i]); err != nil {
			t.Fatal(err)
		}
	}
	got, _ := l.Account(a.ID)
	if !got.CurrentBalance.Equal(M(2487.50, "EUR")) {
		t.Errorf("balance = %s, want 2,487.50 EUR", got.CurrentBalance)
	}
}

func TestImportTransactionsErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		mapping ImportMapping
	}{
		{
			"missing expressions",
			`{}`,
			ImportMapping{Items: "$.transactions"},
		},
		{
			"items not a list",
			`{"transactions": 42}`,
			ImportMapping{Items: "$.transactions", Date: "$.d", Amount: "$.a"},
		},
		{
			"bad date",
			`{"transactions": [{"d": "junk", "a": 1}]}`,
			ImportMapping{Items: "$.transactions", Date: "$.d", Amount: "$.a"},
		},
		{
			"non numeric amount",
			`{"transactions": [{"d": "2025-06-02", "a": "junk"}]}`,
			ImportMapping{Items: "$.transactions", Date: "$.d", Amount: "$.a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ImportTransactions(strings.NewReader(tt.doc), tt.mapping, "acc", "USD"); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestImportRejectsZeroAmount(t *testing.T) {
	doc := `{"transactions": [
	  {"d": "2025-06-01", "a": 5},
	  {"d": "2025-06-02", "a": 0}
	]}`
	mapping := ImportMapping{Items: "$.transactions", Date: "$.d", Amount: "$.a"}

	txs, err := ImportTransactions(strings.NewReader(doc), mapping, "acc", "USD")
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
	if !strings.Contains(err.Error(), "item 1") {
		t.Errorf("error does not name the offending item: %v", err)
	}
	if txs != nil {
		t.Errorf("zero-amount item produced a partial batch: %v", txs)
	}
}
