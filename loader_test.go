package moneybook

import (
	"errors"
	"testing"
)

func TestSaveAndFindBook(t *testing.T) {
	dir := t.TempDir()

	book := NewBook("USD")
	book.SetName("home")
	a := book.Ledger.CreateAccount("Checking", usd(100), Asset)
	if err := book.Ledger.AddTransaction(NewExpense(a.ID, usd(10), day(1), "Grocer", "", "")); err != nil {
		t.Fatal(err)
	}
	if err := SaveBook(dir, book); err != nil {
		t.Fatal(err)
	}

	loaded, err := FindBook(dir, "home", "USD")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name() != "home" {
		t.Errorf("name = %q, want home", loaded.Name())
	}
	got, err := loaded.Ledger.Account(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CurrentBalance.Equal(usd(90)) {
		t.Errorf("balance = %s, want $90.00", got.CurrentBalance)
	}

	// An empty query on a directory with one book finds it.
	if loaded, err = FindBook(dir, "", "USD"); err != nil || loaded.Name() != "home" {
		t.Errorf("FindBook with empty query = %v, %v", loaded, err)
	}

	if _, err := FindBook(dir, "nope", "USD"); err == nil {
		t.Error("FindBook should fail on an unknown name")
	}
}

func TestFindBookDefaultsWhenEmpty(t *testing.T) {
	book, err := FindBook(t.TempDir(), "", "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if book.Name() != "book" || book.Currency() != "EUR" {
		t.Errorf("default book = %q %q", book.Name(), book.Currency())
	}
	if len(book.Ledger.Accounts()) != 0 {
		t.Error("default book should be empty")
	}
}

func TestFindBooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"home", "biz"} {
		b := NewBook("USD")
		b.SetName(name)
		if err := SaveBook(dir, b); err != nil {
			t.Fatal(err)
		}
	}

	books, err := FindBooks(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(books) != 2 {
		t.Fatalf("found %d books, want 2", len(books))
	}

	if _, err := FindBook(dir, "", "USD"); err == nil {
		t.Error("empty query over multiple books should be ambiguous")
	}
}

func TestSaveBookRequiresName(t *testing.T) {
	if err := SaveBook(t.TempDir(), NewBook("USD")); err == nil {
		t.Error("saving a nameless book should fail")
	}
}

func TestAccountLookupError(t *testing.T) {
	book := NewBook("USD")
	if _, err := book.Ledger.Account("ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("lookup = %v, want ErrNotFound", err)
	}
}
