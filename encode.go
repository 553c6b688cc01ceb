package moneybook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// recordKind discriminates the line types of the book file.
type recordKind string

const (
	recordBook        recordKind = "book"
	recordAccount     recordKind = "account"
	recordTransaction recordKind = "transaction"
	recordRecurring   recordKind = "recurring"
)

// Book bundles a ledger and its recurring payment registry: the complete
// persisted state of one money book.
type Book struct {
	Ledger   *Ledger
	Registry *Registry

	name     string
	currency string
}

// NewBook creates an empty book in the given currency.
func NewBook(currency string) *Book {
	return &Book{
		Ledger:   NewLedger(),
		Registry: NewRegistry(),
		currency: currency,
	}
}

// Name returns the book's name (its relative path without extension).
func (b *Book) Name() string { return b.name }

// SetName sets the book's name.
func (b *Book) SetName(name string) { b.name = name }

// Currency returns the book's currency code.
func (b *Book) Currency() string { return b.currency }

// amountCmd is a specialized struct to read an amount split in two fields.
type amountCmd struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a amountCmd) Money() Money {
	return M(a.Amount, a.Currency)
}

// DecodeBook decodes a book from a stream of JSONL records. Accounts,
// transactions and recurring payments may appear in any order; transactions
// keep their file order as insertion order. Cached account balances are not
// part of the stream and are recomputed from history once everything is
// loaded.
func DecodeBook(r io.Reader) (*Book, error) {
	book := NewBook("")

	var txRecords []Transaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record recordKind `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Record {
		case recordBook:
			var temp struct {
				Currency string `json:"currency"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			book.currency = temp.Currency

		case recordAccount:
			var temp struct {
				ID              string      `json:"id"`
				Name            string      `json:"name"`
				Type            AccountType `json:"type"`
				StartingBalance amountCmd   `json:"startingBalance"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			a := Account{
				ID:              temp.ID,
				Name:            temp.Name,
				Type:            temp.Type,
				StartingBalance: temp.StartingBalance.Money(),
			}
			if err := book.Ledger.restoreAccount(a); err != nil {
				return nil, err
			}

		case recordTransaction:
			var temp struct {
				amountCmd
				ID                  string `json:"id"`
				Type                TxType `json:"type"`
				AccountID           string `json:"accountId"`
				Date                Date   `json:"date"`
				Payee               string `json:"payee"`
				Category            string `json:"category"`
				Notes               string `json:"notes"`
				TargetAccountID     string `json:"targetAccountId"`
				IsTransferSource    bool   `json:"isTransferSource"`
				LinkedTransactionID string `json:"linkedTransactionId"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			txRecords = append(txRecords, Transaction{
				ID:                  temp.ID,
				Type:                temp.Type,
				AccountID:           temp.AccountID,
				Amount:              temp.Money(),
				Date:                temp.Date,
				Payee:               temp.Payee,
				Category:            temp.Category,
				Notes:               temp.Notes,
				TargetAccountID:     temp.TargetAccountID,
				IsTransferSource:    temp.IsTransferSource,
				LinkedTransactionID: temp.LinkedTransactionID,
			})

		case recordRecurring:
			var temp struct {
				amountCmd
				ID                string    `json:"id"`
				Name              string    `json:"name"`
				Category          string    `json:"category"`
				CategoryIcon      string    `json:"categoryIcon"`
				AccountID         string    `json:"accountId"`
				Payee             string    `json:"payee"`
				Notes             string    `json:"notes"`
				Type              TxType    `json:"type"`
				Frequency         Frequency `json:"frequency"`
				NextDueDate       Date      `json:"nextDueDate"`
				LastProcessedDate Date      `json:"lastProcessedDate"`
				Active            bool      `json:"active"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			p := RecurringPayment{
				ID:                temp.ID,
				Name:              temp.Name,
				Amount:            temp.Money(),
				Category:          temp.Category,
				CategoryIcon:      temp.CategoryIcon,
				AccountID:         temp.AccountID,
				Payee:             temp.Payee,
				Notes:             temp.Notes,
				Type:              temp.Type,
				Frequency:         temp.Frequency,
				NextDueDate:       temp.NextDueDate,
				LastProcessedDate: temp.LastProcessedDate,
				Active:            temp.Active,
			}
			if err := book.Registry.restorePayment(p); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("unknown record kind: %q", identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// Transactions restore after all accounts exist, whatever the file order.
	for _, tx := range txRecords {
		if err := book.Ledger.restoreTransaction(tx); err != nil {
			return nil, err
		}
	}
	book.Ledger.restoreDone()

	if book.currency == "" {
		book.currency = "USD"
	}
	return book, nil
}

// encodeRecord marshals a single record line with its discriminator first.
func encodeRecord(w io.Writer, kind recordKind, v any) error {
	var ow jsonObjectWriter
	ow.Append("record", kind)
	ow.EmbedFrom(v)
	data, err := ow.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal %s record: %w", kind, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write %s record: %w", kind, err)
	}
	return nil
}

// EncodeBook persists a book to an io.Writer in JSONL format: one book
// header, then each account followed by its transactions in insertion order,
// then the recurring payments.
func EncodeBook(w io.Writer, book *Book) error {
	decimal.MarshalJSONWithoutQuotes = true

	var header jsonObjectWriter
	header.Append("record", recordBook)
	header.Append("currency", book.Currency())
	data, err := header.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write book header: %w", err)
	}

	for _, a := range book.Ledger.Accounts() {
		if err := encodeRecord(w, recordAccount, a); err != nil {
			return err
		}
		txs, err := book.Ledger.Transactions(a.ID)
		if err != nil {
			return err
		}
		for _, tx := range txs {
			if err := encodeRecord(w, recordTransaction, tx); err != nil {
				return err
			}
		}
	}

	for _, p := range book.Registry.Payments() {
		if err := encodeRecord(w, recordRecurring, p); err != nil {
			return err
		}
	}
	return nil
}
